// This file is part of b-em-sub001.
//
// b-em-sub001 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// b-em-sub001 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with b-em-sub001.  If not, see <https://www.gnu.org/licenses/>.

package serial

import (
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/tape"
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
)

// SnapshotLength is the length of the record returned by Snapshot().
const SnapshotLength = 28

// Snapshot returns the state of the ULA, and the part of the tape's playback
// state that belongs with it, as a fixed length record.
func (u *ULA) Snapshot() []byte {
	var rs tape.ReadState
	if u.tape != nil {
		rs = u.tape.ReadState()
	}

	b := make([]byte, SnapshotLength)
	b[0] = u.ctrl
	b[1] = rs.Prevailing
	copy(b[2:6], rs.Tones300[:])
	b[6] = uint8(rs.Tones300Fill) & 0x7f
	tapebytes.WriteU32(b[7:], uint32(u.rxNS))
	tapebytes.WriteU32(b[11:], uint32(u.txNS))
	if u.dcdTape {
		b[15] = 1
	}
	tapebytes.WriteU32(b[16:], uint32(u.dcdCount))
	tapebytes.WriteU32(b[20:], uint32(u.blips))
	tapebytes.WriteU32(b[24:], uint32(u.taperoll))
	return b
}

// Restore the state of the ULA from a record created by Snapshot(). Nothing
// is changed if the record is rejected.
//
// The control register is restored with Write() so the motor relay and the
// ACIA lines follow the restored value.
func (u *ULA) Restore(b []byte) error {
	if len(b) != SnapshotLength {
		return curated.Errorf(StateLength, len(b))
	}

	var rs tape.ReadState

	rs.Prevailing = b[1]
	if rs.Prevailing != 0 && !tapeclock.LegalTone(rs.Prevailing) {
		return curated.Errorf(StateCorrupt, "prevailing tone", rs.Prevailing)
	}

	for i := range rs.Tones300 {
		v := b[2+i]
		if v != 0 && !tapeclock.LegalTone(v) {
			return curated.Errorf(StateCorrupt, "300 baud tone", v)
		}
		rs.Tones300[i] = v
	}

	rs.Tones300Fill = int(b[6])
	if rs.Tones300Fill >= len(rs.Tones300) {
		return curated.Errorf(StateCorrupt, "300 baud tone count", rs.Tones300Fill)
	}

	ctrl := b[0]
	_, _, rxThresh, txThresh := thresholds(ctrl, u.overclock())

	rxNS := int32(tapebytes.ReadU32(b[7:]))
	if rxNS < 0 || rxNS > rxThresh {
		return curated.Errorf(StateCorrupt, "receive clock", rxNS)
	}

	txNS := int32(tapebytes.ReadU32(b[11:]))
	if txNS < 0 || txNS > txThresh {
		return curated.Errorf(StateCorrupt, "transmit clock", txNS)
	}

	if b[15] > 1 {
		return curated.Errorf(StateCorrupt, "DCD line", b[15])
	}

	dcdCount := int32(tapebytes.ReadU32(b[16:]))
	if dcdCount < 0 || dcdCount > DCDBlip2MHz {
		return curated.Errorf(StateCorrupt, "DCD blip counter", dcdCount)
	}

	blips := int32(tapebytes.ReadU32(b[20:]))
	if blips < 0 || blips > DCDBlipsSlow+1 {
		return curated.Errorf(StateCorrupt, "DCD blips", blips)
	}

	taperoll := int32(tapebytes.ReadU32(b[24:]))
	if taperoll < 0 || taperoll > Tone2MHz {
		return curated.Errorf(StateCorrupt, "tape roll counter", taperoll)
	}

	u.dcdTape = b[15] == 1
	u.Write(ctrl)
	u.rxNS = rxNS
	u.txNS = txNS
	u.dcdCount = dcdCount
	u.blips = blips
	u.taperoll = taperoll

	if u.tape != nil {
		u.tape.SetReadState(rs)
	}

	return nil
}
