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

package acia

import (
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
)

// SnapshotLength is the length of the record returned by Snapshot().
const SnapshotLength = 26

func boolByte(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

// Snapshot returns the state of the ACIA as a fixed length record suitable
// for a save state.
func (a *ACIA) Snapshot() []byte {
	b := make([]byte, SnapshotLength)
	b[0] = a.control
	b[1] = a.status
	b[2] = boolByte(a.lineCTS)
	b[3] = boolByte(a.lineDCD)
	b[4] = a.rxData
	b[5] = a.txData
	b[6] = a.rx.count
	b[7] = a.rx.shift
	b[8] = boolByte(a.rx.overflow)
	b[9] = boolByte(a.rx.parityError)
	b[10] = boolByte(a.rx.framingError)
	b[11] = uint8(a.rx.state)
	b[12] = boolByte(a.rx.parity)
	tapebytes.WriteU32(b[13:], uint32(a.rxcCount))
	tapebytes.WriteU32(b[17:], uint32(a.txcCount))
	b[21] = a.tx.value
	b[22] = uint8(a.tx.shift)
	b[23] = boolByte(a.tx.loaded)
	b[24] = boolByte(a.tx.dataLoaded)
	b[25] = boolByte(a.tx.waitingTDRE)
	return b
}

// Restore the state of the ACIA from a record created by Snapshot(). The ACIA
// is unchanged if the record is rejected.
func (a *ACIA) Restore(b []byte) error {
	if len(b) != SnapshotLength {
		return curated.Errorf(StateLength, len(b))
	}

	for _, f := range []struct {
		idx  int
		name string
	}{
		{2, "CTS line"},
		{3, "DCD line"},
		{8, "overflow flag"},
		{9, "parity error flag"},
		{10, "framing error flag"},
		{12, "parity accumulator"},
		{23, "shift register loaded flag"},
		{24, "data register loaded flag"},
		{25, "TDRE wait flag"},
	} {
		if b[f.idx] > 1 {
			return curated.Errorf(StateCorrupt, f.name, b[f.idx])
		}
	}

	state := RxState(int8(b[11]))
	if !state.valid() {
		return curated.Errorf(StateCorrupt, "receiver state", b[11])
	}
	if b[22] > 9 {
		return curated.Errorf(StateCorrupt, "transmit shift", b[22])
	}

	a.control = b[0]
	a.status = b[1]
	a.lineCTS = b[2] == 1
	a.lineDCD = b[3] == 1
	a.rxData = b[4]
	a.txData = b[5]
	a.rx.count = b[6]
	a.rx.shift = b[7]
	a.rx.overflow = b[8] == 1
	a.rx.parityError = b[9] == 1
	a.rx.framingError = b[10] == 1
	a.rx.state = state
	a.rx.parity = b[12] == 1
	a.rxcCount = int32(tapebytes.ReadU32(b[13:]))
	a.txcCount = int32(tapebytes.ReadU32(b[17:]))
	a.tx.value = b[21]
	a.tx.shift = int8(b[22])
	a.tx.loaded = b[23] == 1
	a.tx.dataLoaded = b[24] == 1
	a.tx.waitingTDRE = b[25] == 1

	a.update()

	return nil
}
