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

package tape

import (
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/hardware/acia"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/uef"
)

// SetRecord switches record mode on or off. A disabled tape cannot record.
//
// Switching record off writes any pending piece of the recording to the tape
// and rewinds it. The ACIA may be nil.
func (t *Tape) SetRecord(on bool, a *acia.ACIA) error {
	if on == t.record {
		return nil
	}

	if on {
		if t.disabled != nil {
			return curated.Errorf(RecordRefused, t.disabled)
		}

		t.record = true
		if len(t.uef.Chunks()) > 0 {
			t.wr.prevailingBaud = t.uef.ScanBackwardsFor117(len(t.uef.Chunks()) - 1)
		}
		t.tallied = t.Duration()
		t.finished = false

		logger.Log(t.env, logTag, "record on")
		_ = t.env.Notify(notifications.NotifyRecordModeChanged, "on")
		return nil
	}

	err := t.FlushPendingPiece(a)

	t.record = false
	t.Rewind()

	if err == nil {
		if verr := t.uef.VerifyTimestamps(); verr != nil {
			err = curated.Errorf(Timestamps, verr)
		}
	}

	logger.Log(t.env, logTag, "record off")
	_ = t.env.Notify(notifications.NotifyRecordModeChanged, "off")

	return t.fail(err)
}

// FlushPendingPiece writes any accumulated leader, silence or data to the
// tape. The ACIA may be nil.
func (t *Tape) FlushPendingPiece(a *acia.ACIA) error {
	if t.disabled != nil {
		return nil
	}

	var err error

	switch {
	case t.wr.leaderNS > 0:
		err = t.flushLeader()
		t.wr.leaderNS = 0
	case t.wr.silenceNS > tapeclock.ToneNS:
		err = t.writeSilence(float64(t.wr.silenceNS)/1e9, t.Duration())
		t.wr.silenceNS = 0
		t.uef.FastForward()
	default:
		err = t.endDataIfOngoing(nil)
		if a != nil {
			a.ResetTxShiftRegister()
		}
	}

	t.wr.uefChunk = nil

	return err
}

// HandleMasterReset is called when the ACIA is reset. A frame that is being
// assembled for the UEF is flushed so that it does not become the start of
// the next chunk. If a data section is still open then a new chunk is started
// to receive the rest of it.
func (t *Tape) HandleMasterReset() error {
	if t.fileType&FileUEF != FileUEF || t.wr.phase == 0 {
		return nil
	}

	c := t.wr.uefChunk
	err := t.flushIncompleteFrame()
	if err != nil {
		return t.fail(err)
	}

	if t.wr.mustEndData && c != nil {
		n := uef.NewChunk(c.Type, t.Duration())
		if c.Type == uef.ChunkFramed && len(c.Data) >= 3 {
			n.Data = append(n.Data, c.Data[:3]...)
		}
		t.wr.uefChunk = &n
		t.tallied = n.Span.Start
	}

	return nil
}

// TransmitByte implements the acia.Transport interface. The tape takes bits
// from the shift register so whole bytes are ignored.
func (t *Tape) TransmitByte(_ uint8) error {
	return nil
}

// ImmediateConsume implements the acia.Transport interface.
func (t *Tape) ImmediateConsume() bool {
	return false
}

// MasterReset implements the acia.Transport interface.
func (t *Tape) MasterReset() error {
	return t.HandleMasterReset()
}

// TransmitEnd implements the acia.Transport interface.
func (t *Tape) TransmitEnd() error {
	if !t.record {
		return nil
	}
	return t.FlushPendingPiece(nil)
}
