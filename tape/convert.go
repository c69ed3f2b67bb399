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
	"github.com/rjpontefract/b-em-sub001/hardware/acia"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
)

// 8N1 with the clock divided by one. one tone is one bit
const convertControl = 0x14

// Convert plays a copy of the tape into the record side of a new blank tape
// through a pair of ACIAs, one receiving from the source and one
// transmitting to the destination. The new tape holds the recording in every
// format.
//
// Data is assumed to be 8N1 at 1200 baud. Silence and leader are preserved.
// Data is delayed by the length of one frame because a byte can only be
// transmitted once it has been received in full.
func (t *Tape) Convert() (*Tape, error) {
	src, err := t.Clone()
	if err != nil {
		return nil, err
	}
	src.Rewind()

	dst := NewTape(t.env)
	dst.SetConfig(t.cfg)

	rx := acia.NewACIA(nil, "convert rx", nil)
	tx := acia.NewACIA(nil, "convert tx", nil)
	tx.SetTransport(dst)
	if err := rx.Write(acia.ControlRegister, convertControl); err != nil {
		return nil, err
	}
	if err := tx.Write(acia.ControlRegister, convertControl); err != nil {
		return nil, err
	}

	if err := dst.SetRecord(true, tx); err != nil {
		return nil, err
	}

	f := tx.Framing()

	step := func(tone byte) error {
		bit, err := tx.RunTxShiftRegister(f)
		if err != nil {
			return err
		}
		_, _, loaded := tx.TxShiftRegister()
		if tone == tapeclock.ToneSilence && !loaded && !tx.TxDataLoaded() {
			bit = tapeclock.ToneSilence
		}
		return dst.WriteBitClock(tx, bit, tapeclock.ToneNS)
	}

	var n int

	for {
		tone, _, err := src.ToneFromBackEnd(false, rx.AwaitingStart(), false)
		if tapeerr.IsEOF(err) {
			break
		}
		if err != nil {
			return nil, err
		}

		if tone != tapeclock.ToneSilence {
			if err := rx.ReceiveTone(tone); err != nil {
				return nil, err
			}
			if rx.Status()&acia.StatusRDRF == acia.StatusRDRF {
				if err := tx.Write(acia.DataRegister, rx.Read(acia.DataRegister)); err != nil {
					return nil, err
				}
				n++
			}
		}

		if err := step(tone); err != nil {
			return nil, err
		}
	}

	// drain the transmitter
	for {
		_, _, loaded := tx.TxShiftRegister()
		if !loaded && !tx.TxDataLoaded() {
			break
		}
		if err := step(tapeclock.ToneOne); err != nil {
			return nil, err
		}
	}

	if err := dst.SetRecord(false, tx); err != nil {
		return nil, err
	}

	logger.Logf(t.env, logTag, "converted %d bytes", n)

	return dst, nil
}
