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
	"github.com/rjpontefract/b-em-sub001/hardware/preferences"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
)

const (
	// continuous tone required after silence before a start bit is
	// recognised
	phantomProtection = 100

	// leader tones that are passed as '1' before leader is skipped
	leaderSkip = 10

	// the motor must have been running this long before silence and leader
	// are stripped
	stripHoldoff = 800
)

// reader is the playback state of the tape.
type reader struct {
	leaderSkip   int
	startBitWait int
	sinceSilence int

	// four 1200ths make a bit at 300 baud
	tones300     [4]byte
	tones300Fill int

	// at 19200 baud only every sixteenth clock consumes a tone. the other
	// clocks repeat the last tone
	consumed19200 int
	last19200     byte

	rs423Leader int

	sinceMotor int

	// "end of tape" has been logged
	eofLogged bool
}

// ReadState is the part of the playback state saved with the serial ULA.
type ReadState struct {
	Prevailing   byte
	Tones300     [4]byte
	Tones300Fill int
}

// ReadState returns the playback state that is saved with the serial ULA.
func (t *Tape) ReadState() ReadState {
	return ReadState{
		Prevailing:   t.prevailing,
		Tones300:     t.rd.tones300,
		Tones300Fill: t.rd.tones300Fill,
	}
}

// SetReadState restores the playback state saved with the serial ULA. The
// state must have been validated by the caller.
func (t *Tape) SetReadState(s ReadState) {
	t.prevailing = s.Prevailing
	t.rd.tones300 = s.Tones300
	t.rd.tones300Fill = s.Tones300Fill
}

// readBackEnd returns the next tone from the preferred format and the time
// at which it starts.
func (t *Tape) readBackEnd() (byte, int32, error) {
	var tone byte
	var at int32
	var err error

	ft := t.playbackType()

	switch ft {
	case FileUEF:
		tone, at, err = t.uef.ReadTone()
	case FileCSW:
		tone, at, err = t.csw.ReadTone()
	case FileTIBET:
		tone, at, err = t.tibet.ReadTone()
	default:
		return tapeclock.ToneSilence, 0, curated.Errorf(tapeerr.EndOfTape)
	}

	if err != nil {
		if tapeerr.IsEOF(err) {
			if !t.rd.eofLogged {
				logger.Log(t.env, logTag, "end of tape")
				t.rd.eofLogged = true
			}
			return tapeclock.ToneSilence, at, err
		}
		return tone, at, curated.Errorf(CodecError, ft, err)
	}

	t.rd.eofLogged = false
	return tone, at, nil
}

// ToneFromBackEnd returns the next 1200th of tone from the tape, along with
// the time at which it starts.
//
// A short run of leader is returned as '1' tones. If the ACIA has been
// waiting for a start bit for long enough then '1' tones are returned as
// leader.
//
// If strip is true then silence and leader are skipped. Otherwise, if
// phantomProtection is true, a zero tone that follows a silence too closely
// is returned as leader so that it cannot be mistaken for a start bit.
func (t *Tape) ToneFromBackEnd(strip bool, awaitingStart bool, phantom bool) (byte, int32, error) {
	var tone byte
	var at int32
	var err error
	var inhibit bool

	for {
		tone, at, err = t.readBackEnd()
		if err != nil {
			if tapeerr.IsEOF(err) {
				tone = tapeclock.ToneSilence
				t.rd.leaderSkip = 0
			}
			return tone, at, err
		}

		switch {
		case tone == tapeclock.ToneZero || tone == tapeclock.ToneSilence:
			t.rd.leaderSkip = 0
		case tone == tapeclock.ToneLeader && t.rd.leaderSkip < leaderSkip:
			t.rd.leaderSkip++
			tone = tapeclock.ToneOne
		}

		if awaitingStart {
			if t.rd.startBitWait > tapeclock.CrudeLeaderDetect && tone == tapeclock.ToneOne {
				tone = tapeclock.ToneLeader
			}
			if !strip {
				if tone == tapeclock.ToneSilence {
					t.rd.sinceSilence = 0
				} else if t.rd.sinceSilence < phantomProtection {
					t.rd.sinceSilence++
					inhibit = true
				}
			}
			t.rd.startBitWait++
		} else {
			t.rd.startBitWait = 0
		}

		if tone == tapeclock.ToneZero || tone == tapeclock.ToneSilence {
			t.rd.startBitWait = 0
		}

		if !strip || (tone != tapeclock.ToneLeader && tone != tapeclock.ToneSilence) {
			break
		}
	}

	if inhibit && phantom {
		tone = tapeclock.ToneLeader
	}

	return tone, at, nil
}

// FireACIARxc is called by the serial ULA when the receive clock fires. The
// divider is the divider of the ACIA receive clock, which decides how many
// tones make a bit. A divider of 16 is 1200 baud, 64 is 300 baud and 1 is
// 19200 baud.
//
// The eof flag is set when the tape has run out. It is not an error.
func (t *Tape) FireACIARxc(a *acia.ACIA, divider int) (eof bool, err error) {
	if t.disabled != nil || t.finished {
		return true, nil
	}

	// the receiver hears silence while the tape is being written
	if t.record {
		t.prevailing = tapeclock.ToneSilence
		return false, a.ReceiveTone(tapeclock.ToneSilence)
	}

	strip := t.cfg.StripSilence && t.rd.sinceMotor >= stripHoldoff
	if t.rd.sinceMotor < stripHoldoff {
		t.rd.sinceMotor += divider / 16
	}

	var bit byte
	var ready bool

	switch divider {
	case 16, 1:
		fire := divider == 16 || t.rd.consumed19200 >= 15

		if divider == 1 {
			t.rd.consumed19200++
			bit = t.rd.last19200
			if bit == 0 {
				bit = tapeclock.ToneSilence
			}
		}

		if fire {
			t.rd.consumed19200 = 0

			var at int32
			bit, at, err = t.ToneFromBackEnd(strip, a.AwaitingStart(), t.cfg.PhantomProtection)
			if tapeerr.IsEOF(err) {
				eof = true
				err = nil
			}
			if err != nil {
				return false, t.fail(err)
			}
			if !eof {
				t.tallied = at
			}

			t.rd.tones300Fill = 0
			t.rd.last19200 = bit
		}

		t.prevailing = bit
		ready = true

	case 64:
		// the 300 baud window strips without waiting for the holdoff
		for i := 0; i < len(t.rd.tones300); i++ {
			tone, at, err := t.ToneFromBackEnd(t.cfg.StripSilence, a.AwaitingStart(), t.cfg.PhantomProtection)
			if tapeerr.IsEOF(err) {
				eof = true
				err = nil
			}
			if err != nil {
				return false, t.fail(err)
			}
			if !eof {
				t.tallied = at
			}

			t.prevailing = tone
			t.rd.tones300[t.rd.tones300Fill] = tone

			if asOne(tone) != asOne(t.rd.tones300[0]) {
				t.rd.tones300 = [4]byte{tone}
				t.rd.tones300Fill = 1
			} else if t.rd.tones300Fill == len(t.rd.tones300)-1 {
				ready = true
				bit = t.rd.tones300[0]
				t.rd.tones300Fill = 0
			} else {
				t.rd.tones300Fill++
			}
		}

	default:
		logger.Logf(t.env, logTag, "receive clock divider of %d is not supported", divider)
		return false, nil
	}

	if ready {
		if err := a.ReceiveTone(bit); err != nil {
			return eof, err
		}
	}

	if eof {
		t.endOfTape()
	}

	return eof, nil
}

func asOne(tone byte) byte {
	if tone == tapeclock.ToneLeader {
		return tapeclock.ToneOne
	}
	return tone
}

// endOfTape applies the end of tape policy.
func (t *Tape) endOfTape() {
	if t.record || t.fileType == FileNone {
		return
	}

	switch t.cfg.OnEOF {
	case preferences.EOFLoop:
		t.Rewind()
		_ = t.env.Notify(notifications.NotifyTapeRewound, "")
	case preferences.EOFStop:
		if !t.finished {
			t.finished = true
			logger.Log(t.env, logTag, "tape finished")
			_ = t.env.Notify(notifications.NotifyTapeFinished, "")
		}
	}
}

// RS423EatTone is called once every 1200th while the cassette motor is
// running and the serial ULA has selected RS423. The tape keeps moving and
// silence is sent to the record side.
func (t *Tape) RS423EatTone(a *acia.ACIA) (eof bool, err error) {
	if t.disabled != nil {
		return false, nil
	}

	duration := t.Duration()

	var tone byte
	if !t.record && !t.finished {
		var at int32
		tone, at, err = t.ToneFromBackEnd(false, false, false)
		if tapeerr.IsEOF(err) {
			eof = true
			err = nil
		}
		if err != nil {
			return false, t.fail(err)
		}
		if !eof {
			t.tallied = at
		}
	}

	if tone != 0 {
		t.prevailing = tone
	}

	if tone == tapeclock.ToneOne {
		if t.rd.rs423Leader <= tapeclock.CrudeLeaderDetect {
			t.rd.rs423Leader++
		}
	} else {
		t.rd.rs423Leader = 0
	}

	err = t.WriteBitClock(a, tapeclock.ToneSilence, tapeclock.ToneNS)
	if err != nil {
		return eof, err
	}

	if !t.record && t.tallied > duration {
		return eof, curated.Errorf(TallyOverrun, t.tallied, duration)
	}

	if eof {
		t.endOfTape()
	}

	return eof, nil
}

// Leader returns true if the RS423 side of the tape has seen enough
// continuous '1' tones to call it leader.
func (t *Tape) Leader() bool {
	return t.rd.rs423Leader > tapeclock.CrudeLeaderDetect
}

// ResetStartBitWait forgets any tone counted towards phantom block
// protection. Called when the serial ULA is reset.
func (t *Tape) ResetStartBitWait() {
	t.rd.startBitWait = 0
}
