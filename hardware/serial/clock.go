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
	"github.com/rjpontefract/b-em-sub001/hardware/acia"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
)

// Tick2MHz advances the ULA by the number of 2 MHz cycles. The eof flag is
// set if the tape ran out during the cycles. It is never set when the tape is
// recording or when no tape is loaded.
func (u *ULA) Tick2MHz(cycles int) (eof bool, err error) {
	if u.ctrl&ControlRS423 == ControlRS423 {
		if u.motor {
			eof, err = u.tickRS423(cycles)
		} else {
			u.tickRS423Idle(cycles)
		}
	} else {
		eof, err = u.tickTape(cycles)
	}

	if u.tape == nil || u.tape.Record() || !u.tape.Loaded() {
		eof = false
	}

	return eof, err
}

// clock advances the divided clocks by one 2 MHz cycle and says which of them
// fire.
func (u *ULA) clock() (rxc bool, txc bool, dcd bool) {
	u.rxNS += 500
	u.txNS += 500
	u.dcdCount++

	if u.dcdCount >= DCDBlip2MHz {
		dcd = true
		u.dcdCount = 0
	}

	// a save state can leave the counters at any value so a clock that is
	// still beyond its threshold is reset rather than allowed to fire twice
	if u.rxNS > u.rxThresh {
		rxc = true
		u.rxNS -= u.rxThresh
		if u.rxNS > u.rxThresh {
			u.rxNS = 0
		}
	}

	if u.txNS > u.txThresh {
		txc = true
		u.txNS -= u.txThresh
		if u.txNS > u.txThresh {
			u.txNS = 0
		}
	}

	return rxc, txc, dcd
}

func (u *ULA) tickTape(cycles int) (eof bool, err error) {
	for i := 0; i < cycles; i++ {
		rxc, txc, dcd := u.clock()

		if rxc && u.motor {
			var e bool
			e, err = u.RxClockForTape()
			if err != nil {
				return eof, err
			}
			eof = eof || e
		}

		if txc {
			err = u.TxClockForTape()
			if err != nil {
				return eof, err
			}
		}

		if dcd {
			u.HandleDCDTick()
		}
	}

	return eof, nil
}

// RxClockForTape is called when the ULA's receive clock fires. The ACIA's
// own divider decides whether a tone is taken from the tape.
func (u *ULA) RxClockForTape() (eof bool, err error) {
	fire, divider, err := u.acia.PollRxClock()
	if err != nil {
		return false, err
	}
	if !fire || u.tape == nil {
		return false, nil
	}
	return u.tape.FireACIARxc(u.acia, divider)
}

// TxClockForTape is called on both edges of the ULA's transmit clock. Every
// second call moves a bit out of the ACIA, and if the motor is running the
// bit is given to the tape.
func (u *ULA) TxClockForTape() error {
	f := u.acia.Framing()

	full, aciaDivider := u.acia.PollTxClock()
	if !full {
		return nil
	}

	bit, err := u.acia.RunTxShiftRegister(f)
	if err != nil {
		return err
	}

	if !u.motor || u.tape == nil || u.transport != TransportTape {
		return nil
	}

	// carrier is switched off by the transmit control bits of the ACIA
	if u.acia.Control()&acia.ControlTx == acia.ControlNoRTS {
		bit = tapeclock.ToneSilence
	}

	nsPerBit := (13 * int64(aciaDivider) * int64(u.txDivider) * 1000) / 16
	return u.tape.WriteBitClock(u.acia, bit, nsPerBit)
}

// HandleDCDTick is called once every DCD blip. While the motor is running
// the DCD line goes high after a period of continuous tone.
func (u *ULA) HandleDCDTick() {
	if u.motor {
		fast := u.overclock()
		if u.tape != nil {
			fast = fast || u.tape.Config().StripSilence
		}
		u.pollBlips(fast)
	} else {
		u.dcdTape = false
	}
	u.pushLines()
}

// pollBlips counts DCD blips of continuous tone. DCD is a pulse one blip long
// that happens once the count is reached. A zero or silence starts the count
// again.
func (u *ULA) pollBlips(fast bool) {
	n := int32(DCDBlipsSlow)
	if fast {
		n = DCDBlipsFast
	}

	var tone byte
	if u.tape != nil {
		tone = u.tape.PrevailingTone()
	}

	u.dcdTape = false

	if tone == tapeclock.ToneZero || tone == tapeclock.ToneSilence {
		u.blips = 0
	}

	if u.blips < n {
		u.blips++
	} else if u.blips == n {
		u.dcdTape = true
		u.blips++
	}
}

// tickRS423 advances the ULA while RS423 is selected and the motor is
// running. The tape keeps moving and its DCD logic keeps running but DCD is
// not seen by the ACIA.
func (u *ULA) tickRS423(cycles int) (eof bool, err error) {
	for i := 0; i < cycles; i++ {
		if u.taperoll >= Tone2MHz && u.tape != nil {
			var e bool
			e, err = u.tape.RS423EatTone(u.acia)
			if err != nil {
				return eof, err
			}
			eof = eof || e
		}

		if u.dcdCount >= DCDBlip2MHz {
			u.dcdCount = 0
			u.pollBlips(u.tape != nil && u.tape.Config().StripSilence)
		}

		if u.taperoll >= Tone2MHz {
			u.taperoll = 0
		}

		u.taperoll++
		u.dcdCount++
	}

	u.pushLines()

	return eof, nil
}

// tickRS423Idle keeps the tape roll counter running while RS423 is selected
// and the motor is off.
func (u *ULA) tickRS423Idle(cycles int) {
	for i := 0; i < cycles; i++ {
		if u.taperoll >= Tone2MHz {
			u.taperoll = 0
		}
		u.taperoll++
	}
}
