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
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
)

// RxState is the state of the receiver.
type RxState int8

// List of valid RxState values.
const (
	RxNull RxState = iota
	RxNeedStart
	RxNeedData
	RxNeedParity
	RxNeedStop
)

func (s RxState) String() string {
	switch s {
	case RxNull:
		return "null"
	case RxNeedStart:
		return "start"
	case RxNeedData:
		return "data"
	case RxNeedParity:
		return "parity"
	case RxNeedStop:
		return "stop"
	}
	return "invalid"
}

func (s RxState) valid() bool {
	return s >= RxNull && s <= RxNeedStop
}

type receiver struct {
	state RxState
	shift uint8
	count uint8

	// true if an odd number of one bits have been received
	parity bool

	// sticky errors for the frame being received
	overflow     bool
	parityError  bool
	framingError bool
}

func (rx *receiver) clear() {
	rx.shift = 0
	rx.count = 0
	rx.parity = false
	rx.parityError = false
	rx.framingError = false
}

// AwaitingStart returns true if the receiver is waiting for a start bit.
func (a *ACIA) AwaitingStart() bool {
	return a.rx.state == RxNeedStart
}

// FrameReady returns true if the receiver is waiting for the stop bit.
func (a *ACIA) FrameReady() bool {
	return a.rx.state == RxNeedStop
}

// PollRxClock should be called at the rate of the receive clock from the
// serial ULA. fire is true when the divided clock fires, at which point the
// next bit should be given to ReceiveBit(). The divider is 1, 16 or 64.
func (a *ACIA) PollRxClock() (fire bool, divider int, err error) {
	switch a.control & ControlDivider {
	case 0x00:
		divider = 1
	case 0x01:
		divider = 16
	case 0x02:
		divider = 64
	default:
		return false, 0, curated.Errorf(BadDivider, a.control)
	}

	if a.rxcCount >= int32(divider) {
		a.rxcCount = 0
		fire = true
	}
	a.rxcCount++

	return fire, divider, nil
}

// ReceiveTone receives a tone from the tape. Silence and leader are received
// as a one bit.
func (a *ACIA) ReceiveTone(tone byte) error {
	if !tapeclock.LegalTone(tone) {
		return curated.Errorf(BadTone, tone)
	}
	if tone == tapeclock.ToneZero {
		return a.ReceiveBit(0)
	}
	return a.ReceiveBit(1)
}

// ReceiveBit advances the receiver by one bit.
func (a *ACIA) ReceiveBit(bit uint8) error {
	switch a.rx.state {
	case RxNeedStart:
		if bit != 0 {
			return nil
		}

		a.rx.state = RxNeedData

		switch {
		case a.rx.shift != 0:
			return curated.Errorf(DirtyReceiver, "shift register", a.rx.shift)
		case a.rx.count != 0:
			return curated.Errorf(DirtyReceiver, "shift count", a.rx.count)
		case a.rx.parity:
			return curated.Errorf(DirtyReceiver, "parity", 1)
		case a.rx.parityError:
			return curated.Errorf(DirtyReceiver, "parity error", 1)
		case a.rx.framingError:
			return curated.Errorf(DirtyReceiver, "framing error", 1)
		}

	case RxNeedData:
		if bit != 0 {
			a.rx.shift |= 1 << a.rx.count
			a.rx.parity = !a.rx.parity
		}
		a.rx.count++

		if a.control&ControlEightBits == ControlEightBits {
			if a.rx.count == 8 {
				if a.control&ControlParity8 == ControlParity8 {
					a.rx.state = RxNeedParity
				} else {
					a.rx.state = RxNeedStop
				}
			}
		} else if a.rx.count == 7 {
			a.rx.state = RxNeedParity
		}

	case RxNeedParity:
		if bit != 0 {
			a.rx.parity = !a.rx.parity
		}

		// a parity error does not stop the frame
		if a.rx.parity != (a.control&ControlOddParity == ControlOddParity) {
			a.rx.parityError = true
		}
		a.rx.state = RxNeedStop

	case RxNeedStop:
		if bit != 1 {
			a.rx.framingError = true
		}
		a.transferShiftRegister()
		a.rx.state = RxNeedStart

	default:
		return curated.Errorf(BadRxState, a.rx.state)
	}

	return nil
}

// transferShiftRegister moves a completed frame into the data register. If
// the data register has not been read then the frame is lost and the overrun
// is raised once the data register is next read.
func (a *ACIA) transferShiftRegister() {
	if a.status&StatusRDRF == StatusRDRF {
		if !a.fullWarned {
			logger.Logf(a.env, "acia", "%s: receive buffer full", a.name)
			a.fullWarned = true
		}
		a.rx.overflow = true
	} else {
		a.fullWarned = false
		a.rxData = a.rx.shift
		a.status |= StatusRDRF
		a.status &^= StatusFE | StatusPE
		if a.rx.parityError {
			a.status |= StatusPE
		}
		if a.rx.framingError {
			a.status |= StatusFE
		}
	}

	a.rx.clear()
	a.rxcCount = 0
	a.update()
}
