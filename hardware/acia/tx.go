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
	"fmt"

	"github.com/rjpontefract/b-em-sub001/curated"
)

type transmitter struct {
	// the shift register
	value  uint8
	shift  int8
	loaded bool

	// the data register holds a byte that has not reached the shift
	// register
	dataLoaded bool

	// TDRE is set half a bit period after the data register is copied to
	// the shift register
	waitingTDRE bool

	// true if an odd number of one bits have been shifted out
	oddOnes bool
}

func (tx transmitter) String() string {
	return fmt.Sprintf("sr=%02x/%d/%v dr=%v", tx.value, tx.shift, tx.loaded, tx.dataLoaded)
}

// PollTxClock should be called at twice the transmit bit rate. TDRE is
// acknowledged on the first half-bit after the data register has been copied
// to the shift register. fullBit is true once every two calls, at which point
// RunTxShiftRegister() should be called. The divider is 1, 16 or 64.
func (a *ACIA) PollTxClock() (fullBit bool, divider int) {
	switch a.control & ControlDivider {
	case 0x00:
		divider = 1
	case 0x01:
		divider = 16
	default:
		divider = 64
	}

	d := int32(divider) * 2

	// the divider may have changed since the last call
	for a.txcCount > d {
		a.txcCount -= d
	}

	var halfBit bool

	switch a.txcCount {
	case d:
		fullBit = true
		halfBit = true
		a.txcCount = 0
	case int32(divider):
		halfBit = true
	}

	if halfBit && a.tx.waitingTDRE {
		a.tx.waitingTDRE = false
		a.status |= StatusTDRE
		a.update()
	}

	a.txcCount++

	return fullBit, divider
}

// RunTxShiftRegister advances the shift register by one bit period. If the
// shift register is loaded then the bit at the bottom of the register after
// the shift is returned as '0' or '1'. Otherwise the returned bit is zero.
//
// When the shift register is empty and the data register is loaded, the data
// register is copied into the shift register.
func (a *ACIA) RunTxShiftRegister(f Framing) (bit byte, err error) {
	if a.tx.loaded {
		if f.DataBits != 7 && f.DataBits != 8 {
			return 0, curated.Errorf(BadFraming, f.DataBits)
		}

		if a.tx.shift > 0 {
			a.tx.value >>= 1
		}

		switch {
		case int(a.tx.shift) < 1+f.DataBits:
			a.tx.shift++
		case int(a.tx.shift) == 1+f.DataBits:
			// frame done
			a.tx.loaded = false
			a.tx.shift = 0
		default:
			return 0, curated.Errorf(BadShift, a.tx.shift)
		}

		bit = '0'
		if a.tx.value&0x01 == 0x01 {
			bit = '1'
		}
	}

	if !a.tx.loaded && a.tx.dataLoaded {
		a.tx.value = a.txData
		a.tx.loaded = true
		a.tx.shift = 0
		a.tx.dataLoaded = false
		a.tx.waitingTDRE = true
		a.update()
	}

	return bit, nil
}

// ResetTxShiftRegister empties the shift register. The data register is
// unaffected.
func (a *ACIA) ResetTxShiftRegister() {
	a.tx.value = 0
	a.tx.shift = 0
	a.tx.loaded = false
}

// TxShiftRegister returns the state of the transmit shift register.
func (a *ACIA) TxShiftRegister() (value uint8, shift int, loaded bool) {
	return a.tx.value, int(a.tx.shift), a.tx.loaded
}

// TxDataLoaded returns true if the data register holds a byte that has not
// yet been copied to the shift register.
func (a *ACIA) TxDataLoaded() bool {
	return a.tx.dataLoaded
}

// ClearTxParity resets the parity of the frame being transmitted.
func (a *ACIA) ClearTxParity() {
	a.tx.oddOnes = false
}

// AccumulateTxParity adds a transmitted data bit to the parity of the frame.
func (a *ACIA) AccumulateTxParity(bit byte) {
	if bit == '1' {
		a.tx.oddOnes = !a.tx.oddOnes
	}
}

// TxParityBit returns the parity bit, as '0' or '1', for the data bits
// transmitted since the last call to ClearTxParity().
func (a *ACIA) TxParityBit(parity byte) byte {
	if (parity == 'E' && a.tx.oddOnes) || (parity == 'O' && !a.tx.oddOnes) {
		return '1'
	}
	return '0'
}
