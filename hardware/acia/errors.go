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

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinel error patterns.
const (
	BadDivider    = "acia: BUG: bad clock divider in control register (&%02x)"
	BadRxState    = "acia: BUG: receiver in bad state (%d)"
	DirtyReceiver = "acia: BUG: start bit with non-zero %s (%d)"
	BadTone       = "acia: BUG: bad tone (&%02x)"
	BadShift      = "acia: BUG: illegal transmit shift (%d)"
	BadFraming    = "acia: BUG: illegal framing (%d data bits)"

	StateLength  = "acia: save state: wrong length (%d bytes)"
	StateCorrupt = "acia: save state: corrupt %s (&%02x)"

	ResetFlush = "acia: master reset: %v"
)

var _ = tapeerr.Register(tapeerr.Bug, BadDivider, BadRxState, DirtyReceiver, BadTone, BadShift, BadFraming)
var _ = tapeerr.Register(tapeerr.LengthMismatch, StateLength)
var _ = tapeerr.Register(tapeerr.FieldRange, StateCorrupt)
