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

import "fmt"

// Framing describes the shape of a serial frame.
type Framing struct {
	DataBits int
	StopBits int

	// 'N', 'E' or 'O'
	Parity byte

	// nominal baud rate, e.g. 1200 rather than 1201.9. not set by
	// FramingFor()
	NominalBaud int
}

func (f Framing) String() string {
	return fmt.Sprintf("%d%c%d", f.DataBits, f.Parity, f.StopBits)
}

// FrameLength returns the number of bits in a frame, including the start bit.
func (f Framing) FrameLength() int {
	n := 1 + f.DataBits + f.StopBits
	if f.Parity != 'N' {
		n++
	}
	return n
}

// word select bits of the control register
var framings = [8]Framing{
	{DataBits: 7, StopBits: 2, Parity: 'E'},
	{DataBits: 7, StopBits: 2, Parity: 'O'},
	{DataBits: 7, StopBits: 1, Parity: 'E'},
	{DataBits: 7, StopBits: 1, Parity: 'O'},
	{DataBits: 8, StopBits: 2, Parity: 'N'},
	{DataBits: 8, StopBits: 1, Parity: 'N'},
	{DataBits: 8, StopBits: 1, Parity: 'E'},
	{DataBits: 8, StopBits: 1, Parity: 'O'},
}

// FramingFor returns the framing selected by a control register value.
func FramingFor(control uint8) Framing {
	return framings[(control&ControlWordSelect)>>2]
}
