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

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinel error patterns.
const (
	StateLength  = "serial: save state: wrong length (%d bytes)"
	StateCorrupt = "serial: save state: corrupt %s (%d)"

	SinkWrite  = "serial: sink: %v"
	DeviceOpen = "serial: device: %v"
	BadBaud    = "serial: unsupported baud rate (%d)"

	NoTape       = "serial: BUG: tape transport selected without a tape"
	NoSink       = "serial: BUG: file sink transport selected without a sink"
	BadTransport = "serial: BUG: unknown transport (%d)"
)

var _ = tapeerr.Register(tapeerr.LengthMismatch, StateLength)
var _ = tapeerr.Register(tapeerr.FieldRange, StateCorrupt, BadBaud)
var _ = tapeerr.Register(tapeerr.IO, SinkWrite, DeviceOpen)
var _ = tapeerr.Register(tapeerr.Bug, NoTape, NoSink, BadTransport)
