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

package csw

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinal errors.
const (
	HeaderTruncated   = "csw: header is truncated"
	BadMagic          = "csw: bad magic"
	BadVersion        = "csw: unsupported version %d.%d"
	BadRate           = "csw: bad sample rate (%d)"
	HeaderNumPulses   = "csw: bad number of pulses in header (%d)"
	CompressionValue  = "csw: bad compression value (%d)"
	BadFlags          = "csw: bad flags value (%#02x)"
	BodyTooLarge      = "csw: raw body is too large (%d bytes)"
	Truncated         = "csw: body is truncated"
	LongPulseUnder256 = "csw: extended pulse has duration less than 256 (%d)"
	PulsesMismatch    = "csw: pulses in body (%d) does not match header (%d)"
	ZeroPulse         = "csw: zero length pulse"
	SeekRange         = "csw: BUG: seek to pulse %d of %d"
	Decompress        = "csw: %v"
	Compress          = "csw: %v"
)

var _ = tapeerr.Register(tapeerr.Truncated, HeaderTruncated, Truncated)
var _ = tapeerr.Register(tapeerr.BadMagic, BadMagic)
var _ = tapeerr.Register(tapeerr.BadVersion, BadVersion)
var _ = tapeerr.Register(tapeerr.FieldRange, BadRate, HeaderNumPulses, CompressionValue, BadFlags, LongPulseUnder256, ZeroPulse)
var _ = tapeerr.Register(tapeerr.OutOfMemory, BodyTooLarge)
var _ = tapeerr.Register(tapeerr.LengthMismatch, PulsesMismatch)
var _ = tapeerr.Register(tapeerr.Bug, SeekRange)
