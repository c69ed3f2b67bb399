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

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinel error patterns returned by this package.
const (
	CodecError      = "tape: %s: %v"
	Disabled        = "tape: disabled: %v"
	UnknownFileType = "tape: unrecognised file type (%s)"
	SaveFileType    = "tape: cannot save %v: tape holds %v"
	RecordRefused   = "tape: cannot record: %v"

	BadFileType   = "tape: BUG: unexpected file type (%v)"
	ZeroBitPeriod = "tape: BUG: zero length bit period"
	NotLoaded     = "tape: BUG: transmit shift register is empty"
	PendingSpan   = "tape: BUG: data span is %s"
	TallyOverrun  = "tape: BUG: elapsed time (%d) is beyond the end of the tape (%d)"
	Timestamps    = "tape: BUG: recorded tape is inconsistent: %v"
)

var _ = tapeerr.Register(tapeerr.IO, UnknownFileType)
var _ = tapeerr.Register(tapeerr.FieldRange, SaveFileType, RecordRefused)
var _ = tapeerr.Register(tapeerr.Bug, BadFileType, ZeroBitPeriod, NotLoaded, PendingSpan,
	TallyOverrun, Timestamps)
