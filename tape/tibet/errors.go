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

package tibet

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinal errors.
const (
	LineError = "tibet: line %d: %v"

	BadChar           = "tibet: illegal character (%#02x)"
	VersionNoSpace    = "tibet: no space in version line"
	VersionWord       = "tibet: bad version word (%s)"
	VersionLength     = "tibet: version has bad length (%s)"
	VersionNonNumeric = "tibet: version is not numeric (%s)"
	VersionPoint      = "tibet: version has bad decimal point (%s)"
	VersionMajor      = "tibet: major version (%d) is incompatible with decoder (%d)"
	VersionMinor      = "tibet: minor version (%d) is newer than decoder (%d)"
	VersionMismatch   = "tibet: version mismatch (%d.%d vs %d.%d)"
	VersionAbsent     = "tibet: version line not found"

	UnknownWord       = "tibet: unrecognised keyword (%s)"
	MissingValue      = "tibet: %s has no value"
	FieldIncompatible = "tibet: %s hint illegally supplied for %s span"
	DuplicateHint     = "tibet: %s specified twice for same span"
	DanglingHint      = "tibet: %s following final span"
	Unterminated      = "tibet: data span is not terminated"

	DecimalTooLong   = "tibet: decimal is too long (%s)"
	DecimalPoints    = "tibet: multiple decimal points in decimal (%s)"
	DecimalPointEnds = "tibet: decimal point at end of decimal (%s)"
	DecimalBadChar   = "tibet: illegal character in decimal (%s)"
	DecimalParse     = "tibet: error parsing decimal (%s)"
	IntTooLong       = "tibet: integer is too long (%s)"
	IntBadChar       = "tibet: illegal character in integer (%s)"
	IntParse         = "tibet: error parsing integer (%s)"

	LongSilence  = "tibet: silence is too long (%s)"
	LongLeader   = "tibet: leader is too long (%s)"
	BadBaud      = "tibet: illegal baud rate (%s)"
	BadFraming   = "tibet: illegal framing (%s)"
	TimeTooLarge = "tibet: time hint is too large (%s)"
	BadPhase     = "tibet: illegal phase (%s)"
	SpeedHigh    = "tibet: speed hint is too large (%s)"
	SpeedLow     = "tibet: speed hint is too small (%s)"

	JunkFollowsStart = "tibet: junk follows %s keyword (%s)"
	JunkFollowsLine  = "tibet: junk follows data (%c)"
	IllegalTone      = "tibet: illegal tone character (%c)"
	DoublePulse      = "tibet: illegal double pulse"
	ExcessiveTones   = "tibet: too many tone characters in span"
	TooManySpans     = "tibet: too many spans"
	OutputTooLong    = "tibet: maximum output length exceeded"

	BadSpanType = "tibet: BUG: span %d has illegal type"
	PendingType = "tibet: BUG: pending span is not a data span"
	SeekRange   = "tibet: BUG: seek to span %d of %d"
)

var _ = tapeerr.Register(tapeerr.BadMagic, VersionNoSpace, VersionWord, VersionAbsent)
var _ = tapeerr.Register(tapeerr.BadVersion, VersionLength, VersionNonNumeric, VersionPoint,
	VersionMajor, VersionMinor, VersionMismatch)
var _ = tapeerr.Register(tapeerr.FieldRange, BadChar, UnknownWord, MissingValue, FieldIncompatible,
	DuplicateHint, DanglingHint,
	DecimalTooLong, DecimalPoints, DecimalPointEnds, DecimalBadChar, DecimalParse,
	IntTooLong, IntBadChar, IntParse,
	LongSilence, LongLeader, BadBaud, BadFraming, TimeTooLarge, BadPhase, SpeedHigh, SpeedLow,
	JunkFollowsStart, JunkFollowsLine, IllegalTone, DoublePulse)
var _ = tapeerr.Register(tapeerr.OutOfMemory, ExcessiveTones, TooManySpans, OutputTooLong)
var _ = tapeerr.Register(tapeerr.Truncated, Unterminated)
var _ = tapeerr.Register(tapeerr.Bug, BadSpanType, PendingType, SeekRange)
