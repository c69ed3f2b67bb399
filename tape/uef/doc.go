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

// Package uef implements the chunked tape format. A UEF file is a short
// header followed by a list of typed chunks. Some chunks carry bits (framed
// bytes, explicit bits, raw cycles), some carry only a duration (leader and
// gaps) and the rest are metadata that never contribute tones.
//
// Reading a UEF produces tones at 1200ths of a second. The bits of the
// current chunk are held in a reservoir that is refilled one byte (or one
// cycle group) at a time. At 300 baud every bit becomes four tones.
//
// Chunks can also be appended, which is how the tape write path records in
// this format.
package uef
