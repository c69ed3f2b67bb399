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

// Package tibet implements the tone-textual tape format. A TIBET file is a
// line oriented text file describing a tape as a list of spans. A span is
// either silence, leader tone or data. Data spans are written as a sequence
// of tone characters, each character being one 2400th of a second:
//
//	.	a cycle of 2400Hz tone (half of a '1' bit at 1200 baud)
//	-	half a cycle of 1200Hz tone (half of a '0' bit at 1200 baud)
//	P	a lone pulse that does not contribute to a bit
//
// Spans may be preceded by hints. Hints describe the data that follows and
// do not change how the tones are played back. For example:
//
//	tibet 0.5
//
//	silence 1.5
//	leader 6000
//
//	/baud 1200
//	/framing 8N1
//	data
//	-...................
//	end
//
// A TIBETZ file is a gzipped TIBET file. Compression is handled by the tape
// package.
package tibet
