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

// Package tapeclock holds the timing constants shared by the tape codecs and
// the serial hardware, and the Interval type used to timestamp the contents
// of a tape.
//
// The basic unit of tape time is the 1200th of a second. On the real
// hardware this is 64 periods of the 1MHz clock multiplied by 13, or 832µs,
// which makes the nominal 1200Hz tone actually 1201.92Hz.
package tapeclock
