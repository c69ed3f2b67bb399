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

// Package soundload converts a recording of a real cassette into a
// pulse-format tape. WAV and MP3 recordings are supported. Only the first
// channel of a stereo recording is used.
//
// The recording is turned into pulses by measuring the distance between zero
// crossings. A small dead band around zero, relative to the loudest sample in
// the recording, stops noise during silent parts of the tape from being
// mistaken for tone.
package soundload
