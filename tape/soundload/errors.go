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

package soundload

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinel error patterns.
const (
	UnsupportedFile = "soundload: unsupported file type (%s)"
	WAV             = "soundload: wav: %v"
	MP3             = "soundload: mp3: %v"
	Empty           = "soundload: recording has no tone"
	Pulses          = "soundload: %v"
)

var _ = tapeerr.Register(tapeerr.IO, UnsupportedFile, WAV, MP3)
var _ = tapeerr.Register(tapeerr.FieldRange, Empty, Pulses)
