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

package tapeio

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinal errors.
const (
	FileOpen           = "tapeio: open: %v"
	FileRead           = "tapeio: read: %v"
	FileWrite          = "tapeio: write: %v"
	FileTooLarge       = "tapeio: file too large: %s (max %d bytes)"
	DecompressFailed   = "tapeio: decompress: %v"
	DecompressTooLarge = "tapeio: decompressed size is too large (max %d bytes)"
	CompressFailed     = "tapeio: compress: %v"
	CompressEmpty      = "tapeio: BUG: refusing to compress empty data"
)

var _ = tapeerr.Register(tapeerr.IO, FileOpen, FileRead, FileWrite, CompressFailed)
var _ = tapeerr.Register(tapeerr.OutOfMemory, FileTooLarge)
var _ = tapeerr.Register(tapeerr.Decompress, DecompressFailed)
var _ = tapeerr.Register(tapeerr.DecompressTooLarge, DecompressTooLarge)
var _ = tapeerr.Register(tapeerr.Bug, CompressEmpty)
