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

package archivefs

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinal errors.
const (
	SetPath   = "archivefs: set: %v"
	List      = "archivefs: list: %v"
	OpenFile  = "archivefs: open: %v"
	NotAFile  = "archivefs: open: %s is a directory"
	ReadFile  = "archivefs: read: %v"
	NoPathSet = "archivefs: BUG: path has not been set"
)

var _ = tapeerr.Register(tapeerr.IO, SetPath, List, OpenFile, NotAFile, ReadFile)
var _ = tapeerr.Register(tapeerr.Bug, NoPathSet)
