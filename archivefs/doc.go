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

// Package archivefs allows tape files to be opened from inside zip archives.
// A path can pass through an archive as though it were a directory:
//
//	games/collection.zip/Elite/ELITE.UEF
//
// Paths that do not pass through an archive are opened as ordinary files.
package archivefs
