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

// Package paths prepares paths to b-em-sub001 resources, such as the
// preferences file.
//
// The ResourcePath() function prepends the resource with the base resource
// directory. If a directory named ".b-em-sub001" exists in the current
// directory then that is used as the base. Otherwise the base is a directory
// in the user's configuration directory, as returned by os.UserConfigDir().
//
// On a modern Linux system, for example:
//
//	p, _ := paths.ResourcePath("", "preferences")
//
// returns "/home/user/.config/b-em-sub001/preferences". The directory is
// created if it does not exist.
package paths
