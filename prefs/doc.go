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

// Package prefs holds typed preference values and persists them to disk.
//
// Values are created as the zero value of Bool, String, Int or Float, or with
// NewGeneric() for values that need custom conversion. They are then
// registered with a Disk under a key and saved and loaded together:
//
//	var stop prefs.Bool
//	dsk, _ := prefs.NewDisk(path)
//	dsk.Add("tape.stoponeof", &stop)
//	dsk.Load(true)
//
// The file format is line based. The first line is WarningBoilerPlate and
// every other line is a key and value separated by " :: ". Keys are written in
// sorted order. Entries in the file that are not registered with the Disk
// instance are preserved when saving, so more than one Disk can share a file.
//
// The command line stack allows preferences to be overridden for the
// duration of a single run of the program, without changing the file on
// disk. The stack is pushed with a string of the form "key::value; key::value".
// Values in the top group are applied when a key is added to a Disk or when
// a Disk is loaded.
package prefs
