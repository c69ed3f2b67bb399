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

// Package logger is the logging package for the tape and serial emulation.
// Log entries are made with a tag and a detail. The tag names the subsystem
// (for example "uef" or "acia") and the detail describes the event.
//
// The package level functions write to a single central log. Independent
// logs can be created with NewLogger(), which is useful for testing.
//
// Every log request requires a Permission. A cloned tape used to build a
// catalogue, for example, runs with an environment that refuses permission so
// that the scan does not duplicate warnings already made by the live tape.
//
// Consecutive entries with the same tag and detail are collapsed into a
// single entry with a repeat count.
package logger
