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

// Package preferences collates the preference values used by the tape and
// serial hardware. The values are persisted with the prefs package.
//
// The tape does not read preference values while it is running. Instead a
// TapeConfig is taken from the preferences when a tape is created, so that
// a change of preference never affects a tape partway through a load.
package preferences
