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

// Package tape connects the tape codecs to the ACIA. A Tape holds the loaded
// tape in every format it can be represented in and takes care of playback,
// recording, the end of tape policy and cataloguing.
//
// Playback is driven by the serial ULA, which calls FireACIARxc() whenever
// the receive clock fires. Recording is driven by WriteBitClock(), which is
// called for every transmit bit period while the cassette motor is running.
//
// A tape that fails with a fatal error is disabled. A disabled tape reads as
// if it were at the end of the tape and refuses to record. Loading a new tape
// or ejecting the tape clears the condition.
package tape
