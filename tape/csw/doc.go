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

// Package csw implements the pulse-format tape codec. A CSW file is a header
// followed by a list of pulse durations measured in samples. Each pulse is a
// half-cycle of the recorded square wave.
//
// Pulses are classified against thresholds derived from the sample rate and
// assembled into 1200th-of-a-second tones. Four short pulses make a '1'
// tone, two long pulses make a '0' tone and a very long pulse is one or more
// 1200ths of silence.
//
// The CSW type also supports appending pulses so that a tape can be recorded
// and saved in this format.
package csw
