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

package tapeclock

// Length of a 1200th in various units.
const (
	Tone1MHz = 64 * 13
	Tone2MHz = 2 * Tone1MHz
	ToneNS   = 1000 * Tone1MHz

	// a 1200th as a fraction of a second
	ToneSeconds = float64(Tone1MHz) / 1000000.0

	// the frequency of the 1200th tone
	Hz1200 = 1.0 / ToneSeconds
)

// Tone values used between the codecs, the tape orchestration and the ACIA.
const (
	ToneZero    = '0'
	ToneOne     = '1'
	ToneSilence = 'S'
	ToneLeader  = 'L'
)

// LegalTone returns true if the tone is one of the four tone values.
func LegalTone(tone byte) bool {
	return tone == ToneZero || tone == ToneOne || tone == ToneSilence || tone == ToneLeader
}

// CrudeLeaderDetect is the number of consecutive '1' tones after which a
// run of tone is considered to be leader.
const CrudeLeaderDetect = 100

// Seconds converts a number of 1200ths to seconds.
func Seconds(tones int32) float64 {
	return float64(tones) * ToneSeconds
}

// Interval is a span of tape time measured in 1200ths.
type Interval struct {
	Start    int32
	Duration int32
}

// End returns the first 1200th following the interval.
func (i Interval) End() int32 {
	return i.Start + i.Duration
}

// Follows sets the start of the interval to the end of the previous
// interval.
func (i *Interval) Follows(prev Interval) {
	i.Start = prev.End()
}

// HoursMinutesSeconds formats a count of 1200ths as a time. Hours are only
// included if the time is longer than an hour.
func HoursMinutesSeconds(tones int32) (h, m, s int) {
	secs := int(Seconds(tones))
	return secs / 3600, (secs / 60) % 60, secs % 60
}
