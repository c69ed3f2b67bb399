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

package csw

import (
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
)

// InitBlank prepares an empty tape for writing, if the tape does not already
// have a valid header. The rate is RateDefault and saved tapes will be
// compressed.
func (c *CSW) InitBlank() {
	if validRate(c.Header.Rate) {
		return
	}

	*c = CSW{
		perm: c.perm,
		Header: Header{
			Major:      majorVersion,
			Rate:       RateDefault,
			Compressed: true,
		},
	}
	c.thresholds()
}

// AppendPulse adds a pulse to the end of the tape.
func (c *CSW) AppendPulse(samples uint32, span tapeclock.Interval) error {
	if samples == 0 {
		return curated.Errorf(ZeroPulse)
	}
	c.InitBlank()
	c.pulses = append(c.pulses, Pulse{Samples: samples, Span: span})
	return nil
}

// AppendFractional adds a pulse whose ideal length is not a whole number of
// samples. The rounding error is accumulated and the pulse is lengthened by
// one sample whenever the accumulated error exceeds half a sample.
func (c *CSW) AppendFractional(samples float64, span tapeclock.Interval) error {
	c.InitBlank()

	p := uint32(samples)
	if c.accumulatedError > 0.5 {
		p++
	}
	c.accumulatedError += samples - float64(p)

	return c.AppendPulse(p, span)
}

// AppendTone adds the pulses for a single 1200th beginning at the specified
// time. A '1' is four pulses and a '0' is two pulses. The final pulse
// carries the duration of the tone.
func (c *CSW) AppendTone(one bool, start int32) error {
	c.InitBlank()

	samples := c.len1200th / 2.0
	num := 2
	if one {
		samples /= 2.0
		num = 4
	}

	span := tapeclock.Interval{Start: start}
	for i := 0; i < num; i++ {
		if i == num-1 {
			span.Duration = 1
		}
		if err := c.AppendFractional(samples, span); err != nil {
			return err
		}
	}

	return nil
}

// AppendLeader adds the specified number of 1200ths of leader tone beginning
// at the specified time.
func (c *CSW) AppendLeader(num int32, start int32) error {
	c.InitBlank()

	span := tapeclock.Interval{Start: start}
	for j := int32(0); j < num*4; j++ {
		span.Duration = 0
		if j&3 == 3 {
			span.Duration = 1
		}
		if err := c.AppendFractional(c.len1200th/4.0, span); err != nil {
			return err
		}
		if j&3 == 3 {
			span.Start++
		}
	}

	return nil
}

// AppendSilence adds a period of silence as a pair of pulses, preserving the
// polarity of the wave. Silence shorter than two 1200ths is lengthened.
func (c *CSW) AppendSilence(seconds float64, span tapeclock.Interval) error {
	c.InitBlank()

	const shortest = 2.0 * tapeclock.ToneSeconds
	if seconds < shortest {
		logger.Logf(c.perm, "csw", "very short silence (%fs) lengthened to %fs", seconds, shortest)
		seconds = shortest
	}

	first := span
	first.Duration /= 2
	second := tapeclock.Interval{
		Start:    first.End(),
		Duration: span.Duration - first.Duration,
	}

	samples := uint32((seconds / 2.0) * float64(c.Header.Rate))
	if err := c.AppendPulse(samples, first); err != nil {
		return err
	}
	return c.AppendPulse(samples, second)
}
