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

// Package wavwriter renders a pulse-format tape as a WAV file. Each pulse
// becomes a run of samples at alternating high and low levels, so the output
// is the square wave that the pulses describe.
package wavwriter

import (
	"io"
	"os"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/csw"
	"github.com/youpy/go-wav"
)

// Sentinel error patterns.
const (
	WavWriter = "wavwriter: %v"
)

// 8 bit samples are unsigned
const (
	levelHigh = 0xc0
	levelLow  = 0x40
)

// Write the tape to w as an 8 bit mono WAV at the sample rate of the tape.
func Write(perm logger.Permission, w io.Writer, c *csw.CSW) error {
	pulses := c.Pulses()

	var total int
	for _, p := range pulses {
		total += int(p.Samples)
	}

	buffer := make([]wav.Sample, 0, total)
	level := levelHigh
	for _, p := range pulses {
		for i := uint32(0); i < p.Samples; i++ {
			var s wav.Sample
			s.Values[0] = level
			buffer = append(buffer, s)
		}
		if level == levelHigh {
			level = levelLow
		} else {
			level = levelHigh
		}
	}

	enc := wav.NewWriter(w, uint32(len(buffer)), 1, c.Header.Rate, 8)
	if enc == nil {
		return curated.Errorf(WavWriter, "bad parameters for wav encoding")
	}

	logger.Logf(perm, "wavwriter", "writing %d samples at %dHz", len(buffer), c.Header.Rate)

	if err := enc.WriteSamples(buffer); err != nil {
		return curated.Errorf(WavWriter, err)
	}

	return nil
}

// WriteFile writes the tape to the named file.
func WriteFile(perm logger.Permission, filename string, c *csw.CSW) (rerr error) {
	f, err := os.Create(filename)
	if err != nil {
		return curated.Errorf(WavWriter, err)
	}
	defer func() {
		err := f.Close()
		if err != nil && rerr == nil {
			rerr = curated.Errorf(WavWriter, err)
		}
	}()

	logger.Logf(perm, "wavwriter", "writing audio to %s", filename)

	return Write(perm, f, c)
}
