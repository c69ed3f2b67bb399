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

package soundload

import (
	"errors"
	"io"
	"math"
	"path/filepath"
	"strings"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/environment"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/csw"
)

const logTag = "soundload"

// samples closer to zero than this fraction of the loudest sample do not
// change the sign of the signal
const deadBand = 0.05

// pcm is mono sample data taken from a recording.
type pcm struct {
	sampleRate float64
	data       []float32
}

// Load decodes the recording and returns it as a pulse-format tape. The name
// is used to decide the format of the recording.
func Load(env *environment.Environment, name string, r io.ReadSeeker) (*csw.CSW, error) {
	p, err := getPCM(env, name, r)
	if err != nil {
		return nil, err
	}

	logger.Logf(env, logTag, "sample rate: %0.2fHz", p.sampleRate)
	logger.Logf(env, logTag, "total time: %.02fs", float64(len(p.data))/p.sampleRate)

	pulses := ZeroCrossings(p.data)
	if len(pulses) == 0 {
		return nil, curated.Errorf(Empty)
	}
	logger.Logf(env, logTag, "%d pulses", len(pulses))

	c, err := csw.FromPulses(env, uint32(math.Round(p.sampleRate)), pulses)
	if err != nil {
		return nil, curated.Errorf(Pulses, err)
	}

	return c, nil
}

func getPCM(env *environment.Environment, name string, r io.ReadSeeker) (pcm, error) {
	var p pcm

	switch ext := strings.ToLower(filepath.Ext(name)); ext {
	case ".wav":
		dec := wav.NewDecoder(r)
		if dec == nil || !dec.IsValidFile() {
			return p, curated.Errorf(WAV, "not a valid wav file")
		}

		logger.Log(env, logTag, "loading from wav file")

		buf, err := dec.FullPCMBuffer()
		if err != nil {
			return p, curated.Errorf(WAV, err)
		}

		p.data = firstChannel(buf.AsFloat32Buffer(), int(dec.NumChans))
		p.sampleRate = float64(dec.SampleRate)

	case ".mp3":
		dec, err := mp3.NewDecoder(r)
		if err != nil {
			return p, curated.Errorf(MP3, err)
		}

		logger.Log(env, logTag, "loading from mp3 file")

		// the decoded stream is always 16bit little endian with two channels.
		// a sample is therefore four bytes and the left channel is the first
		// two bytes
		chunk := make([]byte, 4096)
		for {
			n, err := io.ReadFull(dec, chunk)
			for i := 0; i+1 < n; i += 4 {
				p.data = append(p.data, float32(int16(uint16(chunk[i])|uint16(chunk[i+1])<<8)))
			}
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			if err != nil {
				return p, curated.Errorf(MP3, err)
			}
		}

		p.sampleRate = float64(dec.SampleRate())

	default:
		return p, curated.Errorf(UnsupportedFile, ext)
	}

	return p, nil
}

// firstChannel returns the first channel of interleaved sample data.
func firstChannel(buf *audio.Float32Buffer, numChans int) []float32 {
	if numChans < 1 {
		numChans = 1
	}
	data := make([]float32, 0, len(buf.Data)/numChans)
	for i := 0; i < len(buf.Data); i += numChans {
		data = append(data, buf.Data[i])
	}
	return data
}

// ZeroCrossings returns the number of samples between each change of sign in
// the data. Zero is taken to be halfway between the lowest and highest
// samples, so unsigned 8 bit data and recordings with a DC offset work as
// expected. Samples inside the dead band keep the sign of the previous
// sample. The samples before the first crossing are returned as a pulse of
// their own.
func ZeroCrossings(data []float32) []uint32 {
	if len(data) == 0 {
		return nil
	}

	lo := float64(data[0])
	hi := lo
	for _, s := range data {
		lo = math.Min(lo, float64(s))
		hi = math.Max(hi, float64(s))
	}
	if lo == hi {
		return nil
	}
	mid := (lo + hi) / 2
	band := (hi - mid) * deadBand

	var pulses []uint32
	var run uint32
	var positive bool

	for i, s := range data {
		v := float64(s) - mid
		high := positive
		if v > band {
			high = true
		} else if v < -band {
			high = false
		}

		if i > 0 && high != positive && run > 0 {
			pulses = append(pulses, run)
			run = 0
		}
		positive = high
		run++
	}

	if run > 0 {
		pulses = append(pulses, run)
	}

	return pulses
}
