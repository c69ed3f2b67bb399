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
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
	"github.com/rjpontefract/b-em-sub001/tape/tapeio"
	"github.com/rjpontefract/b-em-sub001/version"
)

const (
	magic        = "Compressed Square Wave\x1a"
	headerLen    = 0x34
	majorVersion = 2
)

// Sample rate limits.
const (
	RateMin     = 8000
	RateMax     = 192000
	RateDefault = 44100
)

// MaxBodyRaw is the largest uncompressed body accepted. It is also the limit
// on the number of pulses declared in the header.
const MaxBodyRaw = 8 * 1024 * 1024

func validRate(rate uint32) bool {
	return rate >= RateMin && rate <= RateMax
}

// Header of a CSW file.
type Header struct {
	Major      uint8
	Minor      uint8
	Rate       uint32
	Compressed bool
	Flags      uint8
	ExtLen     uint8
}

// Pulse is a single half-cycle. The Span records where on the tape the pulse
// lies. Most pulses are shorter than a 1200th and have a zero duration; the
// final pulse of a tone carries the duration of the whole tone.
type Pulse struct {
	Samples uint32
	Span    tapeclock.Interval
}

// CSW is a pulse-format tape.
type CSW struct {
	perm logger.Permission

	Header Header

	pulses []Pulse

	// rounding error carried between fractional pulses
	accumulatedError float64

	// classification thresholds in samples
	thresh    float64
	len1200th float64

	// read position
	cur        int
	curSilence int32
	numSilent  int32
}

// NewCSW returns an empty CSW. The header is not valid until the first pulse
// is appended or InitBlank() is called.
func NewCSW(perm logger.Permission) *CSW {
	return &CSW{perm: perm}
}

// Load decodes a CSW file.
func Load(perm logger.Permission, data []byte) (*CSW, error) {
	c := NewCSW(perm)

	if len(data) < headerLen {
		return nil, curated.Errorf(HeaderTruncated)
	}

	if string(data[:len(magic)]) != magic {
		return nil, curated.Errorf(BadMagic)
	}

	c.Header.Major = data[0x17]
	c.Header.Minor = data[0x18]
	if c.Header.Major != majorVersion || c.Header.Minor > 1 {
		return nil, curated.Errorf(BadVersion, c.Header.Major, c.Header.Minor)
	}
	if c.Header.Minor == 1 {
		logger.Log(perm, "csw", "version 2.1 is not a legal version")
	}

	c.Header.Rate = tapebytes.ReadU32(data[0x19:])
	if !validRate(c.Header.Rate) {
		return nil, curated.Errorf(BadRate, c.Header.Rate)
	}

	numPulses := tapebytes.ReadU32(data[0x1d:])
	if numPulses > MaxBodyRaw {
		return nil, curated.Errorf(HeaderNumPulses, numPulses)
	}

	switch data[0x21] {
	case 1:
	case 2:
		c.Header.Compressed = true
	default:
		return nil, curated.Errorf(CompressionValue, data[0x21])
	}

	c.Header.Flags = data[0x22]
	if c.Header.Flags&0xf8 != 0 {
		return nil, curated.Errorf(BadFlags, c.Header.Flags)
	}
	if c.Header.Flags > 1 {
		logger.Logf(perm, "csw", "illegal flags value (%#02x)", c.Header.Flags)
	}

	c.Header.ExtLen = data[0x23]
	if c.Header.ExtLen != 0 {
		logger.Logf(perm, "csw", "header extension is not empty (%d bytes)", c.Header.ExtLen)
		if headerLen+int(c.Header.ExtLen) > len(data) {
			return nil, curated.Errorf(HeaderTruncated)
		}
	}

	body := data[headerLen+int(c.Header.ExtLen):]

	if len(body) == 0 {
		logger.Log(perm, "csw", "body is empty")
	} else if c.Header.Compressed {
		var err error
		body, err = tapeio.Inflate(body, 0)
		if err != nil {
			return nil, curated.Errorf(Decompress, err)
		}
	} else if len(body) >= MaxBodyRaw {
		return nil, curated.Errorf(BodyTooLarge, len(body))
	}

	var truncated bool

	for n := 0; n < len(body); n++ {
		var samples uint32

		if body[n] == 0 {
			if n+4 >= len(body) {
				truncated = true
				break
			}
			samples = tapebytes.ReadU32(body[n+1:])
			if samples < 256 {
				return nil, curated.Errorf(LongPulseUnder256, samples)
			}
			n += 4
		} else {
			samples = uint32(body[n])
		}

		c.pulses = append(c.pulses, Pulse{Samples: samples})
	}

	if uint32(len(c.pulses)) != numPulses {
		return nil, curated.Errorf(PulsesMismatch, len(c.pulses), numPulses)
	}

	if truncated {
		return nil, curated.Errorf(Truncated)
	}

	c.thresholds()
	c.scan()

	return c, nil
}

// FromPulses creates a tape from a list of pulse lengths measured in samples
// at the specified rate. Saved tapes will be compressed.
func FromPulses(perm logger.Permission, rate uint32, pulses []uint32) (*CSW, error) {
	if !validRate(rate) {
		return nil, curated.Errorf(BadRate, rate)
	}
	if len(pulses) > MaxBodyRaw {
		return nil, curated.Errorf(HeaderNumPulses, len(pulses))
	}

	c := NewCSW(perm)
	c.Header = Header{
		Major:      majorVersion,
		Rate:       rate,
		Compressed: true,
	}

	c.pulses = make([]Pulse, 0, len(pulses))
	for _, p := range pulses {
		if p == 0 {
			return nil, curated.Errorf(ZeroPulse)
		}
		c.pulses = append(c.pulses, Pulse{Samples: p})
	}

	c.thresholds()
	c.scan()

	return c, nil
}

func (c *CSW) thresholds() {
	rate := float64(c.Header.Rate)

	// three-halves of a 2400Hz pulse, halved
	c.thresh = (rate/tapeclock.Hz1200 + rate/(2.0*tapeclock.Hz1200)) / 4.0
	c.len1200th = rate / tapeclock.Hz1200
}

// Thresholds returns the classification thresholds in samples. A pulse no
// longer than thresh is a 2400Hz pulse. A pulse shorter than len1200th is a
// 1200Hz pulse. Anything longer is silence.
func (c *CSW) Thresholds() (thresh float64, len1200th float64) {
	return c.thresh, c.len1200th
}

func (c *CSW) classify(samples uint32) byte {
	s := float64(samples)
	if s <= c.thresh {
		return tapeclock.ToneOne
	}
	if s < c.len1200th {
		return tapeclock.ToneZero
	}
	return tapeclock.ToneSilence
}

// scan reads the entire tape and records the span of every pulse.
func (c *CSW) scan() {
	for {
		if _, _, err := c.read(true); err != nil {
			break
		}
	}
	c.Rewind()
}

// ReadTone returns the next tone and the time at which it begins.
func (c *CSW) ReadTone() (byte, int32, error) {
	return c.read(false)
}

func (c *CSW) read(scan bool) (byte, int32, error) {
	if c.cur >= len(c.pulses) {
		return 0, 0, curated.Errorf(tapeerr.EndOfTape)
	}

	span := &c.pulses[c.cur].Span

	// continue with silence that has already started
	if c.numSilent > 0 {
		elapsed := span.Start + c.curSilence
		if c.curSilence < c.numSilent-1 {
			c.curSilence++
		} else {
			if scan {
				span.Duration = c.numSilent
			}
			c.cur++
			c.curSilence = 0
			c.numSilent = 0
		}
		return tapeclock.ToneSilence, elapsed, nil
	}

	if scan && c.cur > 0 {
		span.Follows(c.pulses[c.cur-1].Span)
	}
	elapsed := span.Start

	for {
		if c.cur >= len(c.pulses) {
			return 0, 0, curated.Errorf(tapeerr.EndOfTape)
		}
		span = &c.pulses[c.cur].Span

		// classify the next four pulses
		v := [4]byte{'X', 'X', 'X', 'X'}
		for n, k := 0, c.cur; n < len(v) && k < len(c.pulses); n, k = n+1, k+1 {
			v[n] = c.classify(c.pulses[k].Samples)
			if scan {
				s := &c.pulses[k].Span
				if k > 0 {
					s.Follows(c.pulses[k-1].Span)
				} else {
					s.Start = 0
				}
				s.Duration = 0
			}
		}

		// four short pulses for a '1' or two long pulses for a '0'
		want := byte(tapeclock.ToneOne)
		lookahead := 4
		for want != 0 {
			if v[0] == want {
				var wins int
				for n := 0; n < lookahead; n++ {
					if v[n] == want {
						wins++
					}
				}
				if wins < lookahead {
					want = 0
				}
				break
			}
			if want == tapeclock.ToneZero {
				want = 0
				break
			}
			want = tapeclock.ToneZero
			lookahead >>= 1
		}

		if want != 0 {
			if scan {
				c.pulses[c.cur+lookahead-1].Span.Duration = 1
			}
			c.cur += lookahead
			return want, elapsed, nil
		}

		if v[0] == tapeclock.ToneSilence {
			samples := c.pulses[c.cur].Samples
			c.numSilent = int32(float64(samples) * tapeclock.Hz1200 / float64(c.Header.Rate))

			if c.numSilent == 0 {
				logger.Logf(c.perm, "csw", "very short silence (%d samples) skipped", samples)
				c.curSilence = 0
				c.cur++
				continue
			}

			c.curSilence = 1
			elapsed = span.Start
			if scan {
				span.Duration++
			}
			if c.numSilent == 1 {
				c.cur++
				c.numSilent = 0
				c.curSilence = 0
			}
			return tapeclock.ToneSilence, elapsed, nil
		}

		// ambiguous pulses. drop one and try again
		c.cur++
	}
}

// PeekEOF returns true if there are no more pulses to read.
func (c *CSW) PeekEOF() bool {
	return c.cur >= len(c.pulses)
}

// HasData returns true if the tape has any pulses.
func (c *CSW) HasData() bool {
	return len(c.pulses) > 0
}

// Pulses returns the pulses of the tape. The returned slice must not be
// modified.
func (c *CSW) Pulses() []Pulse {
	return c.pulses
}

// Rewind moves the read position to the start of the tape.
func (c *CSW) Rewind() {
	c.cur = 0
	c.curSilence = 0
	c.numSilent = 0
}

// FastForward moves the read position to the end of the tape.
func (c *CSW) FastForward() {
	c.cur = len(c.pulses)
	c.curSilence = 0
	c.numSilent = 0
}

// Seek moves the read position to the specified pulse.
func (c *CSW) Seek(pulse int) error {
	if pulse < 0 || pulse >= len(c.pulses) {
		return curated.Errorf(SeekRange, pulse, len(c.pulses))
	}
	c.cur = pulse
	c.curSilence = 0
	c.numSilent = 0
	return nil
}

// Duration returns the length of the tape in 1200ths.
func (c *CSW) Duration() int32 {
	if len(c.pulses) == 0 {
		return 0
	}
	return c.pulses[len(c.pulses)-1].Span.End()
}

// Clone returns a deep copy of the tape. The read position is copied too.
func (c *CSW) Clone() *CSW {
	n := *c
	n.pulses = make([]Pulse, len(c.pulses))
	copy(n.pulses, c.pulses)
	return &n
}

// Save encodes the tape as a CSW file. The body is zlib compressed if
// compress is true, unless there are no pulses, in which case the body is
// always raw.
func (c *CSW) Save(compress bool) ([]byte, error) {
	c.InitBlank()

	out := make([]byte, 0, headerLen+len(c.pulses))
	out = append(out, magic...)
	out = append(out, c.Header.Major, c.Header.Minor)
	out = tapebytes.AppendU32(out, c.Header.Rate)
	out = tapebytes.AppendU32(out, uint32(len(c.pulses)))
	compressFlag := len(out)
	out = append(out, 1, c.Header.Flags, 0)

	// space padded and not terminated
	creator := []byte("                ")
	copy(creator[:15], version.Creator())
	out = append(out, creator...)

	body := make([]byte, 0, len(c.pulses))
	for _, p := range c.pulses {
		if p.Samples <= 255 {
			body = append(body, uint8(p.Samples))
		} else {
			body = append(body, 0)
			body = tapebytes.AppendU32(body, p.Samples)
		}
	}

	if len(body) > 0 && compress {
		z, err := tapeio.Zlib(body)
		if err != nil {
			return nil, curated.Errorf(Compress, err)
		}
		out[compressFlag] = 2
		body = z
	}

	return append(out, body...), nil
}
