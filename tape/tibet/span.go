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

package tibet

import (
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
)

// SpanType identifies the contents of a span.
type SpanType int

// List of valid SpanType values.
const (
	SpanInvalid SpanType = iota
	SpanSilent
	SpanLeader
	SpanData
)

func (t SpanType) String() string {
	switch t {
	case SpanSilent:
		return "silent"
	case SpanLeader:
		return "leader"
	case SpanData:
		return "data"
	}
	return "invalid"
}

// Tone characters in a data span.
const (
	CharOne   = '.'
	CharZero  = '-'
	CharPulse = 'P'
)

// Limits on the size of a tape.
const (
	MaxSpanTones = 17000000
	MaxSpans     = 1000000
)

// Hints attached to a span. The Have fields indicate which of the hints
// were specified.
type Hints struct {
	HaveBaud    bool
	HaveFraming bool
	HaveTime    bool
	HavePhase   bool
	HaveSpeed   bool

	Baud    uint32
	Framing string
	Time    float32
	Phase   uint32
	Speed   float32
}

// PacketLength returns the number of bits in a frame, including the start
// and stop bits, for the framing hint. The default is 8N1.
func (h Hints) PacketLength() int {
	if !h.HaveFraming || len(h.Framing) != 3 {
		return 10
	}

	n := 1
	if h.Framing[0] == '7' {
		n += 7
	} else {
		n += 8
	}
	if h.Framing[1] != 'N' {
		n++
	}
	if h.Framing[2] == '1' {
		n++
	} else {
		n += 2
	}
	return n
}

// Span is a single silence, leader or data region of the tape.
type Span struct {
	ID   uint32
	Type SpanType

	// data span written with the squawk keyword
	Squawk bool

	// tone characters of a data span
	Tones []byte

	// length of a leader span in 2400ths
	Leader uint32

	// length of a silent span in seconds
	Silence float32

	Hints Hints

	// position of the span on the tape. quarter 1200ths are carried in
	// sub4800 while the span is being scanned
	Interval tapeclock.Interval
	sub4800  int32
}

// NewDataSpan returns a span to which tone characters can be appended before
// it is added to a tape with AppendData().
func NewDataSpan(squawk bool, hints Hints) *Span {
	return &Span{
		Type:   SpanData,
		Squawk: squawk,
		Hints:  hints,
	}
}

// AppendToneChar adds a tone character to the data span.
func (s *Span) AppendToneChar(c byte) error {
	if c != CharOne && c != CharZero && c != CharPulse {
		return curated.Errorf(IllegalTone, c)
	}
	if len(s.Tones) >= MaxSpanTones {
		return curated.Errorf(ExcessiveTones)
	}
	if c == CharPulse && len(s.Tones) > 0 && s.Tones[len(s.Tones)-1] == CharPulse {
		return curated.Errorf(DoublePulse)
	}
	s.Tones = append(s.Tones, c)
	return nil
}

// length of the span in tone characters
func (s *Span) numToneChars() int {
	switch s.Type {
	case SpanData:
		return len(s.Tones)
	case SpanLeader:
		return int(s.Leader)
	}
	return 0
}

func (s Span) clone() Span {
	if s.Tones != nil {
		t := make([]byte, len(s.Tones))
		copy(t, s.Tones)
		s.Tones = t
	}
	return s
}
