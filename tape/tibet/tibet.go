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
	"bytes"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
)

// TIBET is a tone-textual tape.
type TIBET struct {
	perm logger.Permission

	Major       uint32
	Minor       uint32
	haveVersion bool

	spans []Span

	// playback position
	curSpan int
	tonePos int

	// playback position in a silent span. a double precision accumulator
	silencePos float64
}

// NewTIBET returns an empty tape.
func NewTIBET(perm logger.Permission) *TIBET {
	return &TIBET{perm: perm}
}

func (t *TIBET) setVersionIfMissing() {
	if !t.haveVersion {
		t.Major = VersionMajorSupported
		t.Minor = VersionMinorSupported
		t.haveVersion = true
	}
}

// Spans returns the spans of the tape. The returned slice must not be
// modified.
func (t *TIBET) Spans() []Span {
	return t.spans
}

// HasData returns true if the tape contains at least one data span.
func (t *TIBET) HasData() bool {
	for i := range t.spans {
		if t.spans[i].Type == SpanData {
			return true
		}
	}
	return false
}

// Clone returns a deep copy of the tape, including the playback position.
func (t *TIBET) Clone() *TIBET {
	n := *t
	n.spans = make([]Span, len(t.spans))
	for i := range t.spans {
		n.spans[i] = t.spans[i].clone()
	}
	n.setVersionIfMissing()
	return &n
}

func (t *TIBET) newSpan(s Span) error {
	if len(t.spans) >= MaxSpans {
		return curated.Errorf(TooManySpans)
	}
	s.ID = uint32(len(t.spans))
	t.spans = append(t.spans, s)
	return nil
}

// AppendLeader adds a leader span of the specified number of 2400ths
// beginning at the specified time. Leader shorter than two 2400ths is
// lengthened.
func (t *TIBET) AppendLeader(start int32, num2400ths uint32, hints Hints) error {
	t.setVersionIfMissing()
	if start < 0 {
		start = 0
	}
	return t.appendLeader(start, num2400ths, hints)
}

// a negative start means the interval is filled in by the initial scan
func (t *TIBET) appendLeader(start int32, num2400ths uint32, hints Hints) error {
	if num2400ths < 2 {
		logger.Logf(t.perm, "tibet", "leader of %d 2400ths lengthened to 2", num2400ths)
		num2400ths = 2
	}

	s := Span{
		Type:   SpanLeader,
		Leader: num2400ths,
		Hints:  hints,
	}
	if start >= 0 {
		s.Interval = tapeclock.Interval{Start: start, Duration: int32(num2400ths / 2)}
	}

	return t.newSpan(s)
}

// AppendSilence adds a silent span beginning at the specified time.
func (t *TIBET) AppendSilence(seconds float32, start int32, hints Hints) error {
	t.setVersionIfMissing()
	if start < 0 {
		start = 0
	}
	return t.appendSilence(seconds, start, hints)
}

// a negative start means the interval is filled in by the initial scan
func (t *TIBET) appendSilence(seconds float32, start int32, hints Hints) error {
	s := Span{
		Type:    SpanSilent,
		Silence: seconds,
		Hints:   hints,
	}
	if start >= 0 {
		s.Interval = tapeclock.Interval{
			Start:    start,
			Duration: int32(0.5 + float64(seconds)*tapeclock.Hz1200),
		}
	}
	return t.newSpan(s)
}

// AppendData adds a data span to the tape. The span should have been created
// with NewDataSpan() and must not be used by the caller afterwards.
func (t *TIBET) AppendData(span *Span) error {
	if span == nil || span.Type != SpanData {
		return curated.Errorf(PendingType)
	}
	t.setVersionIfMissing()
	return t.newSpan(*span)
}

// Rewind moves the playback position to the start of the tape.
func (t *TIBET) Rewind() {
	t.curSpan = 0
	t.tonePos = 0
	t.silencePos = 0
}

// FastForward moves the playback position past the end of the tape.
func (t *TIBET) FastForward() {
	t.curSpan = len(t.spans)
	t.tonePos = 0
	t.silencePos = 0
}

// Seek moves the playback position to the start of the specified span.
func (t *TIBET) Seek(span int) error {
	if span < 0 || span >= len(t.spans) {
		return curated.Errorf(SeekRange, span, len(t.spans))
	}
	t.curSpan = span
	t.tonePos = 0
	t.silencePos = 0
	return nil
}

// Duration returns the length of the tape in 1200ths.
func (t *TIBET) Duration() int32 {
	if len(t.spans) == 0 {
		return 0
	}
	return t.spans[len(t.spans)-1].Interval.End()
}

func (t *TIBET) exhausted(s *Span, tonePos int, silencePos float64) bool {
	if s.Type == SpanSilent {
		return silencePos >= float64(s.Silence)
	}
	if s.Type == SpanData {
		return bytes.IndexAny(s.Tones[min(tonePos, len(s.Tones)):], ".-") == -1
	}
	return tonePos >= s.numToneChars()
}

// PeekEOF returns true if there are no more tones to be read.
func (t *TIBET) PeekEOF() bool {
	for i := t.curSpan; i < len(t.spans); i++ {
		if i == t.curSpan {
			if !t.exhausted(&t.spans[i], t.tonePos, t.silencePos) {
				return false
			}
		} else if !t.exhausted(&t.spans[i], 0, 0) {
			return false
		}
	}
	return true
}

// span returns the current span, advancing to the next span if the current
// span has been used up.
func (t *TIBET) span(scan bool) (*Span, error) {
	for t.curSpan < len(t.spans) {
		s := &t.spans[t.curSpan]

		var done bool
		if s.Type == SpanSilent {
			done = t.silencePos >= float64(s.Silence)
		} else {
			done = t.tonePos >= s.numToneChars()
		}
		if !done {
			return s, nil
		}

		if t.curSpan+1 < len(t.spans) {
			next := &t.spans[t.curSpan+1]
			predicted := s.Interval.End()
			if scan {
				next.Interval = tapeclock.Interval{Start: predicted}
				next.sub4800 = 0
			} else if next.Interval.Start > 0 && next.Interval.Start != predicted {
				logger.Logf(t.perm, "tibet", "span %d expected to start at %d but starts at %d",
					t.curSpan+1, predicted, next.Interval.Start)
			}
		}

		t.curSpan++
		t.tonePos = 0
		t.silencePos = 0
	}

	return nil, curated.Errorf(tapeerr.EndOfTape)
}

// advance the span interval by one tone character
func elapse(scan bool, s *Span) {
	if scan {
		s.sub4800 += 2
		for s.sub4800 >= 4 {
			s.sub4800 -= 4
			s.Interval.Duration++
		}
	}
}

// ReadToneChar returns the next 2400th of the tape: '0', '1', 'S' or 'L'.
// Pulse characters in data spans are skipped.
func (t *TIBET) ReadToneChar() (byte, error) {
	return t.nextToneChar(false)
}

func (t *TIBET) nextToneChar(scan bool) (byte, error) {
	for {
		s, err := t.span(scan)
		if err != nil {
			return 0, err
		}

		var tc byte

		switch s.Type {
		case SpanData:
			c := s.Tones[t.tonePos]
			t.tonePos++
			elapse(scan, s)
			if c == CharPulse {
				continue
			}
			if c == CharOne {
				tc = tapeclock.ToneOne
			} else {
				tc = tapeclock.ToneZero
			}
			return tc, nil
		case SpanSilent:
			t.silencePos += tapeclock.ToneSeconds / 2.0
			elapse(scan, s)
			return tapeclock.ToneSilence, nil
		case SpanLeader:
			t.tonePos++
			elapse(scan, s)
			return tapeclock.ToneLeader, nil
		default:
			return 0, curated.Errorf(BadSpanType, s.ID)
		}
	}
}

// read a pair of matching tone characters. a mismatched pair is
// resynchronised by sliding one tone character
func (t *TIBET) read1200(scan bool) (byte, error) {
	tc1, err := t.nextToneChar(scan)
	if err != nil {
		return 0, err
	}
	tc2, err := t.nextToneChar(scan)
	if err != nil {
		return 0, err
	}

	for tc1 != tc2 {
		tc1 = tc2
		tc2, err = t.nextToneChar(scan)
		if err != nil {
			return 0, err
		}
	}

	return tc1, nil
}

// ReadBit returns the next bit: '0', '1', 'S' or 'L'. At 300 baud four
// consistent 1200ths are required. On a mismatch the count restarts from
// the mismatching 1200th. The first value of the consistent run is returned,
// with leader and '1' considered the same for the purposes of comparison.
func (t *TIBET) ReadBit(baud300 bool) (byte, error) {
	return t.readBit(baud300, false)
}

func (t *TIBET) readBit(baud300 bool, scan bool) (byte, error) {
	pairs := 1
	if baud300 {
		pairs = 4
	}

	var tone0, val0 byte

	for n := 0; n < pairs; n++ {
		tone, err := t.read1200(scan)
		if err != nil {
			return 0, err
		}

		val := tone
		if val == tapeclock.ToneLeader {
			val = tapeclock.ToneOne
		}

		if n == 0 {
			tone0 = tone
			val0 = val
		} else if val != val0 {
			tone0 = tone
			val0 = val
			n = 0
		}
	}

	return tone0, nil
}

// position of the playback position in 1200ths
func (t *TIBET) elapsed() int32 {
	if t.curSpan >= len(t.spans) {
		return t.Duration()
	}
	s := &t.spans[t.curSpan]
	if s.Type == SpanSilent {
		return s.Interval.Start + int32(t.silencePos/tapeclock.ToneSeconds)
	}
	return s.Interval.Start + int32(t.tonePos/2)
}

// ReadTone returns the next 1200th and the time at which it begins. It is
// the same as ReadBit(false).
func (t *TIBET) ReadTone() (byte, int32, error) {
	elapsed := t.elapsed()
	tone, err := t.readBit(false, false)
	return tone, elapsed, err
}

// scan reads the entire tape, filling in the interval of every span.
func (t *TIBET) scan() {
	t.Rewind()
	if len(t.spans) > 0 {
		t.spans[0].Interval = tapeclock.Interval{}
		t.spans[0].sub4800 = 0
	}
	for {
		if _, err := t.nextToneChar(true); err != nil {
			break
		}
	}
	t.Rewind()
}
