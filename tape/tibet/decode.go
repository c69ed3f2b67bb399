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
	"strconv"
	"strings"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/logger"
)

// The version of the format written by this package. Files with a newer
// minor version are rejected.
const (
	VersionMajorSupported = 0
	VersionMinorSupported = 5
)

// keywords
const (
	kTibet   = "tibet"
	kSilence = "silence"
	kLeader  = "leader"
	kBaud    = "/baud"
	kFraming = "/framing"
	kTime    = "/time"
	kPhase   = "/phase"
	kSpeed   = "/speed"
	kData    = "data"
	kSquawk  = "squawk"
	kEnd     = "end"
)

// limits on values
const (
	maxVersionLen     = 11
	maxVersionPortion = 5
	maxDecimalChars   = 50
	maxIntChars       = 10
	maxLeader         = 100000000
	minSilence        = 0.0004
	maxSilence        = 36000.0
	maxTimeHint       = 36000.0
	minSpeedHint      = 0.5
	maxSpeedHint      = 1.5
)

type decoder struct {
	t *TIBET

	inData  bool
	pending *Span
	hints   Hints
}

// Decode parses a TIBET file.
func Decode(perm logger.Permission, text []byte) (*TIBET, error) {
	dec := decoder{t: NewTIBET(perm)}

	var linenum int
	for len(text) > 0 {
		linenum++

		line := text
		if i := bytes.IndexByte(text, '\n'); i >= 0 {
			line = text[:i]
			text = text[i+1:]
		} else {
			text = nil
		}

		for _, c := range line {
			if c < 0x20 || c > 0x7e {
				return nil, curated.Errorf(LineError, linenum, curated.Errorf(BadChar, c))
			}
		}

		if err := dec.line(string(line)); err != nil {
			return nil, curated.Errorf(LineError, linenum, err)
		}
	}

	if !dec.t.haveVersion {
		return nil, curated.Errorf(VersionAbsent)
	}

	if dec.inData {
		return nil, curated.Errorf(Unterminated)
	}

	switch {
	case dec.hints.HaveTime:
		return nil, curated.Errorf(DanglingHint, kTime)
	case dec.hints.HavePhase:
		return nil, curated.Errorf(DanglingHint, kPhase)
	case dec.hints.HaveSpeed:
		return nil, curated.Errorf(DanglingHint, kSpeed)
	case dec.hints.HaveBaud:
		return nil, curated.Errorf(DanglingHint, kBaud)
	case dec.hints.HaveFraming:
		return nil, curated.Errorf(DanglingHint, kFraming)
	}

	dec.t.scan()

	return dec.t, nil
}

func (dec *decoder) line(line string) error {
	// comments
	if i := strings.IndexByte(line, '#'); i >= 0 {
		line = line[:i]
	}

	// blank lines are skipped but a line of spaces is not blank
	if len(line) == 0 {
		return nil
	}

	// the first word is everything up to the first space. the second word
	// is everything after that space
	line = strings.TrimRight(line, " ")
	word1, word2, hasWord2 := strings.Cut(line, " ")

	if !dec.t.haveVersion {
		major, minor, err := parseVersion(word1, word2, hasWord2)
		if err != nil {
			return err
		}
		if major != VersionMajorSupported {
			return curated.Errorf(VersionMajor, major, VersionMajorSupported)
		}
		if minor > VersionMinorSupported {
			return curated.Errorf(VersionMinor, minor, VersionMinorSupported)
		}
		dec.t.Major = major
		dec.t.Minor = minor
		dec.t.haveVersion = true
		return nil
	}

	if dec.inData {
		return dec.dataLine(word1, word2)
	}

	return dec.metadataLine(word1, word2, hasWord2)
}

func parseVersion(word1 string, word2 string, hasWord2 bool) (uint32, uint32, error) {
	if !hasWord2 {
		return 0, 0, curated.Errorf(VersionNoSpace)
	}
	if word1 != kTibet {
		return 0, 0, curated.Errorf(VersionWord, word1)
	}
	if len(word2) > maxVersionLen || len(word2) < 3 {
		return 0, 0, curated.Errorf(VersionLength, word2)
	}

	// the decimal point must have at least one digit on each side
	var points, dp int
	for i := 0; i < len(word2); i++ {
		c := word2[i]
		if i > 0 && i < len(word2)-1 && c == '.' {
			dp = i
			points++
		} else if c < '0' || c > '9' {
			return 0, 0, curated.Errorf(VersionNonNumeric, word2)
		}
	}
	if points != 1 {
		return 0, 0, curated.Errorf(VersionPoint, word2)
	}
	if dp > maxVersionPortion || len(word2)-dp-1 > maxVersionPortion {
		return 0, 0, curated.Errorf(VersionLength, word2)
	}

	major, _ := strconv.ParseUint(word2[:dp], 10, 32)
	minor, _ := strconv.ParseUint(word2[dp+1:], 10, 32)

	return uint32(major), uint32(minor), nil
}

func (dec *decoder) metadataLine(word1 string, word2 string, hasWord2 bool) error {
	switch word1 {
	case kData, kSquawk:
		if hasWord2 {
			return curated.Errorf(JunkFollowsStart, word1, word2)
		}
		dec.inData = true
		dec.pending = NewDataSpan(word1 == kSquawk, dec.hints)
		dec.hints = Hints{}
		return nil
	}

	if !hasWord2 {
		switch word1 {
		case kTibet, kSilence, kLeader, kBaud, kFraming, kTime, kPhase, kSpeed:
			return curated.Errorf(MissingValue, word1)
		}
		return curated.Errorf(UnknownWord, word1)
	}

	switch word1 {
	case kTibet:
		return dec.repeatVersion(word2)
	case kSilence:
		return dec.silence(word2)
	case kLeader:
		return dec.leader(word2)
	case kBaud:
		return dec.baud(word2)
	case kFraming:
		return dec.framing(word2)
	case kTime:
		return dec.time(word2)
	case kPhase:
		return dec.phase(word2)
	case kSpeed:
		return dec.speed(word2)
	}

	return curated.Errorf(UnknownWord, word1)
}

// a repeated version line marks the start of a concatenated file
func (dec *decoder) repeatVersion(v string) error {
	major, minor, err := parseVersion(kTibet, v, true)
	if err != nil {
		return err
	}
	if major != dec.t.Major || minor != dec.t.Minor {
		return curated.Errorf(VersionMismatch, major, minor, dec.t.Major, dec.t.Minor)
	}
	dec.hints.Baud = 1200
	dec.hints.Framing = "8N1"
	return nil
}

func (dec *decoder) silence(v string) error {
	// only the time hint is compatible with silence
	if err := incompatible(SpanSilent,
		hintCheck{dec.hints.HaveBaud, kBaud},
		hintCheck{dec.hints.HaveFraming, kFraming},
		hintCheck{dec.hints.HaveSpeed, kSpeed},
		hintCheck{dec.hints.HavePhase, kPhase}); err != nil {
		return err
	}

	f, err := parseDecimal(v)
	if err != nil {
		return err
	}

	// very short silence is skipped. the hints remain pending
	if float64(f) < minSilence {
		return nil
	}

	if f > maxSilence {
		return curated.Errorf(LongSilence, v)
	}

	err = dec.t.appendSilence(f, -1, dec.hints)
	dec.hints = Hints{}
	return err
}

func (dec *decoder) leader(v string) error {
	// time and speed hints are compatible with leader
	if err := incompatible(SpanLeader,
		hintCheck{dec.hints.HaveBaud, kBaud},
		hintCheck{dec.hints.HaveFraming, kFraming},
		hintCheck{dec.hints.HavePhase, kPhase}); err != nil {
		return err
	}

	n, err := parseInt(v)
	if err != nil {
		return err
	}
	if n > maxLeader {
		return curated.Errorf(LongLeader, v)
	}

	err = dec.t.appendLeader(-1, n, dec.hints)
	dec.hints = Hints{}
	return err
}

type hintCheck struct {
	have    bool
	keyword string
}

// incompatible returns an error for the first hint that is present
func incompatible(span SpanType, checks ...hintCheck) error {
	for _, c := range checks {
		if c.have {
			return curated.Errorf(FieldIncompatible, c.keyword, span)
		}
	}
	return nil
}

func (dec *decoder) baud(v string) error {
	if dec.hints.HaveBaud {
		return curated.Errorf(DuplicateHint, kBaud)
	}
	b, err := parseInt(v)
	if err != nil {
		return err
	}
	switch b {
	case 75, 150, 300, 600, 1200:
	default:
		return curated.Errorf(BadBaud, v)
	}
	dec.hints.Baud = b
	dec.hints.HaveBaud = true
	return nil
}

func (dec *decoder) framing(v string) error {
	if dec.hints.HaveFraming {
		return curated.Errorf(DuplicateHint, kFraming)
	}
	switch v {
	case "7E2", "7O2", "7E1", "7O1", "8N2", "8N1", "8E1", "8O1":
	default:
		return curated.Errorf(BadFraming, v)
	}
	dec.hints.Framing = v
	dec.hints.HaveFraming = true
	return nil
}

func (dec *decoder) time(v string) error {
	if dec.hints.HaveTime {
		return curated.Errorf(DuplicateHint, kTime)
	}
	f, err := parseDecimal(v)
	if err != nil {
		return err
	}
	if f > maxTimeHint {
		return curated.Errorf(TimeTooLarge, v)
	}
	dec.hints.Time = f
	dec.hints.HaveTime = true
	return nil
}

func (dec *decoder) phase(v string) error {
	if dec.hints.HavePhase {
		return curated.Errorf(DuplicateHint, kPhase)
	}
	p, err := parseInt(v)
	if err != nil {
		return err
	}
	switch p {
	case 0, 90, 180, 270:
	default:
		return curated.Errorf(BadPhase, v)
	}
	dec.hints.Phase = p
	dec.hints.HavePhase = true
	return nil
}

func (dec *decoder) speed(v string) error {
	if dec.hints.HaveSpeed {
		return curated.Errorf(DuplicateHint, kSpeed)
	}
	f, err := parseDecimal(v)
	if err != nil {
		return err
	}
	if f >= maxSpeedHint {
		return curated.Errorf(SpeedHigh, v)
	}
	if f <= minSpeedHint {
		return curated.Errorf(SpeedLow, v)
	}
	dec.hints.Speed = f
	dec.hints.HaveSpeed = true
	return nil
}

// tone characters are buffered until the end keyword. spaces are permitted
// between tone characters
func (dec *decoder) dataLine(word1 string, word2 string) error {
	if word1 == kEnd {
		dec.inData = false
		err := dec.t.AppendData(dec.pending)
		dec.pending = nil
		return err
	}

	for i := 0; i < len(word2); i++ {
		switch word2[i] {
		case ' ':
		case CharOne, CharZero, CharPulse:
		default:
			return curated.Errorf(JunkFollowsLine, word2[i])
		}
	}

	line := word1 + strings.ReplaceAll(word2, " ", "")
	for i := 0; i < len(line); i++ {
		if err := dec.pending.AppendToneChar(line[i]); err != nil {
			return err
		}
	}

	return nil
}

func parseInt(v string) (uint32, error) {
	if len(v) > maxIntChars {
		return 0, curated.Errorf(IntTooLong, v)
	}
	for i := 0; i < len(v); i++ {
		if v[i] < '0' || v[i] > '9' {
			return 0, curated.Errorf(IntBadChar, v)
		}
	}
	n, err := strconv.ParseUint(v, 10, 32)
	if err != nil {
		return 0, curated.Errorf(IntParse, v)
	}
	return uint32(n), nil
}

func parseDecimal(v string) (float32, error) {
	if len(v) > maxDecimalChars {
		return 0, curated.Errorf(DecimalTooLong, v)
	}

	var point bool
	for i := 0; i < len(v); i++ {
		switch c := v[i]; {
		case c == '.':
			if point {
				return 0, curated.Errorf(DecimalPoints, v)
			}
			point = true
			if i == len(v)-1 {
				return 0, curated.Errorf(DecimalPointEnds, v)
			}
		case c < '0' || c > '9':
			return 0, curated.Errorf(DecimalBadChar, v)
		}
	}

	f, err := strconv.ParseFloat(v, 32)
	if err != nil {
		return 0, curated.Errorf(DecimalParse, v)
	}
	return float32(f), nil
}
