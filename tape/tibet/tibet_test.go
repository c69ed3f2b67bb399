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

package tibet_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
	"github.com/rjpontefract/b-em-sub001/tape/tibet"
	"github.com/rjpontefract/b-em-sub001/test"
)

const example = `tibet 0.5
# a single byte of zero

silence 0.5
leader 100

/baud 1200
/framing 8N1
/time 1.5
data
---------  ---------.. # trailing comment
end
`

func readAll(t *testing.T, tp *tibet.TIBET) string {
	t.Helper()
	var s strings.Builder
	for {
		tone, _, err := tp.ReadTone()
		if err != nil {
			test.ExpectSuccess(t, tapeerr.IsEOF(err))
			return s.String()
		}
		s.WriteByte(tone)
	}
}

func TestDecode(t *testing.T) {
	tp, err := tibet.Decode(logger.Allow, []byte(example))
	test.DemandSuccess(t, err)

	spans := tp.Spans()
	test.DemandEquality(t, len(spans), 3)
	test.ExpectEquality(t, spans[0].Type, tibet.SpanSilent)
	test.ExpectEquality(t, spans[0].Silence, 0.5)
	test.ExpectEquality(t, spans[1].Type, tibet.SpanLeader)
	test.ExpectEquality(t, spans[1].Leader, 100)
	test.ExpectEquality(t, spans[2].Type, tibet.SpanData)
	test.ExpectEquality(t, string(spans[2].Tones), strings.Repeat("-", 18)+"..")
	test.ExpectSuccess(t, spans[2].Hints.HaveBaud)
	test.ExpectEquality(t, spans[2].Hints.Framing, "8N1")
	test.ExpectEquality(t, spans[2].Hints.Time, 1.5)
	test.ExpectFailure(t, spans[2].Hints.HavePhase)
	test.ExpectSuccess(t, tp.HasData())

	// intervals from the initial scan
	test.ExpectEquality(t, spans[0].Interval.Duration, 601)
	test.ExpectEquality(t, spans[1].Interval.Start, 601)
	test.ExpectEquality(t, spans[1].Interval.Duration, 50)
	test.ExpectEquality(t, spans[2].Interval.Start, 651)
	test.ExpectEquality(t, tp.Duration(), 661)

	s := readAll(t, tp)
	test.ExpectEquality(t, s, strings.Repeat("S", 601)+strings.Repeat("L", 50)+"0000000001")
	test.ExpectSuccess(t, tp.PeekEOF())

	tp.Rewind()
	test.ExpectFailure(t, tp.PeekEOF())
	test.DemandSuccess(t, tp.Seek(2))
	tone, elapsed, err := tp.ReadTone()
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, tone, '0')
	test.ExpectEquality(t, elapsed, 651)
}

func TestRoundTrip(t *testing.T) {
	tp, err := tibet.Decode(logger.Allow, []byte(example))
	test.DemandSuccess(t, err)

	out, err := tp.Build()
	test.DemandSuccess(t, err)

	rt, err := tibet.Decode(logger.Allow, out)
	test.DemandSuccess(t, err)

	a := tp.Spans()
	b := rt.Spans()
	test.DemandEquality(t, len(a), len(b))
	for i := range a {
		test.ExpectEquality(t, a[i].Type, b[i].Type)
		test.ExpectEquality(t, a[i].Leader, b[i].Leader)
		test.ExpectEquality(t, a[i].Silence, b[i].Silence)
		test.ExpectEquality(t, a[i].Hints, b[i].Hints)
		test.ExpectSuccess(t, bytes.Equal(a[i].Tones, b[i].Tones))
		test.ExpectEquality(t, a[i].Interval, b[i].Interval)
	}

	// output is stable
	out2, err := rt.Build()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, string(out), string(out2))
}

func TestLineWrap(t *testing.T) {
	tp := tibet.NewTIBET(logger.Deny)
	span := tibet.NewDataSpan(false, tibet.Hints{HaveFraming: true, Framing: "7E2"})
	for i := 0; i < 48; i++ {
		test.DemandSuccess(t, span.AppendToneChar('.'))
	}
	test.DemandSuccess(t, tp.AppendData(span))

	out, err := tp.Build()
	test.DemandSuccess(t, err)

	// 7E2 is eleven bits in a frame
	test.ExpectSuccess(t, strings.Contains(string(out), "\n"+strings.Repeat(".", 22)+"\n"+strings.Repeat(".", 22)+"\n....\nend\n"))
}

func TestPulses(t *testing.T) {
	tp, err := tibet.Decode(logger.Deny, []byte("tibet 0.5\ndata\nP..P--P\nend\n"))
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, readAll(t, tp), "10")

	span := tibet.NewDataSpan(false, tibet.Hints{})
	test.DemandSuccess(t, span.AppendToneChar('P'))
	err = span.AppendToneChar('P')
	test.ExpectSuccess(t, curated.Is(err, tibet.DoublePulse))
	err = span.AppendToneChar('x')
	test.ExpectSuccess(t, curated.Is(err, tibet.IllegalTone))
}

func TestReadBit300(t *testing.T) {
	tp, err := tibet.Decode(logger.Deny, []byte("tibet 0.5\ndata\n........--------\nend\n"))
	test.DemandSuccess(t, err)

	bit, err := tp.ReadBit(true)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, bit, '1')
	bit, err = tp.ReadBit(true)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, bit, '0')
	_, err = tp.ReadBit(true)
	test.ExpectSuccess(t, tapeerr.IsEOF(err))

	// resynchronise after a mismatch
	tp, err = tibet.Decode(logger.Deny, []byte("tibet 0.5\ndata\n..--........\nend\n"))
	test.DemandSuccess(t, err)
	bit, err = tp.ReadBit(true)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, bit, '1')

	// leader and '1' are the same when checking for consistency
	tp, err = tibet.Decode(logger.Deny, []byte("tibet 0.5\nleader 4\ndata\n....\nend\n"))
	test.DemandSuccess(t, err)
	bit, err = tp.ReadBit(true)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, bit, 'L')
}

func TestDecodeErrors(t *testing.T) {
	const v = "tibet 0.5\n"

	cases := []struct {
		text    string
		pattern string
	}{
		{"", tibet.VersionAbsent},
		{"# only a comment\n", tibet.VersionAbsent},
		{"tibet\n", tibet.VersionNoSpace},
		{"tobet 0.5\n", tibet.VersionWord},
		{"tibet 1.0\n", tibet.VersionMajor},
		{"tibet 0.6\n", tibet.VersionMinor},
		{"tibet 0.5.1\n", tibet.VersionPoint},
		{"tibet .55\n", tibet.VersionNonNumeric},
		{"tibet 0.123456\n", tibet.VersionLength},
		{v + "tibet 0.4\n", tibet.VersionMismatch},
		{v + "\x01\n", tibet.BadChar},
		{"tibet 0.5\r\n", tibet.BadChar},
		{v + "foo 1\n", tibet.UnknownWord},
		{v + "leader\n", tibet.MissingValue},
		{v + "silence 40000\n", tibet.LongSilence},
		{v + "silence 1.2.3\n", tibet.DecimalPoints},
		{v + "silence 1.\n", tibet.DecimalPointEnds},
		{v + "silence 1x\n", tibet.DecimalBadChar},
		{v + "silence " + strings.Repeat("1", 51) + "\n", tibet.DecimalTooLong},
		{v + "leader 100000001\n", tibet.LongLeader},
		{v + "leader 12345678901\n", tibet.IntTooLong},
		{v + "leader 4294967296\n", tibet.IntParse},
		{v + "leader -1\n", tibet.IntBadChar},
		{v + "/baud 2400\n", tibet.BadBaud},
		{v + "/baud 300\n/baud 300\n", tibet.DuplicateHint},
		{v + "/framing 9N1\n", tibet.BadFraming},
		{v + "/phase 45\n", tibet.BadPhase},
		{v + "/speed 1.5\n", tibet.SpeedHigh},
		{v + "/speed 0.5\n", tibet.SpeedLow},
		{v + "/time 36001\n", tibet.TimeTooLarge},
		{v + "/baud 300\nsilence 1\n", tibet.FieldIncompatible},
		{v + "/phase 90\nleader 10\n", tibet.FieldIncompatible},
		{v + "/time 1\n", tibet.DanglingHint},
		{v + "/framing 8N1\n", tibet.DanglingHint},
		{v + "data x\n", tibet.JunkFollowsStart},
		{v + "data\n.. x\nend\n", tibet.JunkFollowsLine},
		{v + "data\n.x\nend\n", tibet.IllegalTone},
		{v + "data\n.PP.\nend\n", tibet.DoublePulse},
		{v + "data\n....\n", tibet.Unterminated},
	}

	for _, c := range cases {
		_, err := tibet.Decode(logger.Deny, []byte(c.text))
		test.ExpectSuccess(t, curated.Has(err, c.pattern), c.text)
		test.ExpectSuccess(t, tapeerr.KindOf(err).Fatal(), c.text)
	}

	permitted := []string{
		v,
		v + v,
		v + "/time 1\nsilence 1\n",
		v + "/speed 1.04\n/time 2\nleader 10\n",
		v + "silence 0.0001\n",
		v + "data\nend\n",
		"\n# leading comment\n" + v,
		v + "leader 10",
	}

	for _, p := range permitted {
		_, err := tibet.Decode(logger.Deny, []byte(p))
		test.ExpectSuccess(t, err, p)
	}
}

func TestAppend(t *testing.T) {
	tp := tibet.NewTIBET(logger.Deny)
	test.DemandSuccess(t, tp.AppendSilence(0.5, 0, tibet.Hints{}))
	test.DemandSuccess(t, tp.AppendLeader(601, 1, tibet.Hints{}))

	// leader is at least two 2400ths
	test.ExpectEquality(t, tp.Spans()[1].Leader, 2)
	test.ExpectEquality(t, tp.Duration(), 602)

	err := tp.AppendData(&tibet.Span{Type: tibet.SpanLeader})
	test.ExpectSuccess(t, tapeerr.IsBug(err))

	c := tp.Clone()
	span := tibet.NewDataSpan(true, tibet.Hints{})
	test.DemandSuccess(t, span.AppendToneChar('-'))
	test.DemandSuccess(t, c.AppendData(span))
	test.ExpectSuccess(t, c.HasData())
	test.ExpectFailure(t, tp.HasData())

	out, err := c.Build()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, strings.HasPrefix(string(out), "tibet 0.5\n\nsilence 0.500000\n\nleader 2\n\nsquawk\n-\nend\n"))
}

func TestSpanTypes(t *testing.T) {
	test.ExpectEquality(t, tibet.SpanSilent.String(), "silent")
	test.ExpectEquality(t, tibet.SpanLeader.String(), "leader")
	test.ExpectEquality(t, tibet.SpanData.String(), "data")
	test.ExpectEquality(t, tibet.SpanInvalid.String(), "invalid")

	// only data spans can be appended with AppendData()
	tp := tibet.NewTIBET(logger.Deny)
	err := tp.AppendData(&tibet.Span{Type: tibet.SpanLeader})
	test.ExpectSuccess(t, curated.Is(err, tibet.PendingType))
	test.ExpectSuccess(t, tapeerr.IsBug(err))
	test.ExpectSuccess(t, tapeerr.IsBug(curated.Errorf(tibet.BadSpanType, 0)))
}
