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

package uef_test

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
	"github.com/rjpontefract/b-em-sub001/tape/uef"
	"github.com/rjpontefract/b-em-sub001/test"
)

func chunk(typ uef.ChunkType, data ...byte) []byte {
	b := tapebytes.AppendU16(nil, uint16(typ))
	b = tapebytes.AppendU32(b, uint32(len(data)))
	return append(b, data...)
}

func file(chunks ...[]byte) []byte {
	b := []byte("UEF File!\x00")
	b = append(b, 10, 0)
	for _, c := range chunks {
		b = append(b, c...)
	}
	return b
}

func floatGap(seconds float32) []byte {
	return chunk(uef.ChunkFloatGap, tapebytes.AppendU32(nil, math.Float32bits(seconds))...)
}

func load(t *testing.T, data []byte) *uef.UEF {
	t.Helper()
	u, err := uef.Load(logger.Allow, data, uef.Options{})
	test.DemandSuccess(t, err)
	return u
}

func readAll(t *testing.T, u *uef.UEF) string {
	t.Helper()
	var s strings.Builder
	for {
		tone, _, err := u.ReadTone()
		if err != nil {
			test.ExpectSuccess(t, tapeerr.IsEOF(err))
			return s.String()
		}
		s.WriteByte(tone)
	}
}

// leader of two 1200ths followed by a single zero byte
func leaderAndZero() []byte {
	return file(
		chunk(uef.ChunkLeader, 4, 0),
		chunk(uef.ChunkData, 0x00),
	)
}

func TestEmpty(t *testing.T) {
	u := load(t, file())
	test.ExpectFailure(t, u.HasData())
	test.ExpectEquality(t, u.Duration(), 0)
	test.ExpectEquality(t, readAll(t, u), "")
	test.ExpectSuccess(t, u.PeekEOF())
}

func TestTones(t *testing.T) {
	var tests = []struct {
		name  string
		data  []byte
		tones string
	}{
		{"8N1", file(chunk(uef.ChunkData, 0x55)), "0101010101"},
		{"leader", leaderAndZero(), "11" + "0000000001"},
		{"integer gap", file(chunk(uef.ChunkGap, 6, 0)), "SSS"},
		{"float gap", file(floatGap(0.01)), strings.Repeat("S", 12)},
		{"tiny float gap", file(floatGap(0.0001)), ""},
		{"300 baud", file(chunk(uef.ChunkBaud, 0x2c, 0x01), chunk(uef.ChunkData, 0xff)), "0000" + strings.Repeat("1", 36)},
		{"7E2 ignores bit seven", file(chunk(uef.ChunkFramed, 7, 'E', 2, 0x41, 0xc1)), "01000001011" + "01000001011"},
		{"8O1", file(chunk(uef.ChunkFramed, 8, 'O', 1, 0x01)), "01000000001"},
		{"explicit bits", file(chunk(uef.ChunkBits, 4, 0xab)), "1101"},
		{"cycles resynchronise", file(chunk(uef.ChunkCycles, 5, 0, 0, 'P', 'W', 0xd0)), "100"},
		{"leader with dummy byte", file(chunk(uef.ChunkLeaderDummy, 4, 0, 2, 0)), "11" + "0010101011" + "1"},
		{"dummy byte only", file(chunk(uef.ChunkLeaderDummy, 0, 0, 0, 0)), "0010101011"},
		{"metadata has no tones", file(chunk(uef.ChunkPosition, 'a'), chunk(uef.ChunkPhase, 90, 0)), ""},
	}

	for _, tt := range tests {
		u := load(t, tt.data)
		test.ExpectEquality(t, readAll(t, u), tt.tones, tt.name)
		test.ExpectEquality(t, u.Duration(), int32(len(tt.tones)), tt.name)
	}
}

func TestElapsedChain(t *testing.T) {
	u := load(t, leaderAndZero())

	chunks := u.Chunks()
	test.DemandEquality(t, len(chunks), 2)
	test.ExpectEquality(t, chunks[0].Span.Start, 0)
	test.ExpectEquality(t, chunks[0].Span.Duration, 2)
	test.ExpectEquality(t, chunks[1].Span.Start, 2)
	test.ExpectEquality(t, chunks[1].Span.Duration, 10)
	test.ExpectSuccess(t, u.VerifyTimestamps())

	for i := int32(0); i < 12; i++ {
		test.ExpectEquality(t, u.Elapsed(), i)
		_, elapsed, err := u.ReadTone()
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, elapsed, i)
	}

	u.FastForward()
	test.ExpectSuccess(t, u.PeekEOF())
	test.ExpectEquality(t, u.Elapsed(), 12)
	_, _, err := u.ReadTone()
	test.ExpectSuccess(t, tapeerr.IsEOF(err))
}

func TestSeek(t *testing.T) {
	u := load(t, leaderAndZero())

	test.DemandSuccess(t, u.Seek(1))
	test.ExpectEquality(t, u.Elapsed(), 2)
	tone, elapsed, err := u.ReadTone()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, tone, '0')
	test.ExpectEquality(t, elapsed, 2)

	test.DemandSuccess(t, u.Seek(0))
	test.ExpectEquality(t, u.Elapsed(), 0)
	test.ExpectEquality(t, readAll(t, u), "11"+"0000000001")

	err = u.Seek(2)
	test.ExpectSuccess(t, tapeerr.IsBug(err))
}

func TestBaudAfterSeek(t *testing.T) {
	u := load(t, file(
		chunk(uef.ChunkBaud, 0x2c, 0x01),
		chunk(uef.ChunkData, 0xff),
		chunk(uef.ChunkData, 0x00),
	))
	test.ExpectEquality(t, u.ScanBackwardsFor117(2), 300)

	// the second data chunk is still at 300 baud
	test.DemandSuccess(t, u.Seek(2))
	test.ExpectEquality(t, readAll(t, u), strings.Repeat("0", 36)+"1111")

	u.Rewind()
	test.ExpectEquality(t, len(readAll(t, u)), 80)
}

func TestScanBackwardsFor117(t *testing.T) {
	u := load(t, file(
		chunk(uef.ChunkBaud, 0x2c, 0x01),
		chunk(uef.ChunkData, 0x00),
		chunk(uef.ChunkBaud, 0xb0, 0x04),
		chunk(uef.ChunkData, 0x00),
	))
	test.ExpectEquality(t, u.ScanBackwardsFor117(0), 300)
	test.ExpectEquality(t, u.ScanBackwardsFor117(1), 300)
	test.ExpectEquality(t, u.ScanBackwardsFor117(3), 1200)
	test.ExpectEquality(t, u.ScanBackwardsFor117(100), 1200)
	test.ExpectEquality(t, uef.NewUEF(logger.Allow).ScanBackwardsFor117(0), 1200)
}

func TestUnknownChunk(t *testing.T) {
	data := file(
		chunk(uef.ChunkData, 0x00),
		chunk(0x9999, 1, 2, 3),
		chunk(uef.ChunkData, 0xff),
	)

	_, err := uef.Load(logger.Allow, data, uef.Options{})
	test.ExpectFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, uef.UnknownChunk))
	test.ExpectEquality(t, tapeerr.KindOf(err), tapeerr.FieldRange)

	u, err := uef.Load(logger.Allow, data, uef.Options{SkipUnknown: true})
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, len(u.Chunks()), 2)
	test.ExpectEquality(t, readAll(t, u), "0000000001"+"0111111111")
}

func TestLoadErrors(t *testing.T) {
	bodyTruncated := tapebytes.AppendU16(nil, uint16(uef.ChunkData))
	bodyTruncated = tapebytes.AppendU32(bodyTruncated, 5)
	bodyTruncated = append(bodyTruncated, 0x01)

	origins := make([][]byte, uef.MaxGlobals+1)
	for i := range origins {
		origins[i] = chunk(uef.ChunkOrigin, 'a')
	}

	markers := make([][]byte, uef.MaxMetadata+1)
	for i := range markers {
		markers[i] = chunk(uef.ChunkPosition, 'a')
	}
	markers = append(markers, chunk(uef.ChunkData, 0))

	var tests = []struct {
		name    string
		data    []byte
		pattern string
		kind    tapeerr.Kind
	}{
		{"short", []byte("UEF File!"), uef.HeaderTruncated, tapeerr.Truncated},
		{"magic", []byte("UEF File?\x00\x0a\x00"), uef.BadMagic, tapeerr.BadMagic},
		{"chunk header", append(file(), 0, 1, 0, 0, 0), uef.ChunkHeaderTruncated, tapeerr.Truncated},
		{"chunk body", file(bodyTruncated), uef.ChunkBodyTruncated, tapeerr.Truncated},
		{"leader length", file(chunk(uef.ChunkLeader, 1, 2, 3)), uef.ChunkLength, tapeerr.LengthMismatch},
		{"short title length", file(chunk(uef.ChunkShortTitle, bytes.Repeat([]byte{'a'}, 256)...)), uef.ChunkLength, tapeerr.LengthMismatch},
		{"bits offset", file(chunk(uef.ChunkBits, 16, 0)), uef.BitsOffset, tapeerr.FieldRange},
		{"framing data bits", file(chunk(uef.ChunkFramed, 9, 'N', 1, 0)), uef.FramingDataBits, tapeerr.FieldRange},
		{"framing parity", file(chunk(uef.ChunkFramed, 8, 'X', 1, 0)), uef.FramingParity, tapeerr.FieldRange},
		{"framing stop bits", file(chunk(uef.ChunkFramed, 8, 'N', 3, 0)), uef.FramingStopBits, tapeerr.FieldRange},
		{"pulse wave", file(chunk(uef.ChunkCycles, 1, 0, 0, 'X', 'W', 0)), uef.PulseWave, tapeerr.FieldRange},
		{"cycle count", file(chunk(uef.ChunkCycles, 16, 0, 0, 'P', 'W', 0)), uef.CycleCount, tapeerr.LengthMismatch},
		{"negative gap", file(floatGap(-1.0)), uef.NegativeGap, tapeerr.FieldRange},
		{"huge gap", file(floatGap(40000.0)), uef.HugeGap, tapeerr.FieldRange},
		{"phase", file(chunk(uef.ChunkPhase, 0x90, 0x01)), uef.BadPhase, tapeerr.FieldRange},
		{"baud", file(chunk(uef.ChunkBaud, 0x58, 0x02)), uef.BadBaud, tapeerr.FieldRange},
		{"vocabulary", file(chunk(uef.ChunkTapeSet, 5, 1, 1)), uef.Vocabulary, tapeerr.FieldRange},
		{"tape id limit", file(chunk(uef.ChunkTapeSet, 0, 2, 1), chunk(uef.ChunkTapeSide, 2, 0, 'x')), uef.TapeIDLimit, tapeerr.FieldRange},
		{"channel id", file(chunk(uef.ChunkTapeSide, 0, 0xff, 'x')), uef.ChannelID, tapeerr.FieldRange},
		{"origin utf8", file(chunk(uef.ChunkOrigin, 0xff)), uef.BadUTF8, tapeerr.Unicode},
		{"target machine", file(chunk(uef.ChunkTarget, 0x53)), uef.TargetMachine, tapeerr.FieldRange},
		{"bit multiplex", file(chunk(uef.ChunkBitMultiplex, 0)), uef.BitMultiplex, tapeerr.FieldRange},
		{"inlay length", file(chunk(uef.ChunkInlay, 1, 0, 1, 0, 0x88, 0, 0)), uef.InlayLength, tapeerr.LengthMismatch},
		{"inlay zero", file(chunk(uef.ChunkInlay, 0, 0, 1, 0, 0x88)), uef.InlayZero, tapeerr.FieldRange},
		{"too many origins", file(origins...), uef.TooManyGlobals, tapeerr.OutOfMemory},
		{"too many metadata", file(markers...), uef.TooManyMetadata, tapeerr.OutOfMemory},
	}

	for _, tt := range tests {
		_, err := uef.Load(logger.Allow, tt.data, uef.Options{})
		if !test.ExpectFailure(t, err, tt.name) {
			continue
		}
		test.ExpectSuccess(t, curated.Has(err, tt.pattern), tt.name)
		test.ExpectEquality(t, tapeerr.KindOf(err), tt.kind, tt.name)
		test.ExpectSuccess(t, tapeerr.KindOf(err).Fatal(), tt.name)
	}
}

func TestGlobals(t *testing.T) {
	u := load(t, file(
		chunk(uef.ChunkOrigin, []byte("MakeUEF V2.3\x00")...),
		chunk(uef.ChunkInstructions, []byte("press play")...),
		chunk(uef.ChunkShortTitle, []byte("Elite")...),
		chunk(uef.ChunkTarget, 0x01),
		chunk(uef.ChunkInlay, 1, 0, 1, 0, 0x88, 0x7f),
		chunk(uef.ChunkFramed, 8, 'E', 1, 0x01),
	))

	g := u.Globals()
	test.ExpectEquality(t, len(g.Origins), 1)
	test.ExpectEquality(t, g.Origins[0], "MakeUEF V2.3")
	test.ExpectEquality(t, g.Instructions[0], "press play")
	test.ExpectEquality(t, g.ShortTitle, "Elite")
	test.ExpectEquality(t, string(g.TargetMachines), "\x01")
	test.DemandEquality(t, len(g.InlayScans), 1)
	test.ExpectSuccess(t, g.InlayScans[0].Grey)
	test.ExpectEquality(t, string(g.InlayScans[0].Body), "\x7f")
	test.ExpectEquality(t, g.MakeUEF, uef.MakeUEF{Valid: true, Major: 2, Minor: 3})
	test.ExpectSuccess(t, g.ReversedParity())

	// even parity is read as odd because of the old MakeUEF
	test.ExpectEquality(t, readAll(t, u), "01000000001")

	u = load(t, file(
		chunk(uef.ChunkOrigin, []byte("MakeUEF V2.10")...),
		chunk(uef.ChunkFramed, 8, 'E', 1, 0x01),
	))
	test.ExpectFailure(t, u.Globals().ReversedParity())
	test.ExpectEquality(t, readAll(t, u), "01000000011")
}

func TestMetadataHandler(t *testing.T) {
	u := load(t, file(
		chunk(uef.ChunkData, 0x00),
		chunk(uef.ChunkPosition, 'p', 'o', 's', 0),
		chunk(uef.ChunkData, 0xff),
	))

	var metas []uef.Meta
	u.SetMetadataHandler(func(m uef.Meta) {
		metas = append(metas, m)
	})

	test.ExpectEquality(t, len(readAll(t, u)), 20)
	test.DemandEquality(t, len(metas), 1)
	test.ExpectEquality(t, metas[0].Type, uef.ChunkPosition)
	test.ExpectEquality(t, metas[0].Position, "pos")
}

func TestBuild(t *testing.T) {
	data := file(
		chunk(uef.ChunkOrigin, []byte("test")...),
		chunk(uef.ChunkLeader, 4, 0),
		chunk(uef.ChunkFramed, 7, 'O', 2, 0x41),
		floatGap(0.5),
	)

	u := load(t, data)
	out, err := u.Build()
	test.DemandSuccess(t, err)
	test.ExpectSuccess(t, bytes.Equal(out, data))
}

func TestAppendChunk(t *testing.T) {
	u := uef.NewUEF(logger.Allow)

	o := uef.NewChunk(uef.ChunkOrigin, 0)
	err := u.AppendChunk(o)
	test.ExpectEquality(t, tapeerr.KindOf(err), tapeerr.LengthMismatch)

	o.Data = []byte("b-em-sub001")
	test.DemandSuccess(t, u.AppendChunk(o))
	test.ExpectEquality(t, u.Globals().Origins[0], "b-em-sub001")

	l := uef.NewChunk(uef.ChunkLeader, 0)
	l.Data = tapebytes.AppendU16(nil, 4)
	l.Span.Duration = 2
	test.DemandSuccess(t, u.AppendChunk(l))

	d := uef.NewChunk(uef.ChunkData, 2)
	d.AppendByte(0x00)
	d.Span.Duration = 10
	test.DemandSuccess(t, u.AppendChunk(d))

	test.ExpectSuccess(t, u.VerifyTimestamps())
	test.ExpectEquality(t, u.Duration(), 12)
	test.ExpectEquality(t, readAll(t, u), "11"+"0000000001")

	// the built file scans to the same spans
	out, err := u.Build()
	test.DemandSuccess(t, err)
	v := load(t, out)
	for i := range u.Chunks() {
		test.ExpectEquality(t, v.Chunks()[i].Span, u.Chunks()[i].Span)
	}

	// a gap in the chain is a bug
	g := uef.NewChunk(uef.ChunkGap, 20)
	g.Data = tapebytes.AppendU16(nil, 2)
	g.Span.Duration = 1
	test.DemandSuccess(t, u.AppendChunk(g))
	err = u.VerifyTimestamps()
	test.ExpectSuccess(t, tapeerr.IsBug(err))
	test.ExpectSuccess(t, curated.Is(err, uef.Timestamps))

	bad := uef.NewChunk(uef.ChunkData, -2)
	bad.AppendByte(0)
	test.ExpectSuccess(t, tapeerr.IsBug(u.AppendChunk(bad)))
}

func TestBaudPayload(t *testing.T) {
	test.ExpectEquality(t, string(uef.BaudPayload(logger.Allow, 1200)), "\xb0\x04")
	test.ExpectEquality(t, string(uef.BaudPayload(logger.Allow, 300)), "\x2c\x01")
	test.ExpectEquality(t, string(uef.BaudPayload(logger.Allow, 75)), "\x4b\x00")
	test.ExpectEquality(t, len(uef.BaudPayload(logger.Allow, 2400)), 0)
}

func TestClone(t *testing.T) {
	u := load(t, leaderAndZero())
	c := u.Clone()

	for i := 0; i < 3; i++ {
		_, _, err := c.ReadTone()
		test.DemandSuccess(t, err)
	}
	test.ExpectEquality(t, c.Elapsed(), 3)
	test.ExpectEquality(t, u.Elapsed(), 0)

	c.Chunks()[1].Data[0] = 0xff
	test.ExpectEquality(t, readAll(t, u), "11"+"0000000001")
}
