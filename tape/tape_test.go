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

package tape_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/environment"
	"github.com/rjpontefract/b-em-sub001/hardware/acia"
	"github.com/rjpontefract/b-em-sub001/hardware/preferences"
	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/tape"
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
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

func newTape(t *testing.T) (*tape.Tape, *notifications.Recorder) {
	t.Helper()
	rec := &notifications.Recorder{}
	env := &environment.Environment{Notifications: rec}
	return tape.NewTape(env), rec
}

// a block of gap, leader of the specified number of 1200ths and a single zero
// byte
func squawk(leader int) []byte {
	return file(
		chunk(uef.ChunkGap, 20, 0),
		chunk(uef.ChunkLeader, tapebytes.AppendU16(nil, uint16(leader*2))...),
		chunk(uef.ChunkData, 0x00),
	)
}

// the tone at the position of the start bit of the first byte, as seen by an
// ACIA that is waiting for a start bit
func startBit(t *testing.T, tp *tape.Tape, leader int, phantom bool) byte {
	t.Helper()
	var s strings.Builder
	for {
		tone, _, err := tp.ToneFromBackEnd(false, true, phantom)
		if err != nil {
			test.DemandSuccess(t, tapeerr.IsEOF(err))
			break
		}
		s.WriteByte(tone)
	}
	tones := s.String()
	i := strings.IndexFunc(tones, func(r rune) bool { return r != tapeclock.ToneSilence })
	test.DemandSuccess(t, i > 0)
	return tones[i+leader]
}

func TestPhantomBlockProtection(t *testing.T) {
	tp, _ := newTape(t)

	test.DemandSuccess(t, tp.Load(tape.FileUEF, squawk(70)))
	test.ExpectEquality(t, startBit(t, tp, 70, true), tapeclock.ToneLeader)

	tp.Rewind()
	test.ExpectEquality(t, startBit(t, tp, 70, false), tapeclock.ToneZero)

	test.DemandSuccess(t, tp.Load(tape.FileUEF, squawk(110)))
	test.ExpectEquality(t, startBit(t, tp, 110, true), tapeclock.ToneZero)

	// fifty 1200ths of silence then a short leader and a start bit
	for _, tc := range []struct {
		leader  int
		phantom bool
		tone    byte
	}{
		{leader: 70, phantom: true, tone: tapeclock.ToneLeader},
		{leader: 70, phantom: false, tone: tapeclock.ToneZero},
		{leader: 99, phantom: true, tone: tapeclock.ToneLeader},
		{leader: 100, phantom: true, tone: tapeclock.ToneZero},
	} {
		test.DemandSuccess(t, tp.Load(tape.FileUEF, file(
			chunk(uef.ChunkGap, 100, 0),
			chunk(uef.ChunkLeader, tapebytes.AppendU16(nil, uint16(tc.leader*2))...),
			chunk(uef.ChunkData, 0x00),
		)))
		test.ExpectEquality(t, startBit(t, tp, tc.leader, tc.phantom), tc.tone)
	}
}

func TestStripSilence(t *testing.T) {
	tp, _ := newTape(t)
	test.DemandSuccess(t, tp.Load(tape.FileUEF, squawk(150)))

	var s strings.Builder
	for {
		tone, _, err := tp.ToneFromBackEnd(true, false, false)
		if err != nil {
			test.DemandSuccess(t, tapeerr.IsEOF(err))
			break
		}
		s.WriteByte(tone)
	}

	test.ExpectSuccess(t, !strings.ContainsRune(s.String(), tapeclock.ToneSilence))
	test.ExpectEquality(t, s.String(), strings.Repeat("1", 150)+"0000000001")
}

func TestStripSilence300(t *testing.T) {
	for _, strip := range []bool{false, true} {
		tp, _ := newTape(t)
		test.DemandSuccess(t, tp.Load(tape.FileUEF, squawk(150)))

		cfg := tp.Config()
		cfg.StripSilence = strip
		tp.SetConfig(cfg)

		a := acia.NewACIA(nil, "test", nil)
		test.DemandSuccess(t, a.Write(acia.ControlRegister, 0x14))

		// the motor has only just started but the opening silence is still
		// skipped at 300 baud
		_, err := tp.FireACIARxc(a, 64)
		test.DemandSuccess(t, err)
		test.ExpectEquality(t, tp.Elapsed() >= 10, strip, strip)
	}
}

// sends a byte through the transmit shift register of the ACIA, one bit clock
// at a time. the ACIA is master reset after the number of data bits in abort,
// unless abort is negative
func transmit(t *testing.T, tp *tape.Tape, a *acia.ACIA, v uint8, abort int) {
	t.Helper()

	test.DemandSuccess(t, a.Write(acia.DataRegister, v))

	for {
		_, shift, _ := a.TxShiftRegister()
		if abort >= 0 && shift == abort {
			test.DemandSuccess(t, a.Write(acia.ControlRegister, acia.ControlMasterReset))
			return
		}

		bit, err := a.RunTxShiftRegister(acia.FramingFor(a.Control()))
		test.DemandSuccess(t, err)

		_, _, loaded := a.TxShiftRegister()
		if !loaded {
			return
		}

		if bit == 0 {
			bit = tapeclock.ToneOne
		}
		test.DemandSuccess(t, tp.WriteBitClock(a, bit, tapeclock.ToneNS))
	}
}

func leader(t *testing.T, tp *tape.Tape, a *acia.ACIA, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		test.DemandSuccess(t, tp.WriteBitClock(a, tapeclock.ToneOne, tapeclock.ToneNS))
	}
}

func recorder(t *testing.T, tp *tape.Tape) *acia.ACIA {
	t.Helper()
	a := acia.NewACIA(nil, "test", nil)
	a.SetTransport(tp)
	test.DemandSuccess(t, a.Write(acia.ControlRegister, 0x14))
	test.DemandSuccess(t, tp.SetRecord(true, a))
	return a
}

func dataChunks(u *uef.UEF) []uef.Chunk {
	var c []uef.Chunk
	for _, ch := range u.Chunks() {
		if ch.Type == uef.ChunkData {
			c = append(c, ch)
		}
	}
	return c
}

func TestRecordBlank(t *testing.T) {
	tp, rec := newTape(t)
	a := recorder(t, tp)

	leader(t, tp, a, 200)
	test.ExpectEquality(t, tp.FileType(), tape.FileAll)
	test.ExpectEquality(t, rec.Count(notifications.NotifyBlankTape), 1)

	transmit(t, tp, a, 0x41, -1)
	transmit(t, tp, a, 0x42, -1)
	leader(t, tp, a, 20)

	test.DemandSuccess(t, tp.SetRecord(false, a))
	test.ExpectEquality(t, rec.Count(notifications.NotifyRecordModeChanged), 2)
	test.ExpectEquality(t, tp.PeekForData(), tape.FileAll)

	u := tp.UEF()
	test.DemandSuccess(t, u != nil)
	test.ExpectEquality(t, u.Chunks()[0].Type, uef.ChunkOrigin)
	test.ExpectSuccess(t, u.VerifyTimestamps())

	d := dataChunks(u)
	test.DemandEquality(t, len(d), 1)
	test.ExpectEquality(t, string(d[0].Data), "AB")

	// the same recording in every format
	test.ExpectEquality(t, tp.Duration(), tp.TIBET().Duration())
	test.ExpectApproximate(t, tp.CSW().Duration(), tp.Duration(), 2)
}

func TestMasterResetMidFrame(t *testing.T) {
	tp, _ := newTape(t)
	a := recorder(t, tp)

	leader(t, tp, a, 200)
	transmit(t, tp, a, 0x41, 5)
	leader(t, tp, a, 20)
	test.DemandSuccess(t, tp.SetRecord(false, a))

	u := tp.UEF()
	test.ExpectSuccess(t, u.VerifyTimestamps())

	// five data bits reached the tape before the reset. they are flushed as
	// a byte of their own
	d := dataChunks(u)
	test.DemandEquality(t, len(d), 1)
	test.ExpectEquality(t, len(d[0].Data), 1)
	test.ExpectEquality(t, d[0].Data[0], uint8(0x41&0x1f))
}

func TestMasterResetFollowOn(t *testing.T) {
	tp, _ := newTape(t)
	a := recorder(t, tp)

	leader(t, tp, a, 200)
	transmit(t, tp, a, 0x41, 5)

	// the reset clears the control register
	test.DemandSuccess(t, a.Write(acia.ControlRegister, 0x14))
	transmit(t, tp, a, 0x42, -1)
	transmit(t, tp, a, 0x43, -1)
	leader(t, tp, a, 20)
	test.DemandSuccess(t, tp.SetRecord(false, a))

	u := tp.UEF()
	test.ExpectSuccess(t, u.VerifyTimestamps())

	// the bytes sent after the reset are in a chunk of their own and none of
	// the flushed bits leak into them
	d := dataChunks(u)
	test.DemandEquality(t, len(d), 2)
	test.ExpectEquality(t, string(d[0].Data), string([]byte{0x41 & 0x1f}))
	test.ExpectEquality(t, string(d[1].Data), "BC")
}

// plays the tape into an ACIA at 1200 baud and returns the bytes received
func play(t *testing.T, tp *tape.Tape, limit int) []byte {
	t.Helper()

	a := acia.NewACIA(nil, "test", nil)
	test.DemandSuccess(t, a.Write(acia.ControlRegister, 0x14))

	var b []byte
	for i := 0; i < limit; i++ {
		eof, err := tp.FireACIARxc(a, 16)
		test.DemandSuccess(t, err)
		if a.Status()&acia.StatusRDRF == acia.StatusRDRF {
			_ = a.Read(acia.StatusRegister)
			b = append(b, a.Read(acia.DataRegister))
		}
		if eof {
			break
		}
	}
	return b
}

func TestRoundTrip(t *testing.T) {
	tp, _ := newTape(t)
	a := recorder(t, tp)

	leader(t, tp, a, 200)
	for _, v := range []byte("HELLO") {
		transmit(t, tp, a, v, -1)
	}
	leader(t, tp, a, 20)
	test.DemandSuccess(t, tp.SetRecord(false, a))

	dir := t.TempDir()
	for _, fn := range []string{"test.uef", "test.csw", "test.tibet", "test.tibetz"} {
		path := filepath.Join(dir, fn)
		test.DemandSuccess(t, tp.SaveFile(path), fn)

		ld, _ := newTape(t)
		test.DemandSuccess(t, ld.LoadFile(path), fn)
		test.ExpectEquality(t, string(play(t, ld, 10000)), "HELLO", fn)
	}
}

func TestEndOfTape(t *testing.T) {
	tp, rec := newTape(t)
	test.DemandSuccess(t, tp.Load(tape.FileUEF, squawk(10)))

	a := acia.NewACIA(nil, "test", nil)

	var eofs int
	for i := 0; i < 200; i++ {
		eof, err := tp.FireACIARxc(a, 16)
		test.DemandSuccess(t, err)
		if eof {
			eofs++
		}
	}
	test.ExpectSuccess(t, eofs > 1)
	test.ExpectEquality(t, rec.Count(notifications.NotifyTapeRewound), eofs)

	cfg := tp.Config()
	cfg.OnEOF = preferences.EOFStop
	tp.SetConfig(cfg)
	tp.Rewind()

	for i := 0; i < 200; i++ {
		_, err := tp.FireACIARxc(a, 16)
		test.DemandSuccess(t, err)
	}
	test.ExpectEquality(t, rec.Count(notifications.NotifyTapeFinished), 1)
	test.ExpectSuccess(t, tp.PeekEOF())

	tp.Rewind()
	test.ExpectFailure(t, tp.PeekEOF())
}

func TestDisabled(t *testing.T) {
	tp, rec := newTape(t)

	err := tp.Load(tape.FileUEF, []byte("not a UEF file at all"))
	test.DemandFailure(t, err)
	test.ExpectSuccess(t, curated.Is(err, tape.CodecError))
	test.ExpectFailure(t, tp.Disabled())
	test.ExpectEquality(t, rec.Count(notifications.NotifyTapeEjected), 1)

	a := acia.NewACIA(nil, "test", nil)
	eof, err := tp.FireACIARxc(a, 16)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, eof)

	test.ExpectFailure(t, tp.SetRecord(true, a))
	_, err = tp.Clone()
	test.ExpectFailure(t, err)

	test.DemandSuccess(t, tp.Eject())
	test.ExpectSuccess(t, tp.Disabled())
}

func TestClone(t *testing.T) {
	tp, _ := newTape(t)
	test.DemandSuccess(t, tp.Load(tape.FileUEF, squawk(10)))

	cl, err := tp.Clone()
	test.DemandSuccess(t, err)

	a := acia.NewACIA(nil, "test", nil)
	for i := 0; i < 5; i++ {
		_, err := cl.FireACIARxc(a, 16)
		test.DemandSuccess(t, err)
	}
	test.ExpectInequality(t, cl.Elapsed(), tp.Elapsed())

	test.DemandSuccess(t, cl.Eject())
	test.ExpectEquality(t, tp.FileType(), tape.FileUEF)
}

func TestFileTypeFromPath(t *testing.T) {
	ft, z, err := tape.FileTypeFromPath("game.TIBETZ")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ft, tape.FileTIBET)
	test.ExpectSuccess(t, z)

	ft, _, err = tape.FileTypeFromPath("game.uef")
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, ft, tape.FileUEF)

	_, _, err = tape.FileTypeFromPath("game.wav")
	test.ExpectFailure(t, err)

	test.ExpectEquality(t, tape.FileAll.String(), "UEF+TIBET+CSW")
}

func TestConvert(t *testing.T) {
	tp, _ := newTape(t)
	test.DemandSuccess(t, tp.Load(tape.FileUEF, file(
		chunk(uef.ChunkGap, 20, 0),
		chunk(uef.ChunkLeader, tapebytes.AppendU16(nil, 400)...),
		chunk(uef.ChunkData, []byte("HELLO")...),
		chunk(uef.ChunkLeader, tapebytes.AppendU16(nil, 40)...),
	)))

	cv, err := tp.Convert()
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, cv.FileType(), tape.FileAll)
	test.ExpectApproximate(t, cv.Duration(), tp.Duration(), 12)

	d := dataChunks(cv.UEF())
	test.DemandEquality(t, len(d), 1)
	test.ExpectEquality(t, string(d[0].Data), "HELLO")
	test.ExpectEquality(t, string(play(t, cv, 10000)), "HELLO")

	// the source tape is unchanged
	test.ExpectEquality(t, string(play(t, tp, 10000)), "HELLO")
}

func TestPlaybackPreference(t *testing.T) {
	tp, _ := newTape(t)
	a := recorder(t, tp)

	leader(t, tp, a, 200)
	transmit(t, tp, a, 0x41, -1)
	leader(t, tp, a, 20)
	test.DemandSuccess(t, tp.SetRecord(false, a))
	test.DemandEquality(t, tp.FileType(), tape.FileAll)
	test.ExpectEquality(t, tp.Duration(), tp.UEF().Duration())

	// CSW is preferred over TIBET when there is no UEF
	tp.KeepFileTypes(tape.FileCSW | tape.FileTIBET)
	test.ExpectEquality(t, tp.Duration(), tp.CSW().Duration())
	tp.Rewind()
	test.ExpectEquality(t, string(play(t, tp, 100000)), "A")

	tp.KeepFileTypes(tape.FileTIBET)
	test.ExpectEquality(t, tp.Duration(), tp.TIBET().Duration())
}
