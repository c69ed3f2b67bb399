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

package tape

import (
	"math"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/hardware/acia"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tibet"
	"github.com/rjpontefract/b-em-sub001/tape/uef"
)

// writer is the recording state of the tape.
type writer struct {
	// nanoseconds that have not yet made a whole 1200th
	bitPeriodsNS int64

	// accumulated silence and leader that have not yet been written
	silenceNS int64
	leaderNS  int64

	// a data section is open
	mustEndData bool

	// data span being built for the TIBET representation
	tibetPending *tibet.Span

	// chunk being built for the UEF representation. nil if there is no
	// data section
	uefChunk        *uef.Chunk
	uefBytesWritten int
	originWritten   bool

	// the baud rate of the most recent &117 chunk
	prevailingBaud int

	// serial decoding of 1200ths into bytes for the UEF
	frame uint8
	phase int

	// several 1200ths make a bit at rates below 1200 baud
	enc100Value  uint16
	enc100Amount int
}

func newWriter() writer {
	return writer{
		prevailingBaud: 1200,
	}
}

func (w writer) clone() writer {
	n := w
	if w.tibetPending != nil {
		s := *w.tibetPending
		s.Tones = append([]byte(nil), w.tibetPending.Tones...)
		n.tibetPending = &s
	}
	if w.uefChunk != nil {
		c := *w.uefChunk
		c.Data = append([]byte(nil), w.uefChunk.Data...)
		n.uefChunk = &c
	}
	return n
}

// WriteBitClock is called once for every transmit bit period while the
// cassette motor is running. The bit is the tone on the transmit line, with
// 'S' meaning the line is silent. Whether the bit is leader or data is decided
// by the state of the ACIA's transmit shift register.
//
// Nothing is written to the tape unless it is recording but the position of
// the tape is still tracked.
func (t *Tape) WriteBitClock(a *acia.ACIA, bit byte, nsPerBit int64) error {
	if nsPerBit == 0 {
		return curated.Errorf(ZeroBitPeriod)
	}
	if t.disabled != nil {
		return nil
	}

	hadData := t.PeekForData()
	silent := bit == tapeclock.ToneSilence

	err := t.prelude()
	if err != nil {
		return t.fail(err)
	}

	err = t.handleSilence(a, silent, nsPerBit)
	if err != nil {
		return t.fail(err)
	}

	_, _, loaded := a.TxShiftRegister()
	leader := !loaded

	if leader && !silent {
		err = t.accumulateLeader(a, nsPerBit)
		if err != nil {
			return t.fail(err)
		}
	}

	if silent || !leader {
		err = t.flushLeader()
		if err != nil {
			return t.fail(err)
		}
	}

	if !silent && !leader {
		f := acia.FramingFor(a.Control())
		f.NominalBaud = int((tapeclock.ToneNS * 1200) / nsPerBit)
		err = t.outputData(a, f, nsPerBit)
		if err != nil {
			return t.fail(err)
		}
	}

	if t.PeekForData() != hadData {
		_ = t.env.Notify(notifications.NotifyMenuChanged, t.fileType.String())
	}

	return nil
}

// prelude makes sure the tape is ready to be written to.
func (t *Tape) prelude() error {
	if !t.record {
		return nil
	}

	t.uef.FastForward()
	t.csw.FastForward()
	t.tibet.FastForward()

	if t.fileType&FileUEF == FileUEF && !t.wr.originWritten {
		if !t.cfg.NoOrigin {
			c := uef.NewChunk(uef.ChunkOrigin, t.uef.Duration())
			c.Data = append([]byte(t.cfg.Origin), 0)
			err := t.uef.AppendChunk(c)
			if err != nil {
				return curated.Errorf(CodecError, FileUEF, err)
			}
		}
		t.wr.originWritten = true
	}

	if t.fileType == FileNone {
		t.fileType = FileAll
		t.csw.InitBlank()
		logger.Log(t.env, logTag, "initialised blank tape")
		_ = t.env.Notify(notifications.NotifyBlankTape, t.fileType.String())
		_ = t.env.Notify(notifications.NotifyMenuChanged, t.fileType.String())
	}

	return nil
}

// consume whole 1200ths from the accumulated bit periods
func (t *Tape) consume1200ths(nsPerBit int64) int32 {
	t.wr.bitPeriodsNS += nsPerBit
	n := t.wr.bitPeriodsNS / tapeclock.ToneNS
	t.wr.bitPeriodsNS -= n * tapeclock.ToneNS
	return int32(n)
}

func (t *Tape) handleSilence(a *acia.ACIA, silent bool, nsPerBit int64) error {
	if silent {
		err := t.endDataIfOngoing(a)
		if err != nil {
			return err
		}
		if t.record {
			t.wr.silenceNS += nsPerBit
		}
		n := t.consume1200ths(nsPerBit)
		if t.record {
			t.tallied += n
		}
		return nil
	}

	if t.wr.silenceNS > 0 {
		if t.record {
			err := t.writeSilence(float64(t.wr.silenceNS)/1e9, t.Duration())
			if err != nil {
				return err
			}
		}
		t.tallied += int32(t.wr.silenceNS / tapeclock.ToneNS)
		t.wr.silenceNS = 0
	}

	return nil
}

func (t *Tape) accumulateLeader(a *acia.ACIA, nsPerBit int64) error {
	err := t.endDataIfOngoing(a)
	if err != nil {
		return err
	}
	if t.record {
		t.wr.leaderNS += nsPerBit
	}
	n := t.consume1200ths(nsPerBit)
	if t.record {
		t.tallied += n
	}
	return nil
}

func (t *Tape) flushLeader() error {
	if t.wr.leaderNS <= 0 {
		return nil
	}
	var err error
	if t.record {
		err = t.writeLeader(int32(t.wr.leaderNS / tapeclock.ToneNS))
	}
	t.wr.leaderNS = 0
	return err
}

// endDataIfOngoing closes the current data section. A partial frame is
// flushed to the UEF and the ACIA shift register is emptied so that it is not
// prepended to the next block. The ACIA may be nil.
func (t *Tape) endDataIfOngoing(a *acia.ACIA) error {
	if !t.wr.mustEndData {
		return nil
	}

	if t.fileType&FileUEF == FileUEF && t.record && t.wr.phase != 0 {
		logger.Logf(t.env, logTag, "partial frame (phase %d)", t.wr.phase)
		err := t.flushIncompleteFrame()
		if err != nil {
			return err
		}
	}

	if a != nil {
		a.ResetTxShiftRegister()
	}

	var err error
	if t.record {
		err = t.endData()
	}
	t.wr.mustEndData = false

	return err
}

// flushIncompleteFrame stores the frame currently being assembled for the UEF.
// the bits received so far are moved to the bottom of the byte
func (t *Tape) flushIncompleteFrame() error {
	defer func() {
		t.wr.uefChunk = nil
		t.wr.uefBytesWritten = 0
		t.wr.phase = 0
		t.wr.frame = 0
	}()

	if t.wr.phase >= 2 && t.wr.phase <= 8 {
		t.wr.frame >>= 9 - t.wr.phase
	}

	c := t.wr.uefChunk
	if c == nil {
		logger.Logf(t.env, logTag, "partial frame (&%02x) with no open data chunk", t.wr.frame)
		return nil
	}

	c.AppendByte(t.wr.frame)
	c.Span.Duration = t.tallied - c.Span.Start
	err := t.uef.AppendChunk(*c)
	if err != nil {
		return curated.Errorf(CodecError, FileUEF, err)
	}
	return nil
}

func (t *Tape) startDataIfNeeded(f acia.Framing) error {
	if !t.record || t.wr.mustEndData {
		return nil
	}
	t.wr.mustEndData = true
	return t.startData(f)
}

func framingString(f acia.Framing) string {
	b := []byte{'8', f.Parity, '1'}
	if f.DataBits == 7 {
		b[0] = '7'
	}
	if f.StopBits != 1 {
		b[2] = '2'
	}
	return string(b)
}

func (t *Tape) startData(f acia.Framing) error {
	if t.fileType&FileTIBET == FileTIBET {
		if t.wr.tibetPending != nil {
			return curated.Errorf(PendingSpan, "open")
		}
		t.wr.tibetPending = tibet.NewDataSpan(false, tibet.Hints{
			HaveBaud:    true,
			Baud:        uint32(f.NominalBaud),
			HaveFraming: true,
			Framing:     framingString(f),
		})
		t.wr.tibetPending.Interval.Start = t.Duration()
		t.tallied = t.Duration()
	}

	if t.fileType&FileUEF == FileUEF {
		start := t.Duration()

		if t.cfg.Always117 {
			if p := uef.BaudPayload(t.env, f.NominalBaud); p != nil {
				c := uef.NewChunk(uef.ChunkBaud, start)
				c.Data = p
				err := t.uef.AppendChunk(c)
				if err != nil {
					return curated.Errorf(CodecError, FileUEF, err)
				}
			}
			t.wr.prevailingBaud = f.NominalBaud
		}

		t.wr.uefChunk = newDataChunk(f, start)
		t.wr.uefBytesWritten = 0
		t.tallied = start
	}

	return nil
}

// newDataChunk returns an empty &100 chunk for 8N1 framing and a &104 chunk
// with the framing header for everything else.
func newDataChunk(f acia.Framing, start int32) *uef.Chunk {
	if f.DataBits == 8 && f.StopBits == 1 && f.Parity == 'N' {
		c := uef.NewChunk(uef.ChunkData, start)
		return &c
	}
	c := uef.NewChunk(uef.ChunkFramed, start)
	c.AppendByte(byte(f.DataBits))
	c.AppendByte(f.Parity)
	c.AppendByte(byte(f.StopBits))
	return &c
}

func (t *Tape) endData() error {
	if t.fileType&FileTIBET == FileTIBET {
		s := t.wr.tibetPending
		t.wr.tibetPending = nil

		if s == nil {
			// recording began in the middle of a block
			logger.Log(t.env, logTag, "discarding partial data span")
		} else {
			s.Interval.Duration = t.tallied - s.Interval.Start
			err := t.tibet.AppendData(s)
			if err != nil {
				return curated.Errorf(CodecError, FileTIBET, err)
			}
		}
	}

	c := t.wr.uefChunk
	t.wr.uefChunk = nil

	if t.fileType&FileUEF == FileUEF && c != nil && t.wr.uefBytesWritten > 0 {
		c.Span.Duration = t.tallied - c.Span.Start
		err := t.uef.AppendChunk(*c)
		if err != nil {
			return curated.Errorf(CodecError, FileUEF, err)
		}
	}
	t.wr.uefBytesWritten = 0

	return nil
}

func (t *Tape) outputData(a *acia.ACIA, f acia.Framing, nsPerBit int64) error {
	err := t.startDataIfNeeded(f)
	if err != nil {
		return err
	}

	n := t.consume1200ths(nsPerBit)

	parity := 0
	if f.Parity != 'N' {
		parity = 1
	}
	stopPos := 1 + f.DataBits + parity

	write := func(tone byte) error {
		for i := int32(0); t.record && i < n; i++ {
			if err := t.writeData1200th(f, tone); err != nil {
				return err
			}
		}
		return nil
	}

	value, shift, loaded := a.TxShiftRegister()

	switch {
	case !loaded:
		return curated.Errorf(NotLoaded)

	case shift == 0:
		a.ClearTxParity()

	case shift < f.DataBits+1:
		// the start bit is deferred until the first data bit
		if shift == 1 {
			err = write(tapeclock.ToneZero)
			if err != nil {
				return err
			}
		}
		bit := byte(tapeclock.ToneZero)
		if value&0x01 == 0x01 {
			bit = tapeclock.ToneOne
		}
		err = write(bit)
		if err != nil {
			return err
		}
		a.AccumulateTxParity(bit)

	case f.Parity != 'N' && shift == f.DataBits+1:
		return write(a.TxParityBit(f.Parity))

	case shift >= stopPos:
		return write(tapeclock.ToneOne)
	}

	return nil
}

// enc100Length is the number of 1200ths in a bit at each baud rate
func enc100Length(baud int) int {
	switch baud {
	case 1200:
		return 1
	case 600:
		return 2
	case 300:
		return 4
	case 150:
		return 8
	case 75:
		return 16
	}
	return 0
}

// writeData1200th writes a single 1200th of data tone to every format.
func (t *Tape) writeData1200th(f acia.Framing, tone byte) error {
	one := tone != tapeclock.ToneZero
	duration := t.Duration()

	if t.fileType&FileTIBET == FileTIBET && t.wr.tibetPending != nil {
		c := byte(tibet.CharZero)
		if one {
			c = tibet.CharOne
		}
		for i := 0; i < 2; i++ {
			err := t.wr.tibetPending.AppendToneChar(c)
			if err != nil {
				return curated.Errorf(CodecError, FileTIBET, err)
			}
		}
	}

	if t.fileType&FileUEF == FileUEF {
		err := t.writeUEF1200th(f, one, duration)
		if err != nil {
			return err
		}
	}

	if t.fileType&FileCSW == FileCSW {
		err := t.csw.AppendTone(one, duration)
		if err != nil {
			return curated.Errorf(CodecError, FileCSW, err)
		}
	}

	t.tallied++

	return nil
}

// writeUEF1200th assembles 1200ths into bits and bits into frames. complete
// frames are added to the data chunk.
func (t *Tape) writeUEF1200th(f acia.Framing, one bool, duration int32) error {
	w := &t.wr

	l := enc100Length(f.NominalBaud)
	if l == 0 {
		logger.Logf(t.env, logTag, "baud rate %d cannot be written to a UEF", f.NominalBaud)
		return nil
	}
	mask := uint16(1<<l - 1)

	var v uint16
	if one {
		v = 1
	}
	w.enc100Value = ((w.enc100Value << 1) | v) & mask
	w.enc100Amount++

	// every 1200th of a bit must have the same value
	for i := 0; i < w.enc100Amount; i++ {
		if (w.enc100Value>>i)&1 != w.enc100Value&1 {
			logger.Log(t.env, logTag, "bit assembly lost sync")
			w.enc100Amount = 1
			w.enc100Value = (w.enc100Value >> i) & 1
			break
		}
	}

	if w.enc100Amount != l {
		return nil
	}
	bit := w.enc100Value & 1
	w.enc100Amount = 0

	total := f.FrameLength()

	switch {
	case w.phase == 0:
		if bit == 0 {
			w.frame = 0
			w.phase++
		}

	case w.phase <= f.DataBits:
		w.frame >>= 1
		if bit == 1 {
			w.frame |= 0x80
		}
		w.phase++

	case w.phase == total-1:
		if f.DataBits == 7 {
			w.frame >>= 1
		}
		w.phase = 0

		if w.prevailingBaud != f.NominalBaud {
			w.prevailingBaud = f.NominalBaud

			if w.uefBytesWritten == 0 {
				c := uef.NewChunk(uef.ChunkBaud, duration)
				c.Data = uef.BaudPayload(t.env, f.NominalBaud)
				err := t.uef.AppendChunk(c)
				if err != nil {
					return curated.Errorf(CodecError, FileUEF, err)
				}
				if w.uefChunk != nil {
					w.uefChunk.Span.Start = duration
				}
				t.tallied = duration
			} else {
				logger.Logf(t.env, logTag, "baud rate change to %d in the middle of a UEF chunk is not supported", f.NominalBaud)
			}
		}

		if w.uefChunk == nil {
			logger.Logf(t.env, logTag, "frame (&%02x) with no open data chunk", w.frame)
			return nil
		}
		w.uefChunk.AppendByte(w.frame)
		w.uefBytesWritten++

	default:
		// parity or the first of two stop bits
		w.phase++
	}

	return nil
}

// writeLeader writes n 1200ths of leader to every format.
func (t *Tape) writeLeader(n int32) error {
	if t.wr.tibetPending != nil {
		return curated.Errorf(PendingSpan, "open")
	}

	// n is rounded down from the accumulated leader so it can be zero
	if n == 0 {
		n = 1
	}

	start := t.Duration()

	if t.fileType&FileTIBET == FileTIBET {
		err := t.tibet.AppendLeader(start, uint32(2*n), tibet.Hints{})
		if err != nil {
			return curated.Errorf(CodecError, FileTIBET, err)
		}
	}

	if t.fileType&FileUEF == FileUEF {
		c := uef.NewChunk(uef.ChunkLeader, start)
		c.Data = tapebytes.AppendU16(nil, uint16(min(2*n, math.MaxUint16)))
		c.Span.Duration = n
		err := t.uef.AppendChunk(c)
		if err != nil {
			return curated.Errorf(CodecError, FileUEF, err)
		}
	}

	if t.fileType&FileCSW == FileCSW {
		err := t.csw.AppendLeader(n, start)
		if err != nil {
			return curated.Errorf(CodecError, FileCSW, err)
		}
	}

	return nil
}

// writeSilence writes silence of the specified length to every format.
func (t *Tape) writeSilence(seconds float64, start int32) error {
	if seconds < tapeclock.ToneSeconds {
		logger.Logf(t.env, logTag, "zero length silence (%fs) lengthened to one 1200th", seconds)
		seconds = tapeclock.ToneSeconds
	}

	num2400ths := int32(0.5 + seconds*tapeclock.Hz1200*2.0)

	if t.fileType&FileTIBET == FileTIBET {
		err := t.tibet.AppendSilence(float32(seconds), start, tibet.Hints{})
		if err != nil {
			return curated.Errorf(CodecError, FileTIBET, err)
		}
	}

	if t.fileType&FileUEF == FileUEF {
		if t.cfg.Silence112 {
			if num2400ths == 0 {
				num2400ths = 1
			}
			span := tapeclock.Interval{Start: start}
			for rem := num2400ths; rem > 0; rem -= math.MaxUint16 {
				c := uef.NewChunk(uef.ChunkGap, span.Start)
				c.Data = tapebytes.AppendU16(nil, uint16(min(rem, math.MaxUint16)))
				c.Span.Duration = min(rem, math.MaxUint16) / 2
				err := t.uef.AppendChunk(c)
				if err != nil {
					return curated.Errorf(CodecError, FileUEF, err)
				}
				span.Start = c.Span.End()
			}
		} else {
			c := uef.NewChunk(uef.ChunkFloatGap, start)
			c.Data = tapebytes.AppendU32(nil, math.Float32bits(float32(seconds)))
			c.Span.Duration = num2400ths / 2
			err := t.uef.AppendChunk(c)
			if err != nil {
				return curated.Errorf(CodecError, FileUEF, err)
			}
		}
	}

	if t.fileType&FileCSW == FileCSW {
		span := tapeclock.Interval{Start: start, Duration: num2400ths / 2}
		err := t.csw.AppendSilence(seconds, span)
		if err != nil {
			return curated.Errorf(CodecError, FileCSW, err)
		}
	}

	return nil
}
