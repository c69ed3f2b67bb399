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

package uef

import (
	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
)

const (
	magic     = "UEF File!\x00"
	headerLen = len(magic) + 2
)

// Version written by Build().
const (
	VersionMajor = 0
	VersionMinor = 10
)

// Options for Load().
type Options struct {
	// unknown chunk types are dropped rather than rejected
	SkipUnknown bool
}

// framing of the bytes in the current chunk. this is how the UEF is decoded
// and has nothing to do with how the ACIA is programmed.
type framing struct {
	dataBits int
	parity   byte
	stopBits int

	// nominal baud rate of the tape. set by &117 chunks
	baud int
}

// bitsource is the read state for the current chunk.
type bitsource struct {
	framing framing

	// position in the chunk data
	bytePos int

	// &114 chunks
	cycleBit    int
	cyclesEaten uint32

	// bits waiting to be emitted as tones
	reservoir uint64
	resLen    int
	resPos    int

	// the chunk is a gap. overrides the reservoir
	silence bool

	// duration-only chunks in 2400ths
	preEaten  uint32
	postEaten uint32

	// &111 chunk: leader, dummy byte, leader
	dummyState int

	// number of tones emitted from the chunk
	pos int32

	// the chunk is finished regardless of its contents
	done bool
}

// reset the bitsource for a new chunk. the nominal baud rate is the only
// thing that carries across chunks.
func (src *bitsource) reset(baud int) {
	*src = bitsource{
		framing: framing{
			dataBits: 8,
			parity:   'N',
			stopBits: 1,
			baud:     baud,
		},
	}
}

// UEF is a chunked-format tape.
type UEF struct {
	perm logger.Permission

	// version of the loaded file
	Major uint8
	Minor uint8

	chunks  []Chunk
	globals Globals

	// index of the current chunk. -1 before the first chunk is reached
	cur int
	src bitsource

	onMeta func(Meta)
}

// NewUEF returns an empty UEF.
func NewUEF(perm logger.Permission) *UEF {
	u := &UEF{
		perm:  perm,
		Major: VersionMajor,
		Minor: VersionMinor,
	}
	u.Rewind()
	return u
}

// Load decodes a UEF file. The data must not be compressed.
func Load(perm logger.Permission, data []byte, opts Options) (*UEF, error) {
	u := NewUEF(perm)

	if len(data) < headerLen {
		return nil, curated.Errorf(HeaderTruncated)
	}
	if string(data[:len(magic)]) != magic {
		return nil, curated.Errorf(BadMagic)
	}

	// minor version precedes major version
	u.Minor = data[len(magic)]
	u.Major = data[len(magic)+1]
	logger.Logf(perm, "uef", "header OK: version %d.%d", u.Major, u.Minor)

	err := u.decodeChunks(data[headerLen:], opts)
	if err != nil {
		return nil, err
	}

	for i := range u.chunks {
		err = u.chunks[i].verifyLength()
		if err != nil {
			return nil, err
		}
		u.chunks[i].totals()
	}

	u.globals, err = parseGlobals(perm, u.chunks)
	if err != nil {
		return nil, err
	}

	err = verifyMeta(u.chunks)
	if err != nil {
		return nil, err
	}

	u.globals.parseMakeUEF(perm)
	if u.globals.ReversedParity() {
		logger.Logf(perm, "uef", "MakeUEF %d.%d has &104 parity reversed. swapping even and odd",
			u.globals.MakeUEF.Major, u.globals.MakeUEF.Minor)
	}

	err = u.scan()
	if err != nil {
		return nil, err
	}

	return u, nil
}

func (u *UEF) decodeChunks(body []byte, opts Options) error {
	end := uint64(len(body))

	for pos := uint64(0); pos < end; {
		if pos+6 > end {
			return curated.Errorf(ChunkHeaderTruncated, len(u.chunks)+1)
		}

		typ := ChunkType(tapebytes.ReadU16(body[pos:]))
		length := uint64(tapebytes.ReadU32(body[pos+2:]))
		next := pos + 6 + length

		if !typ.Valid() {
			if !opts.SkipUnknown {
				return curated.Errorf(UnknownChunk, uint16(typ))
			}
			logger.Logf(u.perm, "uef", "skipping unknown chunk type &%x", uint16(typ))
			pos = next
			continue
		}

		if next > end {
			return curated.Errorf(ChunkBodyTruncated, len(u.chunks)+1)
		}

		if length > MaxChunkLength {
			return curated.Errorf(OversizedChunk, len(u.chunks), length)
		}

		u.chunks = append(u.chunks, Chunk{
			Type:   typ,
			Data:   append([]byte(nil), body[pos+6:next]...),
			Offset: uint32(pos) + uint32(headerLen),
		})

		pos = next
	}

	return nil
}

// scan reads the entire tape and records the span of every chunk.
func (u *UEF) scan() error {
	u.Rewind()
	for {
		_, _, err := u.read(true)
		if err != nil {
			if tapeerr.IsEOF(err) {
				break
			}
			return err
		}
	}
	u.Rewind()
	return u.VerifyTimestamps()
}

// SetMetadataHandler sets the function that is called for every metadata
// chunk passed over during ReadTone().
func (u *UEF) SetMetadataHandler(f func(Meta)) {
	u.onMeta = f
}

// Chunks returns the chunks of the tape. The returned slice must not be
// modified.
func (u *UEF) Chunks() []Chunk {
	return u.chunks
}

// Globals returns the global chunks of the tape.
func (u *UEF) Globals() Globals {
	return u.globals
}

// HasData returns true if the tape has any chunks.
func (u *UEF) HasData() bool {
	return len(u.chunks) > 0
}

// PeekEOF returns true if there are no more chunks to read.
func (u *UEF) PeekEOF() bool {
	return u.cur >= len(u.chunks)
}

// Rewind moves the read position to the start of the tape. The baud rate
// returns to 1200.
func (u *UEF) Rewind() {
	u.cur = -1
	u.src.reset(1200)
}

// FastForward moves the read position to the end of the tape.
func (u *UEF) FastForward() {
	u.cur = len(u.chunks)
	u.src.reset(u.ScanBackwardsFor117(len(u.chunks) - 1))
}

// Seek moves the read position to the start of the specified chunk. The baud
// rate is the one in force at that chunk.
func (u *UEF) Seek(chunk int) error {
	if chunk < 0 || chunk >= len(u.chunks) {
		return curated.Errorf(SeekRange, chunk, len(u.chunks))
	}

	// the next read will consider the requested chunk
	u.cur = chunk - 1
	u.src.reset(u.ScanBackwardsFor117(chunk - 1))
	u.src.done = true
	if u.cur >= 0 {
		u.src.pos = u.chunks[u.cur].Span.Duration
	}

	return nil
}

// Duration returns the length of the tape in 1200ths.
func (u *UEF) Duration() int32 {
	if len(u.chunks) == 0 {
		return 0
	}
	return u.chunks[len(u.chunks)-1].Span.End()
}

// Elapsed returns the read position in 1200ths.
func (u *UEF) Elapsed() int32 {
	if len(u.chunks) == 0 || u.cur < 0 {
		return 0
	}
	if u.cur >= len(u.chunks) {
		return u.Duration()
	}
	return u.chunks[u.cur].Span.Start + u.src.pos
}

// VerifyTimestamps checks that each chunk begins where the previous chunk
// ends.
func (u *UEF) VerifyTimestamps() error {
	for i := 0; i < len(u.chunks)-1; i++ {
		s := u.chunks[i].Span
		if s.End() != u.chunks[i+1].Span.Start {
			return curated.Errorf(Timestamps, i, s.Start, s.Duration, u.chunks[i+1].Span.Start)
		}
	}
	return nil
}

// ScanBackwardsFor117 returns the baud rate set by the nearest &117 chunk at
// or before the specified chunk. The default is 1200.
func (u *UEF) ScanBackwardsFor117(from int) int {
	if from >= len(u.chunks) {
		from = len(u.chunks) - 1
	}
	for i := from; i >= 0; i-- {
		if u.chunks[i].Type == ChunkBaud {
			return int(tapebytes.ReadU16(u.chunks[i].Data))
		}
	}
	return 1200
}

// Clone returns a deep copy of the tape. The read position is copied too but
// the metadata handler is not.
func (u *UEF) Clone() *UEF {
	n := *u
	n.chunks = make([]Chunk, len(u.chunks))
	for i := range u.chunks {
		n.chunks[i] = u.chunks[i].clone()
	}
	n.globals = u.globals.clone()
	n.onMeta = nil
	return &n
}

// ReadTone returns the next tone and the time at which it begins. Leader is
// returned as a '1' tone.
func (u *UEF) ReadTone() (byte, int32, error) {
	return u.read(false)
}

func (u *UEF) read(scan bool) (byte, int32, error) {
	if u.cur >= len(u.chunks) {
		return 0, 0, curated.Errorf(tapeerr.EndOfTape)
	}

	src := &u.src

	for src.resPos >= src.resLen {
		spent, err := u.reload()
		if err != nil {
			return 0, 0, err
		}
		if spent {
			err = u.nextChunk(scan)
			if err != nil {
				return 0, 0, err
			}
		}
	}

	c := &u.chunks[u.cur]

	tone := byte(tapeclock.ToneSilence)
	if !src.silence {
		if (src.reservoir>>src.resPos)&0x01 == 0x01 {
			tone = tapeclock.ToneOne
		} else {
			tone = tapeclock.ToneZero
		}
	}

	elapsed := c.Span.Start + src.pos
	src.resPos++
	src.pos++
	if scan {
		c.Span.Duration++
	}

	return tone, elapsed, nil
}

// nextChunk advances to the next chunk that contains tones. Metadata chunks
// on the way are passed to the metadata handler.
func (u *UEF) nextChunk(scan bool) error {
	var numMeta int

	for {
		u.cur++
		if u.cur >= len(u.chunks) {
			return curated.Errorf(tapeerr.EndOfTape)
		}

		c := &u.chunks[u.cur]

		if scan {
			c.Span.Duration = 0
			if u.cur == 0 {
				c.Span.Start = 0
			} else {
				c.Span.Follows(u.chunks[u.cur-1].Span)
			}
		}

		m, ok, err := parseMeta(c, TapeSet{})
		if err != nil {
			return err
		}

		if ok {
			if m.Type == ChunkBaud {
				u.src.framing.baud = int(m.Baud)
				if !scan {
					logger.Logf(u.perm, "uef", "baud change on tape: %d", m.Baud)
				}
			}

			numMeta++
			if numMeta > MaxMetadata {
				return curated.Errorf(TooManyMetadata)
			}

			if !scan && u.onMeta != nil {
				u.onMeta(m)
			}
			continue
		}

		tones, err := u.consider()
		if err != nil {
			return err
		}
		if tones {
			return nil
		}
	}
}

// consider prepares the current chunk for reading. returns true if the chunk
// contains tones.
func (u *UEF) consider() (bool, error) {
	c := &u.chunks[u.cur]
	src := &u.src

	src.reset(src.framing.baud)

	var tones bool

	switch c.Type {
	case ChunkData:
		tones = len(c.Data) > 0

	case ChunkBits:
		tones = len(c.Data) > 0
		src.bytePos = 1

	case ChunkFramed:
		tones = len(c.Data) > 0

		if c.Data[0] != 7 && c.Data[0] != 8 {
			return false, curated.Errorf(FramingDataBits, c.Data[0])
		}
		if c.Data[1] != 'N' && c.Data[1] != 'O' && c.Data[1] != 'E' {
			return false, curated.Errorf(FramingParity, c.Data[1])
		}
		if c.Data[2] != 1 && c.Data[2] != 2 {
			return false, curated.Errorf(FramingStopBits, c.Data[2])
		}

		src.framing.dataBits = int(c.Data[0])
		src.framing.parity = c.Data[1]
		src.framing.stopBits = int(c.Data[2])

		if u.globals.ReversedParity() {
			switch src.framing.parity {
			case 'O':
				src.framing.parity = 'E'
			case 'E':
				src.framing.parity = 'O'
			}
		}

		src.bytePos = 3

	case ChunkCycles:
		tones = c.cycles != 0

		for _, pw := range c.Data[3:5] {
			if pw != 'P' && pw != 'W' {
				return false, curated.Errorf(PulseWave, pw)
			}
		}
		if c.Data[3] == 'P' && c.Data[4] == 'P' {
			// seen in the wild so it is allowed
			logger.Log(u.perm, "uef", "chunk &114 has a <P, P> pulse/wave combination")
		}

		src.bytePos = 5

	case ChunkLeader, ChunkGap:
		tones = c.preTotal != 0

	case ChunkLeaderDummy:
		tones = true

	case ChunkFloatGap:
		f := readFloat(c.Data)
		if f < 0 {
			return false, curated.Errorf(NegativeGap)
		}
		if f > maxFloatGapInSeconds {
			return false, curated.Errorf(HugeGap, f)
		}
		tones = float64(f) > tapeclock.ToneSeconds
	}

	if tones && u.spent(c) {
		logger.Logf(u.perm, "uef", "chunk %v should contain tones but is empty. skipping", c.Type)
		tones = false
	}

	return tones, nil
}

// spent returns true if the current chunk has no more tones.
func (u *UEF) spent(c *Chunk) bool {
	src := &u.src

	if src.done {
		return true
	}

	switch c.Type {
	case ChunkData, ChunkFramed:
		return src.bytePos >= len(c.Data)
	case ChunkBits:
		bytes, _, err := bitsLength(len(c.Data), c.Data[0])
		if err != nil {
			return true
		}
		return src.bytePos-1 >= bytes
	case ChunkCycles:
		return src.cyclesEaten >= c.cycles
	case ChunkLeaderDummy:
		return src.dummyState == 2 && src.postEaten >= c.postTotal
	case ChunkLeader, ChunkGap, ChunkFloatGap:
		return src.preEaten >= c.preTotal
	}

	return true
}

// quadruple turns each bit into four bits for 300 baud.
func quadruple(v uint64) uint64 {
	var x uint64
	for n := 0; n < 16; n++ {
		if (v>>n)&0x01 == 0x01 {
			x |= 0x0f << (n * 4)
		}
	}
	return x
}

// reload refills the reservoir from the current chunk. returns true if the
// chunk is spent.
func (u *UEF) reload() (bool, error) {
	if u.cur < 0 {
		return true, nil
	}
	if u.cur >= len(u.chunks) {
		return false, curated.Errorf(tapeerr.EndOfTape)
	}

	src := &u.src
	src.resPos = 0
	src.resLen = 0

	c := &u.chunks[u.cur]
	if u.spent(c) {
		return true, nil
	}

	baud300 := src.framing.baud == 300

	switch c.Type {
	case ChunkData, ChunkFramed:
		f := src.framing
		v := uint64(c.Data[src.bytePos]) & (1<<f.dataBits - 1)
		src.bytePos++

		// start bit is zero
		res := v << 1
		n := 1 + f.dataBits
		if f.parity != 'N' {
			res |= parityBit(byte(v), f.dataBits, f.parity) << n
			n++
		}
		for i := 0; i < f.stopBits; i++ {
			res |= 1 << n
			n++
		}

		src.reservoir = res
		src.resLen = n

		if baud300 {
			src.reservoir = quadruple(src.reservoir)
			src.resLen *= 4
		}

	case ChunkBits:
		// explicit bits. the stream already includes start and stop bits
		bytes, bits, err := bitsLength(len(c.Data), c.Data[0])
		if err != nil {
			return false, err
		}
		if src.bytePos == bytes {
			// the final byte may be incomplete
			src.resLen = bits - (src.bytePos-1)*8
		} else {
			src.resLen = 8
		}
		src.reservoir = uint64(c.Data[src.bytePos])
		src.bytePos++

		if baud300 {
			src.reservoir = quadruple(src.reservoir)
			src.resLen *= 4
		}

	case ChunkCycles:
		// a 0 is a single 1200Hz cycle. a 1 is two 2400Hz cycles. a lone
		// 2400Hz cycle is dropped and the next cycle is used to
		// resynchronise. cycles are explicit so there is no quadrupling at
		// 300 baud
		var first byte
		for {
			cyc, spent, err := u.nextCycle(c)
			if spent || err != nil {
				return spent, err
			}
			first = cyc
			if first == 0 {
				break
			}

			eaten, bit, pos := src.cyclesEaten, src.cycleBit, src.bytePos

			cyc, spent, err = u.nextCycle(c)
			if spent || err != nil {
				return spent, err
			}
			if cyc == 1 {
				break
			}

			src.cyclesEaten, src.cycleBit, src.bytePos = eaten, bit, pos
		}

		src.reservoir = uint64(first)
		src.resLen = 1

	case ChunkLeader:
		// leader is counted in cycles so is unaffected by 300 baud
		src.reservoir = 1
		src.resLen = 1
		src.preEaten += 2

	case ChunkLeaderDummy:
		if src.dummyState == 0 && src.preEaten >= c.preTotal {
			src.dummyState = 1
		}

		switch src.dummyState {
		case 0:
			src.reservoir = 1
			src.resLen = 1
			src.preEaten += 2
		case 1:
			// &AA framed as 8N1. always at 1200 baud
			src.reservoir = 0x354
			src.resLen = 10
			src.dummyState = 2
		default:
			src.reservoir = 1
			src.resLen = 1
			src.postEaten += 2
		}

	case ChunkGap, ChunkFloatGap:
		src.silence = true
		src.resLen = 1
		src.preEaten += 2
	}

	return false, nil
}

// nextCycle returns the next cycle of a &114 chunk. cycles are stored MSB
// first.
func (u *UEF) nextCycle(c *Chunk) (byte, bool, error) {
	src := &u.src

	if src.cyclesEaten >= c.cycles {
		return 0, true, nil
	}
	if src.bytePos >= len(c.Data) {
		return 0, false, curated.Errorf(CycleCount, c.cycles)
	}

	b := (c.Data[src.bytePos] >> (7 - src.cycleBit)) & 0x01

	src.cyclesEaten++
	src.cycleBit++
	if src.cycleBit >= 8 {
		src.bytePos++
		src.cycleBit = 0
	}

	return b, false, nil
}
