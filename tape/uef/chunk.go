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
	"fmt"
	"math"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
)

// ChunkType identifies the contents of a chunk.
type ChunkType uint16

// List of valid chunk types.
const (
	ChunkOrigin       ChunkType = 0x0000
	ChunkInstructions ChunkType = 0x0001
	ChunkInlay        ChunkType = 0x0003
	ChunkTarget       ChunkType = 0x0005
	ChunkBitMultiplex ChunkType = 0x0006
	ChunkPalette      ChunkType = 0x0007
	ChunkROMHint      ChunkType = 0x0008
	ChunkShortTitle   ChunkType = 0x0009
	ChunkVisibleArea  ChunkType = 0x000a
	ChunkData         ChunkType = 0x0100
	ChunkMultiplexed  ChunkType = 0x0101
	ChunkBits         ChunkType = 0x0102
	ChunkFramed       ChunkType = 0x0104
	ChunkLeader       ChunkType = 0x0110
	ChunkLeaderDummy  ChunkType = 0x0111
	ChunkGap          ChunkType = 0x0112
	ChunkBaudFloat    ChunkType = 0x0113
	ChunkCycles       ChunkType = 0x0114
	ChunkPhase        ChunkType = 0x0115
	ChunkFloatGap     ChunkType = 0x0116
	ChunkBaud         ChunkType = 0x0117
	ChunkPosition     ChunkType = 0x0120
	ChunkTapeSet      ChunkType = 0x0130
	ChunkTapeSide     ChunkType = 0x0131
)

var chunkNames = map[ChunkType]string{
	ChunkOrigin:       "origin",
	ChunkInstructions: "instructions",
	ChunkInlay:        "inlay scan",
	ChunkTarget:       "target machine",
	ChunkBitMultiplex: "bit multiplexing",
	ChunkPalette:      "extra palette",
	ChunkROMHint:      "ROM hint",
	ChunkShortTitle:   "short title",
	ChunkVisibleArea:  "visible area",
	ChunkData:         "8N1 data",
	ChunkMultiplexed:  "multiplexed data",
	ChunkBits:         "explicit bits",
	ChunkFramed:       "framed data",
	ChunkLeader:       "leader",
	ChunkLeaderDummy:  "leader with dummy byte",
	ChunkGap:          "integer gap",
	ChunkBaudFloat:    "baud (float)",
	ChunkCycles:       "cycles",
	ChunkPhase:        "phase change",
	ChunkFloatGap:     "float gap",
	ChunkBaud:         "baud",
	ChunkPosition:     "position marker",
	ChunkTapeSet:      "tape set info",
	ChunkTapeSide:     "start of tape side",
}

func (t ChunkType) String() string {
	if n, ok := chunkNames[t]; ok {
		return fmt.Sprintf("&%x %s", uint16(t), n)
	}
	return fmt.Sprintf("&%x unknown", uint16(t))
}

// Valid returns true if the chunk type is one that is recognised.
func (t ChunkType) Valid() bool {
	_, ok := chunkNames[t]
	return ok
}

// Chunk lengths are limited twice. The first limit is applied when a chunk
// is stored and the second when it is verified.
const (
	MaxChunkLength       = 0xffffff
	MaxVerifiedLength    = 5000000
	maxShortTitleLength  = 255
	maxFloatGapInSeconds = 36000.0
)

// Chunk is a single chunk of a UEF file.
type Chunk struct {
	Type ChunkType
	Data []byte

	// offset of the chunk in the file it was loaded from. zero for chunks
	// that have been appended
	Offset uint32

	// where on the tape the chunk lies
	Span tapeclock.Interval

	// totals of the duration-only chunks in 2400ths. set by totals()
	preTotal  uint32
	postTotal uint32

	// number of cycles in a &114 chunk
	cycles uint32
}

// NewChunk returns a chunk of the specified type that starts at the
// specified time.
func NewChunk(typ ChunkType, start int32) Chunk {
	return Chunk{
		Type: typ,
		Span: tapeclock.Interval{Start: start},
	}
}

// AppendByte adds a byte to the chunk's data.
func (c *Chunk) AppendByte(b byte) {
	c.Data = append(c.Data, b)
}

func (c Chunk) clone() Chunk {
	n := c
	n.Data = append([]byte(nil), c.Data...)
	return n
}

func readFloat(b []byte) float32 {
	return math.Float32frombits(tapebytes.ReadU32(b))
}

// totals sets the durations of duration-only chunks from the chunk data. the
// length of the chunk must have been verified.
func (c *Chunk) totals() {
	switch c.Type {
	case ChunkLeader, ChunkGap:
		c.preTotal = uint32(tapebytes.ReadU16(c.Data))
	case ChunkLeaderDummy:
		c.preTotal = uint32(tapebytes.ReadU16(c.Data))
		c.postTotal = uint32(tapebytes.ReadU16(c.Data[2:]))
	case ChunkFloatGap:
		f := readFloat(c.Data)
		if f > 0 && f <= maxFloatGapInSeconds {
			c.preTotal = uint32(0.5 + float64(f)*tapeclock.Hz1200*2.0)
		}
	case ChunkCycles:
		c.cycles = tapebytes.ReadU24(c.Data)
	}
}

// bitsLength returns the number of bytes and bits in the payload of an
// explicit bits chunk. the first byte of the chunk is the number of unused
// bits. values under eight are a count of the unused bits in the final byte
// and values of eight to fifteen include the first byte itself.
func bitsLength(length int, offset byte) (int, int, error) {
	switch {
	case offset < 8:
		offset += 8
	case offset < 16:
	default:
		return 0, 0, curated.Errorf(BitsOffset, offset)
	}

	bits := length*8 - int(offset)
	if bits < 0 {
		return 0, 0, curated.Errorf(ChunkLength, uint16(ChunkBits), length)
	}

	bytes := bits / 8
	if bits%8 != 0 {
		bytes++
	}
	return bytes, bits, nil
}

// parityBit returns the parity bit required to give data the specified
// parity.
func parityBit(data byte, numDataBits int, parity byte) uint64 {
	var ones int
	for n := 0; n < numDataBits; n++ {
		ones += int(data & 0x01)
		data >>= 1
	}
	if ones&1 == 1 {
		if parity == 'E' {
			return 1
		}
	} else if parity == 'O' {
		return 1
	}
	return 0
}

// verifyLength checks the chunk length against the requirements of the chunk
// type.
func (c *Chunk) verifyLength() error {
	l := len(c.Data)

	if l > MaxVerifiedLength {
		return curated.Errorf(LongChunk, uint16(c.Type), l)
	}

	bad := false

	switch c.Type {
	case ChunkOrigin, ChunkData, ChunkPosition:
		bad = l < 1
	case ChunkInlay:
		_, _, err := parseInlay(c.Data)
		if err != nil {
			return err
		}
	case ChunkTarget, ChunkBitMultiplex:
		bad = l != 1
	case ChunkPalette, ChunkROMHint, ChunkFramed:
		bad = l < 3
	case ChunkShortTitle:
		bad = l < 1 || l > maxShortTitleLength
	case ChunkVisibleArea:
		bad = l != 8
	case ChunkBits:
		if l < 1 {
			bad = true
			break
		}
		bytes, _, err := bitsLength(l, c.Data[0])
		if err != nil {
			return err
		}
		bad = l != bytes+1
	case ChunkLeader, ChunkGap, ChunkPhase, ChunkBaud:
		bad = l != 2
	case ChunkLeaderDummy, ChunkFloatGap, ChunkBaudFloat:
		bad = l != 4
	case ChunkCycles:
		bad = l < 6
	case ChunkTapeSet:
		bad = l != 3
	case ChunkTapeSide:
		bad = l < 3 || l > 258
	}

	if bad {
		return curated.Errorf(ChunkLength, uint16(c.Type), l)
	}
	return nil
}
