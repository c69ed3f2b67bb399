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

import "github.com/rjpontefract/b-em-sub001/tape/tapeerr"

// Sentinal errors.
const (
	HeaderTruncated      = "uef: header is truncated"
	BadMagic             = "uef: bad magic"
	ChunkHeaderTruncated = "uef: chunk %d: truncated chunk header"
	ChunkBodyTruncated   = "uef: chunk %d: truncated chunk body"
	UnknownChunk         = "uef: unknown chunk type (&%x)"
	OversizedChunk       = "uef: chunk %d is oversized (%d bytes)"
	LongChunk            = "uef: chunk &%x exceeds the length limit (%d bytes)"
	ChunkLength          = "uef: chunk &%x has bad length (%d)"
	BitsOffset           = "uef: chunk &102 has bad bit offset (%#02x)"
	FramingDataBits      = "uef: chunk &104 has illegal number of data bits (%d)"
	FramingParity        = "uef: chunk &104 has illegal parity (%#02x)"
	FramingStopBits      = "uef: chunk &104 has illegal number of stop bits (%d)"
	PulseWave            = "uef: chunk &114 has illegal pulse/wave value (%#02x)"
	CycleCount           = "uef: chunk &114 number of cycles is wrong (%d)"
	NegativeGap          = "uef: chunk &116 has a negative gap"
	HugeGap              = "uef: chunk &116 has an excessive gap (%f seconds)"
	BadPhase             = "uef: chunk &115 has illegal phase (%d)"
	BadBaud              = "uef: chunk &117 has illegal baud rate (%d)"
	Vocabulary           = "uef: chunk &130 has illegal vocabulary (%d)"
	NumTapes             = "uef: chunk &130 has illegal number of tapes (%d)"
	NumChannels          = "uef: chunk &130 has zero channels"
	TapeID               = "uef: chunk &131 has bad tape ID (%d)"
	TapeIDLimit          = "uef: chunk &131 tape ID exceeds prior maximum (%d of %d)"
	ChannelID            = "uef: chunk &131 has bad channel ID (%d)"
	ChannelIDLimit       = "uef: chunk &131 channel ID exceeds prior maximum (%d of %d)"
	DescriptionLong      = "uef: chunk &131 description is too long (%d)"
	InlayZero            = "uef: inlay scan has a pixel size of zero"
	InlayLength          = "uef: inlay scan has bad length (%d, expected %d)"
	TargetMachine        = "uef: invalid target machine (%#02x)"
	BitMultiplex         = "uef: invalid bit multiplexing value (%d)"
	TooManyGlobals       = "uef: too many %s chunks (%d)"
	TooManyMetadata      = "uef: too many metadata chunks between data chunks"
	BadUTF8              = "uef: bad UTF-8 in %s chunk"

	ZeroLengthOrigin = "uef: BUG: refusing to save zero length origin chunk %d"
	SaveLength       = "uef: BUG: chunk %d has illegal length %d"
	Timestamps       = "uef: BUG: timestamp integrity failure at chunk %d (%d + %d != %d)"
	SeekRange        = "uef: BUG: seek to chunk %d of %d"
	BadInterval      = "uef: BUG: chunk interval is invalid (%d, %d)"
)

var _ = tapeerr.Register(tapeerr.Truncated, HeaderTruncated, ChunkHeaderTruncated, ChunkBodyTruncated)
var _ = tapeerr.Register(tapeerr.BadMagic, BadMagic)
var _ = tapeerr.Register(tapeerr.FieldRange, UnknownChunk, BitsOffset, FramingDataBits, FramingParity,
	FramingStopBits, PulseWave, NegativeGap, HugeGap, BadPhase, BadBaud, Vocabulary, NumTapes,
	NumChannels, TapeID, TapeIDLimit, ChannelID, ChannelIDLimit, DescriptionLong, InlayZero,
	TargetMachine, BitMultiplex)
var _ = tapeerr.Register(tapeerr.LengthMismatch, ChunkLength, CycleCount, InlayLength)
var _ = tapeerr.Register(tapeerr.OutOfMemory, OversizedChunk, LongChunk, TooManyGlobals, TooManyMetadata)
var _ = tapeerr.Register(tapeerr.Unicode, BadUTF8)
var _ = tapeerr.Register(tapeerr.Bug, ZeroLengthOrigin, SaveLength, Timestamps, SeekRange, BadInterval)
