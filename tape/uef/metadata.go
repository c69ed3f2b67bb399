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
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
)

// MaxMetadata is the maximum number of metadata chunks allowed between two
// chunks that contain tones.
const MaxMetadata = 128

// TapeSet is the content of a tape set info chunk.
type TapeSet struct {
	Vocabulary  uint8
	NumTapes    uint8
	NumChannels uint8
}

// TapeSide is the content of a start of tape side chunk.
type TapeSide struct {
	TapeID      uint8
	SideB       bool
	ChannelID   uint8
	Description string
}

// Meta is a metadata chunk. Only the field for the chunk's Type is set.
type Meta struct {
	Type ChunkType

	Phase    uint16
	Baud     uint16
	Position string
	TapeSet  TapeSet
	TapeSide TapeSide
}

// parseMeta returns the metadata in a chunk. ok is false if the chunk is not
// a metadata chunk. The tape set from an earlier &130 chunk limits the values
// in a &131 chunk. A zero TapeSet means there is no limit.
func parseMeta(c *Chunk, limit TapeSet) (m Meta, ok bool, err error) {
	m.Type = c.Type

	switch c.Type {
	case ChunkPhase:
		m.Phase = tapebytes.ReadU16(c.Data)
		if m.Phase > 360 {
			return m, false, curated.Errorf(BadPhase, m.Phase)
		}

	case ChunkPosition:
		m.Position = cString(c.Data)

	case ChunkTapeSet:
		if c.Data[0] > 4 {
			return m, false, curated.Errorf(Vocabulary, c.Data[0])
		}
		if c.Data[1] == 0 || c.Data[1] > 127 {
			return m, false, curated.Errorf(NumTapes, c.Data[1])
		}
		if c.Data[2] == 0 {
			return m, false, curated.Errorf(NumChannels)
		}
		m.TapeSet = TapeSet{
			Vocabulary:  c.Data[0],
			NumTapes:    c.Data[1],
			NumChannels: c.Data[2],
		}

	case ChunkTapeSide:
		id := c.Data[0] & 0x7f
		if id == 127 {
			return m, false, curated.Errorf(TapeID, id)
		}
		if limit.NumTapes > 0 && id >= limit.NumTapes {
			return m, false, curated.Errorf(TapeIDLimit, id, limit.NumTapes-1)
		}
		if c.Data[1] == 0xff {
			return m, false, curated.Errorf(ChannelID, c.Data[1])
		}
		if limit.NumChannels > 0 && c.Data[1] >= limit.NumChannels {
			return m, false, curated.Errorf(ChannelIDLimit, c.Data[1], limit.NumChannels-1)
		}
		m.TapeSide = TapeSide{
			TapeID:      id,
			SideB:       c.Data[0]&0x80 == 0x80,
			ChannelID:   c.Data[1],
			Description: cString(c.Data[2:]),
		}
		if len(m.TapeSide.Description) > 255 {
			return m, false, curated.Errorf(DescriptionLong, len(m.TapeSide.Description))
		}

	case ChunkBaud:
		m.Baud = tapebytes.ReadU16(c.Data)
		if m.Baud != 300 && m.Baud != 1200 {
			return m, false, curated.Errorf(BadBaud, m.Baud)
		}

	default:
		return Meta{}, false, nil
	}

	return m, true, nil
}

// verifyMeta checks every metadata chunk. Each &130 chunk sets the limits for
// the &131 chunks that follow it.
func verifyMeta(chunks []Chunk) error {
	var limit TapeSet
	for i := range chunks {
		m, ok, err := parseMeta(&chunks[i], limit)
		if err != nil {
			return err
		}
		if ok && m.Type == ChunkTapeSet {
			limit = m.TapeSet
		}
	}
	return nil
}
