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
)

// Build returns the tape as a UEF file. The file is not compressed.
func (u *UEF) Build() ([]byte, error) {
	size := headerLen
	for _, c := range u.chunks {
		size += 6 + len(c.Data)
	}

	b := make([]byte, 0, size)
	b = append(b, magic...)
	b = append(b, VersionMinor, VersionMajor)

	for i, c := range u.chunks {
		if len(c.Data) > MaxChunkLength {
			return nil, curated.Errorf(SaveLength, i, len(c.Data))
		}
		if c.Type == ChunkOrigin && len(c.Data) == 0 {
			return nil, curated.Errorf(ZeroLengthOrigin, i)
		}
		b = tapebytes.AppendU16(b, uint16(c.Type))
		b = tapebytes.AppendU32(b, uint32(len(c.Data)))
		b = append(b, c.Data...)
	}

	return b, nil
}

// AppendChunk adds a copy of the chunk to the end of the tape. The chunk's
// span must follow on from the final chunk for the timestamps to verify.
func (u *UEF) AppendChunk(c Chunk) error {
	if c.Span.Start < -1 || c.Span.Duration < 0 {
		return curated.Errorf(BadInterval, c.Span.Start, c.Span.Duration)
	}
	if len(c.Data) > MaxChunkLength {
		return curated.Errorf(OversizedChunk, len(u.chunks), len(c.Data))
	}

	n := c.clone()
	n.Offset = 0
	if n.Span.Start < 0 {
		n.Span.Start = 0
	}

	err := n.verifyLength()
	if err != nil {
		return err
	}
	n.totals()

	u.chunks = append(u.chunks, n)

	if n.Type < ChunkData {
		u.globals, err = parseGlobals(u.perm, u.chunks)
		if err != nil {
			u.chunks = u.chunks[:len(u.chunks)-1]
			return err
		}
		u.globals.parseMakeUEF(logger.Deny)
	}

	return nil
}

// BaudPayload returns the data for a &117 chunk for the nominal baud rate.
// Only 300 and 1200 are valid in a UEF file but the other rates of the
// serial ULA can be written. Returns nil for any other rate.
func BaudPayload(perm logger.Permission, baud int) []byte {
	var p []byte
	switch baud {
	case 1200, 600, 300, 150, 75:
		p = tapebytes.AppendU16(nil, uint16(baud))
	default:
		return nil
	}
	if baud != 300 && baud != 1200 {
		logger.Logf(perm, "uef", "nonstandard baud rate %d is not valid in a UEF file", baud)
	}
	return p
}
