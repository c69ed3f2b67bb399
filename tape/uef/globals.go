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
	"bytes"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape/tapebytes"
)

// MaxGlobals is the maximum number of any one type of global chunk.
const MaxGlobals = 128

// InlayScan is an image of the cassette inlay. Only 8bpp images are fully
// parsed. Body and Palette are nil for unsupported formats.
type InlayScan struct {
	Width   uint16
	Height  uint16
	BPP     uint8
	Grey    bool
	Body    []byte
	Palette []byte
}

// MakeUEF is the version of the MakeUEF program named in an origin chunk.
type MakeUEF struct {
	Valid bool
	Major int
	Minor int
}

// Globals are the chunks that apply to the entire file. Chunks that can only
// appear once keep the first instance.
type Globals struct {
	Origins        []string
	Instructions   []string
	InlayScans     []InlayScan
	TargetMachines []byte
	ROMHints       [][]byte

	HaveBitMultiplex bool
	BitMultiplex     uint8

	ExtraPalette []byte
	ShortTitle   string
	VisibleArea  []byte

	MakeUEF MakeUEF
}

func (g Globals) clone() Globals {
	n := g
	n.Origins = append([]string(nil), g.Origins...)
	n.Instructions = append([]string(nil), g.Instructions...)
	n.TargetMachines = bytes.Clone(g.TargetMachines)
	n.ExtraPalette = bytes.Clone(g.ExtraPalette)
	n.VisibleArea = bytes.Clone(g.VisibleArea)
	n.InlayScans = nil
	for _, s := range g.InlayScans {
		s.Body = bytes.Clone(s.Body)
		s.Palette = bytes.Clone(s.Palette)
		n.InlayScans = append(n.InlayScans, s)
	}
	n.ROMHints = nil
	for _, h := range g.ROMHints {
		n.ROMHints = append(n.ROMHints, bytes.Clone(h))
	}
	return n
}

// cString returns data up to but not including the first zero byte.
func cString(data []byte) string {
	if i := bytes.IndexByte(data, 0); i >= 0 {
		data = data[:i]
	}
	return string(data)
}

// parseInlay parses the header of an inlay scan chunk. supported is false if
// the image format is not 8bpp, in which case the scan is not an error.
func parseInlay(data []byte) (scan InlayScan, supported bool, err error) {
	if len(data) < 5 {
		return scan, false, curated.Errorf(ChunkLength, uint16(ChunkInlay), len(data))
	}

	scan.Width = tapebytes.ReadU16(data)
	scan.Height = tapebytes.ReadU16(data[2:])
	scan.BPP = data[4] & 0x7f
	scan.Grey = data[4]&0x80 == 0x80

	if scan.BPP != 8 {
		return scan, false, nil
	}

	body := int(scan.Width) * int(scan.Height)
	if body == 0 {
		return scan, false, curated.Errorf(InlayZero)
	}

	i := 5
	if !scan.Grey {
		i += 768
	}
	if len(data) != i+body {
		return scan, false, curated.Errorf(InlayLength, len(data), i+body)
	}
	if !scan.Grey {
		scan.Palette = data[5:i]
	}
	scan.Body = data[i:]

	return scan, true, nil
}

func parseGlobals(perm logger.Permission, chunks []Chunk) (Globals, error) {
	var g Globals

	counts := make(map[ChunkType]int)
	for _, c := range chunks {
		counts[c.Type]++
	}
	for _, t := range []ChunkType{ChunkOrigin, ChunkInstructions, ChunkInlay, ChunkTarget, ChunkROMHint} {
		if counts[t] > MaxGlobals {
			return g, curated.Errorf(TooManyGlobals, chunkNames[t], counts[t])
		}
	}

	haveShortTitle := false
	havePalette := false

	for _, c := range chunks {
		switch c.Type {
		case ChunkOrigin, ChunkInstructions:
			s := cString(c.Data)
			if !utf8.ValidString(s) {
				return g, curated.Errorf(BadUTF8, chunkNames[c.Type])
			}
			if c.Type == ChunkOrigin {
				g.Origins = append(g.Origins, s)
			} else {
				g.Instructions = append(g.Instructions, s)
			}

		case ChunkInlay:
			scan, supported, err := parseInlay(c.Data)
			if err != nil {
				return g, err
			}
			if !supported {
				expected := int(scan.Width)*int(scan.Height)*int(scan.BPP/8) + 5
				if expected > len(c.Data) {
					return g, curated.Errorf(InlayLength, len(c.Data), expected)
				}
				logger.Logf(perm, "uef", "inlay scan: only 8 bpp is supported, found %d", scan.BPP)
			}
			g.InlayScans = append(g.InlayScans, scan)

		case ChunkTarget:
			if c.Data[0]>>4 > 0x04 || c.Data[0]&0x0f > 0x02 {
				return g, curated.Errorf(TargetMachine, c.Data[0])
			}
			g.TargetMachines = append(g.TargetMachines, c.Data[0])

		case ChunkBitMultiplex:
			if g.HaveBitMultiplex {
				logger.Log(perm, "uef", "multiple bit multiplexing chunks; ignoring later ones")
				continue
			}
			if c.Data[0] < 1 || c.Data[0] > 4 {
				return g, curated.Errorf(BitMultiplex, c.Data[0])
			}
			g.BitMultiplex = c.Data[0]
			g.HaveBitMultiplex = true

		case ChunkPalette:
			if havePalette {
				logger.Log(perm, "uef", "multiple extra palette chunks; ignoring later ones")
				continue
			}
			g.ExtraPalette = c.Data
			havePalette = true

		case ChunkROMHint:
			g.ROMHints = append(g.ROMHints, c.Data)

		case ChunkShortTitle:
			if haveShortTitle {
				logger.Log(perm, "uef", "multiple short title chunks; ignoring later ones")
				continue
			}
			g.ShortTitle = cString(c.Data)
			haveShortTitle = true

		case ChunkVisibleArea:
			if g.VisibleArea != nil {
				logger.Log(perm, "uef", "multiple visible area chunks; ignoring later ones")
				continue
			}
			g.VisibleArea = c.Data

		default:
			continue
		}

		logger.Logf(perm, "uef", "global chunk %v, len %d", c.Type, len(c.Data))
	}

	return g, nil
}

// printable replaces anything outside of printable ASCII with a question
// mark.
func printable(s string) string {
	b := []byte(s)
	for i := range b {
		if b[i] < 0x20 || b[i] > 0x7e {
			b[i] = '?'
		}
	}
	return string(b)
}

const makeUEFPrefix = "MakeUEF V"

func leadingDigits(s string) int {
	n := 0
	for n < len(s) && s[n] >= '0' && s[n] <= '9' {
		n++
	}
	return n
}

// parseMakeUEF looks for the version of MakeUEF in an origin string. Only the
// first valid MakeUEF origin is used.
func (g *Globals) parseMakeUEF(perm logger.Permission) {
	for i, o := range g.Origins {
		s := printable(o)
		logger.Logf(perm, "uef", "origins[%d]: %q", i, s)

		if len(s) < 12 || !strings.HasPrefix(s, makeUEFPrefix) {
			continue
		}
		if g.MakeUEF.Valid {
			logger.Log(perm, "uef", "multiple MakeUEF version origin chunks; ignoring later ones")
			continue
		}

		maj, mnr, ok := strings.Cut(s[len(makeUEFPrefix):], ".")
		if !ok || len(maj) == 0 || len(mnr) == 0 || leadingDigits(maj) != len(maj) {
			continue
		}

		// the minor version is the leading digits only
		n := leadingDigits(mnr)
		if n == 0 {
			continue
		}

		major, err := strconv.Atoi(maj)
		if err != nil {
			continue
		}
		minor, err := strconv.Atoi(mnr[:n])
		if err != nil {
			continue
		}

		g.MakeUEF = MakeUEF{Valid: true, Major: major, Minor: minor}
		logger.Logf(perm, "uef", "MakeUEF detected: version %d.%d", major, minor)
	}
}

// ReversedParity returns true if the file was made by a version of MakeUEF
// that had even and odd parity swapped in &104 chunks.
func (g Globals) ReversedParity() bool {
	m := g.MakeUEF
	return m.Valid && (m.Major < 2 || (m.Major == 2 && m.Minor < 4))
}
