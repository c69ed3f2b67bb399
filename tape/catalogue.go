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
	"fmt"
	"strings"

	"github.com/rjpontefract/b-em-sub001/hardware/acia"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
)

// CatalogueEntry is a single file found on the tape.
type CatalogueEntry struct {
	Name string
	Size uint32
	Load uint32
	Exec uint32

	// time at which the first block of the file begins
	Start int32
}

func (e CatalogueEntry) String() string {
	h, m, s := tapeclock.HoursMinutesSeconds(e.Start)
	return fmt.Sprintf("%d:%02d:%02d %-10s Size %04X Load %08X Run %08X", h, m, s, e.Name, e.Size, e.Load, e.Exec)
}

// fields of a block header. the count is the byte position within the block
const (
	blockSync      = 0
	blockName      = 1
	blockNameEnd   = 12
	blockLoad      = 16
	blockExec      = 20
	blockNumber    = 22
	blockLength    = 24
	blockFlag      = 25
	blockNext      = 29
	maxFilename    = 10
	blockFlagFinal = 0x80
	blockFlagEmpty = 0x40
)

// catalogue is the parse state for a single block
type catalogue struct {
	emit func(CatalogueEntry)

	name   [maxFilename + 1]byte
	load   uint32
	exec   uint32
	number uint16
	length uint16
	final  bool
	empty  bool

	fileLen   uint32
	fileStart int32

	// byte position within the block and the position at which the block
	// ends
	n     int
	limit int
}

func (c *catalogue) newBlock() {
	c.name = [maxFilename + 1]byte{}
	c.load = 0
	c.exec = 0
	c.number = 0
	c.length = 0
	c.final = false
	c.empty = false
	c.n = 0
	c.limit = blockNext
}

// next takes the next byte of the tape. the time is that of the most recent
// tone
func (c *catalogue) next(v uint8, at int32) {
	switch {
	case c.n == blockSync:
		if v != '*' {
			return
		}

	case c.n < blockNameEnd:
		i := c.n - blockName
		if i == maxFilename && v != 0 {
			// no terminator. look for the next sync byte
			c.newBlock()
			return
		}
		if v == 0 {
			c.n = blockNameEnd - 1
			break
		}
		if v < 0x20 || v > 0x7e {
			v = '?'
		}
		c.name[i] = v

	case c.n < blockLoad:
		c.load = (c.load >> 8) | uint32(v)<<24

	case c.n < blockExec:
		c.exec = (c.exec >> 8) | uint32(v)<<24

	case c.n < blockNumber:
		c.number = (c.number >> 8) | uint16(v)<<8
		if c.n == blockNumber-1 && c.number == 0 {
			c.fileStart = at
		}

	case c.n < blockLength:
		c.length = (c.length >> 8) | uint16(v)<<8

	case c.n < blockFlag:
		c.final = c.length < 0x100 || v&blockFlagFinal == blockFlagFinal
		c.empty = v&blockFlagEmpty == blockFlagEmpty

	case c.n < blockNext:
		if c.n == blockNext-1 {
			c.fileLen += uint32(c.length)
			if c.final {
				c.emit(CatalogueEntry{
					Name:  strings.TrimRight(string(c.name[:maxFilename]), "\x00"),
					Size:  c.fileLen,
					Load:  c.load,
					Exec:  c.exec,
					Start: c.fileStart,
				})
				c.fileLen = 0
			}

			// header CRC, data and data CRC
			c.limit += 2
			if !c.empty {
				c.limit += int(c.length) + 2
			}
		}
	}

	c.n++
	if c.n >= c.limit {
		c.newBlock()
	}
}

// Catalogue lists the files on the tape. The tape is not disturbed. The scan
// runs on a rewound clone of the tape with a private ACIA, assuming 8N1
// framing at 1200 baud.
//
// Phantom blocks are those that begin too soon after silence to have been
// seen by real hardware. They are ignored if filterPhantoms is true.
//
// Each file is passed to the emit function, which may be nil, and sent to the
// host as a NotifyCatalogueLine notice.
func (t *Tape) Catalogue(filterPhantoms bool, emit func(CatalogueEntry)) error {
	if t.fileType == FileNone {
		return nil
	}

	cl, err := t.Clone()
	if err != nil {
		return err
	}

	if t.env != nil {
		cl.env = t.env.Derive("catalogue")
	}
	cl.record = false
	cl.Rewind()

	a := acia.NewACIA(cl.env, "catalogue", nil)
	// 8N1 and no clock division. the tones are given directly to the
	// receiver
	err = a.Write(acia.ControlRegister, 0x14)
	if err != nil {
		return err
	}

	var count int
	c := catalogue{
		emit: func(e CatalogueEntry) {
			count++
			logger.Logf(t.env, logTag, "catalogue: %s", e)
			_ = t.env.Notify(notifications.NotifyCatalogueLine, e.String())
			if emit != nil {
				emit(e)
			}
		},
	}
	c.newBlock()

	for {
		tone, at, err := cl.ToneFromBackEnd(false, a.AwaitingStart(), filterPhantoms)
		if err != nil {
			if tapeerr.IsEOF(err) {
				break
			}
			return err
		}

		err = a.ReceiveTone(tone)
		if err != nil {
			return err
		}

		if a.Status()&acia.StatusRDRF != acia.StatusRDRF {
			continue
		}
		_ = a.Read(acia.StatusRegister)
		c.next(a.Read(acia.DataRegister), at)
	}

	logger.Logf(t.env, logTag, "catalogue: %d files", count)

	return nil
}
