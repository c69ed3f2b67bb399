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

package digest

import (
	"crypto/sha1"
	"fmt"

	"github.com/rjpontefract/b-em-sub001/tape"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
)

// the length of the buffer. the first sha1.Size bytes of the buffer are the
// previous digest value
const bufferLength = 4096

// Tones is a digest of a stream of tones.
type Tones struct {
	digest   [sha1.Size]byte
	buffer   []byte
	bufferCt int
	count    int
}

// NewTones is the preferred method of initialisation for the Tones type.
func NewTones() *Tones {
	return &Tones{
		buffer:   make([]byte, bufferLength),
		bufferCt: sha1.Size,
	}
}

func (dig *Tones) String() string {
	return fmt.Sprintf("%x", dig.digest)
}

// Count returns the number of tones added since the last reset.
func (dig *Tones) Count() int {
	return dig.count
}

// ResetDigest resets the digest value to zero.
func (dig *Tones) ResetDigest() {
	dig.digest = [sha1.Size]byte{}
	dig.bufferCt = sha1.Size
	dig.count = 0
}

// AddTone adds a tone to the digest.
func (dig *Tones) AddTone(tone byte) {
	dig.buffer[dig.bufferCt] = tone
	dig.bufferCt++
	dig.count++
	if dig.bufferCt >= len(dig.buffer) {
		dig.Flush()
	}
}

// Flush updates the digest value with any buffered tones. Called
// automatically when the buffer fills.
func (dig *Tones) Flush() {
	if dig.bufferCt == sha1.Size {
		return
	}
	dig.digest = sha1.Sum(dig.buffer[:dig.bufferCt])
	copy(dig.buffer, dig.digest[:])
	dig.bufferCt = sha1.Size
}

// Tape returns the digest of every tone on the tape. The tape is not
// disturbed. Leader is not distinguished from '1' because whether a run of
// ones counts as leader depends on the format.
func Tape(t *tape.Tape) (*Tones, error) {
	cl, err := t.Clone()
	if err != nil {
		return nil, err
	}
	cl.Rewind()

	dig := NewTones()
	for {
		tone, _, err := cl.ToneFromBackEnd(false, false, false)
		if tapeerr.IsEOF(err) {
			break
		}
		if err != nil {
			return nil, err
		}
		if tone == tapeclock.ToneLeader {
			tone = tapeclock.ToneOne
		}
		dig.AddTone(tone)
	}
	dig.Flush()

	return dig, nil
}
