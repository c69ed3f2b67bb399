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

package tapeerr

import (
	"sync"

	"github.com/rjpontefract/b-em-sub001/curated"
)

// Kind is the class of an error.
type Kind int

// List of valid Kind values.
const (
	OK Kind = iota
	EOF
	Bug
	OutOfMemory
	IO
	BadMagic
	BadVersion
	FieldRange
	LengthMismatch
	Truncated
	Decompress
	DecompressTooLarge
	Unicode

	// the error is not a curated error or its pattern has not been
	// registered
	Unclassified
)

func (k Kind) String() string {
	switch k {
	case OK:
		return "ok"
	case EOF:
		return "end of stream"
	case Bug:
		return "bug"
	case OutOfMemory:
		return "out of memory"
	case IO:
		return "i/o"
	case BadMagic:
		return "bad magic"
	case BadVersion:
		return "unsupported version"
	case FieldRange:
		return "field out of range"
	case LengthMismatch:
		return "length mismatch"
	case Truncated:
		return "truncated"
	case Decompress:
		return "decompression failure"
	case DecompressTooLarge:
		return "decompressed size exceeded"
	case Unicode:
		return "unicode"
	}
	return "unclassified"
}

// Fatal returns true if the kind should disable the tape. End of stream is
// recoverable and a bug is a defect that is reported rather than absorbed.
func (k Kind) Fatal() bool {
	switch k {
	case OK, EOF, Bug:
		return false
	}
	return true
}

// EndOfTape is the sentinel pattern returned when a read reaches the end of
// the tape.
const EndOfTape = "tape: end of tape"

var registry = struct {
	crit     sync.RWMutex
	patterns map[string]Kind
}{
	patterns: map[string]Kind{
		EndOfTape: EOF,
	},
}

// Register associates a curated error pattern with a kind. It returns true so
// that it can be used in a package level variable declaration.
func Register(kind Kind, patterns ...string) bool {
	registry.crit.Lock()
	defer registry.crit.Unlock()
	for _, p := range patterns {
		registry.patterns[p] = kind
	}
	return true
}

// KindOf returns the kind of the error. A nil error is of kind OK.
func KindOf(err error) Kind {
	if err == nil {
		return OK
	}

	registry.crit.RLock()
	defer registry.crit.RUnlock()

	kind := Unclassified
	curated.Walk(err, func(p string) bool {
		if k, ok := registry.patterns[p]; ok {
			kind = k
			return false
		}
		return true
	})

	return kind
}

// IsEOF returns true if the error is an end of stream error.
func IsEOF(err error) bool {
	return KindOf(err) == EOF
}

// IsBug returns true if the error reports a defect in the emulation.
func IsBug(err error) bool {
	return KindOf(err) == Bug
}
