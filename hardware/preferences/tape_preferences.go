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

package preferences

import (
	"fmt"
	"strings"

	"github.com/rjpontefract/b-em-sub001/prefs"
)

// OnEOF selects what a tape does when playback reaches the end of the tape.
type OnEOF int

// List of valid OnEOF values.
const (
	// the tape rewinds and playback continues from the start
	EOFLoop OnEOF = iota

	// end of tape is reported to the caller, once per arrival at the end
	EOFStop
)

func (e OnEOF) String() string {
	switch e {
	case EOFLoop:
		return "loop"
	case EOFStop:
		return "stop"
	}
	return "unknown"
}

// UnknownChunk selects how the chunked tape format treats a chunk type it
// does not recognise.
type UnknownChunk int

// List of valid UnknownChunk values.
const (
	// the file is rejected
	ChunkReject UnknownChunk = iota

	// the chunk is dropped with a warning
	ChunkSkip
)

func (u UnknownChunk) String() string {
	switch u {
	case ChunkReject:
		return "reject"
	case ChunkSkip:
		return "skip"
	}
	return "unknown"
}

// TapeConfig is a snapshot of the tape preferences taken when a tape is
// created.
type TapeConfig struct {
	OnEOF        OnEOF
	UnknownChunk UnknownChunk

	// reinterpret start bits as leader until enough tone has been seen after
	// a silence
	PhantomProtection bool

	// skip silence and leader quickly when the motor is on
	StripSilence bool

	// write a baud rate chunk before every data block, not just on a change
	Always117 bool

	// write silence to the chunked format as &112 chunks rather than &116
	Silence112 bool

	// don't write an origin chunk when appending to an existing tape
	NoOrigin bool

	// compress saved files
	Compress bool

	// contents of the origin chunk
	Origin string
}

// DefaultTapeConfig returns the configuration used when no preferences have
// been set.
func DefaultTapeConfig() TapeConfig {
	return TapeConfig{
		OnEOF:             EOFLoop,
		UnknownChunk:      ChunkReject,
		PhantomProtection: true,
		Compress:          true,
		Origin:            "b-em-sub001",
	}
}

// TapePreferences are the preference values that control the tape.
type TapePreferences struct {
	onEOF        OnEOF
	unknownChunk UnknownChunk

	OnEOF             *prefs.Generic
	UnknownChunk      *prefs.Generic
	PhantomProtection prefs.Bool
	StripSilence      prefs.Bool
	Always117         prefs.Bool
	Silence112        prefs.Bool
	NoOrigin          prefs.Bool
	Compress          prefs.Bool
	Origin            prefs.String
}

func (p *TapePreferences) init() {
	p.OnEOF = prefs.NewGeneric(
		func(s string) error {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "loop", "":
				p.onEOF = EOFLoop
			case "stop":
				p.onEOF = EOFStop
			default:
				return fmt.Errorf("preferences: unrecognised end of tape behaviour (%s)", s)
			}
			return nil
		},
		func() string {
			return p.onEOF.String()
		},
	)
	p.UnknownChunk = prefs.NewGeneric(
		func(s string) error {
			switch strings.ToLower(strings.TrimSpace(s)) {
			case "reject", "":
				p.unknownChunk = ChunkReject
			case "skip":
				p.unknownChunk = ChunkSkip
			default:
				return fmt.Errorf("preferences: unrecognised unknown chunk behaviour (%s)", s)
			}
			return nil
		},
		func() string {
			return p.unknownChunk.String()
		},
	)
	p.Origin.SetMaxLen(255)
}

func (p *TapePreferences) add(dsk *prefs.Disk) error {
	for k, v := range map[string]interface {
		Set(prefs.Value) error
		Get() prefs.Value
		Reset() error
		String() string
	}{
		"tape.oneof":             p.OnEOF,
		"tape.unknownchunk":      p.UnknownChunk,
		"tape.phantomprotection": &p.PhantomProtection,
		"tape.stripsilence":      &p.StripSilence,
		"tape.always117":         &p.Always117,
		"tape.silence112":        &p.Silence112,
		"tape.noorigin":          &p.NoOrigin,
		"tape.compress":          &p.Compress,
		"tape.origin":            &p.Origin,
	} {
		if err := dsk.Add(k, v); err != nil {
			return err
		}
	}
	return nil
}

// SetDefaults reverts all tape settings to default values.
func (p *TapePreferences) SetDefaults() {
	d := DefaultTapeConfig()
	p.onEOF = d.OnEOF
	p.unknownChunk = d.UnknownChunk
	p.PhantomProtection.Set(d.PhantomProtection)
	p.StripSilence.Set(d.StripSilence)
	p.Always117.Set(d.Always117)
	p.Silence112.Set(d.Silence112)
	p.NoOrigin.Set(d.NoOrigin)
	p.Compress.Set(d.Compress)
	p.Origin.Set(d.Origin)
}

// Config returns a snapshot of the current tape preferences.
func (p *TapePreferences) Config() TapeConfig {
	return TapeConfig{
		OnEOF:             p.onEOF,
		UnknownChunk:      p.unknownChunk,
		PhantomProtection: p.PhantomProtection.Get().(bool),
		StripSilence:      p.StripSilence.Get().(bool),
		Always117:         p.Always117.Get().(bool),
		Silence112:        p.Silence112.Get().(bool),
		NoOrigin:          p.NoOrigin.Get().(bool),
		Compress:          p.Compress.Get().(bool),
		Origin:            p.Origin.String(),
	}
}
