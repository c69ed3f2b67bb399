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

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/environment"
	"github.com/rjpontefract/b-em-sub001/hardware/preferences"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/tape/csw"
	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
	"github.com/rjpontefract/b-em-sub001/tape/tapeio"
	"github.com/rjpontefract/b-em-sub001/tape/tibet"
	"github.com/rjpontefract/b-em-sub001/tape/uef"
)

// Config is the tape configuration. It is taken from the preferences when the
// tape is created.
type Config = preferences.TapeConfig

const logTag = "tape"

// Tape is the cassette in the tape deck. The zero value is not usable. Use
// NewTape().
type Tape struct {
	env *environment.Environment
	cfg Config

	// the formats the tape is held in. playback prefers UEF, then CSW, then
	// TIBET
	fileType FileType

	// the codecs are never nil. a codec not named by fileType is empty
	uef   *uef.UEF
	csw   *csw.CSW
	tibet *tibet.TIBET

	record bool

	// the error that disabled the tape. nil if the tape is usable
	disabled error

	// the playback position in 1200ths. while recording this is the
	// position of the next tone to be written
	tallied int32

	// the end of the tape has been reached and the OnEOF policy is
	// EOFStop. cleared by Rewind()
	finished bool

	// the most recent tone to come off the tape
	prevailing byte

	rd reader
	wr writer
}

// NewTape is the preferred method of initialisation for the Tape type. The
// environment may be nil, in which case nothing is logged and the default
// configuration is used.
func NewTape(env *environment.Environment) *Tape {
	t := &Tape{
		env: env,
		cfg: preferences.DefaultTapeConfig(),
	}
	if env != nil && env.Prefs != nil {
		t.cfg = env.Prefs.Tape.Config()
	}
	t.finish()
	return t
}

// SetConfig replaces the tape configuration. The new configuration applies to
// the next tone read or written.
func (t *Tape) SetConfig(cfg Config) {
	t.cfg = cfg
}

// Config returns the current configuration.
func (t *Tape) Config() Config {
	return t.cfg
}

func (t *Tape) String() string {
	if t.disabled != nil {
		return fmt.Sprintf("disabled (%v)", t.disabled)
	}
	if t.fileType == FileNone {
		return "no tape"
	}
	h, m, s := tapeclock.HoursMinutesSeconds(t.tallied)
	dh, dm, ds := tapeclock.HoursMinutesSeconds(t.Duration())
	return fmt.Sprintf("%v %d:%02d:%02d / %d:%02d:%02d", t.fileType, h, m, s, dh, dm, ds)
}

// finish the current tape and return to the state of an empty deck. the
// disabled and record flags are not changed
func (t *Tape) finish() {
	t.fileType = FileNone
	t.uef = uef.NewUEF(t.env)
	t.csw = csw.NewCSW(t.env)
	t.tibet = tibet.NewTIBET(t.env)
	t.tallied = 0
	t.finished = false
	t.prevailing = tapeclock.ToneSilence
	t.rd = reader{}
	t.wr = newWriter()
}

// fail disables the tape if the error is of a fatal kind. the error is
// returned unchanged.
func (t *Tape) fail(err error) error {
	if err == nil || !tapeerr.KindOf(err).Fatal() || t.disabled != nil {
		return err
	}

	logger.Logf(t.env, logTag, "%v: tape disabled (eject or load to clear)", err)

	if t.record {
		t.record = false
		_ = t.env.Notify(notifications.NotifyRecordModeChanged, "off")
	}
	t.finish()
	t.disabled = err
	_ = t.env.Notify(notifications.NotifyTapeEjected, err.Error())

	return err
}

// Load a tape from the contents of a file. Any tape currently in the deck is
// discarded. Compressed UEF and TIBET data is inflated automatically.
//
// A fatal error disables the tape.
func (t *Tape) Load(ft FileType, data []byte) error {
	if t.record {
		t.record = false
		_ = t.env.Notify(notifications.NotifyRecordModeChanged, "off")
	}
	t.finish()
	t.disabled = nil

	var err error

	if (ft == FileUEF || ft == FileTIBET) && tapeio.IsGzip(data) {
		data, err = tapeio.Inflate(data, tapeio.MaxDecompressed)
		if err != nil {
			return t.fail(curated.Errorf(CodecError, ft, err))
		}
	}

	switch ft {
	case FileUEF:
		var u *uef.UEF
		u, err = uef.Load(t.env, data, uef.Options{SkipUnknown: t.cfg.UnknownChunk == preferences.ChunkSkip})
		if err == nil {
			u.SetMetadataHandler(func(m uef.Meta) {
				logger.Logf(t.env, logTag, "unused metadata chunk &%x", uint16(m.Type))
			})
			t.uef = u
		}
	case FileTIBET:
		var tb *tibet.TIBET
		tb, err = tibet.Decode(t.env, data)
		if err == nil {
			t.tibet = tb
		}
	case FileCSW:
		var c *csw.CSW
		c, err = csw.Load(t.env, data)
		if err == nil {
			t.csw = c
		}
	default:
		return curated.Errorf(BadFileType, ft)
	}

	if err != nil {
		return t.fail(curated.Errorf(CodecError, ft, err))
	}

	t.fileType = ft
	t.Rewind()

	logger.Logf(t.env, logTag, "loaded %v tape: %s", ft, t)
	_ = t.env.Notify(notifications.NotifyMenuChanged, ft.String())

	return nil
}

// LoadFile loads a tape from disk. The format is chosen by the filename
// extension.
func (t *Tape) LoadFile(path string) error {
	ft, _, err := FileTypeFromPath(path)
	if err != nil {
		return err
	}
	data, err := tapeio.ReadFile(path)
	if err != nil {
		return t.fail(err)
	}
	return t.Load(ft, data)
}

// Eject the tape. Recording is stopped and the disabled condition is cleared.
func (t *Tape) Eject() error {
	var err error
	if t.record {
		err = t.SetRecord(false, nil)
	}
	t.finish()
	t.disabled = nil
	logger.Log(t.env, logTag, "tape ejected")
	_ = t.env.Notify(notifications.NotifyTapeEjected, "")
	return err
}

// Save returns the tape as a file of the specified format. The format must be
// one of the formats the tape is held in. Any pending piece of a recording is
// written to the tape first.
func (t *Tape) Save(ft FileType, compress bool) ([]byte, error) {
	if t.disabled != nil {
		return nil, curated.Errorf(Disabled, t.disabled)
	}
	if !ft.Single() || t.fileType&ft != ft {
		return nil, curated.Errorf(SaveFileType, ft, t.fileType)
	}

	if t.record {
		if err := t.FlushPendingPiece(nil); err != nil {
			return nil, err
		}
	}

	var data []byte
	var err error

	switch ft {
	case FileUEF:
		data, err = t.uef.Build()
		if err == nil && compress {
			data, err = tapeio.Gzip(data)
		}
	case FileTIBET:
		data, err = t.tibet.Build()
		if err == nil && compress {
			data, err = tapeio.Gzip(data)
		}
	case FileCSW:
		data, err = t.csw.Save(compress)
	}

	if err != nil {
		return nil, curated.Errorf(CodecError, ft, err)
	}
	return data, nil
}

// SaveFile saves the tape to disk. The format is chosen by the filename
// extension. CSW and UEF files are compressed if the configuration says so.
// A .tibetz file is always compressed and a .tibet file never is.
func (t *Tape) SaveFile(path string) error {
	ft, compressed, err := FileTypeFromPath(path)
	if err != nil {
		return err
	}
	if ft != FileTIBET {
		compressed = t.cfg.Compress
	}

	data, err := t.Save(ft, compressed)
	if err != nil {
		return err
	}

	err = tapeio.WriteFile(path, data)
	if err != nil {
		return err
	}
	logger.Logf(t.env, logTag, "saved %v tape to %s", ft, path)
	return nil
}

// Rewind the tape to the beginning. Has no effect while recording.
func (t *Tape) Rewind() {
	if t.record {
		return
	}
	t.uef.Rewind()
	t.csw.Rewind()
	t.tibet.Rewind()
	t.tallied = 0
	t.finished = false
	t.rd.tones300Fill = 0
	logger.Log(t.env, logTag, "tape rewound")
}

// Clone returns an independent copy of the tape. A disabled tape cannot be
// cloned.
func (t *Tape) Clone() (*Tape, error) {
	if t.disabled != nil {
		return nil, curated.Errorf(Disabled, t.disabled)
	}

	n := *t
	n.uef = t.uef.Clone()
	n.csw = t.csw.Clone()
	n.tibet = t.tibet.Clone()
	n.wr = t.wr.clone()

	return &n, nil
}

// Duration returns the length of the tape in 1200ths.
func (t *Tape) Duration() int32 {
	switch t.playbackType() {
	case FileUEF:
		return t.uef.Duration()
	case FileCSW:
		return t.csw.Duration()
	case FileTIBET:
		return t.tibet.Duration()
	}
	return 0
}

// playbackType is the format that playback reads from. A tape held in more
// than one format prefers UEF, then CSW, then TIBET.
func (t *Tape) playbackType() FileType {
	switch {
	case t.fileType&FileUEF == FileUEF:
		return FileUEF
	case t.fileType&FileCSW == FileCSW:
		return FileCSW
	case t.fileType&FileTIBET == FileTIBET:
		return FileTIBET
	}
	return FileNone
}

// Elapsed returns the playback position in 1200ths.
func (t *Tape) Elapsed() int32 {
	return t.tallied
}

// PeekEOF returns true if playback has reached the end of the tape. An empty
// deck is always at the end of the tape.
func (t *Tape) PeekEOF() bool {
	switch t.playbackType() {
	case FileUEF:
		return t.uef.PeekEOF()
	case FileCSW:
		return t.csw.PeekEOF()
	case FileTIBET:
		return t.tibet.PeekEOF()
	}
	return true
}

// PeekForData returns the formats that contain any data. Useful for deciding
// which formats a recording can be saved as.
func (t *Tape) PeekForData() FileType {
	if t.disabled != nil {
		return FileNone
	}
	var ft FileType
	if t.fileType&FileUEF == FileUEF && t.uef.HasData() {
		ft |= FileUEF
	}
	if t.fileType&FileTIBET == FileTIBET && t.tibet.HasData() {
		ft |= FileTIBET
	}
	if t.fileType&FileCSW == FileCSW && t.csw.HasData() {
		ft |= FileCSW
	}
	return ft
}

// FileType returns the formats the tape is held in.
func (t *Tape) FileType() FileType {
	return t.fileType
}

// Loaded returns true if the deck holds a tape, even a blank one.
func (t *Tape) Loaded() bool {
	return t.fileType != FileNone
}

// Disabled returns the error that disabled the tape. Returns nil if the tape
// is usable.
func (t *Tape) Disabled() error {
	return t.disabled
}

// Record returns true if the tape is recording.
func (t *Tape) Record() bool {
	return t.record
}

// PrevailingTone returns the most recent tone to come off the tape. The
// serial ULA uses it to drive the DCD line.
func (t *Tape) PrevailingTone() byte {
	return t.prevailing
}

// StartMotor should be called when the cassette motor is switched on.
func (t *Tape) StartMotor() {
	t.rd.sinceMotor = 0
	logger.Log(t.env, logTag, "motor on")
}

// StopMotor should be called when the cassette motor is switched off.
func (t *Tape) StopMotor() {
	logger.Log(t.env, logTag, "motor off")
}

// UEF returns the UEF representation of the tape. Returns nil if the tape is
// not held as a UEF.
func (t *Tape) UEF() *uef.UEF {
	if t.fileType&FileUEF != FileUEF {
		return nil
	}
	return t.uef
}

// CSW returns the CSW representation of the tape. Returns nil if the tape is
// not held as a CSW.
func (t *Tape) CSW() *csw.CSW {
	if t.fileType&FileCSW != FileCSW {
		return nil
	}
	return t.csw
}

// TIBET returns the TIBET representation of the tape. Returns nil if the tape
// is not held as a TIBET.
func (t *Tape) TIBET() *tibet.TIBET {
	if t.fileType&FileTIBET != FileTIBET {
		return nil
	}
	return t.tibet
}
