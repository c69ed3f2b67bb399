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

package preferences_test

import (
	"path/filepath"
	"testing"

	"github.com/rjpontefract/b-em-sub001/hardware/preferences"
	"github.com/rjpontefract/b-em-sub001/prefs"
	"github.com/rjpontefract/b-em-sub001/test"
)

func TestDefaults(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)

	cfg := p.Tape.Config()
	test.ExpectEquality(t, cfg, preferences.DefaultTapeConfig())
	test.ExpectEquality(t, p.Serial.DeviceBaud.Get().(int), 9600)
}

func TestPersistence(t *testing.T) {
	pth := filepath.Join(t.TempDir(), "prefs")

	p, err := preferences.NewPreferences(pth)
	test.DemandSuccess(t, err)

	test.DemandSuccess(t, p.Tape.OnEOF.Set("stop"))
	test.DemandSuccess(t, p.Tape.UnknownChunk.Set("skip"))
	test.DemandSuccess(t, p.Tape.StripSilence.Set(true))
	test.ExpectFailure(t, p.Tape.OnEOF.Set("rewind"))
	test.DemandSuccess(t, p.Save())

	q, err := preferences.NewPreferences(pth)
	test.DemandSuccess(t, err)
	cfg := q.Tape.Config()
	test.ExpectEquality(t, cfg.OnEOF, preferences.EOFStop)
	test.ExpectEquality(t, cfg.UnknownChunk, preferences.ChunkSkip)
	test.ExpectEquality(t, cfg.StripSilence, true)
	test.ExpectEquality(t, cfg.PhantomProtection, true)
}

func TestCommandLine(t *testing.T) {
	prefs.PushCommandLineStack("tape.oneof::stop; tape.phantomprotection::false")
	defer prefs.PopCommandLineStack()

	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)

	cfg := p.Tape.Config()
	test.ExpectEquality(t, cfg.OnEOF, preferences.EOFStop)
	test.ExpectEquality(t, cfg.PhantomProtection, false)
}
