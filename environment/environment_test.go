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

package environment_test

import (
	"path/filepath"
	"testing"

	"github.com/rjpontefract/b-em-sub001/environment"
	"github.com/rjpontefract/b-em-sub001/hardware/preferences"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/notifications"
	"github.com/rjpontefract/b-em-sub001/test"
)

func TestDerive(t *testing.T) {
	p, err := preferences.NewPreferences(filepath.Join(t.TempDir(), "prefs"))
	test.DemandSuccess(t, err)

	rec := &notifications.Recorder{}
	env, err := environment.NewEnvironment(environment.MainEmulation, p, rec)
	test.DemandSuccess(t, err)
	test.DemandImplements[logger.Permission](t, env)

	test.ExpectSuccess(t, env.IsMainEmulation())
	test.ExpectSuccess(t, env.AllowLogging())
	test.ExpectSuccess(t, env.Notify(notifications.NotifyTapeEjected, ""))
	test.ExpectEquality(t, rec.Count(notifications.NotifyTapeEjected), 1)

	cat := env.Derive("catalogue")
	test.ExpectFailure(t, cat.IsMainEmulation())
	test.ExpectFailure(t, cat.AllowLogging())
	test.ExpectSuccess(t, cat.Notify(notifications.NotifyTapeEjected, ""))
	test.ExpectEquality(t, rec.Count(notifications.NotifyTapeEjected), 1)
	test.ExpectEquality(t, cat.Prefs, env.Prefs)
}
