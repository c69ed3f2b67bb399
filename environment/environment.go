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

package environment

import (
	"github.com/rjpontefract/b-em-sub001/hardware/preferences"
	"github.com/rjpontefract/b-em-sub001/notifications"
)

// Label is used to name the environment.
type Label string

// MainEmulation is the label used for the environment of the live hardware.
const MainEmulation = Label("")

// Environment is used to provide context for the hardware. Particularly
// useful when a second copy of the hardware, such as a cloned tape used to
// build a catalogue, runs alongside the live copy.
type Environment struct {
	Label Label

	// the hardware preferences
	Prefs *preferences.Preferences

	// notifications are sent to the host through this interface. never nil
	Notifications notifications.Notify

	// whether log entries are made by the hardware using this environment
	Logging bool
}

// NewEnvironment is the preferred method of initialisation for the
// Environment type.
//
// The prefs argument can be nil, in which case a new Preferences instance is
// created from the default preferences file. The notify argument can also be
// nil, in which case notifications are discarded.
func NewEnvironment(label Label, prefs *preferences.Preferences, notify notifications.Notify) (*Environment, error) {
	env := &Environment{
		Label:         label,
		Notifications: notify,
		Logging:       true,
	}

	if env.Notifications == nil {
		env.Notifications = notifications.Discard
	}

	var err error

	if prefs == nil {
		prefs, err = preferences.NewPreferences("")
		if err != nil {
			return nil, err
		}
	}

	env.Prefs = prefs

	return env, nil
}

// Derive creates a new environment that shares preferences with the parent.
// The derived environment does not log and discards notifications.
func (env *Environment) Derive(label Label) *Environment {
	return &Environment{
		Label:         label,
		Prefs:         env.Prefs,
		Notifications: notifications.Discard,
	}
}

// Normalise ensures the environment is in a known default state. Useful for
// testing where the initial state must be the same for every run.
func (env *Environment) Normalise() {
	env.Prefs.SetDefaults()
}

// IsMainEmulation returns true if the environment is intended for the live
// hardware.
func (env *Environment) IsMainEmulation() bool {
	return env.Label == MainEmulation
}

// IsEmulation checks the environment label and returns true if it matches.
func (env *Environment) IsEmulation(label Label) bool {
	return env.Label == label
}

// AllowLogging implements the logger.Permission interface.
func (env *Environment) AllowLogging() bool {
	return env != nil && env.Logging
}

// Notify sends a notice to the host, logging any error it returns.
func (env *Environment) Notify(notice notifications.Notice, detail string) error {
	if env == nil || env.Notifications == nil {
		return nil
	}
	return env.Notifications.Notify(notice, detail)
}
