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

import "github.com/rjpontefract/b-em-sub001/prefs"

// SerialPreferences are the preference values that control the serial ULA.
type SerialPreferences struct {
	// run the tape receive clock faster than real hardware
	Overclock prefs.Bool

	// speed of the serial device used as an RS423 sink
	DeviceBaud prefs.Int
}

func (p *SerialPreferences) add(dsk *prefs.Disk) error {
	if err := dsk.Add("serial.overclock", &p.Overclock); err != nil {
		return err
	}
	return dsk.Add("serial.devicebaud", &p.DeviceBaud)
}

// SetDefaults reverts all serial settings to default values.
func (p *SerialPreferences) SetDefaults() {
	p.Overclock.Set(false)
	p.DeviceBaud.Set(9600)
}
