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

package tapeclock_test

import (
	"testing"

	"github.com/rjpontefract/b-em-sub001/tape/tapeclock"
	"github.com/rjpontefract/b-em-sub001/test"
)

func TestConstants(t *testing.T) {
	test.ExpectEquality(t, tapeclock.ToneNS, 832000)
	test.ExpectApproximate(t, tapeclock.Hz1200, 1201.92, 0.0001)
	test.ExpectSuccess(t, tapeclock.LegalTone('L'))
	test.ExpectFailure(t, tapeclock.LegalTone('X'))
}

func TestInterval(t *testing.T) {
	a := tapeclock.Interval{Start: 10, Duration: 5}
	var b tapeclock.Interval
	b.Follows(a)
	test.ExpectEquality(t, b.Start, int32(15))

	secs := 3725.0
	h, m, s := tapeclock.HoursMinutesSeconds(int32(secs * tapeclock.Hz1200))
	test.ExpectEquality(t, h, 1)
	test.ExpectEquality(t, m, 2)
	test.ExpectEquality(t, s, 4)
}
