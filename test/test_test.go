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

package test_test

import (
	"errors"
	"testing"

	"github.com/rjpontefract/b-em-sub001/test"
)

func TestExpectations(t *testing.T) {
	test.ExpectFailure(t, false)
	test.ExpectFailure(t, errors.New("test"))

	var err error
	test.ExpectSuccess(t, true)
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, nil)

	test.ExpectEquality(t, 10, 5+5)
	test.ExpectEquality(t, byte('S'), 'S')
	test.ExpectInequality(t, 11, 5+5)
	test.ExpectApproximate(t, 1201.92, 1200.0, 0.01)
}

func TestRingWriter(t *testing.T) {
	r, err := test.NewRingWriter(10)
	test.DemandSuccess(t, err)
	test.ExpectEquality(t, r.String(), "")

	r.Write([]byte("abcde"))
	test.ExpectEquality(t, r.String(), "abcde")
	r.Write([]byte("fghij"))
	test.ExpectEquality(t, r.String(), "abcdefghij")
	r.Write([]byte("kl"))
	test.ExpectEquality(t, r.String(), "cdefghijkl")
	r.Write([]byte("1234567890ABC"))
	test.ExpectEquality(t, r.String(), "4567890ABC")

	r.Reset()
	test.ExpectEquality(t, r.String(), "")
	r.Write([]byte("xyz"))
	test.ExpectEquality(t, r.String(), "xyz")

	_, err = test.NewRingWriter(0)
	test.ExpectFailure(t, err)
}

func TestCappedWriter(t *testing.T) {
	c, err := test.NewCappedWriter(4)
	test.DemandSuccess(t, err)

	n, _ := c.Write([]byte("ab"))
	test.ExpectEquality(t, n, 2)
	n, _ = c.Write([]byte("cdef"))
	test.ExpectEquality(t, n, 2)
	n, _ = c.Write([]byte("g"))
	test.ExpectEquality(t, n, 0)
	test.ExpectEquality(t, c.String(), "abcd")
}
