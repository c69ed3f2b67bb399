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

package tapeerr_test

import (
	"errors"
	"testing"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/tape/tapeerr"
	"github.com/rjpontefract/b-em-sub001/test"
)

const (
	truncated = "test: truncated: %v"
	wrapper   = "test: load: %v"
)

var _ = tapeerr.Register(tapeerr.Truncated, truncated)

func TestKindOf(t *testing.T) {
	test.ExpectEquality(t, tapeerr.KindOf(nil), tapeerr.OK)
	test.ExpectEquality(t, tapeerr.KindOf(errors.New("plain")), tapeerr.Unclassified)

	err := curated.Errorf(truncated, "header")
	test.ExpectEquality(t, tapeerr.KindOf(err), tapeerr.Truncated)

	// wrapping does not hide the kind
	err = curated.Errorf(wrapper, err)
	test.ExpectEquality(t, tapeerr.KindOf(err), tapeerr.Truncated)
	test.ExpectSuccess(t, tapeerr.KindOf(err).Fatal())

	err = curated.Errorf(wrapper, curated.Errorf(tapeerr.EndOfTape))
	test.ExpectSuccess(t, tapeerr.IsEOF(err))
	test.ExpectFailure(t, tapeerr.KindOf(err).Fatal())
}
