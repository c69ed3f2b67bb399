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

package logger_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/test"
)

func TestTail(t *testing.T) {
	log := logger.NewLogger(100)
	w := &strings.Builder{}

	log.Write(w)
	test.ExpectEquality(t, w.String(), "")

	log.Log(logger.Allow, "uef", "chunk &100 is empty")
	log.Log(logger.Allow, "csw", "very short silence")

	w.Reset()
	log.Tail(w, 100)
	test.ExpectEquality(t, w.String(), "uef: chunk &100 is empty\ncsw: very short silence\n")

	w.Reset()
	log.Tail(w, 1)
	test.ExpectEquality(t, w.String(), "csw: very short silence\n")

	w.Reset()
	log.Tail(w, 0)
	test.ExpectEquality(t, w.String(), "")
}

func TestRepeatAndBound(t *testing.T) {
	log := logger.NewLogger(2)
	w := &strings.Builder{}

	log.Log(logger.Allow, "acia", "receive buffer full")
	log.Log(logger.Allow, "acia", "receive buffer full")
	log.Write(w)
	test.ExpectEquality(t, w.String(), "acia: receive buffer full (repeat x2)\n")

	log.Log(logger.Allow, "a", "1")
	log.Log(logger.Allow, "b", "2")
	w.Reset()
	log.Write(w)
	test.ExpectEquality(t, w.String(), "a: 1\nb: 2\n")
}

func TestPermissionAndTypes(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(logger.Deny, "tape", "not logged")
	log.Log(logger.Allow, "tape", errors.New("an error"))
	log.Logf(logger.Allow, "tape", "wrapped: %v", errors.New("inner"))
	log.Log(logger.Allow, "tape", 100)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "tape: an error\ntape: wrapped: inner\ntape: 100\n")
}

func TestWriteRecent(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(logger.Allow, "t", "one")
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "t: one\n")

	w.Reset()
	log.Log(logger.Allow, "t", "two")
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "t: two\n")

	w.Reset()
	log.WriteRecent(w)
	test.ExpectEquality(t, w.String(), "")
}

func TestColorizer(t *testing.T) {
	w := &strings.Builder{}
	c := logger.NewColorizer(w)
	c.Write([]byte("acia: BUG: bad state\ntape: ok\n"))
	test.ExpectEquality(t, w.String(), "\033[1;31macia: BUG: bad state\033[0m\ntape: ok\n")
}

func TestNilPermission(t *testing.T) {
	log := logger.NewLogger(10)
	w := &strings.Builder{}

	log.Log(nil, "wav", "not logged")
	log.Logf(nil, "wav", "not logged either (%d)", 1)
	log.Write(w)
	test.ExpectEquality(t, w.String(), "")
}
