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

// Package test contains helper functions that remove common boilerplate from
// the package tests.
//
// The Expect*() functions report a failed expectation with t.Errorf() and
// allow the test to continue. The Demand*() functions report with t.Fatalf()
// and are used when later parts of a test rely on the value being correct,
// for example the length of a decoded tone stream before it is iterated over.
//
// Success and failure are judged according to the type of the value. A bool
// is successful if it is true and an error is successful if it is nil. The
// untyped nil value is considered a success, because that is how an error
// return value with no error presents itself once it has been placed in an
// interface.
//
// The RingWriter and CappedWriter types implement io.Writer and are useful for
// capturing the tail or the head of log output respectively.
package test
