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

// Package curated provides the error type used throughout the tape and serial
// packages. Curated errors are created with Errorf() which, unlike the
// function of the same name in the fmt package, keeps hold of the pattern and
// its values rather than formatting them immediately.
//
// The pattern is the identity of the error. Each package declares its
// patterns as exported constants so that callers can test for them:
//
//	const Truncated = "csw: truncated: %v"
//
//	err := curated.Errorf(csw.Truncated, "header")
//	if curated.Is(err, csw.Truncated) {
//		...
//	}
//
// Is() only tests the outermost pattern. Has() searches the whole chain so a
// caller several layers up can still tell a pulse-format truncation from a
// chunked-format truncation:
//
//	err = curated.Errorf(tape.LoadError, err)
//	curated.Has(err, csw.Truncated) // true
//
// Error() normalises the message by removing a duplicated leading part, so
// that wrapping an error in a pattern that begins with the same prefix does
// not produce messages such as "tape: tape: no tape loaded".
//
// Curated errors also implement Unwrap() so they cooperate with errors.Is()
// and errors.As() from the standard library.
package curated
