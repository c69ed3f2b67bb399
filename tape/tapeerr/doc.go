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

// Package tapeerr classifies the errors returned by the tape codecs, the tape
// orchestration and the ACIA into a small set of kinds.
//
// Each package declares its own curated error patterns. Patterns that belong
// to a kind are registered with Register() when the package is initialised.
// KindOf() searches an error chain, outermost first, for the first registered
// pattern and returns its kind. This means that wrapping an error in a new
// pattern does not hide its kind, while a caller can still find the exact
// pattern with curated.Has().
package tapeerr
