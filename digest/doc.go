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

// Package digest computes a SHA-1 digest of the tones on a tape. Two tapes
// with the same digest play identically, whatever format they are held in.
//
// The digest is chained. Tones are collected in a buffer whose first bytes
// are the previous digest, and the digest is recomputed each time the buffer
// fills.
package digest
