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

// Package statsview is an optional package that is only built when the
// statsview build tag is present. It runs a local HTTP server that shows
// runtime statistics of the command line tool, which is useful when
// converting very long tapes.
//
// Underlying functionality is provided by "github.com/go-echarts/statsview".
// After launch the statistics are viewable at the default address of:
//
//	localhost:12600/debug/statsview
//
// Without the build tag, Available() returns false and Launch() only reports
// that the viewer is missing.
package statsview
