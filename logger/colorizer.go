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

package logger

import (
	"io"
	"strings"
)

const (
	penWarning = "\033[33m"
	penBug     = "\033[1;31m"
	penNormal  = "\033[0m"
)

// Colorizer applies basic coloring rules to logging output. Entries that
// report a BUG are printed in bold red and entries that mention a warning in
// yellow.
type Colorizer struct {
	out io.Writer
}

// NewColorizer is the preferred method of initialisation for the Colorizer
// type.
func NewColorizer(out io.Writer) Colorizer {
	return Colorizer{out: out}
}

// Write implements the io.Writer interface.
func (c Colorizer) Write(p []byte) (int, error) {
	var n int

	for _, s := range strings.SplitAfter(string(p), "\n") {
		if s == "" {
			continue
		}

		pen := ""
		switch {
		case strings.Contains(s, "BUG"):
			pen = penBug
		case strings.Contains(strings.ToLower(s), "warning"):
			pen = penWarning
		}

		if pen != "" {
			s = pen + strings.TrimSuffix(s, "\n") + penNormal + "\n"
		}

		m, err := io.WriteString(c.out, s)
		n += m
		if err != nil {
			return n, err
		}
	}

	return len(p), nil
}
