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

package tibet

import (
	"bytes"
	"fmt"

	"github.com/rjpontefract/b-em-sub001/curated"
)

// MaxOutputLength is the largest TIBET file that Build() will create.
const MaxOutputLength = 100 * 1024 * 1024

// Build creates the text of a TIBET file.
func (t *TIBET) Build() ([]byte, error) {
	major, minor := uint32(VersionMajorSupported), uint32(VersionMinorSupported)
	if t.haveVersion {
		major, minor = t.Major, t.Minor
	}

	var b bytes.Buffer
	fmt.Fprintf(&b, "%s %d.%d\n\n", kTibet, major, minor)

	for i := range t.spans {
		s := &t.spans[i]

		switch s.Type {
		case SpanLeader:
			writeHints(&b, s.Hints)
			fmt.Fprintf(&b, "%s %d\n\n", kLeader, s.Leader)

		case SpanSilent:
			writeHints(&b, s.Hints)
			fmt.Fprintf(&b, "%s %f\n\n", kSilence, s.Silence)

		case SpanData:
			writeHints(&b, s.Hints)
			if s.Squawk {
				fmt.Fprintf(&b, "%s\n", kSquawk)
			} else {
				fmt.Fprintf(&b, "%s\n", kData)
			}

			// two tone characters per bit
			wrap := s.Hints.PacketLength() * 2
			for n, c := range s.Tones {
				b.WriteByte(c)
				if n%wrap == wrap-1 && n < len(s.Tones)-1 {
					b.WriteByte('\n')
				}
			}

			fmt.Fprintf(&b, "\n%s\n\n", kEnd)

		default:
			return nil, curated.Errorf(BadSpanType, s.ID)
		}

		if b.Len() >= MaxOutputLength {
			return nil, curated.Errorf(OutputTooLong)
		}
	}

	return b.Bytes(), nil
}

func writeHints(b *bytes.Buffer, h Hints) {
	if h.HaveBaud {
		fmt.Fprintf(b, "%s %d\n", kBaud, h.Baud)
	}
	if h.HaveFraming {
		fmt.Fprintf(b, "%s %s\n", kFraming, h.Framing)
	}
	if h.HaveSpeed {
		fmt.Fprintf(b, "%s %f\n", kSpeed, h.Speed)
	}
	if h.HaveTime {
		fmt.Fprintf(b, "%s %f\n", kTime, h.Time)
	}
	if h.HavePhase {
		fmt.Fprintf(b, "%s %d\n", kPhase, h.Phase)
	}
}
