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

package serial

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/term"
	"github.com/rjpontefract/b-em-sub001/curated"
)

// TransportKind is the selection of what is attached to the transmit side
// of the ACIA.
type TransportKind int

// List of valid TransportKind values.
const (
	TransportNone TransportKind = iota
	TransportTape
	TransportFileSink
)

func (k TransportKind) String() string {
	switch k {
	case TransportNone:
		return "none"
	case TransportTape:
		return "tape"
	case TransportFileSink:
		return "file sink"
	}
	return "unknown"
}

// FileSink writes every byte given to the ACIA's data register to an
// io.WriteCloser. Bytes are consumed immediately so the ACIA never waits for
// its shift register.
type FileSink struct {
	name    string
	w       io.WriteCloser
	written int
}

// NewFileSink is the preferred method of initialisation for the FileSink
// type. The name is used in log entries only.
func NewFileSink(name string, w io.WriteCloser) *FileSink {
	return &FileSink{name: name, w: w}
}

// CreateFileSink creates (or truncates) the named file and returns a sink
// that writes to it.
func CreateFileSink(path string) (*FileSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, curated.Errorf(SinkWrite, err)
	}
	return NewFileSink(path, f), nil
}

// OpenDevice opens a serial device in raw mode at the baud rate and returns a
// sink that writes to it.
func OpenDevice(path string, baud int) (*FileSink, error) {
	t, err := term.Open(path, term.Speed(baud), term.RawMode)
	if err != nil {
		return nil, curated.Errorf(DeviceOpen, err)
	}
	return NewFileSink(fmt.Sprintf("%s@%d", path, baud), t), nil
}

func (s *FileSink) String() string {
	return fmt.Sprintf("%s (%d bytes)", s.name, s.written)
}

// Written returns the number of bytes written to the sink.
func (s *FileSink) Written() int {
	return s.written
}

// Close the underlying writer.
func (s *FileSink) Close() error {
	if err := s.w.Close(); err != nil {
		return curated.Errorf(SinkWrite, err)
	}
	return nil
}

// TransmitByte implements the acia.Transport interface.
func (s *FileSink) TransmitByte(b uint8) error {
	n, err := s.w.Write([]byte{b})
	s.written += n
	if err != nil {
		return curated.Errorf(SinkWrite, err)
	}
	return nil
}

// ImmediateConsume implements the acia.Transport interface.
func (s *FileSink) ImmediateConsume() bool {
	return true
}

// MasterReset implements the acia.Transport interface.
func (s *FileSink) MasterReset() error {
	return nil
}

// TransmitEnd implements the acia.Transport interface.
func (s *FileSink) TransmitEnd() error {
	return nil
}
