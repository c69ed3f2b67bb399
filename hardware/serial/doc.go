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

// Package serial emulates the serial ULA of the BBC Micro. The ULA sits
// between the 6850 ACIA and the outside world. It selects between the
// cassette and the RS423 port, divides the 16/13 MHz clock for the ACIA's
// receive and transmit clocks, controls the cassette motor relay and derives
// the carrier detect line from the tone coming off the tape.
//
// The ULA is driven by Tick2MHz(), which should be called with the number of
// 2 MHz cycles that have passed. The 2 MHz resolution is needed so that the
// ACIA's half bit TDRE delay can be produced on the transmit side.
//
// What the ACIA is connected to is selected with SelectTransport(). For
// TransportTape the bytes written to the ACIA are recorded to the tape, when
// the tape is recording. For TransportFileSink the bytes are written to a
// file or a serial device as soon as they are written to the data register.
package serial
