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

// Package acia emulates the 6850 asynchronous communications interface
// adapter as used by the BBC Micro for both the cassette and the RS423
// interfaces.
//
// The ACIA is advanced by the serial ULA. On every tick of the divided
// receive clock the ULA calls PollRxClock() and, if it fires, supplies the
// next bit with ReceiveBit() or ReceiveTone(). The transmit side is polled at
// twice the bit rate with PollTxClock(), and when a full bit period has
// passed RunTxShiftRegister() moves the next bit out of the shift register.
//
// Bytes written to the data register are also offered to the attached
// Transport. A transport that consumes bytes immediately, such as a file
// capture of the RS423 output, causes TDRE to be acknowledged at once without
// the shift register being used at all.
//
// The complete internal state can be saved and restored with Snapshot() and
// Restore(). Restore() rejects any record that could not have been produced
// by Snapshot().
package acia
