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

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/environment"
	"github.com/rjpontefract/b-em-sub001/hardware/acia"
	"github.com/rjpontefract/b-em-sub001/logger"
	"github.com/rjpontefract/b-em-sub001/tape"
)

const logTag = "serial"

// Control register bits.
const (
	ControlTxRate = 0x07
	ControlRxRate = 0x38
	ControlRS423  = 0x40
	ControlMotor  = 0x80
)

// reading the control register has the same effect as writing this value
const readValue = 0xfe

// the dividers selected by the three bit rate fields of the control
// register
var dividers = [8]int32{1, 16, 4, 128, 2, 64, 8, 256}

// the receive clock divider is fixed when the cassette is selected
const (
	tapeRxDivider          = 64
	tapeRxDividerOverclock = 6
)

// Timing of the serial ULA measured in 2 MHz cycles or in DCD blips.
const (
	// one 1200th of a second
	Tone2MHz = 1664

	// the period of a DCD blip
	DCDBlip2MHz = 423

	// the number of DCD blips of continuous tone before DCD goes high
	DCDBlipsSlow = 1083
	DCDBlipsFast = 217
)

// ULA is the serial ULA.
type ULA struct {
	env  *environment.Environment
	acia *acia.ACIA
	tape *tape.Tape
	sink *FileSink

	transport TransportKind

	ctrl  uint8
	motor bool

	rxDivider int32
	txDivider int32

	// nanoseconds between ticks of the divided clocks. the transmit
	// threshold is for 2TXC
	rxThresh int32
	txThresh int32

	// nanoseconds since the last tick of the divided clocks
	rxNS int32
	txNS int32

	// 2 MHz cycles since the last DCD blip
	dcdCount int32

	// DCD blips of continuous tone
	blips int32

	// the carrier detect line derived from the tape
	dcdTape bool

	// 2 MHz cycles since the tape last moved on by a 1200th while RS423 is
	// selected
	taperoll int32
}

// NewULA is the preferred method of initialisation for the ULA type. The tape
// argument can be nil if no cassette interface is wanted. The tape is
// selected as the transport if it is not nil.
func NewULA(env *environment.Environment, a *acia.ACIA, t *tape.Tape) *ULA {
	u := &ULA{
		env:  env,
		acia: a,
		tape: t,
	}
	if t != nil {
		a.SetTransport(t)
		u.transport = TransportTape
	}
	u.Reset()
	return u
}

func (u *ULA) String() string {
	s := "tape"
	if u.ctrl&ControlRS423 == ControlRS423 {
		s = "rs423"
	}
	m := "off"
	if u.motor {
		m = "on"
	}
	return fmt.Sprintf("ctrl=%02x %s motor=%s rx=/%d tx=/%d dcd=%v transport=%s",
		u.ctrl, s, m, u.rxDivider, u.txDivider, u.dcdTape, u.transport)
}

// Reset the ULA. The control register is cleared which stops the motor and
// selects the cassette.
func (u *ULA) Reset() {
	u.ctrl = 0
	if u.motor {
		u.stopMotor()
	}
	if u.tape != nil {
		u.tape.ResetStartBitWait()
	}
	u.dcdTape = false
	u.recompute()
	u.pushLines()
}

// Control returns the value of the control register.
func (u *ULA) Control() uint8 {
	return u.ctrl
}

// Motor returns true if the cassette motor relay is closed.
func (u *ULA) Motor() bool {
	return u.motor
}

// RS423 returns true if the RS423 port is selected rather than the cassette.
func (u *ULA) RS423() bool {
	return u.ctrl&ControlRS423 == ControlRS423
}

// DCD returns the level of the carrier detect line derived from the tape.
func (u *ULA) DCD() bool {
	return u.dcdTape
}

// Dividers returns the current receive and transmit clock dividers.
func (u *ULA) Dividers() (rx int, tx int) {
	return int(u.rxDivider), int(u.txDivider)
}

// Write the control register.
func (u *ULA) Write(value uint8) {
	u.ctrl = value

	motor := value&ControlMotor == ControlMotor
	if motor && !u.motor {
		u.startMotor()
	} else if !motor && u.motor {
		u.stopMotor()
	}

	u.recompute()
	u.pushLines()
}

// Read the control register. The register is write only and reading it has
// the effect of writing &FE. The value returned is always zero.
func (u *ULA) Read() uint8 {
	u.Write(readValue)
	return 0
}

func (u *ULA) startMotor() {
	u.motor = true
	logger.Log(u.env, logTag, "cassette motor on")
	if u.tape != nil {
		u.tape.StartMotor()
		if u.tape.Config().StripSilence {
			u.acia.SetDCD(true)
		}
	}
}

func (u *ULA) stopMotor() {
	u.motor = false
	logger.Log(u.env, logTag, "cassette motor off")
	u.blips = 0
	if u.tape != nil {
		u.tape.StopMotor()
	}
}

// overclock returns true if the cassette receive clock is overclocked.
func (u *ULA) overclock() bool {
	if u.env == nil || u.env.Prefs == nil {
		return false
	}
	return u.env.Prefs.Serial.Overclock.Get().(bool)
}

// thresholds returns the dividers and the divided clock thresholds for the
// value of the control register.
func thresholds(ctrl uint8, overclock bool) (rxDiv, txDiv, rxThresh, txThresh int32) {
	switch {
	case ctrl&ControlRS423 == ControlRS423:
		rxDiv = dividers[(ctrl&ControlRxRate)>>3]
	case overclock:
		rxDiv = tapeRxDividerOverclock
	default:
		rxDiv = tapeRxDivider
	}
	txDiv = dividers[ctrl&ControlTxRate]

	rxThresh = (13 * rxDiv * 1000) / 16

	// the transmit clock ticks at twice the rate so that the ACIA can
	// produce a half bit TDRE delay
	txThresh = (13 * txDiv * 1000) / 32

	return rxDiv, txDiv, rxThresh, txThresh
}

func (u *ULA) recompute() {
	u.rxDivider, u.txDivider, u.rxThresh, u.txThresh = thresholds(u.ctrl, u.overclock())
}

// pushLines drives the CTS and DCD lines of the ACIA. With the cassette
// selected CTS is always active (low) and DCD follows the tape. With RS423
// selected DCD is always low and CTS is active only if a sink is attached.
func (u *ULA) pushLines() {
	var dcd, cts bool

	if u.ctrl&ControlRS423 == ControlRS423 {
		cts = u.transport != TransportFileSink
	} else {
		dcd = u.dcdTape
	}

	u.acia.SetDCD(dcd)
	u.acia.SetCTS(cts)
}

// Transport returns the current transport selection.
func (u *ULA) Transport() TransportKind {
	return u.transport
}

// SelectTransport attaches the tape, a file sink or nothing to the ACIA. The
// sink argument is only used for TransportFileSink. Any previously attached
// file sink is closed.
func (u *ULA) SelectTransport(kind TransportKind, sink *FileSink) error {
	switch kind {
	case TransportNone:
	case TransportTape:
		if u.tape == nil {
			return curated.Errorf(NoTape)
		}
	case TransportFileSink:
		if sink == nil {
			return curated.Errorf(NoSink)
		}
	default:
		return curated.Errorf(BadTransport, kind)
	}

	var err error
	if u.sink != nil && u.sink != sink {
		err = u.sink.Close()
		u.sink = nil
	}

	switch kind {
	case TransportNone:
		u.acia.SetTransport(nil)
	case TransportTape:
		u.acia.SetTransport(u.tape)
	case TransportFileSink:
		u.sink = sink
		u.acia.SetTransport(sink)
	}

	u.transport = kind
	logger.Logf(u.env, logTag, "transport: %s", kind)
	u.pushLines()

	return err
}

// Sink returns the attached file sink. Returns nil if the transport is not
// TransportFileSink.
func (u *ULA) Sink() *FileSink {
	return u.sink
}

// RateBits returns the value of the rate fields of the control register that
// selects the baud rate for both transmit and receive. The ACIA is assumed to
// be dividing its clocks by 16.
func RateBits(baud int) (uint8, error) {
	for i, d := range dividers {
		if baud*int(d) == 19200 {
			return uint8(i) | uint8(i)<<3, nil
		}
	}
	return 0, curated.Errorf(BadBaud, baud)
}
