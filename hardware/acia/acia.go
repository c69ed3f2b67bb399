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

package acia

import (
	"fmt"

	"github.com/rjpontefract/b-em-sub001/curated"
	"github.com/rjpontefract/b-em-sub001/environment"
	"github.com/rjpontefract/b-em-sub001/logger"
)

// Register indexes. Only the lowest bit of an address is decoded.
const (
	StatusRegister  = 0
	ControlRegister = 0
	DataRegister    = 1
)

// Status register bits.
const (
	StatusRDRF = 0x01
	StatusTDRE = 0x02
	StatusDCD  = 0x04
	StatusCTS  = 0x08
	StatusFE   = 0x10
	StatusOVRN = 0x20
	StatusPE   = 0x40
	StatusIRQ  = 0x80
)

// Control register bits.
const (
	ControlDivider     = 0x03
	ControlMasterReset = 0x03
	ControlWordSelect  = 0x1c
	ControlOddParity   = 0x04
	ControlParity8     = 0x08
	ControlEightBits   = 0x10
	ControlTx          = 0x60
	ControlRTSAndTIE   = 0x20
	ControlNoRTS       = 0x40
	ControlRIE         = 0x80
)

// IRQLine is the interrupt line of the CPU.
type IRQLine interface {
	SetIRQ(assert bool)
}

// Transport is whatever is attached to the transmit side of the ACIA.
type Transport interface {
	// TransmitByte is called whenever the data register is written.
	TransmitByte(b uint8) error

	// ImmediateConsume returns true if bytes given to TransmitByte() are
	// consumed at once. TDRE is then acknowledged without the shift
	// register being used.
	ImmediateConsume() bool

	// MasterReset is called after the ACIA has been reset by a write to
	// the control register. A partial frame can be flushed here.
	MasterReset() error

	// TransmitEnd is called when transmission has finished for the
	// foreseeable future.
	TransmitEnd() error
}

// ACIA is the 6850 chip.
type ACIA struct {
	env  *environment.Environment
	name string
	irq  IRQLine

	transport Transport

	control uint8

	// the status register and the value of the register as it is seen by
	// the CPU
	status     uint8
	statusRead uint8

	// external line levels
	lineCTS bool
	lineDCD bool

	rxData uint8
	txData uint8

	rx receiver
	tx transmitter

	// clock division counters
	rxcCount int32
	txcCount int32

	irqAsserted bool

	// the "receive buffer full" message is printed only once for each
	// overrun
	fullWarned bool

	// fault injection. each is consumed by the next register read
	injectFraming bool
	injectParity  bool
	injectCorrupt bool
}

// NewACIA is the preferred method of initialisation for the ACIA type. The
// irq argument can be nil.
func NewACIA(env *environment.Environment, name string, irq IRQLine) *ACIA {
	a := &ACIA{
		env:  env,
		name: name,
		irq:  irq,
	}
	a.Init()
	return a
}

func (a *ACIA) String() string {
	return fmt.Sprintf("%s: ctrl=%02x status=%02x rx=%v tx=%v", a.name, a.control, a.statusRead, a.rx.state, a.tx)
}

// Init is the power-on reset. The transport is retained.
func (a *ACIA) Init() {
	a.control = 0
	a.status = 0
	a.statusRead = 0
	a.lineCTS = false
	a.lineDCD = false
	a.rxData = 0
	a.txData = 0
	a.rx = receiver{state: RxNeedStart}
	a.tx = transmitter{}
	a.rxcCount = 0
	a.txcCount = 0
	a.fullWarned = false
	a.injectFraming = false
	a.injectParity = false
	a.injectCorrupt = false
	a.reset()
}

// SetTransport attaches a transport. A nil transport detaches the current
// one.
func (a *ACIA) SetTransport(t Transport) {
	a.transport = t
}

// Transport returns the attached transport. Can be nil.
func (a *ACIA) Transport() Transport {
	return a.transport
}

// EndTransmission tells the transport that transmission has finished.
func (a *ACIA) EndTransmission() error {
	if a.transport == nil {
		return nil
	}
	return a.transport.TransmitEnd()
}

// Control returns the value of the control register.
func (a *ACIA) Control() uint8 {
	return a.control
}

// Framing returns the framing selected by the control register.
func (a *ACIA) Framing() Framing {
	return FramingFor(a.control)
}

// Status returns the status register as the CPU would see it, without the
// side effects of a register read.
func (a *ACIA) Status() uint8 {
	return a.statusRead
}

// Read the register at the address. Only the lowest bit of the address is
// used.
func (a *ACIA) Read(addr uint16) uint8 {
	if addr&0x01 == StatusRegister {
		// forced bits are seen by one status read only
		var forced uint8
		if a.injectFraming {
			a.injectFraming = false
			forced |= StatusFE
		}
		if a.injectParity {
			a.injectParity = false
			forced |= StatusPE
		}
		return a.statusRead | forced
	}

	if a.injectCorrupt {
		a.injectCorrupt = false
		a.rxData = ^a.rxData
	}

	a.status &^= StatusDCD | StatusOVRN

	if a.rx.overflow {
		// the overrun only appears once the byte before the overrun has
		// been read. RDRF stays set
		a.rx.overflow = false
		a.status |= StatusOVRN
	} else {
		a.status &^= StatusRDRF
	}

	a.update()
	return a.rxData
}

// Write the value to the register at the address. Only the lowest bit of the
// address is used. An error is only returned by the transport after a master
// reset.
func (a *ACIA) Write(addr uint16, value uint8) error {
	if addr&0x01 == ControlRegister {
		if value&ControlDivider == ControlMasterReset {
			// the data sheet says that master reset does not affect the
			// other control bits but clearing the register is what gets
			// some tapes to load
			a.reset()
			a.update()
			if a.transport != nil {
				if err := a.transport.MasterReset(); err != nil {
					return curated.Errorf(ResetFlush, err)
				}
			}
			return nil
		}
		a.control = value
		a.update()
		return nil
	}

	if a.tx.dataLoaded {
		logger.Logf(a.env, "acia", "%s: data register already loaded (old %02x, new %02x)", a.name, a.txData, value)
	}

	a.txData = value
	a.tx.dataLoaded = true
	a.status &^= StatusTDRE

	if a.transport != nil {
		if err := a.transport.TransmitByte(value); err != nil {
			logger.Logf(a.env, "acia", "%s: transport: %v", a.name, err)
		}

		if a.transport.ImmediateConsume() {
			a.ConsumeTxByte()
		}
	}

	a.update()
	return nil
}

// ConsumeTxByte empties the data register and acknowledges TDRE immediately.
// The shift register is emptied too.
func (a *ACIA) ConsumeTxByte() {
	a.tx.dataLoaded = false
	a.tx.loaded = false
	a.tx.shift = 0
	a.status |= StatusTDRE
	a.update()
}

// SetDCD sets the level of the DCD line. A rising edge latches the DCD status
// bit. A falling edge leaves the latch alone.
func (a *ACIA) SetDCD(dcd bool) {
	if dcd && !a.lineDCD {
		a.status |= StatusDCD
		a.update()
	}
	a.lineDCD = dcd
}

// SetCTS sets the level of the CTS line. CTS going low also takes DCD low
// because of the way the serial ULA is wired.
func (a *ACIA) SetCTS(cts bool) {
	a.status &^= StatusCTS
	if cts {
		a.status |= StatusCTS
	}
	a.lineCTS = cts
	if !cts {
		a.SetDCD(false)
	}
	a.update()
}

// RTS returns the level of the RTS output.
func (a *ACIA) RTS() bool {
	if a.control&ControlTx == ControlNoRTS {
		return false
	}
	return a.status&StatusRDRF != StatusRDRF
}

// IRQ returns true if the ACIA is asserting the interrupt line.
func (a *ACIA) IRQ() bool {
	return a.irqAsserted
}

// InjectFramingError forces the framing error bit on the next status read.
func (a *ACIA) InjectFramingError() {
	a.injectFraming = true
}

// InjectParityError forces the parity error bit on the next status read.
func (a *ACIA) InjectParityError() {
	a.injectParity = true
}

// InjectCorruptData inverts the byte returned by the next data register read.
func (a *ACIA) InjectCorruptData() {
	a.injectCorrupt = true
}

func (a *ACIA) reset() {
	cts := a.status&StatusCTS == StatusCTS

	a.rxData = 0
	a.txData = 0
	a.rx.clear()
	a.rx.state = RxNeedStart
	a.rx.overflow = false
	a.rxcCount = 0

	// TDRE is set and everything else is cleared
	a.status = StatusTDRE
	a.control = 0

	// a reset cannot change the external line levels so the status bits they
	// drive are restored
	a.SetDCD(a.lineDCD)
	a.SetCTS(cts)

	a.ResetTxShiftRegister()
	a.tx.dataLoaded = false
}

// update derives the IRQ state and the status register as seen by the CPU.
// called after every change of state.
func (a *ACIA) update() {
	var send, receive bool

	if a.control&ControlTx == ControlRTSAndTIE {
		// CTS high inhibits the transmit interrupt
		send = a.status&StatusTDRE == StatusTDRE && a.status&StatusCTS != StatusCTS
	}

	if a.control&ControlRIE == ControlRIE {
		receive = a.status&(StatusRDRF|StatusDCD|StatusOVRN) != 0x00
	}

	irq := send || receive

	a.status &^= StatusIRQ
	if irq {
		a.status |= StatusIRQ
	}

	if irq != a.irqAsserted {
		a.irqAsserted = irq
		if a.irq != nil {
			a.irq.SetIRQ(irq)
		}
	}

	a.statusRead = a.status

	// in the high state CTS inhibits TDRE
	if a.status&StatusCTS == StatusCTS {
		a.statusRead &^= StatusTDRE
	}

	// when the latch is clear the DCD bit follows the line. how this should
	// interact with CTS is uncertain so the existing behaviour is kept
	if a.lineDCD && !a.lineCTS {
		a.statusRead |= StatusDCD
	}
}
