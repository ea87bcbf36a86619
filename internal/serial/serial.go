// Package serial implements the Game Boy link-cable port: the
// SB/SC registers, the internal-clock bit-shift timing that produces a
// serial interrupt after eight bits, and a pluggable Device the other
// end of the cable talks to (§4.8).
package serial

import (
	"gbxcore/internal/interrupts"
	"gbxcore/internal/scheduler"
)

const (
	SB uint16 = 0xFF01
	SC uint16 = 0xFF02
)

// bitShiftCycles is the master-clock period of one internal-clock bit
// shift: the 8192 Hz serial clock is the DIV register's bit 8.
const bitShiftCycles = 512

// Device is the far end of the link cable. Receive delivers the bit
// shifted out by the local controller; Send supplies the bit the
// far end is shifting out on the same edge.
type Device interface {
	Receive(bit bool)
	Send() bool
}

// openDevice is the Device used when nothing is attached: it shifts in
// all high bits, matching an unconnected link port.
type openDevice struct{}

func (openDevice) Receive(bool) {}
func (openDevice) Send() bool   { return true }

// Controller is the serial port. Bit 0 of SC selects between driving the
// shift clock internally (this Game Boy is the master) and watching an
// externally-driven clock line (this Game Boy is the slave); only the
// internal-clock path produces scheduled bit shifts, since an external
// clock line isn't observable without a second emulated machine.
type Controller struct {
	irq    *interrupts.Controller
	s      *scheduler.Scheduler
	device Device

	data     uint8
	control  uint8 // bit 0: clock source, bit 7: transfer start
	bitsLeft uint8
}

// NewController returns a serial port with no device attached.
func NewController(irq *interrupts.Controller, s *scheduler.Scheduler) *Controller {
	c := &Controller{irq: irq, s: s, device: openDevice{}, control: 0x7E}
	s.RegisterEvent(scheduler.SerialBitShift, c.shiftBit)
	return c
}

// Attach connects d as the far end of the link cable. Passing nil
// reverts to the open (disconnected) device.
func (c *Controller) Attach(d Device) {
	if d == nil {
		d = openDevice{}
	}
	c.device = d
}

func (c *Controller) Read(addr uint16) uint8 {
	switch addr {
	case SB:
		return c.data
	case SC:
		return c.control
	}
	return 0xFF
}

func (c *Controller) Write(addr uint16, value uint8) {
	switch addr {
	case SB:
		c.data = value
	case SC:
		c.control = value | 0b0111_1110
		if c.control&0x81 == 0x81 { // transfer start + internal clock
			c.bitsLeft = 8
			c.s.ScheduleEvent(scheduler.SerialBitShift, bitShiftCycles)
		}
	}
}

func (c *Controller) shiftBit() {
	outBit := c.data&0x80 != 0
	inBit := c.device.Send()
	c.device.Receive(outBit)

	c.data = (c.data << 1) | b2u8(inBit)
	c.bitsLeft--

	if c.bitsLeft == 0 {
		c.control &^= 0x80
		c.irq.Request(interrupts.SerialFlag)
		return
	}
	c.s.ScheduleEvent(scheduler.SerialBitShift, bitShiftCycles)
}

func b2u8(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}
