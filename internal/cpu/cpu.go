// Package cpu implements the Sharp LR35902 instruction interpreter:
// the full unprefixed and CB-prefixed opcode tables, the halt bug, the
// CGB double-speed switch, and the interrupt dispatch sequence (§4.3,
// §4.4).
package cpu

import (
	"gbxcore/internal/interrupts"
	"gbxcore/internal/scheduler"
)

// CPU is one Sharp LR35902 core plus the scheduler and interrupt
// controller it drives memory accesses and interrupt service through.
type CPU struct {
	Registers

	bus   Bus
	s     *scheduler.Scheduler
	irq   *interrupts.Controller
	model Model

	halted  bool
	stopped bool
	haltBug bool

	doubleSpeed      bool
	speedSwitchArmed bool
}

// New returns a CPU wired to bus, s and irq, reset to the given
// model's post-boot-ROM register state.
func New(bus Bus, s *scheduler.Scheduler, irq *interrupts.Controller, model Model) *CPU {
	c := &CPU{bus: bus, s: s, irq: irq, model: model}
	// SpeedSwitchDone only marks the end of a speed switch; firing it
	// has no further effect.
	s.RegisterEvent(scheduler.SpeedSwitchDone, func() {})
	c.wire()
	c.reset()
	return c
}

// reset sets the register file to the state left behind when the boot
// ROM hands off execution at 0x0100 (§4.1); a real boot ROM run through
// boot.ROM overwrites these before the cartridge takes over, so this is
// only observed when booting without one.
func (c *CPU) reset() {
	c.PC = 0x0100
	c.SP = 0xFFFE
	c.A = 0x01
	c.setFlags(true, false, true, true)
	c.B, c.C = 0x00, 0x13
	c.D, c.E = 0x00, 0xD8
	c.H, c.L = 0x01, 0x4D
	if c.model.IsCGB() {
		c.A = 0x11
		c.B = 0x00
	}
}

// Model reports the hardware revision this core is emulating.
func (c *CPU) Model() Model { return c.model }

// DoubleSpeed reports whether the core is currently clocked at 2x,
// consulted by the bus when composing the KEY1 register readback.
func (c *CPU) DoubleSpeed() bool { return c.doubleSpeed }

// WriteKEY1 handles a write to the KEY1 (0xFF4D) register: only bit 0,
// the speed-switch arm flag, is writable.
func (c *CPU) WriteKEY1(value uint8) {
	c.speedSwitchArmed = value&0x01 != 0
}

// ReadKEY1 composes the KEY1 register readback: bit 7 reflects the
// current speed, bit 0 reflects whether a switch is armed.
func (c *CPU) ReadKEY1() uint8 {
	v := uint8(0x7E)
	if c.doubleSpeed {
		v |= 0x80
	}
	if c.speedSwitchArmed {
		v |= 0x01
	}
	return v
}

// tick charges the scheduler for one memory access: 4 master-clock
// cycles at normal speed, 2 at double speed, since the CGB's
// double-speed mode halves the cycles a CPU access costs relative to
// the fixed-rate peripherals it shares the master clock with.
func (c *CPU) tick() {
	c.irq.BeginCycle()
	if c.doubleSpeed {
		c.s.Tick(2)
	} else {
		c.s.Tick(4)
	}
}

func (c *CPU) clockedRead(addr uint16) uint8 {
	v := c.bus.Read(addr)
	c.tick()
	return v
}

func (c *CPU) clockedWrite(addr uint16, v uint8) {
	c.bus.Write(addr, v)
	c.tick()
}

// peek reads without charging a cycle, used only for diagnostics and
// opcode prefetch bookkeeping that doesn't correspond to a real bus
// transaction.
func (c *CPU) peek(addr uint16) uint8 {
	return c.bus.Read(addr)
}

func (c *CPU) fetchByte() uint8 {
	v := c.clockedRead(c.PC)
	c.PC++
	return v
}

func (c *CPU) fetchWord() uint16 {
	lo := c.fetchByte()
	hi := c.fetchByte()
	return uint16(hi)<<8 | uint16(lo)
}

func (c *CPU) push(hi, lo uint8) {
	c.SP--
	c.clockedWrite(c.SP, hi)
	c.SP--
	c.clockedWrite(c.SP, lo)
}

func (c *CPU) pop() (hi, lo uint8) {
	lo = c.clockedRead(c.SP)
	c.SP++
	hi = c.clockedRead(c.SP)
	c.SP++
	return
}

// Step executes exactly one instruction, or services a pending
// interrupt, or advances the clock to the next scheduled event while
// halted with nothing to wake it.
func (c *CPU) Step() {
	c.irq.StepIMEDelay()

	if c.halted || c.stopped {
		if c.irq.HasPending() {
			c.halted = false
			c.stopped = false
		} else {
			c.s.Skip()
			return
		}
	}

	if c.irq.IME && c.irq.HasPending() {
		c.serviceInterrupt()
		return
	}

	opcode := c.fetchByte()
	if c.haltBug {
		c.haltBug = false
		c.PC--
	}
	c.decode(opcode)
}

// serviceInterrupt runs the fixed 5 M-cycle dispatch sequence: two
// internal delay cycles, a two-cycle push of PC, and one cycle to load
// the vector (§4.3).
func (c *CPU) serviceInterrupt() {
	c.tick()
	c.tick()
	addr, _, ok := c.irq.NextVector()
	if !ok {
		return
	}
	c.irq.IME = false
	c.push(uint8(c.PC>>8), uint8(c.PC))
	c.PC = addr
	c.tick()
}

// enterHalt puts the core to sleep until an interrupt is pending. On
// every model, executing HALT while IME is clear and an interrupt
// is already pending triggers the halt bug instead of actually
// halting: the byte following HALT is fetched twice (§4.4).
func (c *CPU) enterHalt() {
	if !c.irq.IME && c.irq.HasPending() {
		c.haltBug = true
		return
	}
	c.halted = true
}

// enterStop performs STOP's two distinct effects: on CGB hardware with
// the speed switch armed, it flips CPU speed instead of actually
// stopping (§4.4) and leaves the internal divider running; otherwise it
// stops the core until any enabled interrupt is pending (see Step). The
// LCD is not touched by STOP on any model.
func (c *CPU) enterStop() {
	if c.model.IsCGB() && c.speedSwitchArmed {
		c.doubleSpeed = !c.doubleSpeed
		c.speedSwitchArmed = false
		c.s.ScheduleEvent(scheduler.SpeedSwitchDone, 2050*4)
		return
	}
	c.stopped = true
}
