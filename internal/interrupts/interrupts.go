// Package interrupts implements the Game Boy interrupt controller:
// the IF/IE masks, edge-triggered requests, and the same-cycle write
// lockout that lets a CPU write to IF win over a peripheral's request
// raised in that same machine cycle (§4.2).
package interrupts

// Address is the fixed service vector for an interrupt class.
type Address = uint16

const (
	VBlank Address = 0x0040
	LCD    Address = 0x0048
	Timer  Address = 0x0050
	Serial Address = 0x0058
	Joypad Address = 0x0060
)

// Flag indexes one of the five interrupt bits; lowest-numbered wins
// when more than one is pending (§4.2).
type Flag = uint8

const (
	VBlankFlag Flag = iota
	LCDFlag
	TimerFlag
	SerialFlag
	JoypadFlag
)

var vectors = [5]Address{VBlank, LCD, Timer, Serial, Joypad}

const (
	FlagRegister   uint16 = 0xFF0F
	EnableRegister uint16 = 0xFFFF
)

// Controller holds IF, IE and IME, plus the one-cycle IME-enable delay
// (EI takes effect after the instruction following it) and the
// same-cycle write lockout described in §4.2.
type Controller struct {
	flag   uint8
	enable uint8

	IME bool

	// imeEnablePending models EI's one-instruction delay: IME becomes
	// true only after the *next* instruction boundary is reached.
	imeEnablePending bool

	// writtenThisCycle inhibits a peripheral's Request in the same
	// machine cycle an instruction writes to IF, so the instruction's
	// value wins (§4.2 "IF write-in-same-cycle").
	writtenThisCycle bool
}

// NewController returns a Controller with IF/IE/IME all clear.
func NewController() *Controller {
	return &Controller{}
}

// Request sets the IF bit for flag, unless an instruction wrote to IF
// in this same machine cycle.
func (c *Controller) Request(flag Flag) {
	if c.writtenThisCycle {
		return
	}
	c.flag |= 1 << flag
}

// ForceRequest sets the IF bit unconditionally, bypassing the
// same-cycle lockout. No peripheral calls it; the CPU tests use it to
// seed pending interrupts.
func (c *Controller) ForceRequest(flag Flag) {
	c.flag |= 1 << flag
}

// Clear clears the IF bit for flag.
func (c *Controller) Clear(flag Flag) {
	c.flag &^= 1 << flag
}

// BeginCycle must be called once at the start of each machine cycle,
// before any peripheral ticks, to reset the same-cycle write lockout.
func (c *Controller) BeginCycle() {
	c.writtenThisCycle = false
}

// Pending returns the currently pending & enabled interrupt bits.
func (c *Controller) Pending() uint8 {
	return c.flag & c.enable & 0x1F
}

// HasPending reports whether any enabled interrupt is pending,
// independent of IME - used to wake the CPU from HALT/STOP.
func (c *Controller) HasPending() bool {
	return c.Pending() != 0
}

// NextVector selects the lowest-numbered pending & enabled interrupt,
// clears its IF bit, and returns its service vector. ok is false if
// nothing is pending.
func (c *Controller) NextVector() (addr Address, flag Flag, ok bool) {
	pending := c.Pending()
	if pending == 0 {
		return 0, 0, false
	}
	for i := Flag(0); i < 5; i++ {
		if pending&(1<<i) != 0 {
			c.flag &^= 1 << i
			return vectors[i], i, true
		}
	}
	panic("unreachable")
}

// RequestEnableIME arms the one-instruction EI delay.
func (c *Controller) RequestEnableIME() {
	c.imeEnablePending = true
}

// StepIMEDelay must be called once per instruction boundary; it
// commits a pending EI exactly one instruction after it was executed.
func (c *Controller) StepIMEDelay() {
	if c.imeEnablePending {
		c.IME = true
		c.imeEnablePending = false
	}
}

// Read implements the bus-facing register read for 0xFF0F / 0xFFFF.
// Bits 5-7 of IF always read high (§9 open question (c)).
func (c *Controller) Read(address uint16) uint8 {
	switch address {
	case FlagRegister:
		return c.flag | 0xE0
	case EnableRegister:
		return c.enable
	}
	return 0xFF
}

// Write implements the bus-facing register write for 0xFF0F / 0xFFFF,
// flagging the same-cycle lockout when IF itself is the target.
func (c *Controller) Write(address uint16, value uint8) {
	switch address {
	case FlagRegister:
		c.flag = value & 0x1F
		c.writtenThisCycle = true
	case EnableRegister:
		c.enable = value
	}
}
