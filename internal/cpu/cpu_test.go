package cpu

import (
	"testing"

	"gbxcore/internal/interrupts"
	"gbxcore/internal/scheduler"
)

// flatBus is a 64KiB byte array standing in for the memory bus in
// tests that only care about CPU behaviour.
type flatBus struct {
	mem [0x10000]byte
}

func (b *flatBus) Read(addr uint16) uint8       { return b.mem[addr] }
func (b *flatBus) Write(addr uint16, v uint8)   { b.mem[addr] = v }
func (b *flatBus) load(at uint16, program ...uint8) {
	copy(b.mem[at:], program)
}

func newTestCPU() (*CPU, *flatBus, *scheduler.Scheduler, *interrupts.Controller) {
	bus := &flatBus{}
	s := scheduler.New()
	irq := interrupts.NewController()
	c := New(bus, s, irq, DMG)
	c.PC = 0x0000
	return c, bus, s, irq
}

func TestResetStateMatchesDMGPostBoot(t *testing.T) {
	c := New(&flatBus{}, scheduler.New(), interrupts.NewController(), DMG)
	if c.A != 0x01 || c.SP != 0xFFFE {
		t.Fatalf("unexpected reset register state: A=%#x SP=%#x", c.A, c.SP)
	}
}

func TestCGBResetStateDiffersFromDMG(t *testing.T) {
	cgb := New(&flatBus{}, scheduler.New(), interrupts.NewController(), CGBABC)
	if cgb.A != 0x11 {
		t.Fatalf("expected CGB boot A=0x11, got %#x", cgb.A)
	}
}

func TestAddSetsHalfCarryAndCarry(t *testing.T) {
	c, bus, _, _ := newTestCPU()
	c.A = 0x0F
	bus.load(0, 0xC6, 0x01) // ADD A,d8
	c.Step()
	if c.A != 0x10 {
		t.Fatalf("expected A=0x10, got %#x", c.A)
	}
	if !c.isFlagSet(flagHalfCarry) {
		t.Fatal("expected half-carry set crossing the nibble boundary")
	}
	if c.isFlagSet(flagCarry) || c.isFlagSet(flagZero) || c.isFlagSet(flagSubtract) {
		t.Fatal("unexpected flag set")
	}
}

func TestIncDoesNotTouchCarryFlag(t *testing.T) {
	c, bus, _, _ := newTestCPU()
	c.setFlag(flagCarry)
	c.B = 0xFF
	bus.load(0, 0x04) // INC B
	c.Step()
	if c.B != 0x00 {
		t.Fatalf("expected wraparound to 0, got %#x", c.B)
	}
	if !c.isFlagSet(flagZero) || !c.isFlagSet(flagHalfCarry) {
		t.Fatal("expected Z and H set on overflow to zero")
	}
	if !c.isFlagSet(flagCarry) {
		t.Fatal("INC must leave a pre-existing carry flag untouched")
	}
}

func TestPushPopRoundTrips(t *testing.T) {
	c, bus, _, _ := newTestCPU()
	c.B, c.C = 0xBE, 0xEF
	bus.load(0, 0xC5, 0xD1) // PUSH BC; POP DE
	c.Step()
	c.Step()
	if c.D != 0xBE || c.E != 0xEF {
		t.Fatalf("expected DE=BEEF, got D=%#x E=%#x", c.D, c.E)
	}
}

func TestJRTakenAddsAnExtraCycle(t *testing.T) {
	c, bus, s, _ := newTestCPU()
	bus.load(0, 0x18, 0x02) // JR +2
	before := s.Cycle()
	c.Step()
	if c.PC != 0x0004 {
		t.Fatalf("expected PC=0x0004 after JR +2 from 0x0002, got %#x", c.PC)
	}
	if s.Cycle()-before != 12 {
		t.Fatalf("expected JR to cost 12 cycles, got %d", s.Cycle()-before)
	}
}

func TestHaltBugDuplicatesNextFetch(t *testing.T) {
	c, bus, _, irq := newTestCPU()
	irq.Write(interrupts.EnableRegister, 0xFF)
	irq.ForceRequest(interrupts.VBlankFlag) // pending, but IME is clear
	bus.load(0, 0x76, 0x04)                 // HALT; INC B
	c.Step()                                // HALT triggers the bug instead of sleeping
	if c.halted {
		t.Fatal("expected the halt bug path, not an actual halt, with IME clear and an interrupt pending")
	}
	c.Step() // INC B executed once
	if c.B != 1 {
		t.Fatalf("expected B=1 after the first INC B, got %d", c.B)
	}
	c.Step() // the same INC B byte is fetched again
	if c.B != 2 {
		t.Fatalf("expected the halt bug to re-execute INC B, got B=%d", c.B)
	}
}

func TestInterruptDispatchPicksLowestVector(t *testing.T) {
	c, bus, _, irq := newTestCPU()
	bus.load(0, 0x00) // NOP, in case Step falls through to fetch
	c.SP = 0xFFFE
	irq.IME = true
	irq.Write(interrupts.EnableRegister, 0xFF)
	irq.ForceRequest(interrupts.TimerFlag)
	irq.ForceRequest(interrupts.VBlankFlag)

	c.Step()
	if c.PC != interrupts.VBlank {
		t.Fatalf("expected VBlank to win over Timer, PC=%#x", c.PC)
	}
}

func TestEIDelaysIMEByOneInstruction(t *testing.T) {
	c, bus, _, irq := newTestCPU()
	bus.load(0, 0xFB, 0x00, 0x00) // EI; NOP; NOP
	c.Step()                      // EI
	if irq.IME {
		t.Fatal("IME must not be set until after the instruction following EI")
	}
	c.Step() // NOP: IME commits at the start of this instruction boundary
	if !irq.IME {
		t.Fatal("expected IME set after the instruction following EI")
	}
}

func TestStopArmedOnCGBSwitchesSpeedInsteadOfStopping(t *testing.T) {
	c, bus, _, _ := newTestCPU()
	c.model = CGBABC
	c.WriteKEY1(0x01)
	bus.load(0, 0x10, 0x00) // STOP
	c.Step()
	if c.stopped {
		t.Fatal("an armed speed switch must not actually stop the core")
	}
	if !c.doubleSpeed {
		t.Fatal("expected double speed to be engaged")
	}
}

func TestStopWithoutArmingHalts(t *testing.T) {
	c, bus, _, _ := newTestCPU()
	bus.load(0, 0x10, 0x00)
	c.Step()
	if !c.stopped {
		t.Fatal("expected STOP without an armed speed switch to actually stop the core")
	}
}
