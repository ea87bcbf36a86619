package timer

import (
	"testing"

	"gbxcore/internal/interrupts"
	"gbxcore/internal/scheduler"
)

func TestTIMAOverflowReloadsAfterDelay(t *testing.T) {
	s := scheduler.New()
	irq := interrupts.NewController()
	c := NewController(irq, s)
	irq.Write(interrupts.EnableRegister, 0xFF)

	c.Write(TMA, 0x10)
	c.Write(TAC, 0b101) // enabled, clock select 1 -> every 16 cycles
	c.tima = 0xFF

	s.Tick(16) // one TIMA increment tick: 0xFF -> 0x00, overflow
	if c.tima != 0x00 {
		t.Fatalf("expected TIMA to have overflowed to 0, got %#x", c.tima)
	}
	if irq.HasPending() {
		t.Fatal("expected the timer interrupt not to fire before the reload delay elapses")
	}

	s.Tick(4) // reload delay
	if c.tima != 0x10 {
		t.Fatalf("expected TIMA reloaded from TMA, got %#x", c.tima)
	}
	if !irq.HasPending() {
		t.Fatal("expected the timer interrupt to be pending after reload")
	}
}

func TestTIMAWriteDuringReloadWindowCancels(t *testing.T) {
	s := scheduler.New()
	irq := interrupts.NewController()
	c := NewController(irq, s)
	irq.Write(interrupts.EnableRegister, 0xFF)

	c.Write(TMA, 0x10)
	c.Write(TAC, 0b101)
	c.tima = 0xFF

	s.Tick(16) // overflow, reload scheduled 4 cycles out
	c.Write(TIMA, 0x99)
	s.Tick(4)

	if c.tima != 0x99 {
		t.Fatalf("expected the write during the reload window to win, got %#x", c.tima)
	}
	if irq.HasPending() {
		t.Fatal("expected a cancelled reload not to fire the timer interrupt")
	}
}

func TestDIVWriteResetsDivider(t *testing.T) {
	s := scheduler.New()
	irq := interrupts.NewController()
	c := NewController(irq, s)

	s.Tick(300)
	before := c.Read(DIV)
	if before == 0 {
		t.Fatal("expected DIV to have advanced")
	}
	c.Write(DIV, 0xFF) // any value resets to 0
	if got := c.Read(DIV); got != 0 {
		t.Fatalf("expected DIV write to reset to 0, got %#x", got)
	}
}
