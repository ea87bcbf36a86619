package joypad

import (
	"testing"

	"gbxcore/internal/interrupts"
)

func TestPressFiresInterruptOnlyWhenSelected(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq)
	irq.Write(interrupts.EnableRegister, 0xFF)

	c.Write(Register, 0x10) // select action keys (bit 5 clear)
	c.Press(ButtonUp)       // direction key, not selected
	if irq.HasPending() {
		t.Fatal("expected no interrupt for a key on the unselected matrix")
	}

	c.Press(ButtonA)
	if !irq.HasPending() {
		t.Fatal("expected an interrupt for a newly-pressed selected key")
	}
}

func TestPressOnAlreadyHeldKeyDoesNotRefire(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq)
	irq.Write(interrupts.EnableRegister, 0xFF)
	c.Write(Register, 0x10)

	c.Press(ButtonA)
	irq.NextVector() // clear the pending interrupt
	c.Press(ButtonA)
	if irq.HasPending() {
		t.Fatal("expected no interrupt for a key that was already held")
	}
}

func TestReadReflectsSelectedMatrix(t *testing.T) {
	irq := interrupts.NewController()
	c := NewController(irq)
	c.Press(ButtonA)
	c.Press(ButtonDown)

	c.Write(Register, 0x10) // select action keys
	if got := c.Read(Register); got&0x01 != 0 {
		t.Fatalf("expected bit 0 (A) low when A is held, got %#x", got)
	}

	c.Write(Register, 0x20) // select direction keys
	if got := c.Read(Register); got&0x08 != 0 {
		t.Fatalf("expected bit 3 (Down) low when Down is held, got %#x", got)
	}
}
