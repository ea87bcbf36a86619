package ppu

import (
	"testing"

	"gbxcore/internal/interrupts"
	"gbxcore/internal/scheduler"
)

func newTestController() (*Controller, *interrupts.Controller) {
	irq := interrupts.NewController()
	s := scheduler.New()
	c := New(irq, s, false)
	return c, irq
}

func TestSTATSignalFiresOnlyOnRisingEdge(t *testing.T) {
	c, irq := newTestController()
	irq.Write(interrupts.EnableRegister, 0xFF)
	c.stat = 1 << statMode2IRQ
	c.mode = ModeHBlank

	c.mode = ModeOAMSearch
	c.updateSTATSignal()
	if !irq.HasPending() {
		t.Fatal("expected the mode-2 entry to raise STAT")
	}
	irq.Clear(interrupts.LCDFlag)

	c.updateSTATSignal() // still in mode 2, signal already high
	if irq.HasPending() {
		t.Fatal("signal held high must not re-fire the interrupt")
	}
}

func TestLYCMatchSetsSTATBit(t *testing.T) {
	c, _ := newTestController()
	c.ly = 42
	c.lyc = 42
	if c.Read(STAT)&0x04 == 0 {
		t.Fatal("expected the LYC=LY bit set in STAT")
	}
}

func TestOAMDMACompletesAndPopulatesOAM(t *testing.T) {
	irq := interrupts.NewController()
	s := scheduler.New()
	c := New(irq, s, false)
	var src [0x100]uint8
	for i := range src {
		src[i] = uint8(i + 1)
	}
	c.AttachBusReader(func(addr uint16) uint8 { return src[addr&0xFF] })

	c.StartOAMDMA(0xC0)
	for i := 0; i < 170; i++ {
		s.Tick(4)
	}
	if c.OAMDMAActive() {
		t.Fatal("expected the transfer to have completed")
	}
	if c.ReadOAM(0) != 1 || c.ReadOAM(1) != 2 {
		t.Fatalf("expected OAM[0..1]=1,2, got %d,%d", c.ReadOAM(0), c.ReadOAM(1))
	}
}
