package mbc

import "testing"

func makeROM(banks int) []byte {
	rom := make([]byte, banks*0x4000)
	for b := 0; b < banks; b++ {
		for i := 0; i < 0x4000; i++ {
			rom[b*0x4000+i] = byte(b)
		}
	}
	return rom
}

func TestMBC1ZeroBankQuirk(t *testing.T) {
	m := NewMBC1(makeROM(128), 0, false)
	m.WriteROM(0x2000, 0x20) // masks to 0, bumped to 1
	m.WriteROM(0x4000, 0x01) // bank2 = 1 -> block selects banks 0x20/0x21
	got := m.ReadROM(0x4000)
	if got != 0x21 {
		t.Fatalf("expected the 0x00/0x20/0x40/0x60 quirk to map to bank 0x21, got %#x", got)
	}
}

func TestMBC1RAMEnableGating(t *testing.T) {
	m := NewMBC1(makeROM(2), 0x2000, false)
	m.WriteRAM(0xA000, 0x55)
	if got := m.ReadRAM(0xA000); got != 0xFF {
		t.Fatalf("expected RAM disabled to read 0xFF, got %#x", got)
	}
	m.WriteROM(0x0000, 0x0A)
	m.WriteRAM(0xA000, 0x55)
	if got := m.ReadRAM(0xA000); got != 0x55 {
		t.Fatalf("expected RAM write to stick once enabled, got %#x", got)
	}
}

func TestMBC1RomBankSwitch(t *testing.T) {
	m := NewMBC1(makeROM(4), 0, false)
	m.WriteROM(0x2000, 0x03)
	if got := m.ReadROM(0x4000); got != 3 {
		t.Fatalf("expected bank 3, got %d", got)
	}
}

func TestMBC1MulticartMasksTo4Bits(t *testing.T) {
	m := NewMBC1(makeROM(64), 0, true)
	m.WriteROM(0x2000, 0x1F) // masked to 4 bits -> 0x0F
	if m.bank1 != 0x0F {
		t.Fatalf("expected multicart bank1 masked to 4 bits, got %#x", m.bank1)
	}
}
