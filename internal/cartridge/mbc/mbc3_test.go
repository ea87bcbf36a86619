package mbc

import (
	"testing"
	"time"
)

func TestMBC3RomBankZeroSelectsOne(t *testing.T) {
	m := NewMBC3(makeROM(4), 0, false)
	m.WriteROM(0x2000, 0x00)
	if got := m.ReadROM(0x4000); got != 1 {
		t.Fatalf("expected bank-0 write bumped to bank 1, got %d", got)
	}
	m.WriteROM(0x2000, 0x02)
	if got := m.ReadROM(0x4000); got != 2 {
		t.Fatalf("expected bank 2, got %d", got)
	}
}

func TestMBC3RAMBankSelect(t *testing.T) {
	m := NewMBC3(makeROM(2), 0x8000, false)
	m.WriteROM(0x0000, 0x0A)
	m.WriteROM(0x4000, 0x01)
	m.WriteRAM(0xA000, 0x42)
	m.WriteROM(0x4000, 0x00)
	if got := m.ReadRAM(0xA000); got == 0x42 {
		t.Fatal("expected bank 0 to be independent of bank 1's write")
	}
	m.WriteROM(0x4000, 0x01)
	if got := m.ReadRAM(0xA000); got != 0x42 {
		t.Fatalf("expected bank 1 to retain its write, got %#x", got)
	}
}

func TestMBC3RTCLatchAndRead(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMBC3(makeROM(2), 0, true)
	m.RTC.ClockSource = func() time.Time { return now }
	m.RTC.base = now
	m.WriteROM(0x0000, 0x0A)

	now = now.Add(90 * time.Second) // 1 minute, 30 seconds

	m.WriteROM(0x6000, 0x00)
	m.WriteROM(0x6000, 0x01) // 0->1 edge latches

	m.WriteROM(0x4000, 0x08) // select seconds register
	if got := m.ReadRAM(0xA000); got != 30 {
		t.Fatalf("expected latched seconds == 30, got %d", got)
	}
	m.WriteROM(0x4000, 0x09) // select minutes register
	if got := m.ReadRAM(0xA000); got != 1 {
		t.Fatalf("expected latched minutes == 1, got %d", got)
	}
}

func TestMBC3RTCHaltFreezesCounter(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m := NewMBC3(makeROM(2), 0, true)
	m.RTC.ClockSource = func() time.Time { return now }
	m.RTC.base = now
	m.WriteROM(0x0000, 0x0A)

	m.WriteROM(0x4000, 0x0C) // select day-high/halt register
	m.WriteRAM(0xA000, 0x40) // set halt bit

	now = now.Add(time.Hour)

	m.WriteROM(0x6000, 0x00)
	m.WriteROM(0x6000, 0x01)
	m.WriteROM(0x4000, 0x08)
	if got := m.ReadRAM(0xA000); got != 0 {
		t.Fatalf("expected halted clock to not advance, got seconds=%d", got)
	}
}
