package cartridge

import "testing"

func TestLoadDispatchesMapper(t *testing.T) {
	rom := buildHeader(byte(typeMBC5RAMBattery), 0x00, 0x02, 0x00)
	c, _, err := Load(rom, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.Header.Mapper != MapperMBC5 {
		t.Fatalf("expected MBC5, got %v", c.Header.Mapper)
	}
	c.WriteROM(0x0000, 0x0A)
	c.WriteRAM(0xA000, 0x11)
	if got := c.ReadRAM(0xA000); got != 0x11 {
		t.Fatalf("expected RAM round trip, got %#x", got)
	}
}

func TestLoadFatalOnUnknownMapper(t *testing.T) {
	rom := buildHeader(0x77, 0x00, 0x00, 0x00)
	_, _, err := Load(rom, Options{})
	if err == nil {
		t.Fatal("expected an error for an unrecognised mapper byte")
	}
}

func TestSaveRAMNilWithoutBattery(t *testing.T) {
	rom := buildHeader(byte(typeMBC1), 0x00, 0x00, 0x00)
	c, _, err := Load(rom, Options{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if c.SaveRAM() != nil {
		t.Fatal("expected nil save data for a cartridge with no battery")
	}
}
