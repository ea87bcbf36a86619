// Package mbc implements the Game Boy memory bank controllers: the
// cartridge-side logic that lets a 15-bit CPU address space reach ROM
// images many times larger than 32 KiB, plus battery-backed external
// RAM and (MBC3) a real-time clock (§4.1 "Mapper logic").
package mbc

// MBC is the interface the bus dispatches 0x0000-0x7FFF control writes
// and 0xA000-0xBFFF RAM-window accesses through. ROM reads in
// 0x0000-0x7FFF are also routed here so bank switching is entirely
// self-contained.
type MBC interface {
	ReadROM(addr uint16) uint8
	WriteROM(addr uint16, value uint8)
	ReadRAM(addr uint16) uint8
	WriteRAM(addr uint16, value uint8)

	// Save returns the external RAM contents for persistence (§6).
	Save() []byte
	// Load restores external RAM contents from a previous Save.
	Load(data []byte)
}

// romBankCount returns the number of switchable 16KiB banks in rom, at
// least 1, so a modulo never divides by zero on odd-sized images.
func romBankCount(rom []byte) int {
	n := len(rom) / 0x4000
	if n == 0 {
		return 1
	}
	return n
}

func ramBankCount(ramSize uint32) int {
	return int(ramSize / 0x2000)
}
