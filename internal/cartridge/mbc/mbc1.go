package mbc

// MBC1 implements the MBC1 mapper: a 5-bit primary ROM-bank register
// (bank1), a 2-bit secondary register (bank2) that is either the RAM
// bank or the high bits of the ROM bank depending on the banking-mode
// latch, and a RAM-enable latch (§4.1).
//
// Multicart carts (8Mbit MBC1 images containing several 256KiB games)
// wire bank1 as 4 bits instead of 5 and use bank2 to pick the game
// quarter; Multicart is set at construction from the parsed header.
type MBC1 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	bank1      uint8 // 0x2000-0x3FFF: 5 bits (4 on multicart)
	bank2      uint8 // 0x4000-0x5FFF: 2 bits
	mode       bool  // 0x6000-0x7FFF

	Multicart bool
}

// NewMBC1 returns a new MBC1 mapper for the given ROM/RAM sizes.
func NewMBC1(rom []byte, ramSize uint32, multicart bool) *MBC1 {
	return &MBC1{rom: rom, ram: make([]byte, ramSize), bank1: 1, Multicart: multicart}
}

func (m *MBC1) bankShift() uint8 {
	if m.Multicart {
		return 4
	}
	return 5
}

func (m *MBC1) bank1Mask() uint8 {
	if m.Multicart {
		return 0x0F
	}
	return 0x1F
}

// romBank0 returns the bank mapped at 0x0000-0x3FFF: bank 0 normally,
// or bank2<<shift when the mode latch extends banking to that window.
func (m *MBC1) romBank0() int {
	if !m.mode {
		return 0
	}
	return int(m.bank2) << m.bankShift()
}

func (m *MBC1) romBankN() int {
	bank := (int(m.bank2) << m.bankShift()) | int(m.bank1)
	n := romBankCount(m.rom)
	if n > 0 {
		bank %= n
	}
	return bank
}

func (m *MBC1) ReadROM(addr uint16) uint8 {
	var bank int
	if addr < 0x4000 {
		bank = m.romBank0()
	} else {
		bank = m.romBankN()
	}
	off := bank*0x4000 + int(addr&0x3FFF)
	if off >= len(m.rom) {
		return 0xFF
	}
	return m.rom[off]
}

func (m *MBC1) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		v := value & m.bank1Mask()
		if v == 0 {
			v = 1
		}
		m.bank1 = v
	case addr < 0x6000:
		m.bank2 = value & 0x03
	case addr < 0x8000:
		m.mode = value&0x01 != 0
	}
}

func (m *MBC1) ramBank() int {
	if m.mode {
		return int(m.bank2)
	}
	return 0
}

func (m *MBC1) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled || len(m.ram) == 0 {
		return 0xFF
	}
	off := m.ramBank()*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *MBC1) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled || len(m.ram) == 0 {
		return
	}
	off := m.ramBank()*0x2000 + int(addr-0xA000)
	if off < len(m.ram) {
		m.ram[off] = value
	}
}

func (m *MBC1) Save() []byte  { return m.ram }
func (m *MBC1) Load(d []byte) { copy(m.ram, d) }
