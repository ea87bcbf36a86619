package mbc

// MBC3 implements the MBC3 mapper: a 7-bit ROM-bank register (with
// MBC1's zero-bank quirk: writing 0 selects bank 1), a 2-bit-or-RTC-select secondary
// register at 0x4000-0x5FFF, and an optional real-time clock latched
// through 0x6000-0x7FFF (§4.1, §4.7).
type MBC3 struct {
	rom []byte
	ram []byte

	ramEnabled bool
	romBank    uint8
	ramOrRTC   uint8 // 0x00-0x03 RAM bank, 0x08-0x0C RTC register select

	RTC    *RTC
	HasRTC bool
}

// NewMBC3 returns a new MBC3 mapper. hasRTC wires up the clock latch
// for MBC3+TIMER cartridges; plain MBC3 and MBC3+RAM carts leave RTC
// nil and ignore 0x08-0x0C select writes.
func NewMBC3(rom []byte, ramSize uint32, hasRTC bool) *MBC3 {
	m := &MBC3{rom: rom, ram: make([]byte, ramSize), romBank: 1, HasRTC: hasRTC}
	if hasRTC {
		m.RTC = NewRTC()
	}
	return m
}

func (m *MBC3) ReadROM(addr uint16) uint8 {
	bank := 0
	if addr >= 0x4000 {
		bank = int(m.romBank)
		if n := romBankCount(m.rom); n > 0 {
			bank %= n
		}
	}
	off := bank*0x4000 + int(addr&0x3FFF)
	if off >= len(m.rom) {
		return 0xFF
	}
	return m.rom[off]
}

func (m *MBC3) WriteROM(addr uint16, value uint8) {
	switch {
	case addr < 0x2000:
		m.ramEnabled = value&0x0F == 0x0A
	case addr < 0x4000:
		bank := value & 0x7F
		if bank == 0 {
			bank = 1
		}
		m.romBank = bank
	case addr < 0x6000:
		m.ramOrRTC = value
	case addr < 0x8000:
		if m.HasRTC {
			m.RTC.SelectOrLatch(value)
		}
	}
}

// usingRTC reports whether the current 0x4000-0x5FFF selection points
// at an RTC register (0x08-0x0C) rather than a RAM bank.
func (m *MBC3) usingRTC() bool {
	return m.HasRTC && m.ramOrRTC >= 0x08 && m.ramOrRTC <= 0x0C
}

func (m *MBC3) ReadRAM(addr uint16) uint8 {
	if !m.ramEnabled {
		return 0xFF
	}
	if m.usingRTC() {
		m.RTC.Select(m.ramOrRTC)
		return m.RTC.Read()
	}
	off := int(m.ramOrRTC&0x03)*0x2000 + int(addr-0xA000)
	if off >= len(m.ram) {
		return 0xFF
	}
	return m.ram[off]
}

func (m *MBC3) WriteRAM(addr uint16, value uint8) {
	if !m.ramEnabled {
		return
	}
	if m.usingRTC() {
		m.RTC.Select(m.ramOrRTC)
		m.RTC.Write(value)
		return
	}
	off := int(m.ramOrRTC&0x03)*0x2000 + int(addr-0xA000)
	if off < len(m.ram) {
		m.ram[off] = value
	}
}

func (m *MBC3) Save() []byte  { return m.ram }
func (m *MBC3) Load(d []byte) { copy(m.ram, d) }
