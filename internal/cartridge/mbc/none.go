package mbc

// None implements a cartridge with no mapper: a fixed 32KiB ROM image
// and, optionally, a single fixed 8KiB RAM bank.
type None struct {
	rom []byte
	ram []byte
}

// NewNone returns a mapper-less cartridge.
func NewNone(rom []byte, ramSize uint32) *None {
	return &None{rom: rom, ram: make([]byte, ramSize)}
}

func (n *None) ReadROM(addr uint16) uint8 {
	if int(addr) >= len(n.rom) {
		return 0xFF
	}
	return n.rom[addr]
}

func (n *None) WriteROM(addr uint16, value uint8) {}

func (n *None) ReadRAM(addr uint16) uint8 {
	off := addr - 0xA000
	if int(off) >= len(n.ram) {
		return 0xFF
	}
	return n.ram[off]
}

func (n *None) WriteRAM(addr uint16, value uint8) {
	off := addr - 0xA000
	if int(off) < len(n.ram) {
		n.ram[off] = value
	}
}

func (n *None) Save() []byte   { return n.ram }
func (n *None) Load(d []byte)  { copy(n.ram, d) }
