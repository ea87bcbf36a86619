package cartridge

import (
	"gbxcore/internal/cartridge/mbc"
	"gbxcore/internal/corerr"
)

// Cartridge couples a parsed Header to the mapper instance that
// actually services ROM/RAM reads and writes. It is the unit the bus
// wires into the 0x0000-0x7FFF and 0xA000-0xBFFF windows.
type Cartridge struct {
	Header Header
	MBC    mbc.MBC
	rom    []byte
}

// Options configures cartridge construction beyond what the header
// alone determines.
type Options struct {
	// ForceMulticart overrides the header's multicart sniff (--multicart).
	ForceMulticart bool
}

// Load parses rom's header and constructs the matching mapper. Any
// fatal warning is returned as an error and no cartridge is produced;
// non-fatal warnings (bad checksum, bad logo) are returned alongside a
// usable Cartridge so the caller can choose whether to proceed.
func Load(rom []byte, opts Options) (*Cartridge, []*corerr.Error, error) {
	h, warnings := Parse(rom)
	for _, w := range warnings {
		if w.Fatal {
			return nil, warnings, w
		}
	}

	if opts.ForceMulticart {
		h.ApplyMulticart()
	} else {
		h.SniffMulticart(rom)
	}

	c := &Cartridge{Header: h, rom: rom}
	switch h.Mapper {
	case MapperNone:
		c.MBC = mbc.NewNone(rom, h.RAMSize)
	case MapperMBC1:
		c.MBC = mbc.NewMBC1(rom, h.RAMSize, false)
	case MapperMBC1Multicart:
		c.MBC = mbc.NewMBC1(rom, h.RAMSize, true)
	case MapperMBC2:
		c.MBC = mbc.NewMBC2(rom)
	case MapperMBC3:
		c.MBC = mbc.NewMBC3(rom, h.RAMSize, h.HasRTC)
	case MapperMBC5:
		m := mbc.NewMBC5(rom, h.RAMSize, h.HasRumble)
		c.MBC = m
	default:
		return nil, warnings, corerr.UnsupportedHardware("no mapper implementation for %s", h.Mapper)
	}

	return c, warnings, nil
}

func (c *Cartridge) ReadROM(addr uint16) uint8     { return c.MBC.ReadROM(addr) }
func (c *Cartridge) WriteROM(addr uint16, v uint8) { c.MBC.WriteROM(addr, v) }
func (c *Cartridge) ReadRAM(addr uint16) uint8      { return c.MBC.ReadRAM(addr) }
func (c *Cartridge) WriteRAM(addr uint16, v uint8)  { c.MBC.WriteRAM(addr, v) }

// SaveRAM returns the external RAM contents for battery-backed carts,
// or nil if the header reports no battery.
func (c *Cartridge) SaveRAM() []byte {
	if !c.Header.HasBattery {
		return nil
	}
	return c.MBC.Save()
}

// LoadRAM restores previously-saved external RAM.
func (c *Cartridge) LoadRAM(data []byte) {
	c.MBC.Load(data)
}
