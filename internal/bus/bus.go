// Package bus implements the Game Boy system bus: the fixed memory map
// (§3 "Memory regions (Game Boy)"), I/O register dispatch, WRAM/HRAM
// storage, the boot ROM overlay, and OAM-DMA bus blocking.
package bus

import (
	"gbxcore/internal/apu"
	"gbxcore/internal/boot"
	"gbxcore/internal/cartridge"
	"gbxcore/internal/cheats"
	"gbxcore/internal/cpu"
	"gbxcore/internal/interrupts"
	"gbxcore/internal/joypad"
	"gbxcore/internal/ppu"
	"gbxcore/internal/serial"
	"gbxcore/internal/timer"
)

// Bus wires every memory-mapped peripheral behind the single
// Read/Write surface internal/cpu.Bus expects.
type Bus struct {
	Cart *cartridge.Cartridge
	Boot *boot.ROM

	PPU    *ppu.Controller
	APU    *apu.Controller
	Timer  *timer.Controller
	Joypad *joypad.Controller
	Serial *serial.Controller
	IRQ    *interrupts.Controller
	CPU    *cpu.CPU

	model       cpu.Model
	bootEnabled bool

	wram     [8][0x1000]uint8
	wramBank uint8
	hram     [0x7F]uint8

	dmaRegister uint8

	Cheats *cheats.Set
}

// SetCheats attaches a cheat engine whose codes are consulted on every
// bus read. A nil Set (the default) costs nothing extra.
func (b *Bus) SetCheats(c *cheats.Set) { b.Cheats = c }

// New wires the given peripherals into a Bus. CPU may be nil at
// construction and set afterward with SetCPU, since the CPU itself
// needs a Bus to be constructed first.
func New(cart *cartridge.Cartridge, bootROM *boot.ROM, p *ppu.Controller, a *apu.Controller, t *timer.Controller, j *joypad.Controller, s *serial.Controller, irq *interrupts.Controller, model cpu.Model) *Bus {
	b := &Bus{
		Cart: cart, Boot: bootROM, PPU: p, APU: a, Timer: t, Joypad: j, Serial: s, IRQ: irq,
		model: model, bootEnabled: bootROM != nil,
	}
	p.AttachBusReader(b.dmaSourceRead)
	return b
}

// SetCPU completes construction: the CPU needs a Bus reference at
// creation, so the Bus's reference back to the CPU (for KEY1) is
// filled in afterward.
func (b *Bus) SetCPU(c *cpu.CPU) { b.CPU = c }

// dmaSourceRead is the restricted read path OAM DMA uses: it must see
// ROM/RAM/WRAM/VRAM directly, bypassing the DMA-active blocking that
// Read applies to ordinary bus traffic.
func (b *Bus) dmaSourceRead(addr uint16) uint8 {
	switch {
	case addr < 0x8000:
		return b.Cart.ReadROM(addr)
	case addr < 0xA000:
		return b.PPU.ReadVRAM(addr - 0x8000)
	case addr < 0xC000:
		return b.Cart.ReadRAM(addr)
	case addr < 0xFE00:
		return b.readWRAM(addr)
	}
	return 0xFF
}

func (b *Bus) readWRAM(addr uint16) uint8 {
	off := addr & 0x1FFF
	if off < 0x1000 {
		return b.wram[0][off]
	}
	bank := b.wramBank
	if bank == 0 {
		bank = 1
	}
	return b.wram[bank][off-0x1000]
}

func (b *Bus) writeWRAM(addr uint16, v uint8) {
	off := addr & 0x1FFF
	if off < 0x1000 {
		b.wram[0][off] = v
		return
	}
	bank := b.wramBank
	if bank == 0 {
		bank = 1
	}
	b.wram[bank][off-0x1000] = v
}

// Read implements internal/cpu.Bus.
func (b *Bus) Read(addr uint16) uint8 {
	if b.PPU.OAMDMAActive() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return 0xFF
	}

	if b.Cheats != nil {
		return b.Cheats.Apply(addr, b.read(addr))
	}
	return b.read(addr)
}

func (b *Bus) read(addr uint16) uint8 {
	switch {
	case addr < 0x0100 && b.bootEnabled:
		return b.Boot.Read(addr)
	case addr < 0x0900 && b.bootEnabled && b.model.IsCGB() && addr >= 0x0200:
		return b.Boot.Read(addr)
	case addr < 0x8000:
		return b.Cart.ReadROM(addr)
	case addr < 0xA000:
		if b.PPU.Mode() == ppu.ModePixelTransfer {
			return 0xFF
		}
		return b.PPU.ReadVRAM(addr - 0x8000)
	case addr < 0xC000:
		return b.Cart.ReadRAM(addr)
	case addr < 0xFE00:
		return b.readWRAM(addr)
	case addr < 0xFEA0:
		if b.PPU.Mode() == ppu.ModeOAMSearch || b.PPU.Mode() == ppu.ModePixelTransfer {
			return 0xFF
		}
		return b.PPU.ReadOAM(addr)
	case addr < 0xFF00:
		return 0xFF
	case addr < 0xFF80:
		return b.readIO(addr)
	case addr < 0xFFFF:
		return b.hram[addr-0xFF80]
	default:
		return b.IRQ.Read(interrupts.EnableRegister)
	}
}

// Write implements internal/cpu.Bus.
func (b *Bus) Write(addr uint16, v uint8) {
	if b.PPU.OAMDMAActive() && !(addr >= 0xFF80 && addr <= 0xFFFE) {
		return
	}

	switch {
	case addr < 0x8000:
		b.Cart.WriteROM(addr, v)
	case addr < 0xA000:
		if b.PPU.Mode() != ppu.ModePixelTransfer {
			b.PPU.WriteVRAM(addr-0x8000, v)
		}
	case addr < 0xC000:
		b.Cart.WriteRAM(addr, v)
	case addr < 0xFE00:
		b.writeWRAM(addr, v)
	case addr < 0xFEA0:
		if b.PPU.Mode() != ppu.ModeOAMSearch && b.PPU.Mode() != ppu.ModePixelTransfer {
			b.PPU.WriteOAM(addr, v)
		}
	case addr < 0xFF00:
		// unusable
	case addr < 0xFF80:
		b.writeIO(addr, v)
	case addr < 0xFFFF:
		b.hram[addr-0xFF80] = v
	default:
		b.IRQ.Write(interrupts.EnableRegister, v)
	}
}

func (b *Bus) readIO(addr uint16) uint8 {
	switch {
	case addr == joypad.Register:
		return b.Joypad.Read(addr)
	case addr == serial.SB || addr == serial.SC:
		return b.Serial.Read(addr)
	case addr >= timer.DIV && addr <= timer.TAC:
		return b.Timer.Read(addr)
	case addr == interrupts.FlagRegister:
		return b.IRQ.Read(addr)
	case addr == 0xFF46:
		return b.dmaRegister
	case addr == 0xFF4D:
		if b.CPU != nil && b.model.IsCGB() {
			return b.CPU.ReadKEY1()
		}
		return 0xFF
	case addr == 0xFF50:
		return 0xFF
	case addr >= 0xFF51 && addr <= 0xFF55:
		return b.PPU.ReadHDMA(addr)
	case addr >= ppu.LCDC && addr <= 0xFF4B:
		return b.PPU.Read(addr)
	case addr == ppu.VBK:
		return b.PPU.Read(addr)
	case addr >= ppu.BCPS && addr <= ppu.OCPD:
		return b.PPU.Read(addr)
	case addr == 0xFF70:
		return b.wramBank | 0xF8
	case (addr >= apu.NR10 && addr <= apu.NR52) || (addr >= apu.WaveRAMStart && addr <= apu.WaveRAMEnd):
		return b.APU.Read(addr)
	}
	return 0xFF
}

func (b *Bus) writeIO(addr uint16, v uint8) {
	switch {
	case addr == joypad.Register:
		b.Joypad.Write(addr, v)
	case addr == serial.SB || addr == serial.SC:
		b.Serial.Write(addr, v)
	case addr >= timer.DIV && addr <= timer.TAC:
		b.Timer.Write(addr, v)
	case addr == interrupts.FlagRegister:
		b.IRQ.Write(addr, v)
	case addr == 0xFF46:
		b.dmaRegister = v
		b.PPU.StartOAMDMA(v)
	case addr == 0xFF4D:
		if b.model.IsCGB() && b.CPU != nil {
			b.CPU.WriteKEY1(v)
		}
	case addr == 0xFF50:
		if v != 0 {
			b.bootEnabled = false
		}
	case addr >= 0xFF51 && addr <= 0xFF55:
		b.PPU.WriteHDMA(addr, v)
	case addr >= ppu.LCDC && addr <= 0xFF4B:
		b.PPU.Write(addr, v)
	case addr == ppu.VBK:
		b.PPU.Write(addr, v)
	case addr >= ppu.BCPS && addr <= ppu.OCPD:
		b.PPU.Write(addr, v)
	case addr == 0xFF70:
		if b.model.IsCGB() {
			b.wramBank = v & 0x07
		}
	case (addr >= apu.NR10 && addr <= apu.NR52) || (addr >= apu.WaveRAMStart && addr <= apu.WaveRAMEnd):
		b.APU.Write(addr, v)
	}
}
