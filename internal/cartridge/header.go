// Package cartridge decodes a Game Boy ROM image's header (console
// target, mapper kind, ROM/RAM size, RTC/rumble flags) and validates
// the Nintendo boot logo and header checksum (§4.1, "Cartridge header
// parser").
package cartridge

import (
	"fmt"

	"gbxcore/internal/bits"
	"gbxcore/internal/corerr"
)

// Console identifies which console a cartridge targets.
type Console uint8

const (
	ConsoleDMG Console = iota
	ConsoleCGB
	ConsoleAGB
)

// Mode selects the palette/feature semantics the game was authored for.
type Mode uint8

const (
	ModeDMGOnly Mode = iota
	ModeCGBSupported
	ModeCGBOnly
)

// Mapper identifies the memory bank controller a cartridge uses.
type Mapper uint8

const (
	MapperNone Mapper = iota
	MapperMBC1
	MapperMBC1Multicart
	MapperMBC2
	MapperMBC3
	MapperMBC5
	MapperUnknown
)

func (m Mapper) String() string {
	switch m {
	case MapperNone:
		return "ROM ONLY"
	case MapperMBC1:
		return "MBC1"
	case MapperMBC1Multicart:
		return "MBC1 (multicart)"
	case MapperMBC2:
		return "MBC2"
	case MapperMBC3:
		return "MBC3"
	case MapperMBC5:
		return "MBC5"
	default:
		return "unknown mapper"
	}
}

// rawType is the byte at 0x0147.
type rawType uint8

const (
	typeROM               rawType = 0x00
	typeMBC1              rawType = 0x01
	typeMBC1RAM           rawType = 0x02
	typeMBC1RAMBattery    rawType = 0x03
	typeMBC2              rawType = 0x05
	typeMBC2Battery       rawType = 0x06
	typeROMRAM            rawType = 0x08
	typeROMRAMBattery     rawType = 0x09
	typeMBC3TimerBattery  rawType = 0x0F
	typeMBC3TimerRAMBatt  rawType = 0x10
	typeMBC3              rawType = 0x11
	typeMBC3RAM           rawType = 0x12
	typeMBC3RAMBattery    rawType = 0x13
	typeMBC5              rawType = 0x19
	typeMBC5RAM           rawType = 0x1A
	typeMBC5RAMBattery    rawType = 0x1B
	typeMBC5Rumble        rawType = 0x1C
	typeMBC5RumbleRAM     rawType = 0x1D
	typeMBC5RumbleRAMBatt rawType = 0x1E
)

var ramSizeTable = map[uint8]uint32{
	0x00: 0,
	0x01: 2 * 1024, // unofficial, some docs list this as used
	0x02: 8 * 1024,
	0x03: 32 * 1024,
	0x04: 128 * 1024,
	0x05: 64 * 1024,
}

var nintendoLogo = [48]byte{
	0xCE, 0xED, 0x66, 0x66, 0xCC, 0x0D, 0x00, 0x0B,
	0x03, 0x73, 0x00, 0x83, 0x00, 0x0C, 0x00, 0x0D,
	0x00, 0x08, 0x11, 0x1F, 0x88, 0x89, 0x00, 0x0E,
	0xDC, 0xCC, 0x6E, 0xE6, 0xDD, 0xDD, 0xD9, 0x99,
	0xBB, 0xBB, 0x67, 0x63, 0x6E, 0x0E, 0xEC, 0xCC,
	0xDD, 0xDC, 0x99, 0x9F, 0xBB, 0xB9, 0x33, 0x3E,
}

var logoFNV = bits.FNV1a32(nintendoLogo[:])

// Header is the immutable, parsed cartridge header (§3 invariant:
// "once parsed it is immutable for the session").
type Header struct {
	Title            string
	ManufacturerCode string
	Console          Console
	Mode             Mode
	Mapper           Mapper
	HasRAM           bool
	RAMSize          uint32
	ROMBanks         int
	HasRTC           bool
	HasRumble        bool
	HasBattery       bool

	OldLicenseeCode uint8
	NewLicenseeCode string
	HeaderChecksum  uint8
	GlobalChecksum  uint16

	LogoValid       bool
	ChecksumValid   bool
	ComputedHdrSum  uint8
	ComputedLogoFNV uint32
}

// Parse decodes the 0x0100-0x014F header window of rom. rom must be at
// least 0x150 bytes. Bad checksum/logo produce non-fatal warnings
// (returned alongside the header); an unrecognised mapper byte, or RTC
// / rumble requested on an incompatible mapper, is fatal, per §7.
func Parse(rom []byte) (Header, []*corerr.Error) {
	var warnings []*corerr.Error
	if len(rom) < 0x150 {
		return Header{}, []*corerr.Error{corerr.BadROM(true, "ROM image too small to contain a header: %d bytes", len(rom))}
	}

	h := Header{}

	switch rom[0x0143] {
	case 0x80:
		h.Mode = ModeCGBSupported
		h.Console = ConsoleCGB
	case 0xC0:
		h.Mode = ModeCGBOnly
		h.Console = ConsoleCGB
	default:
		h.Mode = ModeDMGOnly
		h.Console = ConsoleDMG
	}

	if h.Mode == ModeDMGOnly {
		h.Title = trimTitle(rom[0x0134:0x0144])
	} else {
		h.Title = trimTitle(rom[0x0134:0x0143])
	}
	h.ManufacturerCode = string(rom[0x013F:0x0143])
	h.NewLicenseeCode = string(rom[0x0144:0x0146])
	h.OldLicenseeCode = rom[0x014B]

	t := rawType(rom[0x0147])
	h.Mapper, h.HasRAM, h.HasBattery, h.HasRTC, h.HasRumble = decodeMapper(t)
	if h.Mapper == MapperUnknown {
		warnings = append(warnings, corerr.BadROM(true, "unrecognised cartridge type byte 0x%02X", rom[0x0147]))
		return h, warnings
	}

	h.ROMBanks = 2 << rom[0x0148]
	if h.Mapper == MapperMBC2 {
		h.RAMSize = 512 // 512 4-bit nibbles
	} else {
		h.RAMSize = ramSizeTable[rom[0x0149]]
	}
	h.HeaderChecksum = rom[0x014D]
	h.GlobalChecksum = uint16(rom[0x014E])<<8 | uint16(rom[0x014F])

	h.ComputedHdrSum = computeHeaderChecksum(rom)
	h.ChecksumValid = h.ComputedHdrSum == h.HeaderChecksum
	if !h.ChecksumValid {
		warnings = append(warnings, corerr.BadROM(false, "header checksum mismatch: computed 0x%02X, stored 0x%02X", h.ComputedHdrSum, h.HeaderChecksum))
	}

	h.ComputedLogoFNV = bits.FNV1a32(rom[0x0104:0x0134])
	h.LogoValid = h.ComputedLogoFNV == logoFNV
	if !h.LogoValid {
		warnings = append(warnings, corerr.BadROM(false, "Nintendo logo hash mismatch"))
	}

	if h.HasRTC && h.Mapper != MapperMBC3 {
		return h, append(warnings, corerr.UnsupportedHardware("RTC requested on a %s cartridge", h.Mapper))
	}
	if h.HasRumble && h.Mapper != MapperMBC5 {
		return h, append(warnings, corerr.UnsupportedHardware("rumble requested on a %s cartridge", h.Mapper))
	}

	return h, warnings
}

func trimTitle(b []byte) string {
	i := 0
	for i < len(b) && b[i] != 0x00 {
		i++
	}
	return string(b[:i])
}

func computeHeaderChecksum(rom []byte) uint8 {
	var sum uint8
	for addr := 0x0134; addr <= 0x014C; addr++ {
		sum = sum - rom[addr] - 1
	}
	return sum
}

func decodeMapper(t rawType) (mapper Mapper, hasRAM, hasBattery, hasRTC, hasRumble bool) {
	switch t {
	case typeROM:
		return MapperNone, false, false, false, false
	case typeMBC1:
		return MapperMBC1, false, false, false, false
	case typeMBC1RAM:
		return MapperMBC1, true, false, false, false
	case typeMBC1RAMBattery:
		return MapperMBC1, true, true, false, false
	case typeMBC2:
		return MapperMBC2, true, false, false, false
	case typeMBC2Battery:
		return MapperMBC2, true, true, false, false
	case typeROMRAM:
		return MapperNone, true, false, false, false
	case typeROMRAMBattery:
		return MapperNone, true, true, false, false
	case typeMBC3TimerBattery:
		return MapperMBC3, false, true, true, false
	case typeMBC3TimerRAMBatt:
		return MapperMBC3, true, true, true, false
	case typeMBC3:
		return MapperMBC3, false, false, false, false
	case typeMBC3RAM:
		return MapperMBC3, true, false, false, false
	case typeMBC3RAMBattery:
		return MapperMBC3, true, true, false, false
	case typeMBC5:
		return MapperMBC5, false, false, false, false
	case typeMBC5RAM:
		return MapperMBC5, true, false, false, false
	case typeMBC5RAMBattery:
		return MapperMBC5, true, true, false, false
	case typeMBC5Rumble:
		return MapperMBC5, false, false, false, true
	case typeMBC5RumbleRAM:
		return MapperMBC5, true, false, false, true
	case typeMBC5RumbleRAMBatt:
		return MapperMBC5, true, true, false, true
	default:
		return MapperUnknown, false, false, false, false
	}
}

func (h Header) String() string {
	return fmt.Sprintf("%s [%s] mapper=%s rom=%dx16KiB ram=%dB rtc=%v rumble=%v",
		h.Title, h.Hardware(), h.Mapper, h.ROMBanks, h.RAMSize, h.HasRTC, h.HasRumble)
}

func (h Header) Hardware() string {
	switch h.Console {
	case ConsoleCGB:
		return "CGB"
	case ConsoleAGB:
		return "AGB"
	default:
		return "DMG"
	}
}

// ApplyMulticart forces the multicart MBC1 layout (--multicart flag,
// §6), overriding the heuristic SniffMulticart would otherwise apply.
func (h *Header) ApplyMulticart() {
	if h.Mapper == MapperMBC1 {
		h.Mapper = MapperMBC1Multicart
	}
}

// SniffMulticart applies the same heuristic as the teacher's MBC1
// implementation: an 8Mbit ROM in which at least two of its four 256KiB
// quarters carry a copy of the Nintendo logo at the expected cartridge-header
// offset is almost certainly an MBC1 multicart.
func (h *Header) SniffMulticart(rom []byte) {
	if h.Mapper != MapperMBC1 || len(rom) != 1024*1024 {
		return
	}
	matches := 0
	for bank := 0; bank < 4; bank++ {
		base := bank * 0x40000
		ok := true
		for i, b := range nintendoLogo {
			if rom[base+0x0104+i] != b {
				ok = false
				break
			}
		}
		if ok {
			matches++
		}
	}
	if matches > 1 {
		h.Mapper = MapperMBC1Multicart
	}
}
