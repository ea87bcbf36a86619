// Package boot holds an optional boot ROM image: the code mapped over
// 0x0000-0x00FF (0x0000-0x08FF on CGB, skipping 0x0100-0x01FF) before
// the cartridge header has been validated and the logo has scrolled
// in. Running without one is the common case; this package exists for
// sessions that supply a real boot ROM dump (§4.1 supplemented
// feature: pluggable boot ROM).
package boot

import (
	"crypto/md5"
	"encoding/hex"

	"gbxcore/internal/corerr"
)

// ROM is an immutable boot ROM image plus its identified model.
type ROM struct {
	raw      []byte
	checksum string
}

// Load validates b's length (256 bytes for DMG/MGB/SGB, 2304 for CGB)
// and returns the corresponding ROM.
func Load(b []byte) (*ROM, error) {
	if len(b) != 256 && len(b) != 2304 {
		return nil, corerr.BadROM(true, "invalid boot ROM length: %d bytes", len(b))
	}
	sum := md5.Sum(b)
	return &ROM{raw: b, checksum: hex.EncodeToString(sum[:])}, nil
}

// Read returns the byte at addr, which must be within the image.
func (r *ROM) Read(addr uint16) uint8 {
	return r.raw[addr]
}

// Len reports the image size: 256 or 2304.
func (r *ROM) Len() int {
	return len(r.raw)
}

// Checksum returns the MD5 checksum of the image as a hex string.
func (r *ROM) Checksum() string {
	if r == nil {
		return ""
	}
	return r.checksum
}

// Model identifies the hardware revision a known checksum belongs to,
// or "unknown" for an unrecognised image.
func (r *ROM) Model() string {
	if r == nil {
		return "none"
	}
	if model, ok := knownChecksums[r.checksum]; ok {
		return model
	}
	return "unknown"
}

var knownChecksums = map[string]string{
	checksumDMG0:   "Game Boy (DMG-0)",
	checksumDMG:    "Game Boy (DMG-01)",
	checksumMGB:    "Game Boy Pocket",
	checksumSGB:    "Super Game Boy",
	checksumSGB2:   "Super Game Boy 2",
	checksumCGB0:   "Game Boy Color (CGB-0)",
	checksumCGB:    "Game Boy Color (CGB-A/B/C/D/E)",
	checksumCGBAGB: "Game Boy Advance (AGB-001) GBC-compat",
}

const (
	checksumDMG0   = "a8f84a0ac44da5d3f0ee19f9cea80a8c"
	checksumDMG    = "32fbbd84168d3482956eb3c5051637f5"
	checksumMGB    = "71a378e71ff30b2d8a1f02bf5c7896aa"
	checksumSGB    = "d574d4f9c12f305074798f54c091a8b4"
	checksumSGB2   = "e0430bca9925fb9882148fd2dc2418c1"
	checksumCGB0   = "7c773f3c0b01cb73bca8e83227287b7f"
	checksumCGB    = "dbfce9db9deaa2567f6a84fde55f9680"
	checksumCGBAGB = "e6cefb5f7d352fab6681989763917c73"
)
