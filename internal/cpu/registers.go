package cpu

// RegisterPair addresses two 8-bit registers as one 16-bit value: high
// byte first, low byte second.
type RegisterPair [2]*uint8

// Uint16 combines the pair into a single 16-bit value.
func (p RegisterPair) Uint16() uint16 {
	return uint16(*p[0])<<8 | uint16(*p[1])
}

// SetUint16 splits v across the pair's high and low registers.
func (p RegisterPair) SetUint16(v uint16) {
	*p[0] = uint8(v >> 8)
	*p[1] = uint8(v)
}

// Registers holds the Sharp LR35902 register file. BC/DE/HL/AF are
// views over the same storage as B/C, D/E, H/L, A/F, so writing
// through either form is visible through the other.
type Registers struct {
	A, F uint8
	B, C uint8
	D, E uint8
	H, L uint8

	SP uint16
	PC uint16

	BC, DE, HL, AF RegisterPair

	// registerPointers indexes the 8-bit operand encoding used
	// throughout the opcode map: B, C, D, E, H, L, (HL) placeholder, A.
	// Index 6 is never dereferenced directly; callers special-case it
	// to go through memory instead.
	registerPointers [8]*uint8
}

func (r *Registers) wire() {
	r.BC = RegisterPair{&r.B, &r.C}
	r.DE = RegisterPair{&r.D, &r.E}
	r.HL = RegisterPair{&r.H, &r.L}
	r.AF = RegisterPair{&r.A, &r.F}
	r.registerPointers = [8]*uint8{&r.B, &r.C, &r.D, &r.E, &r.H, &r.L, nil, &r.A}
}

// registerPairWithSP indexes the "rr" field shared by 16-bit loads,
// INC rr/DEC rr and ADD HL,rr, where index 3 means SP rather than AF.
func (c *CPU) registerPairWithSP(idx uint8) uint16 {
	switch idx & 3 {
	case 0:
		return c.BC.Uint16()
	case 1:
		return c.DE.Uint16()
	case 2:
		return c.HL.Uint16()
	default:
		return c.SP
	}
}

func (c *CPU) setRegisterPairWithSP(idx uint8, v uint16) {
	switch idx & 3 {
	case 0:
		c.BC.SetUint16(v)
	case 1:
		c.DE.SetUint16(v)
	case 2:
		c.HL.SetUint16(v)
	default:
		c.SP = v
	}
}

// registerPairWithAF indexes the "rr" field shared by PUSH/POP, where
// index 3 means AF rather than SP.
func (c *CPU) registerPairWithAF(idx uint8) RegisterPair {
	switch idx & 3 {
	case 0:
		return c.BC
	case 1:
		return c.DE
	case 2:
		return c.HL
	default:
		return c.AF
	}
}
