package cpu

import "testing"

func TestCBBitDoesNotModifyOperand(t *testing.T) {
	c, bus, _, _ := newTestCPU()
	c.B = 0x00
	bus.load(0, 0xCB, 0x70) // BIT 6,B
	c.Step()
	if c.B != 0x00 {
		t.Fatal("BIT must not modify its operand")
	}
	if !c.isFlagSet(flagZero) {
		t.Fatal("expected Z set: bit 6 of 0x00 is clear")
	}
	if !c.isFlagSet(flagHalfCarry) {
		t.Fatal("BIT always sets H")
	}
}

func TestCBSetAndResOnMemoryOperand(t *testing.T) {
	c, bus, _, _ := newTestCPU()
	c.H, c.L = 0xC0, 0x00
	bus.mem[0xC000] = 0x00
	bus.load(0, 0xCB, 0xE6) // SET 4,(HL)
	c.Step()
	if bus.mem[0xC000] != 0x10 {
		t.Fatalf("expected bit 4 set in memory, got %#x", bus.mem[0xC000])
	}

	bus.load(2, 0xCB, 0xA6) // RES 4,(HL)
	c.Step()
	if bus.mem[0xC000] != 0x00 {
		t.Fatalf("expected bit 4 cleared, got %#x", bus.mem[0xC000])
	}
}

func TestCBSwapNibbles(t *testing.T) {
	c, bus, _, _ := newTestCPU()
	c.A = 0xAB
	bus.load(0, 0xCB, 0x37) // SWAP A
	c.Step()
	if c.A != 0xBA {
		t.Fatalf("expected 0xBA, got %#x", c.A)
	}
}
