package bits

import "testing"

func TestValSetReset(t *testing.T) {
	var b uint8 = 0b0000_0100
	if !Test(b, 2) {
		t.Fatal("expected bit 2 set")
	}
	if Val(b, 2) != 1 {
		t.Fatal("expected Val(b, 2) == 1")
	}
	if Test(Reset(b, 2), 2) {
		t.Fatal("expected bit 2 cleared")
	}
	if !Test(Set(0, 5), 5) {
		t.Fatal("expected bit 5 set")
	}
}

func TestSignExtend8(t *testing.T) {
	cases := []struct {
		v    uint8
		n    uint
		want int32
	}{
		{0x7F, 8, 127},
		{0x80, 8, -128},
		{0x0F, 4, -1},
		{0x07, 4, 7},
	}
	for _, c := range cases {
		if got := SignExtend8(c.v, c.n); got != c.want {
			t.Errorf("SignExtend8(%#x, %d) = %d, want %d", c.v, c.n, got, c.want)
		}
	}
}

func TestRotateRight32(t *testing.T) {
	if got := RotateRight32(0xBEEFDEAD, 8); got != 0xADBEEFDE {
		t.Errorf("RotateRight32 = %#x, want %#x", got, 0xADBEEFDE)
	}
	if got := RotateRight32(0x12345678, 0); got != 0x12345678 {
		t.Errorf("rotate by 0 should be identity, got %#x", got)
	}
}

func TestBCDRoundTrip(t *testing.T) {
	for v := uint8(0); v < 100; v++ {
		if got := FromBCD(ToBCD(v)); got != v {
			t.Errorf("BCD round trip failed for %d: got %d", v, got)
		}
	}
}

func TestPopCount16(t *testing.T) {
	if PopCount16(0xFFFF) != 16 {
		t.Fatal("expected 16 bits set")
	}
	if PopCount16(0) != 0 {
		t.Fatal("expected 0 bits set")
	}
	if PopCount16(0b1010_0000_0000_0001) != 3 {
		t.Fatal("expected 3 bits set")
	}
}
