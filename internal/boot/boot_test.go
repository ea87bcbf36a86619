package boot

import "testing"

func TestLoadRejectsBadLength(t *testing.T) {
	if _, err := Load(make([]byte, 100)); err == nil {
		t.Fatal("expected an error for an invalid boot ROM length")
	}
}

func TestLoadReportsUnknownModel(t *testing.T) {
	raw := make([]byte, 256)
	r, err := Load(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.Model() != "unknown" {
		t.Fatalf("expected an all-zero image to be unrecognised, got %q", r.Model())
	}
}

func TestNilROMReportsNone(t *testing.T) {
	var r *ROM
	if r.Model() != "none" {
		t.Fatalf("expected nil ROM to report model 'none', got %q", r.Model())
	}
	if r.Checksum() != "" {
		t.Fatal("expected nil ROM to report an empty checksum")
	}
}
