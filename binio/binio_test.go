package binio

import (
	"math"
	"testing"
)

func TestAlign(t *testing.T) {
	tests := []struct {
		size, alignment, want int
	}{
		{0, 16, 0},
		{1, 16, 16},
		{16, 16, 16},
		{17, 16, 32},
		{100, 16, 112},
	}
	for _, test := range tests {
		got := Align(test.size, test.alignment)
		if got != test.want {
			t.Errorf("Align(%d,%d) = %d, want %d", test.size, test.alignment, got, test.want)
		}
	}
}

func TestReaderShortRead(t *testing.T) {
	r := NewReader([]byte{0x01, 0x02})
	got := r.Bytes(4)
	want := []byte{0x01, 0x02, 0x00, 0x00}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("Bytes() = %v, want %v", got, want)
		}
	}
}

func TestReaderU32(t *testing.T) {
	r := NewReader([]byte{0x00, 0x01, 0x86, 0xA0})
	if got, want := r.U32(), uint32(100000); got != want {
		t.Errorf("U32() = %d, want %d", got, want)
	}
}

func TestExtended80RoundTrip(t *testing.T) {
	rates := []float64{32000.0, 16000.0, 48000.0, 80000.0, 1.0, 44100.0}
	for _, rate := range rates {
		enc := SerializeExtended80(rate)
		got, err := ParseExtended80(enc)
		if err != nil {
			t.Fatalf("ParseExtended80(%v) error: %v", rate, err)
		}
		if math.Abs(got-rate) > 1e-6 {
			t.Errorf("round trip for %v: got %v", rate, got)
		}
	}
}

func TestExtended80Zero(t *testing.T) {
	enc := SerializeExtended80(0.0)
	got, err := ParseExtended80(enc)
	if err != nil {
		t.Fatalf("ParseExtended80(0) error: %v", err)
	}
	if got != 0.0 {
		t.Errorf("ParseExtended80(SerializeExtended80(0)) = %v, want 0", got)
	}
}
