/*
NAME
  adpcm_test.go

DESCRIPTION
  adpcm_test.go contains tests for the adpcm package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package adpcm

import (
	"bytes"
	"testing"
)

func TestQsample(t *testing.T) {
	tests := []struct {
		x, scale, want int32
	}{
		{0, 5, 0},
		{42, 0, 42},
		{1, 1, 0},
		{-1, 1, 0},
		{3, 1, 1},
		{-3, 1, -1},
	}
	for _, test := range tests {
		got := qsample(test.x, test.scale)
		if got != test.want {
			t.Errorf("qsample(%d,%d) = %d, want %d", test.x, test.scale, got, test.want)
		}
	}
}

func TestClampToS16(t *testing.T) {
	tests := []struct {
		x    int32
		want int16
	}{
		{0, 0},
		{32767, 32767},
		{32768, 32767},
		{100000, 32767},
		{-32768, -32768},
		{-32769, -32768},
		{-100000, -32768},
	}
	for _, test := range tests {
		got := clampToS16(test.x)
		if got != test.want {
			t.Errorf("clampToS16(%d) = %d, want %d", test.x, got, test.want)
		}
	}
}

func TestInnerProductFloorDivision(t *testing.T) {
	// out = -1: floor(-1/2048) must be -1, not 0 (truncation toward zero
	// would be wrong here).
	v1 := []int32{-1}
	v2 := []int32{1}
	got := innerProduct(1, v1, v2)
	if got != -1 {
		t.Errorf("innerProduct floor division = %d, want -1", got)
	}
}

func TestPackUnpackFrameRoundTrip(t *testing.T) {
	var nibbles [16]int32
	for i := range nibbles {
		nibbles[i] = int32((i*3 + 1) % 16)
	}
	frame := packFrame(7, 1, nibbles)
	if len(frame) != FrameSize {
		t.Fatalf("packFrame produced %d bytes, want %d", len(frame), FrameSize)
	}
	scaleExp, predictor, got, err := unpackFrame(frame)
	if err != nil {
		t.Fatalf("unpackFrame error: %v", err)
	}
	if scaleExp != 7 || predictor != 1 {
		t.Errorf("unpackFrame header = (%d,%d), want (7,1)", scaleExp, predictor)
	}
	if got != nibbles {
		t.Errorf("unpackFrame nibbles = %v, want %v", got, nibbles)
	}
}

// testBook returns a small order-2, 2-predictor book with arbitrary but
// bounded coefficients, enough to exercise the decode/encode/reencode
// pipeline without depending on a real ROM-extracted codebook.
func testBook() *Book {
	raw := make([]int16, 2*2*8)
	for i := range raw {
		raw[i] = int16((i%5)*37 - 70)
	}
	return NewBook(2, 2, raw)
}

func TestBitExactRoundTrip(t *testing.T) {
	book := testBook()
	state := make([]int32, SamplesPerFrame)

	in := make([]int16, SamplesPerFrame)
	for i := range in {
		in[i] = int16((i - 8) * 123)
	}

	encState := append([]int32(nil), state...)
	frame := book.EncodeFrame(in, encState)

	reenc := NewReencoder()
	decState := append([]int32(nil), state...)
	guess, err := reenc.ReencodeFrame(book, frame, decState)
	if err != nil {
		t.Fatalf("ReencodeFrame error: %v", err)
	}

	verifyState := append([]int32(nil), state...)
	reencoded := book.EncodeFrame(guess, verifyState)
	if !bytes.Equal(frame, reencoded) {
		t.Errorf("re-encoded frame does not match original: got %v, want %v", reencoded, frame)
	}
}

func TestEncBytes(t *testing.T) {
	tests := []struct{ samples, want int }{
		{0, 0},
		{1, 9},
		{16, 9},
		{17, 18},
		{32, 18},
	}
	for _, test := range tests {
		got := EncBytes(test.samples)
		if got != test.want {
			t.Errorf("EncBytes(%d) = %d, want %d", test.samples, got, test.want)
		}
	}
}
