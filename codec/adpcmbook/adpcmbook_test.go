/*
NAME
  adpcmbook_test.go

DESCRIPTION
  adpcmbook_test.go contains tests for the adpcmbook package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package adpcmbook

import (
	"bytes"
	"math"
	"strings"
	"testing"
)

func almostEqual(a, b, eps float64) bool { return math.Abs(a-b) < eps }

func TestAfromkKfromaRoundTrip(t *testing.T) {
	k := []float64{1.0, 0.5, -0.3}
	a := make([]float64, 3)
	afromk(k, a, 2)

	k2 := make([]float64, 3)
	if !kfroma(append([]float64(nil), a...), k2, 2) {
		t.Fatal("kfroma reported instability for a well-conditioned input")
	}
	for i := 1; i <= 2; i++ {
		if !almostEqual(k[i], k2[i], 1e-9) {
			t.Errorf("k2[%d] = %v, want %v", i, k2[i], k[i])
		}
	}
}

func TestDurbinStableSignal(t *testing.T) {
	// Autocorrelation of a signal with actual decay; division should stay
	// well-defined so no reflection coefficient should exceed unity.
	r := []float64{100, 50, 20}
	k := make([]float64, 3)
	a := make([]float64, 3)
	unstable := durbin(r, 2, k, a)
	if unstable != 0 {
		t.Errorf("durbin reported %d unstable coefficients, want 0", unstable)
	}
	if a[0] != 1.0 {
		t.Errorf("a[0] = %v, want 1.0", a[0])
	}
}

func TestDeriveEntryShape(t *testing.T) {
	row := []float64{1.0, 0.2, -0.1}
	raw, overflows := deriveEntry(row)
	if len(raw) != order*8 {
		t.Fatalf("deriveEntry returned %d values, want %d", len(raw), order*8)
	}
	if overflows != 0 {
		t.Errorf("deriveEntry reported %d overflows for small coefficients", overflows)
	}
}

func TestEstimateProducesTwoPredictorBook(t *testing.T) {
	samples := make([]int16, frameSize*40)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(float64(i)*0.1))
	}

	book, _, err := Estimate(samples)
	if err != nil {
		t.Fatalf("Estimate error: %v", err)
	}
	if book.Order != order || book.NPredictors != 2 {
		t.Fatalf("Estimate book shape = (%d,%d), want (%d,2)", book.Order, book.NPredictors, order)
	}
	if len(book.Raw) != 2*order*8 {
		t.Errorf("Estimate raw table length = %d, want %d", len(book.Raw), 2*order*8)
	}
}

func TestEstimateRejectsSilence(t *testing.T) {
	samples := make([]int16, frameSize*10)
	if _, _, err := Estimate(samples); err == nil {
		t.Fatal("expected an error estimating a codebook from silence")
	}
}

func TestWriteTableFormat(t *testing.T) {
	samples := make([]int16, frameSize*40)
	for i := range samples {
		samples[i] = int16(8000 * math.Sin(float64(i)*0.1))
	}
	book, _, err := Estimate(samples)
	if err != nil {
		t.Fatalf("Estimate error: %v", err)
	}

	var buf bytes.Buffer
	if err := WriteTable(&buf, book); err != nil {
		t.Fatalf("WriteTable error: %v", err)
	}

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 2+book.NPredictors*book.Order {
		t.Fatalf("WriteTable produced %d lines, want %d", len(lines), 2+book.NPredictors*book.Order)
	}
	if lines[0] != "2" || lines[1] != "2" {
		t.Errorf("WriteTable header = %q, %q, want \"2\", \"2\"", lines[0], lines[1])
	}
}
