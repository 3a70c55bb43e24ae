/*
NAME
  aiff_test.go

DESCRIPTION
  aiff_test.go contains tests for the aiff package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package aiff

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/sm64sound/extractor/binio"
	"github.com/sm64sound/extractor/codec/adpcm"
)

// findChunk returns the data of the first chunk tagged want in an AIFF/
// AIFF-C byte stream, starting the scan right after the FORM/size/form-type
// header.
func findChunk(out []byte, want string) ([]byte, bool) {
	for pos := 12; pos+8 <= len(out); {
		tag := string(out[pos : pos+4])
		sz := int(out[pos+4])<<24 | int(out[pos+5])<<16 | int(out[pos+6])<<8 | int(out[pos+7])
		start := pos + 8
		if tag == want {
			return out[start : start+sz], true
		}
		pos = start + sz
		if sz%2 != 0 {
			pos++
		}
	}
	return nil, false
}

func testBook() *adpcm.Book {
	raw := make([]int16, 2*2*8)
	for i := range raw {
		raw[i] = int16((i%5)*37 - 70)
	}
	return adpcm.NewBook(2, 2, raw)
}

// testSample returns nFrames worth of VADPCM data encoded from an
// arbitrary but deterministic PCM waveform, using the given book.
func testSample(book *adpcm.Book, nFrames int) []byte {
	state := make([]int32, adpcm.SamplesPerFrame)
	out := make([]byte, 0, nFrames*adpcm.FrameSize)
	for f := 0; f < nFrames; f++ {
		in := make([]int16, adpcm.SamplesPerFrame)
		for i := range in {
			in[i] = int16((f*adpcm.SamplesPerFrame + i - 128) * 97)
		}
		out = append(out, book.EncodeFrame(in, state)...)
	}
	return out
}

func TestPstringPadding(t *testing.T) {
	tests := []struct {
		s    string
		want int
	}{
		{"VADPCMCODES", 12}, // 1+11=12, already even
		{"end", 4},          // 1+3=4, already even
		{"ab", 4},           // 1+2=3, odd, padded to 4
	}
	for _, test := range tests {
		got := len(pstring(test.s))
		if got != test.want {
			t.Errorf("len(pstring(%q)) = %d, want %d", test.s, got, test.want)
		}
	}
}

func TestWriteRoundTrip(t *testing.T) {
	book := testBook()
	data := testSample(book, 4)

	out, err := Write(data, book, Loop{}, []float64{1.0})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}
	if string(out[0:4]) != "FORM" {
		t.Fatalf("output does not start with FORM, got %q", out[0:4])
	}
	if string(out[8:12]) != "AIFF" {
		t.Fatalf("output is not a plain AIFF, got %q", out[8:12])
	}

	var size [4]byte
	copy(size[:], out[4:8])
	gotSize := int(size[0])<<24 | int(size[1])<<16 | int(size[2])<<8 | int(size[3])
	if gotSize != len(out)-8 {
		t.Errorf("FORM size = %d, want %d", gotSize, len(out)-8)
	}
}

func TestWriteRejectsUnalignedData(t *testing.T) {
	book := testBook()
	_, err := Write([]byte{1, 2, 3}, book, Loop{}, []float64{1.0})
	if err == nil {
		t.Fatal("expected an error for data not a multiple of 9 bytes")
	}
}

func TestWriteWithLoop(t *testing.T) {
	book := testBook()
	data := testSample(book, 4)
	loop := Loop{Start: 0, End: 32, Count: 1, State: make([]int16, 16)}

	out, err := Write(data, book, loop, []float64{1.0})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	foundMark, foundInst := false, false
	for pos := 12; pos+8 <= len(out); {
		tag := string(out[pos : pos+4])
		sz := int(out[pos+4])<<24 | int(out[pos+5])<<16 | int(out[pos+6])<<8 | int(out[pos+7])
		if tag == tagMARK {
			foundMark = true
		}
		if tag == tagINST {
			foundInst = true
		}
		pos += 8 + sz
		if sz%2 != 0 {
			pos++
		}
	}
	if !foundMark || !foundInst {
		t.Errorf("looped sample missing MARK/INST chunks: MARK=%v INST=%v", foundMark, foundInst)
	}
}

func TestWriteSampleRateFollowsTuning(t *testing.T) {
	tests := []struct {
		name    string
		tunings []float64
		want    float64
	}{
		{"unity", []float64{1.0}, 32000},
		{"half", []float64{0.5}, 16000},
		{"double", []float64{2.0}, 64000},
		{"shared range straddling 1.0", []float64{0.8, 1.2}, 32000},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			book := testBook()
			data := testSample(book, 4)

			out, err := Write(data, book, Loop{}, test.tunings)
			if err != nil {
				t.Fatalf("Write error: %v", err)
			}

			comm, ok := findChunk(out, tagCOMM)
			if !ok {
				t.Fatal("no COMM chunk found in output")
			}
			got, err := binio.ParseExtended80(comm[8:18])
			if err != nil {
				t.Fatalf("ParseExtended80 error: %v", err)
			}
			if math.Abs(got-test.want) > 1e-6 {
				t.Errorf("COMM.sampleRate = %v, want %v", got, test.want)
			}
		})
	}
}

func TestWriteThenExtractCodebookRoundTrip(t *testing.T) {
	book := testBook()
	data := testSample(book, 4)

	out, err := Write(data, book, Loop{}, []float64{1.0})
	if err != nil {
		t.Fatalf("Write error: %v", err)
	}

	got, found, err := ExtractCodebook(out)
	if err != nil {
		t.Fatalf("ExtractCodebook error: %v", err)
	}
	if !found {
		t.Fatal("ExtractCodebook did not find the codebook Write embedded")
	}
	if diff := cmp.Diff(book, got); diff != "" {
		t.Errorf("ExtractCodebook codebook mismatch (-want +got):\n%s", diff)
	}
}
