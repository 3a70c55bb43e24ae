/*
NAME
  soundbank_test.go

DESCRIPTION
  soundbank_test.go contains tests for the soundbank package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package soundbank

import (
	"testing"

	"github.com/sm64sound/extractor/assets"
	"github.com/sm64sound/extractor/binio"
)

func putU32(buf []byte, off int, v uint32) { binio.PutU32(buf, off, v) }
func putU16(buf []byte, off int, v uint16) { binio.PutU16(buf, off, v) }

func TestParseSeqfileCTL(t *testing.T) {
	// One CTL entry of length 16, immediately after the 16-byte-aligned
	// header+entry-table region.
	data := make([]byte, 32)
	putU16(data, 0, assets.TypeCTL)
	putU16(data, 2, 1)
	putU32(data, 4, 16) // offset, must equal align(4+1*8,16)=16
	putU32(data, 8, 16) // length

	entries, err := ParseSeqfile(data, assets.TypeCTL)
	if err != nil {
		t.Fatalf("ParseSeqfile error: %v", err)
	}
	if len(entries) != 1 || entries[0].Offset != 16 || entries[0].Size != 16 {
		t.Fatalf("ParseSeqfile = %+v, want one entry {16,16}", entries)
	}
}

func TestParseSeqfileWrongMagic(t *testing.T) {
	data := make([]byte, 16)
	putU16(data, 0, assets.TypeTBL)
	_, err := ParseSeqfile(data, assets.TypeCTL)
	if err == nil {
		t.Fatal("expected an error for mismatched magic")
	}
}

func TestParseSeqfileTrailingNonzero(t *testing.T) {
	data := make([]byte, 32)
	putU16(data, 0, assets.TypeCTL)
	putU16(data, 2, 1)
	putU32(data, 4, 16)
	putU32(data, 8, 8)
	data[31] = 1 // nonzero trailing byte past the last entry's end
	_, err := ParseSeqfile(data, assets.TypeCTL)
	if err == nil {
		t.Fatal("expected an error for a nonzero trailing byte")
	}
}

func TestParseTBLMergesSharedBanks(t *testing.T) {
	data := make([]byte, 64)
	entries := []assets.SeqfileEntry{
		{Offset: 0, Size: 16},
		{Offset: 16, Size: 16},
		{Offset: 0, Size: 16}, // shares bank 0's address
	}
	banks := ParseTBL(data, entries)
	if len(banks) != 2 {
		t.Fatalf("ParseTBL produced %d banks, want 2", len(banks))
	}
	if len(banks[0].CtlIndices) != 2 || banks[0].CtlIndices[0] != 0 || banks[0].CtlIndices[1] != 2 {
		t.Errorf("bank 0 ctlIndices = %v, want [0 2]", banks[0].CtlIndices)
	}
	if len(banks[1].CtlIndices) != 1 || banks[1].CtlIndices[0] != 1 {
		t.Errorf("bank 1 ctlIndices = %v, want [1]", banks[1].CtlIndices)
	}
}

// buildSample writes a book+loop+sample record triple into ctlData at the
// given offsets and returns the 20-byte sample record.
func buildSample(ctlData []byte, bookAddr, loopAddr uint32, pcmAddr, sampleSize uint32) []byte {
	putU32(ctlData, int(bookAddr), 2) // order
	putU32(ctlData, int(bookAddr)+4, 2) // npredictors
	for i := 0; i < 32; i++ {
		putU16(ctlData, int(bookAddr)+8+i*2, uint16(i*3-20))
	}

	putU32(ctlData, int(loopAddr), 0)  // start
	putU32(ctlData, int(loopAddr)+4, 16) // end
	putU32(ctlData, int(loopAddr)+8, 0)  // count (no state array)
	putU32(ctlData, int(loopAddr)+12, 0) // pad

	sample := make([]byte, 20)
	putU32(sample, 0, 0)
	putU32(sample, 4, pcmAddr)
	putU32(sample, 8, loopAddr)
	putU32(sample, 12, bookAddr)
	putU32(sample, 16, sampleSize)
	return sample
}

func TestParseSampleNewEntry(t *testing.T) {
	ctlData := make([]byte, 256)
	// Size 10 is even and 10%9 == 1, so the trailing byte is dropped.
	sample := buildSample(ctlData, 100, 150, 0, 10)

	bank := NewSampleBank(0, make([]byte, 16))
	if err := bank.parseSample(sample, ctlData, []float64{1.0}, "test.aiff"); err != nil {
		t.Fatalf("parseSample error: %v", err)
	}
	if len(bank.Entries) != 1 {
		t.Fatalf("parseSample produced %d entries, want 1", len(bank.Entries))
	}
	entry := bank.Entries[0]
	if entry.Filename != "test.aiff" {
		t.Errorf("Filename = %q, want test.aiff", entry.Filename)
	}
	if len(entry.Data) != 9 {
		t.Errorf("Data length = %d, want 9", len(entry.Data))
	}
	if entry.Book.Order != 2 || entry.Book.NPredictors != 2 {
		t.Errorf("Book shape = (%d,%d), want (2,2)", entry.Book.Order, entry.Book.NPredictors)
	}
	if entry.Loop.End != 16 {
		t.Errorf("Loop.End = %d, want 16", entry.Loop.End)
	}
}

func TestParseSampleSkipsEmptyFilename(t *testing.T) {
	ctlData := make([]byte, 256)
	sample := buildSample(ctlData, 100, 150, 0, 9)
	bank := NewSampleBank(0, make([]byte, 16))
	if err := bank.parseSample(sample, ctlData, nil, ""); err != nil {
		t.Fatalf("parseSample error: %v", err)
	}
	if len(bank.Entries) != 0 {
		t.Errorf("parseSample with empty filename added an entry")
	}
}

func TestParseSampleRejectsOddSize(t *testing.T) {
	ctlData := make([]byte, 256)
	sample := buildSample(ctlData, 100, 150, 0, 7)
	bank := NewSampleBank(0, make([]byte, 16))
	if err := bank.parseSample(sample, ctlData, nil, "x.aiff"); err == nil {
		t.Fatal("expected an error for an odd sample size")
	}
}

func TestParseBankHeaderRejectsBadShared(t *testing.T) {
	data := make([]byte, 16)
	putU32(data, 8, 2) // shared must be 0 or 1
	if _, err := ParseBankHeader(data); err == nil {
		t.Fatal("expected an error for shared != 0,1")
	}
}
