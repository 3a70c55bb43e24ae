/*
NAME
  rom.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package rom loads a Super Mario 64 (US) ROM image and carves the fixed
// assets described by package assets out of it: sequence (.m64) files
// copied verbatim, and sound banks built from the embedded CTL/TBL tables
// (see package soundbank for the bank parsing itself). It also offers a
// directory walk over already-extracted .aiff files, for the supplemental
// per-sample .table generation pass that runs over both ROM-derived and
// external AIFC assets.
package rom

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sm64sound/extractor/assets"
	"github.com/sm64sound/extractor/soundbank"
)

// FormatError reports a violated structural invariant found while carving
// assets out of the ROM buffer.
type FormatError struct{ msg string }

func (e *FormatError) Error() string { return "rom: " + e.msg }

func formatErrorf(format string, args ...interface{}) error {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

// Load reads an entire ROM image into memory.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return data, nil
}

// Sequence is one carved .m64 sequence file, ready to be written to
// Filename.
type Sequence struct {
	Filename string
	Data     []byte
}

// ExtractSequences carves every sequence listed in assets.Sequences out of
// rom, mirroring extract_sounds.cpp's extract_m64s.
func ExtractSequences(rom []byte) ([]Sequence, error) {
	out := make([]Sequence, 0, len(assets.Sequences))
	for _, seq := range assets.Sequences {
		end := seq.Offset + seq.Size
		if uint64(end) > uint64(len(rom)) {
			return nil, formatErrorf("sequence %q at offset %d size %d exceeds ROM length %d", seq.Filename, seq.Offset, seq.Size, len(rom))
		}
		data := append([]byte(nil), rom[seq.Offset:end]...)
		out = append(out, Sequence{Filename: seq.Filename, Data: data})
	}
	return out, nil
}

// LoadBanks parses the ROM's embedded CTL/TBL seqfiles and fully resolves
// every sample bank's instrument, drum, and sample records, mirroring
// extract_sounds.cpp's extract_aiffs (the parsing half; writing the
// resulting AifcEntry values as AIFF files is the caller's job — see
// container/aiff.Write).
func LoadBanks(rom []byte) ([]*soundbank.SampleBank, error) {
	ctlInfo, ok := assets.Seqfiles["ctl"]
	if !ok {
		return nil, formatErrorf("no ctl seqfile entry in assets.Seqfiles")
	}
	tblInfo, ok := assets.Seqfiles["tbl"]
	if !ok {
		return nil, formatErrorf("no tbl seqfile entry in assets.Seqfiles")
	}

	ctlData, err := slice(rom, ctlInfo.Offset, ctlInfo.Size, "ctl")
	if err != nil {
		return nil, err
	}
	tblData, err := slice(rom, tblInfo.Offset, tblInfo.Size, "tbl")
	if err != nil {
		return nil, err
	}

	tblEntries, err := soundbank.ParseSeqfile(tblData, assets.TypeTBL)
	if err != nil {
		return nil, err
	}
	ctlEntries, err := soundbank.ParseSeqfile(ctlData, assets.TypeCTL)
	if err != nil {
		return nil, err
	}
	if len(ctlEntries) != len(tblEntries) {
		return nil, formatErrorf("ctl entry count %d does not match tbl entry count %d", len(ctlEntries), len(tblEntries))
	}

	banks := soundbank.ParseTBL(tblData, tblEntries)

	for ctlIndex, ctlEntry := range ctlEntries {
		bank := bankForCtlIndex(banks, uint32(ctlIndex))
		if bank == nil {
			return nil, formatErrorf("no sample bank claims ctl entry %d", ctlIndex)
		}
		entryData, err := slice(ctlData, ctlEntry.Offset, ctlEntry.Size, fmt.Sprintf("ctl entry %d", ctlIndex))
		if err != nil {
			return nil, err
		}
		if len(entryData) < 16 {
			return nil, formatErrorf("ctl entry %d is shorter than its 16-byte header", ctlIndex)
		}
		header, err := soundbank.ParseBankHeader(entryData[:16])
		if err != nil {
			return nil, err
		}
		if err := bank.ParseCTL(header, entryData[16:], ctlEntry.Offset); err != nil {
			return nil, err
		}
	}

	return banks, nil
}

func bankForCtlIndex(banks []*soundbank.SampleBank, ctlIndex uint32) *soundbank.SampleBank {
	for _, bank := range banks {
		for _, idx := range bank.CtlIndices {
			if idx == ctlIndex {
				return bank
			}
		}
	}
	return nil
}

func slice(data []byte, offset, size uint32, what string) ([]byte, error) {
	end := uint64(offset) + uint64(size)
	if end > uint64(len(data)) {
		return nil, formatErrorf("%s at offset %d size %d exceeds buffer length %d", what, offset, size, len(data))
	}
	return data[offset:end], nil
}

// WalkAIFFs calls fn with the path of every .aiff file found under root,
// supplementing the ROM-derived extraction with any external AIFC assets
// placed alongside it — the same recursive sweep extract_tables performs
// over the current working directory, expressed as a directory walk rather
// than assuming a fixed location.
func WalkAIFFs(root string, fn func(path string) error) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		if filepath.Ext(path) != ".aiff" {
			return nil
		}
		return fn(path)
	})
}
