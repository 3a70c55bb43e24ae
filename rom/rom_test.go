/*
NAME
  rom_test.go

DESCRIPTION
  rom_test.go contains tests for the rom package.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package rom

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sm64sound/extractor/assets"
)

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.z64")); err == nil {
		t.Fatal("expected an error loading a missing ROM file")
	}
}

func TestExtractSequences(t *testing.T) {
	maxEnd := uint32(0)
	for _, seq := range assets.Sequences {
		if end := seq.Offset + seq.Size; end > maxEnd {
			maxEnd = end
		}
	}
	rom := make([]byte, maxEnd)
	for i := range rom {
		rom[i] = byte(i)
	}

	seqs, err := ExtractSequences(rom)
	if err != nil {
		t.Fatalf("ExtractSequences error: %v", err)
	}
	if len(seqs) != len(assets.Sequences) {
		t.Fatalf("ExtractSequences returned %d sequences, want %d", len(seqs), len(assets.Sequences))
	}
	for i, seq := range seqs {
		want := assets.Sequences[i]
		if seq.Filename != want.Filename {
			t.Errorf("sequence %d filename = %q, want %q", i, seq.Filename, want.Filename)
		}
		if uint32(len(seq.Data)) != want.Size {
			t.Errorf("sequence %d size = %d, want %d", i, len(seq.Data), want.Size)
		}
		if len(seq.Data) > 0 && seq.Data[0] != rom[want.Offset] {
			t.Errorf("sequence %d does not start at the expected ROM offset", i)
		}
	}
}

func TestExtractSequencesTruncatedROM(t *testing.T) {
	if _, err := ExtractSequences(make([]byte, 10)); err == nil {
		t.Fatal("expected an error carving sequences from a too-short ROM")
	}
}

func TestWalkAIFFsFindsOnlyAIFFs(t *testing.T) {
	dir := t.TempDir()
	files := []string{"a.aiff", "sub/b.aiff", "c.table", "d.txt"}
	for _, f := range files {
		full := filepath.Join(dir, f)
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			t.Fatalf("MkdirAll: %v", err)
		}
		if err := os.WriteFile(full, nil, 0o644); err != nil {
			t.Fatalf("WriteFile: %v", err)
		}
	}

	var found []string
	err := WalkAIFFs(dir, func(path string) error {
		found = append(found, path)
		return nil
	})
	if err != nil {
		t.Fatalf("WalkAIFFs error: %v", err)
	}
	if len(found) != 2 {
		t.Fatalf("WalkAIFFs found %d files, want 2: %v", len(found), found)
	}
}
