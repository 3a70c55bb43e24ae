/*
NAME
  main.go

DESCRIPTION
  extractsounds is a command-line program that extracts the fixed sound
  asset tree (sequences, sample banks, and per-sample ADPCM predictor
  tables) out of a Super Mario 64 (US) ROM image.

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is a command-line program for extracting the sound asset
// tree (sequences, sample banks, per-sample .table codebooks) out of a
// Super Mario 64 (US) ROM image.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ausocean/utils/logging"
	goaudio "github.com/go-audio/aiff"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/sm64sound/extractor/codec/adpcmbook"
	"github.com/sm64sound/extractor/container/aiff"
	"github.com/sm64sound/extractor/rom"
)

// Logging configuration.
const (
	logMaxSize   = 500 // MB
	logMaxBackup = 10
	logMaxAge    = 28 // days
	logVerbosity = logging.Debug
	logSuppress  = true
)

// Exit codes, matching extract_sounds.cpp's main/extract_m64s/write_aiff/
// write_table return values.
const (
	exitOK = iota
	exitROMOpenFailed
	exitSequenceWriteFailed
	exitAIFFDirFailed
	exitAIFFWriteFailed
	exitTableAIFFOpenFailed
	exitTableFileOpenFailed
	exitTableWriteFailed
)

func main() {
	romPath := flag.String("rom", "baserom.us.z64", "path to the Super Mario 64 (US) ROM image")
	outDir := flag.String("out", ".", "directory the sound asset tree is written under")
	logFile := flag.String("log", "extractsounds.log", "path to the log file")
	flag.Parse()

	fileLog := &lumberjack.Logger{
		Filename:   *logFile,
		MaxSize:    logMaxSize,
		MaxBackups: logMaxBackup,
		MaxAge:     logMaxAge,
	}
	l := logging.New(logVerbosity, fileLog, logSuppress)

	os.Exit(run(*romPath, *outDir, l))
}

func run(romPath, outDir string, l logging.Logger) int {
	data, err := rom.Load(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open %s!\n", romPath)
		l.Error("failed to open ROM", "path", romPath, "error", err)
		return exitROMOpenFailed
	}
	l.Info("loaded ROM", "path", romPath, "bytes", len(data))

	if code := extractSequences(data, outDir, l); code != exitOK {
		fmt.Fprintln(os.Stderr, "Failed to extract all m64s!")
		return code
	}

	if code := extractAIFFs(data, outDir, l); code != exitOK {
		fmt.Fprintln(os.Stderr, "Failed to extract all aiffs!")
		return code
	}

	if code := extractTables(outDir, l); code != exitOK {
		fmt.Fprintln(os.Stderr, "Failed to extract all tables!")
		return code
	}

	return exitOK
}

// extractSequences carves every .m64 sequence out of the ROM and writes it
// under outDir, mirroring extract_sounds.cpp's extract_m64s.
func extractSequences(data []byte, outDir string, l logging.Logger) int {
	seqs, err := rom.ExtractSequences(data)
	if err != nil {
		l.Error("failed to carve sequences", "error", err)
		return exitSequenceWriteFailed
	}

	for _, seq := range seqs {
		path := filepath.Join(outDir, seq.Filename)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to create parent directory for %s: %v\n", path, err)
		}
		if err := os.WriteFile(path, seq.Data, 0o644); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to open %s!\n", path)
			l.Error("failed to write sequence", "path", path, "error", err)
			return exitSequenceWriteFailed
		}
		l.Debug("wrote sequence", "path", path, "bytes", len(seq.Data))
	}
	return exitOK
}

// extractAIFFs parses the ROM's sample banks and writes one re-encoded,
// bit-exact AIFF file per sample, mirroring extract_sounds.cpp's
// extract_aiffs/write_aiff.
func extractAIFFs(data []byte, outDir string, l logging.Logger) int {
	banks, err := rom.LoadBanks(data)
	if err != nil {
		l.Error("failed to parse sample banks", "error", err)
		return exitAIFFWriteFailed
	}

	for _, bank := range banks {
		for _, entry := range bank.Entries {
			path := filepath.Join(outDir, entry.Filename)
			if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to create directory for: %s: %v\n", path, err)
				return exitAIFFDirFailed
			}

			out, err := aiff.Write(entry.Data, entry.Book, entry.Loop, entry.Tunings)
			if err != nil {
				l.Error("failed to encode aiff", "path", path, "error", err)
				return exitAIFFWriteFailed
			}
			if err := os.WriteFile(path, out, 0o644); err != nil {
				fmt.Fprintf(os.Stderr, "Failed to open: %s!\n", path)
				l.Error("failed to write aiff", "path", path, "error", err)
				return exitAIFFWriteFailed
			}
			l.Debug("wrote aiff", "path", path, "bytes", len(out))
		}
	}
	return exitOK
}

// extractTables walks every .aiff file already written under outDir
// (ROM-derived and external alike) and produces a matching .table
// predictor codebook file, mirroring extract_sounds.cpp's
// extract_tables/write_table.
func extractTables(outDir string, l logging.Logger) int {
	var code int
	err := rom.WalkAIFFs(outDir, func(path string) error {
		c := writeTable(path, l)
		if c != exitOK {
			code = c
			return fmt.Errorf("failed writing table for %s", path)
		}
		return nil
	})
	if err != nil && code == exitOK {
		code = exitTableWriteFailed
	}
	return code
}

// writeTable produces the .table file for a single .aiff file, preferring
// an embedded VADPCMCODES chunk and falling back to LBG estimation from the
// file's decoded PCM, mirroring extract_sounds.cpp's write_table.
func writeTable(aiffPath string, l logging.Logger) int {
	data, err := os.ReadFile(aiffPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open: %s!\n", aiffPath)
		l.Error("failed to open aiff for table extraction", "path", aiffPath, "error", err)
		return exitTableAIFFOpenFailed
	}

	tablePath := strings.Replace(aiffPath, "aiff", "table", 1)

	book, found, err := aiff.ExtractCodebook(data)
	if err != nil {
		l.Error("failed to scan aiff for codebook", "path", aiffPath, "error", err)
		return exitTableAIFFOpenFailed
	}

	if !found {
		dec := goaudio.NewDecoder(bytes.NewReader(data))
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			l.Error("failed to decode aiff pcm", "path", aiffPath, "error", err)
			return exitTableWriteFailed
		}
		samples := make([]int16, len(buf.Data))
		for i, v := range buf.Data {
			samples[i] = int16(v)
		}
		var overflows int
		book, overflows, err = adpcmbook.Estimate(samples)
		if err != nil {
			l.Error("failed to estimate codebook", "path", aiffPath, "error", err)
			return exitTableWriteFailed
		}
		if overflows > 0 {
			l.Warning("codebook estimate clipped some coefficients", "path", aiffPath, "overflows", overflows)
		}
	}

	f, err := os.Create(tablePath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open: %s!\n", tablePath)
		l.Error("failed to open table file", "path", tablePath, "error", err)
		return exitTableFileOpenFailed
	}
	defer f.Close()

	if err := adpcmbook.WriteTable(f, book); err != nil {
		fmt.Fprintln(os.Stderr, "Failed to write codebook!")
		l.Error("failed to write table", "path", tablePath, "error", err)
		return exitTableWriteFailed
	}
	l.Debug("wrote table", "path", tablePath, "extracted", found)
	return exitOK
}
