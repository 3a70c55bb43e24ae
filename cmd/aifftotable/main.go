/*
NAME
  main.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package main is a command-line program for producing a .table ADPCM
// predictor codebook file from a single .aiff file: an embedded
// VADPCMCODES chunk is extracted if present, otherwise one is estimated
// from the file's decoded PCM by vector quantization.
package main

import (
	"bytes"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/go-audio/aiff"

	"github.com/sm64sound/extractor/codec/adpcmbook"
	ourAiff "github.com/sm64sound/extractor/container/aiff"
)

// This program accepts an input .aiff file and writes its .table predictor
// codebook. Input and output file names can be specified as arguments.
func main() {
	var inPath string
	var tablePath string
	flag.StringVar(&inPath, "in", "sample.aiff", "file path of input AIFF-C file")
	flag.StringVar(&tablePath, "out", "sample.table", "file path of output table")
	flag.Parse()

	data, err := os.ReadFile(inPath)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println("Read", len(data), "bytes from file", inPath)

	book, found, err := ourAiff.ExtractCodebook(data)
	if err != nil {
		log.Fatal(err)
	}

	var overflows int
	if !found {
		fmt.Println("No embedded codebook found, estimating one from PCM")
		dec := aiff.NewDecoder(bytes.NewReader(data))
		buf, err := dec.FullPCMBuffer()
		if err != nil {
			log.Fatal(err)
		}
		samples := make([]int16, len(buf.Data))
		for i, v := range buf.Data {
			samples[i] = int16(v)
		}
		book, overflows, err = adpcmbook.Estimate(samples)
		if err != nil {
			log.Fatal(err)
		}
	}
	if overflows > 0 {
		fmt.Println("Warning:", overflows, "coefficients clamped during estimation")
	}

	f, err := os.Create(tablePath)
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	if err := adpcmbook.WriteTable(f, book); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Wrote table to file", tablePath)
}
