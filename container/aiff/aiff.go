/*
NAME
  aiff.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package aiff assembles a fresh AIFF-C container from a raw VADPCM sample
// and its predictor codebook, then immediately decodes that container and
// bit-exact re-encodes it through codec/adpcm to produce the final on-disk
// AIFF: the same two-pass "build AIFC, then decode_aifc it" strategy the
// ROM tool uses, since the game's own VADPCM encoder is what the re-encoder
// is reproducing.
package aiff

import (
	"bytes"
	"fmt"

	"github.com/sm64sound/extractor/binio"
	"github.com/sm64sound/extractor/codec/adpcm"
)

// FormatError reports a violated structural invariant in AIFF/AIFC chunk
// data — an asserted invariant in the original failing, not an I/O error.
type FormatError struct{ msg string }

func (e *FormatError) Error() string { return "aiff: " + e.msg }

func formatErrorf(format string, args ...interface{}) error {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

// Loop is a sustain-loop record: the sample range replayed while a note is
// held, plus the 16-sample decoder state at the loop point.
type Loop struct {
	Start, End, Count uint32
	State             []int16
}

const (
	tagFORM = "FORM"
	tagAIFC = "AIFC"
	tagAIFF = "AIFF"
	tagCOMM = "COMM"
	tagSSND = "SSND"
	tagAPPL = "APPL"
	tagINST = "INST"
	tagMARK = "MARK"
	tagStoc = "stoc"

	compressionVAPC = "VAPC"
	codesName       = "VADPCMCODES"
	loopsName       = "VADPCMLOOPS"
)

// pstring returns a Pascal string: one length byte, the bytes of s, padded
// to an even total length.
func pstring(s string) []byte {
	out := make([]byte, 0, len(s)+2)
	out = append(out, byte(len(s)))
	out = append(out, s...)
	if len(out)%2 != 0 {
		out = append(out, 0)
	}
	return out
}

func writeHeader(buf *bytes.Buffer, tag string, size int) {
	buf.WriteString(tag)
	var sz [4]byte
	binio.PutU32(sz[:], 0, uint32(size))
	buf.Write(sz[:])
}

type section struct {
	tag  string
	data []byte
}

func customSection(name string, data []byte) section {
	payload := make([]byte, 0, 4+len(pstring(name))+len(data))
	payload = append(payload, tagStoc...)
	payload = append(payload, pstring(name)...)
	payload = append(payload, data...)
	return section{tag: tagAPPL, data: payload}
}

// sampleRate picks the COMM sample rate for a sample shared across one or
// more tunings, mirroring AiffWriter::write's threshold ladder.
func sampleRate(tunings []float64) float64 {
	if len(tunings) == 1 {
		return 32000 * tunings[0]
	}
	min, max := tunings[0], tunings[0]
	for _, t := range tunings[1:] {
		if t < min {
			min = t
		}
		if t > max {
			max = t
		}
	}
	switch {
	case min <= 0.5 && max >= 0.5:
		return 16000
	case min <= 1.0 && max >= 1.0:
		return 32000
	case min <= 1.5 && max >= 1.5:
		return 48000
	case min <= 2.5 && max >= 2.5:
		return 80000
	default:
		return 16000 * (min + max)
	}
}

// Write assembles an AIFF-C container for a raw VADPCM sample and its
// codebook (chunks COMM, INST, APPL(VADPCMCODES), SSND, and — iff
// loop.Count != 0 — APPL(VADPCMLOOPS), in that order), then decodes and
// bit-exact re-encodes it through DecodeAIFC to produce the final on-disk
// AIFF bytes (spec §4.4).
func Write(data []byte, book *adpcm.Book, loop Loop, tunings []float64) ([]byte, error) {
	if len(data)%9 != 0 {
		return nil, formatErrorf("sample data length %d is not a multiple of 9", len(data))
	}
	if len(tunings) == 0 {
		return nil, formatErrorf("sample has no tunings")
	}
	padded := data
	if len(padded)%2 != 0 {
		padded = append(append([]byte(nil), data...), 0)
	}
	// This matches vadpcm_enc's frame-count computation, which is off by
	// one when the data length is odd.
	numFrames := uint32(len(padded) * 16 / 9)

	comm := make([]byte, 18)
	binio.PutU16(comm, 0, 1)       // numChannels
	binio.PutU32(comm, 2, numFrames)
	binio.PutU16(comm, 6, 16)      // sampleSize
	copy(comm[8:18], binio.SerializeExtended80(sampleRate(tunings)))
	comm = append(comm, compressionVAPC...)
	comm = append(comm, pstring("VADPCM ~4-1")...)

	inst := make([]byte, 20)

	codes := make([]byte, 6)
	binio.PutU16(codes, 0, 1)
	binio.PutU16(codes, 2, uint16(book.Order))
	binio.PutU16(codes, 4, uint16(book.NPredictors))
	for _, v := range book.Raw {
		var b [2]byte
		binio.PutU16(b[:], 0, uint16(v))
		codes = append(codes, b[:]...)
	}

	ssnd := make([]byte, 8)
	ssnd = append(ssnd, padded...)

	sections := []section{
		{tag: tagCOMM, data: comm},
		{tag: tagINST, data: inst},
		customSection(codesName, codes),
		{tag: tagSSND, data: ssnd},
	}

	if loop.Count != 0 {
		loops := make([]byte, 16)
		binio.PutU16(loops, 0, 1)
		binio.PutU16(loops, 2, 1)
		binio.PutU32(loops, 4, loop.Start)
		binio.PutU32(loops, 8, loop.End)
		binio.PutU32(loops, 12, loop.Count)
		for _, v := range loop.State {
			var b [2]byte
			binio.PutU16(b[:], 0, uint16(v))
			loops = append(loops, b[:]...)
		}
		sections = append(sections, customSection(loopsName, loops))
	}

	var buf bytes.Buffer
	buf.WriteString(tagFORM)
	buf.Write([]byte{0, 0, 0, 0}) // placeholder, unused downstream
	buf.WriteString(tagAIFC)
	for _, s := range sections {
		buf.WriteString(s.tag)
		var sz [4]byte
		binio.PutU32(sz[:], 0, uint32(len(s.data)))
		buf.Write(sz[:])
		buf.Write(s.data)
		if len(s.data)%2 != 0 {
			buf.WriteByte(0)
		}
	}

	return DecodeAIFC(buf.Bytes())
}

// DecodeAIFC parses an AIFF-C byte stream, decodes its VADPCM sample data,
// bit-exact re-encodes every frame back through codec/adpcm, and emits a
// finished AIFF: COMM (16-bit PCM, no compression field), optional
// MARK+INST sustain-loop metadata, APPL(VADPCMCODES) preserving the
// codebook, and SSND holding the re-encoded PCM as big-endian int16.
func DecodeAIFC(aifcData []byte) ([]byte, error) {
	r := binio.NewReader(aifcData)
	if r.String(4) != tagFORM {
		return nil, formatErrorf("not an AIFF-C file")
	}
	r.U32() // overall size, unused
	if r.String(4) != tagAIFC {
		return nil, formatErrorf("not an AIFF-C file")
	}

	var (
		order, npredictors int = -1, -1
		raw                []int16
		loops              []Loop
		numChannels         int16
		sampleSize          int16
		nSamples            int
		soundPointer        = -1
		sampleRateBytes     [10]byte
	)

	for r.Remaining() > 0 {
		tag := r.String(4)
		size := int(r.U32())
		paddedSize := (size + 1) &^ 1
		chunkStart := r.Pos()

		switch tag {
		case tagCOMM:
			numChannels = r.S16()
			framesH := r.U16()
			framesL := r.U16()
			sampleSize = r.S16()
			copy(sampleRateBytes[:], r.Bytes(10))
			compH := r.U16()
			compL := r.U16()
			cType := uint32(compH)<<16 | uint32(compL)
			if cType != 0x56415043 { // "VAPC"
				return nil, formatErrorf("file is of the wrong compression type")
			}
			if numChannels != 1 {
				return nil, formatErrorf("file contains %d channels, only 1 channel supported", numChannels)
			}
			if sampleSize != 16 {
				return nil, formatErrorf("file contains %d bit samples, only 16 bit samples supported", sampleSize)
			}
			nSamples = int(framesH)<<16 | int(framesL)
			if nSamples%16 != 0 {
				nSamples--
			}
			if nSamples%16 != 0 {
				return nil, formatErrorf("number of chunks must be a multiple of 16, found %d", nSamples)
			}

		case tagSSND:
			offset := r.U32()
			blockSize := r.U32()
			if offset != 0 || blockSize != 0 {
				return nil, formatErrorf("SSND offset/blockSize must be zero, got %d/%d", offset, blockSize)
			}
			soundPointer = r.Pos()

		case tagAPPL:
			ts := r.String(4)
			if ts == tagStoc {
				length := int(r.U8())
				if length == 11 {
					name := r.String(11)
					version := r.S16()
					switch name {
					case codesName:
						if version != 1 {
							return nil, formatErrorf("unknown codebook chunk version %d", version)
						}
						var err error
						order, npredictors, raw, err = readCodebook(r)
						if err != nil {
							return nil, err
						}
					case loopsName:
						if version != 1 {
							return nil, formatErrorf("unknown loop chunk version %d", version)
						}
						var err error
						loops, err = readLoops(r)
						if err != nil {
							return nil, err
						}
						if len(loops) != 1 {
							return nil, formatErrorf("only a single loop supported, found %d", len(loops))
						}
					}
				}
			}
		}

		r.Seek(chunkStart + paddedSize)
	}

	if order < 0 || len(raw) == 0 {
		return nil, formatErrorf("codebook missing from bitstream")
	}
	book := adpcm.NewBook(order, npredictors, raw)

	state := make([]int32, adpcm.SamplesPerFrame)
	for i := 0; i < order; i++ {
		state[15-i] = 0
	}

	reader := binio.NewReader(aifcData)
	reader.Seek(soundPointer)
	reenc := adpcm.NewReencoder()
	out := make([]int16, 0, nSamples)
	for len(out) < nSamples {
		frame := reader.Bytes(adpcm.FrameSize)
		guess, err := reenc.ReencodeFrame(book, frame, state)
		if err != nil {
			return nil, err
		}
		out = append(out, guess...)
	}

	return assembleAIFF(out, book, loops, sampleRateBytes), nil
}

// ExtractCodebook scans an AIFF or AIFF-C byte stream for an embedded
// VADPCMCODES chunk without decoding any sample data, mirroring
// aiff_extract_codebook.c's write_codebook. found is false if the file has
// no such chunk (the caller should fall back to estimating one instead).
func ExtractCodebook(data []byte) (book *adpcm.Book, found bool, err error) {
	r := binio.NewReader(data)
	if r.String(4) != tagFORM {
		return nil, false, formatErrorf("not an AIFF file")
	}
	r.U32()
	form := r.String(4)
	if form != tagAIFF && form != tagAIFC {
		return nil, false, formatErrorf("not an AIFF file")
	}

	for r.Remaining() > 0 {
		tag := r.String(4)
		size := int(r.U32())
		paddedSize := (size + 1) &^ 1
		chunkStart := r.Pos()

		if tag == tagAPPL {
			ts := r.String(4)
			if ts == tagStoc {
				length := int(r.U8())
				if length == 11 {
					name := r.String(11)
					if name == codesName {
						version := r.S16()
						if version == 1 {
							order, npredictors, raw, cerr := readCodebook(r)
							if cerr != nil {
								return nil, false, cerr
							}
							return adpcm.NewBook(order, npredictors, raw), true, nil
						}
					}
				}
			}
		}

		r.Seek(chunkStart + paddedSize)
	}

	return nil, false, nil
}

func readCodebook(r *binio.Reader) (order, npredictors int, raw []int16, err error) {
	order = int(r.S16())
	npredictors = int(r.S16())
	raw = make([]int16, npredictors*order*8)
	for i := 0; i < npredictors; i++ {
		for j := 0; j < order; j++ {
			for k := 0; k < 8; k++ {
				raw[i*order*8+j*8+k] = r.S16()
			}
		}
	}
	return order, npredictors, raw, nil
}

func readLoops(r *binio.Reader) ([]Loop, error) {
	nloops := int(r.S16())
	if nloops < 0 {
		return nil, formatErrorf("negative loop count")
	}
	loops := make([]Loop, nloops)
	for i := range loops {
		loops[i].Start = r.U32()
		loops[i].End = r.U32()
		loops[i].Count = r.U32()
		state := make([]int16, 16)
		for j := range state {
			state[j] = r.S16()
		}
		loops[i].State = state
	}
	return loops, nil
}

// assembleAIFF builds the final on-disk AIFF bytes: FORM/COMM, optional
// MARK+INST sustain-loop metadata, APPL(VADPCMCODES), SSND.
func assembleAIFF(pcm []int16, book *adpcm.Book, loops []Loop, sampleRate [10]byte) []byte {
	var buf bytes.Buffer
	buf.WriteString(tagFORM)
	buf.Write([]byte{0, 0, 0, 0})
	buf.WriteString(tagAIFF)

	// COMM: channels(2) + numFramesH/L(2+2) + sampleSize(2) + sampleRate(10) = 18,
	// with no compression field (this is a plain AIFF, not AIFF-C). The
	// sampleRate bytes are carried through from the AIFC COMM chunk DecodeAIFC
	// just parsed, unmodified, mirroring decode_aifc's CommChunk round trip.
	writeHeader(&buf, tagCOMM, 18)
	var comm [18]byte
	binio.PutU16(comm[:], 0, 1)
	binio.PutU16(comm[:], 2, uint16(len(pcm)>>16))
	binio.PutU16(comm[:], 4, uint16(len(pcm)&0xffff))
	binio.PutU16(comm[:], 6, 16)
	copy(comm[8:18], sampleRate[:])
	buf.Write(comm[:])

	if len(loops) == 1 {
		loop := loops[0]
		var mark bytes.Buffer
		var numMarkers [2]byte
		binio.PutU16(numMarkers[:], 0, 2)
		mark.Write(numMarkers[:])
		writeMarker(&mark, 1, loop.Start, "start")
		writeMarker(&mark, 2, loop.End, "end")
		writeHeader(&buf, tagMARK, mark.Len())
		buf.Write(mark.Bytes())
		if mark.Len()%2 != 0 {
			buf.WriteByte(0)
		}

		writeHeader(&buf, tagINST, 20)
		var inst [20]byte
		binio.PutU16(inst[:], 8, 1)  // sustainLoop.playMode
		binio.PutU16(inst[:], 10, 1) // sustainLoop.beginLoop (marker id 1)
		binio.PutU16(inst[:], 12, 2) // sustainLoop.endLoop (marker id 2)
		buf.Write(inst[:])
	}

	codesPayload := make([]byte, 0, 4+12+6+len(book.Raw)*2)
	codesPayload = append(codesPayload, tagStoc...)
	codesPayload = append(codesPayload, pstring(codesName)...)
	var codeChunk [6]byte
	binio.PutU16(codeChunk[:], 0, 1)
	binio.PutU16(codeChunk[:], 2, uint16(book.Order))
	binio.PutU16(codeChunk[:], 4, uint16(book.NPredictors))
	codesPayload = append(codesPayload, codeChunk[:]...)
	for i := 0; i < book.NPredictors; i++ {
		for j := 0; j < book.Order; j++ {
			for k := 0; k < 8; k++ {
				var b [2]byte
				binio.PutU16(b[:], 0, uint16(book.Coef[i][k][j]))
				codesPayload = append(codesPayload, b[:]...)
			}
		}
	}
	writeHeader(&buf, tagAPPL, len(codesPayload))
	buf.Write(codesPayload)

	outputBytes := len(pcm) * 2
	writeHeader(&buf, tagSSND, outputBytes+8)
	buf.Write([]byte{0, 0, 0, 0, 0, 0, 0, 0})
	for _, s := range pcm {
		var b [2]byte
		binio.PutU16(b[:], 0, uint16(s))
		buf.Write(b[:])
	}

	out := buf.Bytes()
	var size [4]byte
	binio.PutU32(size[:], 0, uint32(len(out)-8))
	copy(out[4:8], size[:])
	return out
}

func writeMarker(buf *bytes.Buffer, id int16, pos uint32, name string) {
	var m [6]byte
	binio.PutU16(m[:], 0, uint16(id))
	binio.PutU16(m[:], 2, uint16(pos>>16))
	binio.PutU16(m[:], 4, uint16(pos&0xffff))
	buf.Write(m[:])
	buf.WriteByte(byte(len(name)))
	buf.WriteString(name)
}
