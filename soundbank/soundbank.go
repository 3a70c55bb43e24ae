/*
NAME
  soundbank.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package soundbank parses the ROM's CTL (instrument/drum control table)
// and TBL (raw ADPCM sample storage) sections into sample banks: the
// instrument and drum records that reference a sample, and the samples
// themselves along with their predictor codebook and loop metadata.
package soundbank

import (
	"fmt"
	"math"
	"sort"

	"github.com/sm64sound/extractor/assets"
	"github.com/sm64sound/extractor/binio"
	"github.com/sm64sound/extractor/codec/adpcm"
	"github.com/sm64sound/extractor/container/aiff"
)

// FormatError reports a violated structural invariant found while parsing
// a CTL or TBL section — a failed assertion in the original tool.
type FormatError struct{ msg string }

func (e *FormatError) Error() string { return "soundbank: " + e.msg }

func formatErrorf(format string, args ...interface{}) error {
	return &FormatError{msg: fmt.Sprintf(format, args...)}
}

func float32FromBits(bits uint32) float32 { return math.Float32frombits(bits) }

// Sound is one pitch-range entry of an Instrument, or the single voice of
// a Drum: the address of its sample (0 if unused) and a playback tuning
// multiplier.
type Sound struct {
	SampleAddr uint32
	Tuning     float64
}

func parseSound(data []byte) (Sound, error) {
	addr := binio.U32(data, 0)
	tuning := float64(float32FromBits(binio.U32(data, 4)))
	if addr == 0 && tuning != 0 {
		return Sound{}, formatErrorf("sound has zero sample address but nonzero tuning %v", tuning)
	}
	return Sound{SampleAddr: addr, Tuning: tuning}, nil
}

// Drum is a single-voice percussion instrument.
type Drum struct {
	Sound Sound
}

func parseDrum(data []byte) (Drum, error) {
	if data[2] != 0 {
		return Drum{}, formatErrorf("drum loaded byte is %d, want 0", data[2])
	}
	if data[3] != 0 {
		return Drum{}, formatErrorf("drum pad byte is %d, want 0", data[3])
	}
	envelopeAddr := binio.U32(data, 12)
	if envelopeAddr == 0 {
		return Drum{}, formatErrorf("drum has a zero envelope address")
	}
	sound, err := parseSound(data[4:12])
	if err != nil {
		return Drum{}, err
	}
	return Drum{Sound: sound}, nil
}

// Instrument is a melodic instrument with up to three sounds covering
// disjoint pitch ranges: low, medium, and high.
type Instrument struct {
	SoundLo, SoundMed, SoundHi Sound
}

func parseInstrument(data []byte) (Instrument, error) {
	rangeLo, rangeHi := data[1], data[2]
	envelopeAddr := binio.U32(data, 4)
	if envelopeAddr == 0 {
		return Instrument{}, formatErrorf("instrument has a zero envelope address")
	}
	soundLo, err := parseSound(data[8:16])
	if err != nil {
		return Instrument{}, err
	}
	soundMed, err := parseSound(data[16:24])
	if err != nil {
		return Instrument{}, err
	}
	soundHi, err := parseSound(data[24:32])
	if err != nil {
		return Instrument{}, err
	}
	if soundLo.SampleAddr == 0 && rangeLo != 0 {
		return Instrument{}, formatErrorf("instrument has no low sound but range_lo = %d, want 0", rangeLo)
	}
	if soundHi.SampleAddr == 0 && rangeHi != 127 {
		return Instrument{}, formatErrorf("instrument has no high sound but range_hi = %d, want 127", rangeHi)
	}
	return Instrument{SoundLo: soundLo, SoundMed: soundMed, SoundHi: soundHi}, nil
}

// parseBook reads a codebook record at addr within bankData: order (must
// be 2), npredictors (must be 2), then the raw predictor table.
func parseBook(addr uint32, bankData []byte) (*adpcm.Book, error) {
	order := binio.U32(bankData, int(addr))
	npredictors := binio.U32(bankData, int(addr)+4)
	if order != 2 {
		return nil, formatErrorf("book order = %d, want 2", order)
	}
	if npredictors != 2 {
		return nil, formatErrorf("book npredictors = %d, want 2", npredictors)
	}
	n := 16 * order * npredictors / 2
	raw := make([]int16, 0, n)
	for i := uint32(0); i < 16*order*npredictors; i += 2 {
		raw = append(raw, int16(binio.U16(bankData, int(addr)+8+int(i))))
	}
	return adpcm.NewBook(int(order), int(npredictors), raw), nil
}

// parseLoop reads a sustain-loop record at addr within bankData.
func parseLoop(addr uint32, bankData []byte) (aiff.Loop, error) {
	start := binio.U32(bankData, int(addr))
	end := binio.U32(bankData, int(addr)+4)
	count := binio.U32(bankData, int(addr)+8)
	pad := binio.U32(bankData, int(addr)+12)
	if pad != 0 {
		return aiff.Loop{}, formatErrorf("loop pad = %d, want 0", pad)
	}
	loop := aiff.Loop{Start: start, End: end, Count: count}
	if count == 0 {
		return loop, nil
	}
	state := make([]int16, 0, 16)
	for i := uint32(0); i < 32; i += 2 {
		state = append(state, int16(binio.U16(bankData, int(addr)+16+int(i))))
	}
	loop.State = state
	return loop, nil
}

// AifcEntry is a fully-resolved sample: its filename, raw VADPCM bytes,
// predictor codebook, optional sustain loop, and the tunings of every
// instrument/drum voice that references it.
type AifcEntry struct {
	Filename string
	Data     []byte
	Book     *adpcm.Book
	Loop     aiff.Loop
	Tunings  []float64
}

// BankHeader is the 16-byte header at the start of a CTL entry.
type BankHeader struct {
	NumInstruments, NumDrums uint32
}

// ParseBankHeader parses the 16-byte header at the start of a CTL entry.
func ParseBankHeader(data []byte) (BankHeader, error) {
	numInstrmts := binio.U32(data, 0)
	numDrums := binio.U32(data, 4)
	shared := binio.U32(data, 8)
	if shared != 0 && shared != 1 {
		return BankHeader{}, formatErrorf("bank header shared = %d, want 0 or 1", shared)
	}
	return BankHeader{NumInstruments: numInstrmts, NumDrums: numDrums}, nil
}

// SampleBank groups samples discovered under one TBL entry. CtlIndices
// records every CTL entry index that references this bank's TBL data —
// a bank's raw sample bytes can be shared by more than one instrument
// bank, so ParseCTL may be called on it multiple times.
type SampleBank struct {
	BankIndex  uint32
	CtlIndices []uint32
	Entries    []AifcEntry

	data []byte
}

// NewSampleBank wraps a TBL-carved byte range as a sample bank.
func NewSampleBank(bankIndex uint32, data []byte) *SampleBank {
	return &SampleBank{BankIndex: bankIndex, data: data}
}

// ParseSeqfile parses a CTL or TBL seqfile: a 4-byte header (magic,
// num_entries) followed by num_entries (offset,length) pairs, 16-byte
// aligned and zero-padded to the end of the buffer. CTL entries must sit
// back-to-back; TBL entries may alias each other's offset (bank sharing).
func ParseSeqfile(data []byte, filetype uint16) ([]assets.SeqfileEntry, error) {
	magic := binio.U16(data, 0)
	numEntries := binio.U16(data, 2)
	if magic != filetype {
		return nil, formatErrorf("seqfile magic = %d, want %d", magic, filetype)
	}

	prev := binio.Align(4+int(numEntries)*8, 16)
	entries := make([]assets.SeqfileEntry, 0, numEntries)
	for i := 0; i < int(numEntries); i++ {
		offset := binio.U32(data, 4+i*8)
		length := binio.U32(data, 8+i*8)
		if filetype == assets.TypeCTL {
			if int(offset) != prev {
				return nil, formatErrorf("CTL entry %d offset = %d, want %d", i, offset, prev)
			}
		} else if int(offset) > prev {
			return nil, formatErrorf("TBL entry %d offset = %d, want <= %d", i, offset, prev)
		}
		if end := int(offset + length); end > prev {
			prev = end
		}
		entries = append(entries, assets.SeqfileEntry{Offset: offset, Size: length})
	}
	for _, b := range data[prev:] {
		if b != 0 {
			return nil, formatErrorf("seqfile has nonzero trailing byte at %d", prev)
		}
	}
	return entries, nil
}

// ParseTBL discovers sample banks from a TBL seqfile's entries, merging
// entries that share the same bank address (multiple CTL entries can
// reference the same bank's sample data).
func ParseTBL(data []byte, tblEntries []assets.SeqfileEntry) []*SampleBank {
	var banks []*SampleBank
	addrToIndex := make(map[uint32]uint32)

	for tblIndex, entry := range tblEntries {
		idx, ok := addrToIndex[entry.Offset]
		if !ok {
			idx = uint32(len(banks))
			bankData := data[entry.Offset : entry.Offset+entry.Size]
			banks = append(banks, NewSampleBank(idx, bankData))
			addrToIndex[entry.Offset] = idx
		}
		banks[idx].CtlIndices = append(banks[idx].CtlIndices, uint32(tblIndex))
	}
	return banks
}

// ParseCTL parses one CTL entry's instrument/drum tables against this
// bank's TBL data, appending any newly-discovered samples to Entries.
// offset is the CTL entry's own byte offset into the CTL seqfile, used
// (added to a sample's address) to resolve its filename via
// assets.SampleAddrs.
func (b *SampleBank) ParseCTL(header BankHeader, data []byte, offset uint32) error {
	drumBaseAddr := binio.U32(data, 0)
	var drumAddrs []uint32
	if header.NumDrums != 0 {
		if drumBaseAddr == 0 {
			return formatErrorf("bank has %d drums but a zero drum base address", header.NumDrums)
		}
		for i := uint32(0); i < header.NumDrums; i++ {
			addr := binio.U32(data, int(drumBaseAddr+i*4))
			if addr == 0 {
				return formatErrorf("drum %d has a zero address", i)
			}
			drumAddrs = append(drumAddrs, addr)
		}
	} else if drumBaseAddr != 0 {
		return formatErrorf("bank has no drums but a nonzero drum base address %d", drumBaseAddr)
	}

	const instrmtBaseAddr = 4
	var instrmtAddrs []uint32
	for i := uint32(0); i < header.NumInstruments; i++ {
		addr := binio.U32(data, int(instrmtBaseAddr+i*4))
		if addr != 0 {
			instrmtAddrs = append(instrmtAddrs, addr)
		}
	}

	if len(drumAddrs) > 0 && len(instrmtAddrs) > 0 {
		maxInstrmt := maxUint32(instrmtAddrs)
		minDrum := minUint32(drumAddrs)
		if maxInstrmt >= minDrum {
			return formatErrorf("instrument address %d overlaps drum address range starting at %d", maxInstrmt, minDrum)
		}
	}
	if hasDuplicate(instrmtAddrs) {
		return formatErrorf("duplicate instrument address in bank")
	}
	if hasDuplicate(drumAddrs) {
		return formatErrorf("duplicate drum address in bank")
	}

	var instrmts []Instrument
	for _, addr := range instrmtAddrs {
		instrmt, err := parseInstrument(data[addr : addr+32])
		if err != nil {
			return err
		}
		instrmts = append(instrmts, instrmt)
	}

	var drums []Drum
	for _, addr := range drumAddrs {
		drum, err := parseDrum(data[addr : addr+16])
		if err != nil {
			return err
		}
		drums = append(drums, drum)
	}

	sampleAddrs := make(map[uint32]bool)
	tunings := make(map[uint32][]float64)
	var order []uint32
	add := func(addr uint32, tuning float64) {
		if addr == 0 {
			return
		}
		if !sampleAddrs[addr] {
			sampleAddrs[addr] = true
			order = append(order, addr)
		}
		tunings[addr] = append(tunings[addr], tuning)
	}
	for _, instrmt := range instrmts {
		add(instrmt.SoundLo.SampleAddr, instrmt.SoundLo.Tuning)
		add(instrmt.SoundMed.SampleAddr, instrmt.SoundMed.Tuning)
		add(instrmt.SoundHi.SampleAddr, instrmt.SoundHi.Tuning)
	}
	for _, drum := range drums {
		// Unlike instrument sounds, a drum's sound is added even if its
		// sample address is zero.
		addr := drum.Sound.SampleAddr
		if !sampleAddrs[addr] {
			sampleAddrs[addr] = true
			order = append(order, addr)
		}
		tunings[addr] = append(tunings[addr], drum.Sound.Tuning)
	}

	sort.Slice(order, func(i, j int) bool { return order[i] < order[j] })
	for _, addr := range order {
		filename := assets.SampleAddrs[offset+addr]
		if err := b.parseSample(data[addr:addr+20], data, tunings[addr], filename); err != nil {
			return err
		}
	}
	return nil
}

// parseSample resolves one sample record to an AifcEntry, deduplicating
// against a sample of the same filename already parsed from a different
// CTL entry sharing this bank.
func (b *SampleBank) parseSample(sampleData, bankData []byte, tunings []float64, filename string) error {
	if filename == "" {
		// A duplicate sample reference with nothing new to extract.
		return nil
	}

	zero := binio.U32(sampleData, 0)
	addr := binio.U32(sampleData, 4)
	rawLoop := binio.U32(sampleData, 8)
	rawBook := binio.U32(sampleData, 12)
	sampleSize := binio.U32(sampleData, 16)

	if zero != 0 {
		return formatErrorf("sample %q has nonzero reserved field %d", filename, zero)
	}
	if rawLoop == 0 {
		return formatErrorf("sample %q has a zero loop address", filename)
	}
	if rawBook == 0 {
		return formatErrorf("sample %q has a zero book address", filename)
	}
	if sampleSize%2 != 0 {
		return formatErrorf("sample %q size %d is odd", filename, sampleSize)
	}
	if sampleSize%9 != 0 {
		if sampleSize%9 != 1 {
			return formatErrorf("sample %q size %d is not a whole number of frames", filename, sampleSize)
		}
		sampleSize--
	}

	book, err := parseBook(rawBook, bankData)
	if err != nil {
		return err
	}
	loop, err := parseLoop(rawLoop, bankData)
	if err != nil {
		return err
	}

	for i := range b.Entries {
		entry := &b.Entries[i]
		if entry.Filename != filename {
			continue
		}
		if entry.Book.Order != book.Order || entry.Book.NPredictors != book.NPredictors {
			return formatErrorf("sample %q re-parsed with a different book shape", filename)
		}
		if !int16sEqual(entry.Book.Raw, book.Raw) {
			return formatErrorf("sample %q re-parsed with a different codebook", filename)
		}
		if entry.Loop.Start != loop.Start || entry.Loop.End != loop.End || entry.Loop.Count != loop.Count ||
			!int16sEqual(entry.Loop.State, loop.State) {
			return formatErrorf("sample %q re-parsed with different loop points", filename)
		}
		if len(entry.Data) != int(sampleSize) {
			return formatErrorf("sample %q re-parsed with a different size", filename)
		}
		return nil
	}

	data := append([]byte(nil), b.data[addr:addr+sampleSize]...)
	b.Entries = append(b.Entries, AifcEntry{
		Filename: filename,
		Data:     data,
		Book:     book,
		Loop:     loop,
		Tunings:  append([]float64(nil), tunings...),
	})
	return nil
}

func hasDuplicate(addrs []uint32) bool {
	seen := make(map[uint32]bool, len(addrs))
	for _, a := range addrs {
		if seen[a] {
			return true
		}
		seen[a] = true
	}
	return false
}

func maxUint32(vs []uint32) uint32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minUint32(vs []uint32) uint32 {
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func int16sEqual(a, b []int16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
