/*
NAME
  binio.go

AUTHOR
  Trek Hopton <trek@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package binio provides big-endian binary reading and writing helpers over
// in-memory byte slices, plus serialization of the 80-bit IEEE extended float
// format used by AIFF's COMM chunk.
package binio

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
)

// ErrShortRead is returned when a Reader runs past the end of its buffer.
var ErrShortRead = errors.New("binio: short read")

// U16 reads a big-endian uint16 from buf at off.
func U16(buf []byte, off int) uint16 { return binary.BigEndian.Uint16(buf[off:]) }

// U32 reads a big-endian uint32 from buf at off.
func U32(buf []byte, off int) uint32 { return binary.BigEndian.Uint32(buf[off:]) }

// PutU16 writes v as a big-endian uint16 into buf at off.
func PutU16(buf []byte, off int, v uint16) { binary.BigEndian.PutUint16(buf[off:], v) }

// PutU32 writes v as a big-endian uint32 into buf at off.
func PutU32(buf []byte, off int, v uint32) { binary.BigEndian.PutUint32(buf[off:], v) }

// Align rounds size up to the next multiple of alignment.
func Align(size, alignment int) int {
	return (size + alignment - 1) &^ (alignment - 1)
}

// Reader is a cursor over a byte slice that advances as values are read. It
// mirrors the ROM's read_bytes_from_vec: reading past the end of buf yields
// zero bytes instead of an error, since the original clamps the read length
// to the bytes available.
type Reader struct {
	buf []byte
	pos int
}

// NewReader returns a Reader positioned at the start of buf.
func NewReader(buf []byte) *Reader { return &Reader{buf: buf} }

// Pos returns the current read offset.
func (r *Reader) Pos() int { return r.pos }

// Seek moves the cursor to an absolute offset.
func (r *Reader) Seek(off int) { r.pos = off }

// Bytes reads n bytes, short-filling with zero bytes if the buffer is
// exhausted.
func (r *Reader) Bytes(n int) []byte {
	out := make([]byte, n)
	avail := len(r.buf) - r.pos
	if avail < 0 {
		avail = 0
	}
	if avail > n {
		avail = n
	}
	if avail > 0 {
		copy(out, r.buf[r.pos:r.pos+avail])
	}
	r.pos += n
	return out
}

// U8 reads one byte.
func (r *Reader) U8() uint8 {
	b := r.Bytes(1)
	return b[0]
}

// U16 reads a big-endian uint16.
func (r *Reader) U16() uint16 {
	return binary.BigEndian.Uint16(r.Bytes(2))
}

// U32 reads a big-endian uint32.
func (r *Reader) U32() uint32 {
	return binary.BigEndian.Uint32(r.Bytes(4))
}

// S16 reads a big-endian int16.
func (r *Reader) S16() int16 { return int16(r.U16()) }

// S32 reads a big-endian int32.
func (r *Reader) S32() int32 { return int32(r.U32()) }

// String reads n raw bytes and returns them as a string.
func (r *Reader) String(n int) string { return string(r.Bytes(n)) }

// Remaining reports how many bytes are left to read before the cursor runs
// off the end of the buffer.
func (r *Reader) Remaining() int {
	n := len(r.buf) - r.pos
	if n < 0 {
		return 0
	}
	return n
}

// SerializeExtended80 encodes num as a 10-byte (80-bit) IEEE extended float,
// the representation AIFF's COMM chunk uses for its sample rate field.
func SerializeExtended80(num float64) []byte {
	out := make([]byte, 10)
	if num == 0 {
		if math.Signbit(num) {
			out[0] = 0x80
		}
		return out
	}

	bits := math.Float64bits(num)
	signBit := bits & (1 << 63)
	exponent := int64((bits&0x7FF0000000000000)>>52) - 1023
	mantissa := bits & 0xFFFFFFFFFFFFF

	signExponent := uint16((signBit >> 48) | uint64(exponent+0x3FFF))
	ext := (uint64(1) << 63) | (mantissa << (63 - 52))

	PutU16(out, 0, signExponent)
	for i := 0; i < 8; i++ {
		out[2+i] = byte(ext >> (56 - 8*i))
	}
	return out
}

// ParseExtended80 decodes a 10-byte (80-bit) IEEE extended float back to a
// float64. This is the inverse of SerializeExtended80; the original ROM tool
// never needs it since it only ever writes sample rates, but reading an
// AIFF-embedded sample rate back out requires it.
func ParseExtended80(buf []byte) (float64, error) {
	if len(buf) < 10 {
		return 0, errors.Wrap(ErrShortRead, "extended80")
	}
	signExponent := U16(buf, 0)
	sign := uint64(signExponent&0x8000) << 48
	exponent := int64(signExponent & 0x7FFF)

	var mantissa uint64
	for i := 0; i < 8; i++ {
		mantissa = mantissa<<8 | uint64(buf[2+i])
	}

	if exponent == 0 && mantissa == 0 {
		return math.Float64frombits(sign), nil
	}

	exponent -= 0x3FFF
	frac := (mantissa &^ (uint64(1) << 63)) >> (63 - 52)
	bits := sign | uint64(exponent+1023)<<52 | frac
	return math.Float64frombits(bits), nil
}
