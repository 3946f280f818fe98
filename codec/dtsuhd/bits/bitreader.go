/*
DESCRIPTION
  bitreader.go provides a bit reader implementation that reads and peeks
  from a fixed, in-memory byte buffer.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package bits provides an MSB-first bit cursor over a fixed byte buffer,
// supporting both sequential reads and absolute seeks.
package bits

import "errors"

// ErrOverrun is returned by any read that would consume bits beyond the end
// of the buffer supplied to Init.
var ErrOverrun = errors.New("bits: read past end of buffer")

// Reader is an MSB-first bit cursor over a byte buffer. Unlike a stream
// reader, a Reader may be seeked to an arbitrary absolute bit position,
// which the DTS-UHD syntax requires when re-reading a region for CRC
// verification or switching between the frame buffer and a metadata
// accumulation buffer.
type Reader struct {
	buf       []byte
	totalBits int
	pos       int // absolute bit position from start of buf
}

// NewReader returns a Reader positioned at the start of buf, able to read up
// to totalBits bits from it.
func NewReader(buf []byte, totalBits int) *Reader {
	r := &Reader{}
	r.Init(buf, totalBits)
	return r
}

// Init (re)initialises r to read totalBits bits from buf, starting at bit 0.
func (r *Reader) Init(buf []byte, totalBits int) {
	r.buf = buf
	r.totalBits = totalBits
	r.pos = 0
}

// GetBitsCount returns the current absolute bit position.
func (r *Reader) GetBitsCount() int {
	return r.pos
}

// BitsLeft returns the number of unread bits remaining in the buffer.
func (r *Reader) BitsLeft() int {
	return r.totalBits - r.pos
}

// SeekBits repositions the cursor to the given absolute bit offset. It does
// not itself fail if pos is beyond totalBits; the next read will.
func (r *Reader) SeekBits(pos int) {
	r.pos = pos
}

// peekAt returns n bits (n in [0,32]) starting at absolute bit offset pos,
// without mutating the reader.
func (r *Reader) peekAt(pos, n int) (uint32, error) {
	if n < 0 || n > 32 {
		return 0, errors.New("bits: n out of range")
	}
	if n == 0 {
		return 0, nil
	}
	if pos+n > r.totalBits {
		return 0, ErrOverrun
	}

	var v uint64
	byteIdx := pos / 8
	bitOff := pos % 8
	needed := bitOff + n
	nBytes := (needed + 7) / 8
	for i := 0; i < nBytes; i++ {
		idx := byteIdx + i
		var b byte
		if idx < len(r.buf) {
			b = r.buf[idx]
		}
		v = v<<8 | uint64(b)
	}
	shift := uint(nBytes*8 - bitOff - n)
	v >>= shift
	v &= (uint64(1) << uint(n)) - 1
	return uint32(v), nil
}

// GetBits reads n bits (n in [0,32]) and advances the cursor, returning them
// right-justified in the result.
func (r *Reader) GetBits(n int) (uint32, error) {
	v, err := r.peekAt(r.pos, n)
	if err != nil {
		return 0, err
	}
	r.pos += n
	return v, nil
}

// GetBitsLong is equivalent to GetBits; it exists to mirror the
// specification's naming for reads that may return up to a full 32-bit
// value.
func (r *Reader) GetBitsLong(n int) (uint32, error) {
	return r.GetBits(n)
}

// GetBits1 reads a single bit and advances the cursor.
func (r *Reader) GetBits1() (uint32, error) {
	return r.GetBits(1)
}

// ShowBits returns the next n bits without advancing the cursor.
func (r *Reader) ShowBits(n int) (uint32, error) {
	return r.peekAt(r.pos, n)
}

// SkipBits advances the cursor by n bits without returning a value. It still
// reports an overrun if the skip runs past the end of the buffer.
func (r *Reader) SkipBits(n int) error {
	if r.pos+n > r.totalBits {
		return ErrOverrun
	}
	r.pos += n
	return nil
}

// ByteAligned reports whether the cursor sits on a byte boundary.
func (r *Reader) ByteAligned() bool {
	return r.pos%8 == 0
}
