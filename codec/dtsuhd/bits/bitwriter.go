/*
DESCRIPTION
  bitwriter.go provides an MSB-first bit accumulator symmetric with Reader,
  used to build byte-aligned boxes with sub-byte fields.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package bits

import "errors"

// Writer accumulates MSB-first bits into a byte slice.
type Writer struct {
	buf  []byte
	cur  byte
	nCur int // number of valid bits already placed in cur, from the MSB side
}

// NewWriter returns an empty Writer.
func NewWriter() *Writer {
	return &Writer{}
}

// PutBits writes the low n bits of v (n in [0,32]), most significant bit
// first, and advances the cursor.
func (w *Writer) PutBits(n int, v uint32) error {
	if n < 0 || n > 32 {
		return errors.New("bits: n out of range")
	}
	for n > 0 {
		free := 8 - w.nCur
		take := free
		if take > n {
			take = n
		}
		shift := uint(n - take)
		chunk := byte((v >> shift) & ((1 << uint(take)) - 1))
		w.cur |= chunk << uint(free-take)
		w.nCur += take
		n -= take
		v &= (1 << uint(n)) - 1
		if w.nCur == 8 {
			w.buf = append(w.buf, w.cur)
			w.cur = 0
			w.nCur = 0
		}
	}
	return nil
}

// PutBits64 writes the low n bits of v (n in [0,64]), most significant bit
// first.
func (w *Writer) PutBits64(n int, v uint64) error {
	if n < 0 || n > 64 {
		return errors.New("bits: n out of range")
	}
	if n > 32 {
		if err := w.PutBits(n-32, uint32(v>>32)); err != nil {
			return err
		}
		n = 32
	}
	return w.PutBits(n, uint32(v))
}

// Align flushes any partially-written trailing byte, padding with zero bits.
func (w *Writer) Align() {
	if w.nCur > 0 {
		w.buf = append(w.buf, w.cur)
		w.cur = 0
		w.nCur = 0
	}
}

// BitsCount returns the number of bits written so far.
func (w *Writer) BitsCount() int {
	return len(w.buf)*8 + w.nCur
}

// Bytes returns the byte-aligned output written so far. Align should be
// called first if the last byte is still partially filled.
func (w *Writer) Bytes() []byte {
	return w.buf
}
