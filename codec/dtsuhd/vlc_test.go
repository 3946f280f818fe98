/*
DESCRIPTION
  vlc_test.go exercises the Table 5-2 variable-length decoder.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dtsuhd

import (
	"testing"

	"github.com/ausocean/dtsuhd/codec/dtsuhd/bits"
)

func TestReadVLCIndexZero(t *testing.T) {
	w := bits.NewWriter()
	// Top bit 0 selects index 0 (1 bit consumed), followed by a 6-bit value.
	mustPutBits(t, w, 1, 0)
	mustPutBits(t, w, 6, 41)
	w.Align()

	r := bits.NewReader(w.Bytes(), len(w.Bytes())*8)
	got, err := readVLC(r, [4]int{6, 9, 12, 15}, true)
	if err != nil {
		t.Fatalf("readVLC returned error: %v", err)
	}
	if got != 41 {
		t.Fatalf("readVLC = %d, want 41", got)
	}
	if r.GetBitsCount() != 7 {
		t.Fatalf("consumed %d bits, want 7", r.GetBitsCount())
	}
}

func TestReadVLCWithAdd(t *testing.T) {
	table := [4]int{2, 4, 6, 8}
	w := bits.NewWriter()
	// code 0b110 selects index 2 (3 bits consumed), value field is 6 bits.
	mustPutBits(t, w, 3, 0b110)
	mustPutBits(t, w, 6, 5)
	w.Align()

	r := bits.NewReader(w.Bytes(), len(w.Bytes())*8)
	got, err := readVLC(r, table, true)
	if err != nil {
		t.Fatalf("readVLC returned error: %v", err)
	}
	want := uint32((1 << table[0]) + (1 << table[1]) + 5)
	if got != want {
		t.Fatalf("readVLC = %d, want %d", got, want)
	}
}

func TestReadVLCZeroWidthIndex(t *testing.T) {
	table := [4]int{0, 2, 4, 4}
	w := bits.NewWriter()
	mustPutBits(t, w, 1, 0) // selects index 0, table[0] == 0, no value bits follow.
	w.Align()

	r := bits.NewReader(w.Bytes(), len(w.Bytes())*8)
	got, err := readVLC(r, table, true)
	if err != nil {
		t.Fatalf("readVLC returned error: %v", err)
	}
	if got != 0 {
		t.Fatalf("readVLC = %d, want 0", got)
	}
	if r.GetBitsCount() != 1 {
		t.Fatalf("consumed %d bits, want 1", r.GetBitsCount())
	}
}

func mustPutBits(t *testing.T, w *bits.Writer, n int, v uint32) {
	t.Helper()
	if err := w.PutBits(n, v); err != nil {
		t.Fatalf("PutBits(%d, %d) failed: %v", n, v, err)
	}
}
