/*
DESCRIPTION
  streamframer_test.go exercises the Framer's buffering contract: data
  accumulates silently until a maximum-sized frame of lookahead is
  available or the caller flushes with a nil push, at which point a
  complete frame is extracted, a still-incomplete frame yields neither a
  frame nor an error, or a StatusNoSync error surfaces.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package streamframer

import (
	"bytes"
	"testing"

	"github.com/ausocean/dtsuhd/codec/dtsuhd"
	"github.com/ausocean/dtsuhd/codec/dtsuhd/bits"
)

func putVLC0(t *testing.T, w *bits.Writer, width, value int) {
	t.Helper()
	if err := w.PutBits(1, 0); err != nil {
		t.Fatalf("PutBits failed: %v", err)
	}
	if width > 0 {
		if err := w.PutBits(width, uint32(value)); err != nil {
			t.Fatalf("PutBits failed: %v", err)
		}
	}
}

// buildMinimalSyncFrame assembles a minimal full_channel_mix_flag sync
// frame, discovering a valid FTOC CRC trailer by brute force against the
// exported ParseFrame oracle.
func buildMinimalSyncFrame(t *testing.T) []byte {
	t.Helper()

	ftocW := bits.NewWriter()
	must := func(n int, v uint32) {
		t.Helper()
		if err := ftocW.PutBits(n, v); err != nil {
			t.Fatalf("PutBits failed: %v", err)
		}
	}
	must(32, 0x40411BF2)
	putVLC0(t, ftocW, 5, 10)
	must(1, 1)
	must(2, 0)
	must(3, 0)
	must(2, 2)
	must(1, 0)
	must(2, 0)
	putVLC0(t, ftocW, 6, 3)
	putVLC0(t, ftocW, 2, 0)
	putVLC0(t, ftocW, 9, 0)
	ftocW.Align()
	prefix := ftocW.Bytes()

	chunkW := bits.NewWriter()
	mustC := func(n int, v uint32) {
		t.Helper()
		if err := chunkW.PutBits(n, v); err != nil {
			t.Fatalf("PutBits failed: %v", err)
		}
	}
	mustC(8, 1)
	putVLC0(t, chunkW, 0, 0)
	for i := 0; i < 4; i++ {
		mustC(1, 0)
	}
	mustC(1, 0)
	mustC(3, 0)
	mustC(4, 0)
	chunkW.Align()
	chunkBytes := chunkW.Bytes()

	var ftoc []byte
	for v := 0; v < 1<<16; v++ {
		candidate := append(append([]byte{}, prefix...), byte(v>>8), byte(v))
		frame := append(append([]byte{}, candidate...), chunkBytes...)
		if _, _, err := dtsuhd.ParseFrame(dtsuhd.NewParser(), frame); err == nil {
			ftoc = candidate
			break
		}
	}
	if ftoc == nil {
		t.Fatal("no CRC trailer produced a parseable frame")
	}

	return append(ftoc, chunkBytes...)
}

// A frame this small never reaches the 4096-byte lookahead threshold on
// its own, so every test below flushes with a nil Push to force the final
// parse attempt, exactly as a caller would signal end of stream.

func TestFramerBuffersThenFlushesSingleFrame(t *testing.T) {
	frame := buildMinimalSyncFrame(t)
	f := NewFramer()

	consumed, got, err := f.Push(frame)
	if err != nil {
		t.Fatalf("Push returned error: %v", err)
	}
	if got != nil {
		t.Fatalf("Push returned a frame before enough lookahead or a flush: %v", got)
	}
	if consumed != len(frame) {
		t.Fatalf("consumed = %d, want %d", consumed, len(frame))
	}

	_, got, err = f.Push(nil)
	if err != nil {
		t.Fatalf("flush Push returned error: %v", err)
	}
	if !bytes.Equal(got, frame) {
		t.Fatalf("flush Push returned %v, want %v", got, frame)
	}
}

func TestFramerTruncatedFrameStaysIncompleteForever(t *testing.T) {
	frame := buildMinimalSyncFrame(t)
	f := NewFramer()

	if _, _, err := f.Push(frame[:len(frame)-1]); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	_, got, err := f.Push(nil)
	if err != nil {
		t.Fatalf("flush Push on a truncated frame returned an error, want silent incomplete: %v", err)
	}
	if got != nil {
		t.Fatalf("flush Push on a truncated frame returned a frame: %v", got)
	}
}

func TestFramerTwoFramesBackToBack(t *testing.T) {
	frame := buildMinimalSyncFrame(t)
	stream := append(append([]byte{}, frame...), frame...)

	f := NewFramer()
	if _, _, err := f.Push(stream); err != nil {
		t.Fatalf("Push returned error: %v", err)
	}

	_, got1, err := f.Push(nil)
	if err != nil {
		t.Fatalf("first flush returned error: %v", err)
	}
	if !bytes.Equal(got1, frame) {
		t.Fatalf("first frame = %v, want %v", got1, frame)
	}

	_, got2, err := f.Push(nil)
	if err != nil {
		t.Fatalf("second flush returned error: %v", err)
	}
	if !bytes.Equal(got2, frame) {
		t.Fatalf("second frame = %v, want %v", got2, frame)
	}
}

func TestFramerRejectsGarbageOnFlush(t *testing.T) {
	f := NewFramer()
	garbage := bytes.Repeat([]byte{0xFF}, 64)

	if _, _, err := f.Push(garbage); err != nil {
		t.Fatalf("buffering Push returned an unexpected error: %v", err)
	}

	if _, _, err := f.Push(nil); err == nil {
		t.Fatal("expected an error flushing a buffer with no recognisable syncword")
	}
}
