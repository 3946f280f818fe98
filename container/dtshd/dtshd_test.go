/*
DESCRIPTION
  dtshd_test.go exercises STRMDATA location, syncword recognition and
  stream probing.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package dtshd

import (
	"encoding/binary"
	"testing"

	"github.com/ausocean/dtsuhd/codec/dtsuhd"
	"github.com/ausocean/dtsuhd/codec/dtsuhd/bits"
)

// putVLC0 writes a Table 5-2 variable-length code by selecting index 0.
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

// buildMinimalSyncFrame assembles the same minimal full_channel_mix_flag
// sync frame used by the codec/dtsuhd tests, discovering a valid FTOC CRC
// trailer by brute force against the exported ParseFrame oracle (crcOK
// itself is unexported and not visible from this package).
func buildMinimalSyncFrame(t *testing.T) []byte {
	t.Helper()

	ftocW := bits.NewWriter()
	must := func(n int, v uint32) {
		t.Helper()
		if err := ftocW.PutBits(n, v); err != nil {
			t.Fatalf("PutBits failed: %v", err)
		}
	}
	must(32, SyncwordSync)
	putVLC0(t, ftocW, 5, 10) // ftoc_bytes - 1 == 10
	must(1, 1)               // full_channel_mix_flag
	must(2, 0)               // base frame duration -> 512
	must(3, 0)               // frame duration code -> *1
	must(2, 2)               // clock rate -> 48000
	must(1, 0)               // timestamp present
	must(2, 0)               // sample_rate_mod
	putVLC0(t, ftocW, 6, 3)  // chunk[0].bytes == 3
	putVLC0(t, ftocW, 2, 0)  // navi id == 0
	putVLC0(t, ftocW, 9, 0)  // audio chunk bytes == 0
	ftocW.Align()
	prefix := ftocW.Bytes()

	chunkW := bits.NewWriter()
	mustC := func(n int, v uint32) {
		t.Helper()
		if err := chunkW.PutBits(n, v); err != nil {
			t.Fatalf("PutBits failed: %v", err)
		}
	}
	mustC(8, 1) // chunk id 1: MD01 metadata chunk
	putVLC0(t, chunkW, 0, 0)
	for i := 0; i < 4; i++ {
		mustC(1, 0)
	}
	mustC(1, 0) // multi-frame metadata flag
	mustC(3, 0) // rep_type
	mustC(4, 0) // ch_index
	chunkW.Align()
	chunkBytes := chunkW.Bytes()

	var ftoc []byte
	for v := 0; v < 1<<16; v++ {
		candidateFtoc := append(append([]byte{}, prefix...), byte(v>>8), byte(v))
		frame := append(append([]byte{}, candidateFtoc...), chunkBytes...)
		if _, _, err := dtsuhd.ParseFrame(dtsuhd.NewParser(), frame); err == nil {
			ftoc = candidateFtoc
			break
		}
	}
	if ftoc == nil {
		t.Fatal("no CRC trailer produced a parseable frame")
	}

	return append(ftoc, chunkBytes...)
}

func TestLocateStrmdataBareStream(t *testing.T) {
	data := buildMinimalSyncFrame(t)
	offset, size := LocateStrmdata(data)
	if offset != 0 || size != 0 {
		t.Fatalf("LocateStrmdata on a bare stream = (%d, %d), want (0, 0)", offset, size)
	}
}

func TestLocateStrmdataWrappedStream(t *testing.T) {
	payload := buildMinimalSyncFrame(t)

	var buf []byte
	buf = append(buf, []byte("DTSHDHDR")...)
	sizeBuf := make([]byte, 8)
	binary.BigEndian.PutUint64(sizeBuf, 4) // unrelated leading chunk, 4 byte payload.
	buf = append(buf, sizeBuf...)
	buf = append(buf, []byte{0xAA, 0xBB, 0xCC, 0xDD}...)

	buf = append(buf, []byte("STRMDATA")...)
	sizeBuf = make([]byte, 8)
	binary.BigEndian.PutUint64(sizeBuf, uint64(len(payload)))
	buf = append(buf, sizeBuf...)
	strmdataOffset := len(buf)
	buf = append(buf, payload...)

	offset, size := LocateStrmdata(buf)
	if offset != strmdataOffset {
		t.Fatalf("LocateStrmdata offset = %d, want %d", offset, strmdataOffset)
	}
	if size != uint64(len(payload)) {
		t.Fatalf("LocateStrmdata size = %d, want %d", size, len(payload))
	}
}

func TestLocateStrmdataNotDTSHDHDR(t *testing.T) {
	offset, size := LocateStrmdata([]byte("not a dtshd file at all"))
	if offset != 0 || size != 0 {
		t.Fatalf("LocateStrmdata = (%d, %d), want (0, 0)", offset, size)
	}
}

func TestIsSyncword(t *testing.T) {
	if !IsSyncword(SyncwordSync) {
		t.Fatal("IsSyncword(SyncwordSync) = false")
	}
	if !IsSyncword(SyncwordNonSync) {
		t.Fatal("IsSyncword(SyncwordNonSync) = false")
	}
	if IsSyncword(0x12345678) {
		t.Fatal("IsSyncword(0x12345678) = true")
	}
}

func TestFindFirstSyncword(t *testing.T) {
	frame := buildMinimalSyncFrame(t)
	data := append([]byte{0x00, 0x00, 0x00}, frame...)

	got := FindFirstSyncword(data)
	if got != 3 {
		t.Fatalf("FindFirstSyncword = %d, want 3", got)
	}
}

func TestFindFirstSyncwordNotFound(t *testing.T) {
	data := []byte{0x00, 0x00, 0x00, 0x00, 0x00}
	if got := FindFirstSyncword(data); got != len(data) {
		t.Fatalf("FindFirstSyncword = %d, want %d", got, len(data))
	}
}

func TestProbeBareStream(t *testing.T) {
	frame := buildMinimalSyncFrame(t)
	data := append([]byte{0x00, 0x00}, frame...)

	offset, ok := Probe(data)
	if !ok {
		t.Fatal("Probe failed to find a valid sync frame")
	}
	if offset != 2 {
		t.Fatalf("Probe offset = %d, want 2", offset)
	}
}

func TestProbeNoStream(t *testing.T) {
	data := make([]byte, 32)
	if _, ok := Probe(data); ok {
		t.Fatal("Probe reported success on all-zero data")
	}
}
