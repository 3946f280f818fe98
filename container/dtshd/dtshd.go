/*
DESCRIPTION
  dtshd.go locates the STRMDATA payload inside a DTSHDHDR container file and
  sniffs raw buffers for a DTS-UHD elementary stream.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dtshd locates DTS-UHD elementary stream data inside an optional
// DTSHDHDR chunked container, and sniffs arbitrary buffers to decide
// whether they hold a DTS-UHD stream at all.
package dtshd

import (
	"bytes"
	"encoding/binary"

	"github.com/ausocean/dtsuhd/codec/dtsuhd"
)

// chunkHeaderSize is the size of a DTSHDHDR chunk header: an 8 byte ASCII
// tag followed by an 8 byte big-endian chunk size.
const chunkHeaderSize = 16

// Syncwords identifying a sync or non-sync DTS-UHD frame (Table 6-11).
const (
	SyncwordSync    = 0x40411BF2
	SyncwordNonSync = 0x71C442E8
)

// MaxFrameSize is the largest permitted DTS-UHD frame, used by callers to
// size their own buffering.
const MaxFrameSize = 0x1000

// IsSyncword reports whether v is a recognised DTS-UHD sync or non-sync
// frame signature.
func IsSyncword(v uint32) bool {
	return v == SyncwordSync || v == SyncwordNonSync
}

// LocateStrmdata returns the byte offset and size of the STRMDATA chunk's
// payload within a DTSHDHDR container. If data does not begin with a
// DTSHDHDR tag, or no STRMDATA chunk is found, it returns (0, 0): callers
// should then treat data as a bare elementary stream starting at offset 0.
func LocateStrmdata(data []byte) (offset int, size uint64) {
	if len(data) <= chunkHeaderSize || !bytes.Equal(data[:8], []byte("DTSHDHDR")) {
		return 0, 0
	}

	pos := 0
	for pos+chunkHeaderSize+4 <= len(data) {
		tag := data[pos : pos+8]
		chunkSize := binary.BigEndian.Uint64(data[pos+8 : pos+chunkHeaderSize])

		if bytes.Equal(tag, []byte("STRMDATA")) {
			return pos + chunkHeaderSize, chunkSize
		}

		next := pos + chunkHeaderSize + int(chunkSize)
		if next <= pos {
			break // malformed chunk size, avoid looping forever.
		}
		pos = next
	}

	return 0, 0
}

// FindFirstSyncword scans data from the start for the first 4 bytes that
// decode as a recognised syncword, returning its offset. If none is found
// it returns len(data).
func FindFirstSyncword(data []byte) int {
	for i := 0; i+4 <= len(data); i++ {
		if IsSyncword(binary.BigEndian.Uint32(data[i : i+4])) {
			return i
		}
	}
	return len(data)
}

// Probe sniffs data for a DTS-UHD elementary stream: it locates the
// STRMDATA payload (if data is a DTSHDHDR file) and scans forward from
// there for the first syncword that parses as a complete, valid sync
// frame. It reports the offset of that syncword and whether one was
// found.
//
// Probe sizes the candidate frame with dtsuhd.SizeFrame rather than
// dtsuhd.ParseFrame, matching the original C's probe(), which passes a
// NULL descriptor pointer and so never runs metadata-chunk parsing: a sync
// frame with malformed or CRC-broken metadata still probes as a valid
// DTS-UHD stream, since frame sizing only depends on the FTOC and NAVI
// table.
func Probe(data []byte) (offset int, ok bool) {
	offset, _ = LocateStrmdata(data)

	h := dtsuhd.NewParser()
	for offset+4 < len(data) {
		if IsSyncword(binary.BigEndian.Uint32(data[offset : offset+4])) {
			if _, err := dtsuhd.SizeFrame(h, data[offset:]); err == nil {
				return offset, true
			}
		}
		offset++
	}

	return 0, false
}
