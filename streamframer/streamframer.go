/*
DESCRIPTION
  streamframer.go implements the buffering loop a streaming caller (file
  tailer, socket reader) runs to turn a byte stream into individually
  parsed DTS-UHD frames.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package streamframer buffers appended byte-stream input and hands
// complete DTS-UHD frames to codec/dtsuhd one at a time. It does not
// locate STRMDATA inside a DTSHDHDR file; that is container/dtshd's job,
// run once before the first Push.
package streamframer

import (
	"encoding/binary"
	stderrors "errors"

	"github.com/pkg/errors"

	"github.com/ausocean/dtsuhd/codec/dtsuhd"
	"github.com/ausocean/dtsuhd/container/dtshd"
)

// bufferSize matches DTSUHD_BUFFER_SIZE: enough room for 128 maximum-sized
// frames so the parser always has a full frame's worth of lookahead.
const bufferSize = 128 * dtshd.MaxFrameSize

// Framer accumulates appended input in an internal buffer, aligns it to
// the next syncword, and parses one complete frame at a time.
type Framer struct {
	parser *dtsuhd.Parser

	buf       []byte
	offset    int // index of the current candidate frame start within buf.
	bytesUsed int // number of valid bytes in buf, including the leading offset.
	frameSize int // size of the frame consumed by the previous Push, pending discard.
}

// NewFramer returns a Framer that parses frames against a fresh Parser
// state.
func NewFramer() *Framer {
	return &Framer{
		parser: dtsuhd.NewParser(),
		buf:    make([]byte, bufferSize),
	}
}

// append folds buf's unconsumed previous frame out, slides the window to
// the start of the buffer if space is running low, and appends as much of
// data as fits. It reports the number of input bytes consumed and whether
// the buffer still needs more data before a parse attempt is worthwhile:
// true unless a maximum-sized frame of lookahead is already available (or
// data was empty, a caller-driven flush).
func (f *Framer) append(data []byte) (consumed int, needMore bool) {
	f.offset += f.frameSize
	f.frameSize = 0

	if len(data) > 0 && f.bytesUsed+len(data) > bufferSize {
		copy(f.buf, f.buf[f.offset:f.bytesUsed])
		f.bytesUsed -= f.offset
		f.offset = 0
	}

	copyBytes := bufferSize - f.bytesUsed
	if copyBytes > len(data) {
		copyBytes = len(data)
	}
	if copyBytes < 0 {
		copyBytes = 0
	}
	if copyBytes > 0 {
		copy(f.buf[f.bytesUsed:], data[:copyBytes])
		f.bytesUsed += copyBytes
	}

	for f.offset+4 < f.bytesUsed && !dtshd.IsSyncword(binary.BigEndian.Uint32(f.buf[f.offset:f.offset+4])) {
		f.offset++
	}

	return copyBytes, copyBytes != 0 && f.bytesUsed-f.offset < dtshd.MaxFrameSize
}

// Push appends data to the Framer's internal buffer and attempts to parse
// the next frame. It returns the number of bytes of data consumed (always
// copied into the internal buffer, regardless of whether a frame was
// produced), the parsed frame's raw bytes if a complete frame was
// available, and any parse error.
//
// A nil frame with a nil error means more input is needed before a frame
// can be produced; callers should keep calling Push with further data, and
// should flush with a final Push(nil) at end of stream to force a parse
// attempt on whatever remains buffered. The returned frame aliases the
// Framer's internal buffer and is only valid until the next Push call.
func (f *Framer) Push(data []byte) (consumed int, frame []byte, err error) {
	n, needMore := f.append(data)
	if needMore {
		return n, nil, nil
	}

	// SizeFrame, not ParseFrame: the framer only needs frame boundaries, and
	// must not fail a frame over malformed or CRC-broken metadata that a
	// downstream consumer may not even care about (the original C's
	// parser_parse passes a NULL descriptor pointer for exactly this
	// reason, skipping parse_chunks during framing).
	window := f.buf[f.offset:f.bytesUsed]
	fi, parseErr := dtsuhd.SizeFrame(f.parser, window)
	if parseErr == nil {
		f.frameSize = fi.FrameBytes
		return n, window[:fi.FrameBytes], nil
	}

	var ferr *dtsuhd.FrameError
	if stderrors.As(parseErr, &ferr) && ferr.Status == dtsuhd.StatusIncomplete {
		// Leave frameSize at zero: offset is not advanced, so the next
		// Push re-parses this same window once it has grown.
		return n, nil, nil
	}

	return n, nil, errors.Wrap(parseErr, "could not parse frame")
}
