/*
DESCRIPTION
  frame.go provides ParseFrame, the entry point for parsing one DTS-UHD
  frame against a Parser's accumulated stream state, and SizeFrame, its
  descriptor-free counterpart for callers that only need frame boundaries
  (specification §4.4, §6).

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
	"github.com/ausocean/dtsuhd/codec/dtsuhd/bits"
	"github.com/pkg/errors"
)

// Syncwords identifying a sync or non-sync DTS-UHD frame (Table 6-11).
const (
	syncwordSync    = 0x40411BF2
	syncwordNonSync = 0x71C442E8
)

var tablePayload = [4]int{5, 8, 10, 12}

// FrameInfo summarises one successfully parsed frame.
type FrameInfo struct {
	Sync        bool
	FrameBytes  int
	SampleRate  int
	SampleCount int
	Duration    float64
}

// ParseFrame parses one DTS-UHD frame held in data, starting at byte 0,
// updating p's stream-persistent state (NAVI table, MD01 registry, audio
// presentation set) as it goes.
//
// data must hold the complete frame; ParseFrame never buffers data across
// calls itself (that is the stream framer's job, see specification §6). A
// Descriptor is only returned for sync frames, once every chunk has been
// parsed; it is nil for non-sync frames. A sync frame whose chunks yield no
// selectable started object still returns a Descriptor, with its channel
// fields left zero.
//
// p must have been returned by NewParser and must not be shared with a
// different logical stream (specification §5, §9).
func ParseFrame(p *Parser, data []byte) (*FrameInfo, *Descriptor, error) {
	return parseFrame(p, data, true)
}

// SizeFrame parses just enough of one DTS-UHD frame to report its size and
// timing, without walking the chunk catalogue's metadata chunks or
// verifying their CRCs: the frame length is fully determined by the FTOC
// and NAVI table (specification §4.4, §4.5), before any metadata chunk is
// inspected. This is what a stream framer or format prober needs to find
// frame boundaries; it never builds a Descriptor and never fails a frame
// over metadata that the caller doesn't care about yet.
//
// p must have been returned by NewParser and must not be shared with a
// different logical stream (specification §5, §9). A Parser used only
// through SizeFrame never accumulates MD01 registry state, since that
// state is built by the metadata dispatch SizeFrame skips.
func SizeFrame(p *Parser, data []byte) (*FrameInfo, error) {
	fi, _, err := parseFrame(p, data, false)
	return fi, err
}

func parseFrame(p *Parser, data []byte, buildDescriptor bool) (*FrameInfo, *Descriptor, error) {
	if p == nil || data == nil {
		return nil, nil, statusErr(StatusNullArg, errors.New("parser and data must not be nil"))
	}
	if len(data) < 4 {
		return nil, nil, statusErr(StatusIncomplete, errors.New("buffer does not contain the signature"))
	}

	p.data = data
	p.gb = bits.NewReader(data, len(data)*8)

	syncword, err := p.gb.GetBits(32)
	if err != nil {
		return nil, nil, statusErr(StatusIncomplete, err)
	}
	p.isSyncFrame = syncword == syncwordSync
	p.sawSync = p.sawSync || p.isSyncFrame
	if !p.sawSync || (!p.isSyncFrame && syncword != syncwordNonSync) {
		return nil, nil, statusErr(StatusNoSync, errors.Errorf("unrecognised syncword 0x%08X", syncword))
	}

	v, err := readVLC(p.gb, tablePayload, true)
	if err != nil {
		return nil, nil, statusErr(StatusIncomplete, err)
	}
	p.ftocBytes = int(v) + 1
	if p.ftocBytes < 5 || p.ftocBytes >= len(data) {
		return nil, nil, statusErr(StatusIncomplete, errors.New("buffer does not contain the entire FTOC"))
	}

	if err := p.parseStreamParams(); err != nil {
		return nil, nil, statusErr(StatusInvalidFrame, err)
	}
	if err := p.parseAudPresParams(); err != nil {
		return nil, nil, statusErr(StatusInvalidFrame, err)
	}
	chunkBytes, err := p.parseChunkNavi()
	if err != nil {
		return nil, nil, statusErr(StatusInvalidFrame, err)
	}

	frameBytes := p.ftocBytes + chunkBytes
	if frameBytes > len(data) {
		return nil, nil, statusErr(StatusIncomplete, errors.New("buffer does not contain the entire frame"))
	}

	var desc *Descriptor
	if p.isSyncFrame && buildDescriptor {
		// Skip PBRSmoothParams (Table 6-26) and align to the chunks
		// immediately following the FTOC CRC.
		if err := p.gb.SkipBits(p.ftocBytes*8 - p.gb.GetBitsCount()); err != nil {
			return nil, nil, statusErr(StatusInvalidFrame, err)
		}
		if err := p.parseChunks(); err != nil {
			return nil, nil, statusErr(StatusInvalidFrame, err)
		}
		d := p.updateDescriptor()
		desc = &d
	}

	// 6.3.6.9: audio frame duration may be a fraction of metadata frame
	// duration.
	fraction := 1
	for i := range p.navi {
		if !p.navi[i].present {
			continue
		}
		switch p.navi[i].id {
		case 3:
			fraction = 2
		case 4:
			fraction = 4
		}
	}

	fi := &FrameInfo{
		Sync:       p.isSyncFrame,
		FrameBytes: frameBytes,
		SampleRate: p.sampleRate,
	}
	if p.clockRate != 0 && fraction != 0 {
		fi.SampleCount = (p.frameDuration * fi.SampleRate) / (p.clockRate * fraction)
	}
	if fi.SampleRate != 0 {
		fi.Duration = float64(fi.SampleCount) / float64(fi.SampleRate)
	}

	return fi, desc, nil
}
