/*
DESCRIPTION
  navi.go implements the chunk catalogue and the NAVI (audio-chunk
  navigation) table, which together describe how many bytes follow the FTOC
  and how they are split between metadata chunks and audio chunks
  (specification §4.5).

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
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

var (
	table2468           = [4]int{2, 4, 6, 8}
	tableChunkSizes     = [4]int{6, 9, 12, 15}
	tableAudioChunkSize = [4]int{9, 11, 13, 16}
)

// naviClear drops all NAVI entries, run on every sync frame (Table 6-21).
func (p *Parser) naviClear() {
	p.navi = p.navi[:0]
}

// naviClearPresent marks every NAVI entry as not-yet-seen this frame,
// run on every non-sync frame before parsing (Table 6-22).
func (p *Parser) naviClearPresent() {
	for i := range p.navi {
		p.navi[i].present = false
	}
}

// naviPurge zeroes the size of any NAVI entry not observed this frame,
// leaving the slot in place for reuse (Table 6-24).
func (p *Parser) naviPurge() {
	for i := range p.navi {
		if !p.navi[i].present {
			p.navi[i].bytes = 0
		}
	}
}

// naviFindIndex finds or allocates the NAVI slot for desiredIndex (Table
// 6-23): an existing match is marked present and reused; otherwise the
// smallest already-vacated (!present && bytes==0) slot is reused, or a new
// slot is appended, growing the table's capacity by allocIncrement when it
// is full.
func (p *Parser) naviFindIndex(desiredIndex int) int {
	availIndex := len(p.navi)
	for i := range p.navi {
		if p.navi[i].index == desiredIndex {
			p.navi[i].present = true
			return i
		}
		if !p.navi[i].present && p.navi[i].bytes == 0 && availIndex > i {
			availIndex = i
		}
	}

	reused := availIndex < len(p.navi)
	if !reused {
		if len(p.navi) == cap(p.navi) {
			grown := make([]naviEntry, len(p.navi), cap(p.navi)+allocIncrement)
			copy(grown, p.navi)
			p.navi = grown
		}
		p.navi = append(p.navi, naviEntry{})
	}

	logf(logging.Debug, "NAVI slot assigned", "slot", availIndex, "desiredIndex", desiredIndex, "reused", reused)

	p.navi[availIndex] = naviEntry{
		bytes:   0,
		present: true,
		id:      256,
		index:   desiredIndex,
	}
	return availIndex
}

// parseChunkNavi implements Table 6-2/6-20: builds the per-frame chunk
// catalogue (metadata chunk sizes and CRC flags) and updates the NAVI table
// with audio-chunk sizes, returning the total payload byte count following
// the FTOC.
func (p *Parser) parseChunkNavi() (chunkBytes int, err error) {
	var chunkCount int
	if p.fullChannelMixFlag {
		if p.isSyncFrame {
			chunkCount = 1
		}
	} else {
		v, err := readVLC(p.gb, table2468, true)
		if err != nil {
			return 0, errors.Wrap(err, "could not read chunk_count")
		}
		chunkCount = int(v)
	}

	p.chunks = make([]chunk, chunkCount)
	for i := 0; i < chunkCount; i++ {
		v, err := readVLC(p.gb, tableChunkSizes, true)
		if err != nil {
			return 0, errors.Wrap(err, "could not read chunk bytes")
		}
		p.chunks[i].bytes = int(v)
		chunkBytes += p.chunks[i].bytes

		if p.fullChannelMixFlag {
			p.chunks[i].crcFlag = false
			continue
		}
		flag, err := p.gb.GetBits1()
		if err != nil {
			return 0, errors.Wrap(err, "could not read chunk crc_flag")
		}
		p.chunks[i].crcFlag = flag == 1
	}

	audioChunks := 1
	if !p.fullChannelMixFlag {
		v, err := readVLC(p.gb, table2468, true)
		if err != nil {
			return 0, errors.Wrap(err, "could not read audio_chunks")
		}
		audioChunks = int(v)
	}

	if p.isSyncFrame {
		p.naviClear()
	} else {
		p.naviClearPresent()
	}

	for i := 0; i < audioChunks; i++ {
		var index int
		if !p.fullChannelMixFlag {
			v, err := readVLC(p.gb, table2468, true)
			if err != nil {
				return 0, errors.Wrap(err, "could not read audio chunk index")
			}
			index = int(v)
		}

		listIndex := p.naviFindIndex(index)

		var idPresent bool
		switch {
		case p.isSyncFrame:
			idPresent = true
		case p.fullChannelMixFlag:
			idPresent = false
		default:
			v, err := p.gb.GetBits1()
			if err != nil {
				return 0, errors.Wrap(err, "could not read audio chunk id_present")
			}
			idPresent = v == 1
		}

		if idPresent {
			v, err := readVLC(p.gb, table2468, true)
			if err != nil {
				return 0, errors.Wrap(err, "could not read audio chunk id")
			}
			p.navi[listIndex].id = int(v)
		}

		bytesVal, err := readVLC(p.gb, tableAudioChunkSize, true)
		if err != nil {
			return 0, errors.Wrap(err, "could not read audio chunk bytes")
		}
		chunkBytes += int(bytesVal)
		p.navi[listIndex].bytes = int(bytesVal)
	}

	p.naviPurge()

	return chunkBytes, nil
}
