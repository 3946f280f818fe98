/*
DESCRIPTION
  md01.go implements the MD01 metadata-chunk registry: per-chunk object
  tables, object metadata parsing and the multi-frame static-metadata
  accumulator (specification §4.6, §4.7).

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
	"github.com/ausocean/utils/logging"
	"github.com/pkg/errors"
)

var (
	tableMDChunkList   = [4]int{3, 4, 6, 8}
	tableRenderSkip    = [4]int{8, 10, 12, 14}
	tableObjImportance = [4]int{1, 4, 4, 8}
	tableObjSpread     = [4]int{3, 3, 4, 8}
	tablePacketCount   = [4]int{0, 6, 9, 12}
	tablePacketSize    = [4]int{5, 7, 9, 11}

	// tablePresIndex mirrors the upstream chunk-dispatch table exactly,
	// duplicate final entry included; it is not the same table used by
	// parseAudPresParams.
	tablePresIndex = [4]int{0, 2, 4, 4}
)

// chunkFindMD01 returns the MD01 registered under id, or nil.
func (p *Parser) chunkFindMD01(id int) *md01 {
	for _, m := range p.md01s {
		if m.chunkID == id {
			return m
		}
	}
	return nil
}

// chunkAppendMD01 registers and returns a new, zeroed MD01 for id.
func (p *Parser) chunkAppendMD01(id int) *md01 {
	m := &md01{chunkID: id}
	if len(p.md01s) == cap(p.md01s) {
		grown := make([]*md01, len(p.md01s), cap(p.md01s)+allocIncrement)
		copy(grown, p.md01s)
		p.md01s = grown
	}
	p.md01s = append(p.md01s, m)
	return m
}

// getBitsMD01 reads from the MD01's static-metadata accumulation buffer if
// one has been initialised, falling back to the current frame buffer.
func (p *Parser) getBitsMD01(md *md01, n int) (uint32, error) {
	if md.staticMDReader != nil {
		return md.staticMDReader.GetBits(n)
	}
	return p.gb.GetBits(n)
}

// parseMDChunkList implements Table 6-6: the list of object IDs an MD01
// chunk carries metadata for.
func (p *Parser) parseMDChunkList(md *md01) error {
	if p.fullChannelMixFlag {
		md.objectList = []int{256}
		return nil
	}

	v, err := readVLC(p.gb, tableMDChunkList, true)
	if err != nil {
		return errors.Wrap(err, "could not read object_list_count")
	}
	md.objectList = make([]int, int(v))
	for i := range md.objectList {
		wide, err := p.gb.GetBits1()
		if err != nil {
			return errors.Wrap(err, "could not read object id width")
		}
		n := 4
		if wide == 1 {
			n = 8
		}
		id, err := p.gb.GetBits(n)
		if err != nil {
			return errors.Wrap(err, "could not read object id")
		}
		md.objectList[i] = int(id)
	}
	return nil
}

// isSuitableForRender implements Table 7-18: objects in the reserved
// OBJGROUPIDSTART range (>=224) are always accepted; otherwise a flag bit
// decides, and a rejected object's render data is skipped.
func (p *Parser) isSuitableForRender(objectID int) (bool, error) {
	if objectID >= 224 {
		return true, nil
	}
	v, err := p.gb.GetBits1()
	if err != nil {
		return false, errors.Wrap(err, "could not read suitable-for-render flag")
	}
	if v == 1 {
		return true, nil
	}

	if err := p.gb.SkipBits(1); err != nil {
		return false, errors.Wrap(err, "could not skip render-reject bit")
	}
	n, err := readVLC(p.gb, tableRenderSkip, true)
	if err != nil {
		return false, errors.Wrap(err, "could not read render-skip length")
	}
	if err := p.gb.SkipBits(int(n)); err != nil {
		return false, errors.Wrap(err, "could not skip rejected render data")
	}
	return false, nil
}

// parseChMaskParams implements Table 7-26: resolves the object's channel
// activity mask, either from the 14-row lookup table (Table 7-27) or as an
// explicit 16- or 32-bit mask.
func (p *Parser) parseChMaskParams(object *mdObject) error {
	chIndex := 1
	if object.RepType != RepBinaural {
		v, err := p.gb.GetBits(4)
		if err != nil {
			return errors.Wrap(err, "could not read ch_index")
		}
		chIndex = int(v)
	}

	switch chIndex {
	case 14:
		v, err := p.gb.GetBits(16)
		if err != nil {
			return errors.Wrap(err, "could not read explicit 16-bit channel mask")
		}
		object.chActivityMask = v
	case 15:
		v, err := p.gb.GetBits(32)
		if err != nil {
			return errors.Wrap(err, "could not read explicit 32-bit channel mask")
		}
		object.chActivityMask = v
	default:
		object.chActivityMask = chMaskTable[chIndex]
	}
	return nil
}

// parseObjectMetadata implements Table 7-22.
func (p *Parser) parseObjectMetadata(object *mdObject, startFrameFlag bool, objectID int) error {
	if objectID != 256 {
		if err := p.gb.SkipBits(1); err != nil {
			return errors.Wrap(err, "could not skip object metadata reserved bit")
		}
	}
	if !startFrameFlag {
		return nil
	}

	v, err := p.gb.GetBits(3)
	if err != nil {
		return errors.Wrap(err, "could not read rep_type")
	}
	object.RepType = RepType(v)

	var chMaskObjectFlag, object3DFlag bool
	switch object.RepType {
	case RepBinaural, RepChMaskBased, RepMtrx2DChMaskBased, RepMtrx3DChMaskBased:
		chMaskObjectFlag = true
	case Rep3DObjectSingleSrcPerWF, Rep3DMonoObjectSingleSrcPerWF:
		object3DFlag = true
	}

	if !chMaskObjectFlag {
		return nil
	}

	if objectID != 256 {
		if err := p.gb.SkipBits(3); err != nil {
			return errors.Wrap(err, "could not skip object importance level")
		}
		hasOffset, err := p.gb.GetBits1()
		if err != nil {
			return errors.Wrap(err, "could not read object offset flag")
		}
		if hasOffset == 1 {
			narrow, err := p.gb.GetBits1()
			if err != nil {
				return errors.Wrap(err, "could not read object offset width")
			}
			n := 5
			if narrow == 1 {
				n = 3
			}
			if err := p.gb.SkipBits(n); err != nil {
				return errors.Wrap(err, "could not skip object offset")
			}
		}

		if _, err := readVLC(p.gb, tableObjImportance, true); err != nil {
			return errors.Wrap(err, "could not read object importance value")
		}
		if _, err := readVLC(p.gb, tableObjSpread, true); err != nil {
			return errors.Wrap(err, "could not read object spread value")
		}

		hasLoudness, err := p.gb.GetBits1()
		if err != nil {
			return errors.Wrap(err, "could not read object loudness flag")
		}
		if hasLoudness == 1 {
			if err := p.gb.SkipBits(8); err != nil {
				return errors.Wrap(err, "could not skip object loudness block")
			}
		}

		hasInteractive, err := p.gb.GetBits1()
		if err != nil {
			return errors.Wrap(err, "could not read object interactive md flag")
		}
		if hasInteractive == 1 && p.interactiveObjLimitsPresent {
			hasLimits, err := p.gb.GetBits1()
			if err != nil {
				return errors.Wrap(err, "could not read object interactive limits flag")
			}
			if hasLimits == 1 {
				n := 5
				if object3DFlag {
					n += 6
				}
				if err := p.gb.SkipBits(n); err != nil {
					return errors.Wrap(err, "could not skip object interactive limits")
				}
			}
		}
	}

	return p.parseChMaskParams(object)
}

// parseMD01 implements Table 7-4: scaling data, the multi-frame static
// metadata trigger, and a single pass over the chunk's object list. Per
// the specification's design notes, the loop breaks after its first
// iteration's body runs, whether or not that object was accepted for
// render - a deliberate preservation of the upstream behaviour.
func (p *Parser) parseMD01(md *md01, presIndex int) error {
	if p.audio[presIndex].selectable {
		for i := 0; i < 4; i++ {
			flag, err := p.gb.GetBits1()
			if err != nil {
				return errors.Wrap(err, "could not read scaling data flag")
			}
			if flag == 1 {
				if err := p.gb.SkipBits(5); err != nil {
					return errors.Wrap(err, "could not skip scaling data")
				}
			}
		}

		hasMultiFrame, err := p.gb.GetBits1()
		if err != nil {
			return errors.Wrap(err, "could not read multi-frame metadata flag")
		}
		if hasMultiFrame == 1 {
			if err := p.parseMultiFrameMD(md); err != nil {
				return err
			}
		}
	}

	for i := range md.object {
		md.object[i] = mdObject{}
	}

	if !p.fullChannelMixFlag {
		flag, err := p.gb.GetBits1()
		if err != nil {
			return errors.Wrap(err, "could not read pre-object reserved flag")
		}
		if flag == 1 {
			if err := p.gb.SkipBits(11); err != nil {
				return errors.Wrap(err, "could not skip pre-object reserved field")
			}
		}
	}

	for _, id := range md.objectList {
		suitable, err := p.isSuitableForRender(id)
		if err != nil {
			return err
		}
		if !suitable {
			break
		}

		md.object[id].presIndex = presIndex
		startFlag := false
		if !md.object[id].started {
			if id != 256 {
				if err := p.gb.SkipBits(1); err != nil {
					return errors.Wrap(err, "could not skip object start reserved bit")
				}
			}
			md.object[id].started = true
			startFlag = true
		}

		if id < 224 || id > 255 {
			if err := p.parseObjectMetadata(&md.object[id], startFlag, id); err != nil {
				return err
			}
		}

		break
	}

	return nil
}

// skipMPParamSet implements Table 7-9: one loudness parameter set.
func (p *Parser) skipMPParamSet(md *md01, nominalFlag bool) error {
	if _, err := p.getBitsMD01(md, 6); err != nil {
		return errors.Wrap(err, "could not read rLoudness")
	}
	if !nominalFlag {
		if _, err := p.getBitsMD01(md, 5); err != nil {
			return errors.Wrap(err, "could not read non-nominal loudness field")
		}
	}
	n := 2
	if !nominalFlag {
		n = 4
	}
	if _, err := p.getBitsMD01(md, n); err != nil {
		return errors.Wrap(err, "could not read loudness parameter set trailer")
	}
	return nil
}

// parseStaticMDParams implements Table 7-8: the loudness parameter sets and
// (unless onlyFirst) the remaining static metadata fields, consumed from
// the MD01's accumulation buffer.
func (p *Parser) parseStaticMDParams(md *md01, onlyFirst bool) error {
	loudnessSets := 1
	nominalFlag := true
	if !p.fullChannelMixFlag {
		v, err := p.getBitsMD01(md, 1)
		if err != nil {
			return errors.Wrap(err, "could not read nominal_flag")
		}
		nominalFlag = v == 1
	}

	if nominalFlag {
		if !p.fullChannelMixFlag {
			v, err := p.getBitsMD01(md, 1)
			if err != nil {
				return errors.Wrap(err, "could not read loudness_sets flag")
			}
			if v == 1 {
				loudnessSets = 3
			}
		}
	} else {
		v, err := p.getBitsMD01(md, 4)
		if err != nil {
			return errors.Wrap(err, "could not read loudness_sets count")
		}
		loudnessSets = int(v) + 1
	}

	for i := 0; i < loudnessSets; i++ {
		if err := p.skipMPParamSet(md, nominalFlag); err != nil {
			return err
		}
	}

	if onlyFirst {
		return nil
	}

	if !nominalFlag {
		if _, err := p.getBitsMD01(md, 1); err != nil {
			return errors.Wrap(err, "could not read post-loudness reserved bit")
		}
	}

	for i := 0; i < 3; i++ {
		flag, err := p.getBitsMD01(md, 1)
		if err != nil {
			return errors.Wrap(err, "could not read loudness type flag")
		}
		if flag == 1 {
			v, err := p.getBitsMD01(md, 4)
			if err != nil {
				return errors.Wrap(err, "could not read loudness type index")
			}
			if v == 15 {
				if _, err := p.getBitsMD01(md, 15); err != nil {
					return errors.Wrap(err, "could not read extended loudness type")
				}
			}
		}
		smooth, err := p.getBitsMD01(md, 1)
		if err != nil {
			return errors.Wrap(err, "could not read smooth metadata flag")
		}
		if smooth == 1 {
			if _, err := p.getBitsMD01(md, 36); err != nil {
				return errors.Wrap(err, "could not read smooth metadata")
			}
		}
	}

	if !p.fullChannelMixFlag {
		remaining := md.staticMDPackets*md.staticMDPacketSize - md.staticMDReader.GetBitsCount()
		if err := md.staticMDReader.SkipBits(remaining); err != nil {
			return errors.Wrap(err, "could not skip static metadata padding")
		}
	}
	md.staticMDExtracted = true

	return nil
}

// parseMultiFrameMD implements Table 7-7: on a sync frame, (re)allocates
// the accumulation buffer and resets the packet counter; on every frame,
// appends one packet of accumulated bytes, triggering a static-metadata
// parse once a full set of packets has been gathered.
func (p *Parser) parseMultiFrameMD(md *md01) error {
	if p.isSyncFrame {
		md.packetsAcquired = 0
		if p.fullChannelMixFlag {
			md.staticMDPackets = 1
			md.staticMDPacketSize = 0
		} else {
			v1, err := readVLC(p.gb, tablePacketCount, true)
			if err != nil {
				return errors.Wrap(err, "could not read static_md_packets")
			}
			md.staticMDPackets = int(v1) + 1
			v2, err := readVLC(p.gb, tablePacketSize, true)
			if err != nil {
				return errors.Wrap(err, "could not read static_md_packet_size")
			}
			md.staticMDPacketSize = int(v2) + 3
		}

		n := md.staticMDPackets * md.staticMDPacketSize
		if n > len(md.staticMDBuf) {
			md.staticMDBuf = make([]byte, n)
		}
		md.staticMDReader = bits.NewReader(md.staticMDBuf[:n], n*8)

		if md.staticMDPackets > 1 {
			v, err := p.gb.GetBits1()
			if err != nil {
				return errors.Wrap(err, "could not read static_md_update_flag")
			}
			md.staticMDUpdateFlag = v == 1
		} else {
			md.staticMDUpdateFlag = true
		}
	}

	if md.packetsAcquired >= md.staticMDPackets {
		return nil
	}

	n := md.packetsAcquired * md.staticMDPacketSize
	for i := 0; i < md.staticMDPacketSize; i++ {
		b, err := p.gb.GetBits(8)
		if err != nil {
			return errors.Wrap(err, "could not read static metadata packet byte")
		}
		md.staticMDBuf[n+i] = byte(b)
	}
	md.packetsAcquired++

	switch {
	case md.packetsAcquired == md.staticMDPackets:
		if md.staticMDUpdateFlag || !md.staticMDExtracted {
			if err := p.parseStaticMDParams(md, false); err != nil {
				return err
			}
		}
	case md.packetsAcquired == 1:
		if md.staticMDUpdateFlag || !md.staticMDExtracted {
			if err := p.parseStaticMDParams(md, true); err != nil {
				return err
			}
		}
	}

	return nil
}

// parseChunks implements Table 6-2: walks the chunk catalogue built by
// parseChunkNavi, verifying each CRC-protected chunk and dispatching
// metadata chunks (id 1) to their MD01 registry entry.
func (p *Parser) parseChunks() error {
	for i := range p.chunks {
		bitNext := p.gb.GetBitsCount() + p.chunks[i].bytes*8

		if p.chunks[i].crcFlag && !crcOK(p.data, p.gb.GetBitsCount(), p.chunks[i].bytes) {
			logf(logging.Warning, "chunk CRC check failed", "chunkIndex", i, "chunkBytes", p.chunks[i].bytes)
			return errors.New("chunk CRC check failed")
		}

		id, err := p.gb.GetBits(8)
		if err != nil {
			return errors.Wrap(err, "could not read chunk id")
		}

		if id == 1 {
			v, err := readVLC(p.gb, tablePresIndex, true)
			if err != nil {
				return errors.Wrap(err, "could not read pres_index")
			}
			presIndex := int(v)
			if presIndex > 255 {
				return errors.Errorf("pres_index %d out of range", presIndex)
			}

			logf(logging.Debug, "dispatching MD01 metadata chunk", "chunkID", id, "presIndex", presIndex)

			md := p.chunkFindMD01(int(id))
			if md == nil {
				md = p.chunkAppendMD01(int(id))
			}
			if err := p.parseMDChunkList(md); err != nil {
				return err
			}
			if err := p.parseMD01(md, presIndex); err != nil {
				return err
			}
		}

		if err := p.gb.SkipBits(bitNext - p.gb.GetBitsCount()); err != nil {
			return errors.Wrap(err, "could not skip to end of chunk")
		}
	}
	return nil
}
