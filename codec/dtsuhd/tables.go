/*
DESCRIPTION
  tables.go holds the static lookup tables referenced by the FTOC, MD01 and
  descriptor components: the per-object channel-mask table (Table 7-27) and
  the channel-activity-mask-to-ETSI/external-channel-mask table (Table
  7-28, cross-referenced against SCTE DVS 243-4 Rev. 0.2 DG X Table 4).

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

// RepType enumerates object representation types (§7.8, Table 7-16).
type RepType int

const (
	RepChMaskBased RepType = iota
	RepMtrx2DChMaskBased
	RepMtrx3DChMaskBased
	RepBinaural
	RepAmbisonic
	RepAudioTracks
	Rep3DObjectSingleSrcPerWF
	Rep3DMonoObjectSingleSrcPerWF
)

// chMaskTable maps a 4-bit channel-mask index (ch_index in [0,13]) to the
// 14 predefined channel-activity masks of Table 7-27. Index 14 and 15 are
// handled separately (a 16-bit or 32-bit explicit mask follows instead).
var chMaskTable = [14]uint32{
	0x000001, 0x000002, 0x000006, 0x00000F, 0x00001F, 0x00084B, 0x00002F,
	0x00802F, 0x00486B, 0x00886B, 0x03FBFB, 0x000003, 0x000007, 0x000843,
}

// activityMapRow is one row of the channel-activity-mask -> channel-mask
// translation table.
type activityMapRow struct {
	activityMask         uint32
	channelMask          uint32 // ETSI TS 103 491 channel mask numbering.
	externalChannelMask  uint64 // Target-ecosystem (container) channel mask numbering.
}

// activityMap is Table 7-28. Row order matters: rows at activity 0x140000
// and 0x080000 set external_channel_mask bits that overlap rows at
// 0x000020 and 0x008000 respectively. Because the builder ORs bits in,
// this is idempotent, but the duplicate rows must be preserved in this
// exact order rather than deduplicated.
var activityMap = []activityMapRow{
	{0x000001, 0x00000001, chFrontCenter},
	{0x000002, 0x00000006, chFrontLeft | chFrontRight},
	{0x000004, 0x00000018, chSideLeft | chSideRight},
	{0x000008, 0x00000020, chLowFrequency},
	{0x000010, 0x00000040, chBackCenter},
	{0x000020, 0x0000A000, chTopFrontLeft | chTopFrontRight},
	{0x000040, 0x00000180, chBackLeft | chBackRight},
	{0x000080, 0x00004000, chTopFrontCenter},
	{0x000100, 0x00080000, chTopCenter},
	{0x000200, 0x00001800, chFrontLeftOfCenter | chFrontRightOfCenter},
	{0x000400, 0x00060000, chWideLeft | chWideRight},
	{0x000800, 0x00000600, chSurroundDirectLeft | chSurroundDirectRight},
	{0x001000, 0x00010000, chLowFrequency2},
	{0x002000, 0x00300000, chTopSideLeft | chTopSideRight},
	{0x004000, 0x00400000, chTopBackCenter},
	{0x008000, 0x01800000, chTopBackLeft | chTopBackRight},
	{0x010000, 0x02000000, chBottomFrontCenter},
	{0x020000, 0x0C000000, chBottomFrontLeft | chBottomFrontRight},
	{0x140000, 0x30000000, chTopFrontLeft | chTopFrontRight},
	{0x080000, 0xC0000000, chTopBackLeft | chTopBackRight},
}

// External-ecosystem channel bit positions, mirroring the target ISO-BMFF
// consumer's channel layout bitmask (analogous to FFmpeg's AV_CH_* family).
const (
	chFrontCenter uint64 = 1 << iota
	chFrontLeft
	chFrontRight
	chSideLeft
	chSideRight
	chLowFrequency
	chBackCenter
	chBackLeft
	chBackRight
	chTopFrontCenter
	chTopFrontLeft
	chTopFrontRight
	chTopCenter
	chFrontLeftOfCenter
	chFrontRightOfCenter
	chWideLeft
	chWideRight
	chSurroundDirectLeft
	chSurroundDirectRight
	chLowFrequency2
	chTopSideLeft
	chTopSideRight
	chTopBackCenter
	chTopBackLeft
	chTopBackRight
	chBottomFrontCenter
	chBottomFrontLeft
	chBottomFrontRight
)
