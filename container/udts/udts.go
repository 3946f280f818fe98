/*
DESCRIPTION
  udts.go builds and parses the "udts" ISO-BMFF sample-entry box that
  carries a DTS-UHD stream's decoder configuration.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package udts builds and parses the "udts" sample-entry box, the
// ISO-BMFF-style extradata container that records a DTS-UHD stream's
// decoder configuration outside the elementary stream itself.
package udts

import (
	"encoding/binary"

	"github.com/pkg/errors"

	"github.com/ausocean/dtsuhd/codec/dtsuhd"
	"github.com/ausocean/dtsuhd/codec/dtsuhd/bits"
)

// boxTag is the 4-byte signature at the start of every udts box.
var boxTag = [4]byte{'u', 'd', 't', 's'}

// minBoxSize is the smallest a well-formed udts box can be: 4 byte size, 4
// byte tag, then 58 fixed content bits plus at least one ID-tag-present bit,
// packed together and rounded up to a byte.
const minBoxSize = 4 + 4 + 8

// Build serialises d's decoder configuration as a udts box, matching the
// layout written by the target ecosystem's DTS-UHD demuxer: a 32-bit box
// size, the "udts" tag, then the fixed fields of Descriptor packed
// bit-for-bit, followed by one ID-tag-present flag bit per presentation
// (always written false, since Descriptor does not track per-presentation
// ID tags), byte-aligned.
func Build(d dtsuhd.Descriptor) ([]byte, error) {
	w := bits.NewWriter()

	if err := w.PutBits(32, 0); err != nil { // box size, patched below.
		return nil, errors.Wrap(err, "could not write size placeholder")
	}
	for _, b := range boxTag {
		if err := w.PutBits(8, uint32(b)); err != nil {
			return nil, errors.Wrap(err, "could not write box tag")
		}
	}
	if err := w.PutBits(6, uint32(d.DecoderProfileCode)); err != nil {
		return nil, errors.Wrap(err, "could not write decoder_profile_code")
	}
	if err := w.PutBits(2, uint32(d.FrameDurationCode)); err != nil {
		return nil, errors.Wrap(err, "could not write frame_duration_code")
	}
	if err := w.PutBits(3, uint32(d.MaxPayloadCode)); err != nil {
		return nil, errors.Wrap(err, "could not write max_payload_code")
	}
	if err := w.PutBits(5, uint32(d.NumPresCode)); err != nil {
		return nil, errors.Wrap(err, "could not write num_pres_code")
	}
	if err := w.PutBits(32, d.ChannelMask); err != nil {
		return nil, errors.Wrap(err, "could not write channel_mask")
	}
	if err := w.PutBits(1, boolBit(d.BaseSampleFreqCode)); err != nil {
		return nil, errors.Wrap(err, "could not write base_sample_freq_code")
	}
	if err := w.PutBits(2, uint32(d.SampleRateMod)); err != nil {
		return nil, errors.Wrap(err, "could not write sample_rate_mod")
	}
	if err := w.PutBits(3, uint32(d.RepType)); err != nil {
		return nil, errors.Wrap(err, "could not write rep_type")
	}
	if err := w.PutBits(3, 0); err != nil { // reserved.
		return nil, errors.Wrap(err, "could not write reserved field")
	}
	if err := w.PutBits(1, 0); err != nil { // reserved.
		return nil, errors.Wrap(err, "could not write reserved bit")
	}
	// ID Tag present for each presentation: all absent, Descriptor carries
	// none.
	if err := w.PutBits64(d.NumPresCode+1, 0); err != nil {
		return nil, errors.Wrap(err, "could not write ID-tag-present flags")
	}

	w.Align()
	buf := w.Bytes()

	size := len(buf)
	binary.BigEndian.PutUint32(buf, uint32(size))

	return buf, nil
}

// boolBit converts a bool to the uint32 PutBits expects.
func boolBit(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// Parse decodes a udts box back into a Descriptor, the inverse of Build.
// Only the fields Build writes are populated; Valid is set true on
// success.
func Parse(data []byte) (dtsuhd.Descriptor, error) {
	var d dtsuhd.Descriptor

	if len(data) < minBoxSize {
		return d, errors.New("udts: buffer too small to hold a box")
	}

	size := binary.BigEndian.Uint32(data[:4])
	if int(size) > len(data) {
		return d, errors.Errorf("udts: box declares size %d, buffer holds %d bytes", size, len(data))
	}
	data = data[:size]

	if data[4] != boxTag[0] || data[5] != boxTag[1] || data[6] != boxTag[2] || data[7] != boxTag[3] {
		return d, errors.New("udts: missing \"udts\" tag")
	}

	r := bits.NewReader(data[8:], (len(data)-8)*8)

	decoderProfileCode, err := r.GetBits(6)
	if err != nil {
		return d, errors.Wrap(err, "could not read decoder_profile_code")
	}
	frameDurationCode, err := r.GetBits(2)
	if err != nil {
		return d, errors.Wrap(err, "could not read frame_duration_code")
	}
	maxPayloadCode, err := r.GetBits(3)
	if err != nil {
		return d, errors.Wrap(err, "could not read max_payload_code")
	}
	numPresCode, err := r.GetBits(5)
	if err != nil {
		return d, errors.Wrap(err, "could not read num_pres_code")
	}
	channelMask, err := r.GetBits(32)
	if err != nil {
		return d, errors.Wrap(err, "could not read channel_mask")
	}
	baseSampleFreqCode, err := r.GetBits(1)
	if err != nil {
		return d, errors.Wrap(err, "could not read base_sample_freq_code")
	}
	sampleRateMod, err := r.GetBits(2)
	if err != nil {
		return d, errors.Wrap(err, "could not read sample_rate_mod")
	}
	repType, err := r.GetBits(3)
	if err != nil {
		return d, errors.Wrap(err, "could not read rep_type")
	}
	if err := r.SkipBits(4); err != nil { // reserved fields.
		return d, errors.Wrap(err, "could not skip reserved fields")
	}
	if err := r.SkipBits(int(numPresCode) + 1); err != nil {
		return d, errors.Wrap(err, "could not skip ID-tag-present flags")
	}

	d.Valid = true
	d.DecoderProfileCode = int(decoderProfileCode)
	d.FrameDurationCode = int(frameDurationCode)
	d.MaxPayloadCode = int(maxPayloadCode)
	d.NumPresCode = int(numPresCode)
	d.ChannelMask = channelMask
	d.BaseSampleFreqCode = baseSampleFreqCode != 0
	d.SampleRateMod = int(sampleRateMod)
	d.RepType = dtsuhd.RepType(repType)

	return d, nil
}
