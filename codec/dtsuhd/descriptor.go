/*
DESCRIPTION
  descriptor.go implements default-audio-presentation selection and the
  codec-parameters descriptor assembled from it, for hand-off to a
  container muxer's sample-entry box (specification §4.8, §4.9).

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

// Descriptor carries the codec parameters needed to populate a container's
// sample-entry box for a DTS-UHD track. It is only populated on sync
// frames, once the chunk payload has been fully parsed.
type Descriptor struct {
	Valid bool

	CodingName string

	BaseSampleFreqCode   bool
	ChannelCount         int
	ChannelMask          uint32
	ExternalChannelMask  uint64
	DecoderProfileCode   int
	FrameDurationCode    int
	MaxPayloadCode       int
	NumPresCode          int
	RepType              RepType
	SampleRate           int
	SampleRateMod        int
	SampleSize           int
}

// findDefaultAudio implements the default-audio selection algorithm
// (specification §4.8): across every registered MD01, in registration
// order, pick the started object belonging to the lowest-indexed
// selectable presentation. The first MD01 to yield a candidate wins.
func (p *Parser) findDefaultAudio() *mdObject {
	for _, md := range p.md01s {
		objIndex := -1
		for j := range md.object {
			object := &md.object[j]
			if !object.started || !p.audio[object.presIndex].selectable {
				continue
			}
			if objIndex < 0 || object.presIndex < md.object[objIndex].presIndex {
				objIndex = j
			}
		}
		if objIndex >= 0 {
			return &md.object[objIndex]
		}
	}
	return nil
}

// extractObjectInfo fills in the channel mask, channel count and
// representation type of d from object's channel activity mask, via the
// activity-map translation table (Table 7-28).
func extractObjectInfo(object *mdObject, d *Descriptor) {
	if object == nil {
		return
	}
	for _, row := range activityMap {
		if row.activityMask&object.chActivityMask != 0 {
			d.ChannelMask |= row.channelMask
			d.ExternalChannelMask |= row.externalChannelMask
		}
	}
	d.ChannelCount = popcount32(d.ChannelMask)
	d.RepType = object.RepType
}

// popcount32 counts the set bits of v.
func popcount32(v uint32) int {
	n := 0
	for v != 0 {
		v &= v - 1
		n++
	}
	return n
}

// updateDescriptor builds the Descriptor that ParseFrame returns for a sync
// frame: resolves the default audio object and assembles the descriptor
// fields that a container
// sample-entry box needs. Sample size is always 16 bits; the coding name
// is "dtsx" unless the bitstream's major version indicates a successor
// profile.
func (p *Parser) updateDescriptor() Descriptor {
	var d Descriptor

	codingName := "dtsx"
	if p.majorVersion > 2 {
		codingName = "dtsy"
	}
	d.CodingName = codingName

	extractObjectInfo(p.findDefaultAudio(), &d)

	d.BaseSampleFreqCode = p.sampleRate == 48000
	d.DecoderProfileCode = p.majorVersion - 2
	d.FrameDurationCode = p.frameDurationCode
	d.MaxPayloadCode = 0
	if p.majorVersion > 2 {
		d.MaxPayloadCode = 1
	}
	d.NumPresCode = p.numAudioPres - 1
	d.SampleRate = p.sampleRate
	d.SampleRateMod = p.sampleRateMod
	d.SampleSize = 16
	d.Valid = true

	return d
}
