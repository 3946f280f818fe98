/*
DESCRIPTION
  ftoc.go parses the Frame Table of Contents: stream parameters (version,
  duration, sample rate) and audio-presentation parameters (specification
  §4.4).

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
	tableBaseDuration = [4]int{512, 480, 384, 0}
	tableClockRate    = [4]int{32000, 44100, 48000, 0}
	tableAudPres      = [4]int{0, 2, 4, 5}
	tableExplicitObj  = [4]int{4, 8, 16, 32}
)

// decodeVersion reads the major_version field (Table 6-12): a 1-bit width
// selector followed by a value of that width, offset by 2.
func (p *Parser) decodeVersion() error {
	wide, err := p.gb.GetBits1()
	if err != nil {
		return errors.Wrap(err, "could not read version width selector")
	}
	n := 6
	if wide == 1 {
		n = 3
	}
	v, err := p.gb.GetBits(n)
	if err != nil {
		return errors.Wrap(err, "could not read version value")
	}
	p.majorVersion = int(v) + 2
	if err := p.gb.SkipBits(n); err != nil {
		return errors.Wrap(err, "could not skip reserved version bits")
	}
	return nil
}

// parseStreamParams implements Table 6-12: full_channel_mix_flag, the FTOC
// CRC check, version, frame duration, clock rate, optional timestamp,
// sample_rate_mod and interactive_obj_limits_present.
func (p *Parser) parseStreamParams() error {
	if p.isSyncFrame {
		v, err := p.gb.GetBits1()
		if err != nil {
			return errors.Wrap(err, "could not read full_channel_mix_flag")
		}
		p.fullChannelMixFlag = v == 1
	}

	hasFTOCCRC := !p.fullChannelMixFlag || p.isSyncFrame
	if hasFTOCCRC && !crcOK(p.data, 0, p.ftocBytes) {
		logf(logging.Warning, "FTOC CRC check failed", "ftocBytes", p.ftocBytes)
		return errors.New("FTOC CRC check failed")
	}

	if !p.isSyncFrame {
		return nil
	}

	if p.fullChannelMixFlag {
		p.majorVersion = 2
	} else if err := p.decodeVersion(); err != nil {
		return err
	}

	durIdx, err := p.gb.GetBits(2)
	if err != nil {
		return errors.Wrap(err, "could not read base frame duration index")
	}
	durCode, err := p.gb.GetBits(3)
	if err != nil {
		return errors.Wrap(err, "could not read frame duration code")
	}
	p.frameDurationCode = int(durCode)
	p.frameDuration = tableBaseDuration[durIdx] * (p.frameDurationCode + 1)

	rateIdx, err := p.gb.GetBits(2)
	if err != nil {
		return errors.Wrap(err, "could not read clock rate index")
	}
	p.clockRate = tableClockRate[rateIdx]

	if p.frameDuration == 0 || p.clockRate == 0 {
		return errors.New("frame_duration or clock_rate is zero")
	}

	hasTimestamp, err := p.gb.GetBits1()
	if err != nil {
		return errors.Wrap(err, "could not read timestamp-present flag")
	}
	if hasTimestamp == 1 {
		if err := p.gb.SkipBits(36); err != nil {
			return errors.Wrap(err, "could not skip timestamp")
		}
	}

	mod, err := p.gb.GetBits(2)
	if err != nil {
		return errors.Wrap(err, "could not read sample_rate_mod")
	}
	p.sampleRateMod = int(mod)
	p.sampleRate = p.clockRate << p.sampleRateMod

	if p.fullChannelMixFlag {
		p.interactiveObjLimitsPresent = false
		return nil
	}

	if err := p.gb.SkipBits(1); err != nil {
		return errors.Wrap(err, "could not skip reserved bit before interactive_obj_limits_present")
	}
	v, err := p.gb.GetBits1()
	if err != nil {
		return errors.Wrap(err, "could not read interactive_obj_limits_present")
	}
	p.interactiveObjLimitsPresent = v == 1
	return nil
}

// parseExplicitObjectLists implements Table 6-17: for each set bit in mask
// (over presentations [0,index)), optionally (always on sync frames,
// otherwise gated by a flag bit) reads and discards a VLC render-skip
// value.
func (p *Parser) parseExplicitObjectLists(mask uint32, index int) error {
	for i := 0; i < index; i++ {
		if (mask>>uint(i))&1 == 0 {
			continue
		}
		read := p.isSyncFrame
		if !read {
			v, err := p.gb.GetBits1()
			if err != nil {
				return errors.Wrap(err, "could not read explicit-object-list gate")
			}
			read = v == 1
		}
		if read {
			if _, err := readVLC(p.gb, tableExplicitObj, true); err != nil {
				return errors.Wrap(err, "could not read explicit object list skip value")
			}
		}
	}
	return nil
}

// parseAudPresParams implements Tables 6-15/6-16: the number of audio
// presentations and, for each, selectability, dependency mask and explicit
// object lists.
func (p *Parser) parseAudPresParams() error {
	if p.isSyncFrame {
		if p.fullChannelMixFlag {
			p.numAudioPres = 1
		} else {
			v, err := readVLC(p.gb, tableAudPres, true)
			if err != nil {
				return errors.Wrap(err, "could not read num_audio_pres")
			}
			p.numAudioPres = int(v) + 1
		}
		if p.numAudioPres < 1 || p.numAudioPres > maxAudioPres {
			return errors.Errorf("num_audio_pres %d out of range", p.numAudioPres)
		}
		for i := 0; i < p.numAudioPres; i++ {
			p.audio[i] = audioPres{}
		}
	}

	for a := 0; a < p.numAudioPres; a++ {
		if p.isSyncFrame {
			if p.fullChannelMixFlag {
				p.audio[a].selectable = true
			} else {
				v, err := p.gb.GetBits1()
				if err != nil {
					return errors.Wrap(err, "could not read selectable flag")
				}
				p.audio[a].selectable = v == 1
			}
		}

		if !p.audio[a].selectable {
			p.audio[a].mask = 0
			continue
		}

		if p.isSyncFrame {
			var readMask uint32
			if a > 0 {
				v, err := p.gb.GetBits(a)
				if err != nil {
					return errors.Wrap(err, "could not read dependency read-mask")
				}
				readMask = v
			}
			var mask uint32
			for i := 0; readMask != 0; i, readMask = i+1, readMask>>1 {
				if readMask&1 != 0 {
					b, err := p.gb.GetBits1()
					if err != nil {
						return errors.Wrap(err, "could not read dependency mask bit")
					}
					mask |= b << uint(i)
				}
			}
			p.audio[a].mask = mask
		}

		if err := p.parseExplicitObjectLists(p.audio[a].mask, a); err != nil {
			return err
		}
	}

	return nil
}
