/*
DESCRIPTION
  doc.go provides the package documentation for dtsuhd.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dtsuhd provides a parser for the DTS-UHD (DTS:X Profile 2) audio
// bitstream, as defined by ETSI TS 103 491 V1.2.1. It parses a sequence of
// frames from an already-buffered byte slice and reports, per frame, its
// size and timing, and, on sync frames, a descriptor summarising the audio
// program (coding name, channel mask, sample rate, frame duration, decoder
// profile). No PCM is produced; this package only parses bitstream metadata.
package dtsuhd

import "github.com/ausocean/utils/logging"

// Log is the package-level logger. It is nil by default; callers that want
// logging should set it before use, as with codec/jpeg's Log var.
var Log logging.Logger

func logf(level int8, msg string, params ...interface{}) {
	if Log == nil {
		return
	}
	Log.Log(level, msg, params...)
}
