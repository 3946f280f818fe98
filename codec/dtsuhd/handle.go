/*
DESCRIPTION
  handle.go provides the Parser type: process-wide state for one logical
  DTS-UHD stream (specification §3). A Parser is created empty, mutated by
  successive calls to ParseFrame, and discarded (not reset) at the end of
  the stream's lifetime - one handle serves one stream (specification §5,
  §9 "Dynamic handle re-use").

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

import "github.com/ausocean/dtsuhd/codec/dtsuhd/bits"

// allocIncrement is the growth step for the NAVI and MD01 tables
// (specification §5 "Memory growth").
const allocIncrement = 16

// maxAudioPres is the maximum number of audio presentations a stream may
// declare (specification §3).
const maxAudioPres = 256

// audioPres is one entry of Parser.audio: a selectable audio presentation
// and its dependency mask over lower-indexed presentations.
type audioPres struct {
	mask       uint32
	selectable bool
}

// chunk is one entry of the per-frame chunk catalogue.
type chunk struct {
	bytes    int
	crcFlag  bool
}

// naviEntry is one NAVI slot, persistent across frames until reused.
type naviEntry struct {
	bytes   int
	id      int
	index   int
	present bool
}

// mdObject is one of the 257 object slots owned by an MD01 chunk state.
type mdObject struct {
	started       bool
	presIndex     int
	RepType       RepType
	chActivityMask uint32
}

// md01 is the per-metadata-chunk state accumulated across frames
// (specification §3, §4.6, §4.7).
type md01 struct {
	chunkID int

	object          [257]mdObject
	objectList      []int

	packetsAcquired     int
	staticMDExtracted   bool
	staticMDPackets     int
	staticMDPacketSize  int
	staticMDUpdateFlag  bool
	staticMDBuf         []byte
	staticMDReader      *bits.Reader
}

// Parser holds process-wide state for one logical DTS-UHD stream. The zero
// value, as returned by NewParser, is ready to use. Parser is not safe for
// concurrent use; separate streams require separate Parsers (specification
// §5).
type Parser struct {
	sawSync              bool
	isSyncFrame          bool
	fullChannelMixFlag   bool
	majorVersion         int

	frameDuration     int
	frameDurationCode int
	clockRate         int
	sampleRate        int
	sampleRateMod     int

	interactiveObjLimitsPresent bool

	numAudioPres int
	audio        [maxAudioPres]audioPres

	ftocBytes int

	chunks []chunk

	navi []naviEntry

	md01s []*md01

	// data and gb reference the current frame's buffer and bit cursor; they
	// are only valid for the duration of a single ParseFrame call.
	data []byte
	gb   *bits.Reader
}

// NewParser returns a Parser ready to begin parsing a new stream.
func NewParser() *Parser {
	return &Parser{}
}
