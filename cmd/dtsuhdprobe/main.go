/*
DESCRIPTION
  dtsuhdprobe is a command line tool that sniffs a file for a DTS-UHD
  elementary stream, frames and parses every frame it contains, and
  reports the stream's sync-frame descriptor.

AUTHORS
  Saxon Nelson-Milton <saxon@ausocean.org>, The Australian Ocean Laboratory (AusOcean)

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package dtsuhdprobe is a command line exerciser for the dtsuhd parsing
// pipeline: container probe, stream framing, frame parsing and udts box
// construction.
package main

import (
	"encoding/hex"
	"flag"
	"fmt"
	"os"

	"github.com/ausocean/utils/logging"

	"github.com/ausocean/dtsuhd/codec/dtsuhd"
	"github.com/ausocean/dtsuhd/container/dtshd"
	"github.com/ausocean/dtsuhd/container/udts"
	"github.com/ausocean/dtsuhd/streamframer"
)

const pkg = "dtsuhdprobe: "

func main() {
	file := flag.String("file", "", "path to a DTS-UHD elementary stream or DTSHDHDR container file")
	showBox := flag.Bool("box", false, "print the built udts box bytes for the first sync frame")
	verbosity := flag.Int("v", int(logging.Info), "log verbosity (0=Debug .. 3=Fatal)")
	flag.Parse()

	log := logging.New(int8(*verbosity), os.Stderr, false)
	dtsuhd.Log = log

	if *file == "" {
		log.Fatal(pkg + "no -file given")
	}

	data, err := os.ReadFile(*file)
	if err != nil {
		log.Fatal(pkg+"could not read file", "error", err.Error())
	}

	offset, ok := dtshd.Probe(data)
	if !ok {
		log.Fatal(pkg + "no DTS-UHD stream found")
	}
	log.Info(pkg+"found stream", "offset", offset)

	// Push the whole file, handing each later Push whatever the Framer's
	// buffer could not yet take; once all of it is buffered, the pushes
	// are empty flushes that drain the remaining frames. The initial Push
	// may itself yield a frame if the file is already large enough to
	// satisfy the Framer's lookahead requirement.
	f := streamframer.NewFramer()
	rest := data[offset:]
	n, frame, err := f.Push(rest)
	rest = rest[n:]
	if err != nil {
		log.Error(pkg+"frame parse failed", "error", err.Error())
	}

	var sawDescriptor bool
	for {
		if frame == nil {
			n, frame, err = f.Push(rest)
			rest = rest[n:]
			if err != nil {
				log.Error(pkg+"frame parse failed", "error", err.Error())
				break
			}
			if frame == nil {
				if n == 0 {
					break
				}
				continue
			}
		}

		fmt.Printf("frame: %d bytes\n", len(frame))

		if !sawDescriptor {
			if desc, err := describe(frame, log); err == nil {
				sawDescriptor = true
				if *showBox {
					box, err := udts.Build(desc)
					if err != nil {
						log.Error(pkg+"could not build udts box", "error", err.Error())
					} else {
						fmt.Printf("udts box: %s\n", hex.EncodeToString(box))
					}
				}
			}
		}

		frame = nil
	}
}

// describe parses frame as a fresh sync frame purely to extract its
// descriptor for reporting; the stream's real state lives in the Framer's
// own internal parser, already advanced by the main loop above.
func describe(frame []byte, log logging.Logger) (dtsuhd.Descriptor, error) {
	p := dtsuhd.NewParser()
	_, desc, err := dtsuhd.ParseFrame(p, frame)
	if err != nil {
		log.Debug(pkg + "frame is not independently parseable as a sync frame")
		return dtsuhd.Descriptor{}, err
	}
	if desc == nil {
		return dtsuhd.Descriptor{}, fmt.Errorf("non-sync frame carries no descriptor")
	}

	fmt.Printf("coding name:    %s\n", desc.CodingName)
	fmt.Printf("channel count:  %d\n", desc.ChannelCount)
	fmt.Printf("channel mask:   0x%08X\n", desc.ChannelMask)
	fmt.Printf("sample rate:    %d\n", desc.SampleRate)
	fmt.Printf("sample size:    %d\n", desc.SampleSize)

	return *desc, nil
}
