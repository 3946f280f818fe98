/*
DESCRIPTION
  vlc.go implements the variable-length decoder used throughout the FTOC,
  NAVI and MD01 syntax structures (specification §4.2, Table 5-2).

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
)

// vlcBitsUsed and vlcIndex implement the 3-bit code -> (bits used, table
// index) mapping from Table 5-2:
//
//	code bits | bits used | index
//	0xx       | 1         | 0
//	10x       | 2         | 1
//	110       | 3         | 2
//	111       | 3         | 3
var (
	vlcBitsUsed = [8]int{1, 1, 1, 1, 2, 2, 3, 3}
	vlcIndex    = [8]int{0, 0, 0, 0, 1, 1, 2, 3}
)

// readVLC decodes a variable-length value using a 4-entry width table and
// an "add" flag. It peeks the next 3 bits to pick a width (and a base-offset
// index), skips the bits actually used by the code, then reads table[index]
// further bits. When add is true those bits are offset by the sum of
// 1<<table[i] for all lower indices, matching get_bits_var in the original
// implementation this parser is modelled on.
func readVLC(r *bits.Reader, table [4]int, add bool) (uint32, error) {
	code, err := r.ShowBits(3)
	if err != nil {
		return 0, err
	}
	idx := vlcIndex[code]

	if err := r.SkipBits(vlcBitsUsed[code]); err != nil {
		return 0, err
	}

	if table[idx] <= 0 {
		logf(logging.Debug, "VLC table entry has zero width", "tableIndex", idx)
		return 0, nil
	}

	var value uint32
	if add {
		for i := 0; i < idx; i++ {
			value += 1 << uint(table[i])
		}
	}
	v, err := r.GetBitsLong(table[idx])
	if err != nil {
		return 0, err
	}
	return value + v, nil
}
