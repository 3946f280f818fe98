/*
DESCRIPTION
  crc.go implements the CRC-16/GENIBUS verifier used to check the FTOC and
  individual chunk payloads (specification §4.3, Table 6-9).

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

// crc16GenibusTable is the nibble-wise CRC-16/GENIBUS polynomial lookup.
var crc16GenibusTable = [16]uint16{
	0x0000, 0x1021, 0x2042, 0x3063, 0x4084, 0x50A5, 0x60C6, 0x70E7,
	0x8108, 0x9129, 0xA14A, 0xB16B, 0xC18C, 0xD1AD, 0xE1CE, 0xF1EF,
}

// crcOK re-initialises a bit reader over the original frame buffer, seeks to
// bit, and runs the CRC-16/GENIBUS check over the following byteLen bytes
// (2*byteLen nibbles, the trailing CRC-16 included). Returns true if the
// register lands on zero, i.e. the region - including its trailing CRC - is
// intact.
func crcOK(data []byte, bit, byteLen int) bool {
	r := bits.NewReader(data, len(data)*8)
	r.SeekBits(bit)

	crc := uint16(0xFFFF)
	for i := -byteLen; i < byteLen; i++ {
		nibble, err := r.GetBits(4)
		if err != nil {
			return false
		}
		crc = (crc << 4) ^ crc16GenibusTable[(crc>>12)^uint16(nibble)]
	}
	return crc == 0
}
