// Package fmp implements the Firmware-Memory-Protocol RTXLINK
// sub-protocol: a small command set for querying the radio's memory
// layout, dispatched by internal/rtxlink's protocol table.
//
// Grounded on spec.md §4.5's FMP description; no original_source file
// for this sub-protocol was retrieved, so the wire layout below (cmd
// byte, arg-count byte, then command-specific reply) follows the shape
// RTXLINK's DAT sub-protocol uses for its own headers.
package fmp

import (
	"github.com/openrtx/m17core/internal/nvm"
)

// ProtocolID is the RTXLINK protocol byte FMP registers under.
const ProtocolID = 0x01

// Command identifies an FMP request.
type Command byte

const (
	// CmdMemInfo lists the radio's declared NVM areas.
	CmdMemInfo Command = 0x01
)

// nameFieldLen is the fixed width of an area's name field in a MEMINFO
// reply block, matching the struct's name[27] member.
const nameFieldLen = 27

// Flag bits describing one NVM area's access rights in a MEMINFO block.
const (
	FlagReadable Flag = 1 << iota
	FlagWritable
	FlagErasable
)

// Flag is a bitmask of an NVM area's access rights.
type Flag byte

// errEPERM is the "operation not permitted" status byte FMP sends back,
// after the echoed command byte, for any command it does not implement.
const errEPERM byte = 1

// Handler returns an RTXLINK Handler dispatching FMP commands against
// dir's registered NVM areas.
func Handler(dir *nvm.Directory) func(rx, tx []byte) int {
	return func(rx, tx []byte) int {
		if len(rx) < 2 {
			return 0
		}
		cmd := Command(rx[0])

		switch cmd {
		case CmdMemInfo:
			return memInfo(dir, tx)
		default:
			tx[0] = byte(cmd)
			tx[1] = errEPERM
			return 2
		}
	}
}

// memInfo packs one {size uint32 BE, flags byte, name[27]} block per
// registered area into tx, preceded by the echoed command byte.
func memInfo(dir *nvm.Directory, tx []byte) int {
	tx[0] = byte(CmdMemInfo)
	pos := 1

	blockLen := 4 + 1 + nameFieldLen
	for _, area := range dir.Areas() {
		if pos+blockLen > len(tx) {
			break
		}
		size := uint32(area.Dev.Size())
		tx[pos] = byte(size >> 24)
		tx[pos+1] = byte(size >> 16)
		tx[pos+2] = byte(size >> 8)
		tx[pos+3] = byte(size)
		tx[pos+4] = byte(FlagReadable | FlagWritable)

		nameBytes := [nameFieldLen]byte{}
		copy(nameBytes[:], area.Name)
		copy(tx[pos+5:pos+blockLen], nameBytes[:])

		pos += blockLen
	}
	return pos
}
