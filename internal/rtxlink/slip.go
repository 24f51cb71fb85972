// Package rtxlink implements the RTXLINK host protocol: SLIP framing, a
// CRC-16/CCITT-checked envelope, and a fixed-size protocol-handler
// dispatch table used by the FMP (firmware memory) and DAT (NVM
// transfer) sub-protocols.
//
// Grounded on original_source/openrtx/src/core/slip.c and rtxlink.c.
package rtxlink

import "github.com/openrtx/m17core/internal/rtxerr"

const (
	slipEnd    = 0xC0
	slipEsc    = 0xDB
	slipEscEnd = 0xDC
	slipEscEsc = 0xDD
)

// FrameCtx holds the incremental encode/decode state for one SLIP frame,
// mirroring struct FrameCtx's data/oPos/iPos/maxLen fields.
type FrameCtx struct {
	Data  []byte
	OPos  int
	IPos  int
	MaxLen int
}

// NewFrameCtx allocates a FrameCtx with a maxLen-byte backing buffer.
func NewFrameCtx(maxLen int) *FrameCtx {
	return &FrameCtx{Data: make([]byte, maxLen), MaxLen: maxLen}
}

// Reset clears the frame's accumulated output, ready for a new frame.
func (f *FrameCtx) Reset() {
	f.OPos = 0
	f.IPos = 0
}

// Encode appends data's SLIP-escaped bytes to the frame, prepending a
// leading END marker if this is the first call since Reset, and
// appending a trailing END marker if last is true. It returns the
// frame's total encoded length so far, or an error if the backing buffer
// would overflow.
func (f *FrameCtx) Encode(data []byte, last bool) (int, error) {
	if f.OPos == 0 && f.IPos == 0 {
		f.Data[f.OPos] = slipEnd
		f.OPos++
	}

	for f.IPos < len(data) {
		cur := data[f.IPos]
		f.IPos++

		switch cur {
		case slipEnd:
			f.Data[f.OPos], f.Data[f.OPos+1] = slipEsc, slipEscEnd
			f.OPos += 2
		case slipEsc:
			f.Data[f.OPos], f.Data[f.OPos+1] = slipEsc, slipEscEsc
			f.OPos += 2
		default:
			f.Data[f.OPos] = cur
			f.OPos++
		}

		if f.OPos >= f.MaxLen {
			return 0, rtxerr.New("rtxlink.FrameCtx.Encode", rtxerr.ENOMEM)
		}
	}

	if last {
		f.Data[f.OPos] = slipEnd
		f.OPos++
	}

	f.IPos = 0
	return f.OPos, nil
}

// Decode consumes bytes from data, un-escaping them into the frame's
// output buffer, until it sees an unescaped END marker (reporting end
// true) or runs out of input. It returns the number of input bytes
// consumed this call.
func (f *FrameCtx) Decode(data []byte) (consumed int, end bool, err error) {
	var prev byte

	for f.IPos < len(data) && !end {
		cur := data[f.IPos]
		f.IPos++

		switch cur {
		case slipEnd:
			if f.OPos > 0 {
				end = true
			}
		case slipEsc:
			// consume, wait for the following ESC_END/ESC_ESC
		case slipEscEnd:
			if prev == slipEsc {
				f.Data[f.OPos] = slipEnd
			} else {
				f.Data[f.OPos] = cur
			}
			f.OPos++
		case slipEscEsc:
			if prev == slipEsc {
				f.Data[f.OPos] = slipEsc
			} else {
				f.Data[f.OPos] = cur
			}
			f.OPos++
		default:
			f.Data[f.OPos] = cur
			f.OPos++
		}

		prev = cur

		if f.OPos >= f.MaxLen {
			return 0, false, rtxerr.New("rtxlink.FrameCtx.Decode", rtxerr.ENOMEM)
		}
	}

	consumed = f.IPos
	if f.IPos >= len(data) {
		f.IPos = 0
	}
	return consumed, end, nil
}
