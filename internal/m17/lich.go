package m17

import "github.com/openrtx/m17core/internal/rtxerr"

// LichSegment is one Golay-protected 12-byte slice of a stream frame's
// payload carrying 5 bytes of the session's LSF plus a 3-bit segment
// index, split across 4 Golay(24,12) blocks.
//
// Grounded on M17LinkSetupFrame.cpp's generateLichSegment().
type LichSegment struct {
	Index uint8 // 0..LichSegCount-1
	Chunk [LichChunkLen]byte
}

// Encode packs the segment into its 12-byte wire representation: the
// 5-byte chunk plus a 3-bit index occupy 43 bits, split into four 12-bit
// Golay data words, each expanded to a 24-bit (3-byte) codeword.
func (s *LichSegment) Encode() [LichSegLen]byte {
	var bitsPacked [6]byte // 5 data bytes + 1 byte holding the index in its top 3 bits
	copy(bitsPacked[:5], s.Chunk[:])
	bitsPacked[5] = s.Index << 5

	words := [4]uint16{
		uint16(bitsPacked[0])<<4 | uint16(bitsPacked[1])>>4,
		(uint16(bitsPacked[1])&0xF)<<8 | uint16(bitsPacked[2]),
		uint16(bitsPacked[3])<<4 | uint16(bitsPacked[4])>>4,
		(uint16(bitsPacked[4])&0xF)<<8 | uint16(bitsPacked[5]),
	}

	var out [LichSegLen]byte
	for i, w := range words {
		cw := golayEncode(w)
		out[i*3] = byte(cw >> 16)
		out[i*3+1] = byte(cw >> 8)
		out[i*3+2] = byte(cw)
	}
	return out
}

// DecodeLichSegment reverses Encode. It always returns a best-effort
// segment; callers that need to know whether every Golay block
// corrected cleanly should use DecodeLichSegmentChecked.
func DecodeLichSegment(b []byte) (LichSegment, error) {
	seg, _, err := DecodeLichSegmentChecked(b)
	return seg, err
}

// DecodeLichSegmentChecked is DecodeLichSegment plus an ok flag that is
// false if any of the 4 Golay blocks could not be corrected.
func DecodeLichSegmentChecked(b []byte) (LichSegment, bool, error) {
	if len(b) != LichSegLen {
		return LichSegment{}, false, rtxerr.New("m17.DecodeLichSegment", rtxerr.EINVAL)
	}

	var words [4]uint16
	ok := true
	for i := 0; i < 4; i++ {
		cw := uint32(b[i*3])<<16 | uint32(b[i*3+1])<<8 | uint32(b[i*3+2])
		w, good := golayDecode(cw)
		if !good {
			ok = false
		}
		words[i] = w
	}

	var bitsPacked [6]byte
	bitsPacked[0] = byte(words[0] >> 4)
	bitsPacked[1] = byte(words[0]<<4) | byte(words[1]>>8)
	bitsPacked[2] = byte(words[1])
	bitsPacked[3] = byte(words[2] >> 4)
	bitsPacked[4] = byte(words[2]<<4) | byte(words[3]>>8)
	bitsPacked[5] = byte(words[3])

	var seg LichSegment
	copy(seg.Chunk[:], bitsPacked[:5])
	seg.Index = bitsPacked[5] >> 5
	return seg, ok, nil
}

// LichReassembler accumulates LichSegments received across successive
// stream frames and rebuilds the session's LinkSetupFrame once all
// LichSegCount segments have arrived, using a bitmap exactly as the
// OpenRTX receiver does (spec: reassembly bitmap 0b111111).
type LichReassembler struct {
	chunks [LichSegCount][LichChunkLen]byte
	seen   uint8 // bitmap, complete when == 1<<LichSegCount - 1
}

const lichCompleteMask = 1<<LichSegCount - 1

// Reset clears all accumulated state.
func (r *LichReassembler) Reset() {
	r.seen = 0
	r.chunks = [LichSegCount][LichChunkLen]byte{}
}

// Add records one decoded segment. It returns true once every segment has
// been seen.
func (r *LichReassembler) Add(seg LichSegment) bool {
	if seg.Index >= LichSegCount {
		return r.seen == lichCompleteMask
	}
	r.chunks[seg.Index] = seg.Chunk
	r.seen |= 1 << seg.Index
	return r.seen == lichCompleteMask
}

// Complete reports whether every segment has been seen.
func (r *LichReassembler) Complete() bool { return r.seen == lichCompleteMask }

// LSF reassembles the accumulated chunks into a LinkSetupFrame. The
// caller should check Valid() on the result, since a reassembled frame
// with a dropped or corrupted segment will still parse but may fail CRC.
func (r *LichReassembler) LSF() (LinkSetupFrame, error) {
	var b [LsfLen]byte
	for i := 0; i < LichSegCount; i++ {
		copy(b[i*LichChunkLen:], r.chunks[i][:])
	}
	return ParseLSF(b[:])
}

// GenerateLichSegments splits l's wire bytes into the LichSegCount
// segments a transmitter cycles through, one per stream frame.
func GenerateLichSegments(l *LinkSetupFrame) [LichSegCount]LichSegment {
	b := l.Bytes()
	var segs [LichSegCount]LichSegment
	for i := 0; i < LichSegCount; i++ {
		segs[i].Index = uint8(i)
		copy(segs[i].Chunk[:], b[i*LichChunkLen:(i+1)*LichChunkLen])
	}
	return segs
}
