package m17

import "github.com/openrtx/m17core/internal/rtxerr"

// lastFrameBit marks the final frame of a stream in the frame-number
// field's top bit.
const lastFrameBit = 0x8000

// frameNumberMask is the width of the stream frame counter: 11 bits,
// matching M17Transmitter.cpp's "frameNumber = (frameNumber+1)&0x07FF".
const frameNumberMask = 0x07FF

// StreamFrame is one 18-byte payload unit of an active voice/data
// stream: a 16-bit frame-number field (bit 15 set on the last frame of
// the stream, an 11-bit counter in the low bits) followed by 16 bytes of
// Codec2-encoded audio (or raw data).
type StreamFrame struct {
	FrameNumber uint16 // low 11 bits are the sequence number
	Last        bool
	Payload     [16]byte
}

// Bytes packs the stream frame into its 18-byte wire representation.
func (s *StreamFrame) Bytes() [StreamPayloadLen]byte {
	var b [StreamPayloadLen]byte
	fn := s.FrameNumber & frameNumberMask
	if s.Last {
		fn |= lastFrameBit
	}
	b[0] = byte(fn >> 8)
	b[1] = byte(fn)
	copy(b[2:], s.Payload[:])
	return b
}

// ParseStreamFrame unpacks an 18-byte wire representation.
func ParseStreamFrame(b []byte) (StreamFrame, error) {
	if len(b) != StreamPayloadLen {
		return StreamFrame{}, rtxerr.New("m17.ParseStreamFrame", rtxerr.EINVAL)
	}
	var s StreamFrame
	fn := uint16(b[0])<<8 | uint16(b[1])
	s.Last = fn&lastFrameBit != 0
	s.FrameNumber = fn & frameNumberMask
	copy(s.Payload[:], b[2:])
	return s, nil
}

// EncodeFrame runs the stream payload through the convolutional code and
// puncture stages, prefixes the segment's Golay-coded LICH bytes to form
// the combined 46-byte frame, then interleaves and decorrelates that
// whole frame (LICH included), exactly as the rest of an on-air M17
// frame is whitened.
//
// Grounded on M17FrameEncoder.cpp's encodeStreamFrame(), which builds
// the LICH-plus-punctured-data frame before calling the same
// interleave()/decorrelate() used for LSF frames over the combined 46
// bytes, rather than scoping either stage to the punctured payload alone.
func (s *StreamFrame) EncodeFrame(lich LichSegment) [FramePayloadLen]byte {
	b := s.Bytes()
	encoded := convEncode(b[:])
	punctured := puncture(encoded, StreamEncodedLen*8, streamPuncture)

	lichBytes := lich.Encode()

	var frame [FramePayloadLen]byte
	copy(frame[:LichSegLen], lichBytes[:])
	copy(frame[LichSegLen:], punctured)

	interleaved := InterleaveLSF(frame[:])
	decorrelated := Decorrelate(interleaved)

	var out [FramePayloadLen]byte
	copy(out[:], decorrelated)
	return out
}

// DecodeStreamFrame reverses EncodeFrame, returning both the recovered
// StreamFrame and the LICH segment carried alongside it. As with
// DecodeLSFFrame, decoding never rejects its input.
func DecodeStreamFrame(payload []byte) (StreamFrame, LichSegment, error) {
	if len(payload) != FramePayloadLen {
		return StreamFrame{}, LichSegment{}, rtxerr.New("m17.DecodeStreamFrame", rtxerr.EINVAL)
	}

	correlated := Decorrelate(payload)
	frame := DeinterleaveLSF(correlated)

	lich, _, err := DecodeLichSegmentChecked(frame[:LichSegLen])
	if err != nil {
		return StreamFrame{}, LichSegment{}, err
	}

	bits, erased := depuncture(frame[LichSegLen:], StreamEncodedLen*8, streamPuncture)
	data := convViterbiDecode(bits, erased, StreamPayloadLen*8)

	sf, err := ParseStreamFrame(data)
	return sf, lich, err
}
