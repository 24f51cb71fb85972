package m17

import "github.com/openrtx/m17core/internal/rtxerr"

// Frame is one complete 48-byte on-air unit: a 2-byte syncword and
// 46 bytes of payload.
type Frame struct {
	Sync    Syncword
	Payload [FramePayloadLen]byte
}

// Bytes packs the frame for transmission.
func (f *Frame) Bytes() [FrameLen]byte {
	var b [FrameLen]byte
	b[0], b[1] = f.Sync[0], f.Sync[1]
	copy(b[2:], f.Payload[:])
	return b
}

// ParseFrame splits a 48-byte on-air unit into its syncword and payload.
func ParseFrame(b []byte) (Frame, error) {
	if len(b) != FrameLen {
		return Frame{}, rtxerr.New("m17.ParseFrame", rtxerr.EINVAL)
	}
	var f Frame
	f.Sync = Syncword{b[0], b[1]}
	copy(f.Payload[:], b[2:])
	return f, nil
}

// Kind classifies the frame by its syncword; ok is false for an
// unrecognized pattern.
func (f *Frame) Kind() (sync Syncword, ok bool) {
	switch f.Sync {
	case SyncLSF, SyncStream, SyncPacket, SyncBERT:
		return f.Sync, true
	default:
		return f.Sync, false
	}
}

// Preamble returns an n-byte bit-sync preamble preceding the first LSF of
// a transmission.
func Preamble(n int) []byte {
	p := make([]byte, n)
	for i := range p {
		p[i] = PreambleByte
	}
	return p
}
