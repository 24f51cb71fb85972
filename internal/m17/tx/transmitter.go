package tx

import (
	"github.com/openrtx/m17core/internal/m17"
	"github.com/openrtx/m17core/internal/rtxerr"
)

// Transmitter drives one M17 session: it builds and sends the preamble
// and Link Setup Frame on Start, then cycles the 6 LICH segments across
// successive Send calls, exactly as M17Transmitter::send does.
type Transmitter struct {
	mod *Modulator

	lsf         m17.LinkSetupFrame
	lichSegs    [m17.LichSegCount]m17.LichSegment
	currentLich int
	frameNumber uint16

	started bool
}

// NewTransmitter builds a Transmitter using the given modulator.
func NewTransmitter(mod *Modulator) *Transmitter {
	return &Transmitter{mod: mod}
}

// Start resets the session's LICH/frame-number state, builds the Link
// Setup Frame for src/dst, and returns the baseband samples for the
// preamble followed by the LSF frame. An empty dst encodes the broadcast
// address.
func (t *Transmitter) Start(src, dst string) ([]float64, error) {
	if dst == "" {
		dst = "#BCAST#"
	}
	lsf, err := m17.NewVoiceLSF(src, dst)
	if err != nil {
		return nil, err
	}
	t.lsf = lsf
	t.lichSegs = m17.GenerateLichSegments(&t.lsf)
	t.currentLich = 0
	t.frameNumber = 0
	t.started = true

	t.mod.Reset()

	preamble := Symbols(m17.Syncword{0x77, 0x77}, m17.Preamble(m17.FramePayloadLen))
	lsfPayload := t.lsf.EncodeFrame()
	lsfSyms := Symbols(m17.SyncLSF, lsfPayload[:])

	out := t.mod.Baseband(preamble)
	out = append(out, t.mod.Baseband(lsfSyms)...)
	return out, nil
}

// Send encodes one StreamFrame payload (16 bytes of Codec2 audio),
// prefixes the next cycled LICH segment, and returns the resulting
// baseband samples.
func (t *Transmitter) Send(payload [16]byte, isLast bool) ([]float64, error) {
	if !t.started {
		return nil, rtxerr.New("tx.Send", rtxerr.EPERM)
	}

	sf := m17.StreamFrame{
		FrameNumber: t.frameNumber,
		Last:        isLast,
		Payload:     payload,
	}
	t.frameNumber = (t.frameNumber + 1) & 0x07FF

	lich := t.lichSegs[t.currentLich]
	t.currentLich = (t.currentLich + 1) % m17.LichSegCount

	frame := sf.EncodeFrame(lich)
	syms := Symbols(m17.SyncStream, frame[:])
	out := t.mod.Baseband(syms)

	if isLast {
		t.started = false
	}
	return out, nil
}

// LSF returns the session's current Link Setup Frame.
func (t *Transmitter) LSF() m17.LinkSetupFrame { return t.lsf }
