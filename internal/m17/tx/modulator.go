// Package tx implements the M17 transmitter: link setup, stream framing
// and LICH cycling, and the 4-FSK baseband modulator.
//
// Grounded on original_source/openrtx/src/protocols/M17/M17Transmitter.cpp
// and M17IntegerModulator.cpp, generalized from their fixed-point integer
// pipeline to a float64 one built on internal/dsp, since this module has
// no fixed-point/no-FPU constraint to honor.
package tx

import (
	"github.com/openrtx/m17core/internal/dsp"
	"github.com/openrtx/m17core/internal/m17"
)

// rrcTapCount mirrors the 81-tap jrrc_taps table's length; rolloff 0.5
// matches the M17 standard's specified RRC rolloff factor.
const (
	rrcTapCount = 81
	rrcRolloff  = 0.5
)

// Modulator turns 4-FSK symbol streams into a 48kHz baseband signal via
// zero-stuffing and root-raised-cosine pulse shaping.
//
// Grounded on M17IntegerModulator's byteToSymbols/generateBaseband
// pipeline.
type Modulator struct {
	rrc *dsp.FIR
}

// NewModulator builds a Modulator with a freshly generated RRC filter.
func NewModulator() *Modulator {
	taps := make([]float64, rrcTapCount)
	dsp.RootRaisedCosineLowpass(taps, rrcRolloff, m17.SamplesPerSymbolTx)
	return &Modulator{rrc: dsp.NewFIR(taps)}
}

// byteToSymbols splits one byte into its 4 2-bit dibits, MSB first, and
// maps each to its deviation level.
func byteToSymbols(b byte) [4]int8 {
	var syms [4]int8
	for i := 0; i < 4; i++ {
		dibit := (b >> uint(6-2*i)) & 0x3
		syms[i] = m17.DibitToSymbol(dibit)
	}
	return syms
}

// Symbols converts a syncword followed by a frame payload into their
// full symbol sequence (8 + 4*len(payload) symbols).
func Symbols(sync m17.Syncword, payload []byte) []int8 {
	syms := make([]int8, 0, 2*4+4*len(payload))
	syms = append(syms, byteToSymbols(sync[0])[:]...)
	syms = append(syms, byteToSymbols(sync[1])[:]...)
	for _, b := range payload {
		syms = append(syms, byteToSymbols(b)[:]...)
	}
	return syms
}

// Baseband renders symbols into TxSampleRate baseband samples by
// zero-stuffing to SamplesPerSymbolTx samples per symbol and pushing the
// result through the RRC pulse-shaping filter.
func (m *Modulator) Baseband(symbols []int8) []float64 {
	out := make([]float64, len(symbols)*m17.SamplesPerSymbolTx)
	idx := 0
	for _, sym := range symbols {
		out[idx] = m.rrc.Push(float64(sym))
		idx++
		for i := 1; i < m17.SamplesPerSymbolTx; i++ {
			out[idx] = m.rrc.Push(0)
			idx++
		}
	}
	return out
}

// Reset clears the pulse-shaping filter's history, used between keyups.
func (m *Modulator) Reset() { m.rrc.Reset() }
