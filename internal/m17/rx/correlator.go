package rx

import (
	"math"

	"github.com/openrtx/m17core/internal/m17"
)

// syncwordSamples is the number of baseband samples spanned by an 8-symbol
// syncword at the receiver's sample rate.
const syncwordSamples = 8 * m17.SamplesPerSymbolRx

// syncTemplate renders a syncword to its expected ideal-deviation sample
// sequence (one sample per symbol period, at the symbol center; the
// correlator scores against one sample per symbol, so callers decimate
// from SamplesPerSymbolRx before scoring).
func syncTemplate(sync m17.Syncword) [8]float64 {
	var syms [8]int8
	for i, b := range sync {
		for j := 0; j < 4; j++ {
			dibit := (b >> uint(6-2*j)) & 0x3
			syms[i*4+j] = m17.DibitToSymbol(dibit)
		}
	}
	var t [8]float64
	for i, s := range syms {
		t[i] = float64(s)
	}
	return t
}

// Correlator scores a window of SamplesPerSymbolRx-spaced samples against
// a syncword's ideal symbol pattern, used to find frame boundaries in an
// unsynchronized baseband stream.
type Correlator struct {
	template [8]float64
}

// NewCorrelator builds a Correlator for the given syncword.
func NewCorrelator(sync m17.Syncword) *Correlator {
	return &Correlator{template: syncTemplate(sync)}
}

// Score returns the normalized cross-correlation of samples (one sample
// per symbol, taken at a candidate sample-point offset) against the
// syncword template. samples must have at least 8 elements; only the
// first 8 are used. A score near 1.0 indicates a strong match.
func (c *Correlator) Score(samples []float64) float64 {
	var dot, energy float64
	for i := 0; i < 8; i++ {
		dot += samples[i] * c.template[i]
		energy += samples[i] * samples[i]
	}
	if energy == 0 {
		return 0
	}
	// Normalize against the template's own energy (constant, =8*9=72 for
	// the +-1/+-3 alphabet) so Score is comparable across syncwords.
	const templateEnergy = 8.0 * 9.0
	norm := energy * templateEnergy
	if norm <= 0 {
		return 0
	}
	return dot / math.Sqrt(norm)
}
