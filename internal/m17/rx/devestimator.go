// Package rx implements the M17 receiver: symbol deviation tracking,
// syncword correlation, the bit-synchronizer state machine, and
// hard-decision slicing of each frame's 46-byte on-air payload. The
// payloads it delivers are still decorrelated and interleaved; this
// package does not FEC-decode them (m17.DecodeLSFFrame and
// m17.DecodeStreamFrame do).
//
// Grounded on original_source/openrtx/include/protocols/M17/DevEstimator.hpp
// and M17Demodulator.hpp.
package rx

// OuterDeviation holds the positive and negative outer symbol deviation
// estimates (the +3/-3 4-FSK levels).
type OuterDeviation struct {
	Pos int32
	Neg int32
}

// DevEstimator tracks the outer symbol deviation and DC (zero) offset of
// a baseband stream sampled at the ideal instant, so the demodulator can
// adapt its symbol thresholds to a drifting signal.
//
// The reference sample() accumulates both the positive- and
// negative-threshold branches into posAccum/posCnt, which permanently
// starves negCnt and makes update() a no-op forever; this is documented
// as an open question and resolved here by accumulating the
// negative-threshold branch into negAccum/negCnt, the evidently intended
// behavior, since the literal bug would make the estimator never adapt
// after its first init.
type DevEstimator struct {
	outerDev OuterDeviation
	offset   int32

	posAccum int32
	negAccum int32
	posCnt   uint32
	negCnt   uint32
}

// Init resets the estimator to a reference outer deviation.
func (e *DevEstimator) Init(outerDev OuterDeviation) {
	e.outerDev = outerDev
	e.offset = 0
	e.posAccum, e.negAccum = 0, 0
	e.posCnt, e.negCnt = 0, 0
}

// Sample folds one baseband sample into the current acquisition cycle.
func (e *DevEstimator) Sample(value int16) {
	posThresh := (2 * e.outerDev.Pos) / 3
	negThresh := (2 * e.outerDev.Neg) / 3

	v := int32(value)
	if v > posThresh {
		e.posAccum += v
		e.posCnt++
	}
	if v < negThresh {
		e.negAccum += v
		e.negCnt++
	}
}

// Update folds the current acquisition cycle into new outer-deviation and
// zero-offset estimates, then starts a new cycle. It is a no-op if either
// branch saw no samples this cycle.
func (e *DevEstimator) Update() {
	if e.posCnt == 0 || e.negCnt == 0 {
		return
	}

	max := e.posAccum / int32(e.posCnt)
	min := e.negAccum / int32(e.negCnt)
	e.offset = (max + min) / 2
	e.outerDev.Pos = max - e.offset
	e.outerDev.Neg = min - e.offset

	e.posAccum, e.negAccum = 0, 0
	e.posCnt, e.negCnt = 0, 0
}

// OuterDeviation returns the estimate as of the last Update.
func (e *DevEstimator) OuterDeviation() OuterDeviation { return e.outerDev }

// ZeroOffset returns the zero-offset estimate as of the last Update.
func (e *DevEstimator) ZeroOffset() int32 { return e.offset }
