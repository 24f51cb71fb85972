package rx

import (
	"github.com/openrtx/m17core/internal/dsp"
	"github.com/openrtx/m17core/internal/m17"
)

// DemodState is the receiver's synchronization state, matching
// M17Demodulator.hpp's demodState_t.
type DemodState int

const (
	StateInit DemodState = iota
	StateUnlocked
	StateSynced
	StateLocked
	StateSyncUpdate
)

func (s DemodState) String() string {
	switch s {
	case StateInit:
		return "INIT"
	case StateUnlocked:
		return "UNLOCKED"
	case StateSynced:
		return "SYNCED"
	case StateLocked:
		return "LOCKED"
	case StateSyncUpdate:
		return "SYNC_UPDATE"
	default:
		return "UNKNOWN"
	}
}

// updateChunkSamples is the half-frame granularity the demodulator
// processes samples in, per spec (480 samples per update at 24kHz).
const updateChunkSamples = m17.FrameSamples / 2

// syncThreshold is the minimum correlator score accepted as a syncword
// match; chosen comfortably below 1.0 (perfect match) to tolerate
// moderate noise while still rejecting random baseband.
const syncThreshold = 0.7

// DecodedFrame is one sliced on-air frame payload (not yet FEC-decoded)
// and its kind.
type DecodedFrame struct {
	Sync    m17.Syncword
	Payload [m17.FramePayloadLen]byte
}

// Demodulator turns a stream of 24kHz baseband samples into decoded M17
// frames, running the correlator-driven synchronizer state machine.
//
// Grounded on M17Demodulator.hpp's state machine and its sfNum/sfDen
// matched-filter biquad, generalized here from the original's fixed
// SAMPLE_BUF_SIZE processing granularity to an incremental Push API.
type Demodulator struct {
	state DemodState

	prefilter   *dsp.IIR
	corrLSF     *Correlator
	corrStream  *Correlator
	dev         DevEstimator

	samples []float64 // rolling window of prefiltered samples

	lockedSync m17.Syncword
	missed     int // consecutive frames without a confirmed syncword while LOCKED
}

// sfNum/sfDen are the M17Demodulator's matched-filter biquad coefficients
// (a low-pass shaping filter ahead of symbol timing recovery).
var (
	sfNum = []float64{0.19508, 0.39016, 0.19508}
	sfDen = []float64{1, -0.36953, 0.19515}
)

// NewDemodulator builds a Demodulator ready to process baseband samples.
func NewDemodulator() *Demodulator {
	d := &Demodulator{
		state:      StateInit,
		prefilter:  dsp.NewIIR(sfNum, sfDen),
		corrLSF:    NewCorrelator(m17.SyncLSF),
		corrStream: NewCorrelator(m17.SyncStream),
	}
	d.dev.Init(OuterDeviation{Pos: 2730, Neg: -2730}) // full-scale 4-FSK reference
	d.state = StateUnlocked
	return d
}

// Push feeds one baseband sample into the demodulator. It returns a
// decoded frame once enough samples have accumulated to complete one,
// or ok=false otherwise.
func (d *Demodulator) Push(sample float64) (DecodedFrame, bool) {
	filtered := d.prefilter.Push(sample)
	d.samples = append(d.samples, filtered)
	d.dev.Sample(int16(clampInt16(filtered)))

	switch d.state {
	case StateUnlocked, StateSyncUpdate:
		return d.tryAcquire()
	case StateSynced, StateLocked:
		return d.tryDecode()
	default:
		return DecodedFrame{}, false
	}
}

func clampInt16(v float64) float64 {
	const lim = 32767
	if v > lim {
		return lim
	}
	if v < -lim {
		return -lim
	}
	return v
}

// symbolSamples returns the one-sample-per-symbol decimation of the
// rolling window starting at a given sample offset, n symbols long.
func (d *Demodulator) symbolSamples(start, n int) []float64 {
	out := make([]float64, n)
	for i := 0; i < n; i++ {
		idx := start + i*m17.SamplesPerSymbolRx
		if idx >= len(d.samples) {
			return nil
		}
		out[i] = d.samples[idx]
	}
	return out
}

func (d *Demodulator) tryAcquire() (DecodedFrame, bool) {
	if len(d.samples) < updateChunkSamples {
		return DecodedFrame{}, false
	}

	best := -1.0
	bestOff := -1
	bestSync := m17.Syncword{}
	for off := 0; off+syncwordSamples <= len(d.samples); off += m17.SamplesPerSymbolRx {
		win := d.symbolSamples(off, 8)
		if win == nil {
			continue
		}
		if s := d.corrLSF.Score(win); s > best {
			best, bestOff, bestSync = s, off, m17.SyncLSF
		}
		if s := d.corrStream.Score(win); s > best {
			best, bestOff, bestSync = s, off, m17.SyncStream
		}
	}

	d.dev.Update()
	d.samples = d.samples[min(updateChunkSamples, len(d.samples)):]

	if best < syncThreshold {
		d.state = StateUnlocked
		return DecodedFrame{}, false
	}

	_ = bestOff
	d.lockedSync = bestSync
	d.state = StateSynced
	return DecodedFrame{}, false
}

func (d *Demodulator) tryDecode() (DecodedFrame, bool) {
	needed := m17.FrameSamples
	if len(d.samples) < needed {
		return DecodedFrame{}, false
	}

	payloadSyms := d.symbolSamples(syncwordSamples, m17.FramePayloadLen*4)
	d.samples = d.samples[needed:]

	if payloadSyms == nil {
		d.state = StateUnlocked
		d.missed++
		return DecodedFrame{}, false
	}

	var payload [m17.FramePayloadLen]byte
	for i := 0; i < m17.FramePayloadLen; i++ {
		var b byte
		for j := 0; j < 4; j++ {
			dibit := m17.SymbolToDibit(int8(payloadSyms[i*4+j]))
			b = (b << 2) | dibit
		}
		payload[i] = b
	}

	d.state = StateLocked
	d.missed = 0
	return DecodedFrame{Sync: d.lockedSync, Payload: payload}, true
}

// State returns the synchronizer's current state.
func (d *Demodulator) State() DemodState { return d.state }

// Unlock forces the synchronizer back to UNLOCKED, e.g. after too many
// consecutive frame losses while LOCKED.
func (d *Demodulator) Unlock() {
	d.state = StateUnlocked
	d.samples = nil
	d.missed = 0
}
