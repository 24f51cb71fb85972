package dsp

import "math"

// rootRaisedCosine evaluates the RRC impulse response at t, measured in
// symbol periods (adjacent symbol centers differ by 1), with roll-off a.
func rootRaisedCosine(t, a float64) float64 {
	var sinc float64
	if t > -0.001 && t < 0.001 {
		sinc = 1
	} else {
		sinc = math.Sin(math.Pi*t) / (math.Pi * t)
	}

	var window float64
	at := math.Abs(a * t)
	if at > 0.499 && at < 0.501 {
		window = math.Pi / 4
	} else {
		window = math.Cos(math.Pi*a*t) / (1 - math.Pow(2*a*t, 2))
	}

	return sinc * window
}

// RootRaisedCosineLowpass fills taps with a unity-gain RRC pulse-shaping
// filter, rolloff in [0,1], samplesPerSymbol the oversampling ratio
// (10 for the M17 transmitter's 48 kHz baseband at 4800 sym/s).
func RootRaisedCosineLowpass(taps []float64, rolloff, samplesPerSymbol float64) {
	n := len(taps)
	center := (float64(n) - 1.0) / 2.0

	for k := 0; k < n; k++ {
		t := (float64(k) - center) / samplesPerSymbol
		taps[k] = rootRaisedCosine(t, rolloff)
	}

	var gain float64
	for _, v := range taps {
		gain += v
	}
	for k := range taps {
		taps[k] /= gain
	}
}
