package dsp

// IIR is a direct-form-II-transposed recursive filter of arbitrary
// order, used for the demodulator's sample prefilter (a 2nd-order
// biquad in practice, but the implementation is length-generic the
// way the teacher's Iir<N> template is).
type IIR struct {
	num   []float64 // feed-forward coefficients, num[0] applied to current input
	den   []float64 // feedback coefficients, den[0] must be 1
	state []float64
}

// NewIIR builds an IIR filter. den[0] is expected to be 1; callers that
// have an unnormalized transfer function must normalize first.
func NewIIR(num, den []float64) *IIR {
	n := len(num)
	if len(den) > n {
		n = len(den)
	}
	numC := make([]float64, n)
	denC := make([]float64, n)
	copy(numC, num)
	copy(denC, den)

	return &IIR{
		num:   numC,
		den:   denC,
		state: make([]float64, n),
	}
}

// Push feeds one sample through the filter and returns the output.
func (f *IIR) Push(x float64) float64 {
	y := f.state[0] + f.num[0]*x

	n := len(f.state)
	for i := 0; i < n-1; i++ {
		f.state[i] = f.state[i+1] + f.num[i+1]*x - f.den[i+1]*y
	}
	f.state[n-1] = f.num[n-1]*x - f.den[n-1]*y

	return y
}

// Reset zeroes the filter's internal state.
func (f *IIR) Reset() {
	for i := range f.state {
		f.state[i] = 0
	}
}
