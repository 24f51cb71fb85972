package m17

import (
	"testing"

	"pgregory.net/rapid"
)

func unpackBits(data []byte, n int) []uint8 {
	out := make([]uint8, n)
	for i := 0; i < n; i++ {
		out[i] = getBit(data, i)
	}
	return out
}

// TestConvRoundTripNoErrors feeds convEncode's output straight into the
// Viterbi decoder with no punctured/erased positions, the baseline
// property every puncture schedule degrades from.
func TestConvRoundTripNoErrors(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		nBytes := rapid.IntRange(1, 30).Draw(t, "nBytes")
		data := rapid.SliceOfN(rapid.Byte(), nBytes, nBytes).Draw(t, "data")

		encoded := convEncode(data)
		nCodedBits := (nBytes*8 + 4) * 2
		bits := unpackBits(encoded, nCodedBits)
		erased := make([]bool, nCodedBits)

		decoded := convViterbiDecode(bits, erased, nBytes*8)
		for i := range data {
			if decoded[i] != data[i] {
				t.Fatalf("round trip mismatch at byte %d: %#02x != %#02x", i, decoded[i], data[i])
			}
		}
	})
}

// TestConvLSFPipelineRoundTrip exercises the full conv+puncture pipeline
// LSF frames use, confirming depuncture's erasures don't stop the
// Viterbi decoder from recovering the exact original bytes on a
// noiseless channel.
func TestConvLSFPipelineRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), LsfLen, LsfLen).Draw(t, "data")

		encoded := convEncode(data)
		punctured := puncture(encoded, LsfEncodedLen*8, lsfPuncture)
		bits, erased := depuncture(punctured, LsfEncodedLen*8, lsfPuncture)
		decoded := convViterbiDecode(bits, erased, LsfLen*8)

		for i := range data {
			if decoded[i] != data[i] {
				t.Fatalf("lsf pipeline mismatch at byte %d: %#02x != %#02x", i, decoded[i], data[i])
			}
		}
	})
}
