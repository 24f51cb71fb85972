package m17

import (
	"testing"

	"pgregory.net/rapid"
)

func TestInterleaveDeinterleaveRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), LsfPuncturedLen, LsfPuncturedLen).Draw(t, "data")
		got := DeinterleaveLSF(InterleaveLSF(data))
		for i := range data {
			if got[i] != data[i] {
				t.Fatalf("lsf round trip mismatch at byte %d: %#02x != %#02x", i, got[i], data[i])
			}
		}
	})
}

// TestInterleaverIsPermutation ensures the fixed permutation tables are
// bijections: every output bit position draws from a distinct input
// position.
func TestInterleaverIsPermutation(t *testing.T) {
	check := func(t *testing.T, perm []int, n int) {
		seen := make([]bool, n)
		for _, p := range perm {
			if p < 0 || p >= n {
				t.Fatalf("permutation index %d out of range [0,%d)", p, n)
			}
			if seen[p] {
				t.Fatalf("permutation index %d used twice", p)
			}
			seen[p] = true
		}
	}
	check(t, lsfInterleaverPermutation, LsfPuncturedLen*8)
}
