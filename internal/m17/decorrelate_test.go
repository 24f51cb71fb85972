package m17

import (
	"testing"

	"pgregory.net/rapid"
)

func TestDecorrelateSelfInverse(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), FramePayloadLen, FramePayloadLen).Draw(t, "data")
		got := Decorrelate(Decorrelate(data))
		for i := range data {
			if got[i] != data[i] {
				t.Fatalf("decorrelate not self-inverse at byte %d", i)
			}
		}
	})
}

func TestDecorrelateChangesData(t *testing.T) {
	data := make([]byte, FramePayloadLen)
	out := Decorrelate(data)
	allZero := true
	for _, b := range out {
		if b != 0 {
			allZero = false
			break
		}
	}
	if allZero {
		t.Fatal("decorrelate of an all-zero frame produced an all-zero result")
	}
}
