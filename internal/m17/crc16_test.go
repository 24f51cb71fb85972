package m17

import (
	"testing"

	"pgregory.net/rapid"
)

func TestCRC16InitValueOnEmpty(t *testing.T) {
	if got := crc16(nil); got != 0xFFFF {
		t.Fatalf("crc16(nil) = %#04x, want 0xFFFF", got)
	}
}

// TestCRC16Deterministic checks crc16 is a pure function of its input,
// the property the LSF CRC check and the LICH reassembly check both
// depend on.
func TestCRC16Deterministic(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 0, 64).Draw(t, "data")
		a := crc16(data)
		b := crc16(data)
		if a != b {
			t.Fatalf("crc16 not deterministic: %#04x != %#04x", a, b)
		}
	})
}

func TestCRC16SensitiveToFlip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		data := rapid.SliceOfN(rapid.Byte(), 1, 64).Draw(t, "data")
		idx := rapid.IntRange(0, len(data)-1).Draw(t, "idx")
		bit := rapid.IntRange(0, 7).Draw(t, "bit")

		before := crc16(data)
		flipped := append([]byte(nil), data...)
		flipped[idx] ^= 1 << uint(bit)
		after := crc16(flipped)

		if before == after {
			t.Fatalf("single bit flip at byte %d bit %d did not change CRC", idx, bit)
		}
	})
}
