package m17

import "math/bits"

// golayB is the 12x12 matrix B such that G = [I12 | B] generates the
// extended binary Golay [24,12,8] code used to protect each LICH block.
// B is symmetric, so H = [B | I12] is a valid parity-check matrix for the
// same (self-dual) code. Row i is stored as the low 12 bits of golayB[i],
// MSB-first (bit 11 is column 0).
var golayB = [12]uint16{
	0b110111000101,
	0b101110001011,
	0b011100010111,
	0b111000101101,
	0b110001011011,
	0b100010110111,
	0b000101101111,
	0b001011011101,
	0b010110111001,
	0b101101110001,
	0b011011100011,
	0b111111111110,
}

// golayEncode maps a 12-bit data word to its 24-bit extended Golay
// codeword, data in the upper 12 bits and parity in the lower 12.
func golayEncode(data uint16) uint32 {
	data &= 0xFFF
	var parity uint16
	for i := 0; i < 12; i++ {
		if bits.OnesCount16(golayB[i]&data)&1 == 1 {
			parity |= 1 << (11 - i)
		}
	}
	return uint32(data)<<12 | uint32(parity)
}

// golaySyndromeTable maps a 12-bit syndrome to the 24-bit error pattern of
// Hamming weight <=3 that produces it, built once from all such patterns:
// the extended Golay code corrects any such pattern uniquely.
var golaySyndromeTable = buildGolaySyndromeTable()

func golaySyndrome(codeword uint32) uint16 {
	data := uint16(codeword >> 12)
	parity := uint16(codeword & 0xFFF)

	var expected uint16
	for i := 0; i < 12; i++ {
		if bits.OnesCount16(golayB[i]&data)&1 == 1 {
			expected |= 1 << (11 - i)
		}
	}
	return expected ^ parity
}

func buildGolaySyndromeTable() map[uint16]uint32 {
	table := make(map[uint16]uint32, 2325)
	add := func(pattern uint32) {
		s := golaySyndrome(pattern)
		if _, exists := table[s]; !exists {
			table[s] = pattern
		}
	}

	add(0)
	for i := 0; i < 24; i++ {
		add(1 << uint(i))
	}
	for i := 0; i < 24; i++ {
		for j := i + 1; j < 24; j++ {
			add(1<<uint(i) | 1<<uint(j))
		}
	}
	for i := 0; i < 24; i++ {
		for j := i + 1; j < 24; j++ {
			for k := j + 1; k < 24; k++ {
				add(1<<uint(i) | 1<<uint(j) | 1<<uint(k))
			}
		}
	}
	return table
}

// golayDecode corrects up to 3 bit errors in a 24-bit codeword and returns
// the original 12-bit data word. ok is false if the syndrome does not
// correspond to a correctable (weight <=3) error pattern.
func golayDecode(codeword uint32) (data uint16, ok bool) {
	s := golaySyndrome(codeword)
	if s == 0 {
		return uint16(codeword >> 12), true
	}
	pattern, found := golaySyndromeTable[s]
	if !found {
		return 0, false
	}
	corrected := codeword ^ pattern
	return uint16(corrected >> 12), true
}
