package m17

import (
	"strings"

	"github.com/openrtx/m17core/internal/rtxerr"
)

// callsignAlphabet is the base-40 character set used to pack a callsign
// into the 48-bit address fields of an LSF: a space, the ten digits, the
// 26 letters, then '-', '/', '.'.
const callsignAlphabet = " 0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ-/."

// broadcastAddress is the reserved all-ones 48-bit address meaning
// "no specific destination".
const broadcastAddress uint64 = 0xFFFFFFFFFFFF

// broadcastCallsign is the textual token EncodeCallsign/DecodeCallsign use
// for the reserved broadcast address.
const broadcastCallsign = "#BCAST#"

func callsignIndex(c byte) (int, bool) {
	i := strings.IndexByte(callsignAlphabet, c)
	if i < 0 {
		return 0, false
	}
	return i, true
}

// EncodeCallsign packs a callsign of up to 9 base-40 characters into a
// 48-bit address value. The first character of s occupies the
// least-significant base-40 digit, so that DecodeCallsign can recover a
// shorter-than-9 callsign by stopping once the remaining value is zero,
// without needing to know the original length. The broadcast token
// (case-insensitively "#BCAST#" or the empty string) maps to the reserved
// all-ones address.
func EncodeCallsign(s string) (uint64, error) {
	if s == "" || strings.EqualFold(s, broadcastCallsign) {
		return broadcastAddress, nil
	}
	if len(s) > 9 {
		return 0, rtxerr.New("m17.EncodeCallsign", rtxerr.EINVAL)
	}

	upper := strings.ToUpper(s)
	var value uint64
	for i := len(upper) - 1; i >= 0; i-- {
		idx, ok := callsignIndex(upper[i])
		if !ok {
			return 0, rtxerr.New("m17.EncodeCallsign", rtxerr.EINVAL)
		}
		value = value*40 + uint64(idx)
	}
	return value, nil
}

// DecodeCallsign is the inverse of EncodeCallsign. The reserved all-ones
// address decodes to the broadcast token.
func DecodeCallsign(value uint64) string {
	value &= broadcastAddress
	if value == broadcastAddress {
		return broadcastCallsign
	}

	var sb strings.Builder
	for value > 0 {
		sb.WriteByte(callsignAlphabet[value%40])
		value /= 40
	}
	return sb.String()
}

// PackAddress writes a 48-bit address value into a 6-byte big-endian field.
func PackAddress(value uint64, dst []byte) {
	_ = dst[5]
	dst[0] = byte(value >> 40)
	dst[1] = byte(value >> 32)
	dst[2] = byte(value >> 24)
	dst[3] = byte(value >> 16)
	dst[4] = byte(value >> 8)
	dst[5] = byte(value)
}

// UnpackAddress reads a 48-bit big-endian address field.
func UnpackAddress(src []byte) uint64 {
	_ = src[5]
	return uint64(src[0])<<40 | uint64(src[1])<<32 | uint64(src[2])<<24 |
		uint64(src[3])<<16 | uint64(src[4])<<8 | uint64(src[5])
}
