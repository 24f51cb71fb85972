package m17

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// TestLSFEncodeScenario is the worked example of an LSF encode: a voice
// stream from AB1CDE with no destination (broadcast) and CAN 0.
func TestLSFEncodeScenario(t *testing.T) {
	lsf, err := NewVoiceLSF("AB1CDE", "")
	require.NoError(t, err)

	frame := Frame{Sync: SyncLSF, Payload: lsf.EncodeFrame()}
	assert.Equal(t, SyncLSF, frame.Sync)

	decoded, err := DecodeLSFFrame(frame.Payload[:])
	require.NoError(t, err)

	assert.Equal(t, "AB1CDE", decoded.SourceCallsign())
	assert.Equal(t, broadcastCallsign, decoded.DestCallsign())
	assert.Equal(t, FrameTypeStream, decoded.FrameType())
	assert.Equal(t, DataTypeVoice, decoded.DataType())
	assert.Equal(t, uint8(0), decoded.CAN())
	assert.True(t, decoded.Valid())
}

func TestLSFBytesRoundTrip(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var l LinkSetupFrame
		l.Dst = rapid.Uint64Range(0, 0xFFFFFFFFFFFF).Draw(t, "dst")
		l.Src = rapid.Uint64Range(0, 0xFFFFFFFFFFFF).Draw(t, "src")
		l.Type = uint16(rapid.IntRange(0, 0xFFFF).Draw(t, "type"))
		meta := rapid.SliceOfN(rapid.Byte(), 14, 14).Draw(t, "meta")
		copy(l.Meta[:], meta)
		l.UpdateCRC()

		b := l.Bytes()
		got, err := ParseLSF(b[:])
		require.NoError(t, err)
		assert.Equal(t, l, got)
		assert.True(t, got.Valid())
	})
}

func TestLSFInvalidCRCDetected(t *testing.T) {
	lsf, err := NewVoiceLSF("W1AW", "N0CALL")
	require.NoError(t, err)
	require.True(t, lsf.Valid())

	lsf.Crc ^= 0xFFFF
	assert.False(t, lsf.Valid())
}

func TestLSFFrameRoundTripViaAirPipeline(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var l LinkSetupFrame
		l.Dst = rapid.Uint64Range(0, 0xFFFFFFFFFFFF).Draw(t, "dst")
		l.Src = rapid.Uint64Range(0, 0xFFFFFFFFFFFF).Draw(t, "src")
		l.Type = uint16(rapid.IntRange(0, 0xFFFF).Draw(t, "type"))
		meta := rapid.SliceOfN(rapid.Byte(), 14, 14).Draw(t, "meta")
		copy(l.Meta[:], meta)
		l.UpdateCRC()

		payload := l.EncodeFrame()
		got, err := DecodeLSFFrame(payload[:])
		if err != nil {
			t.Fatalf("decode: %v", err)
		}
		if got != l {
			t.Fatalf("air pipeline round trip mismatch:\n want %+v\n got  %+v", l, got)
		}
	})
}
