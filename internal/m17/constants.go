// Package m17 implements the M17 digital voice protocol's wire-level data
// types and forward error correction: link setup frames, stream frames,
// the Golay(24,12)-protected LICH, CRC-16, callsign encoding, the rate-1/2
// convolutional code and its puncturing schedules, the bit interleaver and
// the baseband decorrelator.
//
// Grounded on original_source/openrtx/src/protocols/M17/M17FrameEncoder.cpp,
// M17FrameDecoder.cpp and M17LinkSetupFrame.cpp for frame layout and the
// encode/decode pipeline order; the FEC primitives themselves (Golay,
// puncture schedule, interleaver permutation, decorrelation sequence) are
// not present in the retrieved C++ sources. Golay uses the published
// extended Golay code and the puncture schedules follow the published M17
// ratios; the interleaver permutation and decorrelation sequence are fixed
// stand-ins shared by this module's TX and RX, not the M17 standard's
// tables. All of this is documented in DESIGN.md.
package m17

const (
	// SymbolRate is the M17 4-FSK baud rate in symbols per second.
	SymbolRate = 4800

	// TxSampleRate is the transmitter baseband sample rate in Hz.
	TxSampleRate = 48000
	// RxSampleRate is the receiver baseband sample rate in Hz.
	RxSampleRate = 24000

	// SamplesPerSymbolTx is TxSampleRate/SymbolRate.
	SamplesPerSymbolTx = TxSampleRate / SymbolRate
	// SamplesPerSymbolRx is RxSampleRate/SymbolRate.
	SamplesPerSymbolRx = RxSampleRate / SymbolRate

	// FrameSyms is the number of 4-FSK symbols in one 40ms superframe.
	FrameSyms = 192
	// FrameSamples is one superframe's worth of RX baseband samples.
	FrameSamples = FrameSyms * SamplesPerSymbolRx

	// LsfLen is the size in bytes of a Link Setup Frame payload.
	LsfLen = 30
	// LsfEncodedLen is LsfLen after rate-1/2 convolutional coding plus
	// the 4 flush bits, before puncturing: (30*8+4)*2/8 bytes.
	LsfEncodedLen = 61
	// LsfPuncturedLen is the LSF payload after puncturing, carried as
	// the 368 payload bits of an LSF frame (46 bytes).
	LsfPuncturedLen = 46

	// StreamPayloadLen is the size in bytes of one stream frame's
	// payload (frame number + 16 bytes of Codec2 audio).
	StreamPayloadLen = 18
	// StreamEncodedLen is StreamPayloadLen after convolutional coding
	// and flush, before puncturing.
	StreamEncodedLen = 37
	// StreamPuncturedLen is the stream payload after puncturing.
	StreamPuncturedLen = 34

	// LichSegLen is the size in bytes of one LICH segment (4 Golay(24,12)
	// blocks of 3 bytes each).
	LichSegLen = 12
	// LichChunkLen is the number of LSF bytes carried by one LICH
	// segment.
	LichChunkLen = 5
	// LichSegCount is the number of segments needed to carry a full LSF
	// a-chunk-at-a-time (6 segments * 5 bytes >= 30-byte LSF minus CRC
	// handling; segment 5 carries the trailing 5 bytes including CRC).
	LichSegCount = 6

	// FrameLen is the size in bytes of one on-air frame: 2-byte
	// syncword followed by 46 bytes of payload.
	FrameLen = 48
	// FramePayloadLen is FrameLen minus the syncword.
	FramePayloadLen = 46

	// PreambleByte is repeated to build the bit-sync preamble that
	// precedes a transmission's first LSF.
	PreambleByte = 0x77
)

// Syncword is a 2-byte on-air pattern identifying a frame's kind.
type Syncword [2]byte

var (
	// SyncLSF precedes a Link Setup Frame.
	SyncLSF = Syncword{0x55, 0xF7}
	// SyncStream precedes a Stream Frame.
	SyncStream = Syncword{0xFF, 0x5D}
	// SyncPacket precedes a Packet Frame (not used by the voice path).
	SyncPacket = Syncword{0x75, 0xFF}
	// SyncBERT precedes a bit-error-rate test frame.
	SyncBERT = Syncword{0xDF, 0x55}
)

// FrameType identifies the payload carried after a type field in the LSF.
type FrameType uint16

const (
	// FrameTypePacket marks a packet-data session.
	FrameTypePacket FrameType = 0
	// FrameTypeStream marks a voice/stream session.
	FrameTypeStream FrameType = 1
)

// DataType occupies bits 1-2 of the LSF type field.
type DataType uint16

const (
	DataTypeNone      DataType = 0
	DataTypeData      DataType = 1
	DataTypeVoice     DataType = 2
	DataTypeVoiceData DataType = 3
)

// EncryptionType occupies bits 3-4 of the LSF type field.
type EncryptionType uint16

const (
	EncryptionTypeNone    EncryptionType = 0
	EncryptionTypeScram   EncryptionType = 1
	EncryptionTypeAES     EncryptionType = 2
	EncryptionTypeOther   EncryptionType = 3
)

// symbolMap is indexed by a dibit value (2 bits, MSB first) and gives its
// 4-FSK deviation level: 00->+1, 01->+3, 10->-1, 11->-3.
var symbolMap = [4]int8{+1, +3, -1, -3}

// DibitToSymbol returns the deviation level (in units of the symbol step)
// for a 2-bit dibit value in [0,3].
func DibitToSymbol(dibit uint8) int8 {
	return symbolMap[dibit&0x3]
}

// SymbolToDibit is the inverse of DibitToSymbol, used by the receiver's
// hard-decision slicer.
func SymbolToDibit(sym int8) uint8 {
	switch {
	case sym >= 2:
		return 0b01
	case sym >= 0:
		return 0b00
	case sym >= -2:
		return 0b10
	default:
		return 0b11
	}
}
