package m17

import "github.com/openrtx/m17core/internal/rtxerr"

// LinkSetupFrame is the 30-byte structure that opens every M17
// transmission: destination and source addresses, a type field, 14 bytes
// of mode-dependent metadata, and a trailing CRC.
//
// Grounded on M17LinkSetupFrame.cpp's field layout and updateCrc/valid
// methods.
type LinkSetupFrame struct {
	Dst  uint64 // 48-bit packed address
	Src  uint64 // 48-bit packed address
	Type uint16
	Meta [14]byte
	Crc  uint16
}

// NewVoiceLSF builds an LSF for an unencrypted voice stream between src
// and dst, with the CRC already computed.
func NewVoiceLSF(src, dst string) (LinkSetupFrame, error) {
	var lsf LinkSetupFrame
	var err error
	if lsf.Src, err = EncodeCallsign(src); err != nil {
		return LinkSetupFrame{}, err
	}
	if lsf.Dst, err = EncodeCallsign(dst); err != nil {
		return LinkSetupFrame{}, err
	}
	lsf.Type = uint16(FrameTypeStream) | uint16(DataTypeVoice)<<1 | uint16(EncryptionTypeNone)<<3
	lsf.UpdateCRC()
	return lsf, nil
}

// Bytes packs the LSF into its 30-byte wire representation.
func (l *LinkSetupFrame) Bytes() [LsfLen]byte {
	var b [LsfLen]byte
	PackAddress(l.Dst, b[0:6])
	PackAddress(l.Src, b[6:12])
	b[12] = byte(l.Type >> 8)
	b[13] = byte(l.Type)
	copy(b[14:28], l.Meta[:])
	b[28] = byte(l.Crc >> 8)
	b[29] = byte(l.Crc)
	return b
}

// ParseLSF unpacks a 30-byte wire representation into a LinkSetupFrame.
func ParseLSF(b []byte) (LinkSetupFrame, error) {
	if len(b) != LsfLen {
		return LinkSetupFrame{}, rtxerr.New("m17.ParseLSF", rtxerr.EINVAL)
	}
	var l LinkSetupFrame
	l.Dst = UnpackAddress(b[0:6])
	l.Src = UnpackAddress(b[6:12])
	l.Type = uint16(b[12])<<8 | uint16(b[13])
	copy(l.Meta[:], b[14:28])
	l.Crc = uint16(b[28])<<8 | uint16(b[29])
	return l, nil
}

// UpdateCRC recomputes Crc from the frame's other fields.
func (l *LinkSetupFrame) UpdateCRC() {
	b := l.Bytes()
	l.Crc = crc16(b[:28])
}

// Valid reports whether Crc matches the frame's other fields.
func (l *LinkSetupFrame) Valid() bool {
	b := l.Bytes()
	return crc16(b[:28]) == l.Crc
}

// FrameType returns the session type (packet/stream) from Type.
func (l *LinkSetupFrame) FrameType() FrameType { return FrameType(l.Type & 0x1) }

// DataType returns the payload data type from Type.
func (l *LinkSetupFrame) DataType() DataType { return DataType((l.Type >> 1) & 0x3) }

// Encryption returns the encryption subtype from Type.
func (l *LinkSetupFrame) Encryption() EncryptionType { return EncryptionType((l.Type >> 3) & 0x3) }

// CAN returns the 4-bit Channel Access Number from Type, used like a
// squelch key to let receivers ignore co-channel sessions they're not
// tuned to.
func (l *LinkSetupFrame) CAN() uint8 { return uint8((l.Type >> 7) & 0xF) }

// SetCAN sets the Channel Access Number in Type, leaving every other
// subfield untouched. The caller must call UpdateCRC afterward.
func (l *LinkSetupFrame) SetCAN(can uint8) {
	l.Type = (l.Type &^ (0xF << 7)) | uint16(can&0xF)<<7
}

// SourceCallsign decodes Src back to text.
func (l *LinkSetupFrame) SourceCallsign() string { return DecodeCallsign(l.Src) }

// DestCallsign decodes Dst back to text.
func (l *LinkSetupFrame) DestCallsign() string { return DecodeCallsign(l.Dst) }

// EncodeFrame runs the full LSF encode pipeline: convolutional code,
// puncture, interleave, decorrelate. It returns the 46-byte frame
// payload to follow SyncLSF on air.
//
// Grounded on M17FrameEncoder.cpp's encodeLsf().
func (l *LinkSetupFrame) EncodeFrame() [FramePayloadLen]byte {
	b := l.Bytes()
	encoded := convEncode(b[:])
	punctured := puncture(encoded, LsfEncodedLen*8, lsfPuncture)
	interleaved := InterleaveLSF(punctured)
	decorrelated := Decorrelate(interleaved)

	var out [FramePayloadLen]byte
	copy(out[:], decorrelated)
	return out
}

// DecodeLSFFrame reverses EncodeFrame's pipeline and recovers the
// LinkSetupFrame, regardless of whether Valid() subsequently passes; the
// decoder never rejects its input (spec: Viterbi decoding never rejects).
func DecodeLSFFrame(payload []byte) (LinkSetupFrame, error) {
	if len(payload) != FramePayloadLen {
		return LinkSetupFrame{}, rtxerr.New("m17.DecodeLSFFrame", rtxerr.EINVAL)
	}
	correlated := Decorrelate(payload)
	deinterleaved := DeinterleaveLSF(correlated)
	bits, erased := depuncture(deinterleaved, LsfEncodedLen*8, lsfPuncture)
	data := convViterbiDecode(bits, erased, LsfLen*8)
	return ParseLSF(data)
}
