package rtxlink

import "io"

const (
	// MaxPayloadLen is the largest payload a single RTXLINK frame may
	// carry, per spec.md §3's RtxlinkFrame entity.
	MaxPayloadLen = 1028
	// MaxFrameLen is protocol byte + MaxPayloadLen + 2-byte CRC.
	MaxFrameLen = 1 + MaxPayloadLen + 2

	// readChunkSize is how much the dispatcher reads from the character
	// device per Task call.
	readChunkSize = 256
	// replyChunkSize bounds each write so a long reply doesn't starve the
	// caller thread, per spec.md §4.5 step 5.
	replyChunkSize = 64
)

// Handler answers one RTXLINK request: rx is the frame's payload (after
// the protocol byte, before the CRC); it writes its reply into tx and
// returns the reply length, or 0 for no reply. Handlers must not retain
// rx or tx past the call.
type Handler func(rx []byte, tx []byte) int

// Dispatcher multiplexes RTXLINK's SLIP-framed, CRC-protected envelope
// over a single character device to a fixed table of per-protocol
// handlers, matching rtxlink.c's handlers[] array and task().
type Dispatcher struct {
	handlers [256]Handler
	decoder  *FrameCtx
	readBuf  []byte
}

// NewDispatcher builds an empty Dispatcher.
func NewDispatcher() *Dispatcher {
	return &Dispatcher{
		decoder: NewFrameCtx(MaxFrameLen),
		readBuf: make([]byte, readChunkSize),
	}
}

// SetProtocolHandler registers h for protocol. It returns false without
// replacing the existing handler if the slot is already occupied,
// matching spec.md §4.5's dispatcher table semantics.
func (d *Dispatcher) SetProtocolHandler(protocol byte, h Handler) bool {
	if d.handlers[protocol] != nil {
		return false
	}
	d.handlers[protocol] = h
	return true
}

// RemoveProtocolHandler clears protocol's handler slot, if any.
func (d *Dispatcher) RemoveProtocolHandler(protocol byte) {
	d.handlers[protocol] = nil
}

// Task runs one cooperative tick: it reads whatever bytes are currently
// available from dev (never blocking the caller), feeds them to the
// SLIP decoder, and dispatches any complete, CRC-valid frame. It never
// blocks and always returns promptly, per spec.md §5's "cooperative,
// never blocks" requirement.
func (d *Dispatcher) Task(dev io.ReadWriter) error {
	n, err := dev.Read(d.readBuf)
	if err != nil {
		return err
	}
	if n == 0 {
		return nil
	}

	// The decoder's len is always re-derived from this tick's fresh read;
	// a dropped partial frame never leaves stale state for the next call
	// to reuse (spec.md §9's buffer-drop/re-read ambiguity).
	in := d.readBuf[:n]
	for len(in) > 0 {
		consumed, end, err := d.decoder.Decode(in)
		if err != nil {
			d.decoder.Reset()
			return nil
		}
		if consumed == 0 {
			return nil
		}
		in = in[consumed:]

		if end {
			d.dispatch(dev, d.decoder.Data[:d.decoder.OPos])
			d.decoder.Reset()
		}
	}
	return nil
}

// dispatch validates frame's CRC, looks up its handler and, if the
// handler produced a reply, SLIP-frames and sends it.
func (d *Dispatcher) dispatch(dev io.Writer, frame []byte) {
	if len(frame) < 3 {
		return
	}

	body := frame[:len(frame)-2]
	got := uint16(frame[len(frame)-2])<<8 | uint16(frame[len(frame)-1])
	if crc16CCITT(body) != got {
		return
	}

	protocol := body[0]
	handler := d.handlers[protocol]
	if handler == nil {
		return
	}

	txBuf := make([]byte, MaxPayloadLen)
	txLen := handler(body[1:], txBuf)
	if txLen <= 0 {
		return
	}

	reply := make([]byte, 0, 1+txLen+2)
	reply = append(reply, protocol)
	reply = append(reply, txBuf[:txLen]...)
	crc := crc16CCITT(reply)
	reply = append(reply, byte(crc>>8), byte(crc))

	d.sendReply(dev, reply)
}

// sendReply SLIP-encodes reply as one complete frame and writes it to
// dev in replyChunkSize pieces.
func (d *Dispatcher) sendReply(dev io.Writer, reply []byte) error {
	enc := NewFrameCtx(MaxFrameLen)
	n, err := enc.Encode(reply, true)
	if err != nil {
		return err
	}

	out := enc.Data[:n]
	for len(out) > 0 {
		chunk := out
		if len(chunk) > replyChunkSize {
			chunk = chunk[:replyChunkSize]
		}
		if _, err := dev.Write(chunk); err != nil {
			return err
		}
		out = out[len(chunk):]
	}
	return nil
}
