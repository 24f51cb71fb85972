// Package dat implements the DAT (data transfer) RTXLINK sub-protocol:
// a half-duplex, Xmodem-like block transfer used to read or write a
// whole NVM area over the host link.
//
// Grounded on spec.md §4.5's DAT description. No original_source file
// for this sub-protocol was retrieved; the concrete opcode/header
// layout below is this module's own design within the spec's stated
// shape (IDLE/START_READ/READ/WRITE states, {block,~block} headers,
// ACK/NAK handshake, <=1024-byte blocks).
package dat

import (
	"sync"

	"github.com/openrtx/m17core/internal/nvm"
)

// ProtocolID is the RTXLINK protocol byte DAT registers under.
const ProtocolID = 0x02

// BlockSize is the maximum payload carried by one DAT block, matching
// spec.md's "up to 1024 bytes".
const BlockSize = 1024

const (
	ack byte = 0x06
	nak byte = 0x15
)

// Opcode identifies a DAT request.
type Opcode byte

const (
	// OpStartRead begins a read transfer of the named area; payload is
	// the area name.
	OpStartRead Opcode = 0x01
	// OpNextBlock requests the next block of a read transfer; its
	// payload is ignored. Outside a read transfer it is NAKed; write
	// blocks travel in OpWriteBlock.
	OpNextBlock Opcode = 0x02
	// OpStartWrite begins a write transfer of the named area; payload
	// is the area name followed by a 4-byte big-endian total size.
	OpStartWrite Opcode = 0x03
	// OpWriteBlock carries one write block: {block byte, ~block byte,
	// up to BlockSize bytes of data}.
	OpWriteBlock Opcode = 0x04
	// OpAbort cancels the in-progress transfer, returning to IDLE.
	OpAbort Opcode = 0x05
)

// State is DAT's per-session transfer state, matching spec.md's
// {IDLE, START_READ, READ, WRITE} state set.
type State int

const (
	StateIdle State = iota
	StateStartRead
	StateRead
	StateWrite
)

// Session holds one DAT transfer's state across successive RTXLINK
// frames; DAT is half-duplex, so only one transfer is in flight at a
// time.
type Session struct {
	mu    sync.Mutex
	dir   *nvm.Directory
	state State

	area      nvm.Area
	offset    int
	totalSize int
	block     byte
}

// NewSession builds a DAT session resolving area names against dir.
func NewSession(dir *nvm.Directory) *Session {
	return &Session{dir: dir, state: StateIdle}
}

// State reports the session's current transfer state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Handler returns an RTXLINK Handler dispatching DAT requests against
// this session.
func (s *Session) Handler() func(rx, tx []byte) int {
	return func(rx, tx []byte) int {
		s.mu.Lock()
		defer s.mu.Unlock()

		if len(rx) < 1 {
			return 0
		}
		switch Opcode(rx[0]) {
		case OpStartRead:
			return s.startRead(rx[1:], tx)
		case OpNextBlock:
			return s.nextBlock(tx)
		case OpStartWrite:
			return s.startWrite(rx[1:], tx)
		case OpWriteBlock:
			return s.writeBlock(rx[1:], tx)
		case OpAbort:
			s.state = StateIdle
			tx[0] = ack
			return 1
		default:
			tx[0] = nak
			return 1
		}
	}
}

func (s *Session) startRead(name []byte, tx []byte) int {
	area, err := s.dir.Lookup(string(name))
	if err != nil {
		tx[0] = nak
		return 1
	}
	s.area = area
	s.offset = 0
	s.block = 1
	s.state = StateRead

	tx[0] = ack
	return 1
}

// nextBlock serves the next BlockSize-or-fewer bytes of the area being
// read, headered with {block, ~block}. Once the area has been fully read
// the reply is the bare header of block 0 ({0x00, 0xFF}, no data) and
// the session returns to IDLE, signalling end of transfer, matching spec.md's "device sends blocks until the area
// end is reached".
func (s *Session) nextBlock(tx []byte) int {
	if s.state != StateRead {
		tx[0] = nak
		return 1
	}

	remaining := s.area.Dev.Size() - s.offset
	if remaining <= 0 {
		s.state = StateIdle
		tx[0] = 0
		tx[1] = 0xFF
		return 2
	}

	n := BlockSize
	if n > remaining {
		n = remaining
	}

	tx[0] = s.block
	tx[1] = ^s.block
	if err := s.area.Dev.Read(s.offset, tx[2:2+n]); err != nil {
		s.state = StateIdle
		tx[0] = nak
		return 1
	}

	s.offset += n
	s.block++
	return 2 + n
}

func (s *Session) startWrite(payload []byte, tx []byte) int {
	if len(payload) < 4 {
		tx[0] = nak
		return 1
	}
	size := int(payload[len(payload)-4])<<24 | int(payload[len(payload)-3])<<16 |
		int(payload[len(payload)-2])<<8 | int(payload[len(payload)-1])
	name := string(payload[:len(payload)-4])

	area, err := s.dir.Lookup(name)
	if err != nil || size > area.Dev.Size() {
		tx[0] = nak
		return 1
	}

	s.area = area
	s.offset = 0
	s.totalSize = size
	s.block = 1
	s.state = StateWrite

	tx[0] = ack
	return 1
}

func (s *Session) writeBlock(payload []byte, tx []byte) int {
	if s.state != StateWrite || len(payload) < 2 {
		tx[0] = nak
		return 1
	}

	block, inv := payload[0], payload[1]
	data := payload[2:]
	if block != ^inv {
		tx[0] = nak
		return 1
	}

	if err := s.area.Dev.Write(s.offset, data); err != nil {
		s.state = StateIdle
		tx[0] = nak
		return 1
	}
	s.offset += len(data)
	s.block++

	if s.offset >= s.totalSize {
		s.state = StateIdle
	}

	tx[0] = ack
	return 1
}
