package chardev

import (
	"os"

	"github.com/creack/pty"

	"github.com/openrtx/m17core/internal/rtxerr"
)

// Pty is a Device backed by a pseudo-terminal pair, used for RTXLINK
// test harnesses and for local tools (e.g. the reference client in
// cmd/rtxcore) that want to talk RTXLINK without a physical radio.
type Pty struct {
	master *os.File
	slave  *os.File
}

// OpenPty allocates a new pty pair and returns a Device wrapping the
// master end; SlaveName reports the path a peer process should open.
func OpenPty() (*Pty, error) {
	master, slave, err := pty.Open()
	if err != nil {
		return nil, err
	}
	return &Pty{master: master, slave: slave}, nil
}

// SlaveName returns the path of the pty's slave side.
func (p *Pty) SlaveName() string { return p.slave.Name() }

// Read implements Device.
func (p *Pty) Read(b []byte) (int, error) { return p.master.Read(b) }

// Write implements Device.
func (p *Pty) Write(b []byte) (int, error) { return p.master.Write(b) }

// Close implements Device.
func (p *Pty) Close() error {
	err1 := p.master.Close()
	err2 := p.slave.Close()
	if err1 != nil {
		return err1
	}
	return err2
}

// IOCtl implements Device. Pty has no notion of baud rate, so
// IOCtlSetSpeed is a no-op; IOCtlSync/IOCtlFlush are unsupported since a
// pty has no internal buffering to flush.
func (p *Pty) IOCtl(cmd IOCtl, arg int) error {
	switch cmd {
	case IOCtlSetSpeed:
		return nil
	default:
		return rtxerr.New("chardev.Pty.IOCtl", rtxerr.EINVAL)
	}
}
