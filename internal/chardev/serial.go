package chardev

import (
	"github.com/pkg/term"

	"github.com/openrtx/m17core/internal/rtxerr"
)

// Serial is a Device backed by a real serial port, opened in raw mode.
//
// Grounded on the teacher's serial_port.go serial_port_open, generalized
// from a bare *term.Term return value to an error-returning constructor
// and the Device interface.
type Serial struct {
	t *term.Term
}

// supportedBauds mirrors serial_port_open's accepted speed list.
var supportedBauds = map[int]bool{
	1200: true, 2400: true, 4800: true, 9600: true,
	19200: true, 38400: true, 57600: true, 115200: true,
}

// OpenSerial opens devicename in raw mode at baud bps. baud 0 leaves the
// port's current speed alone; an unsupported baud falls back to 4800,
// matching the teacher's behavior.
func OpenSerial(devicename string, baud int) (*Serial, error) {
	t, err := term.Open(devicename, term.RawMode)
	if err != nil {
		return nil, err
	}

	switch {
	case baud == 0:
	case supportedBauds[baud]:
		if err := t.SetSpeed(baud); err != nil {
			t.Close()
			return nil, err
		}
	default:
		if err := t.SetSpeed(4800); err != nil {
			t.Close()
			return nil, err
		}
	}

	return &Serial{t: t}, nil
}

// Read implements Device.
func (s *Serial) Read(p []byte) (int, error) { return s.t.Read(p) }

// Write implements Device.
func (s *Serial) Write(p []byte) (int, error) { return s.t.Write(p) }

// Close implements Device.
func (s *Serial) Close() error { return s.t.Close() }

// IOCtl implements Device.
func (s *Serial) IOCtl(cmd IOCtl, arg int) error {
	switch cmd {
	case IOCtlSync:
		return s.t.Flush()
	case IOCtlFlush:
		return s.t.Flush()
	case IOCtlSetSpeed:
		return s.t.SetSpeed(arg)
	default:
		return rtxerr.New("chardev.Serial.IOCtl", rtxerr.EINVAL)
	}
}
