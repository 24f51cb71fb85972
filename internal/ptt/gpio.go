package ptt

import (
	"github.com/warthog618/go-gpiocdev"
)

// GPIOBackend keys PTT by driving a GPIO line through the Linux
// character-device GPIO ABI, the modern replacement for the teacher's
// sysfs /sys/class/gpio export/value dance.
type GPIOBackend struct {
	line   *gpiocdev.Line
	invert bool
}

// OpenGPIO opens chipName's offset line as a PTT output. invert matches
// the teacher's "is the GPIO active low?" ptt_invert flag.
func OpenGPIO(chipName string, offset int, invert bool) (*GPIOBackend, error) {
	initial := 0
	if invert {
		initial = 1
	}
	line, err := gpiocdev.RequestLine(chipName, offset,
		gpiocdev.AsOutput(initial))
	if err != nil {
		return nil, err
	}
	return &GPIOBackend{line: line, invert: invert}, nil
}

// Key implements Backend.
func (g *GPIOBackend) Key(on bool) error {
	v := 0
	if on != g.invert {
		v = 1
	}
	return g.line.SetValue(v)
}

// Close implements Backend.
func (g *GPIOBackend) Close() error { return g.line.Close() }
