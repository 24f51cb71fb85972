// Package ptt keys and unkeys the radio's transmitter through one of
// several backend transports.
//
// Grounded on the teacher's ptt.go, which supports PTT_METHOD_GPIO (sysfs
// GPIO), PTT_METHOD_GPIOD (libgpiod) and PTT_METHOD_HAMLIB (rig control)
// selected at init time; this package implements two of those methods,
// GPIO and HAMLIB, backed by the real Go libraries the teacher's go.mod
// already declares (warthog618/go-gpiocdev, xylo04/goHamlib) but never
// actually imports.
package ptt

// Backend keys or unkeys a transmitter. Implementations must be safe to
// call from the single goroutine driving the active transmit stream;
// they are not required to be safe for concurrent use from multiple
// goroutines.
type Backend interface {
	// Key asserts PTT when on is true and releases it when false.
	Key(on bool) error
	// Close releases the backend's underlying resource.
	Close() error
}
