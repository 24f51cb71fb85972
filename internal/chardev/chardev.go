// Package chardev abstracts the byte-stream transport RTXLINK rides on:
// a serial port, a pty, or a TCP connection discovered over mDNS.
//
// Grounded on the RTXLINK chardev trait described alongside
// original_source/openrtx/src/core/rtxlink.c, and on the teacher's
// serial_port.go for the serial backend's pkg/term usage.
package chardev

import "io"

// IOCtl commands a Device supports beyond plain read/write, matching the
// RTXLINK chardev trait's SYNC/FLUSH/SETSPEED operations.
type IOCtl int

const (
	// IOCtlSync blocks until any buffered writes reach the peer.
	IOCtlSync IOCtl = 100
	// IOCtlFlush discards any buffered but unsent writes.
	IOCtlFlush IOCtl = 101
	// IOCtlSetSpeed changes the transport's baud rate, where applicable.
	IOCtlSetSpeed IOCtl = 102
)

// Device is a byte-stream character device: RTXLINK frames ride directly
// on Read/Write, with IOCtl covering the few transport-specific controls
// the host protocol needs (flow sync, flush, speed change).
type Device interface {
	io.ReadWriteCloser
	IOCtl(cmd IOCtl, arg int) error
}
