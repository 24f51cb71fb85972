package chardev

import (
	"context"
	"net"

	"github.com/brutella/dnssd"

	"github.com/openrtx/m17core/internal/rtxerr"
)

// Network is a Device backed by a TCP connection, used for RTXLINK hosts
// that expose the radio over the network instead of (or in addition to)
// a physical serial port.
type Network struct {
	conn net.Conn
}

// DialNetwork connects to an RTXLINK host at addr ("host:port").
func DialNetwork(addr string) (*Network, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}
	return &Network{conn: conn}, nil
}

// Read implements Device.
func (n *Network) Read(b []byte) (int, error) { return n.conn.Read(b) }

// Write implements Device.
func (n *Network) Write(b []byte) (int, error) { return n.conn.Write(b) }

// Close implements Device.
func (n *Network) Close() error { return n.conn.Close() }

// IOCtl implements Device. A TCP stream has no baud rate; Sync is
// approximated by nothing (writes are unbuffered at this layer).
func (n *Network) IOCtl(cmd IOCtl, arg int) error {
	switch cmd {
	case IOCtlSync, IOCtlFlush:
		return nil
	default:
		return rtxerr.New("chardev.Network.IOCtl", rtxerr.EINVAL)
	}
}

// AdvertiseNetwork publishes an RTXLINK-over-TCP service via mDNS so LAN
// clients can discover this radio without a hardcoded address, pairing
// the teacher's dnssd dependency (declared but unused in the retrieved
// source) with the new network chardev transport.
func AdvertiseNetwork(ctx context.Context, instance string, port int) error {
	cfg := dnssd.Config{
		Name: instance,
		Type: "_rtxlink._tcp",
		Port: port,
	}
	service, err := dnssd.NewService(cfg)
	if err != nil {
		return err
	}

	responder, err := dnssd.NewResponder()
	if err != nil {
		return err
	}
	if _, err := responder.Add(service); err != nil {
		return err
	}
	return responder.Respond(ctx)
}
