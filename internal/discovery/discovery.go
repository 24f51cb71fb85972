// Package discovery browses for RTXLINK-over-network radios advertised
// via mDNS, the client-side counterpart to chardev.AdvertiseNetwork.
package discovery

import (
	"context"
	"fmt"

	"github.com/brutella/dnssd"
)

// Radio is one discovered RTXLINK network endpoint.
type Radio struct {
	Name string
	Addr string // host:port
}

// Browse watches for "_rtxlink._tcp" services until ctx is cancelled,
// invoking found each time a radio appears.
func Browse(ctx context.Context, found func(Radio)) error {
	add := func(e dnssd.BrowseEntry) {
		if len(e.IPs) == 0 {
			return
		}
		found(Radio{
			Name: e.Name,
			Addr: fmt.Sprintf("%s:%d", e.IPs[0].String(), e.Port),
		})
	}
	remove := func(e dnssd.BrowseEntry) {}

	return dnssd.LookupType(ctx, "_rtxlink._tcp.local.", add, remove)
}
