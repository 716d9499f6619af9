package awair

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/grandcat/zeroconf"
)

const (
	awairHostnamePrefix     = "awair-"
	defaultDiscoveryTimeout = 10 * time.Second
)

// DiscoverLocalDevices browses mDNS for Awair devices on the local network
// and returns their addresses, in discovery order, suitable for NewLocal.
// Browsing stops when timeout elapses or ctx is cancelled, whichever comes
// first; a timeout of zero uses a 10 second default. Devices advertise
// themselves as _http._tcp services with an "awair-" hostname prefix.
func DiscoverLocalDevices(ctx context.Context, timeout time.Duration) ([]string, error) {
	if timeout <= 0 {
		timeout = defaultDiscoveryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return nil, newError(ErrGeneric, fmt.Sprintf("failed to initialize resolver: %v", err))
	}

	entries := make(chan *zeroconf.ServiceEntry)
	if err := resolver.Browse(ctx, "_http._tcp", "local.", entries); err != nil {
		return nil, newError(ErrGeneric, fmt.Sprintf("failed to browse for devices: %v", err))
	}

	var addrs []string
	for entry := range entries {
		hostname := entry.HostName
		if len(hostname) < len(awairHostnamePrefix) {
			continue
		}
		if !strings.EqualFold(hostname[:len(awairHostnamePrefix)], awairHostnamePrefix) {
			continue
		}
		if len(entry.AddrIPv4) == 0 {
			continue
		}

		addrs = append(addrs, entry.AddrIPv4[0].String())
	}

	return addrs, nil
}
