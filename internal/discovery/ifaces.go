package discovery

import (
	"errors"
	"fmt"
	"net"
	"syscall"
)

// ErrNoBroadcastRoute means no up, non-loopback IPv4 interface with a
// derivable broadcast address was found.
var ErrNoBroadcastRoute = errors.New("no broadcastable IPv4 interface")

// BroadcastRoute is one usable way out: the interface, the local IPv4
// address to bind, and the subnet broadcast address to send to.
type BroadcastRoute struct {
	Interface string
	Local     net.IP
	Broadcast net.IP
}

func (r BroadcastRoute) String() string {
	return fmt.Sprintf("%s (%s -> %s)", r.Interface, r.Local, r.Broadcast)
}

// RouteFunc locates a broadcast route. The advertiser takes one so the
// OS enumeration stays swappable.
type RouteFunc func() (BroadcastRoute, error)

// DefaultRoute walks the system interfaces and returns the first up,
// non-loopback IPv4 interface, with its broadcast address derived from
// the address mask.
func DefaultRoute() (BroadcastRoute, error) {
	ifaces, err := net.Interfaces()
	if err != nil {
		return BroadcastRoute{}, fmt.Errorf("enumerating interfaces: %w", err)
	}
	for _, iface := range ifaces {
		if iface.Flags&net.FlagUp == 0 || iface.Flags&net.FlagLoopback != 0 {
			continue
		}
		if iface.Flags&net.FlagBroadcast == 0 {
			continue
		}
		addrs, err := iface.Addrs()
		if err != nil {
			continue
		}
		for _, addr := range addrs {
			ipnet, ok := addr.(*net.IPNet)
			if !ok {
				continue
			}
			ip4 := ipnet.IP.To4()
			if ip4 == nil {
				continue
			}
			mask := ipnet.Mask
			if len(mask) == net.IPv6len {
				mask = mask[12:]
			}
			bcast := make(net.IP, net.IPv4len)
			for i := range bcast {
				bcast[i] = ip4[i] | ^mask[i]
			}
			return BroadcastRoute{Interface: iface.Name, Local: ip4, Broadcast: bcast}, nil
		}
	}
	return BroadcastRoute{}, ErrNoBroadcastRoute
}

// controlBroadcast enables SO_BROADCAST and SO_REUSEADDR before bind.
func controlBroadcast(network, address string, c syscall.RawConn) error {
	var opErr error
	err := c.Control(func(fd uintptr) {
		opErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_BROADCAST, 1)
		if opErr != nil {
			return
		}
		opErr = syscall.SetsockoptInt(int(fd), syscall.SOL_SOCKET, syscall.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return opErr
}
