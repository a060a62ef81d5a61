// Package ports resolves display addresses and classifies bind failures.
package ports

import (
	"net"
	"strings"
)

const (
	// LoopbackIP is returned when no outbound interface can be determined.
	LoopbackIP = "127.0.0.1"

	// probeAddress only steers route selection; UDP dial sends no packets.
	probeAddress = "8.8.8.8:80"
)

type dialFunc func(network, address string) (net.Conn, error)

// OutboundIP returns the local address the OS would use to reach the public
// internet, or LoopbackIP when there is no route.
func OutboundIP() string {
	return outboundIP(net.Dial)
}

func outboundIP(dial dialFunc) string {
	conn, err := dial("udp4", probeAddress)
	if err != nil {
		return LoopbackIP
	}
	defer conn.Close()

	addr, ok := conn.LocalAddr().(*net.UDPAddr)
	if !ok || addr.IP == nil || addr.IP.IsUnspecified() {
		return LoopbackIP
	}
	return addr.IP.String()
}

// IsWildcardHost reports whether host binds every local interface.
func IsWildcardHost(host string) bool {
	switch strings.TrimSpace(host) {
	case "", "0.0.0.0", "::", "[::]":
		return true
	default:
		return false
	}
}
