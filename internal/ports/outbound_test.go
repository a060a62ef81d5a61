package ports

import (
	"errors"
	"net"
	"testing"
)

type stubConn struct {
	net.Conn
	local  net.Addr
	closed bool
}

func (conn *stubConn) LocalAddr() net.Addr {
	return conn.local
}

func (conn *stubConn) Close() error {
	conn.closed = true
	return nil
}

func TestOutboundIPFallsBackWithoutRoute(t *testing.T) {
	got := outboundIP(func(network, address string) (net.Conn, error) {
		return nil, errors.New("network is unreachable")
	})
	if got != LoopbackIP {
		t.Fatalf("expected %s, got %s", LoopbackIP, got)
	}
}

func TestOutboundIPReturnsLocalAddress(t *testing.T) {
	conn := &stubConn{local: &net.UDPAddr{IP: net.ParseIP("192.168.1.42"), Port: 53124}}
	var dialed string
	got := outboundIP(func(network, address string) (net.Conn, error) {
		dialed = network + " " + address
		return conn, nil
	})
	if got != "192.168.1.42" {
		t.Fatalf("expected 192.168.1.42, got %s", got)
	}
	if dialed != "udp4 8.8.8.8:80" {
		t.Fatalf("unexpected dial target %q", dialed)
	}
	if !conn.closed {
		t.Fatalf("expected probe connection to be closed")
	}
}

func TestOutboundIPRejectsUnspecifiedAddress(t *testing.T) {
	conn := &stubConn{local: &net.UDPAddr{IP: net.IPv4zero}}
	got := outboundIP(func(string, string) (net.Conn, error) { return conn, nil })
	if got != LoopbackIP {
		t.Fatalf("expected %s, got %s", LoopbackIP, got)
	}
}

func TestOutboundIPIsParseable(t *testing.T) {
	if ip := net.ParseIP(OutboundIP()); ip == nil {
		t.Fatalf("expected a parseable address")
	}
}

func TestIsWildcardHost(t *testing.T) {
	cases := map[string]bool{
		"0.0.0.0":   true,
		"::":        true,
		"":          true,
		"127.0.0.1": false,
		"localhost": false,
	}
	for host, want := range cases {
		if got := IsWildcardHost(host); got != want {
			t.Fatalf("IsWildcardHost(%q) = %v, want %v", host, got, want)
		}
	}
}
