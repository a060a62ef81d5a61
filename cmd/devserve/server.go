package main

import (
	"fmt"
	"net"
	"strconv"

	"devserve/internal/ports"
)

func listenOn(listen func(network, address string) (net.Listener, error), host string, port int) (net.Listener, int, error) {
	if listen == nil {
		listen = net.Listen
	}
	listener, err := listen("tcp", net.JoinHostPort(host, strconv.Itoa(port)))
	if err != nil {
		return nil, 0, err
	}
	tcpAddress, ok := listener.Addr().(*net.TCPAddr)
	if !ok {
		_ = listener.Close()
		return nil, 0, fmt.Errorf("unexpected listener address: %T", listener.Addr())
	}
	return listener, tcpAddress.Port, nil
}

// displayHost is the host shown in the final banner line. A wildcard bind
// is shown as the network address so the URL works from other machines.
func displayHost(host, networkIP string) string {
	if !ports.IsWildcardHost(host) {
		return host
	}
	if networkIP != "" {
		return networkIP
	}
	if host == "" {
		return "0.0.0.0"
	}
	return host
}

func serverURL(host string, port int) string {
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}
