package ports

import (
	"errors"
	"strings"
	"syscall"
)

const maxPort = 65535

// IsAddrInUse reports whether err is a listen failure caused by another
// process holding the address.
func IsAddrInUse(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, syscall.EADDRINUSE) {
		return true
	}
	message := strings.ToLower(err.Error())
	return strings.Contains(message, "address already in use") ||
		strings.Contains(message, "only one usage of each socket address")
}

// SuggestPort returns the port to try after port failed to bind.
func SuggestPort(port int) int {
	if port >= maxPort {
		return port - 1
	}
	return port + 1
}
