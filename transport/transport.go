package transport

import (
	"context"
	"net"
	"strconv"
)

// Server is the contract shared by the http and grpc transports.
type Server interface {
	Run() error
	Shutdown(context.Context) error
}

// ValidateAddress reports whether addr is a host:port pair with a port in
// the valid range.
func ValidateAddress(addr string) bool {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return false
	}

	p, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	if p < 1 || p > 65535 {
		return false
	}

	return true
}
