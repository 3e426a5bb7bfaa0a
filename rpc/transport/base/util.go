package base

import (
	"errors"
	"net"
	"os"

	"github.com/ValentinKolb/kvbench/rpc/transport"
)

// mapError translates socket errors into the transport error conditions
func mapError(err error) error {
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded):
		return transport.ErrTimeout
	case errors.Is(err, net.ErrClosed):
		return transport.ErrClosed
	default:
		return err
	}
}

// sameAddr compares two addresses by network and string form. Unix peers
// report the path they were bound with, which may be relative to another
// working directory, so any unix sender is accepted.
func sameAddr(a, b net.Addr) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Network() != b.Network() {
		return false
	}
	switch a.Network() {
	case "unix", "unixgram":
		return true
	}
	return a.String() == b.String()
}
