package transport

import (
	"errors"
	"net"
	"time"

	"github.com/ValentinKolb/kvbench/rpc/common"
)

var (
	// ErrTimeout is returned by a client receive that exceeded its bound.
	// The request is lost, the transport stays usable.
	ErrTimeout = errors.New("transport: receive timeout")
	// ErrClosed is returned by operations on a closed transport.
	ErrClosed = errors.New("transport: closed")
)

// --------------------------------------------------------------------------
// Server Transport
// --------------------------------------------------------------------------

// IRPCServerTransport is the interface for the server side of a connectionless
// transport. One request is one datagram and one response is one datagram.
type IRPCServerTransport interface {
	// Listen binds the transport to the endpoint of the configuration
	Listen(config common.ServerConfig) error
	// Receive blocks until a request arrives and copies it into buf.
	// It returns the request length and the peer to reply to.
	// After Close it returns ErrClosed.
	Receive(buf []byte) (n int, peer net.Addr, err error)
	// Reply sends a response datagram to peer
	Reply(peer net.Addr, resp []byte) error
	// Addr returns the bound local address
	Addr() net.Addr
	// Close unblocks Receive and releases the socket
	Close() error
}

// --------------------------------------------------------------------------
// Client Transport
// --------------------------------------------------------------------------

// IRPCClientTransport is the interface for the client side of a connectionless
// transport. It supports exactly one outstanding request.
type IRPCClientTransport interface {
	// Connect binds the local socket and resolves the server address
	Connect(config common.ClientConfig) error
	// Send sends a request datagram to the server
	Send(req []byte) error
	// Receive waits up to timeout for a response from the server and copies it
	// into buf. It returns ErrTimeout when the bound is exceeded.
	Receive(buf []byte, timeout time.Duration) (n int, err error)
	// Drain discards responses that arrived after their request timed out.
	// It returns the number of discarded datagrams.
	Drain() int
	// Addr returns the bound local address
	Addr() net.Addr
	// Close releases the socket
	Close() error
}
