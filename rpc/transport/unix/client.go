package unix

import (
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/transport"
	"github.com/ValentinKolb/kvbench/rpc/transport/base"
)

// clientConnector implements the IClientConnector interface for Unix datagram sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "unix"
}

// Connect binds the client socket at config.Bind. Unlike UDP, an unbound
// unixgram socket cannot receive replies, so an empty bind path is replaced by
// a per-process path in the temp directory.
func (c *clientConnector) Connect(config common.ClientConfig) (net.PacketConn, net.Addr, error) {
	server, err := net.ResolveUnixAddr("unixgram", config.Endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve server %s: %w", config.Endpoint, err)
	}

	bind := config.Bind
	if bind == "" {
		bind = DefaultClientSocket()
	}

	conn, err := listenSocket(bind)
	if err != nil {
		return nil, nil, err
	}
	return conn, server, nil
}

// DefaultClientSocket returns the socket path used by a client without a bind path
func DefaultClientSocket() string {
	return filepath.Join(os.TempDir(), fmt.Sprintf("kvbench-client-%d.sock", os.Getpid()))
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewUnixClientTransport creates a new Unix datagram client transport
func NewUnixClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
