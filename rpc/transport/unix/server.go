package unix

import (
	"fmt"
	"net"
	"os"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/transport"
	"github.com/ValentinKolb/kvbench/rpc/transport/base"
)

// serverConnector implements the IServerConnector interface for Unix datagram sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "unix"
}

func (c *serverConnector) Listen(config common.ServerConfig) (net.PacketConn, error) {
	return listenSocket(config.Endpoint)
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewUnixServerTransport creates a new Unix datagram server transport
func NewUnixServerTransport() transport.IRPCServerTransport {
	return base.NewBaseServerTransport(&serverConnector{})
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// socketConn removes the socket file when the connection is closed
type socketConn struct {
	net.PacketConn
	path string
}

func (c *socketConn) Close() error {
	err := c.PacketConn.Close()
	if rmErr := os.Remove(c.path); rmErr != nil && !os.IsNotExist(rmErr) && err == nil {
		err = rmErr
	}
	return err
}

// listenSocket binds a unixgram socket at path, replacing a stale socket file
func listenSocket(path string) (net.PacketConn, error) {
	// Remove existing socket file if it exists
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("failed to remove existing socket: %v", err)
	}

	conn, err := net.ListenPacket("unixgram", path)
	if err != nil {
		return nil, fmt.Errorf("failed to create Unix socket: %v", err)
	}

	return &socketConn{PacketConn: conn, path: path}, nil
}
