package udp

import (
	"fmt"
	"net"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/transport"
	"github.com/ValentinKolb/kvbench/rpc/transport/base"
)

// serverConnector implements the IServerConnector interface for UDP sockets
type serverConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IServerConnector)
// --------------------------------------------------------------------------

func (c *serverConnector) GetName() string {
	return "udp"
}

func (c *serverConnector) Listen(config common.ServerConfig) (net.PacketConn, error) {
	addr, err := net.ResolveUDPAddr("udp", config.Endpoint)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", config.Endpoint, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return nil, err
	}

	if err := upgradeConnection(conn, config.SocketBuffer); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return conn, nil
}

// --------------------------------------------------------------------------
// Server Transport Factory Method
// --------------------------------------------------------------------------

// NewUDPServerTransport creates a new UDP server transport
func NewUDPServerTransport() transport.IRPCServerTransport {
	return base.NewBaseServerTransport(&serverConnector{})
}
