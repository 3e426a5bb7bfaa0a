package udp

import (
	"fmt"
	"net"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/transport"
	"github.com/ValentinKolb/kvbench/rpc/transport/base"
)

// clientConnector implements the IClientConnector interface for UDP sockets
type clientConnector struct{}

// --------------------------------------------------------------------------
// Interface Methods (docu see base.IClientConnector)
// --------------------------------------------------------------------------

func (c *clientConnector) GetName() string {
	return "udp"
}

func (c *clientConnector) Connect(config common.ClientConfig) (net.PacketConn, net.Addr, error) {
	server, err := net.ResolveUDPAddr("udp", config.Endpoint)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve server %s: %w", config.Endpoint, err)
	}

	local, err := net.ResolveUDPAddr("udp", config.Bind)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve bind address %s: %w", config.Bind, err)
	}

	conn, err := net.ListenUDP("udp", local)
	if err != nil {
		return nil, nil, err
	}

	if err := upgradeConnection(conn, config.SocketBuffer); err != nil {
		_ = conn.Close()
		return nil, nil, err
	}
	return conn, server, nil
}

// --------------------------------------------------------------------------
// Client Transport Factory Method
// --------------------------------------------------------------------------

// NewUDPClientTransport creates a new UDP client transport
func NewUDPClientTransport() transport.IRPCClientTransport {
	return base.NewBaseClientTransport(&clientConnector{})
}
