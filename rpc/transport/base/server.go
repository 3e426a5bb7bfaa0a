package base

import (
	"errors"
	"fmt"
	"net"
	"sync/atomic"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/transport"
)

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IServerConnector defines the interface for transport-specific server operations
type IServerConnector interface {
	// Listen creates the packet socket and returns it
	Listen(config common.ServerConfig) (net.PacketConn, error)

	// GetName returns the name of the transport type (e.g., "unix", "udp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// serverTransport implements the core server transport functionality
type serverTransport struct {
	connector IServerConnector
	conn      net.PacketConn
	closed    atomic.Bool
}

// -----------------------------------------------------------
// Transport Factory Method (used for udp, unix)
// -----------------------------------------------------------

// NewBaseServerTransport creates a new base server transport with the specified connector
func NewBaseServerTransport(connector IServerConnector) transport.IRPCServerTransport {
	return &serverTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCServerTransport)
// --------------------------------------------------------------------------

func (t *serverTransport) Listen(config common.ServerConfig) error {
	if t.conn != nil {
		return fmt.Errorf("%s transport is already listening on %s", t.connector.GetName(), t.conn.LocalAddr())
	}

	conn, err := t.connector.Listen(config)
	if err != nil {
		return fmt.Errorf("failed to create %s socket: %w", t.connector.GetName(), err)
	}
	t.conn = conn

	Logger.Infof("Listening for %s datagrams on %s", t.connector.GetName(), conn.LocalAddr())
	return nil
}

func (t *serverTransport) Receive(buf []byte) (int, net.Addr, error) {
	if t.conn == nil {
		return 0, nil, fmt.Errorf("transport is not listening")
	}
	n, peer, err := t.conn.ReadFrom(buf)
	if err != nil {
		if t.closed.Load() || errors.Is(err, net.ErrClosed) {
			return 0, nil, transport.ErrClosed
		}
		return 0, nil, err
	}
	return n, peer, nil
}

func (t *serverTransport) Reply(peer net.Addr, resp []byte) error {
	if t.conn == nil {
		return fmt.Errorf("transport is not listening")
	}
	if _, err := t.conn.WriteTo(resp, peer); err != nil {
		if errors.Is(err, net.ErrClosed) {
			return transport.ErrClosed
		}
		return err
	}
	return nil
}

func (t *serverTransport) Addr() net.Addr {
	if t.conn == nil {
		return nil
	}
	return t.conn.LocalAddr()
}

func (t *serverTransport) Close() error {
	if t.conn == nil || !t.closed.CompareAndSwap(false, true) {
		return nil
	}
	Logger.Infof("Closing %s transport on %s", t.connector.GetName(), t.conn.LocalAddr())
	return t.conn.Close()
}
