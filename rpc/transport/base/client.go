package base

import (
	"fmt"
	"net"
	"time"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("transport/rpc")

// drainWindow is how long Drain waits for late datagrams. The runtime does
// not attempt a read once a deadline has passed, so a zero window would
// never see queued datagrams.
const drainWindow = time.Millisecond

// -----------------------------------------------------------
// Interface Definitions for dependency injection
// -----------------------------------------------------------

// IClientConnector defines the interface for transport-specific connection operations
type IClientConnector interface {
	// Connect binds the local socket and resolves the server address
	Connect(config common.ClientConfig) (conn net.PacketConn, server net.Addr, err error)

	// GetName returns the name of the transport type (e.g., "unix", "udp")
	GetName() string
}

// -----------------------------------------------------------
// Helper Types
// -----------------------------------------------------------

// clientTransport implements the core client transport functionality
// independent of the specific transport medium (unix, udp)
type clientTransport struct {
	connector IClientConnector
	conn      net.PacketConn
	server    net.Addr
	stray     uint64 // datagrams from peers other than the server
}

// -----------------------------------------------------------
// Transport Factory Method (used for udp, unix)
// -----------------------------------------------------------

// NewBaseClientTransport creates a new base client transport with the specified connector
func NewBaseClientTransport(connector IClientConnector) transport.IRPCClientTransport {
	return &clientTransport{
		connector: connector,
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docu see transport.IRPCClientTransport)
// --------------------------------------------------------------------------

func (t *clientTransport) Connect(config common.ClientConfig) error {
	if t.conn != nil {
		return fmt.Errorf("%s transport is already connected", t.connector.GetName())
	}

	conn, server, err := t.connector.Connect(config)
	if err != nil {
		return fmt.Errorf("failed to connect %s transport to %s: %w", t.connector.GetName(), config.Endpoint, err)
	}
	t.conn = conn
	t.server = server

	Logger.Infof("Connected %s transport %s -> %s", t.connector.GetName(), conn.LocalAddr(), server)
	return nil
}

func (t *clientTransport) Send(req []byte) error {
	if t.conn == nil {
		return transport.ErrClosed
	}
	if _, err := t.conn.WriteTo(req, t.server); err != nil {
		return mapError(err)
	}
	return nil
}

func (t *clientTransport) Receive(buf []byte, timeout time.Duration) (int, error) {
	if t.conn == nil {
		return 0, transport.ErrClosed
	}
	if err := t.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return 0, fmt.Errorf("failed to set read deadline: %w", err)
	}

	for {
		n, peer, err := t.conn.ReadFrom(buf)
		if err != nil {
			return 0, mapError(err)
		}
		if !sameAddr(peer, t.server) {
			t.stray++
			Logger.Debugf("Dropped datagram from unexpected peer %s (%d so far)", peer, t.stray)
			continue
		}
		return n, nil
	}
}

func (t *clientTransport) Drain() int {
	if t.conn == nil {
		return 0
	}
	if err := t.conn.SetReadDeadline(time.Now().Add(drainWindow)); err != nil {
		return 0
	}

	buf := make([]byte, common.DefaultFrameSize)
	drained := 0
	for {
		if _, _, err := t.conn.ReadFrom(buf); err != nil {
			break
		}
		drained++
	}
	if drained > 0 {
		Logger.Debugf("Drained %d late datagrams", drained)
	}
	return drained
}

func (t *clientTransport) Addr() net.Addr {
	if t.conn == nil {
		return nil
	}
	return t.conn.LocalAddr()
}

func (t *clientTransport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}
