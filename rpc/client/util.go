package client

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/serializer"
	"github.com/ValentinKolb/kvbench/rpc/transport"
	"github.com/lni/dragonboat/v4/logger"
)

var (
	Logger = logger.GetLogger("bench")
)

// rpcClientAdapter is a struct that stores all data needed for an RPC client
// Used by the RPCStore and the LoadGenerator with composition pattern
type rpcClientAdapter struct {
	config     common.ClientConfig
	transport  transport.IRPCClientTransport
	serializer serializer.IRPCSerializer
	respBuf    []byte

	// set after a receive timed out, the next request drains late responses first
	pendingLate bool
}

func newRPCClientAdapter(
	config common.ClientConfig,
	t transport.IRPCClientTransport,
	ser serializer.IRPCSerializer,
) (rpcClientAdapter, error) {
	if t == nil || ser == nil {
		return rpcClientAdapter{}, fmt.Errorf("transport and serializer are required")
	}
	if config.FrameSize < common.MinFrameSize {
		config.FrameSize = common.DefaultFrameSize
	}

	// Connect the transport
	if err := t.Connect(config); err != nil {
		return rpcClientAdapter{}, err
	}

	return rpcClientAdapter{
		config:     config,
		transport:  t,
		serializer: ser,
		respBuf:    make([]byte, config.FrameSize),
	}, nil
}

// drainLate discards responses to requests that already timed out. It
// returns the number of discarded datagrams.
func (a *rpcClientAdapter) drainLate() int {
	if !a.pendingLate {
		return 0
	}
	a.pendingLate = false
	return a.transport.Drain()
}

// send serializes cmd and sends it
func (a *rpcClientAdapter) send(cmd common.Command) (int, error) {
	req, err := a.serializer.Serialize(cmd)
	if err != nil {
		return 0, err
	}
	if err := a.transport.Send(req); err != nil {
		return 0, err
	}
	return len(req), nil
}

// receive waits for the response frame of the outstanding request
func (a *rpcClientAdapter) receive() (serializer.Response, error) {
	n, err := a.transport.Receive(a.respBuf, a.config.Timeout)
	if err != nil {
		if errors.Is(err, transport.ErrTimeout) {
			a.pendingLate = true
		}
		return serializer.Response{}, err
	}
	return serializer.DecodeResponse(a.respBuf[:n])
}

// invokeRPCRequest is a helper function used for all RPC Clients to send requests
// It sends cmd, waits for the response and converts a non-ok status to an error
func (a *rpcClientAdapter) invokeRPCRequest(cmd common.Command) (uint32, error) {
	a.drainLate()

	if _, err := a.send(cmd); err != nil {
		return 0, err
	}

	resp, err := a.receive()
	if err != nil {
		return 0, err
	}

	if err := resp.Status.Err(); err != nil {
		return 0, fmt.Errorf("%s: %w", cmd, err)
	}
	return resp.Value, nil
}
