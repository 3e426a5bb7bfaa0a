package client

import (
	"github.com/ValentinKolb/kvbench/lib/store"
	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/serializer"
	"github.com/ValentinKolb/kvbench/rpc/transport"
)

// NewRPCStore creates a store.IStore that executes every operation on a
// remote benchmark server. It connects the transport and returns an error if
// that fails. A request that times out is not retried.
//
// The RPC store is not thread-safe; it supports one outstanding request.
func NewRPCStore(
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (store.IStore, error) {
	adapter, err := newRPCClientAdapter(config, transport, serializer)
	if err != nil {
		return nil, err
	}
	return &rpcStore{adapter}, nil
}

type rpcStore struct {
	rpcClientAdapter
}

// --------------------------------------------------------------------------
// Interface Methods (docu see the store package in interface.go)
// --------------------------------------------------------------------------

func (s *rpcStore) Set(key uint32, value uint32) error {
	_, err := s.invokeRPCRequest(common.NewSetCommand(key, value))
	return err
}

func (s *rpcStore) Get(key uint32) (uint32, error) {
	return s.invokeRPCRequest(common.NewGetCommand(key))
}

func (s *rpcStore) Name() string {
	return "rpc"
}

func (s *rpcStore) Close() error {
	return s.transport.Close()
}
