package server

import (
	"github.com/ValentinKolb/kvbench/lib/store"
	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/serializer"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It dispatches a decoded command to a store
type IRPCServerAdapter interface {
	// Handle executes a command against store and returns the response
	// Backend failures are reported through the response status, Handle
	// itself never fails
	Handle(cmd *common.Command, store store.IStore) serializer.Response
}
