package server

import (
	"github.com/ValentinKolb/kvbench/lib/store"
	"github.com/ValentinKolb/kvbench/rpc/common"
	"github.com/ValentinKolb/kvbench/rpc/serializer"
)

func NewIStoreServerAdapter() IRPCServerAdapter {
	return &iStoreServerAdapterImpl{}
}

type iStoreServerAdapterImpl struct{}

func (adapter *iStoreServerAdapterImpl) Handle(cmd *common.Command, s store.IStore) serializer.Response {
	// Check for nil store
	if s == nil {
		return serializer.Response{Status: common.StatusInternalError}
	}

	switch cmd.Op {
	case common.OpSet:
		// SET echoes the written value
		err := s.Set(cmd.Key, cmd.Value)
		return respond(cmd.Value, err)
	case common.OpGet:
		val, err := s.Get(cmd.Key)
		return respond(val, err)
	default:
		return serializer.Response{Status: common.StatusMalformed}
	}
}

func respond(value uint32, err error) serializer.Response {
	if err != nil {
		return serializer.Response{Status: common.StatusFromError(err)}
	}
	return serializer.Response{Value: value, Status: common.StatusOK}
}
