package server

import (
	"fmt"

	"github.com/ValentinKolb/kvbench/lib/store"
	"github.com/ValentinKolb/kvbench/lib/store/array"
	"github.com/ValentinKolb/kvbench/lib/store/register"
	"github.com/ValentinKolb/kvbench/rpc/common"
)

// NewStore creates the storage backend selected by the configuration. The
// choice is made once at startup; the processor never switches backends.
func NewStore(config common.ServerConfig) (store.IStore, error) {
	switch config.Backend {
	case common.BackendArray:
		return array.NewArrayStore(config.Capacity)

	case common.BackendRegister:
		bank, err := register.OpenDevice(config.DevicePath, config.DeviceSize)
		if err != nil {
			return nil, err
		}
		s, err := register.NewRegisterStore(bank, register.Options{
			Layout:  register.DefaultLayout,
			Timeout: config.DeviceTimeout,
		})
		if err != nil {
			_ = bank.Close()
			return nil, err
		}
		return s, nil

	case common.BackendSim:
		size := config.DeviceSize
		if size == 0 {
			size = register.DefaultDeviceSize
		}
		bank := register.NewSimulatedBank(register.DefaultLayout, size, uint32(config.Capacity), config.SimReadyPolls)
		Logger.Infof("simulated device with %d slots, ready after %d polls", config.Capacity, config.SimReadyPolls)
		return register.NewRegisterStore(bank, register.Options{
			Layout:  register.DefaultLayout,
			Timeout: config.DeviceTimeout,
		})

	default:
		return nil, fmt.Errorf("invalid backend: %s", config.Backend)
	}
}
