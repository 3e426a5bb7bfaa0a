package array

import (
	"fmt"
	"github.com/ValentinKolb/kvbench/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

const (
	// DefaultCapacity matches the size of the device region (64 KiB keys)
	DefaultCapacity = 64 * 1024
	// MaxCapacity bounds the allocation to one slot per representable key
	// of a 24 bit key space (64 MiB of slots).
	MaxCapacity = 1 << 24
)

type storeImpl struct {
	slots []uint32
}

// NewArrayStore creates a new array backend with one pre-allocated value slot
// per key in [0, capacity). No allocation happens after construction.
// Keys at or beyond the capacity are rejected with store.ErrKeyOutOfRange.
func NewArrayStore(capacity int) (store.IStore, error) {
	if capacity <= 0 || capacity > MaxCapacity {
		return nil, fmt.Errorf("invalid array capacity %d (must be in 1..%d)", capacity, MaxCapacity)
	}

	Logger.Infof("allocated array backend with %d slots (%d bytes)", capacity, capacity*store.ValueWidth)

	return &storeImpl{
		slots: make([]uint32, capacity),
	}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

func (s *storeImpl) Set(key uint32, value uint32) error {
	if uint64(key) >= uint64(len(s.slots)) {
		return s.outOfRange(key)
	}
	s.slots[key] = value
	return nil
}

func (s *storeImpl) Get(key uint32) (uint32, error) {
	if uint64(key) >= uint64(len(s.slots)) {
		return 0, s.outOfRange(key)
	}
	return s.slots[key], nil
}

func (s *storeImpl) Name() string {
	return "array"
}

func (s *storeImpl) Close() error {
	s.slots = nil
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

func (s *storeImpl) outOfRange(key uint32) error {
	return store.NewError(store.RetCKeyOutOfRange, fmt.Sprintf("key %d is out of range (capacity %d)", key, len(s.slots)))
}
