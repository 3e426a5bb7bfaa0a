package register

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/kvbench/lib/store"
	"github.com/lni/dragonboat/v4/logger"
)

var Logger = logger.GetLogger("store")

const (
	// DefaultDevicePath is the write-combining BAR0 resource of the reference accelerator
	DefaultDevicePath = "/sys/bus/pci/devices/0000:b3:00.0/resource0_wc"
	// DefaultDeviceSize is the size of the mapped register region
	DefaultDeviceSize = 64 * 1024
	// DefaultTimeout bounds the ready-flag polling of a single GET
	DefaultTimeout = time.Second

	// clockCheckInterval is the number of polls between two deadline checks,
	// so the busy-wait does not read the clock on every iteration.
	clockCheckInterval = 64

	registerAsserted = 1
	registerCleared  = 0
)

// Options configure the register store.
type Options struct {
	// Layout is the register map of the device.
	Layout Layout
	// Timeout bounds the polling of the ready flag. Zero disables the bound
	// and polls forever.
	Timeout time.Duration
}

type storeImpl struct {
	bank    IRegisterBank
	layout  Layout
	timeout time.Duration

	// set after a timed out GET; the device may still raise the ready flag
	// for the abandoned request
	abandoned bool
}

// NewRegisterStore creates a store that executes commands through the
// register handshake of an accelerator mapped into bank. The store takes
// ownership of the bank and closes it on Close.
func NewRegisterStore(bank IRegisterBank, opts Options) (store.IStore, error) {
	if bank == nil {
		return nil, fmt.Errorf("register store: bank is nil")
	}
	if err := opts.Layout.Validate(bank.Size()); err != nil {
		return nil, err
	}
	if opts.Timeout < 0 {
		return nil, fmt.Errorf("register store: negative timeout %s", opts.Timeout)
	}

	if opts.Timeout == 0 {
		Logger.Warningf("register backend polls without timeout, an unresponsive device hangs the server")
	}
	Logger.Infof("register backend ready (bank %d bytes, poll timeout %s)", bank.Size(), opts.Timeout)

	return &storeImpl{
		bank:    bank,
		layout:  opts.Layout,
		timeout: opts.Timeout,
	}, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docu see store/interface.go)
// --------------------------------------------------------------------------

// Set writes key and value and then asserts write-enable. The device does not
// acknowledge writes.
func (s *storeImpl) Set(key uint32, value uint32) error {
	s.bank.Store32(s.layout.SetKey.Offset, key)
	s.bank.Store32(s.layout.SetValue.Offset, value)
	s.bank.Store32(s.layout.WriteEnable.Offset, registerAsserted)
	return nil
}

// Get runs the read handshake:
//
//	Idle -> RequestIssued -> Polling -> ReadyObserved -> ValueRead -> FlagCleared -> Idle
//
// Polling is a busy-wait without yielding. It trades one fully used core for
// the lowest possible reaction time to the ready flag.
func (s *storeImpl) Get(key uint32) (uint32, error) {
	// a late answer to an abandoned request must not be taken for this one
	if s.abandoned {
		s.bank.Store32(s.layout.Ready.Offset, registerCleared)
		s.abandoned = false
	}

	// RequestIssued
	s.bank.Store32(s.layout.GetKey.Offset, key)
	s.bank.Store32(s.layout.ReadRequest.Offset, registerAsserted)

	// Polling
	if err := s.awaitReady(); err != nil {
		s.abandonRequest()
		return 0, err
	}

	// ReadyObserved -> ValueRead
	value := s.bank.Load32(s.layout.Result.Offset)

	// FlagCleared (acknowledge)
	s.bank.Store32(s.layout.Ready.Offset, registerCleared)

	return value, nil
}

func (s *storeImpl) Name() string {
	return "register"
}

func (s *storeImpl) Close() error {
	return s.bank.Close()
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// abandonRequest withdraws a GET that timed out. The ready flag is cleared
// now and again before the next request, since the device can still answer
// in between.
func (s *storeImpl) abandonRequest() {
	s.bank.Store32(s.layout.ReadRequest.Offset, registerCleared)
	s.bank.Store32(s.layout.Ready.Offset, registerCleared)
	s.abandoned = true
}

// awaitReady spins on the ready flag until the device signals 1 or the
// timeout elapses.
func (s *storeImpl) awaitReady() error {
	ready := s.layout.Ready.Offset
	mask := s.layout.ReadyMask

	// no bound, spin until the device answers
	if s.timeout == 0 {
		for s.bank.Load32(ready)&mask != registerAsserted {
		}
		return nil
	}

	start := time.Now()
	for polls := uint64(1); ; polls++ {
		if s.bank.Load32(ready)&mask == registerAsserted {
			return nil
		}
		if polls%clockCheckInterval == 0 && time.Since(start) >= s.timeout {
			return store.NewError(store.RetCDeviceTimeout,
				fmt.Sprintf("ready flag not raised after %d polls (%s)", polls, s.timeout))
		}
	}
}
