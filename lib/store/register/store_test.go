package register

import (
	"errors"
	"testing"
	"time"

	"github.com/ValentinKolb/kvbench/lib/store"
	storetesting "github.com/ValentinKolb/kvbench/lib/store/testing"
)

const testBankSize = 4096

func newSimStore(t testing.TB, readyAfterPolls int, timeout time.Duration) (store.IStore, IRegisterBank) {
	bank := NewSimulatedBank(DefaultLayout, testBankSize, storetesting.MinKeySpace, readyAfterPolls)
	s, err := NewRegisterStore(bank, Options{Layout: DefaultLayout, Timeout: timeout})
	if err != nil {
		t.Fatalf("NewRegisterStore failed: %v", err)
	}
	return s, bank
}

func Test(t *testing.T) {
	storetesting.RunStoreTests(t, "RegisterStore", func(t testing.TB) store.IStore {
		s, _ := newSimStore(t, 3, time.Second)
		return s
	})
}

func Benchmark(b *testing.B) {
	storetesting.RunStoreBenchmarks(b, "RegisterStore", func(t testing.TB) store.IStore {
		s, _ := newSimStore(t, 0, time.Second)
		return s
	})
}

// countingBank records every access to the ready register.
type countingBank struct {
	IRegisterBank
	readyPolls  int
	readyStores []uint32
}

func (b *countingBank) Load32(offset uint32) uint32 {
	if offset == DefaultLayout.Ready.Offset {
		b.readyPolls++
	}
	return b.IRegisterBank.Load32(offset)
}

func (b *countingBank) Store32(offset uint32, value uint32) {
	if offset == DefaultLayout.Ready.Offset {
		b.readyStores = append(b.readyStores, value)
	}
	b.IRegisterBank.Store32(offset, value)
}

func TestGetWaitsForReadyFlag(t *testing.T) {
	bank := &countingBank{IRegisterBank: NewSimulatedBank(DefaultLayout, testBankSize, 16, 1)}
	s, err := NewRegisterStore(bank, Options{Layout: DefaultLayout, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewRegisterStore failed: %v", err)
	}
	defer s.Close()

	if err := s.Set(7, 99); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	v, err := s.Get(7)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if v != 99 {
		t.Errorf("Get(7) = %d, want 99", v)
	}

	// first poll sees the flag low, the second one high
	if bank.readyPolls != 2 {
		t.Errorf("ready polled %d times, want 2", bank.readyPolls)
	}
	// the flag is cleared exactly once after the result was read
	if len(bank.readyStores) != 1 || bank.readyStores[0] != 0 {
		t.Errorf("ready stores = %v, want [0]", bank.readyStores)
	}
	if got := bank.IRegisterBank.Load32(DefaultLayout.Ready.Offset); got != 0 {
		t.Errorf("ready register = %d after Get, want 0", got)
	}
}

func TestSetHandshake(t *testing.T) {
	bank := NewMemoryBank(testBankSize)
	s, err := NewRegisterStore(bank, Options{Layout: DefaultLayout})
	if err != nil {
		t.Fatalf("NewRegisterStore failed: %v", err)
	}

	if err := s.Set(11, 22); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// a plain bank has no device side, so the written registers stay visible
	tests := []struct {
		reg  Register
		want uint32
	}{
		{DefaultLayout.SetKey, 11},
		{DefaultLayout.SetValue, 22},
		{DefaultLayout.WriteEnable, 1},
	}
	for _, tt := range tests {
		if got := bank.Load32(tt.reg.Offset); got != tt.want {
			t.Errorf("register %s = %d, want %d", tt.reg.Name, got, tt.want)
		}
	}
}

func TestGetDeviceTimeout(t *testing.T) {
	s, _ := newSimStore(t, -1, 20*time.Millisecond)
	defer s.Close()

	start := time.Now()
	_, err := s.Get(1)
	if !errors.Is(err, store.ErrDeviceTimeout) {
		t.Fatalf("Get error = %v, want ErrDeviceTimeout", err)
	}
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("Get returned after %s, before the timeout elapsed", elapsed)
	}
}

func TestLateAnswerAfterTimeoutIsDiscarded(t *testing.T) {
	// a plain memory bank has no device behind it, every GET times out
	bank := NewMemoryBank(testBankSize)
	s, err := NewRegisterStore(bank, Options{Layout: DefaultLayout, Timeout: time.Millisecond})
	if err != nil {
		t.Fatalf("NewRegisterStore failed: %v", err)
	}
	defer s.Close()

	if _, err := s.Get(1); !errors.Is(err, store.ErrDeviceTimeout) {
		t.Fatalf("Get(1) error = %v, want ErrDeviceTimeout", err)
	}
	if got := bank.Load32(DefaultLayout.ReadRequest.Offset); got != registerCleared {
		t.Errorf("read request = %d after timeout, want %d", got, registerCleared)
	}

	// the device answers key 1 after the store gave up
	bank.Store32(DefaultLayout.Result.Offset, 111)
	bank.Store32(DefaultLayout.Ready.Offset, registerAsserted)

	v, err := s.Get(2)
	if err == nil {
		t.Fatalf("Get(2) = %d, want ErrDeviceTimeout instead of the late answer for key 1", v)
	}
	if !errors.Is(err, store.ErrDeviceTimeout) {
		t.Errorf("Get(2) error = %v, want ErrDeviceTimeout", err)
	}
	if got := bank.Load32(DefaultLayout.Ready.Offset); got != registerCleared {
		t.Errorf("ready flag = %d after timeout, want %d", got, registerCleared)
	}
}

// droppingBank loses the first read request before it reaches the device
type droppingBank struct {
	IRegisterBank
	dropped bool
}

func (b *droppingBank) Store32(offset uint32, value uint32) {
	if offset == DefaultLayout.ReadRequest.Offset && value == registerAsserted && !b.dropped {
		b.dropped = true
		return
	}
	b.IRegisterBank.Store32(offset, value)
}

func TestGetRecoversAfterTimeout(t *testing.T) {
	bank := &droppingBank{IRegisterBank: NewSimulatedBank(DefaultLayout, testBankSize, 16, 1)}
	s, err := NewRegisterStore(bank, Options{Layout: DefaultLayout, Timeout: time.Millisecond})
	if err != nil {
		t.Fatalf("NewRegisterStore failed: %v", err)
	}
	defer s.Close()

	if err := s.Set(3, 33); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, err := s.Get(3); !errors.Is(err, store.ErrDeviceTimeout) {
		t.Fatalf("first Get error = %v, want ErrDeviceTimeout", err)
	}

	v, err := s.Get(3)
	if err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if v != 33 {
		t.Errorf("Get(3) = %d, want 33", v)
	}
}

func TestSimulatedBankWrapsKeys(t *testing.T) {
	// capacity 10 is rounded up to 16 slots
	s, err := NewRegisterStore(NewSimulatedBank(DefaultLayout, testBankSize, 10, 0), Options{Layout: DefaultLayout, Timeout: time.Second})
	if err != nil {
		t.Fatalf("NewRegisterStore failed: %v", err)
	}
	defer s.Close()

	if err := s.Set(3, 5); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if v, _ := s.Get(3 + 16); v != 5 {
		t.Errorf("Get(19) = %d, want 5 (aliases key 3)", v)
	}
}

func TestNewRegisterStoreErrors(t *testing.T) {
	misaligned := DefaultLayout
	misaligned.Ready.Offset = 25

	tests := []struct {
		name string
		bank IRegisterBank
		opts Options
	}{
		{"nil bank", nil, Options{Layout: DefaultLayout}},
		{"bank too small", NewMemoryBank(16), Options{Layout: DefaultLayout}},
		{"invalid layout", NewMemoryBank(testBankSize), Options{Layout: misaligned}},
		{"negative timeout", NewMemoryBank(testBankSize), Options{Layout: DefaultLayout, Timeout: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewRegisterStore(tt.bank, tt.opts); err == nil {
				t.Errorf("NewRegisterStore succeeded, want error")
			}
		})
	}
}

func TestCloseClosesBank(t *testing.T) {
	s, bank := newSimStore(t, 0, time.Second)
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := bank.Close(); !errors.Is(err, ErrBankClosed) {
		t.Errorf("second bank Close error = %v, want ErrBankClosed", err)
	}
}
