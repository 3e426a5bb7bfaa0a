package testing

import (
	"math"
	"testing"

	"github.com/ValentinKolb/kvbench/lib/store"
)

// StoreFactory is a function that creates a new instance of a store.IStore implementation.
// Every store created by the factory must accept keys in [0, MinKeySpace).
type StoreFactory func(t testing.TB) store.IStore

// MinKeySpace is the number of keys the suite expects a store to accept.
const MinKeySpace = 1024

// RunStoreTests runs the backend conformance suite for a store.IStore implementation.
func RunStoreTests(t *testing.T, name string, factory StoreFactory) {
	t.Run(name, func(t *testing.T) {
		t.Run("Set&Get", func(t *testing.T) {
			testSetGet(t, factory(t))
		})

		t.Run("Overwrite", func(t *testing.T) {
			testOverwrite(t, factory(t))
		})

		t.Run("UnwrittenReadsZero", func(t *testing.T) {
			testUnwrittenReadsZero(t, factory(t))
		})

		t.Run("BoundaryValues", func(t *testing.T) {
			testBoundaryValues(t, factory(t))
		})

		t.Run("ManyKeys", func(t *testing.T) {
			testManyKeys(t, factory(t))
		})

		t.Run("Name", func(t *testing.T) {
			testName(t, factory(t))
		})
	})
}

// --------------------------------------------------------------------------
// Test functions
// --------------------------------------------------------------------------

func testSetGet(t *testing.T, s store.IStore) {
	defer s.Close()

	if err := s.Set(5, 42); err != nil {
		t.Fatalf("Set(5, 42) returned error: %v", err)
	}

	value, err := s.Get(5)
	if err != nil {
		t.Fatalf("Get(5) returned error: %v", err)
	}
	if value != 42 {
		t.Errorf("Expected value 42 for key 5, got %d", value)
	}
}

func testOverwrite(t *testing.T, s store.IStore) {
	defer s.Close()

	for _, v := range []uint32{1, 2, 3} {
		if err := s.Set(7, v); err != nil {
			t.Fatalf("Set(7, %d) returned error: %v", v, err)
		}
	}

	value, err := s.Get(7)
	if err != nil {
		t.Fatalf("Get(7) returned error: %v", err)
	}
	if value != 3 {
		t.Errorf("Expected last written value 3, got %d", value)
	}
}

func testUnwrittenReadsZero(t *testing.T, s store.IStore) {
	defer s.Close()

	value, err := s.Get(MinKeySpace - 1)
	if err != nil {
		t.Fatalf("Get of unwritten key returned error: %v", err)
	}
	if value != 0 {
		t.Errorf("Expected unwritten key to read as 0, got %d", value)
	}
}

func testBoundaryValues(t *testing.T, s store.IStore) {
	defer s.Close()

	tests := []struct {
		key   uint32
		value uint32
	}{
		{0, 0},
		{0, math.MaxUint32},
		{1, 1},
		{MinKeySpace - 1, math.MaxUint32 - 1},
	}

	for _, tt := range tests {
		if err := s.Set(tt.key, tt.value); err != nil {
			t.Fatalf("Set(%d, %d) returned error: %v", tt.key, tt.value, err)
		}
		got, err := s.Get(tt.key)
		if err != nil {
			t.Fatalf("Get(%d) returned error: %v", tt.key, err)
		}
		if got != tt.value {
			t.Errorf("Get(%d) = %d, want %d", tt.key, got, tt.value)
		}
	}
}

func testManyKeys(t *testing.T, s store.IStore) {
	defer s.Close()

	for k := uint32(0); k < MinKeySpace; k++ {
		if err := s.Set(k, k*3+1); err != nil {
			t.Fatalf("Set(%d) returned error: %v", k, err)
		}
	}

	for k := uint32(0); k < MinKeySpace; k++ {
		got, err := s.Get(k)
		if err != nil {
			t.Fatalf("Get(%d) returned error: %v", k, err)
		}
		if got != k*3+1 {
			t.Errorf("Get(%d) = %d, want %d", k, got, k*3+1)
		}
	}
}

func testName(t *testing.T, s store.IStore) {
	defer s.Close()

	if s.Name() == "" {
		t.Errorf("Expected a non-empty backend name")
	}
}
