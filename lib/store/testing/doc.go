// Package testing provides standardised tests and benchmarks for storage
// backends that satisfy the store.IStore interface.
//
// The package contains:
//   - testing: A conformance suite checking that every backend presents the same logical contract
//   - benchmark: Per-operation benchmarks for comparing backends
//
// Example usage:
//
//	// Creating a factory function for your implementation
//	factory := func(t testing.TB) store.IStore {
//		s, err := NewMyStore()
//		if err != nil {
//			t.Fatal(err)
//		}
//		return s
//	}
//
//	// Running the standard test suite
//	storetesting.RunStoreTests(t, "MyStore", factory)
//
//	// Running performance benchmarks
//	storetesting.RunStoreBenchmarks(b, "MyStore", factory)
package testing
