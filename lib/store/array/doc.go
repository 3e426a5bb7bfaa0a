// Package array implements the in-process storage backend of the benchmark
// server: a pre-allocated slice of 4 byte value slots, one per key up to a
// configured capacity.
//
// Implementation Details:
//
//   - Allocation: all slots are allocated once by NewArrayStore. Set and Get
//     index directly into the slice and never allocate.
//
//   - Bounds: a key at or beyond the capacity is rejected with
//     store.ErrKeyOutOfRange. The store never wraps keys silently.
//
// Thread Safety:
//
//	The array store is not thread-safe. The request processor is the only
//	caller and handles one request at a time.
package array
