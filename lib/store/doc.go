// Package store defines the storage backend contract of the benchmark server.
// A backend maps an unsigned 32-bit key to a fixed-width (4 byte) value slot and
// executes the SET and GET commands decoded from the wire.
//
// The package focuses on:
//   - A unified interface (IStore) over two radically different storage media
//   - A structured error type with return codes, shared by all backends
//
// Key Components:
//
//   - IStore Interface: Set, Get, Name and Close. Every backend presents the same
//     logical contract, so the request processor dispatches without knowing which
//     medium it is talking to.
//
//   - Error System: Errors carry a RetCode. The two named conditions
//     ErrKeyOutOfRange and ErrDeviceTimeout can be matched with errors.Is and are
//     mapped to response status codes by the server.
//
// Implementations:
//
//   - Array Store (array): a pre-allocated slice of value slots, one per key up to
//     a configured capacity. Keys at or beyond the capacity are rejected with
//     ErrKeyOutOfRange. Available in the "github.com/ValentinKolb/kvbench/lib/store/array" package.
//
//   - Register Store (register): a request/response handshake against a
//     memory-mapped register bank of an external accelerator. GET polls a ready
//     flag and fails with ErrDeviceTimeout when the configured bound elapses.
//     Available in the "github.com/ValentinKolb/kvbench/lib/store/register" package.
//
// Neither implementation is durable. Data lives for the lifetime of the process
// (array) or of the device (register).
package store
