package store

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// ValueWidth is the width of a value slot in bytes. Every backend stores
// exactly this many bytes per key.
const ValueWidth = 4

// IStore is the contract shared by all storage backends. A key maps to a
// single fixed-width (4 byte) value slot. Both backends present the same
// logical behaviour: a Get after a Set of the same key returns the stored value.
//
// Implementations are not safe for concurrent use. The request processor is
// the only caller and handles exactly one request at a time.
type IStore interface {
	// Set writes value into the slot for key.
	Set(key uint32, value uint32) (err error)
	// Get reads the value stored in the slot for key.
	// A key that was never written reads as zero.
	Get(key uint32) (value uint32, err error)
	// Name returns the backend name used in logs and metrics (e.g. "array").
	Name() string
	// Close releases the underlying memory or device mapping.
	// The store must not be used after Close.
	Close() error
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("StoreError (code %s): %s", e.Code, e.Msg)
}

// Is reports whether target is a *Error with the same return code, so that
// errors.Is(err, store.ErrKeyOutOfRange) matches any out of range error
// independent of its message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// NewError creates a new store error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

var (
	// ErrKeyOutOfRange is returned by backends with a fixed capacity when a key
	// is at or beyond that capacity.
	ErrKeyOutOfRange = NewError(RetCKeyOutOfRange, "key out of range")
	// ErrDeviceTimeout is returned when a hardware backend does not signal a
	// result within the configured bound.
	ErrDeviceTimeout = NewError(RetCDeviceTimeout, "device timeout")
)

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess       RetCode = iota // 0: Command executed successfully.
	RetCInternalError                // 1: Command failed due to an internal error.
	RetCKeyOutOfRange                // 2: Key is outside the capacity of the backend.
	RetCDeviceTimeout                // 3: The device did not answer in time.
)

// String returns the string representation of a RetCode.
func (c RetCode) String() string {
	switch c {
	case RetCSuccess:
		return "Success"
	case RetCInternalError:
		return "InternalError"
	case RetCKeyOutOfRange:
		return "KeyOutOfRange"
	case RetCDeviceTimeout:
		return "DeviceTimeout"
	default:
		return "Unknown"
	}
}
