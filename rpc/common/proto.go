package common

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ValentinKolb/kvbench/lib/store"
)

// --------------------------------------------------------------------------
// Command Structure
// --------------------------------------------------------------------------

// Command is a single decoded request.
type Command struct {
	// Op selects the operation
	Op OpCode
	// Key addresses the value slot. The codec does not range check it.
	Key uint32
	// Value is the value to write. Only used for SET.
	Value uint32
	// ValueLen is the number of value bytes the command carries in the
	// response payload (store.ValueWidth for SET, 0 for GET).
	ValueLen int
}

// NewSetCommand creates a SET command
func NewSetCommand(key, value uint32) Command {
	return Command{
		Op:       OpSet,
		Key:      key,
		Value:    value,
		ValueLen: store.ValueWidth,
	}
}

// NewGetCommand creates a GET command
func NewGetCommand(key uint32) Command {
	return Command{
		Op:  OpGet,
		Key: key,
	}
}

func (c Command) String() string {
	if c.Op == OpSet {
		return fmt.Sprintf("%s:%d:%d", c.Op, c.Key, c.Value)
	}
	return fmt.Sprintf("%s:%d", c.Op, c.Key)
}

// --------------------------------------------------------------------------
// Op Codes
// --------------------------------------------------------------------------

type OpCode uint8

const (
	OpUnknown OpCode = iota
	OpSet            // Write a value into a slot
	OpGet            // Read the value of a slot
)

// String returns the wire token of the op code.
func (o OpCode) String() string {
	switch o {
	case OpSet:
		return "SET"
	case OpGet:
		return "GET"
	default:
		return "UNKNOWN"
	}
}

// ParseOpCode parses an op code name in any case ("set", "Get", ...). It is
// meant for user input on the client side; the wire decoder only accepts the
// upper case tokens.
func ParseOpCode(name string) (OpCode, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "SET":
		return OpSet, nil
	case "GET":
		return OpGet, nil
	default:
		return OpUnknown, fmt.Errorf("unknown operation %q, must be one of set, get", name)
	}
}

// --------------------------------------------------------------------------
// Response Status
// --------------------------------------------------------------------------

// Status is carried in the response frame next to the value.
type Status uint8

const (
	StatusOK               Status = iota // 0: command executed
	StatusMalformed                      // 1: request could not be decoded
	StatusKeyOutOfRange                  // 2: key outside of the backend capacity
	StatusDeviceTimeout                  // 3: device did not answer in time
	StatusInternalError                  // 4: any other backend failure
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusMalformed:
		return "malformed"
	case StatusKeyOutOfRange:
		return "key out of range"
	case StatusDeviceTimeout:
		return "device timeout"
	case StatusInternalError:
		return "internal error"
	default:
		return fmt.Sprintf("status(%d)", uint8(s))
	}
}

// StatusFromError maps a backend error to the status sent to the client.
func StatusFromError(err error) Status {
	if err == nil {
		return StatusOK
	}
	var storeErr *store.Error
	if !errors.As(err, &storeErr) {
		return StatusInternalError
	}
	switch storeErr.Code {
	case store.RetCSuccess:
		return StatusOK
	case store.RetCKeyOutOfRange:
		return StatusKeyOutOfRange
	case store.RetCDeviceTimeout:
		return StatusDeviceTimeout
	default:
		return StatusInternalError
	}
}

// Err converts a non-ok status back into an error, so that a client can match
// it with errors.Is against the store errors.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusKeyOutOfRange:
		return store.ErrKeyOutOfRange
	case StatusDeviceTimeout:
		return store.ErrDeviceTimeout
	default:
		return fmt.Errorf("server returned status %s", s)
	}
}

// --------------------------------------------------------------------------
// Response Frame
// --------------------------------------------------------------------------

const (
	// DefaultFrameSize is the size of a response datagram. It is oversized
	// relative to the payload but kept for compatibility with existing clients.
	DefaultFrameSize = 256
	// MinFrameSize is the smallest frame that holds the value and the status.
	MinFrameSize = store.ValueWidth + 1
)
