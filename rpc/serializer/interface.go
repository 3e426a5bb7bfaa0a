package serializer

import (
	"errors"
	"fmt"

	"github.com/ValentinKolb/kvbench/rpc/common"
)

// ErrMalformedCommand is returned by Deserialize for any request that is not
// a valid SET or GET command.
var ErrMalformedCommand = errors.New("malformed command")

// IRPCSerializer is the interface for all request codecs
type IRPCSerializer interface {
	// Serialize encodes a Command into its wire representation
	// It returns the encoded bytes and an error if the command is invalid
	Serialize(cmd common.Command) ([]byte, error)
	// Deserialize decodes a wire request into a Command
	// Any invalid input yields an error wrapping ErrMalformedCommand
	Deserialize(b []byte, cmd *common.Command) error
}

const (
	SerializerText   = "text"
	SerializerBinary = "binary"
)

// NewSerializer returns the serializer registered under name
func NewSerializer(name string) (IRPCSerializer, error) {
	switch name {
	case SerializerText:
		return NewTextSerializer(), nil
	case SerializerBinary:
		return NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("unknown serializer %q, must be one of text, binary", name)
	}
}

// malformed wraps ErrMalformedCommand with details about the input
func malformed(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrMalformedCommand, fmt.Sprintf(format, args...))
}
