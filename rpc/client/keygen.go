package client

import (
	"github.com/ValentinKolb/kvbench/rpc/common"
)

// DefaultKeySpace is the number of distinct keys a client cycles through
const DefaultKeySpace = 16384

// KeyGenerator builds the commands of a benchmark run. Its key counter
// advances by one per command and wraps to 0 at the key space, independent of
// the capacity of the server backend. SET commands write the key as value, so
// a later GET of the same key can be verified.
type KeyGenerator struct {
	op       common.OpCode
	keySpace uint32
	next     uint32
}

// NewKeyGenerator creates a generator for op over keys [0, keySpace).
// A zero key space uses DefaultKeySpace.
func NewKeyGenerator(op common.OpCode, keySpace uint32) *KeyGenerator {
	if keySpace == 0 {
		keySpace = DefaultKeySpace
	}
	return &KeyGenerator{op: op, keySpace: keySpace}
}

// Next returns the next command and advances the key counter
func (g *KeyGenerator) Next() common.Command {
	key := g.next
	g.next++
	if g.next >= g.keySpace {
		g.next = 0
	}

	if g.op == common.OpSet {
		return common.NewSetCommand(key, ExpectedValue(key))
	}
	return common.NewGetCommand(key)
}

// ExpectedValue is the value the generator writes for key
func ExpectedValue(key uint32) uint32 {
	return key
}
