package serializer

import (
	"encoding/binary"

	"github.com/ValentinKolb/kvbench/rpc/common"
)

// NewBinarySerializer creates a serializer using a fixed-size binary format:
//
//	[op:1][key:4]           GET
//	[op:1][key:4][value:4]  SET
//
// Integers are big endian. It removes the text parsing from the parse phase
// and is used to measure how much of the latency the text codec costs.
func NewBinarySerializer() IRPCSerializer {
	return &binarySerializerImpl{}
}

// binarySerializerImpl implements IRPCSerializer using a custom binary format
type binarySerializerImpl struct {
}

const (
	binaryGetSize = 1 + 4
	binarySetSize = 1 + 4 + 4
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (b binarySerializerImpl) Serialize(cmd common.Command) ([]byte, error) {
	switch cmd.Op {
	case common.OpSet:
		result := make([]byte, binarySetSize)
		result[0] = byte(cmd.Op)
		binary.BigEndian.PutUint32(result[1:5], cmd.Key)
		binary.BigEndian.PutUint32(result[5:9], cmd.Value)
		return result, nil
	case common.OpGet:
		result := make([]byte, binaryGetSize)
		result[0] = byte(cmd.Op)
		binary.BigEndian.PutUint32(result[1:5], cmd.Key)
		return result, nil
	default:
		return nil, malformed("cannot serialize op %s", cmd.Op)
	}
}

func (b binarySerializerImpl) Deserialize(data []byte, cmd *common.Command) error {
	// Check minimum size (op + key)
	if len(data) < binaryGetSize {
		return malformed("data too short for header (%d bytes)", len(data))
	}

	switch op := common.OpCode(data[0]); op {
	case common.OpSet:
		if len(data) != binarySetSize {
			return malformed("SET must be %d bytes, got %d", binarySetSize, len(data))
		}
		*cmd = common.NewSetCommand(
			binary.BigEndian.Uint32(data[1:5]),
			binary.BigEndian.Uint32(data[5:9]),
		)
	case common.OpGet:
		if len(data) != binaryGetSize {
			return malformed("GET must be %d bytes, got %d", binaryGetSize, len(data))
		}
		*cmd = common.NewGetCommand(binary.BigEndian.Uint32(data[1:5]))
	default:
		return malformed("unknown op code %d", data[0])
	}
	return nil
}
