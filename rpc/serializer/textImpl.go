package serializer

import (
	"strconv"
	"strings"

	"github.com/ValentinKolb/kvbench/rpc/common"
)

// NewTextSerializer creates the serializer for the ASCII request format
//
//	SET:<key>:<value>
//	GET:<key>
//
// Numbers are unsigned base-10 integers that fit into 32 bits. Opcodes are
// upper case. The colon is a literal delimiter, there is no escaping.
func NewTextSerializer() IRPCSerializer {
	return &textSerializerImpl{}
}

type textSerializerImpl struct {
}

const (
	textDelimiter = ":"
	// padding some clients send after the request text
	textTrailer = "\x00\r\n "
)

// --------------------------------------------------------------------------
// Interface Methods (docu see serializer.IRPCSerializer)
// --------------------------------------------------------------------------

func (t textSerializerImpl) Serialize(cmd common.Command) ([]byte, error) {
	// "SET:" + two uint32 + delimiter
	buf := make([]byte, 0, 4+10+1+10)

	switch cmd.Op {
	case common.OpSet:
		buf = append(buf, "SET"+textDelimiter...)
		buf = strconv.AppendUint(buf, uint64(cmd.Key), 10)
		buf = append(buf, textDelimiter...)
		buf = strconv.AppendUint(buf, uint64(cmd.Value), 10)
	case common.OpGet:
		buf = append(buf, "GET"+textDelimiter...)
		buf = strconv.AppendUint(buf, uint64(cmd.Key), 10)
	default:
		return nil, malformed("cannot serialize op %s", cmd.Op)
	}
	return buf, nil
}

func (t textSerializerImpl) Deserialize(b []byte, cmd *common.Command) error {
	s := strings.TrimRight(string(b), textTrailer)
	if s == "" {
		return malformed("empty request")
	}

	op, rest, _ := strings.Cut(s, textDelimiter)
	switch op {
	case "SET":
		keyTok, valueTok, ok := strings.Cut(rest, textDelimiter)
		if !ok {
			return malformed("SET requires a key and a value: %q", s)
		}
		key, err := parseToken("key", keyTok)
		if err != nil {
			return err
		}
		value, err := parseToken("value", valueTok)
		if err != nil {
			return err
		}
		*cmd = common.NewSetCommand(key, value)

	case "GET":
		key, err := parseToken("key", rest)
		if err != nil {
			return err
		}
		*cmd = common.NewGetCommand(key)

	default:
		return malformed("unknown opcode %q", op)
	}
	return nil
}

// --------------------------------------------------------------------------
// Helper
// --------------------------------------------------------------------------

// parseToken parses an unsigned 32 bit decimal. ParseUint rejects signs,
// whitespace, overflow and further delimiters.
func parseToken(name, tok string) (uint32, error) {
	if tok == "" {
		return 0, malformed("missing %s", name)
	}
	v, err := strconv.ParseUint(tok, 10, 32)
	if err != nil {
		return 0, malformed("invalid %s %q", name, tok)
	}
	return uint32(v), nil
}
