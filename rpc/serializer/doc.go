// Package serializer provides the request codecs of the benchmark protocol
// and the response frame layout.
//
// Key Components:
//
//   - IRPCSerializer: the interface every request codec satisfies. Deserialize
//     never panics; any invalid input returns an error wrapping
//     ErrMalformedCommand.
//
//   - textSerializerImpl: the ASCII wire format "SET:<key>:<value>" and
//     "GET:<key>". Opcodes are case-sensitive upper case, numbers are unsigned
//     32 bit decimals. Trailing NUL, CR, LF and space bytes are ignored. Keys
//     are not range checked, that is a concern of the storage backend. Values
//     containing a colon cannot be expressed.
//
//   - binarySerializerImpl: a fixed-size binary alternative (op byte followed
//     by big endian key and value) for comparing codec cost.
//
//   - EncodeResponse / DecodeResponse: the response frame. The first four
//     bytes carry the value (little endian), byte four the common.Status, the
//     remainder of the frame is zero padding.
//
// Thread Safety:
//
//	All serializer implementations are stateless and safe for concurrent use.
package serializer
