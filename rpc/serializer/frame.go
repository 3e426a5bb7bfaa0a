package serializer

import (
	"encoding/binary"
	"fmt"

	"github.com/ValentinKolb/kvbench/rpc/common"
)

// Response frame layout:
//
//	[value:4 little endian][status:1][padding up to the frame size]
//
// The value sits at the start of the frame in host (x86) byte order, which is
// what existing clients read. The padding is zero.

// Response is a decoded response frame
type Response struct {
	Value  uint32
	Status common.Status
}

// EncodeResponse writes resp into frame. The frame must be at least
// common.MinFrameSize bytes; bytes after the header are zeroed so no data from
// a previous request leaks into the padding.
func EncodeResponse(frame []byte, resp Response) error {
	if len(frame) < common.MinFrameSize {
		return fmt.Errorf("frame of %d bytes is too small, need %d", len(frame), common.MinFrameSize)
	}
	binary.LittleEndian.PutUint32(frame[0:4], resp.Value)
	frame[4] = byte(resp.Status)
	clear(frame[common.MinFrameSize:])
	return nil
}

// DecodeResponse reads the value and status from a response frame.
func DecodeResponse(frame []byte) (Response, error) {
	if len(frame) < common.MinFrameSize {
		return Response{}, fmt.Errorf("response of %d bytes is too short, need %d", len(frame), common.MinFrameSize)
	}
	return Response{
		Value:  binary.LittleEndian.Uint32(frame[0:4]),
		Status: common.Status(frame[4]),
	}, nil
}
