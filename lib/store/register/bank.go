package register

import (
	"errors"
	"sync/atomic"
)

// ErrBankClosed is returned when a closed bank is closed again.
var ErrBankClosed = errors.New("register bank is closed")

// IRegisterBank is the single accessor through which all register reads and
// writes go. Offsets are byte offsets and must be 4 byte aligned and inside
// the bank. The store validates its layout against Size once, so accessors do
// not check bounds on every access.
type IRegisterBank interface {
	// Size returns the size of the bank in bytes.
	Size() uint32
	// Load32 reads the 32 bit register at offset.
	Load32(offset uint32) uint32
	// Store32 writes the 32 bit register at offset.
	Store32(offset uint32, value uint32)
	// Close releases the bank.
	Close() error
}

// --------------------------------------------------------------------------
// In-memory bank
// --------------------------------------------------------------------------

type memoryBank struct {
	words  []uint32
	closed atomic.Bool
}

// NewMemoryBank creates a plain in-memory register bank of size bytes
// (rounded down to whole registers). Registers are accessed atomically so
// the bank can be shared with a goroutine that plays the device side.
func NewMemoryBank(size uint32) IRegisterBank {
	return &memoryBank{
		words: make([]uint32, size/RegisterWidth),
	}
}

func (b *memoryBank) Size() uint32 {
	return uint32(len(b.words) * RegisterWidth)
}

func (b *memoryBank) Load32(offset uint32) uint32 {
	return atomic.LoadUint32(&b.words[offset/RegisterWidth])
}

func (b *memoryBank) Store32(offset uint32, value uint32) {
	atomic.StoreUint32(&b.words[offset/RegisterWidth], value)
}

func (b *memoryBank) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return ErrBankClosed
	}
	return nil
}
