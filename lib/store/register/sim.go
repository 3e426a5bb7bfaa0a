package register

// simulatedBank is an in-memory register bank that reacts to register writes
// the way the accelerator does: a write-enable commits the SET registers to
// the device memory and a read-request places the stored value into the
// result register and raises the ready flag.
//
// The bank is driven entirely by the caller's accesses, so it is deterministic
// and does not need a device goroutine.
type simulatedBank struct {
	IRegisterBank
	layout Layout
	memory []uint32
	mask   uint32

	// readyAfterPolls is the number of polls that observe the flag low
	// before it is raised. A negative value never raises it.
	readyAfterPolls int
	pendingPolls    int
}

// NewSimulatedBank creates a bank emulating an accelerator with capacity
// value slots (rounded up to a power of two). Keys are decoded by their low
// bits, as the device address decoder does. The ready flag is raised after
// readyAfterPolls polls; a negative value simulates a device that never
// answers.
func NewSimulatedBank(layout Layout, size uint32, capacity uint32, readyAfterPolls int) IRegisterBank {
	slots := uint32(1)
	for slots < capacity {
		slots <<= 1
	}

	return &simulatedBank{
		IRegisterBank:   NewMemoryBank(size),
		layout:          layout,
		memory:          make([]uint32, slots),
		mask:            slots - 1,
		readyAfterPolls: readyAfterPolls,
	}
}

func (b *simulatedBank) Load32(offset uint32) uint32 {
	value := b.IRegisterBank.Load32(offset)
	if offset == b.layout.Ready.Offset && b.pendingPolls > 0 {
		b.pendingPolls--
		if b.pendingPolls == 0 {
			b.IRegisterBank.Store32(b.layout.Ready.Offset, registerAsserted)
		}
	}
	return value
}

func (b *simulatedBank) Store32(offset uint32, value uint32) {
	b.IRegisterBank.Store32(offset, value)

	switch {
	case offset == b.layout.WriteEnable.Offset && value == registerAsserted:
		key := b.IRegisterBank.Load32(b.layout.SetKey.Offset)
		b.memory[key&b.mask] = b.IRegisterBank.Load32(b.layout.SetValue.Offset)
		b.IRegisterBank.Store32(b.layout.WriteEnable.Offset, registerCleared)

	case offset == b.layout.ReadRequest.Offset && value == registerAsserted:
		key := b.IRegisterBank.Load32(b.layout.GetKey.Offset)
		b.IRegisterBank.Store32(b.layout.Result.Offset, b.memory[key&b.mask])
		b.IRegisterBank.Store32(b.layout.ReadRequest.Offset, registerCleared)

		switch {
		case b.readyAfterPolls == 0:
			b.IRegisterBank.Store32(b.layout.Ready.Offset, registerAsserted)
		case b.readyAfterPolls > 0:
			b.pendingPolls = b.readyAfterPolls
		}
	}
}
