package register

import (
	"fmt"
)

// RegisterWidth is the width of every register in bytes. The bank accessor
// only supports aligned 32 bit access.
const RegisterWidth = 4

// Register describes a single field of the register bank.
type Register struct {
	Name   string
	Offset uint32
	Width  uint32
}

// Layout is the register map of the accelerator. It is split into three groups:
//   - SET: SetKey, SetValue and WriteEnable
//   - GET: GetKey and ReadRequest
//   - response: Ready and Result
//
// The offsets must match the device exactly when talking to real hardware.
type Layout struct {
	SetKey      Register
	SetValue    Register
	WriteEnable Register

	GetKey      Register
	ReadRequest Register

	Result Register
	Ready  Register

	// ReadyMask selects the bits of the Ready register that are compared
	// against 1. The device only drives the lowest byte.
	ReadyMask uint32
}

// DefaultLayout is the register map of the reference accelerator
// (slv_reg0..slv_reg6 of the PCIe BAR).
var DefaultLayout = Layout{
	SetKey:      Register{Name: "set-key", Offset: 0, Width: RegisterWidth},
	SetValue:    Register{Name: "set-value", Offset: 4, Width: RegisterWidth},
	WriteEnable: Register{Name: "write-enable", Offset: 8, Width: RegisterWidth},
	GetKey:      Register{Name: "get-key", Offset: 12, Width: RegisterWidth},
	Result:      Register{Name: "result", Offset: 16, Width: RegisterWidth},
	ReadRequest: Register{Name: "read-request", Offset: 20, Width: RegisterWidth},
	Ready:       Register{Name: "ready", Offset: 24, Width: RegisterWidth},
	ReadyMask:   0xFF,
}

// Registers returns all registers of the layout.
func (l Layout) Registers() []Register {
	return []Register{l.SetKey, l.SetValue, l.WriteEnable, l.GetKey, l.ReadRequest, l.Result, l.Ready}
}

// Validate checks that every register is aligned, fits into a bank of the
// given size and does not overlap another register.
func (l Layout) Validate(bankSize uint32) error {
	if l.ReadyMask == 0 {
		return fmt.Errorf("register layout: ready mask must not be zero")
	}

	seen := make(map[uint32]string)
	for _, r := range l.Registers() {
		if r.Width != RegisterWidth {
			return fmt.Errorf("register %s: unsupported width %d (only %d byte registers are supported)", r.Name, r.Width, RegisterWidth)
		}
		if r.Offset%RegisterWidth != 0 {
			return fmt.Errorf("register %s: offset %d is not %d byte aligned", r.Name, r.Offset, RegisterWidth)
		}
		if uint64(r.Offset)+uint64(r.Width) > uint64(bankSize) {
			return fmt.Errorf("register %s: offset %d is outside of the %d byte bank", r.Name, r.Offset, bankSize)
		}
		if other, ok := seen[r.Offset]; ok {
			return fmt.Errorf("register %s overlaps register %s at offset %d", r.Name, other, r.Offset)
		}
		seen[r.Offset] = r.Name
	}
	return nil
}
