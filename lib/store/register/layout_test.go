package register

import (
	"testing"
)

func TestDefaultLayoutOffsets(t *testing.T) {
	tests := []struct {
		reg    Register
		offset uint32
	}{
		{DefaultLayout.SetKey, 0},
		{DefaultLayout.SetValue, 4},
		{DefaultLayout.WriteEnable, 8},
		{DefaultLayout.GetKey, 12},
		{DefaultLayout.Result, 16},
		{DefaultLayout.ReadRequest, 20},
		{DefaultLayout.Ready, 24},
	}
	for _, tt := range tests {
		if tt.reg.Offset != tt.offset {
			t.Errorf("register %s at offset %d, want %d", tt.reg.Name, tt.reg.Offset, tt.offset)
		}
	}
	if err := DefaultLayout.Validate(DefaultDeviceSize); err != nil {
		t.Errorf("DefaultLayout is invalid: %v", err)
	}
}

func TestLayoutValidate(t *testing.T) {
	mutate := func(f func(l *Layout)) Layout {
		l := DefaultLayout
		f(&l)
		return l
	}

	tests := []struct {
		name     string
		layout   Layout
		bankSize uint32
		wantErr  bool
	}{
		{"default", DefaultLayout, 28, false},
		{"bank too small", DefaultLayout, 24, true},
		{"zero mask", mutate(func(l *Layout) { l.ReadyMask = 0 }), 64, true},
		{"misaligned", mutate(func(l *Layout) { l.Result.Offset = 17 }), 64, true},
		{"wide register", mutate(func(l *Layout) { l.Result.Width = 8 }), 64, true},
		{"overlap", mutate(func(l *Layout) { l.GetKey.Offset = l.SetKey.Offset }), 64, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.layout.Validate(tt.bankSize)
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate(%d) error = %v, wantErr %v", tt.bankSize, err, tt.wantErr)
			}
		})
	}
}

func TestMemoryBank(t *testing.T) {
	bank := NewMemoryBank(64)
	if bank.Size() != 64 {
		t.Fatalf("Size() = %d, want 64", bank.Size())
	}

	bank.Store32(8, 0xDEADBEEF)
	if got := bank.Load32(8); got != 0xDEADBEEF {
		t.Errorf("Load32(8) = %#x, want 0xdeadbeef", got)
	}
	if got := bank.Load32(4); got != 0 {
		t.Errorf("Load32(4) = %d, want 0", got)
	}

	if err := bank.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
	if err := bank.Close(); err != ErrBankClosed {
		t.Errorf("second Close error = %v, want ErrBankClosed", err)
	}
}
