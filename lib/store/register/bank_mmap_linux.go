//go:build linux

package register

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"github.com/gofrs/flock"
	"golang.org/x/sys/unix"
)

type mmapBank struct {
	path string
	file *os.File
	lock *flock.Flock
	data []byte
}

// OpenDevice maps size bytes of the device resource at path (e.g. a PCIe BAR
// exposed under /sys/bus/pci/devices/.../resource0_wc) as a shared read/write
// mapping. The resource is locked exclusively for the lifetime of the bank so
// that two processes never drive the same device.
func OpenDevice(path string, size uint32) (IRegisterBank, error) {
	if size == 0 || size%RegisterWidth != 0 {
		return nil, fmt.Errorf("invalid device mapping size %d", size)
	}

	lock := flock.New(path)
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock device %s: %w", path, err)
	}
	if !locked {
		return nil, fmt.Errorf("device %s is in use by another process", path)
	}

	file, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to open device %s: %w", path, err)
	}

	data, err := unix.Mmap(int(file.Fd()), 0, int(size), unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = file.Close()
		_ = lock.Unlock()
		return nil, fmt.Errorf("failed to map %d bytes of device %s: %w", size, path, err)
	}

	return &mmapBank{
		path: path,
		file: file,
		lock: lock,
		data: data,
	}, nil
}

func (b *mmapBank) Size() uint32 {
	return uint32(len(b.data))
}

// Load32 and Store32 use atomic operations so the compiler never caches or
// elides a register access (the ready flag is changed by the device).
func (b *mmapBank) Load32(offset uint32) uint32 {
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&b.data[offset])))
}

func (b *mmapBank) Store32(offset uint32, value uint32) {
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&b.data[offset])), value)
}

func (b *mmapBank) Close() error {
	if b.data == nil {
		return ErrBankClosed
	}

	var firstErr error
	if err := unix.Munmap(b.data); err != nil {
		firstErr = fmt.Errorf("failed to unmap device %s: %w", b.path, err)
	}
	b.data = nil

	if err := b.file.Close(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to close device %s: %w", b.path, err)
	}
	if err := b.lock.Unlock(); err != nil && firstErr == nil {
		firstErr = fmt.Errorf("failed to unlock device %s: %w", b.path, err)
	}
	return firstErr
}
