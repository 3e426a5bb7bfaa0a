//go:build !linux

package register

import (
	"fmt"
	"runtime"
)

// OpenDevice is only supported on linux, where the accelerator exposes its
// registers as a mappable sysfs resource.
func OpenDevice(path string, size uint32) (IRegisterBank, error) {
	return nil, fmt.Errorf("mapping device %s is not supported on %s", path, runtime.GOOS)
}
