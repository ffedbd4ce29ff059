//go:build windows

package organizer

import (
	"errors"
	"syscall"
)

// errorNotSameDevice is ERROR_NOT_SAME_DEVICE.
const errorNotSameDevice = syscall.Errno(17)

func isCrossDevice(err error) bool {
	return errors.Is(err, errorNotSameDevice)
}
