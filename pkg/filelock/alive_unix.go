//go:build !windows

package filelock

import (
	"errors"
	"syscall"
)

// processAlive sends signal 0, which checks for existence without
// delivering anything. EPERM means the process exists under another user.
func processAlive(pid int) bool {
	err := syscall.Kill(pid, 0)
	return err == nil || errors.Is(err, syscall.EPERM)
}
