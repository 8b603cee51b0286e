//go:build !windows

package supervisor

import (
	"os"
	"syscall"
)

// isProcessRunning polls liveness with signal 0. On Unix, FindProcess
// always succeeds regardless of whether the process exists; only the probe
// signal tells the truth.
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	err = process.Signal(syscall.Signal(0))
	if err == nil {
		return true
	}
	if errno, ok := err.(syscall.Errno); ok && errno == syscall.EPERM {
		return true
	}
	return false
}
