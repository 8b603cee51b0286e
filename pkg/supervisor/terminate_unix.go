//go:build !windows

package supervisor

import (
	"syscall"
)

// sendTerminationSignal sends SIGTERM to the process group (negative PID)
// so the whole backend tree is asked to stop, not just the interpreter.
func sendTerminationSignal(pid int) error {
	return syscall.Kill(-pid, syscall.SIGTERM)
}
