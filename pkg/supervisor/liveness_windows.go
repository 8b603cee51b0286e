//go:build windows

package supervisor

import (
	"os"
)

// isProcessRunning polls liveness. On Windows, FindProcess fails for PIDs
// that no longer exist.
func isProcessRunning(pid int) bool {
	if pid <= 0 {
		return false
	}
	process, err := os.FindProcess(pid)
	if err != nil {
		return false
	}
	process.Release()
	return true
}
