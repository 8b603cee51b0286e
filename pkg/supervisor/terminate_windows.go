//go:build windows

package supervisor

import (
	"fmt"
	"os/exec"
	"strconv"
)

// sendTerminationSignal asks the process to close via taskkill without /F.
// Windows has no SIGTERM; a process that ignores the close message is
// handled by the supervisor's forced-kill escalation.
func sendTerminationSignal(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid PID: %d", pid)
	}
	return exec.Command("taskkill", "/pid", strconv.Itoa(pid)).Run()
}
