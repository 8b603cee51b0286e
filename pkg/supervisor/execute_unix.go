//go:build !windows

package supervisor

import (
	"os/exec"
	"syscall"
)

// setupProcessAttributes puts the backend in its own process group so the
// termination signal sent to -pid reaches the entire process tree, and so
// the terminal's Ctrl-C does not hit the backend directly.
func setupProcessAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setpgid: true,
	}
}
