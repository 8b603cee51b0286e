//go:build windows

package supervisor

import (
	"os/exec"
	"syscall"
)

// setupProcessAttributes detaches the backend into its own process group so
// console Ctrl-C events do not hit it directly.
func setupProcessAttributes(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
