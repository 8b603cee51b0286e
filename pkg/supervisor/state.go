package supervisor

// ProcessState is the lifecycle state of the supervised backend process.
// Transitions are one-way:
//
//	spawning -> running -> exited | terminated | killed
//	spawning -> exited (early exit inside the grace window = spawn failure)
type ProcessState string

const (
	ProcessStateSpawning   ProcessState = "spawning"   // started, grace window still open
	ProcessStateRunning    ProcessState = "running"    // survived the grace window
	ProcessStateExited     ProcessState = "exited"     // exited on its own
	ProcessStateTerminated ProcessState = "terminated" // stopped in response to the graceful signal
	ProcessStateKilled     ProcessState = "killed"     // force-killed after the graceful timeout
)

// IsTerminal reports whether the state admits no further transitions.
func (s ProcessState) IsTerminal() bool {
	switch s {
	case ProcessStateExited, ProcessStateTerminated, ProcessStateKilled:
		return true
	default:
		return false
	}
}

// canShutdownFromState validates that a shutdown request is actionable from
// the current state. Shutdown is one-shot: once the process has left
// running, further requests are rejected.
func canShutdownFromState(currentState ProcessState) bool {
	return currentState == ProcessStateRunning
}
