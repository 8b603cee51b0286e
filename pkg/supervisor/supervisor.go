package supervisor

import (
	"context"
	"sync"
	"time"

	"github.com/rag-tools/rag-launcher-go/pkg/errors"
	"github.com/rag-tools/rag-launcher-go/pkg/logging"
)

const defaultKillTimeout = 2 * time.Second

// Config controls the supervisor's timing behavior.
type Config struct {
	ExecuteCmd ExecuteCmd
	// StartupGracePeriod is how long Spawn watches for an early exit
	// before declaring the backend running. It rules out crash-on-launch,
	// nothing more.
	StartupGracePeriod time.Duration
	// GracefulTimeout bounds how long Shutdown waits for a voluntary exit
	// before escalating to a forced kill.
	GracefulTimeout time.Duration
	// KillTimeout bounds the post-kill wait for the exit notification.
	KillTimeout time.Duration
}

// SupervisedProcess is the supervisor's exclusive handle on the one backend
// process of a run. State transitions are one-way; the handle is never
// duplicated.
type SupervisedProcess struct {
	child Child
	mutex sync.Mutex
	state ProcessState
}

func (p *SupervisedProcess) PID() int {
	return p.child.PID()
}

func (p *SupervisedProcess) State() ProcessState {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.state
}

// ExitCode is valid once the process has exited.
func (p *SupervisedProcess) ExitCode() int {
	return p.child.ExitCode()
}

// Output returns the captured combined stdout/stderr of the backend.
func (p *SupervisedProcess) Output() string {
	return p.child.Output()
}

func (p *SupervisedProcess) setState(state ProcessState) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.state.IsTerminal() {
		return
	}
	p.state = state
}

// Supervisor owns the lifecycle of the backend child process: spawn with an
// early-failure grace window, interruptible wait, and graceful-then-forced
// shutdown.
type Supervisor struct {
	config  Config
	logger  logging.Logger
	mutex   sync.Mutex
	process *SupervisedProcess
}

func NewSupervisor(config Config, logger logging.Logger) *Supervisor {
	if config.KillTimeout <= 0 {
		config.KillTimeout = defaultKillTimeout
	}
	return &Supervisor{
		config: config,
		logger: logger,
	}
}

// Spawn starts the backend and watches it for the startup grace period. An
// exit inside the window is classified as a spawn failure with the child's
// captured output attached. Surviving the window does not prove a healthy
// startup, only the absence of an immediate crash.
func (s *Supervisor) Spawn(ctx context.Context) (*SupervisedProcess, error) {
	s.mutex.Lock()
	if s.process != nil {
		s.mutex.Unlock()
		return nil, errors.NewValidationError("backend process already spawned", nil)
	}
	s.mutex.Unlock()

	if s.config.ExecuteCmd == nil {
		return nil, errors.NewValidationError("execute command cannot be nil", nil)
	}

	child, err := s.config.ExecuteCmd(ctx)
	if err != nil {
		return nil, errors.NewSpawnError("failed to start backend process", err)
	}

	process := &SupervisedProcess{
		child: child,
		state: ProcessStateSpawning,
	}

	s.logger.Infof("Backend initializing, PID: %d, grace period: %v", child.PID(), s.config.StartupGracePeriod)

	graceTimer := time.NewTimer(s.config.StartupGracePeriod)
	defer graceTimer.Stop()

	select {
	case <-child.Done():
		process.setState(ProcessStateExited)
		s.logger.Errorf("Backend exited during startup, PID: %d, exit code: %d", child.PID(), child.ExitCode())
		return nil, errors.NewSpawnError("backend exited during startup", nil).
			WithContext("exit_code", child.ExitCode()).
			WithContext("output", child.Output())
	case <-ctx.Done():
		s.logger.Warnf("Startup cancelled, killing backend, PID: %d", child.PID())
		child.Kill()
		<-child.Done()
		process.setState(ProcessStateKilled)
		return nil, errors.NewCancelledError("startup cancelled", ctx.Err())
	case <-graceTimer.C:
	}

	// The grace timer elapsed; double-check liveness in case the exit
	// notification is still in flight.
	if !isProcessRunning(child.PID()) {
		<-child.Done()
		process.setState(ProcessStateExited)
		s.logger.Errorf("Backend died right after the grace period, PID: %d, exit code: %d", child.PID(), child.ExitCode())
		return nil, errors.NewSpawnError("backend exited during startup", nil).
			WithContext("exit_code", child.ExitCode()).
			WithContext("output", child.Output())
	}

	process.setState(ProcessStateRunning)

	s.mutex.Lock()
	s.process = process
	s.mutex.Unlock()

	s.logger.Infof("Backend running, PID: %d", child.PID())
	return process, nil
}

// Wait blocks until the backend exits naturally or ctx is cancelled. On a
// natural exit it returns the terminal state; on cancellation it returns
// the current state and a cancelled error, leaving the shutdown decision to
// the caller. The signal callback only cancels ctx; it never touches the
// process, so Wait and Shutdown cannot race over the handle.
func (s *Supervisor) Wait(ctx context.Context, process *SupervisedProcess) (ProcessState, error) {
	select {
	case <-process.child.Done():
		process.setState(ProcessStateExited)
		s.logger.Infof("Backend exited, PID: %d, exit code: %d", process.PID(), process.ExitCode())
		return ProcessStateExited, nil
	case <-ctx.Done():
		s.logger.Infof("Wait interrupted, PID: %d", process.PID())
		return process.State(), errors.NewCancelledError("wait interrupted", ctx.Err())
	}
}

// Shutdown stops the backend: cooperative stop signal first, then a forced
// kill once the graceful timeout elapses or the escalate channel fires
// (second interrupt). It is one-shot; requests outside the running state
// return the current state unchanged.
func (s *Supervisor) Shutdown(ctx context.Context, process *SupervisedProcess, escalate <-chan struct{}) (ProcessState, error) {
	currentState := process.State()
	if !canShutdownFromState(currentState) {
		s.logger.Debugf("Shutdown requested in state %s, nothing to do", currentState)
		return currentState, nil
	}

	pid := process.PID()
	s.logger.Infof("Stopping backend, PID: %d, graceful timeout: %v", pid, s.config.GracefulTimeout)

	if err := process.child.Terminate(); err != nil {
		s.logger.Warnf("Failed to send termination signal to PID %d: %v", pid, err)
	}

	gracefulTimer := time.NewTimer(s.config.GracefulTimeout)
	defer gracefulTimer.Stop()

	select {
	case <-process.child.Done():
		process.setState(ProcessStateTerminated)
		s.logger.Infof("Backend terminated gracefully, PID: %d", pid)
		return ProcessStateTerminated, nil
	case <-gracefulTimer.C:
		s.logger.Warnf("Backend did not stop within %v, forcing kill, PID: %d", s.config.GracefulTimeout, pid)
	case <-escalate:
		s.logger.Warnf("Second interrupt received, forcing kill, PID: %d", pid)
	case <-ctx.Done():
		s.logger.Warnf("Context cancelled during graceful stop, forcing kill, PID: %d", pid)
	}

	if err := process.child.Kill(); err != nil {
		s.logger.Warnf("Failed to kill PID %d: %v", pid, err)
	}

	killTimer := time.NewTimer(s.config.KillTimeout)
	defer killTimer.Stop()

	select {
	case <-process.child.Done():
		process.setState(ProcessStateKilled)
		s.logger.Infof("Backend force-killed, PID: %d", pid)
		return ProcessStateKilled, nil
	case <-killTimer.C:
		process.setState(ProcessStateKilled)
		return ProcessStateKilled, errors.NewTimeoutError("backend did not exit after forced kill", nil).WithContext("pid", pid)
	}
}
