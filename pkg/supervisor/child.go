package supervisor

import (
	"bytes"
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"sync"

	"github.com/rag-tools/rag-launcher-go/pkg/errors"
	"github.com/rag-tools/rag-launcher-go/pkg/logging"
)

// Child is the supervisor's handle on one backend process. Production
// children wrap os/exec; tests substitute controllable fakes.
type Child interface {
	PID() int
	// Done is closed when the process has exited and its exit code is
	// available.
	Done() <-chan struct{}
	// ExitCode is valid only after Done is closed.
	ExitCode() int
	// Terminate sends the cooperative stop signal.
	Terminate() error
	// Kill forcibly ends the process.
	Kill() error
	// Output returns the captured combined stdout/stderr so far.
	Output() string
}

// ExecuteCmd starts the backend and returns a handle on it.
type ExecuteCmd func(ctx context.Context) (Child, error)

// NewBackendExecuteCmd builds the production ExecuteCmd: runs the backend
// entry point under the given interpreter with stdout and stderr captured
// for diagnostics, in its own process group so the graceful stop signal
// reaches the whole tree.
func NewBackendExecuteCmd(interpreter string, entryPoint string, workDir string, logger logging.Logger) ExecuteCmd {
	return func(ctx context.Context) (Child, error) {
		if interpreter == "" {
			return nil, errors.NewValidationError("interpreter path cannot be empty", nil)
		}
		if entryPoint == "" {
			return nil, errors.NewValidationError("backend entry point cannot be empty", nil)
		}

		dir := workDir
		if dir == "" {
			absPath, err := filepath.Abs(entryPoint)
			if err != nil {
				return nil, errors.NewIOError("failed to resolve backend entry point", err).WithContext("entry_point", entryPoint)
			}
			dir = filepath.Dir(absPath)
		}

		logger.Debugf("Executing backend, interpreter: %s, entry point: %s, working directory: %s",
			interpreter, entryPoint, dir)

		child := &execChild{done: make(chan struct{})}

		cmd := exec.Command(interpreter, entryPoint)
		cmd.Dir = dir
		cmd.Env = os.Environ()
		cmd.Stdout = &child.output
		cmd.Stderr = &child.output
		setupProcessAttributes(cmd)

		if err := cmd.Start(); err != nil {
			return nil, errors.NewProcessError("failed to start backend process", err).WithContext("entry_point", entryPoint)
		}
		child.cmd = cmd

		logger.Infof("Backend process started, PID: %d", cmd.Process.Pid)

		go child.reap()

		return child, nil
	}
}

// execChild wraps a started exec.Cmd.
type execChild struct {
	cmd      *exec.Cmd
	output   lockedBuffer
	done     chan struct{}
	exitCode int
}

func (c *execChild) reap() {
	err := c.cmd.Wait()
	if c.cmd.ProcessState != nil {
		c.exitCode = c.cmd.ProcessState.ExitCode()
	} else if err != nil {
		c.exitCode = -1
	}
	close(c.done)
}

func (c *execChild) PID() int {
	return c.cmd.Process.Pid
}

func (c *execChild) Done() <-chan struct{} {
	return c.done
}

func (c *execChild) ExitCode() int {
	return c.exitCode
}

func (c *execChild) Terminate() error {
	return sendTerminationSignal(c.cmd.Process.Pid)
}

func (c *execChild) Kill() error {
	return c.cmd.Process.Kill()
}

func (c *execChild) Output() string {
	return c.output.String()
}

// lockedBuffer is a bytes.Buffer safe for the writer goroutine inside
// exec.Cmd and the supervisor's readers.
type lockedBuffer struct {
	mutex  sync.Mutex
	buffer bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mutex.Lock()
	defer b.mutex.Unlock()
	return b.buffer.String()
}
