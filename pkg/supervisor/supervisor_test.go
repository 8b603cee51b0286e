package supervisor

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rag-tools/rag-launcher-go/pkg/errors"
)

// Simple test logger that implements logging.Logger interface
type TestLogger struct{}

func (l *TestLogger) Debugf(format string, args ...interface{}) {}
func (l *TestLogger) Infof(format string, args ...interface{})  {}
func (l *TestLogger) Warnf(format string, args ...interface{})  {}
func (l *TestLogger) Errorf(format string, args ...interface{}) {}

// fakeChild is a controllable Child. It reports the test process's own PID
// so liveness polls see a running process.
type fakeChild struct {
	mutex       sync.Mutex
	done        chan struct{}
	exitCode    int
	output      string
	terminated  int
	killed      int
	onTerminate func(c *fakeChild)
	onKill      func(c *fakeChild)
}

func newFakeChild() *fakeChild {
	child := &fakeChild{done: make(chan struct{})}
	// Default kill behavior: exit immediately.
	child.onKill = func(c *fakeChild) { c.exit(-1) }
	return child
}

func (c *fakeChild) PID() int {
	return os.Getpid()
}

func (c *fakeChild) Done() <-chan struct{} {
	return c.done
}

func (c *fakeChild) ExitCode() int {
	return c.exitCode
}

func (c *fakeChild) Output() string {
	return c.output
}

func (c *fakeChild) Terminate() error {
	c.mutex.Lock()
	c.terminated++
	fn := c.onTerminate
	c.mutex.Unlock()
	if fn != nil {
		fn(c)
	}
	return nil
}

func (c *fakeChild) Kill() error {
	c.mutex.Lock()
	c.killed++
	fn := c.onKill
	c.mutex.Unlock()
	if fn != nil {
		fn(c)
	}
	return nil
}

func (c *fakeChild) exit(code int) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	select {
	case <-c.done:
	default:
		c.exitCode = code
		close(c.done)
	}
}

func (c *fakeChild) exitAfter(delay time.Duration, code int) {
	time.AfterFunc(delay, func() { c.exit(code) })
}

func (c *fakeChild) terminateCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.terminated
}

func (c *fakeChild) killCount() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return c.killed
}

func newTestSupervisor(child *fakeChild, grace, graceful time.Duration) *Supervisor {
	return NewSupervisor(Config{
		ExecuteCmd: func(ctx context.Context) (Child, error) {
			return child, nil
		},
		StartupGracePeriod: grace,
		GracefulTimeout:    graceful,
		KillTimeout:        time.Second,
	}, &TestLogger{})
}

func TestSpawn_EarlyExitIsSpawnFailure(t *testing.T) {
	child := newFakeChild()
	child.output = "Traceback (most recent call last): boom"
	child.exitAfter(20*time.Millisecond, 1)

	s := newTestSupervisor(child, 200*time.Millisecond, time.Second)

	process, err := s.Spawn(context.Background())

	require.Error(t, err)
	assert.Nil(t, process)
	assert.True(t, errors.IsSpawnError(err))

	var domainErr *errors.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, 1, domainErr.Context["exit_code"])
	assert.Contains(t, domainErr.Context["output"], "Traceback")
}

func TestSpawn_SurvivingGraceWindowIsRunning(t *testing.T) {
	child := newFakeChild()
	s := newTestSupervisor(child, 30*time.Millisecond, time.Second)

	process, err := s.Spawn(context.Background())

	require.NoError(t, err)
	require.NotNil(t, process)
	assert.Equal(t, ProcessStateRunning, process.State())
	assert.Equal(t, os.Getpid(), process.PID())
}

func TestSpawn_ExecuteFailure(t *testing.T) {
	s := NewSupervisor(Config{
		ExecuteCmd: func(ctx context.Context) (Child, error) {
			return nil, errors.NewProcessError("failed to start backend process", nil)
		},
		StartupGracePeriod: 30 * time.Millisecond,
		GracefulTimeout:    time.Second,
	}, &TestLogger{})

	process, err := s.Spawn(context.Background())

	require.Error(t, err)
	assert.Nil(t, process)
	assert.True(t, errors.IsSpawnError(err))
}

func TestSpawn_SecondSpawnRejected(t *testing.T) {
	child := newFakeChild()
	s := newTestSupervisor(child, 10*time.Millisecond, time.Second)

	_, err := s.Spawn(context.Background())
	require.NoError(t, err)

	_, err = s.Spawn(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsValidationError(err))
}

func TestWait_NaturalExit(t *testing.T) {
	child := newFakeChild()
	s := newTestSupervisor(child, 10*time.Millisecond, time.Second)

	process, err := s.Spawn(context.Background())
	require.NoError(t, err)

	child.exitAfter(20*time.Millisecond, 0)

	state, err := s.Wait(context.Background(), process)

	require.NoError(t, err)
	assert.Equal(t, ProcessStateExited, state)
	assert.Equal(t, ProcessStateExited, process.State())
	assert.Equal(t, 0, process.ExitCode())
}

func TestWait_InterruptibleByCancellation(t *testing.T) {
	child := newFakeChild()
	s := newTestSupervisor(child, 10*time.Millisecond, time.Second)

	process, err := s.Spawn(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	time.AfterFunc(20*time.Millisecond, cancel)

	state, err := s.Wait(ctx, process)

	require.Error(t, err)
	assert.True(t, errors.IsCancelledError(err))
	assert.Equal(t, ProcessStateRunning, state, "cancellation must not itself change the process state")
}

func TestShutdown_GracefulTermination(t *testing.T) {
	child := newFakeChild()
	// Child cooperates: exits shortly after the stop signal.
	child.onTerminate = func(c *fakeChild) { c.exitAfter(20*time.Millisecond, 0) }

	s := newTestSupervisor(child, 10*time.Millisecond, 500*time.Millisecond)

	process, err := s.Spawn(context.Background())
	require.NoError(t, err)

	state, err := s.Shutdown(context.Background(), process, nil)

	require.NoError(t, err)
	assert.Equal(t, ProcessStateTerminated, state)
	assert.Equal(t, ProcessStateTerminated, process.State())
	assert.Equal(t, 1, child.terminateCount())
	assert.Equal(t, 0, child.killCount(), "no forced kill when the child cooperates")
}

func TestShutdown_EscalatesToKillAfterTimeout(t *testing.T) {
	child := newFakeChild()
	// Child ignores the stop signal; only Kill ends it.

	s := newTestSupervisor(child, 10*time.Millisecond, 50*time.Millisecond)

	process, err := s.Spawn(context.Background())
	require.NoError(t, err)

	start := time.Now()
	state, err := s.Shutdown(context.Background(), process, nil)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, ProcessStateKilled, state)
	assert.Equal(t, 1, child.terminateCount(), "graceful signal always attempted first")
	assert.Equal(t, 1, child.killCount())
	assert.GreaterOrEqual(t, elapsed, 50*time.Millisecond, "kill only after the graceful timeout")
	assert.Less(t, elapsed, 2*time.Second, "shutdown is bounded")
}

func TestShutdown_SecondInterruptEscalatesImmediately(t *testing.T) {
	child := newFakeChild()
	// Child ignores the stop signal; the graceful timeout is long enough
	// that only the escalation channel can explain a fast kill.

	s := newTestSupervisor(child, 10*time.Millisecond, 5*time.Second)

	process, err := s.Spawn(context.Background())
	require.NoError(t, err)

	escalate := make(chan struct{}, 1)
	escalate <- struct{}{}

	start := time.Now()
	state, err := s.Shutdown(context.Background(), process, escalate)
	elapsed := time.Since(start)

	require.NoError(t, err)
	assert.Equal(t, ProcessStateKilled, state)
	assert.Equal(t, 1, child.killCount())
	assert.Less(t, elapsed, time.Second, "second interrupt must skip the graceful timeout")
}

func TestShutdown_ReentryRejected(t *testing.T) {
	child := newFakeChild()
	child.onTerminate = func(c *fakeChild) { c.exit(0) }

	s := newTestSupervisor(child, 10*time.Millisecond, 500*time.Millisecond)

	process, err := s.Spawn(context.Background())
	require.NoError(t, err)

	state, err := s.Shutdown(context.Background(), process, nil)
	require.NoError(t, err)
	require.Equal(t, ProcessStateTerminated, state)

	// Second shutdown is a no-op: same state, no extra signals.
	state, err = s.Shutdown(context.Background(), process, nil)
	require.NoError(t, err)
	assert.Equal(t, ProcessStateTerminated, state)
	assert.Equal(t, 1, child.terminateCount())
	assert.Equal(t, 0, child.killCount())
}

func TestShutdown_AfterNaturalExitIsNoop(t *testing.T) {
	child := newFakeChild()
	s := newTestSupervisor(child, 10*time.Millisecond, 500*time.Millisecond)

	process, err := s.Spawn(context.Background())
	require.NoError(t, err)

	child.exit(0)
	state, err := s.Wait(context.Background(), process)
	require.NoError(t, err)
	require.Equal(t, ProcessStateExited, state)

	state, err = s.Shutdown(context.Background(), process, nil)
	require.NoError(t, err)
	assert.Equal(t, ProcessStateExited, state)
	assert.Equal(t, 0, child.terminateCount())
}

func TestProcessState_Transitions(t *testing.T) {
	tests := []struct {
		name        string
		state       ProcessState
		terminal    bool
		canShutdown bool
	}{
		{"spawning", ProcessStateSpawning, false, false},
		{"running", ProcessStateRunning, false, true},
		{"exited", ProcessStateExited, true, false},
		{"terminated", ProcessStateTerminated, true, false},
		{"killed", ProcessStateKilled, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.terminal, tt.state.IsTerminal())
			assert.Equal(t, tt.canShutdown, canShutdownFromState(tt.state))
		})
	}
}

func TestSupervisedProcess_TerminalStateSticks(t *testing.T) {
	process := &SupervisedProcess{child: newFakeChild(), state: ProcessStateRunning}

	process.setState(ProcessStateTerminated)
	assert.Equal(t, ProcessStateTerminated, process.State())

	// No resurrection.
	process.setState(ProcessStateRunning)
	assert.Equal(t, ProcessStateTerminated, process.State())
}
