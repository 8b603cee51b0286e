package launcher

import (
	"context"

	"github.com/rag-tools/rag-launcher-go/pkg/environment"
	"github.com/rag-tools/rag-launcher-go/pkg/errors"
	"github.com/rag-tools/rag-launcher-go/pkg/installer"
	"github.com/rag-tools/rag-launcher-go/pkg/supervisor"
)

// The orchestrator depends on interfaces so each stage can be faked in
// tests; production wiring adapts the concrete packages below.

type EnvironmentProbe interface {
	Check(ctx context.Context) environment.ReadinessReport
}

type DependencyInstaller interface {
	Install(ctx context.Context) installer.InstallOutcome
}

// SupervisedProcess is the orchestrator's read-only view of the backend
// handle; ownership stays with the supervisor.
type SupervisedProcess interface {
	PID() int
	State() supervisor.ProcessState
	ExitCode() int
	Output() string
}

type ProcessSupervisor interface {
	Spawn(ctx context.Context) (SupervisedProcess, error)
	Wait(ctx context.Context, process SupervisedProcess) (supervisor.ProcessState, error)
	Shutdown(ctx context.Context, process SupervisedProcess, escalate <-chan struct{}) (supervisor.ProcessState, error)
}

type BrowserLauncher interface {
	Open(path string) error
}

// supervisorAdapter bridges the concrete supervisor to the orchestrator's
// interface surface.
type supervisorAdapter struct {
	supervisor *supervisor.Supervisor
}

func (a supervisorAdapter) Spawn(ctx context.Context) (SupervisedProcess, error) {
	process, err := a.supervisor.Spawn(ctx)
	if process == nil {
		return nil, err
	}
	return process, err
}

func (a supervisorAdapter) Wait(ctx context.Context, process SupervisedProcess) (supervisor.ProcessState, error) {
	concrete, ok := process.(*supervisor.SupervisedProcess)
	if !ok {
		return "", errors.NewValidationError("unknown supervised process handle", nil)
	}
	return a.supervisor.Wait(ctx, concrete)
}

func (a supervisorAdapter) Shutdown(ctx context.Context, process SupervisedProcess, escalate <-chan struct{}) (supervisor.ProcessState, error) {
	concrete, ok := process.(*supervisor.SupervisedProcess)
	if !ok {
		return "", errors.NewValidationError("unknown supervised process handle", nil)
	}
	return a.supervisor.Shutdown(ctx, concrete, escalate)
}
