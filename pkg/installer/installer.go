package installer

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"

	"github.com/rag-tools/rag-launcher-go/pkg/logging"
)

// CmdResult is the classified outcome of one external command invocation.
// Err is set only for invocation faults (e.g. binary not found); a command
// that ran and exited nonzero has Err nil and ExitCode set.
type CmdResult struct {
	ExitCode int
	Stderr   string
	Err      error
}

// RunCmd invokes an external command and classifies its outcome.
type RunCmd func(ctx context.Context, name string, args ...string) CmdResult

// NewExecRunCmd builds the production RunCmd on top of os/exec.
func NewExecRunCmd(workDir string) RunCmd {
	return func(ctx context.Context, name string, args ...string) CmdResult {
		cmd := exec.CommandContext(ctx, name, args...)
		cmd.Dir = workDir

		var stderr bytes.Buffer
		cmd.Stderr = &stderr

		if err := cmd.Run(); err != nil {
			var exitErr *exec.ExitError
			if errors.As(err, &exitErr) {
				return CmdResult{ExitCode: exitErr.ExitCode(), Stderr: stderr.String()}
			}
			return CmdResult{ExitCode: -1, Err: err}
		}
		return CmdResult{ExitCode: 0, Stderr: stderr.String()}
	}
}

// InstallOutcome reports one install attempt. Diagnostic carries the
// install command's error output verbatim when OK is false.
type InstallOutcome struct {
	OK         bool
	Diagnostic string
}

// Installer drives the external package manager: a best-effort tool
// upgrade followed by the actual dependency install from the manifest.
type Installer struct {
	interpreter string
	manifest    string
	runCmd      RunCmd
	logger      logging.Logger
}

func NewInstaller(interpreter string, manifest string, runCmd RunCmd, logger logging.Logger) *Installer {
	return &Installer{
		interpreter: interpreter,
		manifest:    manifest,
		runCmd:      runCmd,
		logger:      logger,
	}
}

// Install runs the two-step installation. Faults never propagate as errors;
// every failure mode is folded into the returned outcome.
func (i *Installer) Install(ctx context.Context) InstallOutcome {
	i.logger.Infof("Installing packages from %s", i.manifest)

	// Best-effort pip self-upgrade. Failure here does not affect the
	// overall outcome.
	upgrade := i.runCmd(ctx, i.interpreter, "-m", "pip", "install", "--upgrade", "pip")
	if upgrade.Err != nil || upgrade.ExitCode != 0 {
		i.logger.Debugf("pip self-upgrade failed (ignored), exit: %d, error: %v", upgrade.ExitCode, upgrade.Err)
	}

	install := i.runCmd(ctx, i.interpreter, "-m", "pip", "install", "-r", i.manifest)
	if install.Err != nil {
		i.logger.Errorf("Failed to invoke package installer: %v", install.Err)
		return InstallOutcome{
			OK:         false,
			Diagnostic: fmt.Sprintf("failed to invoke package installer: %v", install.Err),
		}
	}
	if install.ExitCode != 0 {
		i.logger.Errorf("Package installation failed, exit: %d", install.ExitCode)
		return InstallOutcome{
			OK:         false,
			Diagnostic: install.Stderr,
		}
	}

	i.logger.Infof("Package installation complete")
	return InstallOutcome{OK: true}
}
