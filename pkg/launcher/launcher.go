package launcher

import (
	"bufio"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"

	"github.com/rag-tools/rag-launcher-go/pkg/browser"
	"github.com/rag-tools/rag-launcher-go/pkg/environment"
	"github.com/rag-tools/rag-launcher-go/pkg/errors"
	"github.com/rag-tools/rag-launcher-go/pkg/installer"
	"github.com/rag-tools/rag-launcher-go/pkg/logging"
	"github.com/rag-tools/rag-launcher-go/pkg/supervisor"
)

// Launcher sequences the bootstrap: probe, confirm, install, spawn, browser,
// wait, shutdown. Each gate must pass before the next stage runs; the
// browser stage never gates anything.
type Launcher struct {
	config     Config
	probe      EnvironmentProbe
	installer  DependencyInstaller
	supervisor ProcessSupervisor
	browser    BrowserLauncher
	stdin      io.Reader
	stdout     io.Writer
	logger     logging.Logger
	runID      string
}

// NewLauncher wires the production components from the configuration.
func NewLauncher(config Config, baseLogger logging.Logger) *Launcher {
	runID := uuid.NewString()
	logger := logging.NewLogger(
		fmt.Sprintf("run: %s , ", runID[:8]),
		logging.LogFuncs{
			Debugf: baseLogger.Debugf,
			Infof:  baseLogger.Infof,
			Warnf:  baseLogger.Warnf,
			Errorf: baseLogger.Errorf,
		})

	policy := environment.Policy{
		MinimumVersion:  config.MinimumRuntimeVersion,
		CredentialsFile: config.CredentialsFile,
		RequiredKeys:    config.RequiredKeys,
		Artifacts: []environment.Artifact{
			{Path: config.CredentialsFile, Description: "credentials file (API key settings)"},
			{Path: config.Manifest, Description: "dependency manifest (list of Python packages)"},
			{Path: config.BackendEntryPoint, Description: "backend server entry point"},
			{Path: config.FrontendEntryPoint, Description: "front-end UI entry point"},
		},
	}

	probe := environment.NewProbe(
		policy,
		config.WorkingDirectory,
		environment.NewInterpreterVersionCmd(config.Interpreter),
		logger,
	)

	pkgInstaller := installer.NewInstaller(
		config.Interpreter,
		config.Manifest,
		installer.NewExecRunCmd(config.WorkingDirectory),
		logger,
	)

	backendSupervisor := supervisor.NewSupervisor(
		supervisor.Config{
			ExecuteCmd:         supervisor.NewBackendExecuteCmd(config.Interpreter, config.BackendEntryPoint, config.WorkingDirectory, logger),
			StartupGracePeriod: config.StartupGracePeriod.Std(),
			GracefulTimeout:    config.GracefulTimeout.Std(),
		},
		logger,
	)

	return &Launcher{
		config:     config,
		probe:      probe,
		installer:  pkgInstaller,
		supervisor: supervisorAdapter{supervisor: backendSupervisor},
		browser:    browser.NewLauncher(logger),
		stdin:      os.Stdin,
		stdout:     os.Stdout,
		logger:     logger,
		runID:      runID,
	}
}

// Run executes the bootstrap sequence and returns the process exit code:
// 0 for clean shutdown or user cancellation at the prompt, 1 for any
// precondition, install, spawn or wait-phase failure.
func (l *Launcher) Run(ctx context.Context) int {
	printBanner(l.stdout)
	l.logger.Infof("Launcher starting, run: %s", l.runID)

	report := l.probe.Check(ctx)
	if !report.Ready() {
		printReadinessGuidance(l.stdout, report, l.config.MinimumRuntimeVersion)
		l.logger.Errorf("Environment not ready, aborting")
		return 1
	}
	l.logger.Infof("All requirements are ready")

	if !l.confirmInstall() {
		l.logger.Infof("Cancelled by user at the install prompt")
		return 0
	}

	outcome := l.installer.Install(ctx)
	if !outcome.OK {
		printInstallGuidance(l.stdout, outcome, l.config.Manifest)
		l.logger.Errorf("Dependency installation failed, aborting")
		return 1
	}

	fmt.Fprintf(l.stdout, "\nInitializing server (waiting %v)...\n", l.config.StartupGracePeriod.Std())
	process, err := l.supervisor.Spawn(ctx)
	if err != nil {
		printSpawnGuidance(l.stdout, spawnOutput(err))
		l.logger.Errorf("Backend spawn failed: %v", err)
		return 1
	}

	if !l.config.SkipBrowser {
		frontend := l.config.FrontendEntryPoint
		if l.config.WorkingDirectory != "" && !filepath.IsAbs(frontend) {
			frontend = filepath.Join(l.config.WorkingDirectory, frontend)
		}
		if err := l.browser.Open(frontend); err != nil {
			l.logger.Warnf("Failed to open the browser automatically: %v", err)
			fmt.Fprintf(l.stdout, "Please open %s in your browser manually.\n", frontend)
		}
	}

	printUsageInfo(l.stdout, l.config.BackendURL, l.config.FrontendEntryPoint)

	return l.superviseUntilExit(ctx, process)
}

// superviseUntilExit blocks on the backend until it exits naturally or the
// user interrupts. The signal handler is registered exactly once, before
// the wait phase, and only cancels the wait context and feeds the
// escalation channel; it never manipulates the child process itself.
func (l *Launcher) superviseUntilExit(ctx context.Context, process SupervisedProcess) int {
	waitCtx, cancelWait := context.WithCancel(ctx)
	defer cancelWait()

	sigCh := make(chan os.Signal, 2)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	escalate := make(chan struct{}, 1)
	go func() {
		<-sigCh
		cancelWait()
		// A second interrupt escalates to an immediate forced kill;
		// further interrupts are ignored.
		<-sigCh
		select {
		case escalate <- struct{}{}:
		default:
		}
	}()

	l.logger.Infof("The server is running, press Ctrl+C to stop, PID: %d", process.PID())

	state, err := l.supervisor.Wait(waitCtx, process)
	if err == nil {
		exitCode := process.ExitCode()
		if exitCode == 0 {
			l.logger.Infof("Backend exited cleanly")
			return 0
		}
		l.logger.Errorf("Backend exited unexpectedly, exit code: %d", exitCode)
		if output := process.Output(); output != "" {
			fmt.Fprintln(l.stdout, "\nCaptured backend output:")
			fmt.Fprintln(l.stdout, output)
		}
		return 1
	}

	if !errors.IsCancelledError(err) {
		l.logger.Errorf("Unexpected fault while waiting for the backend: %v", err)
		return 1
	}

	fmt.Fprintln(l.stdout, "\nStopping the server...")
	state, err = l.supervisor.Shutdown(context.Background(), process, escalate)
	if err != nil {
		l.logger.Errorf("Shutdown fault (final state %s): %v", state, err)
	} else {
		l.logger.Infof("The server has been stopped, final state: %s", state)
	}
	fmt.Fprintln(l.stdout, "The server has been stopped.")
	return 0
}

// confirmInstall asks the y/N question. Empty input and anything other than
// y/yes means no.
func (l *Launcher) confirmInstall() bool {
	if l.config.AutoConfirm {
		l.logger.Debugf("Install prompt auto-confirmed by configuration")
		return true
	}

	fmt.Fprint(l.stdout, "\nChecking and installing dependencies.\nDo you want to continue? (y/N): ")

	scanner := bufio.NewScanner(l.stdin)
	if !scanner.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(scanner.Text()))
	return answer == "y" || answer == "yes"
}

// spawnOutput extracts the captured child output attached to a spawn error.
func spawnOutput(err error) string {
	var domainErr *errors.DomainError
	if !stderrors.As(err, &domainErr) {
		return ""
	}
	if output, ok := domainErr.Context["output"].(string); ok {
		return output
	}
	return ""
}
