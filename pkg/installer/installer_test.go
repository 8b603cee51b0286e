package installer

import (
	"context"
	"errors"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Simple test logger that implements logging.Logger interface
type TestLogger struct{}

func (l *TestLogger) Debugf(format string, args ...interface{}) {}
func (l *TestLogger) Infof(format string, args ...interface{})  {}
func (l *TestLogger) Warnf(format string, args ...interface{})  {}
func (l *TestLogger) Errorf(format string, args ...interface{}) {}

type recordedCall struct {
	name string
	args []string
}

// newScriptedRunCmd returns a RunCmd that replays results in order and
// records every invocation.
func newScriptedRunCmd(results []CmdResult, calls *[]recordedCall) RunCmd {
	index := 0
	return func(ctx context.Context, name string, args ...string) CmdResult {
		*calls = append(*calls, recordedCall{name: name, args: args})
		if index >= len(results) {
			return CmdResult{ExitCode: 0}
		}
		result := results[index]
		index++
		return result
	}
}

func TestInstall_Success(t *testing.T) {
	var calls []recordedCall
	runCmd := newScriptedRunCmd([]CmdResult{
		{ExitCode: 0}, // pip self-upgrade
		{ExitCode: 0}, // install
	}, &calls)

	inst := NewInstaller("python3", "requirements.txt", runCmd, &TestLogger{})
	outcome := inst.Install(context.Background())

	assert.True(t, outcome.OK)
	assert.Empty(t, outcome.Diagnostic)

	require.Len(t, calls, 2)
	assert.Equal(t, []string{"-m", "pip", "install", "--upgrade", "pip"}, calls[0].args)
	assert.Equal(t, []string{"-m", "pip", "install", "-r", "requirements.txt"}, calls[1].args)
}

func TestInstall_UpgradeFailureTolerated(t *testing.T) {
	var calls []recordedCall
	runCmd := newScriptedRunCmd([]CmdResult{
		{ExitCode: 1, Stderr: "could not upgrade pip"},
		{ExitCode: 0},
	}, &calls)

	inst := NewInstaller("python3", "requirements.txt", runCmd, &TestLogger{})
	outcome := inst.Install(context.Background())

	assert.True(t, outcome.OK, "upgrade-step failure alone must not fail the install")
	require.Len(t, calls, 2, "install step must still run after a failed upgrade")
}

func TestInstall_InstallFailureCapturesStderr(t *testing.T) {
	var calls []recordedCall
	runCmd := newScriptedRunCmd([]CmdResult{
		{ExitCode: 0},
		{ExitCode: 1, Stderr: "ERROR: permission denied"},
	}, &calls)

	inst := NewInstaller("python3", "requirements.txt", runCmd, &TestLogger{})
	outcome := inst.Install(context.Background())

	assert.False(t, outcome.OK)
	assert.Contains(t, outcome.Diagnostic, "permission denied")
}

func TestInstall_InvocationFault(t *testing.T) {
	var calls []recordedCall
	runCmd := newScriptedRunCmd([]CmdResult{
		{ExitCode: -1, Err: errors.New("exec: \"python3\": executable file not found in $PATH")},
		{ExitCode: -1, Err: errors.New("exec: \"python3\": executable file not found in $PATH")},
	}, &calls)

	inst := NewInstaller("python3", "requirements.txt", runCmd, &TestLogger{})
	outcome := inst.Install(context.Background())

	assert.False(t, outcome.OK)
	assert.Contains(t, outcome.Diagnostic, "failed to invoke package installer")
	assert.Contains(t, outcome.Diagnostic, "executable file not found")
}

func TestNewExecRunCmd_ExitCodeClassification(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("uses unix shell builtins")
	}
	runCmd := NewExecRunCmd(t.TempDir())

	t.Run("zero exit", func(t *testing.T) {
		result := runCmd(context.Background(), "true")
		assert.NoError(t, result.Err)
		assert.Equal(t, 0, result.ExitCode)
	})

	t.Run("nonzero exit", func(t *testing.T) {
		result := runCmd(context.Background(), "false")
		assert.NoError(t, result.Err)
		assert.Equal(t, 1, result.ExitCode)
	})

	t.Run("missing binary", func(t *testing.T) {
		result := runCmd(context.Background(), "definitely-not-a-real-binary-92837")
		assert.Error(t, result.Err)
	})
}
