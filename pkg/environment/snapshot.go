package environment

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ArtifactFact records what the filesystem said about one artifact.
type ArtifactFact struct {
	Exists  bool
	ReadErr error  // set when the artifact exists but could not be read
	Content string // populated only for the credentials file
}

// Snapshot is a point-in-time view of the facts Evaluate judges: the
// interpreter version banner and the state of each required artifact.
// Collecting facts is separated from judging them so the readiness policy
// can be tested without touching the real filesystem.
type Snapshot struct {
	VersionBanner string
	VersionErr    error
	Artifacts     map[string]ArtifactFact
}

// VersionCmd obtains the runtime's version banner, e.g. "Python 3.11.4".
type VersionCmd func(ctx context.Context) (string, error)

// NewInterpreterVersionCmd builds a VersionCmd that invokes the interpreter
// with --version. Output is combined because some interpreters print the
// banner to stderr.
func NewInterpreterVersionCmd(interpreterPath string) VersionCmd {
	return func(ctx context.Context) (string, error) {
		out, err := exec.CommandContext(ctx, interpreterPath, "--version").CombinedOutput()
		return strings.TrimSpace(string(out)), err
	}
}

// Collect gathers a Snapshot for the given policy. Missing or unreadable
// artifacts are recorded as facts, never returned as errors.
func Collect(ctx context.Context, policy Policy, workDir string, versionCmd VersionCmd) Snapshot {
	snapshot := Snapshot{
		Artifacts: make(map[string]ArtifactFact, len(policy.Artifacts)),
	}

	snapshot.VersionBanner, snapshot.VersionErr = versionCmd(ctx)

	for _, artifact := range policy.Artifacts {
		path := artifact.Path
		if workDir != "" && !filepath.IsAbs(path) {
			path = filepath.Join(workDir, path)
		}

		fact := ArtifactFact{}
		if _, err := os.Stat(path); err == nil {
			fact.Exists = true
			if artifact.Path == policy.CredentialsFile {
				content, readErr := os.ReadFile(path)
				if readErr != nil {
					fact.ReadErr = readErr
				} else {
					fact.Content = string(content)
				}
			}
		}
		snapshot.Artifacts[artifact.Path] = fact
	}

	return snapshot
}
