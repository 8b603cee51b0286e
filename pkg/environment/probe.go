package environment

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/joho/godotenv"

	"github.com/rag-tools/rag-launcher-go/pkg/logging"
)

// Probe checks that the local environment can run the backend: interpreter
// version, required artifacts, credential keys.
type Probe struct {
	policy     Policy
	workDir    string
	versionCmd VersionCmd
	logger     logging.Logger
}

func NewProbe(policy Policy, workDir string, versionCmd VersionCmd, logger logging.Logger) *Probe {
	return &Probe{
		policy:     policy,
		workDir:    workDir,
		versionCmd: versionCmd,
		logger:     logger,
	}
}

// Check collects a filesystem snapshot and evaluates it against the policy.
// A not-ready environment is a normal outcome, not an error.
func (p *Probe) Check(ctx context.Context) ReadinessReport {
	p.logger.Infof("Checking requirements, working directory: %s", p.workDir)

	snapshot := Collect(ctx, p.policy, p.workDir, p.versionCmd)
	report := Evaluate(snapshot, p.policy)

	p.logger.Infof("Runtime version: %s, supported: %t", report.RuntimeVersion, report.VersionSupported)
	for _, artifact := range report.Artifacts {
		if artifact.Present {
			p.logger.Infof("Artifact present: %s", artifact.Name)
		} else {
			p.logger.Warnf("Artifact missing: %s - %s", artifact.Name, artifact.Description)
		}
	}
	for _, key := range report.MissingKeys {
		p.logger.Warnf("Credentials key missing: %s", key)
	}
	for _, diagnostic := range report.Diagnostics {
		p.logger.Warnf("Environment diagnostic: %s", diagnostic)
	}

	return report
}

// Evaluate judges a snapshot against a policy. Pure function: all
// filesystem and interpreter access happens in Collect.
func Evaluate(snapshot Snapshot, policy Policy) ReadinessReport {
	report := ReadinessReport{}

	report.RuntimeVersion, report.VersionSupported = evaluateVersion(snapshot, policy, &report)

	for _, artifact := range policy.Artifacts {
		fact := snapshot.Artifacts[artifact.Path]
		report.Artifacts = append(report.Artifacts, ArtifactCheck{
			Name:        artifact.Path,
			Description: artifact.Description,
			Present:     fact.Exists,
		})
	}

	evaluateCredentials(snapshot, policy, &report)

	return report
}

func evaluateVersion(snapshot Snapshot, policy Policy, report *ReadinessReport) (string, bool) {
	if snapshot.VersionErr != nil {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("failed to query runtime version: %v", snapshot.VersionErr))
		return snapshot.VersionBanner, false
	}

	raw := extractVersion(snapshot.VersionBanner)
	version, err := semver.NewVersion(raw)
	if err != nil {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("unrecognized runtime version banner: %q", snapshot.VersionBanner))
		return snapshot.VersionBanner, false
	}

	minimum, err := semver.NewVersion(policy.MinimumVersion)
	if err != nil {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("invalid minimum version in policy: %q", policy.MinimumVersion))
		return version.String(), false
	}

	return version.String(), !version.LessThan(minimum)
}

func evaluateCredentials(snapshot Snapshot, policy Policy, report *ReadinessReport) {
	fact, ok := snapshot.Artifacts[policy.CredentialsFile]
	if !ok || !fact.Exists {
		// Absence is already reported as a missing artifact; key checks
		// only apply to a file that exists.
		return
	}

	if fact.ReadErr != nil {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("credentials file %s exists but could not be read: %v", policy.CredentialsFile, fact.ReadErr))
		return
	}

	values, err := godotenv.Unmarshal(fact.Content)
	if err != nil {
		report.Diagnostics = append(report.Diagnostics,
			fmt.Sprintf("credentials file %s could not be parsed: %v", policy.CredentialsFile, err))
		return
	}

	for _, key := range policy.RequiredKeys {
		if _, present := values[key]; !present {
			report.MissingKeys = append(report.MissingKeys, key)
		}
	}
}

// extractVersion pulls the numeric version out of a banner like
// "Python 3.11.4".
func extractVersion(banner string) string {
	fields := strings.Fields(banner)
	if len(fields) == 0 {
		return banner
	}
	return fields[len(fields)-1]
}
