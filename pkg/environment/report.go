package environment

// ArtifactCheck is one line of the readiness report.
type ArtifactCheck struct {
	Name        string
	Description string
	Present     bool
}

// ReadinessReport is the immutable result of one environment probe.
type ReadinessReport struct {
	Artifacts        []ArtifactCheck
	RuntimeVersion   string
	VersionSupported bool
	MissingKeys      []string
	Diagnostics      []string
}

// Ready reports whether the environment passed every gate: supported
// runtime version, all artifacts present, all required credential keys
// present, and no fault diagnostics.
func (r ReadinessReport) Ready() bool {
	if !r.VersionSupported {
		return false
	}
	for _, artifact := range r.Artifacts {
		if !artifact.Present {
			return false
		}
	}
	return len(r.MissingKeys) == 0 && len(r.Diagnostics) == 0
}

// MissingArtifacts lists the checks that failed, for remediation guidance.
func (r ReadinessReport) MissingArtifacts() []ArtifactCheck {
	var missing []ArtifactCheck
	for _, artifact := range r.Artifacts {
		if !artifact.Present {
			missing = append(missing, artifact)
		}
	}
	return missing
}
