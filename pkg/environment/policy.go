package environment

// Artifact names a required filesystem artifact and what it is for. The
// description shows up in remediation guidance when the artifact is missing.
type Artifact struct {
	Path        string
	Description string
}

// Policy defines what "ready" means: which artifacts must exist, which keys
// the credentials file must carry, and the minimum interpreter version.
type Policy struct {
	MinimumVersion  string
	CredentialsFile string
	RequiredKeys    []string
	Artifacts       []Artifact
}

// DefaultPolicy matches the stock RAG service layout: credentials, package
// manifest, backend entry point and front-end page in the working directory.
func DefaultPolicy() Policy {
	return Policy{
		MinimumVersion:  "3.8",
		CredentialsFile: ".env",
		RequiredKeys: []string{
			"SUPABASE_URL",
			"SUPABASE_KEY",
			"GEMINI_API_KEY",
		},
		Artifacts: []Artifact{
			{Path: ".env", Description: ".env file (API key settings)"},
			{Path: "requirements.txt", Description: "requirements.txt (list of Python packages)"},
			{Path: "main.py", Description: "main.py (backend server)"},
			{Path: "index.html", Description: "index.html (front-end UI)"},
		},
	}
}
