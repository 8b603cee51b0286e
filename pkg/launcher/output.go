package launcher

import (
	"fmt"
	"io"

	"github.com/rag-tools/rag-launcher-go/pkg/environment"
	"github.com/rag-tools/rag-launcher-go/pkg/installer"
)

const bannerRule = "============================================================"

// User-facing console output. These go to stdout directly rather than the
// logger: they are the product surface of the launcher, not diagnostics.

func printBanner(w io.Writer) {
	fmt.Fprintln(w, bannerRule)
	fmt.Fprintln(w, "RAG Question-Answering System")
	fmt.Fprintln(w, bannerRule)
	fmt.Fprintln(w, "Features:")
	fmt.Fprintln(w, "   - AI-based question answering")
	fmt.Fprintln(w, "   - Document-based search (Supabase + vector DB)")
	fmt.Fprintln(w, "   - Web UI")
	fmt.Fprintln(w, bannerRule)
}

func printReadinessGuidance(w io.Writer, report environment.ReadinessReport, minimumVersion string) {
	if !report.VersionSupported {
		fmt.Fprintf(w, "\nPython %s or higher is required (found: %s).\n", minimumVersion, report.RuntimeVersion)
	}

	if missing := report.MissingArtifacts(); len(missing) > 0 {
		fmt.Fprintln(w, "\nThe following files are missing:")
		for _, artifact := range missing {
			fmt.Fprintf(w, "   %s - %s\n", artifact.Name, artifact.Description)
		}
	}

	if len(report.MissingKeys) > 0 {
		fmt.Fprintln(w, "\nThe following settings are missing in the .env file:")
		for _, key := range report.MissingKeys {
			fmt.Fprintf(w, "   %s=your_value_here\n", key)
		}
		fmt.Fprintln(w, "\n.env file example:")
		fmt.Fprintln(w, "SUPABASE_URL=https://your-project.supabase.co")
		fmt.Fprintln(w, "SUPABASE_KEY=your_supabase_anon_key")
		fmt.Fprintln(w, "GEMINI_API_KEY=your_gemini_api_key")
	}

	for _, diagnostic := range report.Diagnostics {
		fmt.Fprintf(w, "\n%s\n", diagnostic)
	}

	fmt.Fprintln(w, "\nHelp:")
	fmt.Fprintln(w, "   1. Make sure all required files are in the working directory")
	fmt.Fprintln(w, "   2. Make sure the correct API keys are set in the .env file")
}

func printInstallGuidance(w io.Writer, outcome installer.InstallOutcome, manifest string) {
	fmt.Fprintln(w, "\nPackage installation failed:")
	if outcome.Diagnostic != "" {
		fmt.Fprintf(w, "   %s\n", outcome.Diagnostic)
	}
	fmt.Fprintln(w, "\nHow to solve:")
	fmt.Fprintln(w, "   1. Check if you are using a virtual environment")
	fmt.Fprintf(w, "   2. Run 'pip install -r %s' directly\n", manifest)
	fmt.Fprintln(w, "   3. Check your Python version (3.8+ required)")
}

func printSpawnGuidance(w io.Writer, output string) {
	fmt.Fprintln(w, "\nServer failed to start.")
	if output != "" {
		fmt.Fprintln(w, "Captured output:")
		fmt.Fprintln(w, output)
	}
}

func printUsageInfo(w io.Writer, backendURL string, frontend string) {
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, bannerRule)
	fmt.Fprintln(w, "RAG system is running.")
	fmt.Fprintln(w, bannerRule)
	fmt.Fprintln(w, "Access information:")
	fmt.Fprintf(w, "   - Backend API: %s\n", backendURL)
	fmt.Fprintf(w, "   - Front end: %s (opens in your browser)\n", frontend)
	fmt.Fprintf(w, "   - API documentation: %s/docs\n", backendURL)
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "To stop: press Ctrl+C")
	fmt.Fprintln(w, bannerRule)
}
