package browser

import (
	"net/url"
	"path/filepath"

	"github.com/rag-tools/rag-launcher-go/pkg/errors"
	"github.com/rag-tools/rag-launcher-go/pkg/logging"
)

// Launcher opens local files in the user's default browser. Strictly
// best-effort: callers treat every returned error as a warning.
type Launcher struct {
	logger logging.Logger
}

func NewLauncher(logger logging.Logger) *Launcher {
	return &Launcher{logger: logger}
}

// Open resolves path to a file:// URI and hands it to the host's default
// handler.
func (l *Launcher) Open(path string) error {
	uri, err := FileURI(path)
	if err != nil {
		return err
	}

	l.logger.Infof("Opening in browser: %s", uri)

	if err := openURI(uri); err != nil {
		return errors.NewIOError("failed to open browser", err).WithContext("uri", uri)
	}
	return nil
}

// FileURI converts a local path to an absolute file:// URI.
func FileURI(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", errors.NewIOError("failed to resolve path", err).WithContext("path", path)
	}
	uri := url.URL{
		Scheme: "file",
		Path:   filepath.ToSlash(absPath),
	}
	return uri.String(), nil
}
