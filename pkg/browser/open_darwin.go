//go:build darwin

package browser

import (
	"os/exec"
)

func openURI(uri string) error {
	return exec.Command("open", uri).Start()
}
