//go:build linux

package browser

import (
	"os/exec"
)

func openURI(uri string) error {
	return exec.Command("xdg-open", uri).Start()
}
