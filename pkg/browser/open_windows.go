//go:build windows

package browser

import (
	"os/exec"
)

func openURI(uri string) error {
	return exec.Command("rundll32", "url.dll,FileProtocolHandler", uri).Start()
}
