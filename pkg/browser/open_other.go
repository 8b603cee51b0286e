//go:build !linux && !darwin && !windows

package browser

import (
	"fmt"
	"runtime"
)

func openURI(uri string) error {
	return fmt.Errorf("no default browser handler for %s", runtime.GOOS)
}
