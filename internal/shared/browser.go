package shared

import (
	"fmt"
	"os/exec"
	"runtime"
)

var getRuntime = func() string { return runtime.GOOS }

// openers maps GOOS to the command that hands a URL to the desktop.
var openers = map[string][]string{
	"darwin":  {"open"},
	"linux":   {"xdg-open"},
	"freebsd": {"xdg-open"},
	"windows": {"cmd", "/c", "start"},
}

// OpenBrowser opens the default system browser at url, used by `kedoo serve --open`.
func OpenBrowser(url string) error {
	rt := getRuntime()
	argv, ok := openers[rt]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", rt)
	}

	args := append(append([]string{}, argv[1:]...), url)
	if err := exec.Command(argv[0], args...).Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}

	return nil
}
