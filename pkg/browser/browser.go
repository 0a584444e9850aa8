// Package browser provides cross-platform browser opening functionality.
package browser

import (
	"fmt"
	"net/url"
	"os/exec"
	"runtime"
)

// openCommands maps GOOS to the command that hands a URL to the desktop.
var openCommands = map[string][]string{
	"linux":   {"xdg-open"},
	"darwin":  {"open"},
	"windows": {"rundll32", "url.dll,FileProtocolHandler"},
}

// Open opens the specified URL in the default browser. Only http and https
// URLs are accepted; anything else could smuggle a command to the shell
// (CWE-78).
func Open(urlString string) error {
	parsedURL, err := url.Parse(urlString)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("unsupported URL scheme: %q (only http and https allowed)", parsedURL.Scheme)
	}

	command, ok := openCommands[runtime.GOOS]
	if !ok {
		return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}

	args := append(command[1:], urlString)
	return exec.Command(command[0], args...).Start() // #nosec G204 -- URL validated above
}
