package profile

import (
	"os/exec"
	"runtime"
	"strings"

	"github.com/pkg/errors"
)

// OpenBrowser opens url in the user's default browser. Only http and https
// URLs are accepted.
func OpenBrowser(url string) error {
	cmd, args, err := browserCommand(runtime.GOOS, url)
	if err != nil {
		return err
	}
	return exec.Command(cmd, args...).Start()
}

func browserCommand(goos, url string) (string, []string, error) {
	// Validate URL scheme to prevent command injection
	lower := strings.ToLower(url)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", nil, errors.Errorf("refusing to open non-HTTP URL: %s", url)
	}
	switch goos {
	case "darwin":
		return "open", []string{url}, nil
	case "linux", "freebsd", "openbsd":
		return "xdg-open", []string{url}, nil
	case "windows":
		return "rundll32", []string{"url.dll,FileProtocolHandler", url}, nil
	}
	return "", nil, errors.Errorf("unsupported platform %s", goos)
}
