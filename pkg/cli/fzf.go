package cli

import (
	"bytes"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
)

// SelectFileWithFzf launches fzf over the raster images found under
// startDir and returns the selected path. Requires `find` and `fzf`
// on PATH.
func SelectFileWithFzf(startDir string) (string, error) {
	quotedDir := strconv.Quote(startDir)
	cmdStr := fmt.Sprintf(
		"find %s -type f \\( -iname '*.jpg' -o -iname '*.jpeg' -o -iname '*.png' -o -iname '*.gif' -o -iname '*.bmp' \\) | fzf --height 100%% --border --prompt='Image> '",
		quotedDir,
	)
	cmd := exec.Command("bash", "-lc", cmdStr)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf for files: %w", err)
	}

	selection := strings.TrimSpace(out.String())
	if selection == "" {
		return "", fmt.Errorf("no file selected")
	}
	return selection, nil
}

// SelectPortWithFzf lists likely serial device nodes plus the
// "Simulation" pseudo-port and lets the user fzf-pick one.
func SelectPortWithFzf() (string, error) {
	cmdStr := "{ printf 'Simulation\\n'; find /dev -maxdepth 1 \\( -name 'ttyUSB*' -o -name 'ttyACM*' -o -name 'cu.*' \\) 2>/dev/null; } | fzf --height 40% --border --prompt='Port> '"
	cmd := exec.Command("bash", "-lc", cmdStr)

	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("error running fzf for ports: %w", err)
	}

	selection := strings.TrimSpace(out.String())
	if selection == "" {
		return "", fmt.Errorf("no port selected")
	}
	return selection, nil
}
