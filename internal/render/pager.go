package render

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Page writes content through the pager when stdout is a terminal,
// falling back to a plain write otherwise. The pager flags mirror git's
// defaults: quit on one screen, pass ANSI colors, no screen clear.
func Page(content string) error {
	info, err := os.Stdout.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return PageTo(os.Stdout, content)
	}

	pager := os.Getenv("PAGER")
	args := []string{"-F", "-R", "-X", "-K"}
	if pager == "" {
		pager = "less"
	} else {
		args = nil
	}

	cmd := exec.Command(pager, args...)
	cmd.Stdin = strings.NewReader(content)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		// A quit pager is not a failure.
		if _, ok := err.(*exec.ExitError); ok {
			return nil
		}
		return fmt.Errorf("running pager %s: %w", pager, err)
	}
	return nil
}

// PageTo writes content to an explicit writer, bypassing the pager.
// Page falls back to it when stdout is not a terminal.
func PageTo(w io.Writer, content string) error {
	_, err := fmt.Fprintln(w, content)
	return err
}
