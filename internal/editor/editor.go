// Package editor composes issue messages through the user's editor,
// following git's convention: the draft lives at .git/ISSUEMSG and the
// editor comes from core.editor, then $EDITOR, then vi.
package editor

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/gitforge/git-issue/internal/tracker"
)

// Marker is the separator line between title and body in a draft. It is
// removed from the composed result.
const Marker = "<!-- This line will be ignored! Title above, body below. -->"

// Message is a composed issue draft.
type Message struct {
	Title string
	Body  string
}

// runEditor launches the editor on path. A seam for tests.
var runEditor = func(ctx context.Context, editor, path string) error {
	args := []string{path}
	if strings.Contains(editor, "vim") {
		args = []string{"+setfiletype markdown", path}
	}
	cmd := exec.CommandContext(ctx, editor, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// chooseEditor resolves the editor command.
func chooseEditor(ctx context.Context) string {
	out, err := exec.CommandContext(ctx, "git", "config", "--get", "core.editor").Output()
	if editor := strings.TrimSpace(string(out)); err == nil && editor != "" {
		return editor
	}
	if editor := os.Getenv("EDITOR"); editor != "" {
		return editor
	}
	return "vi"
}

// gitDir locates the repository's .git directory.
func gitDir(ctx context.Context) (string, error) {
	out, err := exec.CommandContext(ctx, "git", "rev-parse", "--git-dir").Output()
	if err != nil {
		return "", tracker.Configurationf("not inside a git repository")
	}
	return strings.TrimSpace(string(out)), nil
}

// Compose writes template to the draft file, opens the editor on it,
// and returns the resulting lines. An empty result is a
// ValidationError.
func Compose(ctx context.Context, template string) ([]string, error) {
	dir, err := gitDir(ctx)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(dir, "ISSUEMSG")
	if err := os.WriteFile(path, []byte(template), 0o644); err != nil {
		return nil, tracker.Configurationf("writing draft %s: %v", path, err)
	}
	defer os.Remove(path)

	if err := runEditor(ctx, chooseEditor(ctx), path); err != nil {
		return nil, tracker.Configurationf("running editor: %v", err)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, tracker.Configurationf("reading draft %s: %v", path, err)
	}
	if strings.TrimSpace(string(content)) == "" {
		return nil, tracker.Validationf("aborted due to empty message")
	}
	return strings.Split(strings.TrimRight(string(content), "\n"), "\n"), nil
}

// ComposeIssue opens a title/body draft seeded with the given values
// and splits the result on the marker convention: first line is the
// title, the marker line is dropped, the rest is the body.
func ComposeIssue(ctx context.Context, title, body string) (Message, error) {
	template := strings.Join([]string{title, Marker, body, ""}, "\n")
	lines, err := Compose(ctx, template)
	if err != nil {
		return Message{}, err
	}
	return SplitDraft(lines)
}

// ComposeText opens an empty draft and returns the full text, for
// comment bodies and close messages.
func ComposeText(ctx context.Context) (string, error) {
	lines, err := Compose(ctx, "\n")
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

// SplitDraft converts edited draft lines into a Message, dropping the
// marker line wherever it survived the edit.
func SplitDraft(lines []string) (Message, error) {
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == Marker {
			continue
		}
		kept = append(kept, line)
	}
	if len(kept) == 0 {
		return Message{}, tracker.Validationf("aborted due to empty message")
	}
	msg := Message{Title: strings.TrimSpace(kept[0])}
	if len(kept) > 1 {
		msg.Body = strings.TrimSpace(strings.Join(kept[1:], "\n"))
	}
	if msg.Title == "" && msg.Body == "" {
		return Message{}, tracker.Validationf("aborted due to empty message")
	}
	return msg, nil
}
