package workspace

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"strings"
)

// git runs a git subcommand in dir and returns its stdout.
func git(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("git %s: %w: %s", args[0], err, msg)
		}
		return nil, fmt.Errorf("git %s: %w", args[0], err)
	}
	return out, nil
}

// GitAvailable reports whether a git binary is on PATH.
func GitAvailable() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// CommitSubjects returns up to n recent commit subjects in dir, newest
// first, with repeats removed. Outside a repository, or without git, it
// returns nil.
func CommitSubjects(ctx context.Context, dir string, n int) []string {
	if n <= 0 || !GitAvailable() {
		return nil
	}
	out, err := git(ctx, dir, "log", "--oneline", "-n", fmt.Sprint(n), "--pretty=format:%s")
	if err != nil {
		return nil
	}
	return uniqueLines(string(out))
}

// TrackedFiles lists the files git tracks under dir, relative to dir.
func TrackedFiles(ctx context.Context, dir string) ([]string, error) {
	out, err := git(ctx, dir, "ls-files")
	if err != nil {
		return nil, err
	}
	return nonEmptyLines(string(out)), nil
}

// IsGitTracked reports whether git tracks the file at path.
func IsGitTracked(ctx context.Context, path string) bool {
	if !GitAvailable() {
		return false
	}
	dir := filepath.Dir(path)
	_, err := git(ctx, dir, "ls-files", "--error-unmatch", "--", filepath.Base(path))
	return err == nil
}

func nonEmptyLines(s string) []string {
	var lines []string
	for _, line := range strings.Split(s, "\n") {
		if line = strings.TrimRight(line, "\r"); line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

func uniqueLines(s string) []string {
	seen := map[string]bool{}
	var lines []string
	for _, line := range nonEmptyLines(s) {
		if seen[line] {
			continue
		}
		seen[line] = true
		lines = append(lines, line)
	}
	return lines
}
