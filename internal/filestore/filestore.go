// Package filestore reads and rewrites source files for refactoring and
// shows what changed.
package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
)

// BackupSuffix is appended to a file's path to name its backup.
const BackupSuffix = ".bak"

// Read returns the contents of the file at path.
func Read(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}

// Write replaces the contents of path, keeping its permission bits when the
// file already exists.
func Write(path string, data []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}

	// Write to a temp file in the same directory and rename over the original.
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Chmod(mode); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// BackupPath returns the backup file name for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// Backup writes data to the backup file for path and returns its name.
func Backup(path string, data []byte) (string, error) {
	backup := BackupPath(path)
	if err := os.WriteFile(backup, data, 0o644); err != nil {
		return "", fmt.Errorf("writing backup %s: %w", backup, err)
	}
	return backup, nil
}

// ShowDiff writes the change to path to w: "git diff -w" when the file is
// tracked, otherwise "diff -u --color" against backup. Finding differences
// is not an error.
func ShowDiff(ctx context.Context, w io.Writer, path, backup string, tracked bool) error {
	var cmd *exec.Cmd
	if tracked {
		cmd = exec.CommandContext(ctx, "git", "diff", "-w", "--", filepath.Base(path))
		cmd.Dir = filepath.Dir(path)
	} else {
		cmd = exec.CommandContext(ctx, "diff", "-u", "--color", backup, path)
	}
	cmd.Stdout = w
	cmd.Stderr = w

	err := cmd.Run()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && exitErr.ExitCode() == 1 {
		return nil
	}
	if err != nil {
		return fmt.Errorf("showing diff for %s: %w", path, err)
	}
	return nil
}
