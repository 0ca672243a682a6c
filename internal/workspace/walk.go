package workspace

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultMaxFileSize is the largest file Walk reports (1 MB).
const DefaultMaxFileSize int64 = 1 << 20

// File is a project file found by Walk or listed by git.
type File struct {
	RelPath  string // slash-separated, relative to the project root
	Size     int64
	Language string
}

// WalkOptions control Walk.
type WalkOptions struct {
	Root        string
	Include     []string // doublestar patterns; empty includes everything
	Exclude     []string // doublestar patterns
	MaxFileSize int64    // 0 uses DefaultMaxFileSize
}

// Walk lists the text files under opts.Root, skipping default-excluded
// directories, .gitignore matches and binary or oversized files. Results
// are sorted by path.
func Walk(ctx context.Context, opts WalkOptions) ([]File, error) {
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("workspace: resolve root: %w", err)
	}

	maxSize := opts.MaxFileSize
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	ignored := loadGitignore(filepath.Join(root, ".gitignore"))

	var files []File
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			// Unreadable entries are skipped.
			return nil
		}

		if d.IsDir() {
			if path != root && shouldSkipDir(d.Name()) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if matchesGitignore(rel, ignored) || !Selected(rel, opts.Include, opts.Exclude) {
			return nil
		}

		info, err := d.Info()
		if err != nil || info.Size() > maxSize || isBinary(path) {
			return nil
		}

		files = append(files, File{
			RelPath:  rel,
			Size:     info.Size(),
			Language: DetectLanguage(rel),
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("workspace: walk %s: %w", root, err)
	}

	sort.Slice(files, func(i, j int) bool { return files[i].RelPath < files[j].RelPath })
	return files, nil
}

// isBinary reports whether the first 512 bytes of a file contain a NUL.
func isBinary(path string) bool {
	f, err := os.Open(path)
	if err != nil {
		return true
	}
	defer f.Close()

	buf := make([]byte, 512)
	n, err := f.Read(buf)
	if err != nil && err != io.EOF {
		return true
	}
	for _, b := range buf[:n] {
		if b == 0 {
			return true
		}
	}
	return false
}

// loadGitignore returns the non-empty, non-comment lines of a .gitignore.
func loadGitignore(path string) []string {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var patterns []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "!") {
			continue
		}
		patterns = append(patterns, line)
	}
	return patterns
}

// matchesGitignore checks a slash-separated relative path against
// .gitignore patterns. Patterns without a slash match any path component;
// a trailing slash restricts a pattern to directories.
func matchesGitignore(rel string, patterns []string) bool {
	parts := strings.Split(rel, "/")
	for _, pattern := range patterns {
		dirOnly := strings.HasSuffix(pattern, "/")
		pattern = strings.TrimSuffix(pattern, "/")

		if strings.Contains(pattern, "/") {
			pattern = strings.TrimPrefix(pattern, "/")
			if ok, _ := filepath.Match(pattern, rel); ok && !dirOnly {
				return true
			}
			if strings.HasPrefix(rel, pattern+"/") {
				return true
			}
			continue
		}

		for i, part := range parts {
			ok, _ := filepath.Match(pattern, part)
			if !ok {
				continue
			}
			// The last component is the file itself.
			if !dirOnly || i < len(parts)-1 {
				return true
			}
		}
	}
	return false
}
