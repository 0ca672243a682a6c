package workspace

import (
	"context"
	"fmt"
	"os"
	"regexp"
	"runtime"
	"sort"
	"strings"
	"unicode/utf8"
)

// osReleasePath is read by SystemInfo.
var osReleasePath = "/etc/os-release"

// SystemInfo describes the host for shell prompts: the contents of
// /etc/os-release, or GOOS/GOARCH when that file is absent.
func SystemInfo() string {
	data, err := os.ReadFile(osReleasePath)
	if err == nil && len(strings.TrimSpace(string(data))) > 0 {
		return strings.TrimSpace(string(data))
	}
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}

// Listing returns the entry names of dir, sorted, including "." and "..".
func Listing(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", dir, err)
	}
	names := []string{".", ".."}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names[2:])
	return names, nil
}

// ProjectOptions select the files keywords and language come from.
type ProjectOptions struct {
	Include []string
	Exclude []string
}

// ProjectFiles lists the code files of the project in dir: git-tracked
// files when dir is inside a repository, otherwise a Walk of dir.
func ProjectFiles(ctx context.Context, dir string, opts ProjectOptions) ([]string, error) {
	if GitAvailable() {
		if tracked, err := TrackedFiles(ctx, dir); err == nil {
			var files []string
			for _, f := range tracked {
				if Selected(f, opts.Include, opts.Exclude) {
					files = append(files, f)
				}
			}
			return files, nil
		}
	}

	walked, err := Walk(ctx, WalkOptions{Root: dir, Include: opts.Include, Exclude: opts.Exclude})
	if err != nil {
		return nil, err
	}
	files := make([]string, len(walked))
	for i, f := range walked {
		files[i] = f.RelPath
	}
	return files, nil
}

var wordPattern = regexp.MustCompile(`[a-zA-Z]+`)

// Keywords splits paths into alphabetic words and returns each distinct
// word once, most frequent first, ties in alphabetical order.
func Keywords(paths []string) []string {
	counts := map[string]int{}
	for _, p := range paths {
		for _, w := range wordPattern.FindAllString(p, -1) {
			counts[w]++
		}
	}

	words := make([]string, 0, len(counts))
	for w := range counts {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if counts[words[i]] != counts[words[j]] {
			return counts[words[i]] > counts[words[j]]
		}
		return words[i] < words[j]
	})
	return words
}

// Truncate cuts s to at most max bytes without splitting a UTF-8 sequence.
func Truncate(s string, max int) string {
	if max <= 0 || len(s) <= max {
		return s
	}
	cut := max
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut]
}
