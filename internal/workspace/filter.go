package workspace

import (
	"path"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// skipDirs are never descended into by Walk.
var skipDirs = []string{
	".git",
	"node_modules",
	"vendor",
	"__pycache__",
	"dist",
	"build",
	".next",
	"target",
	".venv",
	".idea",
	".vscode",
}

func shouldSkipDir(name string) bool {
	for _, d := range skipDirs {
		if strings.EqualFold(name, d) {
			return true
		}
	}
	return false
}

// Selected reports whether rel matches an include pattern (or include is
// empty) and no exclude pattern.
func Selected(rel string, include, exclude []string) bool {
	if len(include) > 0 && !matchesAny(rel, include) {
		return false
	}
	return !matchesAny(rel, exclude)
}

// matchesAny matches rel, and then its base name, against doublestar
// patterns.
func matchesAny(rel string, patterns []string) bool {
	base := path.Base(rel)
	for _, pattern := range patterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
		if ok, err := doublestar.Match(pattern, base); err == nil && ok {
			return true
		}
	}
	return false
}
