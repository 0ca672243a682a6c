package workspace

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"testing"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func relPaths(files []File) []string {
	out := make([]string, len(files))
	for i, f := range files {
		out[i] = f.RelPath
	}
	return out
}

// gitRepo creates a repository in a temp dir with the given files committed.
func gitRepo(t *testing.T, files map[string]string, subjects ...string) string {
	t.Helper()
	if !GitAvailable() {
		t.Skip("git not installed")
	}
	dir := t.TempDir()
	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-c", "user.name=test", "-c", "user.email=test@example.com"}, args...)...)
		cmd.Dir = dir
		cmd.Env = append(os.Environ(), "GIT_CONFIG_GLOBAL=/dev/null", "GIT_CONFIG_NOSYSTEM=1")
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v\n%s", args, err, out)
		}
	}
	run("init", "-q")
	for rel, content := range files {
		writeFile(t, dir, rel, content)
	}
	run("add", ".")
	if len(subjects) == 0 {
		subjects = []string{"initial commit"}
	}
	for _, s := range subjects {
		run("commit", "-q", "--allow-empty", "-m", s)
	}
	return dir
}

func TestWalkBasicTraversal(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "main.go", "package main")
	writeFile(t, dir, "auth/middleware.go", "package auth")
	writeFile(t, dir, "utils.py", "def f(): pass")

	files, err := Walk(context.Background(), WalkOptions{Root: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := []string{"auth/middleware.go", "main.go", "utils.py"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
	for _, f := range files {
		if f.RelPath == "utils.py" && f.Language != "Python" {
			t.Errorf("utils.py language = %q", f.Language)
		}
	}
}

func TestWalkIncludeExclude(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app/models/user.rb", "class User; end")
	writeFile(t, dir, "app/assets/app.min.js", "x")
	writeFile(t, dir, "app/assets/app.js", "x")
	writeFile(t, dir, "README.md", "# readme")

	files, err := Walk(context.Background(), WalkOptions{
		Root:    dir,
		Include: []string{"**/*.rb", "**/*.js"},
		Exclude: []string{"*.min.*"},
	})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := []string{"app/assets/app.js", "app/models/user.rb"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalkSkipsBinaryAndLargeFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "readme.md", "# Hello")
	writeFile(t, dir, "image.bin", "abc\x00def")
	writeFile(t, dir, "big.txt", strings.Repeat("A", 200))

	files, err := Walk(context.Background(), WalkOptions{Root: dir, MaxFileSize: 100})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := relPaths(files); !reflect.DeepEqual(got, []string{"readme.md"}) {
		t.Errorf("expected only readme.md, got %v", got)
	}
}

func TestWalkDefaultSkipDirs(t *testing.T) {
	dir := t.TempDir()
	for _, d := range []string{"node_modules", ".git", "vendor", "__pycache__"} {
		writeFile(t, dir, d+"/file.js", "content")
	}
	writeFile(t, dir, "app.js", "const x = 1;")

	files, err := Walk(context.Background(), WalkOptions{Root: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}
	if got := relPaths(files); !reflect.DeepEqual(got, []string{"app.js"}) {
		t.Errorf("expected only app.js, got %v", got)
	}
}

func TestWalkGitignore(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, ".gitignore", "# comment\n*.log\nsecret.txt\ntmp/\n/generated/out.go\n")
	writeFile(t, dir, "app.go", "package main")
	writeFile(t, dir, "debug.log", "log data")
	writeFile(t, dir, "secret.txt", "password")
	writeFile(t, dir, "tmp/cache.go", "package tmp")
	writeFile(t, dir, "generated/out.go", "package generated")
	writeFile(t, dir, "generated/keep.go", "package generated")

	files, err := Walk(context.Background(), WalkOptions{Root: dir})
	if err != nil {
		t.Fatalf("Walk() error: %v", err)
	}

	want := []string{".gitignore", "app.go", "generated/keep.go"}
	if got := relPaths(files); !reflect.DeepEqual(got, want) {
		t.Errorf("Walk() = %v, want %v", got, want)
	}
}

func TestWalkCancelled(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.go", "package a")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Walk(ctx, WalkOptions{Root: dir}); err == nil {
		t.Error("expected an error for a cancelled context")
	}
}

func TestSelected(t *testing.T) {
	include := []string{"**/*.rb", "**/*.go"}
	exclude := []string{"vendor/**", "*.min.*"}
	tests := []struct {
		path string
		want bool
	}{
		{"main.go", true},
		{"app/models/user.rb", true},
		{"vendor/lib/x.go", false},
		{"assets/app.min.rb", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := Selected(tt.path, include, exclude); got != tt.want {
			t.Errorf("Selected(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
	if !Selected("anything.txt", nil, nil) {
		t.Error("empty include should select everything")
	}
}

func TestDetectLanguage(t *testing.T) {
	tests := map[string]string{
		"main.go":            "Go",
		"app/models/user.rb": "Ruby",
		"views/index.erb":    "Ruby",
		"script.PY":          "Python",
		"src/index.tsx":      "TypeScript",
		"Makefile":           "Makefile",
		"deploy/Dockerfile":  "Dockerfile",
		"LICENSE":            "unknown",
		"archive.tar.gz":     "unknown",
		"analysis/model.r":   "R",
		"include/vector.hpp": "C++",
	}
	for name, want := range tests {
		if got := DetectLanguage(name); got != want {
			t.Errorf("DetectLanguage(%q) = %q, want %q", name, got, want)
		}
	}
}

func TestDominantLanguage(t *testing.T) {
	tests := []struct {
		name  string
		paths []string
		want  string
	}{
		{"empty", nil, ""},
		{"unknown only", []string{"LICENSE", "a.bin"}, ""},
		{"majority", []string{"a.rb", "b.rb", "c.go", "README.md"}, "Ruby"},
		{"markup outnumbered", []string{"a.html", "b.html", "c.css", "main.go"}, "Go"},
		{"markup only", []string{"a.html", "b.html", "c.css"}, "HTML"},
		{"tie alphabetical", []string{"a.py", "b.go"}, "Go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DominantLanguage(tt.paths); got != tt.want {
				t.Errorf("DominantLanguage() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestAgFlag(t *testing.T) {
	if AgFlag("Ruby") != "--ruby" || AgFlag("Go") != "--go" || AgFlag("C++") != "--cpp" {
		t.Error("unexpected ag flags")
	}
	if AgFlag("unknown") != "" || AgFlag("") != "" {
		t.Error("unknown languages should have no flag")
	}
}

func TestKeywords(t *testing.T) {
	paths := []string{
		"app/models/user.rb",
		"app/models/account.rb",
		"app/controllers/users_controller.rb",
	}
	got := Keywords(paths)
	want := []string{"app", "rb", "models", "account", "controller", "controllers", "user", "users"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
	if Keywords(nil) == nil || len(Keywords(nil)) != 0 {
		t.Error("expected an empty, non-nil slice for no paths")
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"hello", 10, "hello"},
		{"hello", 3, "hel"},
		{"hello", 0, "hello"},
		{"héllo", 2, "h"},
		{"héllo", 3, "hé"},
	}
	for _, tt := range tests {
		if got := Truncate(tt.in, tt.max); got != tt.want {
			t.Errorf("Truncate(%q, %d) = %q, want %q", tt.in, tt.max, got, tt.want)
		}
	}
}

func TestListing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b.txt", "b")
	writeFile(t, dir, "a.txt", "a")
	writeFile(t, dir, "sub/c.txt", "c")

	got, err := Listing(dir)
	if err != nil {
		t.Fatalf("Listing() error: %v", err)
	}
	want := []string{".", "..", "a.txt", "b.txt", "sub"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Listing() = %v, want %v", got, want)
	}

	if _, err := Listing(filepath.Join(dir, "missing")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestSystemInfoFallback(t *testing.T) {
	old := osReleasePath
	osReleasePath = filepath.Join(t.TempDir(), "missing")
	t.Cleanup(func() { osReleasePath = old })

	want := runtime.GOOS + "/" + runtime.GOARCH
	if got := SystemInfo(); got != want {
		t.Errorf("SystemInfo() = %q, want %q", got, want)
	}
}

func TestSystemInfoOSRelease(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "os-release", "NAME=\"Test Linux\"\nVERSION_ID=\"1\"\n")
	old := osReleasePath
	osReleasePath = filepath.Join(dir, "os-release")
	t.Cleanup(func() { osReleasePath = old })

	if got := SystemInfo(); got != "NAME=\"Test Linux\"\nVERSION_ID=\"1\"" {
		t.Errorf("SystemInfo() = %q", got)
	}
}

func TestCommitSubjects(t *testing.T) {
	dir := gitRepo(t, map[string]string{"main.go": "package main"},
		"add parser", "fix typo", "fix typo", "add tests")

	got := CommitSubjects(context.Background(), dir, 30)
	want := []string{"add tests", "fix typo", "add parser"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("CommitSubjects() = %v, want %v", got, want)
	}

	if got := CommitSubjects(context.Background(), dir, 1); !reflect.DeepEqual(got, []string{"add tests"}) {
		t.Errorf("CommitSubjects(n=1) = %v", got)
	}
}

func TestCommitSubjectsOutsideRepository(t *testing.T) {
	if got := CommitSubjects(context.Background(), t.TempDir(), 30); len(got) != 0 {
		t.Errorf("expected no subjects outside a repository, got %v", got)
	}
}

func TestProjectFilesFromGit(t *testing.T) {
	dir := gitRepo(t, map[string]string{
		"app/models/user.rb": "class User; end",
		"vendor/gem/x.rb":    "x",
		"README.md":          "# readme",
	})
	// Untracked files are not reported.
	writeFile(t, dir, "scratch.rb", "puts 1")

	got, err := ProjectFiles(context.Background(), dir, ProjectOptions{
		Include: []string{"**/*.rb"},
		Exclude: []string{"vendor/**"},
	})
	if err != nil {
		t.Fatalf("ProjectFiles() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"app/models/user.rb"}) {
		t.Errorf("ProjectFiles() = %v", got)
	}
}

func TestProjectFilesWalksOutsideGit(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lib/tool.go", "package lib")
	writeFile(t, dir, "notes.txt", "notes")

	got, err := ProjectFiles(context.Background(), dir, ProjectOptions{Include: []string{"**/*.go"}})
	if err != nil {
		t.Fatalf("ProjectFiles() error: %v", err)
	}
	if !reflect.DeepEqual(got, []string{"lib/tool.go"}) {
		t.Errorf("ProjectFiles() = %v", got)
	}
}

func TestIsGitTracked(t *testing.T) {
	dir := gitRepo(t, map[string]string{"tracked.rb": "puts 1"})
	writeFile(t, dir, "untracked.rb", "puts 2")

	ctx := context.Background()
	if !IsGitTracked(ctx, filepath.Join(dir, "tracked.rb")) {
		t.Error("tracked.rb should be tracked")
	}
	if IsGitTracked(ctx, filepath.Join(dir, "untracked.rb")) {
		t.Error("untracked.rb should not be tracked")
	}
	if IsGitTracked(ctx, filepath.Join(t.TempDir(), "elsewhere.rb")) {
		t.Error("files outside a repository are not tracked")
	}
}
