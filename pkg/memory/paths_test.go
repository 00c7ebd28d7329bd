package memory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/go-git/go-git/v5"

	"github.com/entrhq/recall/pkg/config"
)

func pathsTestConfig(t *testing.T, workingDir string) *config.Config {
	t.Helper()
	return &config.Config{
		Home:       filepath.Join(t.TempDir(), ".recall"),
		WorkingDir: workingDir,
		LLM:        config.LLMConfig{Provider: config.ProviderOpenAI},
		Memory:     config.MemoryConfig{CaptureEnabled: true},
	}
}

func initRepo(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if _, err := git.PlainInit(root, false); err != nil {
		t.Fatalf("PlainInit failed: %v", err)
	}
	return root
}

func TestPathsOutsideRepository(t *testing.T) {
	cfg := pathsTestConfig(t, t.TempDir())

	paths := Paths(cfg)

	if len(paths) != 1 {
		t.Fatalf("len(paths) = %d, want 1", len(paths))
	}
	if paths[0] != filepath.Join(cfg.Home, FileName) {
		t.Errorf("paths[0] = %q, want the global store", paths[0])
	}
}

func TestPathsInsideRepository(t *testing.T) {
	root := initRepo(t)
	nested := filepath.Join(root, "src", "deep")
	if err := os.MkdirAll(nested, 0o750); err != nil {
		t.Fatalf("MkdirAll failed: %v", err)
	}

	cfg := pathsTestConfig(t, nested)
	paths := Paths(cfg)

	if len(paths) != 2 {
		t.Fatalf("len(paths) = %d, want 2 (global then project)", len(paths))
	}
	if paths[0] != GlobalPath(cfg) {
		t.Errorf("paths[0] = %q, want the global store first", paths[0])
	}
	want := filepath.Join(root, DirName, FileName)
	if paths[1] != want {
		t.Errorf("paths[1] = %q, want %q", paths[1], want)
	}
}

func TestWritePathPrefersProjectStore(t *testing.T) {
	root := initRepo(t)
	cfg := pathsTestConfig(t, root)

	got := WritePath(cfg)

	want := filepath.Join(root, DirName, FileName)
	if got != want {
		t.Errorf("WritePath() = %q, want %q", got, want)
	}
}

func TestWritePathFallsBackToGlobal(t *testing.T) {
	cfg := pathsTestConfig(t, t.TempDir())

	if got := WritePath(cfg); got != GlobalPath(cfg) {
		t.Errorf("WritePath() = %q, want the global store", got)
	}
}

func TestProjectPathDeniedByFilter(t *testing.T) {
	root := initRepo(t)
	cfg := pathsTestConfig(t, root)
	cfg.Memory.DeniedProjects = []string{root}

	if _, ok := ProjectPath(cfg); ok {
		t.Error("ProjectPath() resolved a denied project")
	}
	if got := WritePath(cfg); got != GlobalPath(cfg) {
		t.Errorf("WritePath() = %q, want the global store for a denied project", got)
	}
	if paths := Paths(cfg); len(paths) != 1 {
		t.Errorf("len(paths) = %d, want 1 for a denied project", len(paths))
	}
}

func TestProjectPathDeniedByGlob(t *testing.T) {
	root := initRepo(t)
	cfg := pathsTestConfig(t, root)
	cfg.Memory.DeniedProjects = []string{"**"}

	if _, ok := ProjectPath(cfg); ok {
		t.Error("ProjectPath() resolved a project denied by glob")
	}
}

func TestProjectPathWalksToNearestExistingAncestor(t *testing.T) {
	root := initRepo(t)

	// The working directory no longer exists; resolution starts from its
	// closest surviving ancestor inside the repository.
	cfg := pathsTestConfig(t, filepath.Join(root, "gone", "deeper"))

	got, ok := ProjectPath(cfg)
	if !ok {
		t.Fatal("ProjectPath() should resolve via an existing ancestor")
	}
	want := filepath.Join(root, DirName, FileName)
	if got != want {
		t.Errorf("ProjectPath() = %q, want %q", got, want)
	}
}

func TestNearestExistingDir(t *testing.T) {
	dir := t.TempDir()

	if got, ok := nearestExistingDir(dir); !ok || got != filepath.Clean(dir) {
		t.Errorf("nearestExistingDir(existing) = (%q, %v)", got, ok)
	}

	missing := filepath.Join(dir, "a", "b")
	if got, ok := nearestExistingDir(missing); !ok || got != filepath.Clean(dir) {
		t.Errorf("nearestExistingDir(missing child) = (%q, %v), want (%q, true)", got, ok, dir)
	}

	if _, ok := nearestExistingDir(""); ok {
		t.Error("nearestExistingDir(\"\") should not resolve")
	}
}

func TestGlobalPathUsesHome(t *testing.T) {
	cfg := pathsTestConfig(t, t.TempDir())

	if got := GlobalPath(cfg); got != filepath.Join(cfg.Home, "memories.md") {
		t.Errorf("GlobalPath() = %q", got)
	}
}
