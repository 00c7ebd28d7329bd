package memory

import (
	"os"
	"path/filepath"

	"github.com/entrhq/recall/pkg/config"
	"github.com/entrhq/recall/pkg/gitroot"
)

// Paths returns the store files to read, global store first, then the
// enclosing project's store when it resolves to a different file.
func Paths(cfg *config.Config) []string {
	global := GlobalPath(cfg)
	paths := []string{global}

	if project, ok := ProjectPath(cfg); ok && project != global {
		paths = append(paths, project)
	}

	return paths
}

// WritePath returns where new notes persist: the project store when the
// working directory sits inside an allowed repository, the global store
// otherwise.
func WritePath(cfg *config.Config) string {
	if project, ok := ProjectPath(cfg); ok {
		return project
	}
	return GlobalPath(cfg)
}

// GlobalPath returns the store file under the recall home.
func GlobalPath(cfg *config.Config) string {
	return filepath.Join(cfg.Home, FileName)
}

// ProjectPath resolves the store of the repository enclosing the working
// directory. The boolean is false when no repository encloses it or the
// repository root matches a denied-project pattern.
func ProjectPath(cfg *config.Config) (string, bool) {
	base, ok := nearestExistingDir(cfg.WorkingDir)
	if !ok {
		return "", false
	}

	root, ok := gitroot.Find(base)
	if !ok {
		return "", false
	}

	filter, err := cfg.ProjectFilter()
	if err != nil || !filter.Allowed(root) {
		return "", false
	}

	return filepath.Join(root, DirName, FileName), true
}

// nearestExistingDir walks from dir up to the closest ancestor that exists
// as a directory. Repository discovery needs a real starting point even
// when the working directory was removed underneath the process.
func nearestExistingDir(dir string) (string, bool) {
	if dir == "" {
		return "", false
	}

	current := filepath.Clean(dir)
	for {
		info, err := os.Stat(current)
		if err == nil && info.IsDir() {
			return current, true
		}

		parent := filepath.Dir(current)
		if parent == current {
			return "", false
		}
		current = parent
	}
}
