package config

import (
	"fmt"
	"path/filepath"

	"github.com/gobwas/glob"
)

// ProjectFilter decides whether a repository root may carry a
// project-scoped memory store.
type ProjectFilter struct {
	denied []glob.Glob
}

// NewProjectFilter compiles denied-project glob patterns into a filter.
func NewProjectFilter(patterns []string) (*ProjectFilter, error) {
	f := &ProjectFilter{}

	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid denied project pattern '%s': %w", pattern, err)
		}
		f.denied = append(f.denied, g)
	}

	return f, nil
}

// Allowed returns true when root matches none of the denied patterns.
// An empty filter allows every project.
func (f *ProjectFilter) Allowed(root string) bool {
	root = filepath.Clean(root)

	for _, pattern := range f.denied {
		if pattern.Match(root) {
			return false
		}
	}

	return true
}

// ProjectFilter builds the filter from the configured denied patterns.
// Validate guarantees the patterns compile, so errors here only occur for
// configs that bypassed validation.
func (c *Config) ProjectFilter() (*ProjectFilter, error) {
	return NewProjectFilter(c.Memory.DeniedProjects)
}
