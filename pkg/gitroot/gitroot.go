// Package gitroot locates the root of the git worktree enclosing a
// directory.
package gitroot

import (
	"github.com/go-git/go-git/v5"
)

// Find walks upward from dir looking for the enclosing git repository and
// returns the root of its worktree. The boolean is false when dir is not
// inside a repository or the repository is bare.
func Find(dir string) (string, bool) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", false
	}

	worktree, err := repo.Worktree()
	if err != nil {
		return "", false
	}

	return worktree.Filesystem.Root(), true
}
