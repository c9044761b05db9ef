// Package gitrepo resolves the repository root for the current checkout.
package gitrepo

import (
	"github.com/go-git/go-git/v5"
)

// Root returns the worktree root of the repository containing dir,
// searching parent directories the way git itself does.
func Root(dir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(dir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return "", err
	}
	wt, err := repo.Worktree()
	if err != nil {
		return "", err
	}
	return wt.Filesystem.Root(), nil
}

// RootOr returns the repository root containing dir, or dir itself when it
// is not inside a repository. Detection then simply finds nothing
// repo-correlated, which is the correct degraded behavior for a hook.
func RootOr(dir string) string {
	root, err := Root(dir)
	if err != nil {
		return dir
	}
	return root
}
