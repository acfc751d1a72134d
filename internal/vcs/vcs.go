// Package vcs materializes Python sources from a git ref so a scan can
// run against historical revisions without disturbing the worktree.
package vcs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
)

// ErrNotARepository is returned when the path is not inside a git repo.
var ErrNotARepository = errors.New("not a git repository")

// CurrentRef returns the checked-out branch name, or the commit SHA
// when HEAD is detached.
func CurrentRef(repoPath string) (string, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", ErrNotARepository
		}
		return "", err
	}

	head, err := repo.Head()
	if err != nil {
		return "", err
	}
	if head.Name().IsBranch() {
		return head.Name().Short(), nil
	}
	return head.Hash().String(), nil
}

// ExtractRef writes every Python file reachable at ref into destDir,
// preserving relative paths, and returns the resolved commit SHA. The
// worktree is never modified.
func ExtractRef(repoPath, ref, destDir string) (string, error) {
	repo, err := git.PlainOpenWithOptions(repoPath, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return "", ErrNotARepository
		}
		return "", err
	}

	hash, err := repo.ResolveRevision(plumbing.Revision(ref))
	if err != nil {
		return "", fmt.Errorf("resolving ref %q: %w", ref, err)
	}

	commit, err := repo.CommitObject(*hash)
	if err != nil {
		return "", err
	}
	tree, err := commit.Tree()
	if err != nil {
		return "", err
	}

	err = tree.Files().ForEach(func(f *object.File) error {
		if !isPython(f.Name) {
			return nil
		}
		return writeBlob(f, destDir)
	})
	if err != nil {
		return "", err
	}

	return hash.String(), nil
}

func isPython(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".py", ".pyw", ".pyi":
		return true
	}
	return false
}

func writeBlob(f *object.File, destDir string) error {
	target := filepath.Join(destDir, filepath.FromSlash(f.Name))
	if err := os.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return err
	}

	reader, err := f.Reader()
	if err != nil {
		return err
	}
	defer reader.Close()

	out, err := os.Create(target)
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, reader)
	return err
}
