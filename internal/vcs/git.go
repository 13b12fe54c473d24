// Package vcs resolves firmware version strings and cache-busting build
// identifiers from source-control metadata.
package vcs

import (
	"fmt"
	"os/exec"
	"strings"
)

// Repository exposes the narrow set of source-control queries the build
// hooks need. The git-backed implementation shells out to the git binary;
// tests substitute fakes.
type Repository interface {
	// Describe returns the output of a tag-anchored describe for the given
	// glob pattern (most recent matching tag, or the short hash when no tag
	// matches).
	Describe(match string) (string, error)

	// ShortHash returns the abbreviated hash of HEAD.
	ShortHash() (string, error)

	// IsDirty reports whether the working tree has uncommitted changes.
	IsDirty() (bool, error)
}

// GitRepo is a Repository backed by the git CLI, rooted at a project
// directory.
type GitRepo struct {
	dir string
}

// Open returns a GitRepo for the repository containing dir. No validation
// happens here; a missing git binary or a non-repository directory surfaces
// as errors from the individual queries.
func Open(dir string) *GitRepo {
	return &GitRepo{dir: dir}
}

// Describe runs `git describe --tags --match <match> --always`.
func (g *GitRepo) Describe(match string) (string, error) {
	return g.run("describe", "--tags", "--match", match, "--always")
}

// ShortHash runs `git rev-parse --short HEAD`.
func (g *GitRepo) ShortHash() (string, error) {
	return g.run("rev-parse", "--short", "HEAD")
}

// IsDirty runs `git status --porcelain` and reports whether it produced any
// output.
func (g *GitRepo) IsDirty() (bool, error) {
	out, err := g.run("status", "--porcelain")
	if err != nil {
		return false, err
	}
	return out != "", nil
}

func (g *GitRepo) run(args ...string) (string, error) {
	cmd := exec.Command("git", args...)
	cmd.Dir = g.dir
	out, err := cmd.Output()
	if err != nil {
		return "", fmt.Errorf("git %s: %w", args[0], err)
	}
	return strings.TrimSpace(string(out)), nil
}
