// Package project confines filesystem access to a single project root and
// provides the read-only views of that root the tools expose: a flat file
// listing and a depth-bounded tree.
package project

import (
	"fmt"
	"path/filepath"

	mcperrors "github.com/BitYantriki/claude-project-setup/internal/errors"
	"github.com/BitYantriki/claude-project-setup/pkg/fileops"
)

const maxPathLength = 4096

// Resolver maps caller-supplied relative paths onto the project root and
// rejects anything that would land outside it.
type Resolver struct {
	root     string
	realRoot string
}

// NewResolver creates a resolver for an absolute project root.
func NewResolver(root string) (*Resolver, error) {
	if !filepath.IsAbs(root) {
		return nil, fmt.Errorf("project root must be absolute: %s", root)
	}
	root = filepath.Clean(root)

	realRoot, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve project root %s: %w", root, err)
	}

	return &Resolver{root: root, realRoot: realRoot}, nil
}

// Root returns the project root.
func (r *Resolver) Root() string {
	return r.root
}

// Resolve joins relativePath onto the root. The join collapses ".." segments and
// treats an absolute input as a plain segment. The result must be the root or a
// descendant of it, both lexically and after following any symlinks along the
// existing part of the path; otherwise a path_escape error is returned.
//
// The returned path is the lexical join, not the symlink-evaluated one.
func (r *Resolver) Resolve(relativePath string) (string, error) {
	if err := fileops.ValidatePathString(relativePath, maxPathLength); err != nil {
		return "", mcperrors.Argument("invalid path %q: %v", relativePath, err)
	}

	joined := filepath.Join(r.root, relativePath)
	if !fileops.IsWithinDirectory(joined, r.root) {
		return "", mcperrors.PathEscape(relativePath)
	}

	real, err := fileops.ResolveExistingPath(joined)
	if err != nil {
		return "", mcperrors.Filesystem("failed to resolve path", err)
	}
	if !fileops.IsWithinDirectory(real, r.realRoot) {
		return "", mcperrors.PathEscape(relativePath)
	}

	return joined, nil
}

// Rel returns path relative to the root, using forward slashes. Paths outside
// the root are returned unchanged.
func (r *Resolver) Rel(path string) string {
	rel, err := filepath.Rel(r.root, path)
	if err != nil || !fileops.IsWithinDirectory(path, r.root) {
		return path
	}
	return filepath.ToSlash(rel)
}
