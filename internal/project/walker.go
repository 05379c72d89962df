package project

import (
	"os"
	"path/filepath"
	"regexp"

	mcperrors "github.com/BitYantriki/claude-project-setup/internal/errors"
	"github.com/BitYantriki/claude-project-setup/pkg/fileops"
)

// Matcher decides whether a file, by base name, belongs in a listing.
// A nil Matcher accepts every file.
type Matcher func(name string) bool

// CompilePattern turns a list_files pattern into a Matcher.
//
// The pattern is first tried as a regular expression matched anywhere in the
// name, so "Test" and "\.java$" both work. A pattern that is not a valid
// regular expression, such as "*.java", is used as a shell glob against the
// whole name. An empty pattern yields a nil Matcher.
func CompilePattern(pattern string) (Matcher, error) {
	if pattern == "" {
		return nil, nil
	}

	if re, err := regexp.Compile(pattern); err == nil {
		return re.MatchString, nil
	}

	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, mcperrors.Argument("pattern %q is neither a regular expression nor a glob", pattern)
	}
	return func(name string) bool {
		ok, _ := filepath.Match(pattern, name)
		return ok
	}, nil
}

// MustCompilePattern is like CompilePattern but panics on a bad pattern.
func MustCompilePattern(pattern string) Matcher {
	m, err := CompilePattern(pattern)
	if err != nil {
		panic(err)
	}
	return m
}

// Walker lists regular files below a directory of the project.
type Walker struct {
	resolver *Resolver
}

// NewWalker creates a walker whose results are relative to the resolver's root.
func NewWalker(resolver *Resolver) *Walker {
	return &Walker{resolver: resolver}
}

// Walk returns the project-relative paths of all regular files under dir in
// depth-first pre-order. Directories whose name starts with "." are not
// descended into. Entries that are neither directories nor regular files,
// including symlinks, are skipped. Order follows directory enumeration.
//
// dir must already have been resolved. A missing or unreadable directory
// anywhere in the walk fails the whole call.
func (w *Walker) Walk(dir string, match Matcher) ([]string, error) {
	info, err := os.Stat(dir)
	if err != nil {
		return nil, mcperrors.Filesystem("failed to read directory "+w.resolver.Rel(dir), err)
	}
	if !info.IsDir() {
		return nil, mcperrors.Filesystem("not a directory: "+w.resolver.Rel(dir), nil)
	}

	// Reads happen through the os.Root so the walk cannot be redirected out of dir.
	root, err := os.OpenRoot(dir)
	if err != nil {
		return nil, mcperrors.Filesystem("failed to open directory "+w.resolver.Rel(dir), err)
	}
	defer root.Close()

	files := []string{}
	if err := w.walk(root, dir, ".", match, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func (w *Walker) walk(root *os.Root, base, relativePath string, match Matcher, files *[]string) error {
	d, err := root.Open(relativePath)
	if err != nil {
		return mcperrors.Filesystem("failed to open directory "+w.display(base, relativePath), err)
	}
	entries, err := d.ReadDir(-1)
	d.Close()
	if err != nil {
		return mcperrors.Filesystem("failed to read directory "+w.display(base, relativePath), err)
	}

	for _, entry := range entries {
		entryPath := filepath.Join(relativePath, entry.Name())

		switch {
		case entry.IsDir():
			if fileops.IsHiddenName(entry.Name()) {
				continue
			}
			if err := w.walk(root, base, entryPath, match, files); err != nil {
				return err
			}
		case entry.Type().IsRegular():
			if match == nil || match(entry.Name()) {
				*files = append(*files, w.resolver.Rel(filepath.Join(base, entryPath)))
			}
		}
	}
	return nil
}

func (w *Walker) display(base, relativePath string) string {
	return w.resolver.Rel(filepath.Join(base, relativePath))
}
