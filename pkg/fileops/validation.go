package fileops

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"unicode/utf8"
)

// ValidatePathString performs static validation on raw path input before it is
// joined onto any base directory.
//
// The function rejects:
//   - Paths containing null bytes
//   - Paths that are not valid UTF-8
//   - Paths longer than maxLen (when maxLen > 0)
//
// An empty path is accepted; callers decide what an empty path means.
//
// Usage example:
//
//	if err := fileops.ValidatePathString(input, 4096); err != nil {
//	    return fmt.Errorf("invalid path: %w", err)
//	}
func ValidatePathString(path string, maxLen int) error {
	if strings.IndexByte(path, 0) != -1 {
		return fmt.Errorf("path contains null byte")
	}
	if !utf8.ValidString(path) {
		return fmt.Errorf("path is not valid UTF-8")
	}
	if maxLen > 0 && len(path) > maxLen {
		return fmt.Errorf("path exceeds maximum length of %d characters", maxLen)
	}
	return nil
}

// IsWithinDirectory reports whether path is baseDir itself or a descendant of it.
// Both paths are cleaned and compared component-wise using filepath.Rel, so
// "/project-other" is never considered inside "/project".
//
// Parameters:
//   - path: Absolute path to check
//   - baseDir: Absolute directory that should contain path
//
// Returns:
//   - bool: true if path does not leave baseDir
//
// Usage example:
//
//	if !fileops.IsWithinDirectory("/srv/app/src/main.go", "/srv/app") {
//	    return fmt.Errorf("path escapes base directory")
//	}
func IsWithinDirectory(path, baseDir string) bool {
	rel, err := filepath.Rel(filepath.Clean(baseDir), filepath.Clean(path))
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	return rel != ".." && !strings.HasPrefix(rel, ".."+string(os.PathSeparator)) && !filepath.IsAbs(rel)
}

// ResolveExistingPath evaluates symlinks for path, or for its nearest existing
// ancestor when path itself does not exist yet. The non-existent tail is joined
// back onto the resolved ancestor unchanged.
//
// This lets callers check where a write would really land before the target
// file or its parent directories are created.
//
// Returns:
//   - string: The symlink-free path
//   - error: Errors other than "does not exist" while inspecting the path
func ResolveExistingPath(path string) (string, error) {
	clean := filepath.Clean(path)
	var tail []string

	current := clean
	for {
		if _, err := os.Lstat(current); err == nil {
			resolved, err := filepath.EvalSymlinks(current)
			if err != nil {
				return "", fmt.Errorf("cannot resolve path %s: %w", current, err)
			}
			for i := len(tail) - 1; i >= 0; i-- {
				resolved = filepath.Join(resolved, tail[i])
			}
			return resolved, nil
		} else if !os.IsNotExist(err) {
			return "", fmt.Errorf("cannot access path %s: %w", current, err)
		}

		parent := filepath.Dir(current)
		if parent == current {
			return clean, nil
		}
		tail = append(tail, filepath.Base(current))
		current = parent
	}
}

// IsSymlink checks if a given path is a symbolic link.
// This function uses lstat to examine the file without following symlinks.
func IsSymlink(path string) (bool, error) {
	info, err := os.Lstat(path)
	if err != nil {
		return false, fmt.Errorf("failed to stat path: %w", err)
	}
	return info.Mode()&os.ModeSymlink != 0, nil
}

// IsHiddenName reports whether a directory entry name is hidden by the
// dot-prefix convention.
func IsHiddenName(name string) bool {
	return strings.HasPrefix(name, ".")
}

// EnsureDirectoryExists creates a directory and all necessary parent directories.
// This function is idempotent - it succeeds if the directory already exists.
//
// The function sets directory permissions to 0755 (readable and executable by all,
// writable by owner only).
//
// Usage example:
//
//	if err := fileops.EnsureDirectoryExists("/path/to/nested/directory"); err != nil {
//	    log.Fatalf("Failed to create directory: %v", err)
//	}
func EnsureDirectoryExists(path string) error {
	if err := os.MkdirAll(path, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", path, err)
	}
	return nil
}

// ValidateFileSizeLimit checks if a file size is within acceptable limits.
// This function helps prevent memory exhaustion from very large files.
//
// Parameters:
//   - filePath: Path to the file to check
//   - maxSize: Maximum allowed file size in bytes (<= 0 disables the check)
//
// Returns:
//   - error: Validation error if file exceeds size limit, is a directory, or cannot be accessed
func ValidateFileSizeLimit(filePath string, maxSize int64) error {
	fileInfo, err := os.Stat(filePath)
	if err != nil {
		return fmt.Errorf("cannot access file: %w", err)
	}

	if fileInfo.IsDir() {
		return fmt.Errorf("path is a directory, not a file: %s", filepath.Base(filePath))
	}

	if maxSize > 0 && fileInfo.Size() > maxSize {
		return fmt.Errorf("file size %d bytes exceeds limit %d bytes", fileInfo.Size(), maxSize)
	}

	return nil
}
