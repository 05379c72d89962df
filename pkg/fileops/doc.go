// Package fileops provides small, dependency-free path and directory helpers used to
// keep filesystem access confined to a base directory.
//
// # Containment Checks
//
// Combine the helpers in this order when turning caller input into a safe path:
//
// 1. **Input**: ValidatePathString() - rejects null bytes, invalid UTF-8, oversize input
// 2. **Lexical containment**: IsWithinDirectory() - component-wise ancestor test after cleaning
// 3. **Symlink containment**: ResolveExistingPath() + IsWithinDirectory() - checks where the
// path really lands, even when its tail does not exist yet
//
// # Example: Confining a Relative Path
//
//	if err := fileops.ValidatePathString(rel, 4096); err != nil {
//	    return err
//	}
//	abs := filepath.Join(base, rel)
//	if !fileops.IsWithinDirectory(abs, base) {
//	    return fmt.Errorf("path escapes base directory")
//	}
//	real, err := fileops.ResolveExistingPath(abs)
//	if err != nil {
//	    return err
//	}
//	if !fileops.IsWithinDirectory(real, base) {
//	    return fmt.Errorf("path escapes base directory through a symlink")
//	}
//
// # Directory Operations
//
// EnsureDirectoryExists() creates directories safely with proper permissions (0755).
package fileops
