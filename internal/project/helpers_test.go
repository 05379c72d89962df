package project

import (
	"os"
	"path/filepath"
	"testing"
)

// createProjectStructure lays out a small mixed Java/Kotlin project and returns
// its symlink-free root.
func createProjectStructure(t *testing.T) string {
	t.Helper()
	root, err := filepath.EvalSymlinks(t.TempDir())
	if err != nil {
		t.Fatalf("Failed to resolve temp dir: %v", err)
	}

	dirs := []string{
		"src/main/java/com/acme",
		"src/test/kotlin",
		".git",
		".idea",
		"docs",
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(filepath.Join(root, dir), 0755); err != nil {
			t.Fatalf("Failed to create directory %s: %v", dir, err)
		}
	}

	files := map[string]string{
		"README.md":                           "# Project README",
		"build.gradle":                        "plugins {}",
		".gitignore":                          "build/",
		"src/main/java/com/acme/Foo.java":     "package com.acme;\npublic class Foo {}\n",
		"src/main/java/com/acme/Service.java": "package com.acme;\npublic interface Service {}\n",
		"src/test/kotlin/FooTest.kt":          "class FooTest {}\n",
		".git/config":                         "[core]",
		".idea/workspace.xml":                 "<project/>",
		"docs/guide.md":                       "# Guide",
	}
	for rel, content := range files {
		writeFile(t, root, rel, content)
	}

	return root
}

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	full := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		t.Fatalf("Failed to create parent of %s: %v", rel, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to create file %s: %v", rel, err)
	}
}

func newTestResolver(t *testing.T, root string) *Resolver {
	t.Helper()
	r, err := NewResolver(root)
	if err != nil {
		t.Fatalf("NewResolver(%s) error = %v", root, err)
	}
	return r
}
