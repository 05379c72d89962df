package project

import (
	"os"
	"path/filepath"
	"strings"

	mcperrors "github.com/BitYantriki/claude-project-setup/internal/errors"
	"github.com/BitYantriki/claude-project-setup/pkg/fileops"
)

// Kind distinguishes tree leaves from directories.
type Kind int

const (
	KindFile Kind = iota
	KindDirectory
)

func (k Kind) String() string {
	if k == KindDirectory {
		return "directory"
	}
	return "file"
}

// TreeNode is one entry of a project tree. Children is only set for directories.
type TreeNode struct {
	Name     string
	Kind     Kind
	Children []*TreeNode
}

// BuildTree builds the tree rooted at path, counting path as depth 0. Nodes
// deeper than maxDepth are omitted; a nil node is returned when maxDepth is
// negative. Hidden entries are skipped.
//
// Symlinks are followed, so a directory reached through a link is expanded.
// Link cycles are cut off by maxDepth. A dangling symlink is shown as a file.
func BuildTree(path string, maxDepth int) (*TreeNode, error) {
	return buildTree(path, 0, maxDepth)
}

func buildTree(path string, depth, maxDepth int) (*TreeNode, error) {
	if depth > maxDepth {
		return nil, nil
	}

	name := filepath.Base(path)
	info, err := os.Stat(path)
	if err != nil {
		if isLink, lerr := fileops.IsSymlink(path); lerr == nil && isLink {
			return &TreeNode{Name: name, Kind: KindFile}, nil
		}
		return nil, mcperrors.Filesystem("failed to stat "+name, err)
	}
	if !info.IsDir() {
		return &TreeNode{Name: name, Kind: KindFile}, nil
	}

	dir, err := os.Open(path)
	if err != nil {
		return nil, mcperrors.Filesystem("failed to open directory "+name, err)
	}
	names, err := dir.Readdirnames(-1)
	dir.Close()
	if err != nil {
		return nil, mcperrors.Filesystem("failed to read directory "+name, err)
	}

	node := &TreeNode{Name: name, Kind: KindDirectory, Children: []*TreeNode{}}
	for _, entry := range names {
		if fileops.IsHiddenName(entry) {
			continue
		}
		child, err := buildTree(filepath.Join(path, entry), depth+1, maxDepth)
		if err != nil {
			return nil, err
		}
		if child != nil {
			node.Children = append(node.Children, child)
		}
	}
	return node, nil
}

const (
	branchLast  = "└── "
	branchMid   = "├── "
	indentLast  = "    "
	indentTrunk = "│   "
)

// RenderTree draws node as box-drawing text, one line per node. The root is
// drawn as a last child with no indentation. A nil node renders as "".
func RenderTree(node *TreeNode) string {
	if node == nil {
		return ""
	}
	var b strings.Builder
	renderTree(&b, node, "", true)
	return b.String()
}

func renderTree(b *strings.Builder, node *TreeNode, prefix string, isLast bool) {
	b.WriteString(prefix)
	if isLast {
		b.WriteString(branchLast)
	} else {
		b.WriteString(branchMid)
	}
	b.WriteString(node.Name)
	b.WriteByte('\n')

	childPrefix := prefix + indentTrunk
	if isLast {
		childPrefix = prefix + indentLast
	}
	for i, child := range node.Children {
		renderTree(b, child, childPrefix, i == len(node.Children)-1)
	}
}
