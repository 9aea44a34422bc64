// Package tree turns flat scan results into renderable directory trees.
package tree

import (
	"slices"
	"strings"

	"go.trai.ch/shade/internal/core/domain"
)

// Build constructs a directory tree from the workspace-relative paths of a
// scan result. The returned root is a synthetic workspace node labeled with
// the given name. Intermediate directories are materialized from the path
// segments; git only reports leaves.
func Build(label string, result *domain.ListResult) *domain.Node {
	root := &domain.Node{
		Kind: domain.NodeWorkspace,
		Name: label,
	}
	if result == nil {
		return root
	}

	// Index of directory nodes by relative path, so shared prefixes
	// collapse into a single subtree.
	dirs := map[string]*domain.Node{"": root}

	for _, rel := range result.Files {
		parent := root
		segments := strings.Split(rel, "/")
		for i, segment := range segments[:len(segments)-1] {
			dirRel := strings.Join(segments[:i+1], "/")
			dir, ok := dirs[dirRel]
			if !ok {
				dir = &domain.Node{
					Kind: domain.NodeDir,
					Name: segment,
					Rel:  dirRel,
				}
				dirs[dirRel] = dir
				parent.Children = append(parent.Children, dir)
			}
			parent = dir
		}
		parent.Children = append(parent.Children, &domain.Node{
			Kind: domain.NodeFile,
			Name: segments[len(segments)-1],
			Rel:  rel,
		})
	}

	sortChildren(root)

	return root
}

// sortChildren orders every level directories-first, then case-insensitively
// by name. Scan results are already sorted, but materializing intermediate
// directories interleaves them with files at the same level.
func sortChildren(node *domain.Node) {
	slices.SortStableFunc(node.Children, func(a, b *domain.Node) int {
		if a.Kind != b.Kind {
			if a.Kind == domain.NodeDir {
				return -1
			}
			return 1
		}
		return compareFold(a.Name, b.Name)
	})
	for _, child := range node.Children {
		sortChildren(child)
	}
}

func compareFold(a, b string) int {
	if c := strings.Compare(strings.ToLower(a), strings.ToLower(b)); c != 0 {
		return c
	}
	return strings.Compare(a, b)
}
