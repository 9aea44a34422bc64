package domain

// NodeKind distinguishes the three kinds of entries a result tree can hold.
// Modeled as a closed set rather than runtime type inspection.
type NodeKind uint8

const (
	// NodeWorkspace is the synthetic root grouping one workspace's entries.
	NodeWorkspace NodeKind = iota
	// NodeDir is an intermediate directory segment.
	NodeDir
	// NodeFile is a leaf entry reported by git.
	NodeFile
)

// Node is one element of a result tree built from a ListResult.
type Node struct {
	Kind NodeKind
	// Name is the display name: the workspace label for NodeWorkspace,
	// otherwise the final path segment.
	Name string
	// Rel is the workspace-relative path ("" for the workspace node).
	Rel      string
	Children []*Node
}
