package tree

import (
	"io"

	"github.com/muesli/termenv"
	"go.trai.ch/shade/internal/core/domain"
	"go.trai.ch/shade/internal/ui/output"
	"go.trai.ch/shade/internal/ui/style"
)

const (
	branchMid  = "├── "
	branchLast = "└── "
	pipePrefix = "│   "
	gapPrefix  = "    "
)

// Render writes the tree as box-drawing art. Directories are colored, files
// are left plain. Colors degrade to plain text under NO_COLOR or a dumb
// terminal.
func Render(w io.Writer, root *domain.Node) error {
	out := output.New(w)

	label := out.String(root.Name).Foreground(termenv.RGBColor(string(style.Iris))).Bold()
	if _, err := out.WriteString(label.String() + "\n"); err != nil {
		return err
	}

	return renderChildren(out, root, "")
}

func renderChildren(out *termenv.Output, node *domain.Node, prefix string) error {
	for i, child := range node.Children {
		branch, childPrefix := branchMid, prefix+pipePrefix
		if i == len(node.Children)-1 {
			branch, childPrefix = branchLast, prefix+gapPrefix
		}

		name := child.Name
		if child.Kind == domain.NodeDir {
			name = out.String(name + "/").Foreground(termenv.RGBColor(string(style.Iris))).String()
		}
		if _, err := out.WriteString(prefix + branch + name + "\n"); err != nil {
			return err
		}

		if err := renderChildren(out, child, childPrefix); err != nil {
			return err
		}
	}

	return nil
}
