package output

import (
	"fmt"
	"strings"
)

// ItemState is the presentation state of one row.
type ItemState int

const (
	ItemAvailable ItemState = iota
	ItemSelected
	ItemDisabled
)

// TreeNode represents a node in a tree structure for rendering
type TreeNode struct {
	ID       string
	Title    string
	State    ItemState
	Children []TreeNode
}

// TreeRenderOptions configures tree rendering behavior
type TreeRenderOptions struct {
	MaxDepth  int  // 0 = unlimited
	ShowState bool // Whether to show the state mark
}

// stateMark returns a state indicator symbol
func stateMark(s ItemState) string {
	switch s {
	case ItemSelected:
		return " ✓" // ✓
	case ItemDisabled:
		return " ✗" // ✗
	default:
		return ""
	}
}

// FormatState returns the bracketed state label
func FormatState(s ItemState) string {
	switch s {
	case ItemSelected:
		return "[selected]"
	case ItemDisabled:
		return "[disabled]"
	default:
		return "[available]"
	}
}

// RenderTree renders a tree starting from a single root node, with the
// root on the first line
func RenderTree(root TreeNode, opts TreeRenderOptions) string {
	header := root.ID
	if root.Title != "" {
		header = fmt.Sprintf("%s: %s", root.ID, root.Title)
	}
	lines := append([]string{header}, renderTreeNodes(root.Children, opts, 0, "")...)
	return strings.Join(lines, "\n")
}

// RenderTreeLines renders multiple root nodes and returns individual lines
func RenderTreeLines(roots []TreeNode, opts TreeRenderOptions) []string {
	return renderTreeNodes(roots, opts, 0, "")
}

// renderTreeNodes recursively renders tree nodes
func renderTreeNodes(nodes []TreeNode, opts TreeRenderOptions, depth int, prefix string) []string {
	if opts.MaxDepth > 0 && depth >= opts.MaxDepth {
		return nil
	}

	var lines []string

	for i, node := range nodes {
		isLast := i == len(nodes)-1

		// Build connector
		connector := "├── " // ├──
		if isLast {
			connector = "└── " // └──
		}

		parts := []string{node.ID + ":", node.Title}
		if opts.ShowState {
			parts = append(parts, FormatState(node.State)+stateMark(node.State))
		}

		lines = append(lines, prefix+connector+strings.Join(parts, " "))

		// Build prefix for children
		childPrefix := prefix
		if isLast {
			childPrefix += "    "
		} else {
			childPrefix += "│   " // │
		}

		lines = append(lines, renderTreeNodes(node.Children, opts, depth+1, childPrefix)...)
	}

	return lines
}
