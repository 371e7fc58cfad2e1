// Package dom is a small document model over golang.org/x/net/html.
//
// It covers what the selection layer needs from server-rendered list views:
// class and attribute manipulation, CSS selector queries, inserting and
// removing elements, and reading text. Nodes are plain *html.Node values so
// documents round-trip through html.Render unchanged apart from our edits.
package dom

import (
	"bytes"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Parse reads an HTML document.
func Parse(r io.Reader) (*html.Node, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse document: %w", err)
	}
	return doc, nil
}

// ParseString parses an HTML document held in memory.
func ParseString(s string) (*html.Node, error) {
	return Parse(strings.NewReader(s))
}

// Render writes n and its subtree as HTML.
func Render(w io.Writer, n *html.Node) error {
	return html.Render(w, n)
}

// RenderString renders n to a string.
func RenderString(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// IsDocument reports whether n is the document node.
func IsDocument(n *html.Node) bool {
	return n != nil && n.Type == html.DocumentNode
}

// Attr returns the value of the named attribute.
func Attr(n *html.Node, key string) (string, bool) {
	if n == nil {
		return "", false
	}
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

// SetAttr sets or replaces the named attribute.
func SetAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

// RemoveAttr deletes the named attribute if present.
func RemoveAttr(n *html.Node, key string) {
	n.Attr = slices.DeleteFunc(n.Attr, func(a html.Attribute) bool {
		return a.Namespace == "" && a.Key == key
	})
}

// Classes returns the element's class list in document order.
func Classes(n *html.Node) []string {
	v, _ := Attr(n, "class")
	return strings.Fields(v)
}

// HasClass reports whether n carries class.
func HasClass(n *html.Node, class string) bool {
	return slices.Contains(Classes(n), class)
}

// AddClass adds each class not already present.
func AddClass(n *html.Node, classes ...string) {
	list := Classes(n)
	changed := false
	for _, c := range classes {
		if c != "" && !slices.Contains(list, c) {
			list = append(list, c)
			changed = true
		}
	}
	if changed {
		SetAttr(n, "class", strings.Join(list, " "))
	}
}

// RemoveClass removes each class that is present.
func RemoveClass(n *html.Node, classes ...string) {
	list := Classes(n)
	kept := slices.DeleteFunc(slices.Clone(list), func(c string) bool {
		return slices.Contains(classes, c)
	})
	if len(kept) == len(list) {
		return
	}
	SetAttr(n, "class", strings.Join(kept, " "))
}

// NewElement creates a detached element with the given classes.
func NewElement(tag string, classes ...string) *html.Node {
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	if len(classes) > 0 {
		SetAttr(n, "class", strings.Join(classes, " "))
	}
	return n
}

// SetText replaces the children of n with a single text node.
func SetText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// Text returns the concatenated, whitespace-collapsed text of n's subtree.
func Text(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
			sb.WriteByte(' ')
			return
		}
		if c.Type == html.ElementNode && (c.DataAtom == atom.Script || c.DataAtom == atom.Style) {
			return
		}
		for k := c.FirstChild; k != nil; k = k.NextSibling {
			walk(k)
		}
	}
	if n != nil {
		walk(n)
	}
	return strings.Join(strings.Fields(sb.String()), " ")
}

// Prepend inserts child as the first child of parent.
func Prepend(parent, child *html.Node) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	parent.InsertBefore(child, parent.FirstChild)
}

// Remove detaches n from its parent. Detached nodes are left alone.
func Remove(n *html.Node) {
	if n != nil && n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// Contains reports whether n is root or one of its descendants.
func Contains(root, n *html.Node) bool {
	for c := n; c != nil; c = c.Parent {
		if c == root {
			return true
		}
	}
	return false
}

// Selector is a compiled CSS selector.
type Selector struct {
	src string
	sel cascadia.Selector
}

// Compile parses a CSS selector.
func Compile(src string) (Selector, error) {
	sel, err := cascadia.Compile(src)
	if err != nil {
		return Selector{}, fmt.Errorf("compile selector %q: %w", src, err)
	}
	return Selector{src: src, sel: sel}, nil
}

// MustCompile is Compile for selectors known at build time.
func MustCompile(src string) Selector {
	s, err := Compile(src)
	if err != nil {
		panic(err)
	}
	return s
}

// String returns the selector source.
func (s Selector) String() string {
	return s.src
}

// Match reports whether n is an element matching the selector.
func (s Selector) Match(n *html.Node) bool {
	return n != nil && n.Type == html.ElementNode && s.sel != nil && s.sel.Match(n)
}

// QueryAll returns the descendants of root (root excluded) matching sel,
// in document order.
func QueryAll(root *html.Node, sel Selector) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if sel.Match(c) {
				out = append(out, c)
			}
			walk(c)
		}
	}
	if root != nil {
		walk(root)
	}
	return out
}

// Query returns the first descendant of root matching sel, or nil.
func Query(root *html.Node, sel Selector) *html.Node {
	if root == nil {
		return nil
	}
	for c := root.FirstChild; c != nil; c = c.NextSibling {
		if sel.Match(c) {
			return c
		}
		if found := Query(c, sel); found != nil {
			return found
		}
	}
	return nil
}

// Closest walks from n towards the document root and returns the first node
// matching sel. The walk stops after checking stop; a nil stop walks to the
// top of the tree.
func Closest(n *html.Node, sel Selector, stop *html.Node) *html.Node {
	for c := n; c != nil; c = c.Parent {
		if sel.Match(c) {
			return c
		}
		if c == stop {
			break
		}
	}
	return nil
}
