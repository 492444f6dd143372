package record

import (
	"strconv"
	"strings"
)

// Node is a generic tree value produced by a source decoder. Flattening is
// defined over this shape alone, so any source format that can be parsed
// into a Node tree flattens the same way.
type Node struct {
	Name     string
	Text     string
	Attrs    []Attr
	Children []*Node
}

// Attr is a named attribute on a Node.
type Attr struct {
	Name  string
	Value string
}

// Child returns the first direct child with the given name.
func (n *Node) Child(name string) *Node {
	for _, c := range n.Children {
		if c.Name == name {
			return c
		}
	}
	return nil
}

// At walks a slash-separated path and returns the first matching node.
func (n *Node) At(path string) *Node {
	cur := n
	for _, part := range strings.Split(path, "/") {
		if cur = cur.Child(part); cur == nil {
			return nil
		}
	}
	return cur
}

// TextAt returns the trimmed text at a slash-separated path, or "".
func (n *Node) TextAt(path string) string {
	t := n.At(path)
	if t == nil {
		return ""
	}
	return strings.TrimSpace(t.Text)
}

// All returns every node reachable at a slash-separated path, where each
// step may match multiple siblings.
func (n *Node) All(path string) []*Node {
	nodes := []*Node{n}
	for _, part := range strings.Split(path, "/") {
		var next []*Node
		for _, cur := range nodes {
			for _, c := range cur.Children {
				if c.Name == part {
					next = append(next, c)
				}
			}
		}
		nodes = next
	}
	return nodes
}

// Flatten converts a node subtree into a flat Record. Attributes flatten to
// "<path>/@<name>", leaves to their path, and repeated sibling names get
// 1-based bracket indices ("Item/Param[2]/Value"). Leaf text is parsed with
// Parse so numeric cells stay numeric.
func Flatten(n *Node, base string) Record {
	out := New()
	flattenInto(&out, n, base)
	return out
}

func flattenInto(out *Record, n *Node, base string) {
	for _, a := range n.Attrs {
		out.Set(strings.Trim(base+"/@"+a.Name, "/"), String(a.Value))
	}
	if len(n.Children) == 0 {
		out.Set(strings.Trim(base, "/"), Parse(strings.TrimSpace(n.Text)))
		return
	}

	counts := make(map[string]int)
	for _, c := range n.Children {
		counts[c.Name]++
	}
	seen := make(map[string]int)
	for _, c := range n.Children {
		path := base + "/" + c.Name
		if counts[c.Name] > 1 {
			seen[c.Name]++
			path += "[" + strconv.Itoa(seen[c.Name]) + "]"
		}
		flattenInto(out, c, path)
	}
}
