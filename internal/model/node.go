package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the syntactic tag of a Node.
type Kind string

// KindList tags nodes that only group an ordered sequence of children.
const KindList Kind = "List"

// Symbol is a scalar child naming an operator or literal class (e.g. "+", "INT").
type Symbol string

// Location is the source span a node was parsed from. Synthesized nodes have
// the zero Location.
type Location struct {
	Path        Path
	StartLine   int
	EndLine     int
	StartOffset int
	EndOffset   int
}

// Valid reports whether the location points at real source text.
func (l Location) Valid() bool {
	return l.EndOffset > l.StartOffset
}

// Lines returns the line span of the location.
func (l Location) Lines() LineRange {
	return LineRange{Start: l.StartLine, End: l.EndLine}
}

// Node is a syntax tree node. Children are *Node values or scalars (Symbol,
// string, int, bool) or nil for absent optional children.
//
// Nodes are never modified after construction; transformations build new
// trees that share untouched subtrees with the original.
type Node struct {
	Kind     Kind
	Children []any
	Location Location
}

// NewNode builds a node without location.
func NewNode(kind Kind, children ...any) *Node {
	return &Node{Kind: kind, Children: children}
}

// List builds a KindList node.
func List(children ...any) *Node {
	return NewNode(KindList, children...)
}

// Child returns the child at index or nil when out of range.
func (n *Node) Child(index int) any {
	if n == nil || index < 0 || index >= len(n.Children) {
		return nil
	}

	return n.Children[index]
}

// NodeAt returns the child at index when it is a node.
func (n *Node) NodeAt(index int) *Node {
	child, _ := n.Child(index).(*Node)
	return child
}

// Is reports whether n is non-nil and has the given kind.
func (n *Node) Is(kind Kind) bool {
	return n != nil && n.Kind == kind
}

// With returns a shallow copy of n with the child at index replaced.
// The location is kept so the copy still maps onto the original source span.
func (n *Node) With(index int, child any) *Node {
	children := make([]any, len(n.Children))
	copy(children, n.Children)
	children[index] = child

	return &Node{Kind: n.Kind, Children: children, Location: n.Location}
}

// Without returns a shallow copy of n with the child at index removed.
func (n *Node) Without(index int) *Node {
	children := make([]any, 0, len(n.Children)-1)
	children = append(children, n.Children[:index]...)
	children = append(children, n.Children[index+1:]...)

	return &Node{Kind: n.Kind, Children: children, Location: n.Location}
}

// At resolves a child-index path starting at n.
func (n *Node) At(path []int) *Node {
	current := n
	for _, index := range path {
		current = current.NodeAt(index)
		if current == nil {
			return nil
		}
	}

	return current
}

// Replace returns a new tree where the node at path is substituted by
// replacement. Only the nodes along the path are copied.
func (n *Node) Replace(path []int, replacement *Node) *Node {
	if len(path) == 0 {
		return replacement
	}

	child := n.NodeAt(path[0])
	if child == nil {
		return n
	}

	return n.With(path[0], child.Replace(path[1:], replacement))
}

// Equal reports structural equality. Locations are ignored so independently
// produced trees of the same shape compare equal.
func (n *Node) Equal(other *Node) bool {
	if n == nil || other == nil {
		return n == nil && other == nil
	}

	if n.Kind != other.Kind || len(n.Children) != len(other.Children) {
		return false
	}

	for i := range n.Children {
		if !childEqual(n.Children[i], other.Children[i]) {
			return false
		}
	}

	return true
}

// EqualChild compares two children: nodes structurally, scalars by value.
func EqualChild(a, b any) bool {
	return childEqual(a, b)
}

// PathOf returns the child-index path of target inside root, comparing by
// identity, or false when target is not part of the tree.
func PathOf(root, target *Node) ([]int, bool) {
	var found []int

	ok := false

	root.Walk(func(path []int, node *Node) bool {
		if ok {
			return false
		}

		if node == target {
			found, ok = path, true
			return false
		}

		return true
	})

	return found, ok
}

func childEqual(a, b any) bool {
	an, aIsNode := a.(*Node)
	bn, bIsNode := b.(*Node)

	// a typed nil node is an absent child
	if aIsNode && an == nil {
		a, aIsNode = nil, false
	}

	if bIsNode && bn == nil {
		b, bIsNode = nil, false
	}

	if aIsNode || bIsNode {
		if !aIsNode || !bIsNode {
			return false
		}

		return an.Equal(bn)
	}

	return a == b
}

// Compare orders nodes by their canonical s-expression.
func (n *Node) Compare(other *Node) int {
	return strings.Compare(n.String(), other.String())
}

// String renders the canonical s-expression of the tree, e.g.
// (BinaryExpr (Ident "a") + (BasicLit INT "1")).
func (n *Node) String() string {
	var b strings.Builder
	n.write(&b)

	return b.String()
}

func (n *Node) write(b *strings.Builder) {
	if n == nil {
		b.WriteString("nil")
		return
	}

	b.WriteByte('(')
	b.WriteString(string(n.Kind))

	for _, child := range n.Children {
		b.WriteByte(' ')
		writeChild(b, child)
	}

	b.WriteByte(')')
}

func writeChild(b *strings.Builder, child any) {
	switch c := child.(type) {
	case nil:
		b.WriteString("nil")
	case *Node:
		c.write(b)
	case Symbol:
		b.WriteString(string(c))
	case string:
		b.WriteString(strconv.Quote(c))
	default:
		fmt.Fprintf(b, "%v", c)
	}
}

// Walk visits n and every descendant node in pre-order together with its
// child-index path. Returning false from fn skips the node's children.
func (n *Node) Walk(fn func(path []int, node *Node) bool) {
	n.walk(nil, fn)
}

func (n *Node) walk(path []int, fn func(path []int, node *Node) bool) {
	if n == nil || !fn(path, n) {
		return
	}

	for i, child := range n.Children {
		if node, ok := child.(*Node); ok && node != nil {
			childPath := make([]int, len(path)+1)
			copy(childPath, path)
			childPath[len(path)] = i
			node.walk(childPath, fn)
		}
	}
}
