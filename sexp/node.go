// Package sexp parses the parenthesised tree dumps printed by compiler
// front-ends (swiftc -dump-ast) and exposes read-only queries over them.
//
// A form such as
//
//	(var_decl "name" type='String' access=internal storage_kind=stored)
//
// becomes a Node with tag "var_decl", one positional value ("name" with its
// quotes), and three attributes. Nested forms become children.
package sexp

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is a positional token: either a string or a numeric literal.
// The original token text is always kept.
type Value struct {
	text   string
	number float64
	isNum  bool
}

// String returns the token text as it appeared in the dump.
func (v Value) String() string {
	return v.text
}

// Number returns the numeric value and whether the token was numeric.
func (v Value) Number() (float64, bool) {
	return v.number, v.isNum
}

// IsNumber reports whether the token parsed as a numeric literal.
func (v Value) IsNumber() bool {
	return v.isNum
}

type attr struct {
	key   string
	value string
}

// Node is one parsed form. Nodes are immutable once the parser returns them.
type Node struct {
	tag      string
	values   []Value
	attrs    []attr
	children []*Node
	leaf     bool
}

// ShapeError reports a query against a position or key the node does not have.
type ShapeError struct {
	Tag  string
	Want string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("%s: missing %s", e.Tag, e.Want)
}

// Tag returns the first token of the form (e.g. "struct_decl").
func (n *Node) Tag() string {
	return n.tag
}

// IsLeaf reports whether the node wraps opaque text that was not a form.
func (n *Node) IsLeaf() bool {
	return n.leaf
}

// Text returns the opaque text of a leaf node.
func (n *Node) Text() string {
	if !n.leaf || len(n.values) == 0 {
		return ""
	}
	return n.values[0].text
}

// Len returns the number of positional values.
func (n *Node) Len() int {
	return len(n.values)
}

// Value returns the i-th positional value.
func (n *Node) Value(i int) (Value, bool) {
	if i < 0 || i >= len(n.values) {
		return Value{}, false
	}
	return n.values[i], true
}

// Values returns a copy of the positional values.
func (n *Node) Values() []Value {
	out := make([]Value, len(n.values))
	copy(out, n.values)
	return out
}

// Name returns the i-th positional value with its quotes removed.
func (n *Node) Name(i int) (string, error) {
	v, ok := n.Value(i)
	if !ok {
		return "", &ShapeError{Tag: n.tag, Want: "positional value " + strconv.Itoa(i)}
	}
	return Unquote(v.text), nil
}

// HasFlag reports whether a bare positional token equals flag
// (e.g. "implicit", "let").
func (n *Node) HasFlag(flag string) bool {
	for _, v := range n.values {
		if !v.isNum && v.text == flag {
			return true
		}
	}
	return false
}

// Attr returns the first value recorded for key.
func (n *Node) Attr(key string) (string, bool) {
	for _, a := range n.attrs {
		if a.key == key {
			return a.value, true
		}
	}
	return "", false
}

// MustAttr is Attr for shapes the caller knows exist at this AST position.
func (n *Node) MustAttr(key string) (string, error) {
	v, ok := n.Attr(key)
	if !ok {
		return "", &ShapeError{Tag: n.tag, Want: "attribute " + key}
	}
	return v, nil
}

// AttrValues returns every value recorded for key, in source order.
// Dumps repeat keys, e.g. type='ID.Type' followed by interface type='Int'.
func (n *Node) AttrValues(key string) []string {
	var out []string
	for _, a := range n.attrs {
		if a.key == key {
			out = append(out, a.value)
		}
	}
	return out
}

// Children returns the direct children with the given tag, in order.
func (n *Node) Children(tag string) []*Node {
	var out []*Node
	for _, c := range n.children {
		if c.tag == tag {
			out = append(out, c)
		}
	}
	return out
}

// AllChildren returns a copy of the direct children.
func (n *Node) AllChildren() []*Node {
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

// TokenCount returns the number of tokens the node was built from,
// counting the tag, positional values and attributes of the whole subtree.
func (n *Node) TokenCount() int {
	count := len(n.values) + len(n.attrs)
	if n.tag != "" {
		count++
	}
	for _, c := range n.children {
		count += c.TokenCount()
	}
	return count
}

// Unquote strips double and single quotes from a token.
// Quotes may appear mid-token, as in "Box"<T>.
func Unquote(s string) string {
	if !strings.ContainsAny(s, `"'`) {
		return s
	}
	return strings.NewReplacer(`"`, "", `'`, "").Replace(s)
}
