package ast

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Property is a single key/value entry in a Node's property set. Properties
// keep insertion order so span- and position-based reasoning downstream sees
// them the way the analyzer emitted them.
type Property struct {
	Key   string
	Value any
}

// Node is the generic syntax tree node every analyzer produces. Type holds
// the native syntactic category name; the set of categories is open-ended
// across dialects, so it is a plain string rather than an enum. Children are
// in source order. A child belongs to exactly one parent.
//
// Analyzers omit a property key entirely when the native node has no value
// for it. Downstream matching treats key absence as "not applicable" and an
// empty string as "applicable but blank".
type Node struct {
	Type       string
	Properties []Property
	Children   []*Node
}

// NewNode returns a Node of the given category with no properties or children.
func NewNode(nodeType string) *Node {
	return &Node{Type: nodeType}
}

// SetProperty sets key to value, replacing an existing entry in place so the
// property order stays stable.
func (n *Node) SetProperty(key string, value any) {
	for i := range n.Properties {
		if n.Properties[i].Key == key {
			n.Properties[i].Value = value
			return
		}
	}
	n.Properties = append(n.Properties, Property{Key: key, Value: value})
}

// Property returns the value for key and whether the key is present.
func (n *Node) Property(key string) (any, bool) {
	for _, p := range n.Properties {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// StringProperty returns the value for key as a string. Returns ("", false)
// when the key is absent or the value is not a string.
func (n *Node) StringProperty(key string) (string, bool) {
	v, ok := n.Property(key)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// IntProperty returns the value for key as an int. Returns (0, false) when
// the key is absent or the value is not an int.
func (n *Node) IntProperty(key string) (int, bool) {
	v, ok := n.Property(key)
	if !ok {
		return 0, false
	}
	i, ok := v.(int)
	return i, ok
}

// AddChild appends child to n's children, preserving source order.
func (n *Node) AddChild(child *Node) {
	n.Children = append(n.Children, child)
}

// Walk visits n and its descendants depth-first in pre-order, so every
// parent is visited before its children. The visitor returns false to skip
// a node's subtree.
func (n *Node) Walk(visit func(*Node) bool) {
	if n == nil {
		return
	}
	if !visit(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(visit)
	}
}

// Count returns the number of descendant nodes (including n itself) whose
// category matches nodeType.
func (n *Node) Count(nodeType string) int {
	count := 0
	n.Walk(func(node *Node) bool {
		if node.Type == nodeType {
			count++
		}
		return true
	})
	return count
}

// MarshalJSON renders the node as a nested document with nodeType,
// properties, and children. Properties serialize as a JSON object whose
// member order matches property insertion order, which encoding/json maps
// cannot guarantee.
func (n *Node) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"nodeType":`)
	t, err := json.Marshal(n.Type)
	if err != nil {
		return nil, err
	}
	buf.Write(t)

	if len(n.Properties) > 0 {
		buf.WriteString(`,"properties":{`)
		for i, p := range n.Properties {
			if i > 0 {
				buf.WriteByte(',')
			}
			k, err := json.Marshal(p.Key)
			if err != nil {
				return nil, err
			}
			v, err := json.Marshal(p.Value)
			if err != nil {
				return nil, fmt.Errorf("property %s: %w", p.Key, err)
			}
			buf.Write(k)
			buf.WriteByte(':')
			buf.Write(v)
		}
		buf.WriteByte('}')
	}

	if len(n.Children) > 0 {
		buf.WriteString(`,"children":[`)
		for i, c := range n.Children {
			if i > 0 {
				buf.WriteByte(',')
			}
			cj, err := json.Marshal(c)
			if err != nil {
				return nil, err
			}
			buf.Write(cj)
		}
		buf.WriteByte(']')
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}
