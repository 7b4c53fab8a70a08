package ast

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetProperty_ReplacesInPlace(t *testing.T) {
	n := NewNode("class_declaration")
	n.SetProperty("name", "Foo")
	n.SetProperty("start", 0)
	n.SetProperty("name", "Bar")

	require.Len(t, n.Properties, 2)
	assert.Equal(t, "name", n.Properties[0].Key)
	assert.Equal(t, "Bar", n.Properties[0].Value)
	assert.Equal(t, "start", n.Properties[1].Key)
}

func TestProperty_AbsentVsEmpty(t *testing.T) {
	n := NewNode("identifier")
	n.SetProperty("name", "")

	// Present with an empty value: "applicable but blank".
	v, ok := n.StringProperty("name")
	require.True(t, ok)
	assert.Equal(t, "", v)

	// Absent key: "not applicable".
	_, ok = n.Property("text")
	assert.False(t, ok)
}

func TestStringProperty_WrongType(t *testing.T) {
	n := NewNode("identifier")
	n.SetProperty("start", 42)

	_, ok := n.StringProperty("start")
	assert.False(t, ok)

	i, ok := n.IntProperty("start")
	require.True(t, ok)
	assert.Equal(t, 42, i)
}

func TestWalk_PreOrder(t *testing.T) {
	root := NewNode("root")
	a := NewNode("a")
	b := NewNode("b")
	a1 := NewNode("a1")
	a.AddChild(a1)
	root.AddChild(a)
	root.AddChild(b)

	var visited []string
	root.Walk(func(n *Node) bool {
		visited = append(visited, n.Type)
		return true
	})
	// Parent before child, children in source order.
	assert.Equal(t, []string{"root", "a", "a1", "b"}, visited)
}

func TestWalk_SkipsSubtree(t *testing.T) {
	root := NewNode("root")
	a := NewNode("skip")
	a.AddChild(NewNode("hidden"))
	root.AddChild(a)
	root.AddChild(NewNode("b"))

	var visited []string
	root.Walk(func(n *Node) bool {
		visited = append(visited, n.Type)
		return n.Type != "skip"
	})
	assert.Equal(t, []string{"root", "skip", "b"}, visited)
}

func TestCount(t *testing.T) {
	root := NewNode("root")
	for range 3 {
		root.AddChild(NewNode("await_expression"))
	}
	inner := NewNode("block")
	inner.AddChild(NewNode("await_expression"))
	root.AddChild(inner)

	assert.Equal(t, 4, root.Count("await_expression"))
	assert.Equal(t, 0, root.Count("missing"))
}

func TestMarshalJSON_PreservesOrder(t *testing.T) {
	n := NewNode("method_declaration")
	n.SetProperty("name", "Run")
	n.SetProperty("start", 10)
	child := NewNode("identifier")
	child.SetProperty("text", "x")
	n.AddChild(child)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"nodeType":"method_declaration","properties":{"name":"Run","start":10},"children":[{"nodeType":"identifier","properties":{"text":"x"}}]}`,
		string(data))

	// Property order is part of the wire format, not just map equality.
	assert.Equal(t,
		`{"nodeType":"method_declaration","properties":{"name":"Run","start":10},"children":[{"nodeType":"identifier","properties":{"text":"x"}}]}`,
		string(data))
}

func TestMarshalJSON_OmitsEmptySections(t *testing.T) {
	data, err := json.Marshal(NewNode("CompilationUnit"))
	require.NoError(t, err)
	assert.Equal(t, `{"nodeType":"CompilationUnit"}`, string(data))
}
