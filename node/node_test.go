package node_test

import (
	"fmt"
	"reflect"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezedry/node"
)

func ExampleNode_Walk() {
	root := node.NewRoot("Division", nil)
	people := node.NewCompound("people", "", reflect.TypeFor[[]string]())
	_ = people.AddChild(node.NewLeaf("", "string", "alice"), node.NewLeaf("", "string", "bob"))
	_ = root.AddChild(node.NewLeaf("name", "", "sales"), people)

	root.Walk(func(n *node.Node, depth int) bool {
		value := ""
		if n.IsLeaf() {
			value = fmt.Sprintf(" = %v", n.Value)
		}

		fmt.Printf("%s%s %s%s\n", strings.Repeat("  ", depth), n.Kind, n.Name(), value)
		return true
	})

	// Output:
	// KindRoot Division
	//   KindLeaf name = sales
	//   KindCompound people
	//     KindLeaf string = alice
	//     KindLeaf string = bob
}

func TestNode(t *testing.T) {
	t.Parallel()

	t.Run("persist name falls back to field name", func(t *testing.T) {
		t.Parallel()

		leaf := node.NewLeaf("age", "", 42)
		assert.Equal(t, "age", leaf.Name())
		assert.Equal(t, reflect.TypeFor[int](), leaf.DeclaredType)

		renamed := node.NewLeaf("age", "years", 42)
		assert.Equal(t, "years", renamed.Name())
		assert.Equal(t, "age", renamed.FieldName)
	})

	t.Run("null leaf", func(t *testing.T) {
		t.Parallel()

		leaf := node.NewLeaf("address", "", nil)
		assert.True(t, leaf.IsNull())
		assert.Nil(t, leaf.DeclaredType)
		assert.False(t, node.NewLeaf("x", "", "").IsNull())
	})

	t.Run("leaf rejects children", func(t *testing.T) {
		t.Parallel()

		leaf := node.NewLeaf("a", "", 1)
		err := leaf.AddChild(node.NewLeaf("b", "", 2))
		require.ErrorIs(t, err, node.ErrLeafChildren)
	})

	t.Run("child belongs to one parent", func(t *testing.T) {
		t.Parallel()

		first := node.NewCompound("first", "", nil)
		second := node.NewCompound("second", "", nil)
		child := node.NewLeaf("value", "", 1)

		require.NoError(t, first.AddChild(child))
		require.ErrorIs(t, second.AddChild(child), node.ErrSharedChild)
		assert.Same(t, first, child.Parent())

		assert.True(t, first.RemoveChild(child))
		assert.Nil(t, child.Parent())
		require.NoError(t, second.AddChild(child))
		assert.False(t, first.RemoveChild(child))
	})

	t.Run("child passed twice", func(t *testing.T) {
		t.Parallel()

		parent := node.NewCompound("parent", "", nil)
		child := node.NewLeaf("value", "", 1)

		require.ErrorIs(t, parent.AddChild(child, child), node.ErrSharedChild)
		assert.Empty(t, parent.Children)
		assert.Nil(t, child.Parent())
	})

	t.Run("lookup by name", func(t *testing.T) {
		t.Parallel()

		root := node.NewRoot("list", nil)
		require.NoError(t, root.AddChild(
			node.NewLeaf("", "int", 1),
			node.NewLeaf("", "string", "x"),
			node.NewLeaf("", "int", 2),
		))

		child, ok := root.Child("string")
		require.True(t, ok)
		assert.Equal(t, "x", child.Value)

		_, ok = root.Child("missing")
		assert.False(t, ok)

		ints := root.ChildrenNamed("int")
		require.Len(t, ints, 2)
		assert.Equal(t, 2, ints[1].Value)
	})

	t.Run("walk can prune", func(t *testing.T) {
		t.Parallel()

		root := node.NewRoot("r", nil)
		inner := node.NewCompound("inner", "", nil)
		require.NoError(t, inner.AddChild(node.NewLeaf("deep", "", true)))
		require.NoError(t, root.AddChild(inner, node.NewLeaf("flat", "", false)))

		var visited []string
		root.Walk(func(n *node.Node, _ int) bool {
			visited = append(visited, n.Name())
			return n.Name() != "inner"
		})

		assert.Equal(t, []string{"r", "inner", "flat"}, visited)
	})
}

func TestNode_Copy(t *testing.T) {
	t.Parallel()

	root := node.NewRoot("m", reflect.TypeFor[map[string]int]())
	root.GenericArgs = []reflect.Type{reflect.TypeFor[string](), reflect.TypeFor[int]()}
	entry := node.NewCompound("", "MapEntry", nil)
	require.NoError(t, entry.AddChild(node.NewLeaf("", "Key", "a"), node.NewLeaf("", "Value", 1)))
	require.NoError(t, root.AddChild(entry))

	cp := root.Copy()
	require.Len(t, cp.Children, 1)
	assert.NotSame(t, entry, cp.Children[0])
	assert.Same(t, cp, cp.Children[0].Parent())
	assert.Nil(t, cp.Parent())
	assert.Equal(t, root.GenericArgs, cp.GenericArgs)

	cp.Children[0].Children[1].Value = 2
	cp.GenericArgs[1] = reflect.TypeFor[int64]()
	assert.Equal(t, 1, entry.Children[1].Value)
	assert.Equal(t, reflect.TypeFor[int](), root.GenericArgs[1])
}
