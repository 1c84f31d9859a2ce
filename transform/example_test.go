package transform_test

import (
	"fmt"
	"strings"

	"freezedry/node"
	"freezedry/transform"
)

func ExampleEngine_Encode() {
	e := transform.NewEngine()

	tree, err := e.Encode(Address{Street: "Main", City: "Springfield"})
	if err != nil {
		fmt.Println(err)
		return
	}

	tree.Walk(func(n *node.Node, depth int) bool {
		if n.IsLeaf() {
			fmt.Printf("%s%s = %v\n", strings.Repeat("  ", depth), n.Name(), n.Value)
		} else {
			fmt.Printf("%s%s\n", strings.Repeat("  ", depth), n.Name())
		}

		return true
	})

	// Output:
	// Address
	//   street = Main
	//   City = Springfield
}

func ExampleDecodeAs() {
	e := transform.NewEngine()

	tree, _ := e.Encode(Address{Street: "Main", City: "Springfield"})

	a, err := transform.DecodeAs[Address](e, tree)
	fmt.Println(a.Street, a.City, err)

	// Output:
	// Main Springfield <nil>
}

func ExampleEngine_Encode_nestedArrays() {
	e := transform.NewEngine()

	tree, _ := e.Encode([][]int{{1, 2}, {3}})

	fmt.Println(tree.Name(), tree.Children[0].Name(), tree.Children[0].Children[0].Name())

	// Output:
	// intArrayArray intArray int
}
