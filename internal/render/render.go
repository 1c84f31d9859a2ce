// Package render writes semantic trees and difference reports for the
// command line.
package render

import (
	"fmt"
	"io"

	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/list"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"freezedry/diff"
	"freezedry/node"
)

const nullText = "null"

// Options configures rendering.
type Options struct {
	// Types appends the declared type of compound nodes.
	Types bool
	// NoColor disables colored output.
	NoColor bool
}

// Tree renders the tree as an indented list, one node per item.
func Tree(w io.Writer, tree *node.Node, opts Options) {
	lw := list.NewWriter()
	lw.SetStyle(list.StyleConnectedRounded)
	lw.SetOutputMirror(w)

	var visit func(n *node.Node)
	visit = func(n *node.Node) {
		lw.AppendItem(item(n, opts))

		if !n.HasChildren() {
			return
		}

		lw.Indent()
		for _, child := range n.Children {
			visit(child)
		}
		lw.UnIndent()
	}

	if tree != nil {
		visit(tree)
	}

	lw.Render()
}

func item(n *node.Node, opts Options) string {
	name := paint(opts, color.New(color.FgCyan), n.Name())

	if n.IsLeaf() {
		if n.IsNull() {
			return name + " = " + paint(opts, color.New(color.FgHiBlack), nullText)
		}

		return fmt.Sprintf("%s = %v", name, n.Value)
	}

	if opts.Types && n.DeclaredType != nil {
		return name + " " + paint(opts, color.New(color.FgHiBlack), n.DeclaredType.String())
	}

	return name
}

// Differences renders the result of a difference calculation as a table of
// path, object value and reference value.
func Differences(w io.Writer, diffs *linkedhashmap.Map, opts Options) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	style := table.StyleLight
	style.Format.Header = text.FormatDefault
	style.Format.Footer = text.FormatDefault
	tw.SetStyle(style)
	tw.AppendHeader(table.Row{"Path", "Object", "Reference"})

	it := diffs.Iterator()
	for it.Next() {
		d, ok := it.Value().(diff.Difference)
		if !ok {
			continue
		}

		tw.AppendRow(table.Row{
			it.Key(),
			side(opts, color.New(color.FgGreen), d.Object),
			side(opts, color.New(color.FgRed), d.Reference),
		})
	}

	tw.AppendFooter(table.Row{"", "", fmt.Sprintf("%d difference(s)", diffs.Size())})
	tw.Render()
}

func side(opts Options, c *color.Color, v any) string {
	if v == nil {
		return paint(opts, color.New(color.FgHiBlack), nullText)
	}

	return paint(opts, c, fmt.Sprint(v))
}

func paint(opts Options, c *color.Color, s string) string {
	if opts.NoColor {
		return s
	}

	return c.Sprint(s)
}
