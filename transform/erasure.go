package transform

import (
	"reflect"
	"slices"
	"strings"

	"freezedry/descriptor"
)

// bridged reports whether the concrete type of a value has to travel in its
// persisted name: the slot is an interface, so nothing else records it.
func (c *Context) bridged(site Site, dynamic reflect.Type) bool {
	if site.Root || site.Type == nil || site.Meta.As != "" {
		return false
	}

	return site.Type.Kind() == reflect.Interface && dynamic != site.Type
}

func (c *Context) bridgeName(name string, dynamic reflect.Type) string {
	return name + c.engine.opts.GenericTypeSeparator + descriptor.Escape(c.Descriptor().Name(dynamic))
}

// splitBridge cuts a bridged name into the member name and the escaped type
// name. Member names may end in '_' and escaped names may start with it, so
// the separator can match at several positions: the cut leaving one of the
// expected base names wins, the leftmost cut otherwise.
func (c *Context) splitBridge(name string, bases ...string) (base, escaped string, ok bool) {
	sep := c.engine.opts.GenericTypeSeparator
	if sep == "" {
		return name, "", false
	}

	first := -1
	for from := 0; from < len(name); {
		i := strings.Index(name[from:], sep)
		if i < 0 {
			break
		}

		at := from + i
		if at+len(sep) < len(name) {
			if first < 0 {
				first = at
			}

			if slices.Contains(bases, name[:at]) {
				return name[:at], name[at+len(sep):], true
			}
		}

		from = at + 1
	}

	if first < 0 {
		return name, "", false
	}

	return name[:first], name[first+len(sep):], true
}

// baseName strips the bridged type name, if any.
func (c *Context) baseName(name string, bases ...string) string {
	base, _, _ := c.splitBridge(name, bases...)
	return base
}
