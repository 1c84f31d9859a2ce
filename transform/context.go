package transform

import (
	"fmt"
	"reflect"
	"strings"

	"go.uber.org/zap"

	"freezedry/descriptor"
	"freezedry/diagnostic"
	"freezedry/node"
	"freezedry/options"
)

// Context carries the state of one Encode or Decode call. Handlers use it to
// recurse into the engine.
type Context struct {
	engine *Engine
	diags  *diagnostic.Diagnostics
	depth  int
	path   []string
	warned map[string]bool
}

func (c *Context) Engine() *Engine { return c.engine }

func (c *Context) Options() options.Options { return c.engine.opts }

func (c *Context) Descriptor() descriptor.Descriptor { return c.engine.table }

func (c *Context) Logger() *zap.Logger { return c.engine.logger }

func (c *Context) Diagnostics() *diagnostic.Diagnostics { return c.diags }

// Path returns the dotted path of the node being processed.
func (c *Context) Path() string {
	return strings.Join(c.path, ".")
}

func (c *Context) enter(name string) error {
	c.depth++
	c.path = append(c.path, name)

	if limit := c.engine.opts.MaxDepth; limit > 0 && c.depth > limit {
		return fmt.Errorf("%w: %d at %s", ErrDepthExceeded, limit, c.Path())
	}

	return nil
}

func (c *Context) leave() {
	c.depth--
	c.path = c.path[:len(c.path)-1]
}

// warnOnce records a warning diagnostic unless the same one was recorded
// already during this call.
func (c *Context) warnOnce(code, message, typ string) {
	key := code + "\x00" + typ + "\x00" + message
	if c.warned[key] {
		return
	}

	c.warned[key] = true
	c.diags.AddWarning(code, message, typ, c.Path())
	c.Logger().Warn(message, zap.String("code", code), zap.String("type", typ), zap.String("path", c.Path()))
}

// EncodeMember encodes a value held by a member, element or entry. It
// returns a nil node when the value is omitted.
func (c *Context) EncodeMember(value reflect.Value, site Site) (*node.Node, error) {
	if err := c.enter(site.Name()); err != nil {
		return nil, err
	}
	defer c.leave()

	for value.IsValid() && value.Kind() == reflect.Interface && !value.IsNil() {
		value = value.Elem()
	}

	if isNil(value) {
		return c.null(site), nil
	}

	dynamic := value.Type()

	h, err := c.engine.memberHandler(dynamic, site)
	for err == nil && h == nil {
		value = value.Elem()
		if isNil(value) {
			return c.null(site), nil
		}

		h, err = c.engine.memberHandler(value.Type(), site)
	}

	if err != nil {
		return nil, err
	}

	n, err := h.Encode(c, value, site)
	if err != nil || n == nil {
		return nil, err
	}

	if n.PersistName == "" {
		n.PersistName = site.Name()
	}

	if c.bridged(site, dynamic) {
		n.PersistName = c.bridgeName(n.PersistName, dynamic)
	}

	return n, nil
}

// null returns the null leaf of a nil value, or nil when the value is
// omitted. Positional values are never omitted.
func (c *Context) null(site Site) *node.Node {
	if !site.positional && !c.engine.opts.PersistNullValues {
		return nil
	}

	return node.NewLeaf(site.Field, site.Name(), nil)
}

// DecodeMember decodes the node into a value of the target type, refined by
// the type information the node and the metadata carry.
func (c *Context) DecodeMember(target reflect.Type, n *node.Node, site Site) (reflect.Value, error) {
	if err := c.enter(n.Name()); err != nil {
		return reflect.Value{}, err
	}
	defer c.leave()

	target, err := c.refine(target, n, site)
	if err != nil {
		return reflect.Value{}, err
	}

	if n.IsNull() {
		return reflect.Zero(target), nil
	}

	var ptrs int

	h, err := c.engine.memberHandler(target, site)
	for err == nil && h == nil {
		target = target.Elem()
		ptrs++
		h, err = c.engine.memberHandler(target, site)
	}

	if err != nil {
		if target.Kind() == reflect.Interface && n.IsLeaf() {
			return rawValue(n, target)
		}

		return reflect.Value{}, err
	}

	v, err := h.Decode(c, target, n, site)
	if err != nil {
		return reflect.Value{}, err
	}

	for range ptrs {
		v = addressOf(v)
	}

	return v, nil
}

// refine narrows the static target type with, in order of precedence, the
// bridged type name, the declared type of the node and the as= metadata.
func (c *Context) refine(target reflect.Type, n *node.Node, site Site) (reflect.Type, error) {
	if _, suffix, ok := c.splitBridge(n.PersistName, site.Name(), site.Field); ok {
		typ, found := c.Descriptor().LookupEscaped(suffix)
		switch {
		case !found:
			c.warnOnce(diagnostic.CodeBridgeTypeNotFound,
				fmt.Sprintf("no type named %q, decoding as %s", suffix, typeString(target)),
				typeString(site.Owner))
		case typ.AssignableTo(target):
			return typ, nil
		}
	}

	if declared := n.DeclaredType; declared != nil && declared != target && declared.AssignableTo(target) {
		target = declared
	}

	if site.Meta.As != "" {
		as, ok := c.Descriptor().Lookup(site.Meta.As)
		if !ok {
			return nil, &ResolutionError{Name: site.Meta.As, Err: ErrTypeNotFound}
		}

		if as.AssignableTo(target) {
			target = as
		}
	}

	return target, nil
}

// rawValue returns the leaf value itself for a target that is an interface
// no handler knows about.
func rawValue(n *node.Node, target reflect.Type) (reflect.Value, error) {
	rv := reflect.ValueOf(n.Value)
	if !rv.Type().AssignableTo(target) {
		return reflect.Value{}, &ParseError{Raw: n.Value, Target: target}
	}

	res := reflect.New(target).Elem()
	res.Set(rv)

	return res, nil
}

func (c *Context) encodeRoot(value reflect.Value) (*node.Node, error) {
	for value.Kind() == reflect.Pointer && !c.engine.handlesPointer(value.Type()) {
		value = value.Elem()
		if isNil(value) {
			return nil, ErrNilRoot
		}
	}

	t := value.Type()
	site := Site{
		PersistName: c.engine.typeName(t),
		Type:        t,
		Root:        true,
	}

	if err := c.enter(site.Name()); err != nil {
		return nil, err
	}
	defer c.leave()

	n, err := c.engine.rootHandler(t).Encode(c, value, site)
	if err != nil {
		return nil, err
	}

	if n.PersistName == "" {
		n.PersistName = site.Name()
	}

	return n, nil
}

func (c *Context) decodeRoot(target reflect.Type, tree *node.Node) (reflect.Value, error) {
	if target.Kind() == reflect.Pointer && !c.engine.handlesPointer(target) {
		elem, err := c.decodeRoot(target.Elem(), tree)
		if err != nil {
			return reflect.Value{}, err
		}

		return addressOf(elem), nil
	}

	if err := c.enter(tree.Name()); err != nil {
		return reflect.Value{}, err
	}
	defer c.leave()

	site := Site{
		PersistName: tree.Name(),
		Type:        target,
		Root:        true,
	}

	target, err := c.refine(target, tree, site)
	if err != nil {
		return reflect.Value{}, err
	}

	return c.engine.rootHandler(target).Decode(c, target, tree, site)
}

// addressOf returns a pointer to a copy of v.
func addressOf(v reflect.Value) reflect.Value {
	p := reflect.New(v.Type())
	p.Elem().Set(v)

	return p
}

func isNil(v reflect.Value) bool {
	if !v.IsValid() {
		return true
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return v.IsNil()
	default:
		return false
	}
}
