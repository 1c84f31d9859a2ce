package transform

import (
	"fmt"
	"reflect"

	"freezedry/descriptor"
	"freezedry/diagnostic"
	"freezedry/node"
	"freezedry/primitive"
)

// boundMember is a member together with its effective metadata.
type boundMember struct {
	descriptor.Member
	Meta Meta

	// invalid holds the error of a malformed tag
	invalid error
}

func (m boundMember) persistName() string {
	if m.Meta.Name != "" {
		return m.Meta.Name
	}

	return m.Name
}

func (m boundMember) site(owner reflect.Type) Site {
	return Site{
		Owner:       owner,
		Field:       m.Name,
		PersistName: m.persistName(),
		Type:        m.Type,
		Meta:        m.Meta,
	}
}

type compoundHandler struct{}

func (compoundHandler) Kind() HandlerKind { return KindCompound }

func (compoundHandler) Encode(ctx *Context, value reflect.Value, site Site) (*node.Node, error) {
	declared := value.Type()
	for value.Kind() == reflect.Pointer {
		value = value.Elem()
	}

	owner := value.Type()
	if owner.Kind() != reflect.Struct {
		return nil, &ResolutionError{Type: declared}
	}

	n := site.newNode(declared)
	for _, m := range ctx.members(owner) {
		if !m.Exported || m.Meta.Ignore {
			continue
		}

		if m.Meta.Const && !ctx.Options().PersistClassConstants {
			continue
		}

		fv, err := value.FieldByIndexErr(m.Index)
		if err != nil {
			// promoted through a nil embedded pointer
			continue
		}

		child, err := ctx.EncodeMember(fv, m.site(owner))
		if err != nil {
			return nil, within(owner, m.Name, err)
		}

		if child == nil {
			continue
		}

		if err := n.AddChild(child); err != nil {
			return nil, within(owner, m.Name, err)
		}
	}

	return n, nil
}

// Decode instantiates the struct, then populates it member by member.
func (compoundHandler) Decode(ctx *Context, target reflect.Type, n *node.Node, _ Site) (reflect.Value, error) {
	v, err := ctx.Instantiate(target, n)
	if err != nil {
		return reflect.Value{}, err
	}

	obj := v
	for obj.Kind() == reflect.Pointer {
		obj = obj.Elem()
	}

	if obj.Kind() != reflect.Struct {
		return reflect.Value{}, &ResolutionError{Type: target}
	}

	if err := ctx.populate(obj, n); err != nil {
		return reflect.Value{}, err
	}

	return v, nil
}

func (c *Context) populate(obj reflect.Value, n *node.Node) error {
	owner := obj.Type()
	members := c.members(owner)

	for _, child := range n.Children {
		m, ok := c.memberFor(members, child)
		if !ok {
			return &MemberError{Owner: owner, Field: child.Name(), Err: ErrMemberMapping}
		}

		if m.Meta.Const || m.Meta.Ignore {
			continue
		}

		if !m.Exported {
			return &MemberError{Owner: owner, Field: m.Name, Err: ErrAccessDenied}
		}

		field, ok := fieldForWrite(obj, m.Index)
		if !ok {
			return &MemberError{Owner: owner, Field: m.Name, Err: ErrAccessDenied}
		}

		v, err := c.DecodeMember(m.Type, child, m.site(owner))
		if err != nil {
			return within(owner, m.Name, err)
		}

		if err := c.assign(field, v, m.Meta); err != nil {
			return within(owner, m.Name, err)
		}
	}

	return nil
}

// memberFor finds the member a child node belongs to: by the member name the
// node was built from, by its persisted name, and finally by the metadata
// name of a member.
func (c *Context) memberFor(members []boundMember, child *node.Node) (boundMember, bool) {
	if child.FieldName != "" {
		for _, m := range members {
			if m.Name == child.FieldName {
				return m, true
			}
		}
	}

	names := make([]string, 0, len(members))
	for _, m := range members {
		names = append(names, m.persistName())
	}

	name := c.baseName(child.Name(), names...)
	for _, m := range members {
		if m.Name == name {
			return m, true
		}
	}

	for _, m := range members {
		if m.Meta.Name != "" && m.Meta.Name == name {
			return m, true
		}
	}

	return boundMember{}, false
}

// members returns the bound members of a struct and reports the metadata
// problems found on them.
func (c *Context) members(owner reflect.Type) []boundMember {
	members := c.engine.bind(owner)
	for _, m := range members {
		if m.invalid != nil {
			c.warnOnce(diagnostic.CodeMalformedMetadata,
				fmt.Sprintf("member %s: %v", m.Name, m.invalid), typeString(owner))
		}

		for _, opt := range m.Meta.Unknown {
			c.warnOnce(diagnostic.CodeUnknownMetadataOption,
				fmt.Sprintf("member %s: unknown option %q", m.Name, opt), typeString(owner))
		}
	}

	return members
}

func (e *Engine) bind(owner reflect.Type) []boundMember {
	e.mu.RLock()
	cached, ok := e.bound[owner]
	e.mu.RUnlock()

	if ok {
		return cached
	}

	members := e.table.Members(owner)
	res := make([]boundMember, 0, len(members))

	e.mu.Lock()
	defer e.mu.Unlock()

	for _, m := range members {
		bm := boundMember{Member: m}

		if meta, ok := e.annotation(owner, m); ok {
			bm.Meta = meta
		} else {
			bm.Meta, bm.invalid = ParseMeta(m.Tag)
		}

		res = append(res, bm)
	}

	e.bound[owner] = res

	return res
}

// annotation looks up out-of-band metadata on the outer struct first, then on
// the struct declaring the member. Callers hold e.mu.
func (e *Engine) annotation(owner reflect.Type, m descriptor.Member) (Meta, bool) {
	if meta, ok := e.annotations[memberKey{owner: owner, field: m.Name}]; ok {
		return meta, true
	}

	meta, ok := e.annotations[memberKey{owner: m.Owner, field: m.Name}]

	return meta, ok
}

// fieldForWrite returns the settable field at index, allocating nil embedded
// pointers on the way.
func fieldForWrite(obj reflect.Value, index []int) (reflect.Value, bool) {
	v := obj
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}, false
				}

				v.Set(reflect.New(v.Type().Elem()))
			}

			v = v.Elem()
		}

		v = v.Field(x)
	}

	return v, v.CanSet()
}

// assign stores a decoded value into dst.
func (c *Context) assign(dst, v reflect.Value, m Meta) error {
	fitted, err := c.fit(v, dst.Type(), m)
	if err != nil {
		return err
	}

	dst.Set(fitted)

	return nil
}

// fit adapts a decoded value to t through one pointer indirection or a
// conversion between scalar types.
func (c *Context) fit(v reflect.Value, t reflect.Type, m Meta) (reflect.Value, error) {
	if !v.IsValid() {
		return reflect.Zero(t), nil
	}

	if adapted, ok := adapt(v, t); ok {
		return adapted, nil
	}

	if v.Kind() == reflect.Interface && !v.IsNil() {
		return c.fit(v.Elem(), t, m)
	}

	if primitive.IsLeaf(v.Type()) && primitive.IsLeaf(t) {
		return convertLeaf(c, v.Interface(), t, m)
	}

	return reflect.Value{}, &ResolutionError{Type: v.Type(), Err: fmt.Errorf("not assignable to %s", t)}
}
