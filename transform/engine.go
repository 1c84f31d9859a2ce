// Package transform converts object graphs into attributed trees and back.
//
// The Engine classifies every value it meets, picks a handler for it (a
// registered one, or one of the built-in leaf, enum, compound, collection,
// map and array handlers) and lets the handler recurse back into the engine
// for nested members, elements and entries.
package transform

import (
	"cmp"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"sync"

	"github.com/emirpasic/gods/lists"
	godsmaps "github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/queues"
	"github.com/emirpasic/gods/sets"
	"go.uber.org/zap"

	"freezedry/descriptor"
	"freezedry/diagnostic"
	"freezedry/node"
	"freezedry/options"
	"freezedry/registry"
)

// Engine encodes values into trees and decodes trees into values.
//
// Configure it (Register, RegisterNamed, Annotate) before sharing it between
// goroutines; Encode and Decode are then safe for concurrent use.
type Engine struct {
	opts   options.Options
	table  descriptor.Descriptor
	logger *zap.Logger

	handlers  *registry.Registry[Handler]
	defaults  *registry.Registry[options.Factory]
	concretes *registry.Registry[reflect.Type]

	mu          sync.RWMutex
	named       map[string]Handler
	annotations map[memberKey]Meta
	bound       map[reflect.Type][]boundMember

	leaf       Handler
	enum       Handler
	compound   Handler
	collection Handler
	mapping    Handler
	array      Handler
}

// EngineOption configures an Engine at construction.
type EngineOption func(*Engine)

// WithDescriptor sets the type facts the engine works with. It defaults to a
// fresh descriptor.Table.
func WithDescriptor(d descriptor.Descriptor) EngineOption {
	return func(e *Engine) { e.table = d }
}

// WithLogger sets the logger for cache fills and bridge misses. A nil logger
// keeps the no-op default.
func WithLogger(logger *zap.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithOptions applies transform options on top of options.Default().
func WithOptions(opts ...options.Option) EngineOption {
	return func(e *Engine) {
		for _, opt := range opts {
			opt(&e.opts)
		}
	}
}

// NewEngine builds an engine with the built-in handlers registered. The
// options are copied, so later changes to the tables passed in do not reach it.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		opts:        options.Default(),
		logger:      zap.NewNop(),
		named:       make(map[string]Handler),
		annotations: make(map[memberKey]Meta),
		bound:       make(map[reflect.Type][]boundMember),

		leaf:       leafHandler{},
		enum:       enumHandler{},
		compound:   compoundHandler{},
		collection: collectionHandler{},
		mapping:    mapHandler{},
		array:      arrayHandler{},
	}

	for _, opt := range opts {
		opt(e)
	}

	if e.table == nil {
		e.table = descriptor.NewTable()
	}

	e.opts = e.opts.Clone()

	e.handlers = registry.New[Handler](e.table)
	for _, t := range leafTypes {
		e.handlers.Register(t, e.leaf)
	}

	for _, t := range []reflect.Type{
		reflect.TypeFor[lists.List](),
		reflect.TypeFor[sets.Set](),
		reflect.TypeFor[queues.Queue](),
	} {
		e.handlers.Register(t, e.collection)
	}

	e.handlers.Register(reflect.TypeFor[godsmaps.Map](), e.mapping)

	e.defaults = registry.New[options.Factory](e.table)
	for _, t := range sortedKeys(e.table, e.opts.DefaultInstances) {
		e.defaults.Register(t, e.opts.DefaultInstances[t])
	}

	e.concretes = registry.New[reflect.Type](e.table)
	for _, t := range sortedKeys(e.table, e.opts.DefaultConcrete) {
		e.concretes.Register(t, e.opts.DefaultConcrete[t])
	}

	return e
}

// sortedKeys orders table keys by canonical name, so registration order and
// with it tie-breaking does not depend on map iteration.
func sortedKeys[V any](table descriptor.Descriptor, m map[reflect.Type]V) []reflect.Type {
	keys := slices.Collect(maps.Keys(m))
	slices.SortFunc(keys, func(a, b reflect.Type) int {
		return cmp.Compare(table.Name(a), table.Name(b))
	})

	return keys
}

// Options returns a copy of the engine configuration.
func (e *Engine) Options() options.Options {
	return e.opts.Clone()
}

func (e *Engine) Descriptor() descriptor.Descriptor {
	return e.table
}

func (e *Engine) Logger() *zap.Logger {
	return e.logger
}

// Register binds a handler to a type and its descendants.
func (e *Engine) Register(t reflect.Type, h Handler) {
	e.handlers.Register(t, h)
	e.logger.Debug("handler registered", zap.Stringer("type", t), zap.Stringer("kind", h.Kind()))
}

func (e *Engine) Unregister(t reflect.Type) {
	e.handlers.Unregister(t)
}

// RegisterNamed makes the handler available to the handler= metadata option.
func (e *Engine) RegisterNamed(name string, h Handler) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.named[name] = h
}

// Annotate attaches metadata to a member without a struct tag. It replaces
// the tag of that member entirely.
func (e *Engine) Annotate(owner reflect.Type, field string, m Meta) {
	if owner.Kind() == reflect.Pointer {
		owner = owner.Elem()
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.annotations[memberKey{owner: owner, field: field}] = m
	clear(e.bound)
}

// Encode builds the tree of v.
func (e *Engine) Encode(v any) (*node.Node, error) {
	n, _, err := e.EncodeWithReport(v)
	return n, err
}

// EncodeWithReport is Encode that also returns the non-fatal findings.
func (e *Engine) EncodeWithReport(v any) (*node.Node, *diagnostic.Diagnostics, error) {
	ctx := e.newContext()

	rv := reflect.ValueOf(v)
	if isNil(rv) {
		return nil, ctx.diags, ErrNilRoot
	}

	n, err := ctx.encodeRoot(rv)
	if err != nil {
		return nil, ctx.diags, err
	}

	return n, ctx.diags, nil
}

// Decode rebuilds a value of the target type from the tree. A nil target
// falls back to the declared type of the tree.
func (e *Engine) Decode(target reflect.Type, tree *node.Node) (any, error) {
	v, _, err := e.DecodeWithReport(target, tree)
	return v, err
}

// DecodeWithReport is Decode that also returns the non-fatal findings, such
// as bridged type names that no longer resolve.
func (e *Engine) DecodeWithReport(target reflect.Type, tree *node.Node) (any, *diagnostic.Diagnostics, error) {
	ctx := e.newContext()

	if tree == nil {
		return nil, ctx.diags, ErrNilRoot
	}

	if target == nil {
		target = tree.DeclaredType
	}

	if target == nil {
		return nil, ctx.diags, &ResolutionError{Name: tree.Name(), Err: fmt.Errorf("%w: tree declares no type", ErrTypeNotFound)}
	}

	v, err := ctx.decodeRoot(target, tree)
	if err != nil {
		return nil, ctx.diags, err
	}

	if !v.IsValid() {
		return nil, ctx.diags, nil
	}

	return v.Interface(), ctx.diags, nil
}

// DecodeAs decodes the tree into a T.
func DecodeAs[T any](e *Engine, tree *node.Node) (T, error) {
	var zero T

	v, err := e.Decode(reflect.TypeFor[T](), tree)
	if err != nil || v == nil {
		return zero, err
	}

	res, ok := v.(T)
	if !ok {
		return zero, &ResolutionError{Type: reflect.TypeOf(v), Err: fmt.Errorf("decoded value is not a %s", reflect.TypeFor[T]())}
	}

	return res, nil
}

func (e *Engine) newContext() *Context {
	return &Context{
		engine: e,
		diags:  &diagnostic.Diagnostics{},
		warned: make(map[string]bool),
	}
}

func (e *Engine) namedHandler(name string) (Handler, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	h, ok := e.named[name]
	return h, ok
}
