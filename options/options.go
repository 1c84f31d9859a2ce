// Package options holds the per-engine configuration of the transform core.
//
// Every table here is a value owned by one engine: New copies the defaults,
// and Clone deep-copies them, so engines with different policies can coexist.
package options

import (
	"maps"
	"reflect"
	"slices"
	"time"

	"github.com/emirpasic/gods/containers"
	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/lists/singlylinkedlist"
	godsmaps "github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/queues"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/sets"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/emirpasic/gods/sets/treeset"

	"freezedry/descriptor"
	"freezedry/primitive"
)

const (
	DefaultGenericTypeSeparator = "___"
	DefaultArraySuffix          = "Array"
	DefaultEntryName            = "MapEntry"
	DefaultKeyName              = "Key"
	DefaultValueName            = "Value"
	DefaultDateFormat           = time.RFC3339Nano
)

// Factory produces a fresh instance for the default-instances table.
type Factory func() any

type Options struct {
	// PersistClassConstants includes members marked const when encoding.
	// Decoding never writes them.
	PersistClassConstants bool
	// PersistNullValues emits a null leaf for nil members instead of
	// leaving them out.
	PersistNullValues bool

	GenericTypeSeparator string
	ArraySuffix          string

	EntryName string
	KeyName   string
	ValueName string

	// DateFormat is the layout time values are encoded with.
	DateFormat string
	// DateParseFormats are tried in order after DateFormat when decoding.
	DateParseFormats []string

	// Tolerance selects the representations leaf decoding accepts besides
	// the exact type.
	Tolerance primitive.CategoryEnum

	// MaxDepth bounds the nesting of a single call; 0 means unbounded.
	MaxDepth int

	// ForbiddenRoots are types (and their descendants) that never use a
	// registered handler at the root.
	ForbiddenRoots []reflect.Type

	DefaultInstances map[reflect.Type]Factory
	// DefaultConcrete maps an interface to the type instantiated for it.
	DefaultConcrete map[reflect.Type]reflect.Type
}

type Option func(*Options)

// New returns the default options with opts applied.
func New(opts ...Option) Options {
	o := Default()
	for _, opt := range opts {
		opt(&o)
	}

	return o
}

func Default() Options {
	return Options{
		GenericTypeSeparator: DefaultGenericTypeSeparator,
		ArraySuffix:          DefaultArraySuffix,
		EntryName:            DefaultEntryName,
		KeyName:              DefaultKeyName,
		ValueName:            DefaultValueName,
		DateFormat:           DefaultDateFormat,
		DateParseFormats:     []string{time.RFC3339Nano, time.RFC3339, time.DateTime, time.DateOnly},
		Tolerance:            primitive.CategoryAll,
		DefaultInstances:     defaultInstances(),
		DefaultConcrete:      defaultConcrete(),
	}
}

// Clone returns a deep copy.
func (o Options) Clone() Options {
	o.DateParseFormats = slices.Clone(o.DateParseFormats)
	o.ForbiddenRoots = slices.Clone(o.ForbiddenRoots)
	o.DefaultInstances = maps.Clone(o.DefaultInstances)
	o.DefaultConcrete = maps.Clone(o.DefaultConcrete)

	return o
}

// ParseLayouts returns DateFormat followed by DateParseFormats without
// duplicates.
func (o Options) ParseLayouts() []string {
	res := make([]string, 0, len(o.DateParseFormats)+1)
	for _, layout := range append([]string{o.DateFormat}, o.DateParseFormats...) {
		if layout != "" && !slices.Contains(res, layout) {
			res = append(res, layout)
		}
	}

	return res
}

func WithPersistClassConstants(persist bool) Option {
	return func(o *Options) { o.PersistClassConstants = persist }
}

func WithPersistNullValues(persist bool) Option {
	return func(o *Options) { o.PersistNullValues = persist }
}

// WithGenericTypeSeparator sets the separator of the erasure bridge. An empty
// separator keeps the current one.
func WithGenericTypeSeparator(separator string) Option {
	return func(o *Options) {
		if separator != "" {
			o.GenericTypeSeparator = separator
		}
	}
}

func WithArraySuffix(suffix string) Option {
	return func(o *Options) {
		if suffix != "" {
			o.ArraySuffix = suffix
		}
	}
}

// WithEntryNames sets the names of map entries and their key and value
// children. Empty names keep the current ones.
func WithEntryNames(entry, key, value string) Option {
	return func(o *Options) {
		if entry != "" {
			o.EntryName = entry
		}

		if key != "" {
			o.KeyName = key
		}

		if value != "" {
			o.ValueName = value
		}
	}
}

// WithDateFormat accepts a layout or the name of a time package layout
// constant.
func WithDateFormat(layout string) Option {
	return func(o *Options) {
		if layout != "" {
			o.DateFormat = Layout(layout)
		}
	}
}

func WithDateParseFormats(layouts ...string) Option {
	return func(o *Options) {
		o.DateParseFormats = make([]string, 0, len(layouts))
		for _, layout := range layouts {
			o.DateParseFormats = append(o.DateParseFormats, Layout(layout))
		}
	}
}

func WithTolerance(tolerance primitive.CategoryEnum) Option {
	return func(o *Options) { o.Tolerance = tolerance }
}

func WithMaxDepth(depth int) Option {
	return func(o *Options) { o.MaxDepth = max(depth, 0) }
}

func WithForbiddenRoots(types ...reflect.Type) Option {
	return func(o *Options) { o.ForbiddenRoots = append(o.ForbiddenRoots, types...) }
}

func WithDefaultInstance(t reflect.Type, factory Factory) Option {
	return func(o *Options) {
		o.DefaultInstances = maps.Clone(o.DefaultInstances)
		if o.DefaultInstances == nil {
			o.DefaultInstances = make(map[reflect.Type]Factory)
		}

		o.DefaultInstances[t] = factory
	}
}

func WithDefaultConcrete(iface, concrete reflect.Type) Option {
	return func(o *Options) {
		o.DefaultConcrete = maps.Clone(o.DefaultConcrete)
		if o.DefaultConcrete == nil {
			o.DefaultConcrete = make(map[reflect.Type]reflect.Type)
		}

		o.DefaultConcrete[iface] = concrete
	}
}

var layouts = map[string]string{
	"Layout":      time.Layout,
	"ANSIC":       time.ANSIC,
	"UnixDate":    time.UnixDate,
	"RubyDate":    time.RubyDate,
	"RFC822":      time.RFC822,
	"RFC822Z":     time.RFC822Z,
	"RFC850":      time.RFC850,
	"RFC1123":     time.RFC1123,
	"RFC1123Z":    time.RFC1123Z,
	"RFC3339":     time.RFC3339,
	"RFC3339Nano": time.RFC3339Nano,
	"Kitchen":     time.Kitchen,
	"Stamp":       time.Stamp,
	"StampMilli":  time.StampMilli,
	"StampMicro":  time.StampMicro,
	"StampNano":   time.StampNano,
	"DateTime":    time.DateTime,
	"DateOnly":    time.DateOnly,
	"TimeOnly":    time.TimeOnly,
}

// Layout resolves the name of a time package layout constant; any other
// string is returned as is.
func Layout(name string) string {
	if layout, ok := layouts[name]; ok {
		return layout
	}

	return name
}

func defaultInstances() map[reflect.Type]Factory {
	return map[reflect.Type]Factory{
		reflect.TypeFor[*arraylist.List]():        func() any { return arraylist.New() },
		reflect.TypeFor[*doublylinkedlist.List](): func() any { return doublylinkedlist.New() },
		reflect.TypeFor[*singlylinkedlist.List](): func() any { return singlylinkedlist.New() },
		reflect.TypeFor[*hashset.Set]():           func() any { return hashset.New() },
		reflect.TypeFor[*linkedhashset.Set]():     func() any { return linkedhashset.New() },
		reflect.TypeFor[*linkedlistqueue.Queue](): func() any { return linkedlistqueue.New() },
		reflect.TypeFor[*hashmap.Map]():           func() any { return hashmap.New() },
		reflect.TypeFor[*linkedhashmap.Map]():     func() any { return linkedhashmap.New() },
	}
}

func defaultConcrete() map[reflect.Type]reflect.Type {
	return map[reflect.Type]reflect.Type{
		reflect.TypeFor[containers.Container](): reflect.TypeFor[*arraylist.List](),
		reflect.TypeFor[lists.List]():           reflect.TypeFor[*arraylist.List](),
		reflect.TypeFor[sets.Set]():             reflect.TypeFor[*hashset.Set](),
		reflect.TypeFor[descriptor.SortedSet](): reflect.TypeFor[*treeset.Set](),
		reflect.TypeFor[queues.Queue]():         reflect.TypeFor[*priorityqueue.Queue](),
		reflect.TypeFor[godsmaps.Map]():         reflect.TypeFor[*linkedhashmap.Map](),
	}
}
