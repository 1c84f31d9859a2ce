package registry_test

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezedry/descriptor"
	"freezedry/registry"
)

type Shape interface{ Area() float64 }

type Polygon interface {
	Shape
	Sides() int
}

type Square struct{ Side float64 }

func (s Square) Area() float64 { return s.Side * s.Side }
func (Square) Sides() int      { return 4 }

type Circle struct{ Radius float64 }

func (c Circle) Area() float64 { return 3 * c.Radius * c.Radius }

type Walker interface{ Walk() }
type Swimmer interface{ Swim() }

type Duck struct{}

func (Duck) Walk() {}
func (Duck) Swim() {}

type Base struct{ ID int }

type Derived struct {
	Base
	Name string
}

func ExampleRegistry_Resolve() {
	reg := registry.New[string](descriptor.NewTable())
	reg.Register(reflect.TypeFor[Shape](), "shape handler")
	reg.Register(reflect.TypeFor[Polygon](), "polygon handler")

	for _, t := range []reflect.Type{reflect.TypeFor[Square](), reflect.TypeFor[Circle](), reflect.TypeFor[int]()} {
		handler, ok := reg.Resolve(t)
		fmt.Printf("%s: %q %v\n", t.Name(), handler, ok)
	}

	// Output:
	// Square: "polygon handler" true
	// Circle: "shape handler" true
	// int: "" false
}

func TestRegistry_Resolve(t *testing.T) {
	t.Parallel()

	t.Run("exact match wins over ancestors", func(t *testing.T) {
		t.Parallel()

		reg := registry.New[string](descriptor.NewTable())
		reg.Register(reflect.TypeFor[Polygon](), "polygon")
		reg.Register(reflect.TypeFor[Square](), "square")

		handler, ok := reg.Resolve(reflect.TypeFor[Square]())
		require.True(t, ok)
		assert.Equal(t, "square", handler)
	})

	t.Run("more specific interface wins regardless of order", func(t *testing.T) {
		t.Parallel()

		for _, order := range [][]reflect.Type{
			{reflect.TypeFor[Shape](), reflect.TypeFor[Polygon]()},
			{reflect.TypeFor[Polygon](), reflect.TypeFor[Shape]()},
		} {
			reg := registry.New[reflect.Type](descriptor.NewTable())
			for _, typ := range order {
				reg.Register(typ, typ)
			}

			handler, ok := reg.Resolve(reflect.TypeFor[Square]())
			require.True(t, ok)
			assert.Equal(t, reflect.TypeFor[Polygon](), handler)
		}
	})

	t.Run("ties resolve to the earliest registration", func(t *testing.T) {
		t.Parallel()

		reg := registry.New[string](descriptor.NewTable())
		reg.Register(reflect.TypeFor[Swimmer](), "swimmer")
		reg.Register(reflect.TypeFor[Walker](), "walker")

		for range 10 {
			closest, ok := reg.Closest(reflect.TypeFor[Duck]())
			require.True(t, ok)
			assert.Equal(t, reflect.TypeFor[Swimmer](), closest)
		}

		handler, _ := reg.Resolve(reflect.TypeFor[Duck]())
		assert.Equal(t, "swimmer", handler)

		reversed := registry.New[string](descriptor.NewTable())
		reversed.Register(reflect.TypeFor[Walker](), "walker")
		reversed.Register(reflect.TypeFor[Swimmer](), "swimmer")

		handler, _ = reversed.Resolve(reflect.TypeFor[Duck]())
		assert.Equal(t, "walker", handler)
	})

	t.Run("embedded struct resolves to its base", func(t *testing.T) {
		t.Parallel()

		reg := registry.New[string](descriptor.NewTable())
		reg.Register(reflect.TypeFor[Base](), "base")

		handler, ok := reg.Resolve(reflect.TypeFor[Derived]())
		require.True(t, ok)
		assert.Equal(t, "base", handler)

		_, ok = reg.Resolve(reflect.TypeFor[Square]())
		assert.False(t, ok)
	})

	t.Run("without hierarchy only exact matches resolve", func(t *testing.T) {
		t.Parallel()

		reg := registry.New[string](nil)
		reg.Register(reflect.TypeFor[Shape](), "shape")

		_, ok := reg.Resolve(reflect.TypeFor[Square]())
		assert.False(t, ok)

		handler, ok := reg.Resolve(reflect.TypeFor[Shape]())
		require.True(t, ok)
		assert.Equal(t, "shape", handler)
	})
}

func TestRegistry_Cache(t *testing.T) {
	t.Parallel()

	reg := registry.New[string](descriptor.NewTable())
	reg.Register(reflect.TypeFor[Shape](), "shape")

	handler, ok := reg.Resolve(reflect.TypeFor[Square]())
	require.True(t, ok)
	assert.Equal(t, "shape", handler)
	assert.Equal(t, 1, reg.Cached())

	// a closer ancestor registered later does not invalidate the cached lookup
	reg.Register(reflect.TypeFor[Polygon](), "polygon")
	handler, _ = reg.Resolve(reflect.TypeFor[Square]())
	assert.Equal(t, "shape", handler)

	closest, _ := reg.Closest(reflect.TypeFor[Square]())
	assert.Equal(t, reflect.TypeFor[Polygon](), closest)

	// the exact type registration replaces its own cache entry
	reg.Register(reflect.TypeFor[Square](), "square")
	handler, _ = reg.Resolve(reflect.TypeFor[Square]())
	assert.Equal(t, "square", handler)

	reg.Unregister(reflect.TypeFor[Square]())
	assert.False(t, reg.Has(reflect.TypeFor[Square]()))

	handler, _ = reg.Resolve(reflect.TypeFor[Square]())
	assert.Equal(t, "polygon", handler)

	assert.Equal(t, []reflect.Type{reflect.TypeFor[Shape](), reflect.TypeFor[Polygon]()}, reg.Types())
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_Clone(t *testing.T) {
	t.Parallel()

	reg := registry.New[string](descriptor.NewTable())
	reg.Register(reflect.TypeFor[Shape](), "shape")

	clone := reg.Clone()
	clone.Register(reflect.TypeFor[Shape](), "other")
	clone.Register(reflect.TypeFor[Walker](), "walker")

	handler, _ := reg.Resolve(reflect.TypeFor[Circle]())
	assert.Equal(t, "shape", handler)
	assert.Equal(t, 1, reg.Len())

	handler, _ = clone.Resolve(reflect.TypeFor[Circle]())
	assert.Equal(t, "other", handler)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[Shape](), reflect.TypeFor[Walker]()}, clone.Types())
}

func TestRegistry_ConcurrentResolve(t *testing.T) {
	t.Parallel()

	reg := registry.New[string](descriptor.NewTable())
	reg.Register(reflect.TypeFor[Shape](), "shape")
	reg.Register(reflect.TypeFor[Polygon](), "polygon")

	done := make(chan string)
	for range 8 {
		go func() {
			handler, _ := reg.Resolve(reflect.TypeFor[Square]())
			done <- handler
		}()
	}

	for range 8 {
		assert.Equal(t, "polygon", <-done)
	}
}
