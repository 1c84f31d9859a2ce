package options_test

import (
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezedry/options"
	"freezedry/primitive"
)

func ExampleNew() {
	o := options.New(
		options.WithPersistNullValues(true),
		options.WithGenericTypeSeparator(""),
		options.WithDateFormat("DateOnly"),
	)

	fmt.Println(o.PersistNullValues, o.GenericTypeSeparator, o.DateFormat)

	// Output:
	// true ___ 2006-01-02
}

func TestDefault(t *testing.T) {
	t.Parallel()

	o := options.Default()
	assert.False(t, o.PersistClassConstants)
	assert.False(t, o.PersistNullValues)
	assert.Equal(t, "___", o.GenericTypeSeparator)
	assert.Equal(t, "Array", o.ArraySuffix)
	assert.Equal(t, "MapEntry", o.EntryName)
	assert.Equal(t, "Key", o.KeyName)
	assert.Equal(t, "Value", o.ValueName)
	assert.Equal(t, time.RFC3339Nano, o.DateFormat)
	assert.Equal(t, primitive.CategoryAll, o.Tolerance)
	assert.Zero(t, o.MaxDepth)
	assert.Empty(t, o.ForbiddenRoots)

	assert.Equal(t, reflect.TypeFor[*arraylist.List](), o.DefaultConcrete[reflect.TypeFor[lists.List]()])
	require.Contains(t, o.DefaultInstances, reflect.TypeFor[*arraylist.List]())
	assert.IsType(t, &arraylist.List{}, o.DefaultInstances[reflect.TypeFor[*arraylist.List]()]())
}

func TestOptions_Isolation(t *testing.T) {
	t.Parallel()

	first := options.New(options.WithDefaultConcrete(reflect.TypeFor[lists.List](), reflect.TypeFor[*doublylinkedlist.List]()))
	second := options.New()

	assert.Equal(t, reflect.TypeFor[*doublylinkedlist.List](), first.DefaultConcrete[reflect.TypeFor[lists.List]()])
	assert.Equal(t, reflect.TypeFor[*arraylist.List](), second.DefaultConcrete[reflect.TypeFor[lists.List]()])

	clone := first.Clone()
	clone.DateParseFormats[0] = "changed"
	delete(clone.DefaultConcrete, reflect.TypeFor[lists.List]())

	assert.Equal(t, time.RFC3339Nano, first.DateParseFormats[0])
	assert.Contains(t, first.DefaultConcrete, reflect.TypeFor[lists.List]())
}

func TestOptions_ParseLayouts(t *testing.T) {
	t.Parallel()

	o := options.New(
		options.WithDateFormat("RFC3339"),
		options.WithDateParseFormats("RFC3339", "DateOnly", "02.01.2006"),
	)

	assert.Equal(t, []string{time.RFC3339, time.DateOnly, "02.01.2006"}, o.ParseLayouts())
}

func TestOptions_Setters(t *testing.T) {
	t.Parallel()

	o := options.New(
		options.WithPersistClassConstants(true),
		options.WithArraySuffix("List"),
		options.WithEntryNames("Pair", "", "Val"),
		options.WithTolerance(primitive.CategorySafeNumber),
		options.WithMaxDepth(-3),
		options.WithForbiddenRoots(reflect.TypeFor[string]()),
		options.WithDefaultInstance(reflect.TypeFor[int](), func() any { return 7 }),
	)

	assert.True(t, o.PersistClassConstants)
	assert.Equal(t, "List", o.ArraySuffix)
	assert.Equal(t, "Pair", o.EntryName)
	assert.Equal(t, "Key", o.KeyName)
	assert.Equal(t, "Val", o.ValueName)
	assert.Equal(t, primitive.CategorySafeNumber, o.Tolerance)
	assert.Zero(t, o.MaxDepth)
	assert.Equal(t, []reflect.Type{reflect.TypeFor[string]()}, o.ForbiddenRoots)
	assert.Equal(t, 7, o.DefaultInstances[reflect.TypeFor[int]()]())
}

func TestLayout(t *testing.T) {
	t.Parallel()

	assert.Equal(t, time.Kitchen, options.Layout("Kitchen"))
	assert.Equal(t, "2006/01/02", options.Layout("2006/01/02"))
}
