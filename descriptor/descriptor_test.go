package descriptor_test

import (
	"errors"
	"fmt"
	"reflect"
	"testing"

	"github.com/emirpasic/gods/containers"
	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezedry/descriptor"
)

type Shape interface{ Area() float64 }

type Polygon interface {
	Shape
	Sides() int
}

type Square struct{ Side float64 }

func (s Square) Area() float64 { return s.Side * s.Side }
func (Square) Sides() int      { return 4 }

var errNoSide = errors.New("side must be positive")

func NewSquare(side float64) (Square, error) {
	if side <= 0 {
		return Square{}, errNoSide
	}

	return Square{Side: side}, nil
}

type Person struct {
	Name   string
	Age    int
	secret string
}

func NewPerson(name string, age int) *Person { return &Person{Name: name, Age: age} }
func NewAnonymous() *Person                  { return &Person{Name: "anonymous"} }

type Employee struct {
	Person
	Title string
}

type Manager struct {
	Employee
	Reports []string
	Name    string
}

type A interface{ A() }

type B interface {
	A
	B()
}

type C struct{}

func (C) A() {}
func (C) B() {}

type D struct{ C }

type Color int

const (
	Red Color = iota
	Green
	Blue
)

func (c Color) String() string { return [...]string{"Red", "Green", "Blue"}[c] }

func ExampleTable_Distance() {
	table := descriptor.NewTable()
	_ = table.RegisterInterface(reflect.TypeFor[A]())
	_ = table.RegisterInterface(reflect.TypeFor[B]())

	d, _ := table.Distance(reflect.TypeFor[D](), reflect.TypeFor[A]())
	fmt.Println("D -> A:", d)

	d, _ = table.Distance(reflect.TypeFor[C](), reflect.TypeFor[A]())
	fmt.Println("C -> A:", d)

	d, _ = table.Distance(reflect.TypeFor[D](), reflect.TypeFor[C]())
	fmt.Println("D -> C:", d)

	_, ok := table.Distance(reflect.TypeFor[C](), reflect.TypeFor[D]())
	fmt.Println("C -> D:", ok)

	// Output:
	// D -> A: 3
	// C -> A: 2
	// D -> C: 1
	// C -> D: false
}

func TestTable_Distance(t *testing.T) {
	t.Parallel()

	table := descriptor.NewTable()
	require.NoError(t, table.RegisterInterface(reflect.TypeFor[Shape]()))
	require.NoError(t, table.RegisterInterface(reflect.TypeFor[Polygon]()))

	tests := []struct {
		name     string
		from, to reflect.Type
		want     int
		ok       bool
	}{
		{"same type", reflect.TypeFor[Square](), reflect.TypeFor[Square](), 0, true},
		{"direct interface", reflect.TypeFor[Square](), reflect.TypeFor[Polygon](), 1, true},
		{"through extending interface", reflect.TypeFor[Square](), reflect.TypeFor[Shape](), 2, true},
		{"interface to interface", reflect.TypeFor[Polygon](), reflect.TypeFor[Shape](), 1, true},
		{"base interface is not a descendant", reflect.TypeFor[Shape](), reflect.TypeFor[Polygon](), 0, false},
		{"embedded struct", reflect.TypeFor[Manager](), reflect.TypeFor[Employee](), 1, true},
		{"embedded twice", reflect.TypeFor[Manager](), reflect.TypeFor[Person](), 2, true},
		{"not an ancestor", reflect.TypeFor[Person](), reflect.TypeFor[Manager](), 0, false},
		{"unrelated", reflect.TypeFor[Person](), reflect.TypeFor[Shape](), 0, false},
		{"gods list to container", reflect.TypeFor[*arraylist.List](), reflect.TypeFor[containers.Container](), 2, true},
		{"gods map to map", reflect.TypeFor[*hashmap.Map](), reflect.TypeFor[maps.Map](), 1, true},
		{"gods map is not a list", reflect.TypeFor[*hashmap.Map](), reflect.TypeFor[lists.List](), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, ok := table.Distance(tt.from, tt.to)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestTable_DistanceLearnsInterfaces(t *testing.T) {
	t.Parallel()

	table := descriptor.NewTable()

	d, ok := table.Distance(reflect.TypeFor[Square](), reflect.TypeFor[fmt.Stringer]())
	assert.False(t, ok)
	assert.Zero(t, d)

	d, ok = table.Distance(reflect.TypeFor[Color](), reflect.TypeFor[fmt.Stringer]())
	require.True(t, ok)
	assert.Equal(t, 1, d)
}

func TestTable_DeclareExtends(t *testing.T) {
	t.Parallel()

	type Named interface{ Name() string }
	type Labeled interface{ Label() string }

	table := descriptor.NewTable()
	require.NoError(t, table.DeclareExtends(reflect.TypeFor[Labeled](), reflect.TypeFor[Named]()))

	d, ok := table.Distance(reflect.TypeFor[Labeled](), reflect.TypeFor[Named]())
	require.True(t, ok)
	assert.Equal(t, 1, d)

	err := table.DeclareExtends(reflect.TypeFor[Square](), reflect.TypeFor[Named]())
	require.ErrorIs(t, err, descriptor.ErrNotAnInterface)
}

func TestTable_Interfaces(t *testing.T) {
	t.Parallel()

	table := descriptor.NewTable()
	require.NoError(t, table.RegisterInterface(reflect.TypeFor[A]()))
	require.NoError(t, table.RegisterInterface(reflect.TypeFor[B]()))

	assert.Equal(t, []reflect.Type{reflect.TypeFor[B]()}, table.Interfaces(reflect.TypeFor[C]()))
	assert.Empty(t, table.Interfaces(reflect.TypeFor[D]()), "D inherits every interface from C")
	assert.Equal(t, []reflect.Type{reflect.TypeFor[A]()}, table.Interfaces(reflect.TypeFor[B]()))
	assert.Equal(t, []reflect.Type{reflect.TypeFor[lists.List]()}, table.Interfaces(reflect.TypeFor[*arraylist.List]()))
	assert.Equal(t, []reflect.Type{reflect.TypeFor[descriptor.SortedSet]()}, table.Interfaces(reflect.TypeFor[*treeset.Set]()))

	assert.Equal(t, reflect.TypeFor[C](), table.Supertype(reflect.TypeFor[D]()))
	assert.Equal(t, reflect.TypeFor[*Employee](), table.Supertype(reflect.TypeFor[*Manager]()))
	assert.Nil(t, table.Supertype(reflect.TypeFor[Person]()))
	assert.Nil(t, table.Supertype(reflect.TypeFor[int]()))
}

func TestTable_Members(t *testing.T) {
	t.Parallel()

	table := descriptor.NewTable()
	members := table.Members(reflect.TypeFor[*Manager]())

	var names []string
	for _, m := range members {
		names = append(names, m.Name)
	}

	assert.Equal(t, []string{"Age", "secret", "Title", "Reports", "Name"}, names)

	age := members[0]
	assert.Equal(t, []int{0, 0, 1}, age.Index)
	assert.Equal(t, reflect.TypeFor[Person](), age.Owner)
	assert.True(t, age.Exported)
	assert.False(t, members[1].Exported)
	assert.Equal(t, reflect.TypeFor[Manager](), members[4].Owner)

	assert.Nil(t, table.Members(reflect.TypeFor[int]()))
	assert.Equal(t, members, table.Members(reflect.TypeFor[Manager]()))
}

func TestTable_Names(t *testing.T) {
	t.Parallel()

	table := descriptor.NewTable()

	tests := []struct {
		typ  reflect.Type
		name string
	}{
		{reflect.TypeFor[int](), "int"},
		{reflect.TypeFor[Square](), "freezedry/descriptor_test.Square"},
		{reflect.TypeFor[*Square](), "*freezedry/descriptor_test.Square"},
		{reflect.TypeFor[[]Color](), "[]freezedry/descriptor_test.Color"},
		{reflect.TypeFor[[2]int](), "[2]int"},
		{reflect.TypeFor[map[string]int](), "map[string]int"},
	}

	for _, tt := range tests {
		name := table.Name(tt.typ)
		assert.Equal(t, tt.name, name)

		found, ok := table.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, tt.typ, found)

		found, ok = table.LookupEscaped(descriptor.Escape(name))
		require.True(t, ok, name)
		assert.Equal(t, tt.typ, found)
	}

	assert.Equal(t, "map_string_int", descriptor.Escape("map[string]int"))

	_, ok := table.Lookup("freezedry/descriptor_test.Unknown")
	assert.False(t, ok)

	ptr, ok := table.LookupEscaped("_github_com_emirpasic_gods_maps_hashmap_Map")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[*hashmap.Map](), ptr)

	fresh := descriptor.NewTable()
	descriptor.RegisterType[Person](fresh)
	ptr, ok = fresh.Lookup("*freezedry/descriptor_test.Person")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[*Person](), ptr)

	ptr, ok = fresh.LookupEscaped("_freezedry_descriptor_test_Person")
	require.True(t, ok)
	assert.Equal(t, reflect.TypeFor[*Person](), ptr)
}

func TestTable_Enums(t *testing.T) {
	t.Parallel()

	table := descriptor.NewTable()
	require.NoError(t, descriptor.RegisterStringerEnum(table, Red, Green, Blue))

	constants, ok := table.EnumConstants(reflect.TypeFor[Color]())
	require.True(t, ok)
	require.Len(t, constants, 3)
	assert.Equal(t, "Red", constants[0].Name)
	assert.Equal(t, Blue, constants[2].Value.Interface())
	assert.True(t, table.IsEnum(reflect.TypeFor[Color]()))
	assert.False(t, table.IsEnum(reflect.TypeFor[int]()))

	err := descriptor.RegisterEnum(table, descriptor.Constant[Color]{Name: "Red", Value: Red})
	require.ErrorIs(t, err, descriptor.ErrDuplicateName)

	err = descriptor.RegisterEnum(table, descriptor.Constant[Square]{Name: "Unit", Value: Square{Side: 1}})
	require.ErrorIs(t, err, descriptor.ErrNotAnEnum)

	err = descriptor.RegisterEnum(table, descriptor.Constant[int]{Name: "One", Value: 1})
	require.ErrorIs(t, err, descriptor.ErrNotAnEnum)
}

func TestTable_Clone(t *testing.T) {
	t.Parallel()

	table := descriptor.NewTable()
	require.NoError(t, descriptor.RegisterStringerEnum(table, Red))

	clone := table.Clone()
	require.NoError(t, descriptor.RegisterStringerEnum(clone, Green))

	constants, _ := table.EnumConstants(reflect.TypeFor[Color]())
	assert.Len(t, constants, 1)

	constants, _ = clone.EnumConstants(reflect.TypeFor[Color]())
	assert.Len(t, constants, 2)
}

func ExampleParseConstructor() {
	ctor, err := descriptor.ParseConstructor(NewPerson)
	fmt.Println(err, ctor.PackageAlias, ctor.Name, ctor.Result, len(ctor.Params), ctor.HasErr)

	ctor, err = descriptor.ParseConstructor(NewSquare)
	fmt.Println(err, ctor.PackageAlias, ctor.Name, ctor.Result, len(ctor.Params), ctor.HasErr)

	_, err = descriptor.ParseConstructor(42)
	fmt.Println(err)

	_, err = descriptor.ParseConstructor(func() {})
	fmt.Println(err)

	_, err = descriptor.ParseConstructor(func() (Square, bool) { return Square{}, true })
	fmt.Println(err)

	_, err = descriptor.ParseConstructor(func() **Square { return nil })
	fmt.Println(err)

	// Output:
	// <nil> descriptor_test NewPerson *descriptor_test.Person 2 false
	// <nil> descriptor_test NewSquare descriptor_test.Square 1 true
	// provided constructor is not a function
	// provided function is not a recognizable constructor
	// provided function is not a recognizable constructor
	// constructor function does not support double pointers
}

func TestTable_Constructors(t *testing.T) {
	t.Parallel()

	table := descriptor.NewTable()
	require.NoError(t, table.RegisterConstructor(NewPerson, NewAnonymous, NewSquare))

	ctors := table.Constructors(reflect.TypeFor[Person]())
	require.Len(t, ctors, 2)
	assert.Equal(t, "NewAnonymous", ctors[0].Name, "fewest parameters first")
	assert.Equal(t, ctors, table.Constructors(reflect.TypeFor[*Person]()))

	value, err := ctors[1].Call()
	require.NoError(t, err)
	assert.Equal(t, &Person{}, value.Interface())

	ctors = table.Constructors(reflect.TypeFor[Square]())
	require.Len(t, ctors, 1)

	_, err = ctors[0].Call()
	require.ErrorIs(t, err, errNoSide)

	err = table.RegisterConstructor("not a function")
	require.ErrorIs(t, err, descriptor.ErrConstructorNotAFunction)
}
