package descriptor

import (
	"reflect"
	"time"

	"github.com/emirpasic/gods/containers"
	"github.com/emirpasic/gods/lists"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/lists/doublylinkedlist"
	"github.com/emirpasic/gods/lists/singlylinkedlist"
	"github.com/emirpasic/gods/maps"
	"github.com/emirpasic/gods/maps/hashmap"
	"github.com/emirpasic/gods/maps/linkedhashmap"
	"github.com/emirpasic/gods/maps/treemap"
	"github.com/emirpasic/gods/queues"
	"github.com/emirpasic/gods/queues/linkedlistqueue"
	"github.com/emirpasic/gods/queues/priorityqueue"
	"github.com/emirpasic/gods/sets"
	"github.com/emirpasic/gods/sets/hashset"
	"github.com/emirpasic/gods/sets/linkedhashset"
	"github.com/emirpasic/gods/sets/treeset"
)

// SortedSet is a set that iterates its items in comparator order.
type SortedSet interface {
	sets.Set
	Iterator() treeset.Iterator
}

var scalarTypes = []reflect.Type{
	reflect.TypeFor[bool](),
	reflect.TypeFor[int](),
	reflect.TypeFor[int8](),
	reflect.TypeFor[int16](),
	reflect.TypeFor[int32](),
	reflect.TypeFor[int64](),
	reflect.TypeFor[uint](),
	reflect.TypeFor[uint8](),
	reflect.TypeFor[uint16](),
	reflect.TypeFor[uint32](),
	reflect.TypeFor[uint64](),
	reflect.TypeFor[float32](),
	reflect.TypeFor[float64](),
	reflect.TypeFor[string](),
	reflect.TypeFor[time.Time](),
	reflect.TypeFor[time.Duration](),
}

// ContainerInterfaces lists the container families from the most general one.
var ContainerInterfaces = []reflect.Type{
	reflect.TypeFor[containers.Container](),
	reflect.TypeFor[lists.List](),
	reflect.TypeFor[sets.Set](),
	reflect.TypeFor[SortedSet](),
	reflect.TypeFor[queues.Queue](),
	reflect.TypeFor[maps.Map](),
}

var containerTypes = []reflect.Type{
	reflect.TypeFor[arraylist.List](),
	reflect.TypeFor[doublylinkedlist.List](),
	reflect.TypeFor[singlylinkedlist.List](),
	reflect.TypeFor[hashset.Set](),
	reflect.TypeFor[linkedhashset.Set](),
	reflect.TypeFor[treeset.Set](),
	reflect.TypeFor[linkedlistqueue.Queue](),
	reflect.TypeFor[priorityqueue.Queue](),
	reflect.TypeFor[hashmap.Map](),
	reflect.TypeFor[linkedhashmap.Map](),
	reflect.TypeFor[treemap.Map](),
}

func registerWellKnown(t *Table) {
	for _, typ := range scalarTypes {
		t.register(typ)
	}

	for _, typ := range containerTypes {
		t.register(typ)
		t.register(reflect.PointerTo(typ))
	}

	for _, iface := range ContainerInterfaces {
		t.register(iface)
		t.ifaces = append(t.ifaces, iface)
	}
}
