package transform

import (
	"cmp"
	"fmt"
	"reflect"
	"time"

	"github.com/emirpasic/gods/utils"

	"freezedry/primitive"
)

var comparators = map[reflect.Type]utils.Comparator{
	reflect.TypeFor[string]():    utils.StringComparator,
	reflect.TypeFor[int]():       utils.IntComparator,
	reflect.TypeFor[int8]():      utils.Int8Comparator,
	reflect.TypeFor[int16]():     utils.Int16Comparator,
	reflect.TypeFor[int32]():     utils.Int32Comparator,
	reflect.TypeFor[int64]():     utils.Int64Comparator,
	reflect.TypeFor[uint]():      utils.UIntComparator,
	reflect.TypeFor[uint8]():     utils.UInt8Comparator,
	reflect.TypeFor[uint16]():    utils.UInt16Comparator,
	reflect.TypeFor[uint32]():    utils.UInt32Comparator,
	reflect.TypeFor[uint64]():    utils.UInt64Comparator,
	reflect.TypeFor[float32]():   utils.Float32Comparator,
	reflect.TypeFor[float64]():   utils.Float64Comparator,
	reflect.TypeFor[time.Time](): utils.TimeComparator,
}

// comparatorFor returns the comparator sorted containers of elements of type
// t are built with.
func comparatorFor(t reflect.Type) utils.Comparator {
	if c, ok := comparators[t]; ok {
		return c
	}

	return compareAny
}

// compareAny orders scalars of any type: nil first, then numbers by value
// whatever their width, text, booleans, instants and durations. Other values
// come last, ordered by their printed form.
func compareAny(a, b any) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}

	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	ka, kb := primitive.BaseKind(ra.Type()), primitive.BaseKind(rb.Type())

	if c := cmp.Compare(rank(ka), rank(kb)); c != 0 {
		return c
	}

	switch {
	case ka.IsNumber():
		switch {
		case ka.IsSigned() && kb.IsSigned():
			return cmp.Compare(ra.Int(), rb.Int())
		case ka.IsUnsigned() && kb.IsUnsigned():
			return cmp.Compare(ra.Uint(), rb.Uint())
		default:
			return cmp.Compare(toFloat(ra), toFloat(rb))
		}
	case ka == primitive.KindString:
		return cmp.Compare(ra.String(), rb.String())
	case ka == primitive.KindBool:
		return cmp.Compare(boolRank(ra.Bool()), boolRank(rb.Bool()))
	case ka == primitive.KindTime:
		return a.(time.Time).Compare(b.(time.Time))
	case ka == primitive.KindDuration:
		return cmp.Compare(ra.Int(), rb.Int())
	}

	return cmp.Compare(fmt.Sprintf("%T %v", a, a), fmt.Sprintf("%T %v", b, b))
}

func rank(k primitive.KindEnum) int {
	switch {
	case k.IsNumber():
		return 1
	case k == primitive.KindString:
		return 2
	case k == primitive.KindBool:
		return 3
	case k == primitive.KindTime:
		return 4
	case k == primitive.KindDuration:
		return 5
	default:
		return 6
	}
}

func toFloat(v reflect.Value) float64 {
	switch {
	case v.CanInt():
		return float64(v.Int())
	case v.CanUint():
		return float64(v.Uint())
	default:
		return v.Float()
	}
}

func boolRank(b bool) int {
	if b {
		return 1
	}

	return 0
}
