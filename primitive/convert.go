package primitive

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"freezedry/utils"
)

var (
	ErrNotScalar      = errors.New("type is not a scalar")
	ErrNotConvertible = errors.New("value has no tolerated representation for the target type")
	ErrOutOfRange     = errors.New("value does not fit into the target type")
)

var textualBools = map[string]bool{
	"true": true, "yes": true, "on": true, "1": true,
	"false": false, "no": false, "off": false, "0": false,
}

// Canonical returns the persisted representation of a scalar value: the
// value converted to its base type, time formatted with layout and
// durations in their textual form.
func Canonical(value reflect.Value, layout string) (any, error) {
	kind := BaseKind(value.Type())

	switch kind {
	case 0:
		return nil, fmt.Errorf("%w: %s", ErrNotScalar, value.Type())
	case KindTime:
		return value.Interface().(time.Time).Format(layout), nil
	case KindDuration:
		return value.Interface().(time.Duration).String(), nil
	}

	base := baseTypes[kind]
	if value.Type() == base {
		return value.Interface(), nil
	}

	return value.Convert(base).Interface(), nil
}

// Convert turns a raw persisted value into a value of the target type. The
// tolerated representations are tried in order: the target type itself (or
// its base type), a numeric value of another width and finally text. Only the
// categories present in allowed are considered.
func Convert(raw any, target reflect.Type, allowed CategoryEnum, layouts []string) (reflect.Value, error) {
	to := BaseKind(target)
	if to == 0 {
		return reflect.Value{}, fmt.Errorf("%w: %s", ErrNotScalar, target)
	}

	if raw == nil {
		return reflect.Value{}, fmt.Errorf("%w: nil for %s", ErrNotConvertible, target)
	}

	rv := reflect.ValueOf(raw)
	from := BaseKind(rv.Type())

	if rv.Type() == target {
		return rv, nil
	}

	if from == to {
		return rv.Convert(target), nil
	}

	if from != 0 && from != KindString {
		res, err := convertNumeric(rv, from, target, to, allowed)
		if err == nil || errors.Is(err, ErrOutOfRange) {
			return res, err
		}
	}

	if from == KindString || to == KindString {
		return convertText(rv, from, target, to, allowed, layouts)
	}

	return reflect.Value{}, fmt.Errorf("%w: %T to %s", ErrNotConvertible, raw, target)
}

func convertNumeric(rv reflect.Value, from KindEnum, target reflect.Type, to KindEnum, allowed CategoryEnum) (reflect.Value, error) {
	pair := ConversionPair{from, to}
	category := CategoryOf(pair) & allowed

	switch {
	case category&CategorySafeNumber != 0:
		return rv.Convert(target), nil

	case category&CategoryUnsafeNumber != 0:
		if !fits(rv, from, to) {
			return reflect.Value{}, fmt.Errorf("%w: %v as %s", ErrOutOfRange, rv.Interface(), target)
		}

		return rv.Convert(target), nil

	case category&CategoryNumericBool != 0:
		if to == KindBool {
			n := rv.Convert(reflect.TypeOf(int64(0))).Int()
			if n != 0 && n != 1 {
				return reflect.Value{}, fmt.Errorf("%w: %d as bool", ErrOutOfRange, n)
			}

			return reflect.ValueOf(n == 1).Convert(target), nil
		}

		n := 0
		if rv.Bool() {
			n = 1
		}

		return reflect.ValueOf(n).Convert(target), nil

	case category&CategoryTimestamp != 0 && to == KindTime:
		return reflect.ValueOf(time.Unix(rv.Convert(reflect.TypeOf(int64(0))).Int(), 0).UTC()), nil

	case category&CategoryNanoseconds != 0 && to == KindDuration:
		return reflect.ValueOf(time.Duration(rv.Convert(reflect.TypeOf(int64(0))).Int())), nil

	case category&CategorySeconds != 0 && to == KindDuration:
		return reflect.ValueOf(time.Duration(rv.Float() * float64(time.Second))), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, rv.Type(), target)
}

func convertText(rv reflect.Value, from KindEnum, target reflect.Type, to KindEnum, allowed CategoryEnum, layouts []string) (reflect.Value, error) {
	if to == KindString {
		text, ok := formatText(rv, from, allowed)
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %s to %s", ErrNotConvertible, rv.Type(), target)
		}

		return reflect.ValueOf(text).Convert(target), nil
	}

	text := strings.TrimSpace(rv.String())
	category := CategoryOf(ConversionPair{KindString, to}) & allowed

	switch {
	case category&CategoryTextNumber != 0 && to.IsSigned():
		n, err := strconv.ParseInt(text, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrNotConvertible, err)
		}

		return reflect.ValueOf(n).Convert(target), nil

	case category&CategoryTextNumber != 0 && to.IsUnsigned():
		n, err := strconv.ParseUint(text, 10, to.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrNotConvertible, err)
		}

		return reflect.ValueOf(n).Convert(target), nil

	case category&CategoryTextNumber != 0 && to.IsFloat():
		n, err := strconv.ParseFloat(text, to.Bits())
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrNotConvertible, err)
		}

		return reflect.ValueOf(n).Convert(target), nil

	case category&CategoryTextualBool != 0 && to == KindBool:
		b, ok := textualBools[strings.ToLower(text)]
		if !ok {
			return reflect.Value{}, fmt.Errorf("%w: %q as bool", ErrNotConvertible, text)
		}

		return reflect.ValueOf(b).Convert(target), nil

	case category&CategoryDatetime != 0 && to == KindTime:
		var errs []error
		for _, layout := range layouts {
			t, err := time.Parse(layout, text)
			if err == nil {
				return reflect.ValueOf(t), nil
			}

			errs = append(errs, err)
		}

		return reflect.Value{}, fmt.Errorf("%w: %q matches none of %d layouts: %w", ErrNotConvertible, text, len(layouts), errors.Join(errs...))

	case category&CategoryDuration != 0 && to == KindDuration:
		d, err := time.ParseDuration(text)
		if err != nil {
			return reflect.Value{}, fmt.Errorf("%w: %w", ErrNotConvertible, err)
		}

		return reflect.ValueOf(d), nil
	}

	return reflect.Value{}, fmt.Errorf("%w: string to %s", ErrNotConvertible, target)
}

func formatText(rv reflect.Value, from KindEnum, allowed CategoryEnum) (string, bool) {
	category := CategoryOf(ConversionPair{from, KindString}) & allowed

	switch {
	case category&CategoryTextNumber != 0 && from.IsSigned():
		return strconv.FormatInt(rv.Int(), 10), true
	case category&CategoryTextNumber != 0 && from.IsUnsigned():
		return strconv.FormatUint(rv.Uint(), 10), true
	case category&CategoryTextNumber != 0 && from.IsFloat():
		return strconv.FormatFloat(rv.Float(), 'g', -1, from.Bits()), true
	case category&CategoryTextualBool != 0:
		return strconv.FormatBool(rv.Bool()), true
	case category&CategoryDuration != 0:
		return rv.Interface().(time.Duration).String(), true
	case category&CategoryDatetime != 0:
		return rv.Interface().(time.Time).Format(time.RFC3339Nano), true
	}

	return "", false
}

// fits reports whether the value survives a narrowing conversion unchanged.
func fits(rv reflect.Value, from, to KindEnum) bool {
	switch {
	case from.IsSigned():
		n := rv.Int()
		switch {
		case to.IsSigned():
			return utils.IsInRange(minInt(to), n, maxInt(to))
		case to.IsUnsigned():
			return n >= 0 && uint64(n) <= maxUint(to)
		case to == KindFloat32:
			return int64(float32(n)) == n
		default:
			return int64(float64(n)) == n
		}

	case from.IsUnsigned():
		n := rv.Uint()
		switch {
		case to.IsSigned():
			return n <= uint64(maxInt(to))
		case to.IsUnsigned():
			return n <= maxUint(to)
		case to == KindFloat32:
			return uint64(float32(n)) == n
		default:
			return uint64(float64(n)) == n
		}

	case from.IsFloat():
		f := rv.Float()
		switch {
		case to.IsFloat():
			return math.IsNaN(f) || math.IsInf(f, 0) || float64(float32(f)) == f
		case f != math.Trunc(f):
			return false
		case to.IsSigned():
			limit := math.Ldexp(1, to.Bits()-1)
			return -limit <= f && f < limit
		default:
			return f >= 0 && f < math.Ldexp(1, to.Bits())
		}
	}

	return false
}

func minInt(k KindEnum) int64 {
	return -1 << (k.Bits() - 1)
}

func maxInt(k KindEnum) int64 {
	return 1<<(k.Bits()-1) - 1
}

func maxUint(k KindEnum) uint64 {
	return math.MaxUint64 >> (64 - k.Bits())
}

var baseTypes = map[KindEnum]reflect.Type{
	KindInt:     reflect.TypeOf(int(0)),
	KindInt8:    reflect.TypeOf(int8(0)),
	KindInt16:   reflect.TypeOf(int16(0)),
	KindInt32:   reflect.TypeOf(int32(0)),
	KindInt64:   reflect.TypeOf(int64(0)),
	KindUint:    reflect.TypeOf(uint(0)),
	KindUint8:   reflect.TypeOf(uint8(0)),
	KindUint16:  reflect.TypeOf(uint16(0)),
	KindUint32:  reflect.TypeOf(uint32(0)),
	KindUint64:  reflect.TypeOf(uint64(0)),
	KindFloat32: reflect.TypeOf(float32(0)),
	KindFloat64: reflect.TypeOf(float64(0)),
	KindBool:    reflect.TypeOf(false),
	KindString:  reflect.TypeOf(""),
}

// BaseType returns the unnamed Go type of a scalar kind.
func BaseType(k KindEnum) (reflect.Type, bool) {
	t, ok := baseTypes[k]
	return t, ok
}
