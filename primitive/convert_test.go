package primitive_test

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"freezedry/primitive"
)

type Celsius float64

var layouts = []string{time.RFC3339Nano, time.DateOnly}

func TestCanonical(t *testing.T) {
	t.Parallel()

	moment := time.Date(2024, 2, 29, 13, 45, 0, 0, time.UTC)

	tests := []struct {
		name  string
		value any
		want  any
	}{
		{"int", 42, 42},
		{"uint8", uint8(7), uint8(7)},
		{"named float", Celsius(36.6), 36.6},
		{"bool", true, true},
		{"string", "text", "text"},
		{"time", moment, "2024-02-29T13:45:00Z"},
		{"duration", 90 * time.Minute, "1h30m0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Canonical(reflect.ValueOf(tt.value), time.RFC3339Nano)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := primitive.Canonical(reflect.ValueOf(struct{}{}), time.RFC3339Nano)
	require.ErrorIs(t, err, primitive.ErrNotScalar)
}

func TestConvert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		raw    any
		target reflect.Type
		want   any
	}{
		{"exact", int16(12), reflect.TypeFor[int16](), int16(12)},
		{"same base kind", 36.6, reflect.TypeFor[Celsius](), Celsius(36.6)},
		{"safe widening", int8(-3), reflect.TypeFor[int64](), int64(-3)},
		{"narrowing in range", int64(200), reflect.TypeFor[uint8](), uint8(200)},
		{"integral float", 7.0, reflect.TypeFor[int](), 7},
		{"numeric bool", 1, reflect.TypeFor[bool](), true},
		{"bool as number", true, reflect.TypeFor[uint](), uint(1)},
		{"nanoseconds", int64(time.Second), reflect.TypeFor[time.Duration](), time.Second},
		{"seconds", 1.5, reflect.TypeFor[time.Duration](), 1500 * time.Millisecond},
		{"timestamp", int64(0), reflect.TypeFor[time.Time](), time.Unix(0, 0).UTC()},
		{"text int", " -42 ", reflect.TypeFor[int32](), int32(-42)},
		{"text uint", "65535", reflect.TypeFor[uint16](), uint16(65535)},
		{"text float", "2.5", reflect.TypeFor[float32](), float32(2.5)},
		{"text bool", "Yes", reflect.TypeFor[bool](), true},
		{"text duration", "2h45m", reflect.TypeFor[time.Duration](), 165 * time.Minute},
		{"text date fallback layout", "2024-02-29", reflect.TypeFor[time.Time](), time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)},
		{"number as text", 12, reflect.TypeFor[string](), "12"},
		{"bool as text", false, reflect.TypeFor[string](), "false"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := primitive.Convert(tt.raw, tt.target, primitive.CategoryAll, layouts)
			require.NoError(t, err)
			assert.Equal(t, tt.target, got.Type())
			assert.Equal(t, tt.want, got.Interface())
		})
	}
}

func TestConvert_Failures(t *testing.T) {
	t.Parallel()

	t.Run("out of range", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.Convert(300, reflect.TypeFor[int8](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrOutOfRange)

		_, err = primitive.Convert(-1, reflect.TypeFor[uint](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrOutOfRange)

		_, err = primitive.Convert(1.5, reflect.TypeFor[int](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrOutOfRange)

		_, err = primitive.Convert(math.MaxFloat64, reflect.TypeFor[float32](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrOutOfRange)

		_, err = primitive.Convert(2, reflect.TypeFor[bool](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrOutOfRange)
	})

	t.Run("unparsable text", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.Convert("twelve", reflect.TypeFor[int](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrNotConvertible)

		_, err = primitive.Convert("29/02/2024", reflect.TypeFor[time.Time](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrNotConvertible)
	})

	t.Run("category disabled", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.Convert("12", reflect.TypeFor[int](), primitive.CategorySafeNumber, layouts)
		require.ErrorIs(t, err, primitive.ErrNotConvertible)

		_, err = primitive.Convert(int64(1), reflect.TypeFor[int8](), primitive.CategorySafeNumber, layouts)
		require.ErrorIs(t, err, primitive.ErrNotConvertible)
	})

	t.Run("not a scalar", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.Convert(1, reflect.TypeFor[[]int](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrNotScalar)
	})

	t.Run("nil", func(t *testing.T) {
		t.Parallel()

		_, err := primitive.Convert(nil, reflect.TypeFor[int](), primitive.CategoryAll, layouts)
		require.ErrorIs(t, err, primitive.ErrNotConvertible)
	})
}

func TestAllows(t *testing.T) {
	t.Parallel()

	pair := primitive.ConversionPair{From: primitive.KindInt8, To: primitive.KindInt64}
	assert.True(t, primitive.Allows(primitive.CategorySafeNumber, pair))
	assert.False(t, primitive.Allows(primitive.CategoryUnsafeNumber, pair))

	narrowing := primitive.ConversionPair{From: primitive.KindInt64, To: primitive.KindInt8}
	assert.Equal(t, primitive.CategoryUnsafeNumber, primitive.CategoryOf(narrowing))
}

func TestCategoryOf(t *testing.T) {
	t.Parallel()

	pair := func(from, to primitive.KindEnum) primitive.ConversionPair {
		return primitive.ConversionPair{From: from, To: to}
	}

	tests := []struct {
		pair primitive.ConversionPair
		want primitive.CategoryEnum
	}{
		{pair(primitive.KindUint8, primitive.KindInt), primitive.CategorySafeNumber},
		{pair(primitive.KindFloat64, primitive.KindFloat32), primitive.CategoryUnsafeNumber},
		{pair(primitive.KindString, primitive.KindUint16), primitive.CategoryTextNumber},
		{pair(primitive.KindFloat32, primitive.KindString), primitive.CategoryTextNumber},
		{pair(primitive.KindInt8, primitive.KindBool), primitive.CategoryNumericBool},
		{pair(primitive.KindString, primitive.KindBool), primitive.CategoryTextualBool},
		{pair(primitive.KindTime, primitive.KindString), primitive.CategoryDatetime},
		{pair(primitive.KindInt64, primitive.KindTime), primitive.CategoryTimestamp},
		{pair(primitive.KindString, primitive.KindDuration), primitive.CategoryDuration},
		{pair(primitive.KindDuration, primitive.KindInt32), primitive.CategoryNanoseconds},
		{pair(primitive.KindUint64, primitive.KindDuration), primitive.CategoryNone},
		{pair(primitive.KindFloat64, primitive.KindDuration), primitive.CategorySeconds},
		{pair(primitive.KindString, primitive.KindPrimitiveEnum), primitive.CategoryEnumString},
		{pair(primitive.KindPrimitiveEnum, primitive.KindPrimitiveEnum), primitive.CategoryEnumString},
		{pair(primitive.KindBool, primitive.KindTime), primitive.CategoryNone},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, primitive.CategoryOf(tt.pair), "%v -> %v", tt.pair.From, tt.pair.To)
	}
}
