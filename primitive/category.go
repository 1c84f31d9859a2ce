package primitive

// CategoryEnum is a decode tolerance: a bitmask of the conversions Convert
// may apply when a persisted leaf does not already have the kind of its
// target. Encoding never converts; it always writes the canonical form.
type CategoryEnum int

// ConversionPair is a persisted leaf kind and the target kind it decodes into.
type ConversionPair struct {
	From, To KindEnum
}

const (
	CategorySafeNumber   CategoryEnum = 1 << iota // number into a kind that holds every value of it
	CategoryUnsafeNumber                          // number into a narrower kind, range checked
	CategoryTextNumber                            // decimal text into a number and back
	CategoryNumericBool                           // 0 or 1 into bool and back
	CategoryTextualBool                           // yes/no, on/off, true/false text into bool
	CategoryDatetime                              // text in a date layout into time.Time
	CategoryTimestamp                             // Unix seconds into time.Time
	CategoryDuration                              // Go duration text (2h45m) into time.Duration
	CategoryNanoseconds                           // integer nanoseconds into time.Duration
	CategorySeconds                               // float seconds into time.Duration
	CategoryEnumString                            // symbolic name into a registered enum constant

	CategoryAll  = (1 << iota) - 1 // every tolerance, the engine default
	CategoryNone = 0               // exact kinds only
)

// conversionPairs lists, per tolerance, the pairs it lets Convert accept.
var conversionPairs = buildConversionPairs()

// Allows reports whether any of the allowed categories contains the pair.
func Allows(allowed CategoryEnum, pair ConversionPair) bool {
	return CategoryOf(pair)&allowed != 0
}

// CategoryOf returns every category the pair belongs to.
func CategoryOf(pair ConversionPair) CategoryEnum {
	var res CategoryEnum
	for category := CategoryEnum(1); category&CategoryAll > 0; category <<= 1 {
		if _, ok := conversionPairs[category][pair]; ok {
			res |= category
		}
	}

	return res
}

type pairSet = map[ConversionPair]struct{}

// both adds other <-> k for every kind k accepted by keep.
func both(set pairSet, other KindEnum, keep func(KindEnum) bool) pairSet {
	for k := KindEnum(0); int(k) < KindTotal; k++ {
		if keep(k) {
			set[ConversionPair{k, other}] = struct{}{}
			set[ConversionPair{other, k}] = struct{}{}
		}
	}

	return set
}

func buildConversionPairs() map[CategoryEnum]pairSet {
	safe := safeNumberConversionPairs()

	// every number pair the safe table leaves out may lose range or precision
	unsafe := pairSet{}
	for from := KindEnum(0); int(from) < KindTotal; from++ {
		for to := KindEnum(0); int(to) < KindTotal; to++ {
			pair := ConversionPair{from, to}
			if _, ok := safe[pair]; !ok && from.IsNumber() && to.IsNumber() {
				unsafe[pair] = struct{}{}
			}
		}
	}

	nanoseconds := func(k KindEnum) bool { return k.IsInteger() && k != KindUint64 }

	return map[CategoryEnum]pairSet{
		CategorySafeNumber:   safe,
		CategoryUnsafeNumber: unsafe,
		CategoryTextNumber:   both(pairSet{}, KindString, KindEnum.IsNumber),
		CategoryNumericBool:  both(pairSet{}, KindBool, KindEnum.IsInteger),
		CategoryTextualBool:  both(pairSet{}, KindBool, func(k KindEnum) bool { return k == KindString }),
		CategoryDatetime:     both(pairSet{}, KindTime, func(k KindEnum) bool { return k == KindString }),
		CategoryTimestamp:    both(pairSet{}, KindTime, KindEnum.IsInteger),
		CategoryDuration:     both(pairSet{}, KindDuration, func(k KindEnum) bool { return k == KindString }),
		CategoryNanoseconds:  both(pairSet{}, KindDuration, nanoseconds),
		CategorySeconds:      both(pairSet{}, KindDuration, KindEnum.IsFloat),
		CategoryEnumString: both(pairSet{{KindPrimitiveEnum, KindPrimitiveEnum}: {}}, KindPrimitiveEnum,
			func(k KindEnum) bool { return k == KindString }),
	}
}

func safeNumberConversionPairs() map[ConversionPair]struct{} {
	return map[ConversionPair]struct{}{
		{KindInt, KindInt}:   {}, // int can be any wide from 32 upto 64
		{KindInt, KindInt64}: {},

		{KindInt8, KindInt}:     {}, // int8 can be safely converted to any signed int
		{KindInt8, KindInt8}:    {},
		{KindInt8, KindInt16}:   {},
		{KindInt8, KindInt32}:   {},
		{KindInt8, KindInt64}:   {},
		{KindInt8, KindFloat32}: {},
		{KindInt8, KindFloat64}: {},

		{KindInt16, KindInt}:     {},
		{KindInt16, KindInt16}:   {}, // int16 omitting narrowing to int8
		{KindInt16, KindInt32}:   {},
		{KindInt16, KindInt64}:   {},
		{KindInt16, KindFloat32}: {},
		{KindInt16, KindFloat64}: {},

		{KindInt32, KindInt}:     {},
		{KindInt32, KindInt32}:   {}, // int32 omitting narrowing to int8/16
		{KindInt32, KindInt64}:   {},
		{KindInt32, KindFloat64}: {}, // int32 is wider than float32 mantissa

		{KindInt64, KindInt64}: {}, // int64 is the widest signed integer type

		{KindUint, KindUint}:   {}, // uint can be any wide from 32 upto 64
		{KindUint, KindUint64}: {},

		{KindUint8, KindUint}:    {}, // uint8 can be safely converted to any unsigned int
		{KindUint8, KindUint8}:   {},
		{KindUint8, KindUint16}:  {},
		{KindUint8, KindUint32}:  {},
		{KindUint8, KindUint64}:  {},
		{KindUint8, KindInt}:     {}, // also uint8 can be converted to any wider signed int
		{KindUint8, KindInt16}:   {},
		{KindUint8, KindInt32}:   {},
		{KindUint8, KindInt64}:   {},
		{KindUint8, KindFloat32}: {},
		{KindUint8, KindFloat64}: {},

		{KindUint16, KindUint}:    {},
		{KindUint16, KindUint16}:  {}, // uint16 omitting narrowing to uint8
		{KindUint16, KindUint32}:  {},
		{KindUint16, KindUint64}:  {},
		{KindUint16, KindInt}:     {}, // also uint16 can be converted to any wider signed int
		{KindUint16, KindInt32}:   {},
		{KindUint16, KindInt64}:   {},
		{KindUint16, KindFloat32}: {},
		{KindUint16, KindFloat64}: {},

		{KindUint32, KindUint32}:  {},
		{KindUint32, KindUint64}:  {}, // uint32 omitting narrowing to uint8/16
		{KindUint32, KindInt64}:   {}, // also only int64 is wide enough to hold uint32
		{KindUint32, KindFloat64}: {}, // uint32 is wider than float32 mantissa

		{KindUint64, KindUint64}: {}, // uint64 is the widest unsigned integer type

		{KindFloat32, KindFloat32}: {},
		{KindFloat32, KindFloat64}: {},

		{KindFloat64, KindFloat64}: {},
	}
}
