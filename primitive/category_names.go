package primitive

import (
	"fmt"
	"strings"

	"github.com/emirpasic/gods/maps/treebidimap"
	"github.com/emirpasic/gods/utils"
)

var categoryNames = func() *treebidimap.Map {
	m := treebidimap.NewWith(utils.StringComparator, utils.IntComparator)
	for name, c := range map[string]CategoryEnum{
		"safe-number":   CategorySafeNumber,
		"unsafe-number": CategoryUnsafeNumber,
		"text-number":   CategoryTextNumber,
		"numeric-bool":  CategoryNumericBool,
		"textual-bool":  CategoryTextualBool,
		"datetime":      CategoryDatetime,
		"timestamp":     CategoryTimestamp,
		"duration":      CategoryDuration,
		"nanoseconds":   CategoryNanoseconds,
		"seconds":       CategorySeconds,
		"enum-string":   CategoryEnumString,
	} {
		m.Put(name, int(c))
	}

	return m
}()

// ParseCategories combines the named categories. "all" and "none" stand for
// CategoryAll and CategoryNone.
func ParseCategories(names ...string) (CategoryEnum, error) {
	var res CategoryEnum

	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))

		switch name {
		case "all":
			res |= CategoryAll
			continue
		case "none", "":
			continue
		}

		c, ok := categoryNames.Get(name)
		if !ok {
			return CategoryNone, fmt.Errorf("unknown conversion category %q", name)
		}

		res |= CategoryEnum(c.(int))
	}

	return res, nil
}

// CategoryNames lists the names of the categories set in c, in bit order.
func CategoryNames(c CategoryEnum) []string {
	var res []string

	for bit := CategoryEnum(1); bit&CategoryAll > 0; bit <<= 1 {
		if c&bit == 0 {
			continue
		}

		if name, ok := categoryNames.GetKey(int(bit)); ok {
			res = append(res, name.(string))
		}
	}

	return res
}
