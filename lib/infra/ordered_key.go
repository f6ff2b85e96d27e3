package infra

type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Unsigned is a constraint that permits any unsigned integer type.
type Unsigned interface {
	~uint | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~uintptr
}

type Integer interface {
	Signed | Unsigned
}

type Float interface {
	~float32 | ~float64
}

// OrderedKey
// byte => ~uint8
type OrderedKey interface {
	Integer | Float | ~string
}

// OrderedKeyComparator
//  1. i == j, return 0
//  2. i > j, return 1
//  3. i < j, return -1
type OrderedKeyComparator[K OrderedKey] func(i, j K) int

// CompareOrderedKey is the natural order comparator.
// NaN is treated as less than any other float and equal to itself.
func CompareOrderedKey[K OrderedKey](i, j K) int {
	iNaN, jNaN := isNaN(i), isNaN(j)
	switch {
	case iNaN && jNaN:
		return 0
	case iNaN:
		return -1
	case jNaN:
		return 1
	case i < j:
		return -1
	case i > j:
		return 1
	}
	return 0
}

func isNaN[K OrderedKey](k K) bool {
	return k != k
}
