package extensions

import (
	"fmt"
	"strings"
	"time"
)

type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// FilterMultiple return all elements that satisfy the predicate
func FilterMultiple[T any](elements []T, predicate func(T) bool) (results []T) {
	for _, element := range elements {
		if predicate(element) {
			results = append(results, element)
		}
	}
	return
}

// FilterSingle return the single element that satisfies the predicate.
// If zero or more than one, default T and an error is returned.
func FilterSingle[T any](elements []T, predicate func(T) bool) (T, error) {
	res := FilterMultiple(elements, predicate)

	if len(res) != 1 {
		var zero T
		return zero, fmt.Errorf("error getting single, found %d matches", len(res))
	}

	return res[0], nil
}

// AreEqual is a simple case invariant string comparason
func AreEqual(s, c string) bool {
	return strings.EqualFold(s, c)
}

// FmtShort formats a time in a date only string
func FmtShort(t time.Time) string {
	return t.Format(time.DateOnly)
}

func Min[T Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}

func Sum[T Number](inp []T) (res T) {
	for _, v := range inp {
		res += v
	}
	return
}
