package extensions

import (
	"math"
	"testing"
)

func AssertAreEqual[T comparable](t *testing.T, name string, expected T, actual T) {
	t.Helper()
	if expected != actual {
		t.Fatalf("value mismatch for %s, expected %v, got %v", name, expected, actual)
	}
}

// AssertInRelativeTolerance fails when actual strays from expected by more
// than rtol, relative to the magnitude of expected.
func AssertInRelativeTolerance(t *testing.T, name string, expected, actual, rtol float64) {
	t.Helper()
	scale := math.Abs(expected)
	if scale == 0 {
		scale = 1
	}
	if math.Abs(expected-actual)/scale > rtol {
		t.Fatalf("value mismatch for %s, expected %v, got %v (rtol %v)", name, expected, actual, rtol)
	}
}
