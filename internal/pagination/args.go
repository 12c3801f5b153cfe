package pagination

import (
	"fmt"
	"math"
	"reflect"

	"github.com/hanpama/graphcache/internal/cache"
)

// MergeMode selects how forward and backward pages are joined.
type MergeMode string

const (
	Inwards  MergeMode = "inwards"
	Outwards MergeMode = "outwards"
)

// ParseMergeMode parses "inwards" or "outwards". The empty string is Inwards.
func ParseMergeMode(s string) (MergeMode, error) {
	switch MergeMode(s) {
	case "", Inwards:
		return Inwards, nil
	case Outwards:
		return Outwards, nil
	}
	return "", fmt.Errorf("unknown merge mode %q (want %q or %q)", s, Inwards, Outwards)
}

func isPaginationKey(key string) bool {
	switch key {
	case "first", "last", "after", "before":
		return true
	}
	return false
}

// MatchArgs reports whether requested and cached address the same logical
// connection: identical filter arguments, any pagination arguments.
func MatchArgs(requested, cached cache.Args) bool {
	for key, b := range cached {
		if isPaginationKey(key) {
			continue
		}
		a, ok := requested[key]
		if !ok || !equalArg(a, b) {
			return false
		}
	}
	for key := range requested {
		if isPaginationKey(key) {
			continue
		}
		if _, ok := cached[key]; !ok {
			return false
		}
	}
	return true
}

func equalArg(a, b any) bool {
	if isObject(a) != isObject(b) {
		return false
	}
	return cache.Stringify(a) == cache.Stringify(b)
}

// isObject reports whether v is a composite or null value.
func isObject(v any) bool {
	if v == nil {
		return true
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}

// intArg returns the numeric value of a first/last argument. Values beyond
// the range of int are clamped.
func intArg(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int8:
		return int(n), true
	case int16:
		return int(n), true
	case int32:
		return int(n), true
	case int64:
		return clampInt64(n), true
	case uint:
		return clampUint64(uint64(n)), true
	case uint8:
		return int(n), true
	case uint16:
		return int(n), true
	case uint32:
		return clampUint64(uint64(n)), true
	case uint64:
		return clampUint64(n), true
	case float32:
		return clampFloat64(float64(n)), true
	case float64:
		return clampFloat64(n), true
	}
	return 0, false
}

func clampInt64(n int64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	if n < math.MinInt {
		return math.MinInt
	}
	return int(n)
}

func clampUint64(n uint64) int {
	if n > math.MaxInt {
		return math.MaxInt
	}
	return int(n)
}

func clampFloat64(n float64) int {
	switch {
	case math.IsNaN(n):
		return 0
	case n >= math.MaxInt:
		return math.MaxInt
	case n <= math.MinInt:
		return math.MinInt
	}
	return int(n)
}

// cursorArg reports whether an after/before argument holds a cursor. Cursors
// are opaque strings; any other value is treated as no cursor.
func cursorArg(v any) bool {
	s, ok := v.(string)
	return ok && s != ""
}
