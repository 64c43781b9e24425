package operator

import (
	"cmp"
	"fmt"
	"math"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// regexpFlags are the delimiter-wrapped pattern flags that carry over into
// the inline flag syntax of [regexp].
const regexpFlags = "imsU"

//nolint:gochecknoglobals
var regexpCache sync.Map

// Regexp returns the regular expression a comparison value stands for. The
// value may already be a compiled [regexp.Regexp], a delimiter-wrapped
// pattern such as "/^a.*z$/i" or a bare pattern, which is used as-is.
func Regexp(value any) (*regexp.Regexp, error) {
	if re, ok := value.(*regexp.Regexp); ok {
		return re, nil
	}

	pattern := toString(value)

	if cached, ok := regexpCache.Load(pattern); ok {
		re, _ := cached.(*regexp.Regexp)

		return re, nil
	}

	re, err := regexp.Compile(unwrapDelimited(pattern))
	if err != nil {
		return nil, fmt.Errorf("(operator) failed to compile %q: %w", pattern, err)
	}
	regexpCache.Store(pattern, re)

	return re, nil
}

func unwrapDelimited(pattern string) string {
	if !strings.HasPrefix(pattern, "/") {
		return pattern
	}

	end := strings.LastIndex(pattern, "/")
	if end <= 0 {
		return pattern
	}

	var flags strings.Builder
	for _, f := range pattern[end+1:] {
		if strings.ContainsRune(regexpFlags, f) && !strings.ContainsRune(flags.String(), f) {
			flags.WriteRune(f)
		}
	}

	if flags.Len() == 0 {
		return pattern[1:end]
	}

	return "(?" + flags.String() + ")" + pattern[1:end]
}

func equal(a, b any) bool {
	return compare(a, b) == 0
}

// compare orders two values numerically when both are numeric, and
// lexically otherwise.
func compare(a, b any) int {
	if x, ok := toInt(a); ok {
		if y, ok := toInt(b); ok {
			return cmp.Compare(x, y)
		}
	}

	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return cmp.Compare(x, y)
		}
	}

	return strings.Compare(toString(a), toString(b))
}

func modulo(a, b any) bool {
	x, ok := toInt(a)
	if !ok {
		return false
	}

	y, ok := toInt(b)
	if !ok || y == 0 {
		return false
	}

	return x%y != 0
}

func toInt(v any) (int64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), true

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		if rv.Uint() > math.MaxInt64 {
			return 0, false
		}

		return int64(rv.Uint()), true

	case reflect.String:
		i, err := strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
		if err != nil {
			return 0, false
		}

		return i, true

	default:
		return 0, false
	}
}

func toFloat(v any) (float64, bool) {
	rv := reflect.ValueOf(v)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Float32, reflect.Float64:
		return rv.Float(), true

	case reflect.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return 0, false
		}

		return f, true

	default:
		if i, ok := toInt(v); ok {
			return float64(i), true
		}

		return 0, false
	}
}

func toString(v any) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case fmt.Stringer:
		return s.String()
	default:
		return fmt.Sprint(v)
	}
}
