package filter

import (
	"fmt"
	"reflect"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/desertwitch/treesift/internal/operator"
)

// Filter key names, as used in assignments and filter files.
const (
	// KeyType selects entries by type (see [TypeMask]).
	KeyType = "type"
	// KeyName compares the leaf name of an entry.
	KeyName = "name"
	// KeyTime compares the modification time in Unix seconds.
	KeyTime = "time"
	// KeySize compares the size in bytes, accepting shorthand values.
	KeySize = "size"
	// KeyFunc runs a caller-supplied [Predicate].
	KeyFunc = "func"
)

// Spec is an ordered list of filters. Filters are evaluated in order and
// evaluation stops at the first filter an entry fails.
type Spec []Filter

// Has reports whether the spec contains a filter of the given kind.
func (s Spec) Has(kind Kind) bool {
	for _, f := range s {
		if f.Kind == kind {
			return true
		}
	}

	return false
}

// WithDefaultType returns the spec with a [TypeFile] filter appended when it
// does not contain a [KindType] filter. The receiver is not modified.
func (s Spec) WithDefaultType() Spec {
	if s.Has(KindType) {
		return s
	}

	out := make(Spec, 0, len(s)+1)
	out = append(out, s...)

	return append(out, Type(TypeFile))
}

// Validate reports filters that could never behave as intended, such as
// unknown operators or missing predicates.
func (s Spec) Validate() error {
	for i, f := range s {
		switch f.Kind {
		case KindType:
			if f.Op != operator.Equal && f.Op != "" {
				return fmt.Errorf("%w: filter %d (%s)", ErrTypeOperator, i, f.Key())
			}
			if f.Mask == 0 {
				return fmt.Errorf("%w: filter %d", ErrEmptyTypeMask, i)
			}

		case KindName, KindTime, KindSize:
			if !f.Op.Known() {
				return fmt.Errorf("%w: filter %d (%q)", ErrUnknownOperator, i, f.Op)
			}
			if f.Value == nil {
				return fmt.Errorf("%w: filter %d (%s) has no value", ErrInvalidValue, i, f.Key())
			}

		case KindFunc:
			if f.Func == nil {
				return fmt.Errorf("%w: filter %d", ErrNilPredicate, i)
			}

		default:
			return fmt.Errorf("%w: filter %d (%s)", ErrUnknownKey, i, f.Kind)
		}
	}

	return nil
}

// FromKey builds a [Filter] from a key in "<name><operator>" form and its
// comparison value, e.g. FromKey("size>=", "2M").
func FromKey(key string, value any) (Filter, error) {
	name, op := operator.ParseKey(key)

	switch name {
	case KeyType:
		if op != operator.Equal {
			return Filter{}, fmt.Errorf("%w: %q", ErrTypeOperator, key)
		}
		mask, err := parseTypeMask(value)
		if err != nil {
			return Filter{}, err
		}

		return Type(mask), nil

	case KeyName:
		if s, ok := value.(string); ok {
			return Name(op, s), nil
		}
		if re, ok := value.(*regexp.Regexp); ok {
			return Name(op, re), nil
		}

		return Name(op, fmt.Sprint(value)), nil

	case KeyTime:
		unix, err := parseTime(value)
		if err != nil {
			return Filter{}, err
		}

		return Time(op, unix), nil

	case KeySize:
		return Size(op, value), nil

	case KeyFunc:
		switch fn := value.(type) {
		case Predicate:
			return Func(fn), nil
		case func(string, Record) (any, bool):
			return Func(fn), nil
		default:
			return Filter{}, fmt.Errorf("%w: %T is not a predicate", ErrInvalidValue, value)
		}
	}

	return Filter{}, fmt.Errorf("%w: %q", ErrUnknownKey, key)
}

// ParseAssignment builds a [Filter] from a "<key>=<value>" string, as given
// on a command line (e.g. "size>==1M" or "name//=\.log$").
func ParseAssignment(s string) (Filter, error) {
	name, rest, ok := splitAssignment(s)
	if !ok {
		return Filter{}, fmt.Errorf("%w: %q (want key=value)", ErrInvalidAssignment, s)
	}

	return FromKey(name, rest)
}

// assignmentOperators are tried longest first, so that "size>==1M" splits
// into "size>=" and "1M".
//
//nolint:gochecknoglobals
var assignmentOperators = []operator.Operator{
	operator.Equal, operator.NotEqual, operator.GreaterEqual, operator.LessEqual,
	operator.StartsWith, operator.EndsWith, operator.Matches,
	operator.Greater, operator.Less, operator.Modulo, operator.Contains,
}

// splitAssignment splits "<name>[<operator>]=<value>" into its key and value.
func splitAssignment(s string) (string, string, bool) {
	i := 0
	for i < len(s) && isWordChar(s[i]) {
		i++
	}
	if i == 0 {
		return "", "", false
	}

	rest := s[i:]
	for _, op := range assignmentOperators {
		if strings.HasPrefix(rest, string(op)+"=") {
			return s[:i+len(op)], rest[len(op)+1:], true
		}
	}

	j := strings.Index(rest, "=")
	if j < 0 {
		return "", "", false
	}

	return s[:i+j], rest[j+1:], true
}

func isWordChar(c byte) bool {
	return c == '_' || (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func parseTypeMask(value any) (TypeMask, error) {
	if s, ok := value.(string); ok {
		var mask TypeMask
		for _, part := range strings.Split(s, "|") {
			part = strings.ToLower(strings.TrimSpace(part))
			switch part {
			case "dir", "directory", "d":
				mask |= TypeDir
			case "file", "f":
				mask |= TypeFile
			case "all", "a":
				mask = TypeAll
			default:
				n, err := strconv.ParseUint(part, 10, 8)
				if err != nil {
					return 0, fmt.Errorf("%w: type %q", ErrInvalidValue, s)
				}
				mask |= TypeMask(n)
			}
		}

		return mask, nil
	}

	if m, ok := value.(TypeMask); ok {
		return m, nil
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if rv.Int() < 0 || rv.Int() > int64(TypeAll) {
			return 0, fmt.Errorf("%w: type %d", ErrInvalidValue, rv.Int())
		}

		return TypeMask(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > uint64(TypeAll) {
			return 0, fmt.Errorf("%w: type %d", ErrInvalidValue, rv.Uint())
		}

		return TypeMask(rv.Uint()), nil
	}

	return 0, fmt.Errorf("%w: type %v", ErrInvalidValue, value)
}

// parseTime accepts Unix seconds (as number or string), a [time.Time] or an
// RFC 3339 timestamp.
func parseTime(value any) (int64, error) {
	switch v := value.(type) {
	case time.Time:
		return v.Unix(), nil
	case string:
		v = strings.TrimSpace(v)
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n, nil
		}
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t.Unix(), nil
		}
		if t, err := time.ParseInLocation(time.DateOnly, v, time.Local); err == nil {
			return t.Unix(), nil
		}

		return 0, fmt.Errorf("%w: time %q", ErrInvalidValue, v)
	}

	rv := reflect.ValueOf(value)
	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil //nolint:gosec
	}

	return 0, fmt.Errorf("%w: time %v", ErrInvalidValue, value)
}
