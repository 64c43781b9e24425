// Package filter implements the declarative filters consumed by
// the search engine: an ordered list of tagged filters, each carrying its own
// comparison operator and value.
package filter

import (
	"fmt"
	"math"
	"reflect"

	"github.com/desertwitch/treesift/internal/bytesize"
	"github.com/desertwitch/treesift/internal/operator"
)

// Kind identifies what a [Filter] compares.
type Kind uint8

const (
	// KindType admits entries by their directory-ness.
	KindType Kind = iota + 1

	// KindName compares the leaf name of an entry.
	KindName

	// KindTime compares the modification time (Unix seconds) of a file.
	KindTime

	// KindSize compares the size in bytes of a file.
	KindSize

	// KindFunc runs a caller-supplied [Predicate].
	KindFunc
)

// String returns the filter key of a [Kind].
func (k Kind) String() string {
	switch k {
	case KindType:
		return KeyType
	case KindName:
		return KeyName
	case KindTime:
		return KeyTime
	case KindSize:
		return KeySize
	case KindFunc:
		return KeyFunc
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// TypeMask is a bitmask of entry types admitted by a [KindType] filter.
type TypeMask uint8

const (
	// TypeDir admits directories.
	TypeDir TypeMask = 1

	// TypeFile admits non-directories.
	TypeFile TypeMask = 2

	// TypeAll admits every entry.
	TypeAll TypeMask = 255
)

// Admits reports whether an entry with the given directory-ness passes the
// mask.
func (m TypeMask) Admits(isDir bool) bool {
	if m == TypeAll {
		return true
	}
	if isDir {
		return m&TypeDir != 0
	}

	return m&TypeFile != 0
}

// Predicate is a caller-supplied filter. It receives the full path of an
// entry and the attributes recorded for it so far. Returning false rejects
// the entry; otherwise the returned value is recorded as the entry's
// [KindFunc] attribute.
type Predicate func(path string, rec Record) (any, bool)

// Filter is one predicate of a [Spec]. Only the fields relevant to its
// [Kind] are used.
type Filter struct {
	Kind Kind
	Op   operator.Operator

	// Mask is the admitted entry types of a [KindType] filter.
	Mask TypeMask

	// Value is the comparison value of [KindName], [KindTime] and [KindSize]
	// filters. Size values may be shorthand strings (see [bytesize]).
	Value any

	// Func is the predicate of a [KindFunc] filter.
	Func Predicate
}

// Type returns a filter admitting the entry types in mask.
func Type(mask TypeMask) Filter {
	return Filter{Kind: KindType, Op: operator.Equal, Mask: mask}
}

// Name returns a filter comparing entry names against value. The value may
// be a string or, for [operator.Matches], a compiled regular expression.
func Name(op operator.Operator, value any) Filter {
	return Filter{Kind: KindName, Op: op, Value: value}
}

// Time returns a filter comparing modification times (Unix seconds).
func Time(op operator.Operator, unix int64) Filter {
	return Filter{Kind: KindTime, Op: op, Value: unix}
}

// Size returns a filter comparing file sizes against value, which may be a
// byte count or a shorthand string such as "2M".
func Size(op operator.Operator, value any) Filter {
	return Filter{Kind: KindSize, Op: op, Value: value}
}

// Func returns a filter running a caller-supplied predicate.
func Func(fn Predicate) Filter {
	return Filter{Kind: KindFunc, Op: operator.Equal, Func: fn}
}

// Key returns the string key form of the filter, e.g. "size>=".
func (f Filter) Key() string {
	if f.Kind == KindType || f.Kind == KindFunc || f.Op == operator.Equal {
		return f.Kind.String()
	}

	return f.Kind.String() + string(f.Op)
}

// SizeBytes resolves the comparison value of a [KindSize] filter into bytes.
func (f Filter) SizeBytes() int64 {
	switch v := f.Value.(type) {
	case string:
		return bytesize.ParseShorthand(v)
	case fmt.Stringer:
		return bytesize.ParseShorthand(v.String())
	}

	rv := reflect.ValueOf(f.Value)

	switch rv.Kind() { //nolint:exhaustive
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if rv.Uint() > math.MaxInt64 {
			return math.MaxInt64
		}

		return int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		return int64(rv.Float())
	default:
		return 0
	}
}
