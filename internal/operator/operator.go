// Package operator implements the small comparison algebra used to evaluate a
// filter's reference value against its comparison value.
package operator

import (
	"regexp"
	"strings"
)

// Operator is a comparison operator token, such as "==" or "*-".
type Operator string

const (
	// Equal is true when reference and value are (numerically) equal.
	Equal Operator = "=="

	// NotEqual is true when reference and value are not equal.
	NotEqual Operator = "!="

	// Greater is true when reference is greater than value.
	Greater Operator = ">"

	// GreaterEqual is true when reference is greater than or equal to value.
	GreaterEqual Operator = ">="

	// Less is true when reference is less than value.
	Less Operator = "<"

	// LessEqual is true when reference is less than or equal to value.
	LessEqual Operator = "<="

	// Modulo is true when reference modulo value is non-zero.
	Modulo Operator = "%"

	// StartsWith is true when reference starts with value.
	StartsWith Operator = "*-"

	// EndsWith is true when reference ends with value.
	EndsWith Operator = "-*"

	// Contains is true when reference contains value as a substring.
	Contains Operator = "*"

	// Matches is true when reference matches value as a regular expression.
	Matches Operator = "//"
)

// keyPattern splits a filter key into its bare name and an operator suffix.
var keyPattern = regexp.MustCompile(`^(\w+)(\W+)$`)

// Known reports whether op is one of the supported operator tokens.
func (op Operator) Known() bool {
	switch op {
	case Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual,
		Modulo, StartsWith, EndsWith, Contains, Matches:
		return true
	default:
		return false
	}
}

// ParseKey splits a key of the form "<name><operator>" (e.g. "size>=") into
// its name and [Operator]. A key without an operator suffix yields [Equal].
func ParseKey(key string) (string, Operator) {
	if match := keyPattern.FindStringSubmatch(key); match != nil {
		return match[1], Operator(match[2])
	}

	return key, Equal
}

// Evaluate compares the reference value against value using the operator op.
// An unknown operator returns def.
//
//nolint:cyclop
func Evaluate(ref any, op Operator, value any, def bool) bool {
	switch op {
	case Equal:
		return equal(ref, value)
	case NotEqual:
		return !equal(ref, value)
	case Greater:
		return compare(ref, value) > 0
	case GreaterEqual:
		return compare(ref, value) >= 0
	case Less:
		return compare(ref, value) < 0
	case LessEqual:
		return compare(ref, value) <= 0
	case Modulo:
		return modulo(ref, value)
	case StartsWith:
		return strings.HasPrefix(toString(ref), toString(value))
	case EndsWith:
		return strings.HasSuffix(toString(ref), toString(value))
	case Contains:
		return strings.Contains(toString(ref), toString(value))
	case Matches:
		re, err := Regexp(value)
		if err != nil {
			return false
		}

		return re.MatchString(toString(ref))
	}

	return def
}
