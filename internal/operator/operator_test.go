package operator

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestEvaluate_Table verifies the comparison semantics of every operator.
func TestEvaluate_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		ref   any
		op    Operator
		value any
		want  bool
	}{
		{"Equal_Int", 5, Equal, 5, true},
		{"Equal_IntString", int64(5), Equal, "5", true},
		{"Equal_String", "abc", Equal, "abc", true},
		{"Equal_Mismatch", "abc", Equal, "abd", false},
		{"NotEqual", 5, NotEqual, 6, true},
		{"NotEqual_Same", "x", NotEqual, "x", false},
		{"Greater", 6, Greater, 5, true},
		{"Greater_NumericNotLexical", "10", Greater, "9", true},
		{"GreaterEqual_Same", 5, GreaterEqual, 5, true},
		{"GreaterEqual_Less", 4, GreaterEqual, 5, false},
		{"Less", int64(1700000000), Less, int64(1800000000), true},
		{"LessEqual", 5, LessEqual, 5, true},
		{"Less_Float", 1.5, Less, 2, true},
		{"Less_Strings", "apple", Less, "banana", true},
		{"Modulo_NonZero", 7, Modulo, 2, true},
		{"Modulo_Zero", 8, Modulo, 2, false},
		{"Modulo_ZeroDivisor", 8, Modulo, 0, false},
		{"Modulo_NonNumeric", "abc", Modulo, 2, false},
		{"StartsWith", "abcdef", StartsWith, "abc", true},
		{"StartsWith_No", "abcdef", StartsWith, "bcd", false},
		{"EndsWith", "abcdef", EndsWith, "def", true},
		{"EndsWith_No", "abcdef", EndsWith, "abc", false},
		{"Contains", "abcdef", Contains, "cd", true},
		{"Contains_No", "abcdef", Contains, "xy", false},
		{"Matches_Bare", "abc", Matches, "^a", true},
		{"Matches_Bare_No", "abc", Matches, "^b", false},
		{"Matches_Delimited", "ABC", Matches, "/^abc$/i", true},
		{"Matches_Delimited_CaseSensitive", "ABC", Matches, "/^abc$/", false},
		{"Matches_Compiled", "report.TXT", Matches, regexp.MustCompile(`(?i)\.txt$`), true},
		{"Matches_Invalid", "abc", Matches, "(", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Evaluate(tt.ref, tt.op, tt.value, false))
		})
	}
}

// TestEvaluate_UnknownOperator verifies that the caller's default is returned
// for an unknown operator token.
func TestEvaluate_UnknownOperator(t *testing.T) {
	t.Parallel()

	assert.False(t, Evaluate("a", Operator("<>"), "a", false))
	assert.True(t, Evaluate("a", Operator("<>"), "a", true))
}

// TestParseKey verifies splitting of filter keys into name and operator.
func TestParseKey(t *testing.T) {
	t.Parallel()

	tests := []struct {
		key      string
		wantName string
		wantOp   Operator
	}{
		{"name", "name", Equal},
		{"name//", "name", Matches},
		{"size>=", "size", GreaterEqual},
		{"time<", "time", Less},
		{"name*-", "name", StartsWith},
		{"name-*", "name", EndsWith},
		{"name*", "name", Contains},
		{"size!=", "size", NotEqual},
		{"", "", Equal},
	}

	for _, tt := range tests {
		t.Run(tt.key, func(t *testing.T) {
			t.Parallel()

			name, op := ParseKey(tt.key)
			assert.Equal(t, tt.wantName, name)
			assert.Equal(t, tt.wantOp, op)
		})
	}
}

// TestOperator_Known verifies recognition of the supported tokens.
func TestOperator_Known(t *testing.T) {
	t.Parallel()

	for _, op := range []Operator{Equal, NotEqual, Greater, GreaterEqual, Less, LessEqual, Modulo, StartsWith, EndsWith, Contains, Matches} {
		assert.True(t, op.Known(), "expected %q to be known", op)
	}
	assert.False(t, Operator("=~").Known())
}

// TestRegexp_Delimited verifies unwrapping of delimiter-wrapped patterns.
func TestRegexp_Delimited(t *testing.T) {
	t.Parallel()

	re, err := Regexp("/^a.c$/is")
	require.NoError(t, err)
	assert.Equal(t, "(?is)^a.c$", re.String())

	re, err = Regexp("/x/u")
	require.NoError(t, err)
	assert.Equal(t, "x", re.String())

	re, err = Regexp("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain", re.String())

	_, err = Regexp("/[/")
	require.Error(t, err)
}
