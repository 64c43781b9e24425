// Package glob compiles shell-style wildcard patterns into anchored,
// case-insensitive regular expressions.
package glob

import (
	"regexp"
	"strings"
)

//nolint:gochecknoglobals
var wildcards = strings.NewReplacer(
	`\*`, `.*`,
	`\?`, `.`,
)

// expression returns the regular expression source for a wildcard pattern.
// All metacharacters are quoted except "*" (any run of characters) and "?"
// (exactly one character), and the result is anchored at both ends.
func expression(pattern string) string {
	return `(?i)^` + wildcards.Replace(regexp.QuoteMeta(pattern)) + `$`
}

// Compile turns a wildcard pattern into a case-insensitive [regexp.Regexp].
// Every pattern compiles, since all other metacharacters are quoted.
func Compile(pattern string) *regexp.Regexp {
	return regexp.MustCompile(expression(pattern))
}
