// Package bytesize converts between byte counts and their shorthand notation
// (e.g. "2M" for two mebibytes).
package bytesize

import (
	"math"
	"strings"
	"unicode"

	"github.com/dustin/go-humanize"
)

// unitShift maps a shorthand unit suffix to its power-of-two exponent.
//
//nolint:gochecknoglobals,mnd
var unitShift = map[byte]uint{
	'k': 10,
	'm': 20,
	'g': 30,
	't': 40,
	'p': 50,
	'e': 60,
}

// ParseShorthand converts a shorthand size such as "2M", "512k" or "100" into
// a byte count. Units (k, m, g, t, p, e) are case-insensitive and are read
// from the last character only, each one multiplying by 1024 relative to the
// previous. Only the leading integer magnitude is used, so "1.5k" is 1024.
// A malformed or missing magnitude yields 0. Magnitudes beyond the int64
// range saturate at math.MaxInt64 (or its negation).
func ParseShorthand(text string) int64 {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0
	}

	var shift uint
	if s, ok := unitShift[byte(unicode.ToLower(rune(text[len(text)-1])))]; ok {
		shift = s
	}

	n, neg := leadingInt(text)
	if n > math.MaxInt64>>shift {
		n = math.MaxInt64
	} else {
		n <<= shift
	}

	if neg {
		return -n
	}

	return n
}

// leadingInt returns the magnitude of the integer at the start of s and
// whether it carried a minus sign, ignoring anything that follows it. The
// magnitude saturates at math.MaxInt64.
func leadingInt(s string) (int64, bool) {
	neg := false

	switch {
	case strings.HasPrefix(s, "-"):
		neg = true
		s = s[1:]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	var n int64
	for i := range len(s) {
		c := s[i]
		if c < '0' || c > '9' {
			break
		}
		d := int64(c - '0')
		if n > (math.MaxInt64-d)/10 { //nolint:mnd
			return math.MaxInt64, neg
		}
		n = n*10 + d //nolint:mnd
	}

	return n, neg
}

// Format renders a byte count in IEC units (e.g. "2.0 MiB").
func Format(n int64) string {
	if n < 0 {
		return "-" + humanize.IBytes(uint64(-n))
	}

	return humanize.IBytes(uint64(n))
}
