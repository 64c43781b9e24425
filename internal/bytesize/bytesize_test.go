package bytesize

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseShorthand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  int64
	}{
		{"", 0},
		{"   ", 0},
		{"100", 100},
		{"2M", 2097152},
		{"2m", 2097152},
		{"1k", 1024},
		{"1K", 1024},
		{"3g", 3 << 30},
		{"1t", 1 << 40},
		{"1p", 1 << 50},
		{"1e", 1 << 60},
		{" 4k ", 4096},
		{"1.5k", 1024},
		{"k", 0},
		{"abc", 0},
		{"2MB", 2},
		{"-1k", -1024},
		{"+8", 8},
		{"7e", 7 << 60},
		{"8e", math.MaxInt64},
		{"16e", math.MaxInt64},
		{"-8e", -math.MaxInt64},
		{"9223372036854775807", math.MaxInt64},
		{"99999999999999999999", math.MaxInt64},
		{"9223372036854775807k", math.MaxInt64},
		{"-99999999999999999999", -math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, ParseShorthand(tt.input))
		})
	}
}

func TestFormat(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "100 B", Format(100))
	assert.Equal(t, "2.0 MiB", Format(2097152))
	assert.Equal(t, "-1.0 KiB", Format(-1024))
}
