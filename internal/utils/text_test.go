package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCleanUTF8(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		expected      string
		expectCleaned bool
	}{
		{
			name:          "clean string untouched",
			input:         "Dune",
			expected:      "Dune",
			expectCleaned: false,
		},
		{
			name:          "null bytes removed",
			input:         "Du\x00ne",
			expected:      "Dune",
			expectCleaned: true,
		},
		{
			name:          "invalid utf8 removed",
			input:         "Dune\xff",
			expected:      "Dune",
			expectCleaned: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, cleaned := CleanUTF8(tt.input)
			assert.Equal(t, tt.expected, result)
			assert.Equal(t, tt.expectCleaned, cleaned)
		})
	}
}

func TestSanitizeText(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "trims whitespace",
			input:    "  Dune  ",
			expected: "Dune",
		},
		{
			name:     "strips script block including content",
			input:    "Dune <script>alert('x')</script> rules",
			expected: "Dune  rules",
		},
		{
			name:     "strips script block case insensitive",
			input:    "<SCRIPT src=\"evil.js\">payload</SCRIPT>Dune",
			expected: "Dune",
		},
		{
			name:     "strips remaining markup",
			input:    "<b>Dune</b>",
			expected: "Dune",
		},
		{
			name:     "plain text untouched",
			input:    "Great book about sandworms",
			expected: "Great book about sandworms",
		},
		{
			name:     "empty input",
			input:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, SanitizeText(tt.input, 0))
		})
	}
}

func TestSanitizeText_RawCap(t *testing.T) {
	long := strings.Repeat("a", 500)
	result := SanitizeText(long, 100)
	assert.Len(t, result, 100)
}

func TestSanitizeText_CapAppliesBeforeStripping(t *testing.T) {
	// A script tag split by the cap leaves an unterminated fragment, which
	// the markup pattern cannot match; the cap must still bound the output.
	input := "<script>" + strings.Repeat("x", 200)
	result := SanitizeText(input, 50)
	assert.LessOrEqual(t, len(result), 50)
}
