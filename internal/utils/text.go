package utils

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script\b[^>]*>.*?</script>`)
	markupPattern      = regexp.MustCompile(`<[^>]*>`)
)

// CleanUTF8 removes or replaces invalid UTF8 characters from a string
// Returns the cleaned string and a boolean indicating if cleaning was needed
func CleanUTF8(input string) (string, bool) {
	needsCleaning := strings.Contains(input, "\x00") || !utf8.ValidString(input)

	if !needsCleaning {
		return input, false
	}

	cleaned := strings.ToValidUTF8(input, "")
	cleaned = strings.ReplaceAll(cleaned, "\x00", "")

	return cleaned, true
}

// SanitizeText prepares untrusted free-text input for storage: the raw
// value is hard-capped at maxRaw runes before any other processing, script
// blocks and remaining markup are stripped, invalid UTF8 is removed, and
// the result is whitespace-trimmed. Length validation happens on the
// return value, not here.
func SanitizeText(input string, maxRaw int) string {
	if maxRaw > 0 && utf8.RuneCountInString(input) > maxRaw {
		runes := []rune(input)
		input = string(runes[:maxRaw])
	}

	input, _ = CleanUTF8(input)
	input = scriptBlockPattern.ReplaceAllString(input, "")
	input = markupPattern.ReplaceAllString(input, "")

	return strings.TrimSpace(input)
}
