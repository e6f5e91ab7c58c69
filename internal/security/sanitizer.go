package security

import (
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString trims and bounds admin-supplied display strings
// (item names, tribe names) before persistence.
func SanitizeString(input string) string {
	input = strings.TrimSpace(input)
	input = strings.ReplaceAll(input, "\x00", "")

	if len(input) > 255 {
		input = input[:255]
	}

	return input
}

// SanitizeHTML removes all HTML tags
func SanitizeHTML(input string) string {
	return htmlPolicy.Sanitize(input)
}

// SanitizeName applies both passes to a user-visible name field.
func SanitizeName(input string) string {
	return SanitizeString(SanitizeHTML(input))
}
