package security

import (
	"html"
	"net/mail"
	"strings"
	"unicode/utf8"

	"github.com/microcosm-cc/bluemonday"
)

var htmlPolicy = bluemonday.StrictPolicy()

// SanitizeString removes null bytes and cuts input to maxRunes runes.
// Whitespace is left to the Persian editors.
func SanitizeString(input string, maxRunes int) string {
	input = strings.ReplaceAll(input, "\x00", "")

	if maxRunes > 0 && utf8.RuneCountInString(input) > maxRunes {
		input = string([]rune(input)[:maxRunes])
	}

	return input
}

// SanitizeHTML removes all HTML tags. The strict policy escapes what it
// keeps, so entities are decoded back: stored text is plain, not HTML.
func SanitizeHTML(input string) string {
	return html.UnescapeString(htmlPolicy.Sanitize(input))
}

// SanitizeText strips null bytes and HTML, then cuts to maxRunes.
func SanitizeText(input string, maxRunes int) string {
	input = strings.ReplaceAll(input, "\x00", "")
	return SanitizeString(SanitizeHTML(input), maxRunes)
}

// NormalizeEmail lowercases and validates an email address.
func NormalizeEmail(email string) (string, bool) {
	email = strings.ToLower(strings.TrimSpace(email))
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", false
	}
	return email, true
}

// ValidateFileType checks if file extension is allowed
func ValidateFileType(filename string, allowedTypes []string) bool {
	filename = strings.ToLower(filename)
	for _, ext := range allowedTypes {
		if strings.HasSuffix(filename, strings.ToLower(ext)) {
			return true
		}
	}
	return false
}
