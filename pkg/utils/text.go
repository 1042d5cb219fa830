package utils

import (
	"strings"

	"github.com/mrouhi13/laum/pkg/persian"
	"golang.org/x/text/unicode/norm"
)

var latinDigits = strings.NewReplacer(
	"۰", "0", "۱", "1", "۲", "2", "۳", "3", "۴", "4", "۵", "5", "۶", "6", "۷", "7", "۸", "8", "۹", "9",
	"٠", "0", "١", "1", "٢", "2", "٣", "3", "٤", "4", "٥", "5", "٦", "6", "٧", "7", "٨", "8", "٩", "9",
)

// NormalizePersianNumbers converts Persian and Arabic numerals to English numerals
func NormalizePersianNumbers(input string) string {
	return latinDigits.Replace(input)
}

var persianDigits = persian.MustNew([]string{"number"}, persian.WithEscapeReturn(false), persian.WithStrip(false))

// ToPersianDigits renders digits for display.
func ToPersianDigits(input string) string {
	return persianDigits.Run(input)
}

var glyphs = persian.MustNew([]string{"space", "number", "arabic"})

// NormalizeSearchQuery folds a visitor's query to the form pages are
// stored in: NFC, Persian glyphs and digits, single spaces, no line breaks.
func NormalizeSearchQuery(input string) string {
	return glyphs.Run(norm.NFC.String(input))
}

// NormalizePublicID canonicalises a PID or RID typed with Persian digits
// or stray whitespace.
func NormalizePublicID(input string) string {
	return strings.TrimSpace(NormalizePersianNumbers(input))
}
