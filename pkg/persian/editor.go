package persian

import (
	"strings"

	"github.com/mrouhi13/laum/pkg/errors"
)

// Editor is one named text transformation of the pipeline.
type Editor int

const (
	EditorSpace Editor = iota + 1
	EditorArabic
	EditorNumber
	EditorPunctuationMarks
)

var editorNames = map[Editor]string{
	EditorSpace:            "space",
	EditorArabic:           "arabic",
	EditorNumber:           "number",
	EditorPunctuationMarks: "punctuation_marks",
}

// Editors lists every built-in editor in declaration order.
func Editors() []Editor {
	return []Editor{EditorSpace, EditorArabic, EditorNumber, EditorPunctuationMarks}
}

func (e Editor) String() string {
	if name, ok := editorNames[e]; ok {
		return name
	}
	return "unknown"
}

// ParseEditor resolves an editor by its configuration name.
func ParseEditor(name string) (Editor, error) {
	for e, n := range editorNames {
		if n == name {
			return e, nil
		}
	}
	return 0, errors.Newf(errors.ErrCodeConfiguration, "the %q editor doesn't exist in editors list", name)
}

// Apply runs a single editor over text.
func (e Editor) Apply(text string) string {
	switch e {
	case EditorSpace:
		return editSpaces(text)
	case EditorArabic:
		return arabicReplacer.Replace(text)
	case EditorNumber:
		return digitReplacer.Replace(text)
	case EditorPunctuationMarks:
		return editPunctuationMarks(text)
	}
	return text
}

// Sentence punctuation that attaches to the preceding word.
const punctuationMarks = "!؟،»:؛."

const (
	openingQuote = '«'
	closingQuote = '»'
)

func isPunctuationMark(r rune) bool {
	return strings.ContainsRune(punctuationMarks, r)
}

var (
	arabicReplacer = strings.NewReplacer(
		"ي", "ی",
		"ك", "ک",
	)

	digitReplacer = strings.NewReplacer(
		"0", "۰", "1", "۱", "2", "۲", "3", "۳", "4", "۴", "5", "۵", "6", "۶", "7", "۷", "8", "۸", "9", "۹",
		"٠", "۰", "١", "۱", "٢", "۲", "٣", "۳", "٤", "۴", "٥", "۵", "٦", "۶", "٧", "۷", "٨", "۸", "٩", "۹",
	)

	punctuationReplacer = strings.NewReplacer(
		"?", "؟",
		",", "،",
		";", "؛",
	)
)

// editSpaces collapses repeated spaces and fixes spacing around
// punctuation marks and the opening guillemet in one left-to-right pass.
// "Preceding" always refers to the output built so far; position 0 has
// no preceding character.
func editSpaces(text string) string {
	for strings.Contains(text, "  ") {
		text = strings.ReplaceAll(text, "  ", " ")
	}

	src := []rune(text)
	out := make([]rune, 0, len(src)+len(src)/8)

	last := func() rune {
		if len(out) == 0 {
			return 0
		}
		return out[len(out)-1]
	}

	for i, r := range src {
		switch {
		case isPunctuationMark(r):
			if last() == ' ' {
				out = out[:len(out)-1]
			}
			out = append(out, r)
			if i+1 < len(src) && src[i+1] != ' ' && !isPunctuationMark(src[i+1]) {
				out = append(out, ' ')
			}
		case r == openingQuote:
			if prev := last(); prev != 0 && prev != ' ' && prev != openingQuote {
				out = append(out, ' ')
			}
			out = append(out, r)
		case r == ' ' && last() == openingQuote:
			// no space right after an opening guillemet
		default:
			out = append(out, r)
		}
	}

	return string(out)
}

// editPunctuationMarks swaps ASCII punctuation for the Persian forms and
// turns straight double quotes into alternating guillemets.
func editPunctuationMarks(text string) string {
	text = punctuationReplacer.Replace(text)
	if !strings.ContainsRune(text, '"') {
		return text
	}

	var b strings.Builder
	b.Grow(len(text) + 8)

	quote := openingQuote
	for _, r := range text {
		if r != '"' {
			b.WriteRune(r)
			continue
		}
		b.WriteRune(quote)
		if quote == openingQuote {
			quote = closingQuote
		} else {
			quote = openingQuote
		}
	}

	return b.String()
}
