package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares user text for storage:
//   - applies Unicode NFC so visually equal sentences compare equal
//   - trims leading/trailing whitespace
//
// Inner whitespace and case are preserved.
func NormalizeText(text string) string {
	return strings.TrimSpace(norm.NFC.String(text))
}

// NormalizeTitle is NormalizeText plus collapsing of inner whitespace runs
// into a single space.
func NormalizeTitle(title string) string {
	title = NormalizeText(title)
	if title == "" {
		return ""
	}

	var b strings.Builder
	b.Grow(len(title))
	prevSpace := false
	for _, r := range title {
		if unicode.IsSpace(r) {
			if prevSpace {
				continue
			}
			prevSpace = true
			b.WriteRune(' ')
			continue
		}
		prevSpace = false
		b.WriteRune(r)
	}
	return b.String()
}

// NormalizeLanguage parses a BCP 47 language code and returns its canonical
// form ("EN" -> "en", "zh-hans" -> "zh-Hans"). ok is false for unparseable codes.
func NormalizeLanguage(code string) (string, bool) {
	code = strings.TrimSpace(code)
	if code == "" {
		return "", false
	}
	tag, err := language.Parse(code)
	if err != nil {
		return "", false
	}
	return tag.String(), true
}
