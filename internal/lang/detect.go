// Package lang detects the language of free-text input and translates
// between a detected language and the working language (English).
package lang

import (
	"strings"

	"github.com/abadojack/whatlanggo"
)

// DefaultLanguage is the working language every query is normalized to.
const DefaultLanguage = "en"

// Detect returns the ISO-639-1 code of the text's language. Empty input or
// an unreliable detection falls back to English.
func Detect(text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return DefaultLanguage
	}

	info := whatlanggo.Detect(text)
	if !info.IsReliable() {
		return DefaultLanguage
	}
	code := info.Lang.Iso6391()
	if code == "" {
		return DefaultLanguage
	}
	return code
}
