package lang

import "testing"

func TestDetectEmptyInputDefaultsToEnglish(t *testing.T) {
	if got := Detect("   "); got != DefaultLanguage {
		t.Fatalf("expected %q for empty input, got %q", DefaultLanguage, got)
	}
}

func TestDetectDevanagariScript(t *testing.T) {
	if got := Detect("पुस्तकालय का समय क्या है, कृपया मुझे बताइए"); got != "hi" {
		t.Fatalf("expected hi for devanagari text, got %q", got)
	}
}

func TestDetectEnglishSentence(t *testing.T) {
	got := Detect("Please tell me the library opening hours for this college during weekdays.")
	if got != "en" {
		t.Fatalf("expected en for an english sentence, got %q", got)
	}
}
