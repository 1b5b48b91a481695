package lang

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestTranslateSameLanguageIsNoOp(t *testing.T) {
	translator := NewTranslator(TranslatorConfig{BaseURL: "http://unused.invalid"})

	got, err := translator.Translate(context.Background(), "hello", "en", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "hello" {
		t.Fatalf("expected the input back, got %q", got)
	}
}

func TestTranslatePostsLibreTranslatePayload(t *testing.T) {
	var gotBody map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/translate" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request body: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]string{"translatedText": "namaste"})
	}))
	defer server.Close()

	translator := NewTranslator(TranslatorConfig{BaseURL: server.URL})
	got, err := translator.Translate(context.Background(), "hello", "en", "hi")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "namaste" {
		t.Fatalf("unexpected translation: %q", got)
	}
	if gotBody["q"] != "hello" || gotBody["source"] != "en" || gotBody["target"] != "hi" || gotBody["format"] != "text" {
		t.Fatalf("unexpected request payload: %v", gotBody)
	}
}

func TestTranslateErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	translator := NewTranslator(TranslatorConfig{BaseURL: server.URL})
	if _, err := translator.Translate(context.Background(), "hello", "en", "hi"); err == nil {
		t.Fatal("expected an error for a non-2xx response")
	}
}
