package lang

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// TranslatorConfig holds API settings for a LibreTranslate-compatible
// translation endpoint.
type TranslatorConfig struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

type Translator struct {
	cfg        TranslatorConfig
	httpClient *http.Client
}

func NewTranslator(cfg TranslatorConfig) *Translator {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &Translator{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
	}
}

// Translate converts text from sourceLang to targetLang. Identical source
// and target is a no-op. Callers are expected to treat errors as
// fail-open and keep the untranslated text.
func (t *Translator) Translate(ctx context.Context, text, sourceLang, targetLang string) (string, error) {
	if sourceLang == targetLang || strings.TrimSpace(text) == "" {
		return text, nil
	}

	reqBody := map[string]string{
		"q":      text,
		"source": sourceLang,
		"target": targetLang,
		"format": "text",
	}
	if t.cfg.APIKey != "" {
		reqBody["api_key"] = t.cfg.APIKey
	}
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshal translate request failed: %w", err)
	}

	url := strings.TrimRight(t.cfg.BaseURL, "/") + "/translate"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("build translate request failed: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read translate response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("translate response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		TranslatedText string `json:"translatedText"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse translate json failed: %w", err)
	}
	if parsed.TranslatedText == "" {
		return "", fmt.Errorf("empty translation in response")
	}
	return parsed.TranslatedText, nil
}
