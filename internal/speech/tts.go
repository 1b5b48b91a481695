// Package speech wraps the hosted text-to-speech endpoint. Speech-to-text
// lives on the OpenAI-compatible client in internal/ai.
package speech

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

type SynthesizerConfig struct {
	BaseURL string
}

// Synthesizer fetches MP3 audio for short texts from a translate-TTS style
// endpoint (GET with q and tl query parameters).
type Synthesizer struct {
	cfg        SynthesizerConfig
	httpClient *http.Client
}

func NewSynthesizer(cfg SynthesizerConfig) *Synthesizer {
	return &Synthesizer{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Synthesize returns MP3 bytes for the given text in the given language.
func (s *Synthesizer) Synthesize(ctx context.Context, text, langCode string) ([]byte, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("tts input is empty")
	}
	if langCode == "" {
		langCode = "en"
	}

	params := url.Values{}
	params.Set("ie", "UTF-8")
	params.Set("client", "tw-ob")
	params.Set("q", text)
	params.Set("tl", langCode)

	reqURL := strings.TrimRight(s.cfg.BaseURL, "/") + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build tts request failed: %w", err)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tts request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("tts response status %d", resp.StatusCode)
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read tts response failed: %w", err)
	}
	if len(audio) == 0 {
		return nil, fmt.Errorf("empty tts audio")
	}
	return audio, nil
}
