package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"
)

// TranscriptionConfig holds API settings for speech-to-text
// (OpenAI-compatible /audio/transcriptions).
type TranscriptionConfig struct {
	BaseURL string
	APIKey  string
	Model   string
}

// Transcribe uploads the audio stream and returns the recognized text.
// lang is an optional ISO-639-1 hint; empty means auto-detect.
func (c *OpenAICompatibleClient) Transcribe(ctx context.Context, cfg TranscriptionConfig, filename string, audio io.Reader, lang string) (string, error) {
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("build transcription form failed: %w", err)
	}
	if _, err := io.Copy(part, audio); err != nil {
		return "", fmt.Errorf("copy audio into form failed: %w", err)
	}
	if err := writer.WriteField("model", cfg.Model); err != nil {
		return "", fmt.Errorf("write model field failed: %w", err)
	}
	if lang != "" {
		if err := writer.WriteField("language", lang); err != nil {
			return "", fmt.Errorf("write language field failed: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return "", fmt.Errorf("close transcription form failed: %w", err)
	}

	url := strings.TrimRight(cfg.BaseURL, "/") + "/audio/transcriptions"
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, &body)
	if err != nil {
		return "", fmt.Errorf("build transcription request failed: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+cfg.APIKey)

	client := c.httpClient
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	resp, err := client.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read transcription response failed: %w", err)
	}
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("transcription response status %d: %s", resp.StatusCode, string(raw))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return "", fmt.Errorf("parse transcription json failed: %w", err)
	}
	return strings.TrimSpace(parsed.Text), nil
}
