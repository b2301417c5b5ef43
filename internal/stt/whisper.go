package stt

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

const groqTranscriptionURL = "https://api.groq.com/openai/v1/audio/transcriptions"

// WhisperClient implements the Client interface using Groq's hosted Whisper.
type WhisperClient struct {
	apiKey     string
	model      string
	language   string
	baseURL    string
	httpClient *http.Client
}

// WhisperConfig holds configuration for the Whisper client.
type WhisperConfig struct {
	APIKey     string
	Model      string // e.g., "whisper-large-v3"
	Language   string // e.g., "pt"
	BaseURL    string // Optional override, used in tests
	HTTPClient *http.Client
}

// NewWhisperClient creates a new Whisper transcription client.
func NewWhisperClient(cfg WhisperConfig) *WhisperClient {
	model := cfg.Model
	if model == "" {
		model = "whisper-large-v3"
	}
	language := cfg.Language
	if language == "" {
		language = "pt"
	}
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = groqTranscriptionURL
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	return &WhisperClient{
		apiKey:     cfg.APIKey,
		model:      model,
		language:   language,
		baseURL:    baseURL,
		httpClient: httpClient,
	}
}

// Transcribe uploads the audio clip at path and returns the recognized text.
func (c *WhisperClient) Transcribe(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("file", filepath.Base(path))
	if err != nil {
		return "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("failed to copy audio file: %w", err)
	}
	_ = mw.WriteField("model", c.model)
	_ = mw.WriteField("language", c.language)
	_ = mw.WriteField("response_format", "text")
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("failed to finalize form: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL, &buf)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", mw.FormDataContentType())
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("Groq API error: %s - %s", resp.Status, string(respBody))
	}

	return strings.TrimSpace(string(respBody)), nil
}
