package transcription

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
	"time"

	"schedule-scribe-go/internal/config"
	"schedule-scribe-go/internal/logger"
)

// Transcriber converts an audio recording into plain text.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Client delegates transcription to an OpenAI-compatible speech-to-text
// endpoint. Errors propagate unchanged; unlike the language-model stages
// there is no retry here.
type Client struct {
	baseURL    string
	apiKey     string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		apiKey:     cfg.APIKey,
		model:      cfg.TranscribeModel,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		log:        logger.New(),
	}
}

func (c *Client) Transcribe(ctx context.Context, audioPath string) (string, error) {
	log := c.log.WithField("component", "transcription").WithField("audio_path", audioPath)
	log.Info("starting transcription")

	f, err := os.Open(audioPath)
	if err != nil {
		return "", fmt.Errorf("open audio file: %w", err)
	}
	defer f.Close()

	var b bytes.Buffer
	w := multipart.NewWriter(&b)
	part, err := w.CreateFormFile("file", filepath.Base(audioPath))
	if err != nil {
		return "", fmt.Errorf("build multipart form: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("read audio file: %w", err)
	}
	_ = w.WriteField("model", c.model)
	_ = w.WriteField("response_format", "text")
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("finalize multipart form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/audio/transcriptions", &b)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode >= 300 {
		return "", fmt.Errorf("transcription failed (%d): %s", resp.StatusCode, string(body))
	}

	transcript := strings.TrimSpace(string(body))
	log.WithField("transcript_len", len(transcript)).Info("transcription completed")
	return transcript, nil
}
