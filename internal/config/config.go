package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ErrMissingAPIKey is returned by Load when no API key is configured. The
// process must not attempt any pipeline stage without it.
var ErrMissingAPIKey = errors.New("OPENAI_API_KEY is not set")

// Config holds everything the pipeline needs besides the input itself.
// Non-secret settings may come from an optional YAML file; environment
// variables always win. The API key is environment-only.
type Config struct {
	// APIKey authenticates against the OpenAI-compatible service.
	APIKey string `yaml:"-"`

	// BaseURL is the API root, e.g. "https://api.openai.com/v1".
	BaseURL string `yaml:"base_url"`

	// ChatModel is used by the clarify/segment/structure stages.
	ChatModel string `yaml:"chat_model"`

	// TranscribeModel is the speech-to-text model.
	TranscribeModel string `yaml:"transcribe_model"`

	// MaxRetries bounds retries around each language-model stage. The
	// transcription stage never retries.
	MaxRetries int `yaml:"max_retries"`

	// MaxConcurrent bounds concurrent per-segment structuring calls.
	MaxConcurrent int `yaml:"max_concurrent"`

	// OutputPath is where the CLI writes the resulting calendar document.
	OutputPath string `yaml:"output_path"`

	// PreviewDays is the window for the recurrence preview shown after a
	// successful run.
	PreviewDays int `yaml:"preview_days"`
}

func Default() *Config {
	return &Config{
		BaseURL:         "https://api.openai.com/v1",
		ChatModel:       "gpt-4",
		TranscribeModel: "whisper-1",
		MaxRetries:      2,
		MaxConcurrent:   4,
		OutputPath:      "output_schedule.ics",
		PreviewDays:     14,
	}
}

// Normalize fills in missing/zero values so partially-filled config files
// still behave correctly.
func (c *Config) Normalize() {
	def := Default()
	if c.BaseURL == "" {
		c.BaseURL = def.BaseURL
	}
	if c.ChatModel == "" {
		c.ChatModel = def.ChatModel
	}
	if c.TranscribeModel == "" {
		c.TranscribeModel = def.TranscribeModel
	}
	if c.MaxRetries < 0 {
		c.MaxRetries = def.MaxRetries
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = def.MaxConcurrent
	}
	if c.OutputPath == "" {
		c.OutputPath = def.OutputPath
	}
	if c.PreviewDays <= 0 {
		c.PreviewDays = def.PreviewDays
	}
}

// Load reads the optional YAML file at path (missing file means defaults),
// applies environment overrides and validates that the API key is present.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, err
			}
		case errors.Is(err, fs.ErrNotExist):
			// fall through to defaults
		default:
			return nil, err
		}
	}

	cfg.applyEnv()
	cfg.Normalize()

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.APIKey = envOr("OPENAI_API_KEY", c.APIKey)
	c.BaseURL = envOr("OPENAI_BASE_URL", c.BaseURL)
	c.ChatModel = envOr("SCRIBE_CHAT_MODEL", c.ChatModel)
	c.TranscribeModel = envOr("SCRIBE_TRANSCRIBE_MODEL", c.TranscribeModel)
	c.OutputPath = envOr("SCRIBE_OUTPUT", c.OutputPath)
	if v := os.Getenv("SCRIBE_MAX_RETRIES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			c.MaxRetries = n
		}
	}
	if v := os.Getenv("SCRIBE_MAX_CONCURRENT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.MaxConcurrent = n
		}
	}
	if v := os.Getenv("SCRIBE_PREVIEW_DAYS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.PreviewDays = n
		}
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
