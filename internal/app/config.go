package app

import (
	"errors"
	"os"
	"time"
)

type Config struct {
	TelegramToken string
	GroqAPIKey    string
	GroqModel     string
	WhisperModel  string
	TTSVoice      string
	SentryDSN     string
	LogLevel      string
	SessionTTL    time.Duration
	PollTimeout   time.Duration
}

func LoadConfigFromEnv() Config {
	sessionTTL, err := time.ParseDuration(getenv("SESSION_TTL", "30m"))
	if err != nil {
		sessionTTL = 30 * time.Minute
	}
	pollTimeout, err := time.ParseDuration(getenv("POLL_TIMEOUT", "30s"))
	if err != nil {
		pollTimeout = 30 * time.Second
	}

	return Config{
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		GroqAPIKey:    os.Getenv("GROQ_API_KEY"),
		GroqModel:     getenv("GROQ_MODEL", "llama-3.3-70b-versatile"),
		WhisperModel:  getenv("WHISPER_MODEL", "whisper-large-v3"),
		TTSVoice:      getenv("TTS_VOICE", "pt-BR-AntonioNeural"),
		SentryDSN:     getenv("SENTRY_DSN", ""),
		LogLevel:      getenv("LOG_LEVEL", "info"),
		SessionTTL:    sessionTTL,
		PollTimeout:   pollTimeout,
	}
}

// Validate checks the required secrets. Missing either one is a fatal startup
// condition; nothing is initialized before this passes.
func (c Config) Validate() error {
	if c.TelegramToken == "" {
		return errors.New("TELEGRAM_TOKEN is required")
	}
	if c.GroqAPIKey == "" {
		return errors.New("GROQ_API_KEY is required")
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
