package app

import (
	"context"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/visiolux/lumen/internal/bot"
	"github.com/visiolux/lumen/internal/eventlog"
	"github.com/visiolux/lumen/internal/llm"
	"github.com/visiolux/lumen/internal/session"
	"github.com/visiolux/lumen/internal/stt"
	"github.com/visiolux/lumen/internal/telegram"
	"github.com/visiolux/lumen/internal/tts"
)

type App struct {
	cfg    Config
	logger *log.Logger
	bot    *bot.Bot
}

func New(cfg Config, logger *log.Logger) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	// Shared transport with connection pooling. Telegram and Groq are each a
	// single host, so keeping connections alive cuts per-turn latency.
	transport := &http.Transport{
		DialContext: (&net.Dialer{
			Timeout:   5 * time.Second,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		MaxIdleConns:          100,
		MaxIdleConnsPerHost:   10,
		IdleConnTimeout:       90 * time.Second,
		TLSHandshakeTimeout:   5 * time.Second,
		ExpectContinueTimeout: 1 * time.Second,
	}
	apiClient := &http.Client{
		Timeout:   30 * time.Second,
		Transport: transport,
	}
	// Long polling holds the request open for PollTimeout; give it headroom.
	pollClient := &http.Client{
		Timeout:   cfg.PollTimeout + 15*time.Second,
		Transport: transport,
	}

	tg := telegram.NewClient(telegram.Config{
		Token:      cfg.TelegramToken,
		HTTPClient: pollClient,
	})
	groq := llm.NewGroqClient(llm.GroqConfig{
		APIKey:     cfg.GroqAPIKey,
		Model:      cfg.GroqModel,
		HTTPClient: apiClient,
	})
	whisper := stt.NewWhisperClient(stt.WhisperConfig{
		APIKey:     cfg.GroqAPIKey,
		Model:      cfg.WhisperModel,
		HTTPClient: apiClient,
	})
	edge := tts.NewEdgeClient(tts.EdgeConfig{
		Voice: cfg.TTSVoice,
	})

	b := bot.New(bot.Config{
		Transport:   tg,
		Sessions:    session.NewRegistry(cfg.SessionTTL),
		LLM:         groq,
		STT:         whisper,
		TTS:         edge,
		Events:      eventlog.New(logger),
		Logger:      logger,
		PollTimeout: cfg.PollTimeout,
	})

	return &App{
		cfg:    cfg,
		logger: logger,
		bot:    b,
	}, nil
}

// Run polls for updates until the context is cancelled.
func (a *App) Run(ctx context.Context) error {
	return a.bot.Run(ctx)
}
