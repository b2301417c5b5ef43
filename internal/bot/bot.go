package bot

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/google/uuid"

	"github.com/visiolux/lumen/internal/eventlog"
	"github.com/visiolux/lumen/internal/llm"
	"github.com/visiolux/lumen/internal/session"
	"github.com/visiolux/lumen/internal/stt"
	"github.com/visiolux/lumen/internal/telegram"
	"github.com/visiolux/lumen/internal/tts"
)

const msgGreeting = "⚡ *Olá, %s! Sou o Lúmen.*\n\n*Como eu funciono:*\n📝 Se você *escrever*, eu respondo em texto (para locais barulhentos).\n🗣️ Se mandar *áudio* na descrição do problema, eu respondo em áudio e texto.\n\nEnvie /diagnostico para iniciar a coleta guiada."

const msgListening = "🎧 _Ouvindo..._"

// Transport is the slice of the Telegram client the dispatcher needs.
type Transport interface {
	GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error)
	SendMessage(ctx context.Context, chatID int64, text string, opts *telegram.SendMessageOptions) error
	SendChatAction(ctx context.Context, chatID int64, action string) error
	SendVoice(ctx context.Context, chatID int64, path string) error
	GetFile(ctx context.Context, fileID string) (*telegram.File, error)
	DownloadFile(ctx context.Context, filePath, dest string) error
}

// Bot routes inbound updates to the per-chat diagnostic sessions and drives
// the adapters when a session completes.
type Bot struct {
	transport   Transport
	sessions    *session.Registry
	llm         llm.Client
	stt         stt.Client
	tts         tts.Client
	events      *eventlog.Logger
	logger      *log.Logger
	tmpDir      string
	pollTimeout time.Duration
}

// Config holds the dispatcher dependencies.
type Config struct {
	Transport   Transport
	Sessions    *session.Registry
	LLM         llm.Client
	STT         stt.Client
	TTS         tts.Client
	Events      *eventlog.Logger
	Logger      *log.Logger
	TmpDir      string // Defaults to os.TempDir()
	PollTimeout time.Duration
}

// New creates the update dispatcher.
func New(cfg Config) *Bot {
	tmpDir := cfg.TmpDir
	if tmpDir == "" {
		tmpDir = os.TempDir()
	}
	pollTimeout := cfg.PollTimeout
	if pollTimeout == 0 {
		pollTimeout = 30 * time.Second
	}
	return &Bot{
		transport:   cfg.Transport,
		sessions:    cfg.Sessions,
		llm:         cfg.LLM,
		stt:         cfg.STT,
		tts:         cfg.TTS,
		events:      cfg.Events,
		logger:      cfg.Logger,
		tmpDir:      tmpDir,
		pollTimeout: pollTimeout,
	}
}

// Run long-polls for updates until the context is cancelled. Each update is
// handled in its own goroutine; the session mutex serializes a single chat.
func (b *Bot) Run(ctx context.Context) error {
	var offset int64
	for {
		updates, err := b.transport.GetUpdates(ctx, offset, b.pollTimeout)
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			b.logger.Printf("getUpdates: %v", err)
			select {
			case <-ctx.Done():
				return nil
			case <-time.After(3 * time.Second):
			}
			continue
		}

		for _, u := range updates {
			if u.UpdateID >= offset {
				offset = u.UpdateID + 1
			}
			if u.Message == nil {
				continue
			}
			msg := u.Message
			go b.dispatch(ctx, msg)
		}
	}
}

// dispatch routes one inbound message. Recovers panics so a bad update never
// kills the polling loop.
func (b *Bot) dispatch(ctx context.Context, msg *telegram.Message) {
	defer func() {
		if r := recover(); r != nil {
			sentry.CurrentHub().Recover(r)
			b.logger.Printf("panic handling update for chat %d: %v", msg.Chat.ID, r)
		}
	}()

	var err error
	switch {
	case strings.HasPrefix(msg.Text, "/start"):
		err = b.handleStart(ctx, msg)
	case strings.HasPrefix(msg.Text, "/diagnostico"):
		err = b.handleSessionStart(ctx, msg.Chat.ID)
	case strings.HasPrefix(msg.Text, "/cancelar"):
		err = b.handleCancel(ctx, msg.Chat.ID)
	case msg.Voice != nil:
		err = b.handleVoice(ctx, msg)
	default:
		err = b.handleText(ctx, msg)
	}
	if err != nil {
		// Delivery failures are not retried; surface them to monitoring.
		sentry.CaptureException(err)
		b.logger.Printf("chat %d: %v", msg.Chat.ID, err)
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *telegram.Message) error {
	name := "técnico"
	if msg.From != nil && msg.From.FirstName != "" {
		name = msg.From.FirstName
	}
	return b.transport.SendMessage(ctx, msg.Chat.ID, fmt.Sprintf(msgGreeting, name), &telegram.SendMessageOptions{
		ParseMode: "Markdown",
	})
}

func (b *Bot) handleSessionStart(ctx context.Context, chatID int64) error {
	b.sessions.Start(chatID)
	b.events.Log(chatID, eventlog.EventSessionStarted, nil)
	return b.sendReply(ctx, chatID, session.Start())
}

func (b *Bot) handleCancel(ctx context.Context, chatID int64) error {
	if s, ok := b.sessions.Get(chatID); ok {
		s.Lock()
		s.Cancel()
		s.Unlock()
		b.sessions.Delete(chatID)
		b.events.Log(chatID, eventlog.EventSessionCancelled, nil)
	}
	return b.transport.SendMessage(ctx, chatID, session.MsgCancelled, &telegram.SendMessageOptions{
		ReplyMarkup: &telegram.ReplyKeyboardRemove{RemoveKeyboard: true},
	})
}

func (b *Bot) handleText(ctx context.Context, msg *telegram.Message) error {
	chatID := msg.Chat.ID
	s, ok := b.sessions.Get(chatID)
	if !ok {
		return b.transport.SendMessage(ctx, chatID, session.MsgNoActiveSession, nil)
	}

	s.Lock()
	defer s.Unlock()

	reply := s.Submit(msg.Text)
	switch {
	case reply.Invalid:
		b.events.Log(chatID, eventlog.EventValidationFailed, map[string]any{"state": string(s.State)})
	case reply.Done:
		return b.complete(ctx, s)
	default:
		b.events.Log(chatID, eventlog.EventFieldCollected, map[string]any{"state": string(s.State)})
	}
	return b.sendReply(ctx, chatID, reply)
}

func (b *Bot) handleVoice(ctx context.Context, msg *telegram.Message) error {
	chatID := msg.Chat.ID
	s, ok := b.sessions.Get(chatID)
	if !ok {
		return b.transport.SendMessage(ctx, chatID, session.MsgNoActiveSession, nil)
	}

	s.Lock()
	defer s.Unlock()

	if s.State != session.StateDescription {
		return b.sendReply(ctx, chatID, s.SubmitVoice(""))
	}

	_ = b.transport.SendMessage(ctx, chatID, msgListening, &telegram.SendMessageOptions{ParseMode: "Markdown"})

	text, err := b.transcribeClip(ctx, msg.Voice)
	if err != nil {
		sentry.CaptureException(err)
		b.logger.Printf("chat %d: transcription failed: %v", chatID, err)
		b.events.Log(chatID, eventlog.EventTranscriptionFailed, nil)
		text = session.PlaceholderUnintelligible
	} else {
		_ = b.transport.SendMessage(ctx, chatID, fmt.Sprintf("📝 *Entendi:* \"%s\"", text), &telegram.SendMessageOptions{ParseMode: "Markdown"})
	}

	reply := s.SubmitVoice(text)
	if reply.Done {
		return b.complete(ctx, s)
	}
	return b.sendReply(ctx, chatID, reply)
}

// transcribeClip downloads the voice clip to a temp file, transcribes it and
// removes the local copy on every path.
func (b *Bot) transcribeClip(ctx context.Context, voice *telegram.Voice) (string, error) {
	file, err := b.transport.GetFile(ctx, voice.FileID)
	if err != nil {
		return "", fmt.Errorf("failed to resolve voice file: %w", err)
	}

	path := filepath.Join(b.tmpDir, fmt.Sprintf("clip_%s.ogg", uuid.NewString()))
	if err := b.transport.DownloadFile(ctx, file.FilePath, path); err != nil {
		_ = os.Remove(path)
		return "", fmt.Errorf("failed to download voice file: %w", err)
	}
	defer os.Remove(path)

	text, err := b.stt.Transcribe(ctx, path)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("empty transcription")
	}
	return text, nil
}

// complete builds the dossier, fetches the diagnosis and delivers it. Caller
// holds the session lock.
func (b *Bot) complete(ctx context.Context, s *session.Session) error {
	chatID := s.ChatID
	dossier := s.Dossier()
	usedVoice := s.Fields.UsedVoice

	_ = b.transport.SendChatAction(ctx, chatID, telegram.ActionTyping)

	diagnosis, err := b.llm.Diagnose(ctx, dossier)
	if err != nil {
		sentry.CaptureException(err)
		b.logger.Printf("chat %d: diagnosis failed: %v", chatID, err)
		b.events.Log(chatID, eventlog.EventLLMFailed, nil)
		diagnosis = llm.FallbackDiagnosis
	} else {
		b.events.Log(chatID, eventlog.EventLLMCompleted, nil)
	}

	if err := b.transport.SendMessage(ctx, chatID, diagnosis, &telegram.SendMessageOptions{
		ReplyMarkup: &telegram.ReplyKeyboardRemove{RemoveKeyboard: true},
	}); err != nil {
		return fmt.Errorf("failed to deliver diagnosis: %w", err)
	}

	if usedVoice {
		b.sendVoiceReply(ctx, chatID, diagnosis)
	}

	s.Clear()
	b.sessions.Delete(chatID)
	b.events.Log(chatID, eventlog.EventSessionCompleted, nil)
	return nil
}

// sendVoiceReply synthesizes the diagnosis and delivers it as a voice note.
// A missing voice reply is acceptable degradation; the text was already sent.
func (b *Bot) sendVoiceReply(ctx context.Context, chatID int64, text string) {
	_ = b.transport.SendChatAction(ctx, chatID, telegram.ActionRecordVoice)

	audio, err := b.tts.Synthesize(ctx, tts.SanitizeForSpeech(text))
	if err != nil {
		sentry.CaptureException(err)
		b.logger.Printf("chat %d: synthesis failed: %v", chatID, err)
		b.events.Log(chatID, eventlog.EventTTSFailed, nil)
		return
	}

	path := filepath.Join(b.tmpDir, fmt.Sprintf("reply_%s.mp3", uuid.NewString()))
	if err := os.WriteFile(path, audio, 0o600); err != nil {
		b.logger.Printf("chat %d: failed to write voice reply: %v", chatID, err)
		return
	}
	defer os.Remove(path)

	if err := b.transport.SendVoice(ctx, chatID, path); err != nil {
		sentry.CaptureException(err)
		b.logger.Printf("chat %d: failed to send voice reply: %v", chatID, err)
	}
}

func (b *Bot) sendReply(ctx context.Context, chatID int64, reply session.Reply) error {
	opts := &telegram.SendMessageOptions{ParseMode: "Markdown"}
	if len(reply.Menu) > 0 {
		opts.ReplyMarkup = telegram.MenuKeyboard(reply.Menu)
	} else {
		opts.ReplyMarkup = &telegram.ReplyKeyboardRemove{RemoveKeyboard: true}
	}
	return b.transport.SendMessage(ctx, chatID, reply.Text, opts)
}
