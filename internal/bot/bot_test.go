package bot

import (
	"context"
	"errors"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/visiolux/lumen/internal/eventlog"
	"github.com/visiolux/lumen/internal/llm"
	"github.com/visiolux/lumen/internal/session"
	"github.com/visiolux/lumen/internal/telegram"
)

type sentMessage struct {
	chatID int64
	text   string
	opts   *telegram.SendMessageOptions
}

type fakeTransport struct {
	mu          sync.Mutex
	messages    []sentMessage
	actions     []string
	voicePaths  []string
	voiceExists []bool

	sendErr     error
	getFileErr  error
	downloadErr error
}

func (f *fakeTransport) GetUpdates(ctx context.Context, offset int64, timeout time.Duration) ([]telegram.Update, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

func (f *fakeTransport) SendMessage(ctx context.Context, chatID int64, text string, opts *telegram.SendMessageOptions) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.messages = append(f.messages, sentMessage{chatID: chatID, text: text, opts: opts})
	return nil
}

func (f *fakeTransport) SendChatAction(ctx context.Context, chatID int64, action string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.actions = append(f.actions, action)
	return nil
}

func (f *fakeTransport) SendVoice(ctx context.Context, chatID int64, path string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, err := os.Stat(path)
	f.voicePaths = append(f.voicePaths, path)
	f.voiceExists = append(f.voiceExists, err == nil)
	return nil
}

func (f *fakeTransport) GetFile(ctx context.Context, fileID string) (*telegram.File, error) {
	if f.getFileErr != nil {
		return nil, f.getFileErr
	}
	return &telegram.File{FileID: fileID, FilePath: "voice/" + fileID + ".ogg"}, nil
}

func (f *fakeTransport) DownloadFile(ctx context.Context, filePath, dest string) error {
	if f.downloadErr != nil {
		return f.downloadErr
	}
	return os.WriteFile(dest, []byte("fake-ogg"), 0o600)
}

func (f *fakeTransport) lastMessage(t *testing.T) sentMessage {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.messages) == 0 {
		t.Fatal("no messages sent")
	}
	return f.messages[len(f.messages)-1]
}

type fakeLLM struct {
	diagnosis string
	err       error
	dossiers  []string
}

func (f *fakeLLM) Diagnose(ctx context.Context, dossier string) (string, error) {
	f.dossiers = append(f.dossiers, dossier)
	if f.err != nil {
		return "", f.err
	}
	return f.diagnosis, nil
}

type fakeSTT struct {
	text  string
	err   error
	paths []string
	seen  []bool // whether the clip existed when Transcribe ran
}

func (f *fakeSTT) Transcribe(ctx context.Context, path string) (string, error) {
	_, statErr := os.Stat(path)
	f.paths = append(f.paths, path)
	f.seen = append(f.seen, statErr == nil)
	if f.err != nil {
		return "", f.err
	}
	return f.text, nil
}

type fakeTTS struct {
	audio []byte
	err   error
	texts []string
}

func (f *fakeTTS) Synthesize(ctx context.Context, text string) ([]byte, error) {
	f.texts = append(f.texts, text)
	if f.err != nil {
		return nil, f.err
	}
	return f.audio, nil
}

type testBot struct {
	bot      *Bot
	tp       *fakeTransport
	llm      *fakeLLM
	stt      *fakeSTT
	tts      *fakeTTS
	sessions *session.Registry
	tmpDir   string
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	tp := &fakeTransport{}
	l := &fakeLLM{diagnosis: "📊 Análise: atenuação alta"}
	s := &fakeSTT{text: "sinal baixo no cliente"}
	ts := &fakeTTS{audio: []byte("mp3")}
	reg := session.NewRegistry(time.Minute)
	tmpDir := t.TempDir()
	logger := log.New(io.Discard, "", 0)

	b := New(Config{
		Transport: tp,
		Sessions:  reg,
		LLM:       l,
		STT:       s,
		TTS:       ts,
		Events:    eventlog.New(logger),
		Logger:    logger,
		TmpDir:    tmpDir,
	})
	return &testBot{bot: b, tp: tp, llm: l, stt: s, tts: ts, sessions: reg, tmpDir: tmpDir}
}

func textMsg(chatID int64, text string) *telegram.Message {
	return &telegram.Message{Chat: telegram.Chat{ID: chatID}, Text: text}
}

func voiceMsg(chatID int64) *telegram.Message {
	return &telegram.Message{Chat: telegram.Chat{ID: chatID}, Voice: &telegram.Voice{FileID: "clip1"}}
}

func (tb *testBot) runFlow(t *testing.T, chatID int64, inputs ...string) {
	t.Helper()
	ctx := context.Background()
	if err := tb.bot.handleSessionStart(ctx, chatID); err != nil {
		t.Fatalf("session start: %v", err)
	}
	for _, input := range inputs {
		if err := tb.bot.handleText(ctx, textMsg(chatID, input)); err != nil {
			t.Fatalf("handleText(%q): %v", input, err)
		}
	}
}

func assertTmpDirEmpty(t *testing.T, dir string) {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 0 {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Errorf("temp files left behind: %v", names)
	}
}

func TestTextFlowEndToEnd(t *testing.T) {
	tb := newTestBot(t)

	tb.runFlow(t, 42, "Balanceada (Splitter)", "28", "Negativo (-)", "CTO", "low signal at client")

	if len(tb.llm.dossiers) != 1 {
		t.Fatalf("Diagnose called %d times, want exactly once", len(tb.llm.dossiers))
	}
	dossier := tb.llm.dossiers[0]
	for _, want := range []string{"Balanceada (Splitter)", "-28.0 dBm", "CTO", "low signal at client"} {
		if !strings.Contains(dossier, want) {
			t.Errorf("dossier missing %q:\n%s", want, dossier)
		}
	}

	if got := tb.tp.lastMessage(t).text; got != tb.llm.diagnosis {
		t.Errorf("last message = %q, want the diagnosis", got)
	}
	if len(tb.tts.texts) != 0 {
		t.Error("text-only flow must not synthesize audio")
	}
	if _, ok := tb.sessions.Get(42); ok {
		t.Error("completed session should be removed")
	}
}

func TestInvalidSignalReprompts(t *testing.T) {
	tb := newTestBot(t)
	tb.runFlow(t, 42, "Balanceada (Splitter)")

	if err := tb.bot.handleText(context.Background(), textMsg(42, "vinte e oito")); err != nil {
		t.Fatal(err)
	}

	s, ok := tb.sessions.Get(42)
	if !ok {
		t.Fatal("session gone")
	}
	if s.State != session.StateSignal {
		t.Errorf("state = %s, want %s", s.State, session.StateSignal)
	}
	if len(tb.llm.dossiers) != 0 {
		t.Error("invalid input must not reach the completion adapter")
	}

	// The flow continues normally with a valid value afterwards.
	ctx := context.Background()
	for _, input := range []string{"28", "Negativo (-)", "CTO", "ok"} {
		if err := tb.bot.handleText(ctx, textMsg(42, input)); err != nil {
			t.Fatal(err)
		}
	}
	if len(tb.llm.dossiers) != 1 {
		t.Errorf("Diagnose called %d times, want 1", len(tb.llm.dossiers))
	}
}

func TestVoiceDescriptionFlow(t *testing.T) {
	tb := newTestBot(t)
	tb.runFlow(t, 42, "Balanceada (Splitter)", "28", "Negativo (-)", "CTO")

	if err := tb.bot.handleVoice(context.Background(), voiceMsg(42)); err != nil {
		t.Fatal(err)
	}

	if len(tb.stt.paths) != 1 || !tb.stt.seen[0] {
		t.Fatal("clip should be downloaded and handed to the transcriber")
	}
	if len(tb.llm.dossiers) != 1 || !strings.Contains(tb.llm.dossiers[0], "sinal baixo no cliente") {
		t.Errorf("dossier should carry the transcription: %v", tb.llm.dossiers)
	}
	if len(tb.tts.texts) != 1 {
		t.Fatalf("voice flow should synthesize exactly once, got %d", len(tb.tts.texts))
	}
	if len(tb.tp.voicePaths) != 1 || !tb.tp.voiceExists[0] {
		t.Error("voice reply should be sent from an existing file")
	}
	assertTmpDirEmpty(t, tb.tmpDir)
}

func TestVoiceTranscriptionFailureUsesPlaceholder(t *testing.T) {
	tb := newTestBot(t)
	tb.stt.err = errors.New("whisper down")
	tb.runFlow(t, 42, "Balanceada (Splitter)", "28", "Negativo (-)", "CTO")

	if err := tb.bot.handleVoice(context.Background(), voiceMsg(42)); err != nil {
		t.Fatal(err)
	}

	if len(tb.llm.dossiers) != 1 {
		t.Fatal("flow must still reach the completion adapter")
	}
	if !strings.Contains(tb.llm.dossiers[0], session.PlaceholderUnintelligible) {
		t.Errorf("dossier should carry the placeholder:\n%s", tb.llm.dossiers[0])
	}
	if _, ok := tb.sessions.Get(42); ok {
		t.Error("session should terminate despite the failed transcription")
	}
	assertTmpDirEmpty(t, tb.tmpDir)
}

func TestVoiceDownloadFailureUsesPlaceholder(t *testing.T) {
	tb := newTestBot(t)
	tb.tp.downloadErr = errors.New("download failed")
	tb.runFlow(t, 42, "Balanceada (Splitter)", "28", "Negativo (-)", "CTO")

	if err := tb.bot.handleVoice(context.Background(), voiceMsg(42)); err != nil {
		t.Fatal(err)
	}

	if len(tb.llm.dossiers) != 1 || !strings.Contains(tb.llm.dossiers[0], session.PlaceholderUnintelligible) {
		t.Error("flow should complete with the placeholder description")
	}
	assertTmpDirEmpty(t, tb.tmpDir)
}

func TestVoiceBeforeDescriptionReprompts(t *testing.T) {
	tb := newTestBot(t)
	tb.runFlow(t, 42)

	if err := tb.bot.handleVoice(context.Background(), voiceMsg(42)); err != nil {
		t.Fatal(err)
	}

	if len(tb.stt.paths) != 0 {
		t.Error("clip must not be transcribed outside the description step")
	}
	s, _ := tb.sessions.Get(42)
	if s.State != session.StateTopology {
		t.Errorf("state = %s, want %s", s.State, session.StateTopology)
	}
}

func TestLLMFailureDeliversFallback(t *testing.T) {
	tb := newTestBot(t)
	tb.llm.err = errors.New("groq down")

	tb.runFlow(t, 42, "Balanceada (Splitter)", "28", "Negativo (-)", "CTO", "sem sinal")

	if got := tb.tp.lastMessage(t).text; got != llm.FallbackDiagnosis {
		t.Errorf("last message = %q, want the fallback diagnosis", got)
	}
	if _, ok := tb.sessions.Get(42); ok {
		t.Error("session should still complete and be removed")
	}
}

func TestTTSFailureSkipsVoiceReply(t *testing.T) {
	tb := newTestBot(t)
	tb.tts.err = errors.New("edge down")
	tb.runFlow(t, 42, "Balanceada (Splitter)", "28", "Negativo (-)", "CTO")

	if err := tb.bot.handleVoice(context.Background(), voiceMsg(42)); err != nil {
		t.Fatal(err)
	}

	if got := tb.tp.lastMessage(t).text; got != tb.llm.diagnosis {
		t.Errorf("text diagnosis = %q should be delivered regardless", got)
	}
	if len(tb.tp.voicePaths) != 0 {
		t.Error("no voice message should be sent when synthesis fails")
	}
	assertTmpDirEmpty(t, tb.tmpDir)
}

func TestCancelClearsSession(t *testing.T) {
	tb := newTestBot(t)
	tb.runFlow(t, 42, "Balanceada (Splitter)", "28")

	if err := tb.bot.handleCancel(context.Background(), 42); err != nil {
		t.Fatal(err)
	}

	if _, ok := tb.sessions.Get(42); ok {
		t.Error("cancelled session should be removed")
	}
	if got := tb.tp.lastMessage(t).text; got != session.MsgCancelled {
		t.Errorf("last message = %q, want the cancellation acknowledgement", got)
	}
	if len(tb.llm.dossiers) != 0 {
		t.Error("cancellation must not contact any adapter")
	}
}

func TestTextWithoutSessionHints(t *testing.T) {
	tb := newTestBot(t)

	if err := tb.bot.handleText(context.Background(), textMsg(42, "olá")); err != nil {
		t.Fatal(err)
	}

	if got := tb.tp.lastMessage(t).text; got != session.MsgNoActiveSession {
		t.Errorf("last message = %q, want the start hint", got)
	}
}

func TestSecondRunStartsClean(t *testing.T) {
	tb := newTestBot(t)
	tb.runFlow(t, 42, "Balanceada (Splitter)", "28", "Negativo (-)", "CTO", "primeiro problema")

	if err := tb.bot.handleSessionStart(context.Background(), 42); err != nil {
		t.Fatal(err)
	}

	s, ok := tb.sessions.Get(42)
	if !ok {
		t.Fatal("second session missing")
	}
	if s.Fields != (session.Fields{}) {
		t.Errorf("second session leaked fields: %+v", s.Fields)
	}
	if s.State != session.StateTopology {
		t.Errorf("second session state = %s, want %s", s.State, session.StateTopology)
	}
}

func TestGreeting(t *testing.T) {
	tb := newTestBot(t)

	msg := textMsg(42, "/start")
	msg.From = &telegram.User{ID: 1, FirstName: "Rafael"}
	if err := tb.bot.handleStart(context.Background(), msg); err != nil {
		t.Fatal(err)
	}

	got := tb.tp.lastMessage(t)
	if !strings.Contains(got.text, "Rafael") {
		t.Errorf("greeting should address the technician: %q", got.text)
	}
	if !strings.Contains(got.text, "/diagnostico") {
		t.Errorf("greeting should point at the start command: %q", got.text)
	}
}

func TestDispatchRecoversPanic(t *testing.T) {
	tb := newTestBot(t)
	tb.bot.sessions = nil // force a nil-pointer panic inside the handler

	defer func() {
		if r := recover(); r != nil {
			t.Errorf("dispatch let a panic escape: %v", r)
		}
	}()
	tb.bot.dispatch(context.Background(), textMsg(42, "/diagnostico"))
}

func TestTypingActionBeforeDiagnosis(t *testing.T) {
	tb := newTestBot(t)
	tb.runFlow(t, 42, "Balanceada (Splitter)", "28", "Negativo (-)", "CTO", "sem sinal")

	found := false
	for _, a := range tb.tp.actions {
		if a == telegram.ActionTyping {
			found = true
		}
	}
	if !found {
		t.Errorf("actions = %v, want a typing indicator before the slow call", tb.tp.actions)
	}
}
