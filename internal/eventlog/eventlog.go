package eventlog

import (
	"encoding/json"
	"log"
)

// EventType represents the type of session event
type EventType string

const (
	EventSessionStarted      EventType = "session_started"
	EventFieldCollected      EventType = "field_collected"
	EventValidationFailed    EventType = "validation_failed"
	EventTranscriptionFailed EventType = "transcription_failed"
	EventLLMCompleted        EventType = "llm_completed"
	EventLLMFailed           EventType = "llm_failed"
	EventTTSFailed           EventType = "tts_failed"
	EventSessionCancelled    EventType = "session_cancelled"
	EventSessionCompleted    EventType = "session_completed"
)

// Logger records session lifecycle events through the process logger.
// Nothing is persisted: a session leaves no trace beyond its own lifetime.
type Logger struct {
	logger *log.Logger
}

// New creates a new event logger
func New(logger *log.Logger) *Logger {
	return &Logger{logger: logger}
}

// Log writes one event for a chat, with optional structured data.
func (l *Logger) Log(chatID int64, eventType EventType, data map[string]any) {
	if l.logger == nil {
		return
	}
	if len(data) == 0 {
		l.logger.Printf("event chat=%d type=%s", chatID, eventType)
		return
	}
	dataJSON, err := json.Marshal(data)
	if err != nil {
		dataJSON = []byte("{}")
	}
	l.logger.Printf("event chat=%d type=%s data=%s", chatID, eventType, dataJSON)
}
