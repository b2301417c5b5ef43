package stt

import "context"

// Client defines the interface for speech-to-text providers.
type Client interface {
	// Transcribe uploads a local audio clip and returns the recognized text.
	// Callers are expected to degrade gracefully on error; a failed
	// transcription never aborts the surrounding flow.
	Transcribe(ctx context.Context, path string) (string, error)
}
