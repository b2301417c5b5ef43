package tts

import "context"

// Client defines the interface for text-to-speech providers.
type Client interface {
	// Synthesize converts text to speech and returns the audio data.
	// The returned audio is in the format specified by the provider config.
	Synthesize(ctx context.Context, text string) ([]byte, error)
}
