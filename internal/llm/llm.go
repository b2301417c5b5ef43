package llm

import "context"

// FallbackDiagnosis is the user-safe reply used when the completion service
// fails. The session always delivers some response.
const FallbackDiagnosis = "⚠️ Erro no sistema de inteligência. Tente novamente em instantes."

// Client defines the interface for chat-completion providers.
type Client interface {
	// Diagnose sends the assembled dossier as a single user turn and returns
	// the diagnosis text. No conversation history is retained across calls.
	Diagnose(ctx context.Context, dossier string) (string, error)
}
