package service

import "context"

// AIService is the single-turn text-generation capability this module
// consumes. No conversation state is retained between calls.
type AIService interface {
	Chat(ctx context.Context, systemPrompt, userMessage string) (string, error)
}
