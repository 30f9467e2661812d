package ai

import "context"

// Generator is the text-in/text-out LLM service every agent talks to. It
// accepts a rendered prompt and returns a free-text completion.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
	Model() string
}
