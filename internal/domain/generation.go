package domain

import "context"

// Message roles accepted by the generation provider.
const (
	RoleSystem = "system"
	RoleUser   = "user"
)

// Message is a single chat message sent to the generation provider.
type Message struct {
	Role    string
	Content string
}

// Generator is the text-generation contract. One call, no streaming.
type Generator interface {
	Generate(ctx context.Context, messages []Message) (string, error)
}
