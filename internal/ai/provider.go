package ai

import "context"

type Message struct {
	Role    string
	Content string
	// Images holds data URLs (image/jpeg;base64,...) attached to the message.
	// Providers that cannot handle images ignore them.
	Images []string
}

type Provider interface {
	Chat(ctx context.Context, messages []Message) (string, error)
}
