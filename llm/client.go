// Package llm abstracts the model providers behind a single Chat
// interface. Instructions travel as a leading "system" message; tool
// requests come back as ToolCalls on the assistant message.
package llm

import (
	"context"
	"fmt"

	"github.com/podsage/podsage/session"
	"github.com/podsage/podsage/tools"
)

// LLMClient is the interface for interacting with a Large Language Model.
type LLMClient interface {
	Chat(ctx context.Context, messages []session.Message, availableTools []tools.Tool) (*session.Message, error)
}

// MockLLMClient is a placeholder used when no provider is configured
// and in tests. It parrots the last user message and never calls tools.
type MockLLMClient struct{}

func (m *MockLLMClient) Chat(ctx context.Context, messages []session.Message, availableTools []tools.Tool) (*session.Message, error) {
	lastUserMessage := ""
	if len(messages) > 0 {
		lastUserMessage = messages[len(messages)-1].Content
	}
	return &session.Message{
		Role:    "assistant",
		Content: fmt.Sprintf("I am a mock LLM. You said: '%s'. I cannot browse podcast feeds.", lastUserMessage),
	}, nil
}
