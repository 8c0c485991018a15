package llm

import (
	"context"
	"testing"

	"github.com/podsage/podsage/session"
	"github.com/podsage/podsage/tools"
)

// MockTool is a simple mock tool for testing
type MockTool struct {
	name        string
	description string
}

func (m *MockTool) Name() string {
	return m.name
}

func (m *MockTool) Description() string {
	return m.description
}

func (m *MockTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	return "mock result", nil
}

func TestConvertMessagesToAnthropicFormat(t *testing.T) {
	// Test user message
	messages := []session.Message{
		{
			Role:    "user",
			Content: "feed https://x/rss",
		},
	}

	result, _ := convertMessagesToAnthropicFormat(messages)
	if len(result) != 1 {
		t.Errorf("Expected 1 message, got %d", len(result))
	}
	if result[0]["role"] != "user" {
		t.Errorf("Expected role 'user', got '%s'", result[0]["role"])
	}

	// Test assistant message with content
	messages = []session.Message{
		{
			Role:    "assistant",
			Content: "Here are the 10 most recent episodes.",
		},
	}

	result, _ = convertMessagesToAnthropicFormat(messages)
	if len(result) != 1 {
		t.Errorf("Expected 1 message, got %d", len(result))
	}
	if result[0]["role"] != "assistant" {
		t.Errorf("Expected role 'assistant', got '%s'", result[0]["role"])
	}

	// Test assistant message with tool calls
	messages = []session.Message{
		{
			Role: "assistant",
			ToolCalls: []session.ToolCall{
				{
					ToolCallID: "call_1",
					Name:       "fetch_feed",
					Args: map[string]interface{}{
						"url": "https://x/rss",
					},
				},
			},
		},
	}

	result, _ = convertMessagesToAnthropicFormat(messages)
	if len(result) != 1 {
		t.Errorf("Expected 1 message, got %d", len(result))
	}

	// Test tool response message
	messages = []session.Message{
		{
			Role:    "tool",
			Content: "feed contents",
			ToolCalls: []session.ToolCall{
				{
					ToolCallID: "call_1",
					Name:       "fetch_feed",
				},
			},
		},
	}

	result, _ = convertMessagesToAnthropicFormat(messages)
	if len(result) != 1 {
		t.Errorf("Expected 1 message, got %d", len(result))
	}
	if result[0]["role"] != "user" {
		t.Errorf("Expected role 'user', got '%s'", result[0]["role"])
	}
}

func TestConvertMessagesExtractsSystemPrompt(t *testing.T) {
	messages := []session.Message{
		{Role: "system", Content: "You are a helpful podcast assistant"},
		{Role: "user", Content: "find sports"},
	}

	result, systemPrompt := convertMessagesToAnthropicFormat(messages)
	if systemPrompt != "You are a helpful podcast assistant" {
		t.Errorf("Expected the system prompt extracted, got %q", systemPrompt)
	}
	if len(result) != 1 {
		t.Errorf("Expected the system message lifted out of the history, got %d messages", len(result))
	}
}

func TestCreateAnthropicRequest(t *testing.T) {
	messages := []map[string]interface{}{
		{
			"role": "user",
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": "find sports",
				},
			},
		},
	}

	// Test with no tools
	body, err := createAnthropicRequest(messages, "", nil)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if len(body) == 0 {
		t.Error("Expected non-empty request body")
	}

	// Test with tools
	toolList := []tools.Tool{
		&MockTool{
			name:        "transcribe_audio",
			description: "Transcribes a podcast episode",
		},
	}

	body, err = createAnthropicRequest(messages, "You are a helpful podcast assistant", toolList)
	if err != nil {
		t.Errorf("Unexpected error: %v", err)
	}
	if len(body) == 0 {
		t.Error("Expected non-empty request body")
	}
}

func TestProcessBedrockResponse(t *testing.T) {
	body := []byte(`{
		"content": [
			{"type": "text", "text": "Fetching the feed now."},
			{"type": "tool_use", "id": "toolu_1", "name": "fetch_feed", "input": {"url": "https://x/rss"}}
		]
	}`)

	msg, err := processBedrockResponse(body)
	if err != nil {
		t.Fatalf("processBedrockResponse failed: %v", err)
	}
	if msg.Content != "Fetching the feed now." {
		t.Errorf("Expected the text content, got %q", msg.Content)
	}
	if len(msg.ToolCalls) != 1 {
		t.Fatalf("Expected 1 tool call, got %d", len(msg.ToolCalls))
	}
	if msg.ToolCalls[0].ToolCallID != "toolu_1" || msg.ToolCalls[0].Name != "fetch_feed" {
		t.Errorf("Unexpected tool call: %+v", msg.ToolCalls[0])
	}
}

func TestProcessBedrockResponseError(t *testing.T) {
	body := []byte(`{"error": "model not available"}`)
	if _, err := processBedrockResponse(body); err == nil {
		t.Fatal("Expected an error from the error response")
	}
}

func TestMockLLMClientNeverCallsTools(t *testing.T) {
	client := &MockLLMClient{}
	msg, err := client.Chat(context.Background(), []session.Message{
		{Role: "user", Content: "find sports"},
	}, nil)
	if err != nil {
		t.Fatalf("Chat failed: %v", err)
	}
	if msg.Role != "assistant" || len(msg.ToolCalls) != 0 {
		t.Errorf("Expected a plain assistant message, got %+v", msg)
	}
}
