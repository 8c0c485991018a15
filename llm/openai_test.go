package llm

import (
	"io"
	"math"
	"os"
	"testing"

	"github.com/podsage/podsage/session"
)

// captureStdout runs fn with os.Stdout swapped for a pipe and returns
// everything fn wrote to it. Diagnostics must never land on stdout,
// which carries the conversation output.
func captureStdout(t *testing.T, fn func()) string {
	t.Helper()

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("Failed to create pipe: %v", err)
	}
	orig := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = orig }()

	fn()

	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close pipe writer: %v", err)
	}
	out, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("Failed to read captured output: %v", err)
	}
	return string(out)
}

func TestConvertMessagesSkipsMalformedToolMessage(t *testing.T) {
	messages := []session.Message{
		{Role: "system", Content: "You are a podcast assistant."},
		{Role: "tool", Content: "orphaned result"},
		{Role: "user", Content: "Summarize episode 3"},
	}

	var converted int
	stdout := captureStdout(t, func() {
		converted = len(convertMessagesToOpenAIContent(messages))
	})

	if converted != 2 {
		t.Errorf("Expected the tool message without a call ID to be skipped, got %d messages", converted)
	}
	if stdout != "" {
		t.Errorf("Expected nothing on stdout, got %q", stdout)
	}
}

func TestConvertMessagesDropsUnmarshalableToolCall(t *testing.T) {
	messages := []session.Message{
		{
			Role: "assistant",
			ToolCalls: []session.ToolCall{{
				ToolCallID: "call_1",
				Name:       "transcribe_audio",
				Args:       map[string]any{"chunk": math.Inf(1)},
			}},
		},
	}

	stdout := captureStdout(t, func() {
		converted := convertMessagesToOpenAIContent(messages)
		if len(converted) != 1 {
			t.Errorf("Expected the assistant message to survive, got %d messages", len(converted))
			return
		}
		assistant := converted[0].OfAssistant
		if assistant == nil {
			t.Fatal("Expected an assistant message param")
		}
		if len(assistant.ToolCalls) != 0 {
			t.Errorf("Expected the unmarshalable tool call to be dropped, got %d", len(assistant.ToolCalls))
		}
	})

	if stdout != "" {
		t.Errorf("Expected nothing on stdout, got %q", stdout)
	}
}
