// Package session holds the per-run conversation state: the loaded
// feed, the podcast title extracted from model output, and the message
// history exchanged with the model.
package session

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// ToolCall records a tool invocation requested by the model.
type ToolCall struct {
	ToolCallID string                 `json:"tool_call_id"`
	Name       string                 `json:"name"`
	Args       map[string]interface{} `json:"args,omitempty"`
}

// Message is one turn in the conversation. Role is "system", "user",
// "assistant", or "tool". A "tool" message carries exactly one ToolCall
// identifying the call it answers.
type Message struct {
	Role      string     `json:"role"`
	Content   string     `json:"content"`
	ToolCalls []ToolCall `json:"tool_calls,omitempty"`
}

type Session struct {
	Name         string    `json:"name"`
	FeedURL      string    `json:"feed_url,omitempty"`
	PodcastTitle string    `json:"podcast_title,omitempty"`
	Messages     []Message `json:"messages"`
	path         string
}

// New creates a new session.
func New(name string) (*Session, error) {
	path, err := sessionPath(name)
	if err != nil {
		return nil, err
	}
	return &Session{
		Name:     name,
		Messages: []Message{},
		path:     path,
	}, nil
}

// Load loads an existing session from disk.
func Load(name string) (*Session, error) {
	path, err := sessionPath(name)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("could not read session file %s: %w", path, err)
	}

	var s Session
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("could not parse session file %s: %w", path, err)
	}
	s.path = path
	return &s, nil
}

// Save writes the current session state to disk.
func (s *Session) Save() error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize session: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}

// AddMessage appends a message to the session history.
func (s *Session) AddMessage(msg Message) {
	s.Messages = append(s.Messages, msg)
}

// SetFeed records the currently loaded feed. The title is best-effort
// and may be empty.
func (s *Session) SetFeed(feedURL, podcastTitle string) {
	s.FeedURL = feedURL
	s.PodcastTitle = podcastTitle
}

func sessionPath(name string) (string, error) {
	sessionDir := filepath.Join(".podsage", "sessions")
	if err := os.MkdirAll(sessionDir, 0755); err != nil {
		return "", fmt.Errorf("could not create session directory: %w", err)
	}
	return filepath.Join(sessionDir, fmt.Sprintf("%s.json", name)), nil
}
