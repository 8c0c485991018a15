package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/podsage/podsage/config"
	"github.com/podsage/podsage/llm"
)

func TestDefaultSessionName(t *testing.T) {
	name := defaultSessionName()
	if name == "" {
		t.Fatal("Expected a non-empty session name")
	}
	if !strings.Contains(name, "_") {
		t.Errorf("Expected a directory_timestamp name, got %q", name)
	}
}

func TestCheckPreconditionsMissingCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := &config.Config{}
	cfg.ApplyDefaults()

	err := checkPreconditions(cfg)
	if err == nil {
		t.Fatal("Expected a startup error without OPENAI_API_KEY")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Expected the credential named in the error, got: %v", err)
	}
}

func TestCheckPreconditionsMissingRuntime(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg := &config.Config{
		MCPServers: []config.MCPServer{{
			Name:    "transcriber",
			Command: "podsage-no-such-runtime",
		}},
	}

	err := checkPreconditions(cfg)
	if err == nil {
		t.Fatal("Expected a startup error when the tool server runtime is not on PATH")
	}
	if !strings.Contains(err.Error(), "podsage-no-such-runtime") {
		t.Errorf("Expected the missing command named in the error, got: %v", err)
	}
	if !strings.Contains(err.Error(), "transcriber") {
		t.Errorf("Expected the tool server named in the error, got: %v", err)
	}
}

func TestCheckPreconditionsPass(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	// A stand-in runtime on PATH is all the check needs; it is never run.
	dir := t.TempDir()
	runtimePath := filepath.Join(dir, "fake-node")
	if err := os.WriteFile(runtimePath, []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatalf("Failed to write stand-in runtime: %v", err)
	}
	t.Setenv("PATH", dir)

	cfg := &config.Config{
		MCPServers: []config.MCPServer{{
			Name:    "transcriber",
			Command: "fake-node",
		}},
	}

	if err := checkPreconditions(cfg); err != nil {
		t.Fatalf("Expected preconditions to pass, got: %v", err)
	}
}

func TestNewLLMClientMock(t *testing.T) {
	cfg := &config.Config{LLMClient: "mock"}
	client, err := newLLMClient(context.Background(), cfg)
	if err != nil {
		t.Fatalf("newLLMClient failed: %v", err)
	}
	if _, ok := client.(*llm.MockLLMClient); !ok {
		t.Errorf("Expected a MockLLMClient, got %T", client)
	}
}

func TestNewLLMClientUnknownProvider(t *testing.T) {
	cfg := &config.Config{LLMClient: "watson"}
	if _, err := newLLMClient(context.Background(), cfg); err == nil {
		t.Fatal("Expected an error for an unknown provider")
	}
}

func TestNewLLMClientOpenAIRequiresCredential(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg := &config.Config{LLMClient: "openai", Model: "gpt-4o"}
	_, err := newLLMClient(context.Background(), cfg)
	if err == nil {
		t.Fatal("Expected an error without OPENAI_API_KEY")
	}
	if !strings.Contains(err.Error(), "OPENAI_API_KEY") {
		t.Errorf("Expected the credential named in the error, got: %v", err)
	}
}
