package tools

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/podsage/podsage/config"
	"github.com/podsage/podsage/tools/mcp"
)

func newLocalRegistry(cfg *config.Config) *ToolRegistry {
	r := &ToolRegistry{
		tools:      make(map[string]Tool),
		mcpClients: make(map[string]*mcp.MCPClient),
	}
	r.Register(&ReadFileTool{fsAccess: &cfg.FilesystemAccess})
	r.Register(&WriteFileTool{fsAccess: &cfg.FilesystemAccess})
	return r
}

func TestGetActiveToolsResolvesBuiltins(t *testing.T) {
	cfg := &config.Config{}
	registry := newLocalRegistry(cfg)

	ts := &config.Toolset{Name: "default", Tools: []string{"read_file", "write_file"}}
	active, err := registry.GetActiveTools(ts)
	if err != nil {
		t.Fatalf("GetActiveTools failed: %v", err)
	}
	if len(active) != 2 {
		t.Fatalf("Expected 2 tools, got %d", len(active))
	}
	if active[0].Name() != "read_file" || active[1].Name() != "write_file" {
		t.Errorf("Unexpected tool order: %s, %s", active[0].Name(), active[1].Name())
	}
}

func TestGetActiveToolsUnknownBuiltin(t *testing.T) {
	registry := newLocalRegistry(&config.Config{})

	ts := &config.Toolset{Name: "default", Tools: []string{"no_such_tool"}}
	if _, err := registry.GetActiveTools(ts); err == nil {
		t.Fatal("Expected an error for an unregistered tool")
	}
}

func TestGetActiveToolsUnknownServer(t *testing.T) {
	registry := newLocalRegistry(&config.Config{})

	// "transcriber.*" requires a running tool server by that name.
	ts := &config.Toolset{Name: "default", Tools: []string{"transcriber.*"}}
	_, err := registry.GetActiveTools(ts)
	if err == nil {
		t.Fatal("Expected an error for an unknown tool server")
	}
	if !strings.Contains(err.Error(), "transcriber") {
		t.Errorf("Expected the server name in the error, got: %v", err)
	}
}

func TestNewToolRegistryWithoutServers(t *testing.T) {
	cfg := &config.Config{} // no MCP servers: nothing to launch
	registry, err := NewToolRegistry(cfg)
	if err != nil {
		t.Fatalf("NewToolRegistry failed: %v", err)
	}
	defer registry.Close()

	if _, ok := registry.GetTool("read_file"); !ok {
		t.Error("Expected read_file to be registered")
	}
	if _, ok := registry.GetTool("write_file"); !ok {
		t.Error("Expected write_file to be registered")
	}
}

func TestReadFileToolRespectsHiddenPaths(t *testing.T) {
	dir := t.TempDir()
	secret := filepath.Join(dir, "secret.txt")
	if err := os.WriteFile(secret, []byte("hidden"), 0644); err != nil {
		t.Fatalf("Failed to write test file: %v", err)
	}

	tool := &ReadFileTool{fsAccess: &config.FilesystemAccess{
		Hidden: []string{filepath.Join(dir, "*.txt")},
	}}

	_, err := tool.Execute(context.Background(), map[string]interface{}{"path": secret})
	if err == nil {
		t.Fatal("Expected access to a hidden path to be denied")
	}
	if !strings.Contains(err.Error(), "hidden") {
		t.Errorf("Expected a hidden-path error, got: %v", err)
	}
}

func TestWriteFileToolRespectsReadOnlyPaths(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "notes.md")

	tool := &WriteFileTool{fsAccess: &config.FilesystemAccess{
		ReadOnly: []string{filepath.Join(dir, "**")},
	}}

	_, err := tool.Execute(context.Background(), map[string]interface{}{
		"path":    target,
		"content": "transcript",
	})
	if err == nil {
		t.Fatal("Expected writes to a read-only path to be denied")
	}
}

func TestWriteThenReadFile(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "summary.md")
	fsAccess := &config.FilesystemAccess{}

	write := &WriteFileTool{fsAccess: fsAccess}
	if _, err := write.Execute(context.Background(), map[string]interface{}{
		"path":    target,
		"content": "Episode 3 covers cooking.",
	}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	read := &ReadFileTool{fsAccess: fsAccess}
	content, err := read.Execute(context.Background(), map[string]interface{}{"path": target})
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if content != "Episode 3 covers cooking." {
		t.Errorf("Unexpected content: %q", content)
	}
}

func TestReadFileToolValidatesArgs(t *testing.T) {
	tool := &ReadFileTool{fsAccess: &config.FilesystemAccess{}}
	if _, err := tool.Execute(context.Background(), map[string]interface{}{}); err == nil {
		t.Fatal("Expected an error for a missing path argument")
	}
}

func TestForwardedEnv(t *testing.T) {
	t.Setenv("PODSAGE_TEST_KEY", "sk-123")

	env := forwardedEnv([]string{"PODSAGE_TEST_KEY", "PODSAGE_TEST_UNSET"})
	if len(env) != 2 {
		t.Fatalf("Expected 2 entries, got %v", env)
	}
	if env[0] != "PODSAGE_TEST_KEY=sk-123" {
		t.Errorf("Expected the value forwarded, got %q", env[0])
	}
	if env[1] != "PODSAGE_TEST_UNSET=" {
		t.Errorf("Expected unset variables forwarded empty, got %q", env[1])
	}
}

func TestIsPathRestricted(t *testing.T) {
	restricted, err := isPathRestricted(".podsage/sessions/a.json", []string{".podsage", ".podsage/**"})
	if err != nil {
		t.Fatalf("isPathRestricted failed: %v", err)
	}
	if !restricted {
		t.Error("Expected the state directory to be restricted")
	}

	restricted, err = isPathRestricted("notes.md", []string{".podsage", ".podsage/**"})
	if err != nil {
		t.Fatalf("isPathRestricted failed: %v", err)
	}
	if restricted {
		t.Error("Expected an unrelated path to be allowed")
	}
}
