package tools

import (
	"context"
	"os"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/podsage/podsage/config"
	"github.com/podsage/podsage/errors"
	"github.com/podsage/podsage/tools/mcp"
)

// Tool defines the interface for any action the agent can take.
type Tool interface {
	Name() string
	Description() string
	Execute(ctx context.Context, args map[string]interface{}) (string, error)
}

// ToolRegistry holds all available tools: the built-in file tools plus
// every tool discovered from the configured tool-processes.
type ToolRegistry struct {
	tools      map[string]Tool
	mcpClients map[string]*mcp.MCPClient
}

// NewToolRegistry builds the registry and launches the configured
// tool-processes. Call Close to terminate them.
func NewToolRegistry(cfg *config.Config) (*ToolRegistry, error) {
	r := &ToolRegistry{
		tools:      make(map[string]Tool),
		mcpClients: make(map[string]*mcp.MCPClient),
	}

	r.Register(&ReadFileTool{fsAccess: &cfg.FilesystemAccess})
	r.Register(&WriteFileTool{fsAccess: &cfg.FilesystemAccess})

	for _, server := range cfg.MCPServers {
		client, err := mcp.NewMCPClient(server.Name, server.Command, server.Args, forwardedEnv(server.PassEnv))
		if err != nil {
			r.Close()
			return nil, errors.Wrapf(err, "failed to start tool server '%s'", server.Name)
		}
		r.mcpClients[server.Name] = client
	}

	return r, nil
}

func (r *ToolRegistry) Register(t Tool) {
	r.tools[t.Name()] = t
}

func (r *ToolRegistry) GetTool(name string) (Tool, bool) {
	t, ok := r.tools[name]
	return t, ok
}

// GetActiveTools resolves a toolset into tool instances. Entries of the
// form "<server>.<tool>" select a single tool from a tool-process and
// "<server>.*" selects all of its tools; bare names select built-ins.
func (r *ToolRegistry) GetActiveTools(ts *config.Toolset) ([]Tool, error) {
	var activeTools []Tool
	for _, toolName := range ts.Tools {
		if server, rest, ok := strings.Cut(toolName, "."); ok {
			client, found := r.mcpClients[server]
			if !found {
				return nil, errors.New("toolset '%s' references unknown tool server '%s'", ts.Name, server)
			}
			if rest == "*" {
				for _, t := range client.Tools() {
					activeTools = append(activeTools, t)
				}
				continue
			}
			t, found := client.GetTool(rest)
			if !found {
				return nil, errors.New("tool server '%s' does not provide tool '%s'", server, rest)
			}
			activeTools = append(activeTools, t)
			continue
		}

		t, ok := r.GetTool(toolName)
		if !ok {
			return nil, errors.New("tool '%s' from toolset '%s' is not registered", toolName, ts.Name)
		}
		activeTools = append(activeTools, t)
	}
	return activeTools, nil
}

// Close terminates all tool-process subprocesses. Safe to call more
// than once.
func (r *ToolRegistry) Close() {
	for name, client := range r.mcpClients {
		client.Stop()
		delete(r.mcpClients, name)
	}
}

// forwardedEnv resolves the named variables from this process's
// environment into KEY=VALUE pairs for a child process. Unset
// variables are forwarded empty so the child sees a defined key.
func forwardedEnv(names []string) []string {
	env := make([]string, 0, len(names))
	for _, name := range names {
		env = append(env, name+"="+os.Getenv(name))
	}
	return env
}

// isPathRestricted checks if a path matches any of the glob patterns.
func isPathRestricted(path string, patterns []string) (bool, error) {
	for _, pattern := range patterns {
		match, err := doublestar.PathMatch(pattern, path)
		if err != nil {
			return false, errors.New("invalid glob pattern '%s': %v", pattern, err)
		}
		if match {
			return true, nil
		}
	}
	return false, nil
}
