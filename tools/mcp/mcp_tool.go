// Package mcp connects the assistant to tool-processes: subprocesses
// that expose capabilities such as feed fetching and audio transcription
// over the MCP stdio transport.
package mcp

import (
	"context"
	"os"
	"os/exec"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/podsage/podsage/errors"
	"github.com/rs/zerolog/log"
)

// MCPClient manages the connection to a single tool-process for the
// lifetime of an interactive session.
type MCPClient struct {
	Name  string
	cmd   *exec.Cmd
	conn  *mcpsdk.ClientSession
	tools map[string]*MCPTool
}

// NewMCPClient starts the tool-process and discovers the tools it
// provides. extraEnv entries (KEY=VALUE) are appended to the child's
// environment; this is how the API credential reaches the transcriber.
func NewMCPClient(name, command string, args, extraEnv []string) (*MCPClient, error) {
	cmd := exec.Command(command, args...)
	cmd.Env = append(os.Environ(), extraEnv...)
	cmd.Stderr = os.Stderr

	mcpClient := mcpsdk.NewClient(&mcpsdk.Implementation{Name: "podsage", Version: "v1.0.0"}, nil)
	ctx := context.Background()
	conn, err := mcpClient.Connect(ctx, mcpsdk.NewCommandTransport(cmd))
	if err != nil {
		cmd.Process.Kill()
		return nil, errors.Wrapf(err, "failed to connect to tool server '%s'", name)
	}

	client := &MCPClient{
		Name:  name,
		cmd:   cmd,
		conn:  conn,
		tools: make(map[string]*MCPTool),
	}

	toolListParams := &mcpsdk.ListToolsParams{}
	for {
		toolList, err := conn.ListTools(ctx, toolListParams)
		if err != nil {
			cmd.Process.Kill()
			return nil, errors.Wrapf(err, "failed to list tools from tool server '%s'", name)
		}

		for _, t := range toolList.Tools {
			client.tools[t.Name] = &MCPTool{
				serverName:  name,
				toolName:    t.Name,
				description: t.Description,
				client:      client,
			}
		}

		if toolList.NextCursor == "" {
			break
		}
		toolListParams.Cursor = toolList.NextCursor
	}

	log.Info().Str("server", name).Int("tools", len(client.tools)).Msg("tool server started")
	return client, nil
}

// GetTool returns a specific tool provided by this tool-process by its
// short name.
func (c *MCPClient) GetTool(toolName string) (*MCPTool, bool) {
	tool, ok := c.tools[toolName]
	return tool, ok
}

// Tools returns every tool discovered from this tool-process.
func (c *MCPClient) Tools() []*MCPTool {
	ts := make([]*MCPTool, 0, len(c.tools))
	for _, t := range c.tools {
		ts = append(ts, t)
	}
	return ts
}

// Stop terminates the tool-process.
func (c *MCPClient) Stop() error {
	if c.conn != nil {
		c.conn.Close()
	}
	if c.cmd != nil && c.cmd.Process != nil {
		log.Info().Str("server", c.Name).Msg("terminating tool server")
		return c.cmd.Process.Kill()
	}
	return nil
}

// MCPTool is one capability exposed by a tool-process. It satisfies the
// tools.Tool interface from the parent package.
type MCPTool struct {
	serverName  string
	toolName    string
	description string
	client      *MCPClient
}

// Name returns the tool's short name as advertised by the server. The
// server prefix is dropped because some model providers reject
// separator characters in tool names.
func (t *MCPTool) Name() string {
	return t.toolName
}

// Description returns the tool's description, provided by the server.
func (t *MCPTool) Description() string {
	return t.description
}

// Execute forwards the call to the tool-process and concatenates the
// text content of the result.
func (t *MCPTool) Execute(ctx context.Context, args map[string]interface{}) (string, error) {
	result, err := t.client.conn.CallTool(ctx, &mcpsdk.CallToolParams{
		Name:      t.toolName,
		Arguments: args,
	})
	if err != nil {
		return "", errors.Wrapf(err, "failed to call tool '%s' on server '%s'", t.toolName, t.serverName)
	}
	op := ""
	for _, c := range result.Content {
		if text, ok := c.(*mcpsdk.TextContent); ok {
			op += text.Text
		}
	}
	return op, nil
}
