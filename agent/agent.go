package agent

import (
	"context"
	"fmt"

	"github.com/podsage/podsage/config"
	"github.com/podsage/podsage/errors"
	"github.com/podsage/podsage/llm"
	"github.com/podsage/podsage/session"
	"github.com/podsage/podsage/tools"
	"github.com/rs/zerolog/log"
)

// Agent runs one conversational turn at a time: it sends the current
// instructions, history, and tool schemas to the model, executes any
// tool calls the model requests, and returns the final text once the
// model stops calling tools.
type Agent struct {
	Config         *config.Config
	Session        *session.Session
	LLMClient      llm.LLMClient
	AvailableTools []tools.Tool
	Instructions   string
	MaxTurns       int
}

// New creates an agent over the given toolset. Instructions start from
// whatever feed the session already carries, so resumed sessions keep
// their feed context.
func New(cfg *config.Config, sess *session.Session, toolset string, registry *tools.ToolRegistry, client llm.LLMClient) (*Agent, error) {
	ts, err := cfg.GetToolset(toolset)
	if err != nil {
		return nil, err
	}

	activeTools, err := registry.GetActiveTools(ts)
	if err != nil {
		return nil, err
	}

	maxTurns := cfg.MaxTurns
	if maxTurns <= 0 {
		maxTurns = 20
	}

	return &Agent{
		Config:         cfg,
		Session:        sess,
		LLMClient:      client,
		AvailableTools: activeTools,
		Instructions:   BuildInstructions(sess.FeedURL, sess.PodcastTitle),
		MaxTurns:       maxTurns,
	}, nil
}

// SetFeed records the loaded feed on the session and regenerates the
// instructions so every later turn carries the feed context.
func (a *Agent) SetFeed(feedURL, podcastTitle string) {
	a.Session.SetFeed(feedURL, podcastTitle)
	a.Instructions = BuildInstructions(feedURL, podcastTitle)
}

// Run processes a single user input to completion. The model may call
// tools any number of times (bounded by MaxTurns) before producing the
// final text.
func (a *Agent) Run(ctx context.Context, input string) (string, error) {
	a.Session.AddMessage(session.Message{Role: "user", Content: input})

	finalText := ""
	for turn := 0; turn < a.MaxTurns; turn++ {
		messages := make([]session.Message, 0, len(a.Session.Messages)+1)
		messages = append(messages, session.Message{Role: "system", Content: a.Instructions})
		messages = append(messages, a.Session.Messages...)

		response, err := a.LLMClient.Chat(ctx, messages, a.AvailableTools)
		if err != nil {
			return "", errors.Wrapf(err, "LLM chat failed")
		}
		a.Session.AddMessage(*response)

		if response.Content != "" {
			finalText = response.Content
		}

		if len(response.ToolCalls) == 0 {
			a.saveSession()
			return finalText, nil
		}

		for _, toolCall := range response.ToolCalls {
			log.Debug().Str("tool", toolCall.Name).Msg("executing tool call")
			result, err := a.executeTool(ctx, toolCall)
			if err != nil {
				// Report the failure back to the model instead of
				// aborting the turn; it can recover or explain.
				result = fmt.Sprintf("Error: %v", err)
				log.Warn().Str("tool", toolCall.Name).Err(err).Msg("tool call failed")
			}
			a.Session.AddMessage(session.Message{
				Role:      "tool",
				Content:   result,
				ToolCalls: []session.ToolCall{toolCall},
			})
		}
	}

	a.saveSession()
	if finalText == "" {
		return "", errors.New("reached the %d-turn limit without a final answer", a.MaxTurns)
	}
	return finalText, nil
}

func (a *Agent) executeTool(ctx context.Context, toolCall session.ToolCall) (string, error) {
	for _, t := range a.AvailableTools {
		if t.Name() == toolCall.Name {
			return t.Execute(ctx, toolCall.Args)
		}
	}
	return "", errors.New("model requested unavailable tool '%s'", toolCall.Name)
}

func (a *Agent) saveSession() {
	if err := a.Session.Save(); err != nil {
		log.Warn().Err(err).Msg("failed to save session")
	}
}
