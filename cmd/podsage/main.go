package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
	"github.com/podsage/podsage/agent"
	"github.com/podsage/podsage/assistant"
	"github.com/podsage/podsage/assistant/terminal"
	"github.com/podsage/podsage/config"
	"github.com/podsage/podsage/errors"
	"github.com/podsage/podsage/llm"
	"github.com/podsage/podsage/session"
	"github.com/podsage/podsage/tools"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// The tool-process must be torn down on every exit path, so all the
	// deferred cleanup lives in run.
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %+v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Diagnostics go to stderr; stdout is reserved for the conversation.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})

	_ = godotenv.Load()

	feedFlag := flag.String("rss-feed", "", "Podcast RSS feed URL to load on startup (required)")
	sessionFlag := flag.String("s", "", "Session name to create or use")
	resumeFlag := flag.String("r", "", "Resume a session by name")
	toolsetFlag := flag.String("t", "", "Toolset to use (defaults to 'default')")
	verboseFlag := flag.Bool("v", false, "Enable debug logging")
	flag.Parse()

	if *verboseFlag {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	if *feedFlag == "" && *resumeFlag == "" {
		flag.Usage()
		return errors.New("the -rss-feed flag is required")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		return errors.Wrapf(err, "error loading configuration")
	}

	if err := checkPreconditions(cfg); err != nil {
		return err
	}

	var sess *session.Session
	sessionName := *sessionFlag
	if *resumeFlag != "" {
		sessionName = *resumeFlag
		sess, err = session.Load(sessionName)
		if err != nil {
			return errors.Wrapf(err, "error resuming session '%s'", sessionName)
		}
		log.Info().Str("session", sessionName).Msg("resuming session")
	} else {
		if sessionName == "" {
			sessionName = defaultSessionName()
		}
		sess, err = session.New(sessionName)
		if err != nil {
			return errors.Wrapf(err, "error creating session '%s'", sessionName)
		}
		log.Info().Str("session", sessionName).Msg("starting new session")
	}

	ctx := context.Background()

	client, err := newLLMClient(ctx, cfg)
	if err != nil {
		return errors.Wrapf(err, "error initializing %s client", cfg.LLMClient)
	}

	// Launch the tool-processes; they live for the whole session and are
	// stopped unconditionally when run returns.
	registry, err := tools.NewToolRegistry(cfg)
	if err != nil {
		return err
	}
	defer registry.Close()

	podcastAgent, err := agent.New(cfg, sess, *toolsetFlag, registry, client)
	if err != nil {
		return errors.Wrapf(err, "error initializing agent")
	}

	pal := assistant.New(podcastAgent, os.Stdout)
	pal.Restore(sess.FeedURL, sess.PodcastTitle)

	// A resumed session already carries its feed context, so -rss-feed
	// stays optional there; when given it replaces the stored feed.
	term := terminal.New(pal, os.Stdin, os.Stdout)
	return term.Run(ctx, *feedFlag)
}

// checkPreconditions verifies what the session cannot run without,
// before any command loop begins: the credential both the transcriber
// and the default model provider need, and the runtime executable for
// every configured tool server.
func checkPreconditions(cfg *config.Config) error {
	if os.Getenv("OPENAI_API_KEY") == "" {
		return errors.New("OPENAI_API_KEY environment variable is not set. Please set it to your OpenAI API key")
	}

	for _, server := range cfg.MCPServers {
		if _, err := exec.LookPath(server.Command); err != nil {
			return errors.New("'%s' is not installed. Tool server '%s' needs it to run", server.Command, server.Name)
		}
	}
	return nil
}

func newLLMClient(ctx context.Context, cfg *config.Config) (llm.LLMClient, error) {
	switch cfg.LLMClient {
	case "openai":
		return llm.NewOpenAILLMClient(ctx, cfg.Model)
	case "anthropic":
		return llm.NewAnthropicLLMClient(ctx, cfg.Model)
	case "gemini":
		return llm.NewGeminiLLMClient(ctx, cfg.Model)
	case "bedrock":
		return llm.NewBedrockLLMClient(ctx, cfg.Model)
	case "mock":
		return &llm.MockLLMClient{}, nil
	default:
		return nil, errors.New("unknown llm provider '%s' in configuration", cfg.LLMClient)
	}
}

func defaultSessionName() string {
	wd, err := os.Getwd()
	if err != nil {
		wd = "podsage"
	}
	dirName := filepath.Base(wd)
	timestamp := time.Now().Format("2006-01-02_15-04-05")
	return fmt.Sprintf("%s_%s", dirName, timestamp)
}
