// Package assistant implements the podcast assistant's command
// dispatcher. It classifies each input line into one of a handful of
// command shapes, composes a natural-language instruction for the
// agent, and tracks the session's feed state.
package assistant

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Runner executes one conversational turn to completion and returns the
// final text. The agent satisfies this; tests substitute a fake.
type Runner interface {
	Run(ctx context.Context, input string) (string, error)
	SetFeed(feedURL, podcastTitle string)
}

// Assistant holds the per-session feed state and forwards synthesized
// instructions to the runner. All output goes to out.
type Assistant struct {
	runner       Runner
	out          io.Writer
	feedURL      string
	podcastTitle string
}

func New(runner Runner, out io.Writer) *Assistant {
	return &Assistant{runner: runner, out: out}
}

// FeedURL returns the currently loaded feed URL, or "" when none is set.
func (a *Assistant) FeedURL() string { return a.feedURL }

// PodcastTitle returns the best-effort extracted podcast title, or "".
func (a *Assistant) PodcastTitle() string { return a.podcastTitle }

// Restore seeds the feed state without an agent call; used when
// resuming a persisted session.
func (a *Assistant) Restore(feedURL, podcastTitle string) {
	a.feedURL = feedURL
	a.podcastTitle = podcastTitle
}

// Start loads the initial feed when one is given.
func (a *Assistant) Start(ctx context.Context, feedURL string) error {
	if feedURL == "" {
		return nil
	}
	return a.fetchFeed(ctx, feedURL)
}

// Process handles one raw input line. It returns false when the user
// asked to exit; errors from the runner are returned for the caller to
// report and do not end the session.
func (a *Assistant) Process(ctx context.Context, command string) (bool, error) {
	lower := strings.ToLower(command)

	switch {
	case strings.HasPrefix(lower, "feed "):
		return true, a.fetchFeed(ctx, strings.TrimSpace(command[5:]))

	case strings.HasPrefix(lower, "find "):
		return true, a.findEpisodesByTopic(ctx, strings.TrimSpace(command[5:]))

	case strings.HasPrefix(lower, "summarize "):
		episodeNumber, err := strconv.Atoi(strings.TrimSpace(command[10:]))
		if err != nil {
			fmt.Fprintln(a.out, "Please specify a valid episode number to summarize.")
			return true, nil
		}
		return true, a.summarizeEpisode(ctx, episodeNumber)

	case lower == "help":
		a.printHelp()
		return true, nil

	case lower == "exit":
		return false, nil

	// "eposide" kept alongside the correct spelling; it shows up often
	// enough in practice to be worth matching.
	case strings.HasPrefix(lower, "which episode"), strings.HasPrefix(lower, "which eposide"):
		topic := strings.TrimPrefix(lower, "which episode")
		topic = strings.TrimSpace(strings.TrimPrefix(topic, "which eposide"))
		topic = strings.TrimSpace(strings.TrimPrefix(topic, "is about "))
		topic = strings.TrimSpace(strings.TrimPrefix(topic, "about "))
		if topic == "" {
			fmt.Fprintln(a.out, "Please specify a topic to search for.")
			return true, nil
		}
		return true, a.findEpisodesByTopic(ctx, topic)

	default:
		// General query, with feed context prefixed when available.
		feedContext := ""
		if a.feedURL != "" {
			feedContext = fmt.Sprintf("Using the podcast feed %s: ", a.feedURL)
		}
		output, err := a.runner.Run(ctx, feedContext+command)
		if err != nil {
			return true, err
		}
		fmt.Fprintln(a.out, output)
		return true, nil
	}
}

// fetchFeed asks the agent to fetch the feed and list recent episodes,
// then updates the feed state and regenerates the agent instructions.
func (a *Assistant) fetchFeed(ctx context.Context, feedURL string) error {
	fmt.Fprintf(a.out, "Fetching RSS feed: %s\n", feedURL)
	output, err := a.runner.Run(ctx, fmt.Sprintf(
		"Fetch the podcast RSS feed at %s and list the 10 most recent episodes. Format the list with numbers, titles and durations.",
		feedURL))
	if err != nil {
		return err
	}

	a.feedURL = feedURL
	// Best-effort title extraction from free-form model output; a miss
	// leaves the previous value in place.
	if title := extractPodcastTitle(output); title != "" {
		a.podcastTitle = title
		fmt.Fprintf(a.out, "Podcast title: %s\n", title)
	}
	a.runner.SetFeed(a.feedURL, a.podcastTitle)

	fmt.Fprintln(a.out, output)
	return nil
}

func (a *Assistant) findEpisodesByTopic(ctx context.Context, topic string) error {
	if a.feedURL == "" {
		fmt.Fprintln(a.out, "No podcast feed loaded. Please provide an RSS feed URL first.")
		return nil
	}

	fmt.Fprintf(a.out, "Searching for episodes about: %s\n", topic)
	output, err := a.runner.Run(ctx, fmt.Sprintf(
		"Using the podcast feed %s, find episodes that discuss %s. Provide a numbered list of relevant episodes with their titles and a brief description.",
		a.feedURL, topic))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, output)
	return nil
}

func (a *Assistant) summarizeEpisode(ctx context.Context, episodeNumber int) error {
	if a.feedURL == "" {
		fmt.Fprintln(a.out, "No podcast feed loaded. Please provide an RSS feed URL first.")
		return nil
	}

	fmt.Fprintf(a.out, "Summarizing episode %d...\n", episodeNumber)
	output, err := a.runner.Run(ctx, fmt.Sprintf(`For episode %d from the podcast feed %s:
1. First, find the episode in the feed to get its audio URL
2. Transcribe the episode using the transcribe_audio tool
   - Pass the episode's audio URL directly to the tool (episode_url parameter)
   - Use full_transcription=true and max_chunk_size=20
3. Provide a comprehensive summary of the episode content`,
		episodeNumber, a.feedURL))
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "\nEpisode Summary:")
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, output)
	return nil
}

func (a *Assistant) printHelp() {
	fmt.Fprintln(a.out)
	fmt.Fprintln(a.out, "Commands:")
	fmt.Fprintln(a.out, "  feed [URL]      - Set the podcast RSS feed URL")
	fmt.Fprintln(a.out, "  find [topic]    - Find episodes about a specific topic")
	fmt.Fprintln(a.out, "  summarize [N]   - Summarize episode number N")
	fmt.Fprintln(a.out, "  exit            - Exit the assistant")
	fmt.Fprintln(a.out, "  help            - Show this help message")

	if a.feedURL != "" {
		fmt.Fprintf(a.out, "\nCurrent podcast feed: %s\n", a.feedURL)
		if a.podcastTitle != "" {
			fmt.Fprintf(a.out, "Podcast title: %s\n", a.podcastTitle)
		}
	}
}

// extractPodcastTitle scans model output for a line containing "Title:"
// and returns the text after it. Purely best-effort; returns "" when no
// such line exists.
func extractPodcastTitle(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if idx := strings.Index(line, "Title:"); idx >= 0 {
			return strings.TrimSpace(line[idx+len("Title:"):])
		}
	}
	return ""
}
