package agent

import "fmt"

// baseInstructions is the standing prompt for the assistant. The
// transcription guidance mirrors the transcriber tool-process contract:
// it downloads audio itself, so the episode URL is passed straight to
// transcribe_audio.
const baseInstructions = `You are a helpful podcast assistant that can:
1. Fetch and browse podcast RSS feeds
2. Search for episodes by topic
3. Transcribe and summarize podcast episodes

When asked to find episodes about a specific topic, search through episode titles
and descriptions to find relevant matches. Provide a numbered list of relevant episodes.

When asked to summarize an episode:
1. First find the episode in the feed to get its audio URL
2. Transcribe the episode directly using the transcribe_audio tool
   - Use the episode's audio URL in the episode_url parameter
   - Set full_transcription=true and max_chunk_size=20
3. Provide a detailed summary of the key points, insights, and takeaways

Important: The transcribe_audio tool handles downloading automatically,
so you don't need to download the episode separately. Just pass the episode's
audio URL directly to the transcribe_audio tool.

Always be conversational and helpful. Maintain context of the conversation.`

// BuildInstructions composes the agent instructions for the current
// feed. With no feed loaded it returns the base prompt alone. The title
// is best-effort and omitted when unknown.
func BuildInstructions(feedURL, podcastTitle string) string {
	instructions := baseInstructions
	if feedURL == "" {
		return instructions
	}

	instructions += fmt.Sprintf("\n\nCurrent podcast RSS feed: %s\n", feedURL)
	instructions += "Remember to use this feed URL for all operations unless explicitly told to use a different one.\n"
	if podcastTitle != "" {
		instructions += fmt.Sprintf("This is the '%s' podcast.\n", podcastTitle)
	}
	return instructions
}
