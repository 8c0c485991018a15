// Package agent implements the conversational turn runner for the
// podcast assistant.
//
// An Agent owns the model client, the active tools, and the current
// instructions string. Run processes one user input to completion:
// the model may request tool calls (fetching the RSS feed, transcribing
// an episode, saving a file) any number of times before producing the
// final text, bounded by MaxTurns. Tool failures are reported back to
// the model as tool results rather than aborting the turn.
//
// Instructions are regenerated through SetFeed whenever the loaded feed
// changes, so every subsequent turn carries the feed URL and, when
// known, the podcast title. See BuildInstructions for the exact
// composition.
package agent
