package chat

import (
	"fmt"
	"strings"

	"github.com/xd-ai/gemini-chat/src/search"
)

// SystemPrompt is sent as the model's system instruction on every turn. The
// grounding-specific guidance lives in Compose, next to the snippets.
const SystemPrompt = "You are a smart and helpful AI assistant. Answer clearly, " +
	"in a friendly and professional manner, in the language the user writes in."

// Compose builds the final prompt for a turn. With no snippets the message
// passes through byte-for-byte; plain messages are never mutated.
func Compose(message string, snippets []search.Snippet) string {
	if len(snippets) == 0 {
		return message
	}

	var sb strings.Builder
	sb.WriteString(message)
	sb.WriteString("\n\n--- Web search results ---\n")
	for i, s := range snippets {
		fmt.Fprintf(&sb, "%d. %s\n", i+1, s.Title)
		if s.Excerpt != "" {
			fmt.Fprintf(&sb, "   %s\n", s.Excerpt)
		}
		fmt.Fprintf(&sb, "   Source: %s\n", s.Source)
	}
	sb.WriteString("--- End of search results ---\n\n")
	sb.WriteString("Use the search results above when they are relevant to the question, " +
		"and cite the sources you rely on.")
	return sb.String()
}
