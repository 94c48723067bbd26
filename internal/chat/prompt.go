package chat

import (
	"fmt"
	"strings"

	"helpdesk-backend/internal/database"
	"helpdesk-backend/internal/docs"
)

// FallbackReply is stored and returned verbatim whenever no document matches
// the question. It is also quoted inside every prompt so the model can fall
// back to it when the document does not answer the question.
const FallbackReply = "Sorry, I don’t have information about that."

// HistoryWindow is the number of stored messages (5 user/assistant pairs)
// included in a prompt. The just-persisted user message counts toward it.
const HistoryWindow = 10

// BuildPrompt renders the completion prompt: the doc-only instruction, the
// full document content, the quoted fallback sentence, the chronological
// history as "role: content" lines, and finally the new user message. Neither
// the document nor the history lines are truncated.
func BuildPrompt(doc docs.Document, history []database.Message, userMessage string) string {
	var b strings.Builder

	b.WriteString("You are a support assistant.\n\n")
	b.WriteString("Answer ONLY using this documentation:\n")
	b.WriteString(doc.Content)
	b.WriteString("\n\nIf answer not in docs, say:\n")
	fmt.Fprintf(&b, "%q\n\n", FallbackReply)
	b.WriteString("Chat History:\n")
	for _, msg := range history {
		fmt.Fprintf(&b, "%s: %s\n", msg.Role, msg.Content)
	}
	fmt.Fprintf(&b, "\nUser: %s\n", userMessage)

	return b.String()
}
