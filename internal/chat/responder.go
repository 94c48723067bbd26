package chat

import (
	"context"
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"helpdesk-backend/internal/database"
	"helpdesk-backend/internal/docs"
	"helpdesk-backend/internal/llm"
)

// Responder runs one full chat turn: persist the user message, match a
// document, and produce the assistant reply.
type Responder struct {
	db        *gorm.DB
	docs      *docs.Store
	completer llm.Completer
}

func NewResponder(db *gorm.DB, store *docs.Store, completer llm.Completer) *Responder {
	return &Responder{db: db, docs: store, completer: completer}
}

type Reply struct {
	Text       string
	TokensUsed int64
}

// Respond ensures the session exists and persists the user message before any
// downstream step, so the message survives later failures. Without a matching
// document the fallback is stored and returned with zero token usage and the
// completion API is never called. With a match, the recent history and the
// document are assembled into a prompt and sent to the completion API
// synchronously; its reply is stored and returned with the reported usage.
func (r *Responder) Respond(ctx context.Context, sessionID, message string) (Reply, error) {
	if err := EnsureSession(ctx, r.db, sessionID); err != nil {
		return Reply{}, fmt.Errorf("error ensuring session: %w", err)
	}

	if err := SaveMessage(ctx, r.db, sessionID, database.RoleUser, message); err != nil {
		return Reply{}, fmt.Errorf("error saving user message: %w", err)
	}

	doc, ok := r.docs.Match(message)
	if !ok {
		if err := SaveMessage(ctx, r.db, sessionID, database.RoleAssistant, FallbackReply); err != nil {
			return Reply{}, fmt.Errorf("error saving fallback message: %w", err)
		}
		return Reply{Text: FallbackReply}, nil
	}

	history, err := RecentMessages(ctx, r.db, sessionID, HistoryWindow)
	if err != nil {
		return Reply{}, fmt.Errorf("error fetching chat history: %w", err)
	}

	completion, err := r.completer.Complete(ctx, BuildPrompt(doc, history, message))
	if err != nil {
		return Reply{}, fmt.Errorf("completion request failed: %w", err)
	}

	if err := SaveMessage(ctx, r.db, sessionID, database.RoleAssistant, completion.Text); err != nil {
		return Reply{}, fmt.Errorf("error saving assistant message: %w", err)
	}

	slog.Info("chat turn completed", "session_id", sessionID, "matched_doc", doc.Title, "tokens_used", completion.TokensUsed)

	return Reply{Text: completion.Text, TokensUsed: completion.TokensUsed}, nil
}
