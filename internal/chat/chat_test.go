package chat

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"helpdesk-backend/internal/database"
	"helpdesk-backend/internal/docs"
	"helpdesk-backend/internal/llm"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type fakeCompleter struct {
	reply   string
	tokens  int64
	err     error
	prompts []string
}

func (f *fakeCompleter) Complete(ctx context.Context, prompt string) (llm.Completion, error) {
	f.prompts = append(f.prompts, prompt)
	if f.err != nil {
		return llm.Completion{}, f.err
	}
	return llm.Completion{Text: f.reply, TokensUsed: f.tokens}, nil
}

func newTestDB(t *testing.T) *gorm.DB {
	// A named shared-cache DSN keeps every pooled connection on the same
	// in-memory database.
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, database.GetMigrator(db).Migrate())
	return db
}

func TestEnsureSessionIdempotent(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureSession(ctx, db, "session-1"))

	var first database.Session
	require.NoError(t, db.First(&first, "id = ?", "session-1").Error)

	require.NoError(t, EnsureSession(ctx, db, "session-1"))

	var count int64
	require.NoError(t, db.Model(&database.Session{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)

	// The second ensure must not touch the existing row.
	var second database.Session
	require.NoError(t, db.First(&second, "id = ?", "session-1").Error)
	assert.Equal(t, first.CreatedAt, second.CreatedAt)
	assert.Equal(t, first.UpdatedAt, second.UpdatedAt)
}

func TestHistoryOrdering(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureSession(ctx, db, "session-1"))
	for i := 0; i < 6; i++ {
		role := database.RoleUser
		if i%2 == 1 {
			role = database.RoleAssistant
		}
		require.NoError(t, SaveMessage(ctx, db, "session-1", role, fmt.Sprintf("message %d", i)))
	}

	history, err := History(ctx, db, "session-1")
	require.NoError(t, err)
	require.Len(t, history, 6)
	for i, msg := range history {
		assert.Equal(t, fmt.Sprintf("message %d", i), msg.Content)
	}
}

func TestHistoryEmptySession(t *testing.T) {
	db := newTestDB(t)

	history, err := History(context.Background(), db, "never-seen")
	require.NoError(t, err)
	assert.Empty(t, history)
}

func TestRecentMessagesWindow(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()

	require.NoError(t, EnsureSession(ctx, db, "session-1"))
	for i := 0; i < 14; i++ {
		require.NoError(t, SaveMessage(ctx, db, "session-1", database.RoleUser, fmt.Sprintf("message %d", i)))
	}

	messages, err := RecentMessages(ctx, db, "session-1", HistoryWindow)
	require.NoError(t, err)
	require.Len(t, messages, HistoryWindow)

	// Last 10 of 14, in chronological order.
	for i, msg := range messages {
		assert.Equal(t, fmt.Sprintf("message %d", i+4), msg.Content)
	}
}

func TestBuildPrompt(t *testing.T) {
	doc := docs.Document{Title: "refunds", Content: "Refunds are processed within 5 days."}
	history := []database.Message{
		{Role: database.RoleUser, Content: "hello"},
		{Role: database.RoleAssistant, Content: "hi, how can I help?"},
	}

	prompt := BuildPrompt(doc, history, "How do refunds work?")

	assert.Contains(t, prompt, "Answer ONLY using this documentation:\nRefunds are processed within 5 days.")
	assert.Contains(t, prompt, "\"Sorry, I don’t have information about that.\"")
	assert.Contains(t, prompt, "user: hello\nassistant: hi, how can I help?\n")
	assert.True(t, strings.HasSuffix(prompt, "User: How do refunds work?\n"))

	// History must come after the document and fallback sections.
	assert.Less(t, strings.Index(prompt, doc.Content), strings.Index(prompt, "Chat History:"))
}

func TestRespondFallback(t *testing.T) {
	db := newTestDB(t)
	completer := &fakeCompleter{reply: "unused"}
	responder := NewResponder(db, docs.NewStore(nil), completer)

	reply, err := responder.Respond(context.Background(), "session-1", "What is the capital of France?")
	require.NoError(t, err)

	assert.Equal(t, FallbackReply, reply.Text)
	assert.Zero(t, reply.TokensUsed)
	assert.Empty(t, completer.prompts, "completion API must not be called on the no-match path")

	history, err := History(context.Background(), db, "session-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, database.RoleUser, history[0].Role)
	assert.Equal(t, "What is the capital of France?", history[0].Content)
	assert.Equal(t, database.RoleAssistant, history[1].Role)
	assert.Equal(t, FallbackReply, history[1].Content)
}

func TestRespondWithMatch(t *testing.T) {
	db := newTestDB(t)
	store := docs.NewStore([]docs.Document{
		{Title: "refunds", Content: "Refunds are processed within 5 days."},
	})
	completer := &fakeCompleter{reply: "Refunds take 5 days.", tokens: 42}
	responder := NewResponder(db, store, completer)

	reply, err := responder.Respond(context.Background(), "session-1", "How do refunds work?")
	require.NoError(t, err)

	assert.Equal(t, "Refunds take 5 days.", reply.Text)
	assert.Equal(t, int64(42), reply.TokensUsed)

	require.Len(t, completer.prompts, 1)
	assert.Contains(t, completer.prompts[0], "Refunds are processed within 5 days.")
	// The just-persisted user message is part of the history window.
	assert.Contains(t, completer.prompts[0], "user: How do refunds work?")
	assert.Contains(t, completer.prompts[0], "User: How do refunds work?")

	history, err := History(context.Background(), db, "session-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Refunds take 5 days.", history[1].Content)
}

func TestRespondCompleterFailureKeepsUserMessage(t *testing.T) {
	db := newTestDB(t)
	store := docs.NewStore([]docs.Document{
		{Title: "refunds", Content: "Refunds are processed within 5 days."},
	})
	completer := &fakeCompleter{err: errors.New("api unavailable")}
	responder := NewResponder(db, store, completer)

	_, err := responder.Respond(context.Background(), "session-1", "How do refunds work?")
	require.Error(t, err)

	// The user message was persisted before the failing call and stays,
	// without a paired assistant reply.
	history, herr := History(context.Background(), db, "session-1")
	require.NoError(t, herr)
	require.Len(t, history, 1)
	assert.Equal(t, database.RoleUser, history[0].Role)
}

func TestRespondHistoryWindowInPrompt(t *testing.T) {
	db := newTestDB(t)
	store := docs.NewStore([]docs.Document{
		{Title: "refunds", Content: "Refunds are processed within 5 days."},
	})
	completer := &fakeCompleter{reply: "ok"}
	responder := NewResponder(db, store, completer)

	ctx := context.Background()
	require.NoError(t, EnsureSession(ctx, db, "session-1"))
	for i := 0; i < 12; i++ {
		require.NoError(t, SaveMessage(ctx, db, "session-1", database.RoleUser, fmt.Sprintf("old message %d", i)))
	}

	_, err := responder.Respond(ctx, "session-1", "How do refunds work?")
	require.NoError(t, err)

	require.Len(t, completer.prompts, 1)
	prompt := completer.prompts[0]

	// 12 old rows plus the new user message: only the newest 10 fit the
	// window, so messages 0-2 fall out.
	assert.NotContains(t, prompt, "old message 0\n")
	assert.NotContains(t, prompt, "old message 2\n")
	assert.Contains(t, prompt, "old message 3")
	assert.Contains(t, prompt, "old message 11")
}
