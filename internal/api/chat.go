package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"gorm.io/gorm"

	"helpdesk-backend/internal/chat"
	"helpdesk-backend/internal/docs"
	"helpdesk-backend/internal/llm"
	"helpdesk-backend/pkg/api"
)

const timeFormat = "2006-01-02 15:04:05"

type ChatService struct {
	db        *gorm.DB
	responder *chat.Responder
}

func NewChatService(db *gorm.DB, store *docs.Store, completer llm.Completer) *ChatService {
	return &ChatService{
		db:        db,
		responder: chat.NewResponder(db, store, completer),
	}
}

func (s *ChatService) AddRoutes(r chi.Router) {
	r.Get("/health", RestHandler(func(r *http.Request) (any, error) { return nil, nil }))
	r.Post("/chat", RestHandler(s.Chat))
	r.Get("/conversations/{session_id}", RestHandler(s.GetConversation))
	r.Get("/sessions", RestHandler(s.GetSessions))
}

func (s *ChatService) Chat(r *http.Request) (any, error) {
	req, err := ParseRequest[api.ChatRequest](r)
	if err != nil {
		return nil, err
	}

	if req.SessionID == "" || req.Message == "" {
		return nil, CodedErrorf(http.StatusBadRequest, "missing sessionId or message")
	}

	reply, err := s.responder.Respond(r.Context(), req.SessionID, req.Message)
	if err != nil {
		return nil, err
	}

	return api.ChatResponse{Reply: reply.Text, TokensUsed: reply.TokensUsed}, nil
}

func (s *ChatService) GetConversation(r *http.Request) (any, error) {
	sessionID, err := URLParamString(r, "session_id")
	if err != nil {
		return nil, err
	}

	messages, err := chat.History(r.Context(), s.db, sessionID)
	if err != nil {
		return nil, err
	}

	resp := make([]api.ConversationMessage, 0, len(messages))
	for _, msg := range messages {
		resp = append(resp, api.ConversationMessage{
			Role:      msg.Role,
			Content:   msg.Content,
			CreatedAt: msg.CreatedAt.Format(timeFormat),
		})
	}

	return resp, nil
}

func (s *ChatService) GetSessions(r *http.Request) (any, error) {
	sessions, err := chat.ListSessions(r.Context(), s.db)
	if err != nil {
		return nil, err
	}

	resp := make([]api.SessionInfo, 0, len(sessions))
	for _, session := range sessions {
		resp = append(resp, api.SessionInfo{
			ID:        session.ID,
			UpdatedAt: session.UpdatedAt.Format(timeFormat),
		})
	}

	return resp, nil
}
