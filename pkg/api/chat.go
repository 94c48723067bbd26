package api

type ChatRequest struct {
	SessionID string `json:"sessionId"`
	Message   string `json:"message"`
}

type ChatResponse struct {
	Reply      string `json:"reply"`
	TokensUsed int64  `json:"tokensUsed"`
}

type ConversationMessage struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

type SessionInfo struct {
	ID        string `json:"id"`
	UpdatedAt string `json:"updated_at"`
}
