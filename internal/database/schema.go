package database

import "time"

const (
	RoleUser      string = "user"
	RoleAssistant string = "assistant"
)

// Session is a client-chosen conversation thread. The id is an opaque string
// supplied by the client on its first message; rows are never deleted.
type Session struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Message is one turn in a session. Rows are append-only; ordering within a
// session is by creation time, with the autoincrement id breaking ties.
type Message struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index:idx_messages_session_created;not null"`
	Role      string `gorm:"size:20;not null"`
	Content   string
	CreatedAt time.Time `gorm:"index:idx_messages_session_created"`
}
