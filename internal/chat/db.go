package chat

import (
	"context"

	"helpdesk-backend/internal/database"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureSession creates the session row if it does not exist yet. An existing
// row is left untouched, so created_at and updated_at keep their original
// values no matter how many messages follow.
func EnsureSession(ctx context.Context, db *gorm.DB, sessionID string) error {
	return db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&database.Session{ID: sessionID}).Error
}

func SaveMessage(ctx context.Context, db *gorm.DB, sessionID, role, content string) error {
	return db.WithContext(ctx).Create(&database.Message{
		SessionID: sessionID,
		Role:      role,
		Content:   content,
	}).Error
}

// RecentMessages returns the last `limit` messages of the session in
// chronological order. Storage hands them back newest-first; we reverse.
func RecentMessages(ctx context.Context, db *gorm.DB, sessionID string, limit int) ([]database.Message, error) {
	var messages []database.Message
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&messages).Error
	if err != nil {
		return nil, err
	}

	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func History(ctx context.Context, db *gorm.DB, sessionID string) ([]database.Message, error) {
	var messages []database.Message
	err := db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&messages).Error
	return messages, err
}

func ListSessions(ctx context.Context, db *gorm.DB) ([]database.Session, error) {
	var sessions []database.Session
	err := db.WithContext(ctx).Find(&sessions).Error
	return sessions, err
}
