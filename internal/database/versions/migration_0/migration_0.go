package migration_0

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type Session struct {
	ID        string `gorm:"primaryKey"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

type Message struct {
	ID        uint   `gorm:"primaryKey"`
	SessionID string `gorm:"index:idx_messages_session_created;not null"`
	Role      string `gorm:"size:20;not null"`
	Content   string
	CreatedAt time.Time `gorm:"index:idx_messages_session_created"`
}

func Migration(db *gorm.DB) error {
	if err := db.AutoMigrate(&Session{}, &Message{}); err != nil {
		return fmt.Errorf("initial migration failed: %w", err)
	}
	return nil
}
