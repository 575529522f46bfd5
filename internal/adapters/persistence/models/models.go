package models

import (
	"time"

	"gorm.io/gorm"
)

// TokenSlot is the key of the one session slot a client owns
const TokenSlot = "token"

// SessionSlot represents the session_slots table. The client keeps at most
// one row, keyed by TokenSlot.
type SessionSlot struct {
	Slot      string    `gorm:"primaryKey;size:32" json:"slot"`
	Value     string    `gorm:"type:text;not null" json:"-"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (SessionSlot) TableName() string {
	return "session_slots"
}

// AutoMigrate runs auto migration for all models
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&SessionSlot{})
}
