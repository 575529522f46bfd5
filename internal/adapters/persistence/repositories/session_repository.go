package repositories

import (
	"context"
	"errors"

	"bankloan-web/internal/adapters/persistence/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// sessionRepository implements SessionRepository on top of gorm
type sessionRepository struct {
	db *gorm.DB
}

// NewSessionRepository creates a gorm-backed session repository
func NewSessionRepository(db *gorm.DB) SessionRepository {
	return &sessionRepository{db: db}
}

// Load returns the stored value or ErrSlotEmpty
func (r *sessionRepository) Load(ctx context.Context) (string, error) {
	var slot models.SessionSlot
	err := r.db.WithContext(ctx).
		Where("slot = ?", models.TokenSlot).
		First(&slot).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", ErrSlotEmpty
	}
	if err != nil {
		return "", err
	}
	return slot.Value, nil
}

// Store upserts the slot
func (r *sessionRepository) Store(ctx context.Context, value string) error {
	slot := models.SessionSlot{Slot: models.TokenSlot, Value: value}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "slot"}},
			DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
		}).
		Create(&slot).Error
}

// Delete empties the slot. Deleting an empty slot is not an error.
func (r *sessionRepository) Delete(ctx context.Context) error {
	return r.db.WithContext(ctx).
		Where("slot = ?", models.TokenSlot).
		Delete(&models.SessionSlot{}).Error
}
