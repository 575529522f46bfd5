package repositories

import (
	"context"

	"bankloan-web/internal/adapters/persistence/models"

	"github.com/hashicorp/go-memdb"
)

var memorySchema = &memdb.DBSchema{
	Tables: map[string]*memdb.TableSchema{
		"session_slots": {
			Name: "session_slots",
			Indexes: map[string]*memdb.IndexSchema{
				"id": {
					Name:    "id",
					Unique:  true,
					Indexer: &memdb.StringFieldIndex{Field: "Slot"},
				},
			},
		},
	},
}

// memorySessionRepository keeps the slot in a go-memdb table. Nothing
// survives a restart; used for SESSION_DRIVER=memory and in tests.
type memorySessionRepository struct {
	db *memdb.MemDB
}

// NewMemorySessionRepository creates an in-memory session repository
func NewMemorySessionRepository() (SessionRepository, error) {
	db, err := memdb.NewMemDB(memorySchema)
	if err != nil {
		return nil, err
	}
	return &memorySessionRepository{db: db}, nil
}

func (r *memorySessionRepository) Load(_ context.Context) (string, error) {
	txn := r.db.Txn(false)
	obj, err := txn.First("session_slots", "id", models.TokenSlot)
	if err != nil {
		return "", err
	}
	if obj == nil {
		return "", ErrSlotEmpty
	}
	return obj.(*models.SessionSlot).Value, nil
}

func (r *memorySessionRepository) Store(_ context.Context, value string) error {
	txn := r.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert("session_slots", &models.SessionSlot{Slot: models.TokenSlot, Value: value}); err != nil {
		return err
	}
	txn.Commit()
	return nil
}

func (r *memorySessionRepository) Delete(_ context.Context) error {
	txn := r.db.Txn(true)
	defer txn.Abort()
	if _, err := txn.DeleteAll("session_slots", "id", models.TokenSlot); err != nil {
		return err
	}
	txn.Commit()
	return nil
}
