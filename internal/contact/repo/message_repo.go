package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/contact/entity"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
)

type MessageRepo struct {
	db *sqlx.DB
}

func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

func (r *MessageRepo) Create(ctx context.Context, in entity.MessageInput, at time.Time) (int64, error) {
	const q = `INSERT INTO contact_messages (name, email, message, created_at) VALUES (?, ?, ?, ?)`
	return database.InsertReturningID(ctx, r.db, q, in.Name, in.Email, in.Message, at)
}

// List returns every message, newest first.
func (r *MessageRepo) List(ctx context.Context) ([]entity.Message, error) {
	const q = `SELECT id, name, email, message, created_at FROM contact_messages ORDER BY created_at DESC, id DESC`
	out := []entity.Message{}
	if err := r.db.SelectContext(ctx, &out, q); err != nil {
		return nil, err
	}
	return out, nil
}
