package repo

import (
	"context"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/favorite/entity"
)

type FavoriteRepo struct {
	db *sqlx.DB
}

func NewFavoriteRepo(db *sqlx.DB) *FavoriteRepo {
	return &FavoriteRepo{db: db}
}

// Insert adds the pair. A duplicate pair surfaces as the driver's unique violation.
func (r *FavoriteRepo) Insert(ctx context.Context, clientID, city string, at time.Time) error {
	const q = `INSERT INTO favorites (client_id, city, created_at) VALUES (?, ?, ?)`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), clientID, city, at)
	return err
}

func (r *FavoriteRepo) Delete(ctx context.Context, clientID, city string) error {
	const q = `DELETE FROM favorites WHERE client_id = ? AND city = ?`
	_, err := r.db.ExecContext(ctx, r.db.Rebind(q), clientID, city)
	return err
}

// ListByClient returns the client's favorites, newest first.
func (r *FavoriteRepo) ListByClient(ctx context.Context, clientID string) ([]entity.Favorite, error) {
	const q = `SELECT id, client_id, city, created_at FROM favorites WHERE client_id = ? ORDER BY created_at DESC, id DESC`
	out := []entity.Favorite{}
	if err := r.db.SelectContext(ctx, &out, r.db.Rebind(q), clientID); err != nil {
		return nil, err
	}
	return out, nil
}
