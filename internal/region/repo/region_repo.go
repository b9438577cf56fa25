package repo

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/region/entity"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
)

const selectRegion = `SELECT id, name, region_key, lat, lon, type, created_at, updated_at FROM regions`

// RegionRepo provides data access for the regions table using sqlx.
type RegionRepo struct {
	db *sqlx.DB
}

func NewRegionRepo(db *sqlx.DB) *RegionRepo { return &RegionRepo{db: db} }

// List returns every region ordered by type then name. Never nil.
func (r *RegionRepo) List(ctx context.Context) ([]entity.Region, error) {
	out := []entity.Region{}
	if err := r.db.SelectContext(ctx, &out, selectRegion+` ORDER BY type, name, id`); err != nil {
		return nil, err
	}
	return out, nil
}

// GetByID returns sql.ErrNoRows when the id is unknown.
func (r *RegionRepo) GetByID(ctx context.Context, id int64) (*entity.Region, error) {
	return getByID(ctx, r.db, id)
}

func getByID(ctx context.Context, q sqlx.ExtContext, id int64) (*entity.Region, error) {
	var reg entity.Region
	if err := sqlx.GetContext(ctx, q, &reg, q.Rebind(selectRegion+` WHERE id = ?`), id); err != nil {
		return nil, err
	}
	return &reg, nil
}

// Create inserts the region and returns the stored row.
func (r *RegionRepo) Create(ctx context.Context, in entity.RegionInput, at time.Time) (*entity.Region, error) {
	var created *entity.Region
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `INSERT INTO regions (name, region_key, lat, lon, type, created_at, updated_at) VALUES (?, ?, ?, ?, ?, ?, ?)`
		id, err := database.InsertReturningID(ctx, tx, q, in.Name, in.Key, in.Lat.Float64(), in.Lon.Float64(), in.Type, at, at)
		if err != nil {
			return err
		}
		created, err = getByID(ctx, tx, id)
		return err
	})
	return created, err
}

// Update overwrites every writable field of region id and returns the stored
// row. It returns sql.ErrNoRows when id does not exist.
func (r *RegionRepo) Update(ctx context.Context, id int64, in entity.RegionInput, at time.Time) (*entity.Region, error) {
	var updated *entity.Region
	err := r.inTx(ctx, func(tx *sqlx.Tx) error {
		const q = `UPDATE regions SET name = ?, region_key = ?, lat = ?, lon = ?, type = ?, updated_at = ? WHERE id = ?`
		if _, err := tx.ExecContext(ctx, tx.Rebind(q), in.Name, in.Key, in.Lat.Float64(), in.Lon.Float64(), in.Type, at, id); err != nil {
			return err
		}
		var err error
		updated, err = getByID(ctx, tx, id)
		return err
	})
	return updated, err
}

// Delete removes region id. Returns the number of rows removed.
func (r *RegionRepo) Delete(ctx context.Context, id int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, r.db.Rebind(`DELETE FROM regions WHERE id = ?`), id)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// Count returns the number of stored regions.
func (r *RegionRepo) Count(ctx context.Context) (int, error) {
	var n int
	err := r.db.GetContext(ctx, &n, `SELECT COUNT(*) FROM regions`)
	return n, err
}

func (r *RegionRepo) inTx(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
