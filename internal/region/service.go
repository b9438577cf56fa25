package region

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/apperr"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/region/entity"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/region/repo"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/validation"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
)

// Directory holds the region business rules on top of the repo.
type Directory struct {
	repo *repo.RegionRepo
	Now  func() time.Time
}

func NewDirectory(db *sqlx.DB) *Directory {
	return &Directory{repo: repo.NewRegionRepo(db), Now: time.Now}
}

func (d *Directory) List(ctx context.Context) ([]entity.Region, error) {
	regions, err := d.repo.List(ctx)
	if err != nil {
		return nil, apperr.Internal("Failed to fetch regions", err)
	}
	return regions, nil
}

func (d *Directory) Create(ctx context.Context, in entity.RegionInput) (*entity.Region, error) {
	in.Normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	reg, err := d.repo.Create(ctx, in, d.Now().UTC())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, apperr.Conflict("Create failed (maybe duplicate key?)", err)
		}
		return nil, apperr.Internal("Create failed", err)
	}
	return reg, nil
}

// Update replaces region id. A key already used by another region is a
// conflict and leaves the row untouched.
func (d *Directory) Update(ctx context.Context, id int64, in entity.RegionInput) (*entity.Region, error) {
	if id <= 0 {
		return nil, apperr.Validation("Invalid id")
	}
	in.Normalize()
	if err := validation.Struct(in); err != nil {
		return nil, err
	}
	reg, err := d.repo.Update(ctx, id, in, d.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			return nil, apperr.NotFound("Region not found")
		case database.IsUniqueViolation(err):
			return nil, apperr.Conflict("Update failed (maybe duplicate key?)", err)
		}
		return nil, apperr.Internal("Update failed", err)
	}
	return reg, nil
}

// Delete succeeds whether or not the region existed.
func (d *Directory) Delete(ctx context.Context, id int64) error {
	if id <= 0 {
		return apperr.Validation("Invalid id")
	}
	if _, err := d.repo.Delete(ctx, id); err != nil {
		return apperr.Internal("Delete failed", err)
	}
	return nil
}

func (d *Directory) Count(ctx context.Context) (int, error) {
	return d.repo.Count(ctx)
}
