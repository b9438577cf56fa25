package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ovaphlow/pitchfork/service-region-directory/internal/admin/entity"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
)

// ErrCorruptCredential means a row has both or neither credential column set.
var ErrCorruptCredential = errors.New("admin row must hold exactly one credential")

// AdminRepo provides data access for the admins table using sqlx.
type AdminRepo struct {
	db *sqlx.DB
}

func NewAdminRepo(db *sqlx.DB) *AdminRepo { return &AdminRepo{db: db} }

type adminRow struct {
	ID            int64          `db:"id"`
	Username      string         `db:"username"`
	PasswordPlain sql.NullString `db:"password_plain"`
	PasswordHash  sql.NullString `db:"password_hash"`
	CreatedAt     time.Time      `db:"created_at"`
	UpdatedAt     time.Time      `db:"updated_at"`
}

func (r adminRow) toEntity() (*entity.Admin, error) {
	a := &entity.Admin{ID: r.ID, Username: r.Username, CreatedAt: r.CreatedAt, UpdatedAt: r.UpdatedAt}
	switch {
	case r.PasswordHash.Valid && !r.PasswordPlain.Valid:
		a.Credential = entity.Hashed{Digest: r.PasswordHash.String}
	case r.PasswordPlain.Valid && !r.PasswordHash.Valid:
		a.Credential = entity.PlaintextPending{Password: r.PasswordPlain.String}
	default:
		return nil, fmt.Errorf("admin %d: %w", r.ID, ErrCorruptCredential)
	}
	return a, nil
}

// GetByUsername fetches by username (case-sensitive) or returns sql.ErrNoRows.
func (r *AdminRepo) GetByUsername(ctx context.Context, username string) (*entity.Admin, error) {
	const q = `SELECT id, username, password_plain, password_hash, created_at, updated_at
	  FROM admins WHERE username = ?`
	var row adminRow
	if err := r.db.GetContext(ctx, &row, r.db.Rebind(q), username); err != nil {
		return nil, err
	}
	return row.toEntity()
}

// Create inserts an admin with the given credential. Returns new ID.
func (r *AdminRepo) Create(ctx context.Context, username string, cred entity.Credential, at time.Time) (int64, error) {
	var plain, hash sql.NullString
	switch c := cred.(type) {
	case entity.PlaintextPending:
		plain = sql.NullString{String: c.Password, Valid: true}
	case entity.Hashed:
		hash = sql.NullString{String: c.Digest, Valid: true}
	default:
		return 0, ErrCorruptCredential
	}
	const q = `INSERT INTO admins (username, password_plain, password_hash, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`
	return database.InsertReturningID(ctx, r.db, q, username, plain, hash, at, at)
}

// UpgradeCredential swaps a pending plaintext for a digest in one conditional
// UPDATE. It reports false when the row no longer holds expectedPlain, which
// means another login won the race.
func (r *AdminRepo) UpgradeCredential(ctx context.Context, id int64, expectedPlain, digest string, at time.Time) (bool, error) {
	const q = `UPDATE admins SET password_hash = ?, password_plain = NULL, updated_at = ?
	  WHERE id = ? AND password_plain = ? AND password_hash IS NULL`
	res, err := r.db.ExecContext(ctx, r.db.Rebind(q), digest, at, id, expectedPlain)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}
