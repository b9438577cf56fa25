package admin

import (
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/jmoiron/sqlx"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/admin/entity"
	adminrepo "github.com/ovaphlow/pitchfork/service-region-directory/internal/admin/repo"
	"github.com/ovaphlow/pitchfork/service-region-directory/internal/metrics"
	"github.com/ovaphlow/pitchfork/service-region-directory/pkg/database"
)

// PasswordHasher defines minimal hashing interface (abstract so we can swap to argon2 later).
type PasswordHasher interface {
	Hash(pw string) (string, error)
	Verify(hash, pw string) bool
}

// MaxPasswordBytes is the longest password bcrypt accepts as-is.
const MaxPasswordBytes = 72

// BcryptHasher implementation. Passwords longer than MaxPasswordBytes are
// reduced to base64(sha256(pw)) first, in both Hash and Verify.
type BcryptHasher struct{ Cost int }

func (b BcryptHasher) Hash(pw string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword(bcryptInput(pw), cost)
	if err != nil {
		return "", err
	}
	return string(h), nil
}

func (b BcryptHasher) Verify(hash, pw string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), bcryptInput(pw)) == nil
}

func bcryptInput(pw string) []byte {
	if len(pw) <= MaxPasswordBytes {
		return []byte(pw)
	}
	sum := sha256.Sum256([]byte(pw))
	return []byte(base64.StdEncoding.EncodeToString(sum[:]))
}

// VerifyResult is the outcome of a credential check.
type VerifyResult int

const (
	NoSuchIdentity VerifyResult = iota
	Invalid
	Valid
)

func (v VerifyResult) String() string {
	switch v {
	case Valid:
		return "valid"
	case Invalid:
		return "invalid"
	default:
		return "no_such_identity"
	}
}

// CredentialStore verifies the admin password and migrates legacy plaintext
// credentials to bcrypt on first successful login.
type CredentialStore struct {
	repo   *adminrepo.AdminRepo
	hasher PasswordHasher
	Now    func() time.Time
}

func NewCredentialStore(db *sqlx.DB, r *adminrepo.AdminRepo, hasher PasswordHasher) *CredentialStore {
	if r == nil {
		r = adminrepo.NewAdminRepo(db)
	}
	if hasher == nil {
		hasher = BcryptHasher{Cost: 12}
	}
	return &CredentialStore{repo: r, hasher: hasher, Now: time.Now}
}

var (
	ErrUsernameTaken   = errors.New("username already exists")
	ErrPasswordTooLong = fmt.Errorf("password must be at most %d bytes", MaxPasswordBytes)
)

// VerifyAndUpgrade checks candidate against the stored credential. A matching
// PlaintextPending credential is replaced by a digest before Valid is returned.
func (s *CredentialStore) VerifyAndUpgrade(ctx context.Context, username, candidate string) (*entity.Admin, VerifyResult, error) {
	a, err := s.repo.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, NoSuchIdentity, nil
		}
		return nil, Invalid, fmt.Errorf("load admin: %w", err)
	}

	switch c := a.Credential.(type) {
	case entity.Hashed:
		return s.checkHashed(a, c, candidate)
	case entity.PlaintextPending:
		if !ConstantTimeCompare(c.Password, candidate) {
			return nil, Invalid, nil
		}
		digest, err := s.hasher.Hash(candidate)
		if err != nil {
			return nil, Invalid, fmt.Errorf("hash password: %w", err)
		}
		upgraded, err := s.repo.UpgradeCredential(ctx, a.ID, c.Password, digest, s.Now().UTC())
		if err != nil {
			return nil, Invalid, fmt.Errorf("upgrade credential: %w", err)
		}
		if !upgraded {
			// a concurrent login already swapped the row; judge against what it stored
			fresh, err := s.repo.GetByUsername(ctx, username)
			if err != nil {
				return nil, Invalid, fmt.Errorf("reload admin: %w", err)
			}
			h, ok := fresh.Credential.(entity.Hashed)
			if !ok {
				return nil, Invalid, fmt.Errorf("admin %d: credential changed without hash", a.ID)
			}
			return s.checkHashed(fresh, h, candidate)
		}
		metrics.CredentialUpgradesTotal.Inc()
		a.Credential = entity.Hashed{Digest: digest}
		return a, Valid, nil
	default:
		return nil, Invalid, adminrepo.ErrCorruptCredential
	}
}

func (s *CredentialStore) checkHashed(a *entity.Admin, c entity.Hashed, candidate string) (*entity.Admin, VerifyResult, error) {
	if !s.hasher.Verify(c.Digest, candidate) {
		return nil, Invalid, nil
	}
	return a, Valid, nil
}

// SeedPlaintext creates an admin whose password will be hashed on first login.
func (s *CredentialStore) SeedPlaintext(ctx context.Context, username, password string) (int64, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return 0, errors.New("username and password required")
	}
	if len(password) > MaxPasswordBytes {
		return 0, ErrPasswordTooLong
	}
	id, err := s.repo.Create(ctx, username, entity.PlaintextPending{Password: password}, s.Now().UTC())
	if err != nil {
		if database.IsUniqueViolation(err) {
			return 0, ErrUsernameTaken
		}
		return 0, err
	}
	return id, nil
}

// ConstantTimeCompare helper (exposed if later we store API keys etc.)
func ConstantTimeCompare(a, b string) bool {
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}
