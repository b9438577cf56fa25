package entity

import "time"

// Credential is either PlaintextPending or Hashed, never both.
type Credential interface {
	isCredential()
}

// PlaintextPending is a legacy seeded password awaiting its first successful login.
type PlaintextPending struct {
	Password string
}

// Hashed is a bcrypt digest. Once an admin is Hashed it never goes back.
type Hashed struct {
	Digest string
}

func (PlaintextPending) isCredential() {}
func (Hashed) isCredential()           {}

// Admin represents a row in the `admins` table.
type Admin struct {
	ID         int64
	Username   string
	Credential Credential
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
