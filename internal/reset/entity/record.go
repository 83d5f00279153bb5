package entity

import "time"

// VerificationRecord is one outstanding (or historical) password-reset
// attempt. Records are append-only: issuing again creates a new row, and the
// only mutation ever applied is flipping Used to true.
type VerificationRecord struct {
	ID        int64
	Email     string
	CodeProof string
	CreatedAt time.Time
	ExpiresAt time.Time
	Used      bool
}

// Usable reports whether the record is still eligible for verification at
// the given time. Expiry is strict: a record expiring exactly now is spent.
func (r VerificationRecord) Usable(now time.Time) bool {
	return !r.Used && now.Before(r.ExpiresAt)
}

// Identity is a login account resolved from the identity provider.
type Identity struct {
	ID    string
	Email string
}
