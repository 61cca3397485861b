package domain

import (
	"context"
	"time"
)

// AdminRole is the only role issued by the admin login.
const AdminRole = "admin"

// PasswordHasher handles salt generation, hashing, and verification.
// Implementations may use bcrypt, argon2, etc.
type PasswordHasher interface {
	GenerateSalt() (string, error)
	Hash(salt, password string) (hash string, err error)
	Compare(hash, salt, password string) error
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated subject.
type TokenIssuer interface {
	Issue(subject string, roles []string, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its subject.
type TokenVerifier interface {
	Verify(token string) (subject string, err error)
}

// AdminService authenticates the event organizer.
type AdminService interface {
	// Login checks the admin password and returns a signed token, or ErrUnauthorized.
	Login(ctx context.Context, password string) (string, error)
}
