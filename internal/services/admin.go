package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"weeklydinner/internal/domain"
)

// adminSubject is the token subject for the single organizer account.
const adminSubject = "admin"

type adminService struct {
	hasher       domain.PasswordHasher
	tokenIssuer  domain.TokenIssuer
	salt         string
	passwordHash string
	tokenExpiry  time.Duration
}

// NewAdminService hashes the configured admin password once and returns an AdminService
// that issues admin tokens for it.
func NewAdminService(hasher domain.PasswordHasher, tokenIssuer domain.TokenIssuer, password string, tokenExpiry time.Duration) (domain.AdminService, error) {
	if password == "" {
		return nil, errors.New("admin password is required")
	}
	salt, err := hasher.GenerateSalt()
	if err != nil {
		return nil, fmt.Errorf("generate salt: %w", err)
	}
	hash, err := hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("hash admin password: %w", err)
	}
	return &adminService{
		hasher:       hasher,
		tokenIssuer:  tokenIssuer,
		salt:         salt,
		passwordHash: hash,
		tokenExpiry:  tokenExpiry,
	}, nil
}

func (s *adminService) Login(ctx context.Context, password string) (string, error) {
	if password == "" {
		return "", domain.ErrUnauthorized
	}
	if err := s.hasher.Compare(s.passwordHash, s.salt, password); err != nil {
		return "", domain.ErrUnauthorized
	}
	token, err := s.tokenIssuer.Issue(adminSubject, []string{domain.AdminRole}, s.tokenExpiry)
	if err != nil {
		return "", fmt.Errorf("failed to issue token: %w", err)
	}
	return token, nil
}
