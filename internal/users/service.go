package users

import (
	"context"
	"fmt"
	"strings"

	"smartpersona/internal/auth"

	"github.com/google/uuid"
)

const minPasswordLen = 8

// PasswordHasher derives a storable hash from a plaintext password.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
}

type Service struct {
	repo   Repository
	hasher PasswordHasher
}

func NewService(repo Repository, hasher PasswordHasher) *Service {
	return &Service{repo: repo, hasher: hasher}
}

type RegisterRequest struct {
	Username  string
	FirstName string
	LastName  string
	Password  string
}

// Register creates a plain User account.
func (s *Service) Register(ctx context.Context, req RegisterRequest) (uuid.UUID, error) {
	req.Username = strings.TrimSpace(req.Username)
	req.FirstName = strings.TrimSpace(req.FirstName)
	req.LastName = strings.TrimSpace(req.LastName)

	if req.Username == "" || req.FirstName == "" || req.LastName == "" {
		return uuid.Nil, ErrInvalidArgument
	}
	if len(req.Password) < minPasswordLen {
		return uuid.Nil, fmt.Errorf("%w: password must be at least %d characters", ErrInvalidArgument, minPasswordLen)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return uuid.Nil, fmt.Errorf("hash password: %w", err)
	}

	return s.repo.Create(ctx, NewUser{
		Username:     req.Username,
		PasswordHash: hash,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Role:         auth.RoleUser,
	})
}

// FindCredentialByUsername returns the login view of a user or ErrNotFound.
func (s *Service) FindCredentialByUsername(ctx context.Context, username string) (Credential, error) {
	u, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		return Credential{}, err
	}
	return Credential{
		SubjectID:    u.ID.String(),
		PasswordHash: u.PasswordHash,
		Role:         u.Role,
	}, nil
}
