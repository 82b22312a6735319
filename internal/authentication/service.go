package authentication

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"smartpersona/internal/audit"
	"smartpersona/internal/auth"
	"smartpersona/internal/users"
	"smartpersona/pkg/logger"
)

var (
	// ErrInvalidCredentials covers unknown users, wrong passwords and tier
	// mismatches alike.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUnauthorized is returned for any refresh token that does not verify.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrTooManyAttempts is returned when the login throttle is exhausted.
	ErrTooManyAttempts = errors.New("too many login attempts")
)

// CredentialStore looks up login credentials. Absence is users.ErrNotFound.
type CredentialStore interface {
	FindCredentialByUsername(ctx context.Context, username string) (users.Credential, error)
}

// PasswordHasher verifies plaintext passwords against stored hashes.
type PasswordHasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, encoded string) (bool, error)
}

// AttemptLimiter throttles login attempts per key.
type AttemptLimiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Reset(ctx context.Context, key string) error
}

// Service runs the login and refresh workflows of both tiers.
type Service struct {
	store   CredentialStore
	hasher  PasswordHasher
	tokens  *auth.Manager
	limiter AttemptLimiter
	audit   *audit.Service

	decoyOnce sync.Once
	decoy     string
}

// NewService wires the workflow. limiter and auditor may be nil.
func NewService(store CredentialStore, hasher PasswordHasher, tokens *auth.Manager, limiter AttemptLimiter, auditor *audit.Service) *Service {
	return &Service{
		store:   store,
		hasher:  hasher,
		tokens:  tokens,
		limiter: limiter,
		audit:   auditor,
	}
}

type LoginRequest struct {
	Username string
	Password string
	// IPAddress is recorded in the audit trail only.
	IPAddress string
}

/* ===================== LOGIN ===================== */

// Login verifies credentials and issues a passport. On the admin tier the
// stored role must be Admin even when the password matches.
func (s *Service) Login(ctx context.Context, tier auth.Tier, req LoginRequest) (auth.Passport, error) {
	log := logger.From(ctx).With("tier", tier.String())
	key := throttleKey(tier, req.Username)

	if s.limiter != nil {
		allowed, err := s.limiter.Allow(ctx, key)
		if err != nil {
			// Fail open: an unavailable throttle must not lock everyone out.
			log.Warn("login throttle unavailable", "err", err)
		} else if !allowed {
			s.record(ctx, log, audit.EventLoginThrottled, tier, req.Username, "", "", req.IPAddress, "")
			return auth.Passport{}, ErrTooManyAttempts
		}
	}

	cred, err := s.store.FindCredentialByUsername(ctx, req.Username)
	if errors.Is(err, users.ErrNotFound) {
		// Spend the same hashing work as a real comparison.
		_, _ = s.hasher.Verify(req.Password, s.decoyHash())
		s.record(ctx, log, audit.EventLoginFailed, tier, req.Username, "", "", req.IPAddress, "unknown username")
		return auth.Passport{}, ErrInvalidCredentials
	}
	if err != nil {
		return auth.Passport{}, fmt.Errorf("lookup credential: %w", err)
	}

	ok, err := s.hasher.Verify(req.Password, cred.PasswordHash)
	if err != nil {
		log.Error("stored password hash unusable", "subject", cred.SubjectID, "err", err)
		s.record(ctx, log, audit.EventLoginFailed, tier, req.Username, cred.SubjectID, cred.Role.String(), req.IPAddress, "unusable hash")
		return auth.Passport{}, ErrInvalidCredentials
	}
	if !ok {
		s.record(ctx, log, audit.EventLoginFailed, tier, req.Username, cred.SubjectID, cred.Role.String(), req.IPAddress, "wrong password")
		return auth.Passport{}, ErrInvalidCredentials
	}
	if tier == auth.TierAdmin && cred.Role != auth.RoleAdmin {
		s.record(ctx, log, audit.EventLoginFailed, tier, req.Username, cred.SubjectID, cred.Role.String(), req.IPAddress, "role not admin")
		return auth.Passport{}, ErrInvalidCredentials
	}
	if !cred.Role.Valid() {
		return auth.Passport{}, fmt.Errorf("credential %s has no valid role", cred.SubjectID)
	}

	passport, err := s.tokens.IssuePair(s.tokens.Now(), cred.SubjectID, cred.Role)
	if err != nil {
		return auth.Passport{}, fmt.Errorf("issue tokens: %w", err)
	}

	if s.limiter != nil {
		if err := s.limiter.Reset(ctx, key); err != nil {
			log.Warn("login throttle reset failed", "err", err)
		}
	}
	s.record(ctx, log, audit.EventLoginSucceeded, tier, req.Username, cred.SubjectID, cred.Role.String(), req.IPAddress, "")
	return passport, nil
}

/* ===================== REFRESH ===================== */

// Refresh verifies a refresh token of the given tier and rotates it into a
// brand-new passport. Any verification failure is terminal for the token.
func (s *Service) Refresh(ctx context.Context, tier auth.Tier, refreshToken, ip string) (auth.Passport, error) {
	log := logger.From(ctx).With("tier", tier.String())

	claims, err := s.tokens.Verify(refreshToken, tier, auth.TokenTypeRefresh, s.tokens.Now())
	if err != nil {
		log.Debug("refresh token rejected", "reason", err.Error())
		s.recordRefresh(ctx, log, audit.EventRefreshRejected, tier, "", "", ip)
		return auth.Passport{}, ErrUnauthorized
	}
	// A tier's refresh key may only mint tokens of its own tier.
	if claims.Role.Tier() != tier {
		log.Debug("refresh token rejected", "reason", "role outside tier")
		s.recordRefresh(ctx, log, audit.EventRefreshRejected, tier, claims.Subject, claims.Role.String(), ip)
		return auth.Passport{}, ErrUnauthorized
	}

	passport, err := s.tokens.IssuePair(s.tokens.Now(), claims.Subject, claims.Role)
	if err != nil {
		return auth.Passport{}, fmt.Errorf("issue tokens: %w", err)
	}
	s.recordRefresh(ctx, log, audit.EventTokenRefreshed, tier, claims.Subject, claims.Role.String(), ip)
	return passport, nil
}

func (s *Service) decoyHash() string {
	s.decoyOnce.Do(func() {
		h, err := s.hasher.Hash("decoy-password-for-timing")
		if err == nil {
			s.decoy = h
		}
	})
	return s.decoy
}

func (s *Service) record(ctx context.Context, log *slog.Logger, typ audit.EventType, tier auth.Tier, username, subject, role, ip, msg string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogLogin(ctx, typ, tier.String(), username, subject, role, ip, msg); err != nil {
		log.Warn("audit append failed", "type", string(typ), "err", err)
	}
}

func (s *Service) recordRefresh(ctx context.Context, log *slog.Logger, typ audit.EventType, tier auth.Tier, subject, role, ip string) {
	if s.audit == nil {
		return
	}
	if err := s.audit.LogRefresh(ctx, typ, tier.String(), subject, role, ip); err != nil {
		log.Warn("audit append failed", "type", string(typ), "err", err)
	}
}

func throttleKey(tier auth.Tier, username string) string {
	return "login:" + tier.String() + ":" + strings.ToLower(strings.TrimSpace(username))
}
