package auth

import (
	"errors"
	"time"

	"smartpersona/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager issues and verifies tokens for both tiers. It holds only
// read-only key material and is safe for concurrent use.
type Manager struct {
	secrets    Secrets
	accessTTL  time.Duration
	refreshTTL time.Duration
	clock      func() time.Time
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.UserSecret == "" || cfg.UserRefreshSecret == "" {
		return nil, errors.New("JWT_USER_SECRET and JWT_USER_REFRESH_SECRET are required")
	}
	if cfg.AdminSecret == "" || cfg.AdminRefreshSecret == "" {
		return nil, errors.New("JWT_ADMIN_SECRET and JWT_ADMIN_REFRESH_SECRET are required")
	}
	if cfg.AccessTokenTTL <= 0 || cfg.RefreshTokenTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return &Manager{
		secrets: Secrets{
			User:  SecretPair{Access: []byte(cfg.UserSecret), Refresh: []byte(cfg.UserRefreshSecret)},
			Admin: SecretPair{Access: []byte(cfg.AdminSecret), Refresh: []byte(cfg.AdminRefreshSecret)},
		},
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		clock:      time.Now,
	}, nil
}

// WithClock returns a copy of m that reads the current time from clock.
func (m *Manager) WithClock(clock func() time.Time) *Manager {
	cp := *m
	cp.clock = clock
	return &cp
}

func (m *Manager) Now() time.Time { return m.clock() }

func (m *Manager) AccessTTL() time.Duration { return m.accessTTL }

/* ===================== ISSUE TOKENS ===================== */

// IssuePair mints a passport for subject, signed with the pair of role's tier.
func (m *Manager) IssuePair(now time.Time, subject string, role Role) (Passport, error) {
	return IssuePair(now, subject, role, m.secrets.For(role.Tier()), m.accessTTL, m.refreshTTL)
}

// IssuePair signs an access and a refresh token for subject with the two
// halves of pair. Both share subject and role and expire independently.
func IssuePair(now time.Time, subject string, role Role, pair SecretPair, accessTTL, refreshTTL time.Duration) (Passport, error) {
	if subject == "" {
		return Passport{}, errors.New("auth: subject is required")
	}
	if accessTTL <= 0 || refreshTTL <= 0 {
		return Passport{}, errors.New("auth: token TTLs must be positive")
	}

	access, err := Encode(newClaims(now, subject, role, TokenTypeAccess, accessTTL), pair.Access)
	if err != nil {
		return Passport{}, err
	}
	refresh, err := Encode(newClaims(now, subject, role, TokenTypeRefresh, refreshTTL), pair.Refresh)
	if err != nil {
		return Passport{}, err
	}

	return Passport{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

func newClaims(now time.Time, subject string, role Role, kind TokenType, ttl time.Duration) Claims {
	if !role.Valid() {
		panic("auth: issuing token for " + role.String())
	}
	return Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			// jti keeps tokens minted within the same second distinct.
			ID: uuid.NewString(),
		},
		Role:      role,
		TokenType: kind,
	}
}

/* ===================== VERIFY TOKEN ===================== */

// Verify decodes tokenString with the kind half of tier's secret pair.
func (m *Manager) Verify(tokenString string, tier Tier, kind TokenType, now time.Time) (Claims, error) {
	claims, err := Decode(tokenString, m.secrets.For(tier).key(kind), now)
	if err != nil {
		return Claims{}, err
	}
	if claims.TokenType != kind {
		return Claims{}, ErrMalformed
	}
	return claims, nil
}
