package auth

import (
	"errors"
	"testing"
	"time"

	"smartpersona/internal/config"
)

func TestNewManager_RequiresAllSecrets(t *testing.T) {
	cfg := testConfig()
	cfg.AdminRefreshSecret = ""
	if _, err := NewManager(cfg); err == nil {
		t.Fatalf("expected error for missing admin refresh secret")
	}
	if _, err := NewManager(config.AuthConfig{}); err == nil {
		t.Fatalf("expected error for empty config")
	}
}

func TestIssuePair_SelectsTierByRole(t *testing.T) {
	m := newTestManager(t, t0)

	for _, tc := range []struct {
		role Role
		tier Tier
	}{
		{RoleUser, TierUser},
		{RoleUserAndCompany, TierUser},
		{RoleAdmin, TierAdmin},
	} {
		p, err := m.IssuePair(t0, "subject-1", tc.role)
		if err != nil {
			t.Fatalf("issue %s: %v", tc.role, err)
		}
		ac, err := m.Verify(p.AccessToken, tc.tier, TokenTypeAccess, t0)
		if err != nil {
			t.Fatalf("%s access on %s tier: %v", tc.role, tc.tier, err)
		}
		rc, err := m.Verify(p.RefreshToken, tc.tier, TokenTypeRefresh, t0)
		if err != nil {
			t.Fatalf("%s refresh on %s tier: %v", tc.role, tc.tier, err)
		}
		if ac.Subject != "subject-1" || rc.Subject != "subject-1" || ac.Role != tc.role || rc.Role != tc.role {
			t.Fatalf("unexpected claims: %+v %+v", ac, rc)
		}
		if !ac.ExpiresAt.Equal(t0.Add(15*time.Minute)) || !rc.ExpiresAt.Equal(t0.Add(14*24*time.Hour)) {
			t.Fatalf("unexpected expirations: %v %v", ac.ExpiresAt, rc.ExpiresAt)
		}
	}
}

func TestIssuePair_UnknownRolePanics(t *testing.T) {
	m := newTestManager(t, t0)
	defer func() {
		if recover() == nil {
			t.Fatalf("expected panic for unknown role")
		}
	}()
	_, _ = m.IssuePair(t0, "s", Role(42))
}

func TestIssuePair_RejectsEmptySubject(t *testing.T) {
	m := newTestManager(t, t0)
	if _, err := m.IssuePair(t0, "", RoleUser); err == nil {
		t.Fatalf("expected error for empty subject")
	}
}

func TestIssuePair_RotationYieldsDistinctTokens(t *testing.T) {
	m := newTestManager(t, t0)
	a, _ := m.IssuePair(t0, "s", RoleUser)
	b, _ := m.IssuePair(t0, "s", RoleUser)
	if a.AccessToken == b.AccessToken || a.RefreshToken == b.RefreshToken {
		t.Fatalf("expected distinct tokens for separate issuances")
	}
}

func TestVerify_RejectsWrongTokenType(t *testing.T) {
	m := newTestManager(t, t0)
	p, err := m.IssuePair(t0, "s", RoleUser)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	// The refresh token is signed with the refresh key, so checking it as an
	// access token fails on the signature first.
	if _, err := m.Verify(p.RefreshToken, TierUser, TokenTypeAccess, t0); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}

	// Same key, wrong kind claim.
	c := newClaims(t0, "s", RoleUser, TokenTypeRefresh, time.Minute)
	tok, _ := Encode(c, m.secrets.User.Access)
	if _, err := m.Verify(tok, TierUser, TokenTypeAccess, t0); !errors.Is(err, ErrMalformed) {
		t.Fatalf("expected ErrMalformed, got %v", err)
	}
}
