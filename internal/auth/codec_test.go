package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	secret := []byte("k1")
	for _, role := range []Role{RoleUser, RoleUserAndCompany, RoleAdmin} {
		for _, ttl := range []time.Duration{time.Second, 15 * time.Minute, 14 * 24 * time.Hour} {
			in := newClaims(t0, "9b2f4a4e-0d6c-4bb1-9c55-6f3f6f0a2a10", role, TokenTypeAccess, ttl)

			tok, err := Encode(in, secret)
			if err != nil {
				t.Fatalf("encode: %v", err)
			}
			out, err := Decode(tok, secret, t0.Add(ttl-time.Nanosecond))
			if err != nil {
				t.Fatalf("decode %s/%s: %v", role, ttl, err)
			}
			if out.Subject != in.Subject || out.Role != in.Role || out.TokenType != in.TokenType || out.ID != in.ID {
				t.Fatalf("claims changed: in=%+v out=%+v", in, out)
			}
			if !out.IssuedAt.Equal(in.IssuedAt.Time) || !out.ExpiresAt.Equal(in.ExpiresAt.Time) {
				t.Fatalf("timestamps changed: in=%+v out=%+v", in, out)
			}
		}
	}
}

func TestEncodeIsDeterministic(t *testing.T) {
	c := newClaims(t0, "s", RoleUser, TokenTypeAccess, time.Minute)
	a, _ := Encode(c, []byte("k"))
	b, _ := Encode(c, []byte("k"))
	if a != b {
		t.Fatalf("expected identical tokens for identical input")
	}
}

func TestDecodeTierIsolation(t *testing.T) {
	m := newTestManager(t, t0)
	user := m.secrets.User
	admin := m.secrets.Admin

	userPair, err := IssuePair(t0, "u", RoleUserAndCompany, user, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	adminPair, err := IssuePair(t0, "a", RoleAdmin, admin, time.Minute, time.Hour)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name   string
		token  string
		secret []byte
	}{
		{"user access vs admin access", userPair.AccessToken, admin.Access},
		{"user access vs admin refresh", userPair.AccessToken, admin.Refresh},
		{"user refresh vs admin refresh", userPair.RefreshToken, admin.Refresh},
		{"admin access vs user access", adminPair.AccessToken, user.Access},
		{"admin refresh vs user refresh", adminPair.RefreshToken, user.Refresh},
		{"user access vs user refresh", userPair.AccessToken, user.Refresh},
	}
	for _, tc := range cases {
		if _, err := Decode(tc.token, tc.secret, t0); !errors.Is(err, ErrInvalidSignature) {
			t.Fatalf("%s: expected ErrInvalidSignature, got %v", tc.name, err)
		}
	}
}

func TestDecodeExpired(t *testing.T) {
	secret := []byte("k")
	tok, err := Encode(newClaims(t0, "s", RoleUser, TokenTypeAccess, time.Minute), secret)
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	if _, err := Decode(tok, secret, t0.Add(time.Minute)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired exactly at expiry, got %v", err)
	}
	if _, err := Decode(tok, secret, t0.Add(time.Minute+time.Second)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired after expiry, got %v", err)
	}
	// Wrong key wins over expiry.
	if _, err := Decode(tok, []byte("other"), t0.Add(time.Hour)); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}

func TestDecodeMalformed(t *testing.T) {
	secret := []byte("k")
	for _, s := range []string{"", "not-a-token", "a.b.c", "a.b"} {
		if _, err := Decode(s, secret, t0); !errors.Is(err, ErrMalformed) {
			t.Fatalf("%q: expected ErrMalformed, got %v", s, err)
		}
	}
}

func TestDecodeRejectsUnknownRoleAndMissingSubject(t *testing.T) {
	secret := []byte("k")

	raw := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":        "s",
		"role":       "superuser",
		"token_type": "access",
		"iat":        t0.Unix(),
		"exp":        t0.Add(time.Hour).Unix(),
	})
	tok, _ := raw.SignedString(secret)
	if _, err := Decode(tok, secret, t0); !errors.Is(err, ErrMalformed) {
		t.Fatalf("unknown role: expected ErrMalformed, got %v", err)
	}

	raw = jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"role":       "user",
		"token_type": "access",
		"iat":        t0.Unix(),
		"exp":        t0.Add(time.Hour).Unix(),
	})
	tok, _ = raw.SignedString(secret)
	if _, err := Decode(tok, secret, t0); !errors.Is(err, ErrMalformed) {
		t.Fatalf("missing subject: expected ErrMalformed, got %v", err)
	}
}

func TestDecodeRejectsUnsignedToken(t *testing.T) {
	raw := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"sub": "s", "role": "admin", "token_type": "access",
		"iat": t0.Unix(), "exp": t0.Add(time.Hour).Unix(),
	})
	tok, err := raw.SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}
	if _, err := Decode(tok, []byte("k"), t0); !errors.Is(err, ErrInvalidSignature) {
		t.Fatalf("expected ErrInvalidSignature, got %v", err)
	}
}
