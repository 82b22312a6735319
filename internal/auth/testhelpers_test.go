package auth

import (
	"testing"
	"time"

	"smartpersona/internal/config"
)

var t0 = time.Unix(1700000000, 0).UTC()

func testConfig() config.AuthConfig {
	return config.AuthConfig{
		UserSecret:         "user-access",
		UserRefreshSecret:  "user-refresh",
		AdminSecret:        "admin-access",
		AdminRefreshSecret: "admin-refresh",
		AccessTokenTTL:     15 * time.Minute,
		RefreshTokenTTL:    14 * 24 * time.Hour,
	}
}

func newTestManager(t *testing.T, now time.Time) *Manager {
	t.Helper()
	m, err := NewManager(testConfig())
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m.WithClock(func() time.Time { return now })
}
