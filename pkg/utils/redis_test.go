package utils

import (
	"context"
	"testing"
	"time"
)

func TestWindowScriptInitialized(t *testing.T) {
	if windowIncrScript == nil {
		t.Fatalf("expected script to be initialized")
	}
}

func TestIncrWindowCounter_ValidatesArgs(t *testing.T) {
	ctx := context.Background()
	if _, err := IncrWindowCounter(ctx, nil, "k", time.Minute); err == nil {
		t.Fatalf("expected error for nil client")
	}
	if err := ResetWindowCounter(ctx, nil, "k"); err == nil {
		t.Fatalf("expected error for nil client")
	}
}

func TestOpenRedis_RequiresAddr(t *testing.T) {
	if _, err := OpenRedis(context.Background(), RedisConfig{}); err == nil {
		t.Fatalf("expected error for empty addr")
	}
}
