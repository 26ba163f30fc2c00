package util

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newMiniRedis(t *testing.T) *redis.Client {
	t.Helper()
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(s.Close)
	return redis.NewClient(&redis.Options{Addr: s.Addr()})
}

func TestOTPAttemptAllowed_Limit(t *testing.T) {
	rdb := newMiniRedis(t)
	ctx := context.Background()

	for i := 1; i <= otpAttemptLimit; i++ {
		allowed, err := OTPAttemptAllowed(ctx, rdb, "user@example.com")
		if err != nil {
			t.Fatalf("attempt %d: %v", i, err)
		}
		if !allowed {
			t.Fatalf("attempt %d denied, want allowed", i)
		}
	}

	allowed, err := OTPAttemptAllowed(ctx, rdb, "user@example.com")
	if err != nil {
		t.Fatalf("attempt over limit: %v", err)
	}
	if allowed {
		t.Fatalf("attempt %d allowed, want denied", otpAttemptLimit+1)
	}
}

func TestOTPAttemptAllowed_PerEmail(t *testing.T) {
	rdb := newMiniRedis(t)
	ctx := context.Background()

	for i := 0; i <= otpAttemptLimit; i++ {
		_, _ = OTPAttemptAllowed(ctx, rdb, "first@example.com")
	}

	allowed, err := OTPAttemptAllowed(ctx, rdb, "second@example.com")
	if err != nil {
		t.Fatalf("other email attempt: %v", err)
	}
	if !allowed {
		t.Fatal("limit leaked across emails")
	}
}

func TestOTPAttemptAllowed_NilClientAllows(t *testing.T) {
	allowed, err := OTPAttemptAllowed(context.Background(), nil, "user@example.com")
	if err != nil {
		t.Fatalf("nil client: %v", err)
	}
	if !allowed {
		t.Fatal("nil client denied, want no-op allow")
	}
}

func TestOTPAttemptAllowed_WindowExpires(t *testing.T) {
	s, err := miniredis.Run()
	if err != nil {
		t.Fatalf("start miniredis: %v", err)
	}
	t.Cleanup(s.Close)
	rdb := redis.NewClient(&redis.Options{Addr: s.Addr()})
	ctx := context.Background()

	for i := 0; i <= otpAttemptLimit; i++ {
		_, _ = OTPAttemptAllowed(ctx, rdb, "user@example.com")
	}
	if allowed, _ := OTPAttemptAllowed(ctx, rdb, "user@example.com"); allowed {
		t.Fatal("expected denial before window expiry")
	}

	s.FastForward(otpAttemptWindow + 1)

	allowed, err := OTPAttemptAllowed(ctx, rdb, "user@example.com")
	if err != nil {
		t.Fatalf("attempt after expiry: %v", err)
	}
	if !allowed {
		t.Fatal("counter did not reset after the window elapsed")
	}
}
