package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func miniredisFor(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	return miniredis.RunT(t)
}

func newMiniClient(t *testing.T) (*miniredis.Miniredis, *Client) {
	t.Helper()
	mr := miniredisFor(t)
	c := New(mr.Addr(), "", 0)
	t.Cleanup(func() { _ = c.Close() })
	return mr, c
}

func TestFixedWindowLimiter_RedisNil_Allows(t *testing.T) {
	l := NewFixedWindowLimiter(nil)

	d, err := l.Allow(context.Background(), "k", 10, time.Minute)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !d.Allowed {
		t.Fatalf("expected allowed when redis disabled")
	}
	if d.Remaining != 10 {
		t.Fatalf("unexpected remaining: %d", d.Remaining)
	}
}

func TestFixedWindowLimiter_LimitNonPositive_Allows(t *testing.T) {
	l := NewFixedWindowLimiter(nil)

	for _, limit := range []int{0, -5} {
		d, err := l.Allow(context.Background(), "k", limit, time.Minute)
		if err != nil || !d.Allowed {
			t.Fatalf("limit=%d should allow, got %+v err=%v", limit, d, err)
		}
	}
}

func TestFixedWindowLimiter_BlocksAfterLimit(t *testing.T) {
	_, c := newMiniClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()
	key := l.WindowKey("auth.login", "10.0.0.1")

	for i := 1; i <= 3; i++ {
		d, err := l.Allow(ctx, key, 3, time.Minute)
		if err != nil {
			t.Fatalf("hit %d: %v", i, err)
		}
		if !d.Allowed || d.Count != i || d.Remaining != 3-i {
			t.Fatalf("hit %d: unexpected decision %+v", i, d)
		}
	}

	d, err := l.Allow(ctx, key, 3, time.Minute)
	if err != nil {
		t.Fatalf("hit 4: %v", err)
	}
	if d.Allowed {
		t.Fatalf("expected 4th hit blocked")
	}
	if d.RetryAfter <= 0 || d.RetryAfter > time.Minute {
		t.Fatalf("unexpected retry-after %s", d.RetryAfter)
	}

	// other identities have their own window
	other, err := l.Allow(ctx, l.WindowKey("auth.login", "10.0.0.2"), 3, time.Minute)
	if err != nil || !other.Allowed {
		t.Fatalf("expected other identity allowed, got %+v err=%v", other, err)
	}
}

func TestFixedWindowLimiter_WindowExpires(t *testing.T) {
	mr, c := newMiniClient(t)
	l := NewFixedWindowLimiter(c)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := l.Allow(ctx, "k", 1, time.Second); err != nil {
			t.Fatalf("allow: %v", err)
		}
	}
	mr.FastForward(2 * time.Second)

	d, err := l.Allow(ctx, "k", 1, time.Second)
	if err != nil || !d.Allowed {
		t.Fatalf("expected fresh window, got %+v err=%v", d, err)
	}
}

func TestFixedWindowLimiter_RedisDown_ReturnsError(t *testing.T) {
	mr, c := newMiniClient(t)
	l := NewFixedWindowLimiter(c)
	mr.Close()

	if _, err := l.Allow(context.Background(), "k", 1, time.Minute); err == nil {
		t.Fatalf("expected error when redis is down")
	}
}
