package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// mockScripter responde EVALSHA como si el script ya estuviera cargado.
type mockScripter struct {
	redis.Scripter
	keys   []string
	args   []interface{}
	result int64
	err    error
}

func (m *mockScripter) EvalSha(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	m.keys = keys
	m.args = args
	cmd := redis.NewCmd(ctx)
	if m.err != nil {
		cmd.SetErr(m.err)
		return cmd
	}
	cmd.SetVal(m.result)
	return cmd
}

func (m *mockScripter) Eval(ctx context.Context, _ string, keys []string, args ...interface{}) *redis.Cmd {
	return m.EvalSha(ctx, "", keys, args...)
}

func TestRedisLoginRateLimiter(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name   string
		key    string
		result int64
		err    error
		want   bool
	}{
		{name: "within max", key: " User@Example.com ", result: 3, want: true},
		{name: "over max", key: "user@example.com", result: 4, want: false},
		{name: "blank key", key: "   ", result: 1, want: false},
		{name: "redis error fails open", key: "user@example.com", err: errors.New("redis down"), want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &mockScripter{result: tt.result, err: tt.err}
			l := newRedisLoginRateLimiter(s, 2*time.Minute, 3)
			if got := l.Allow(ctx, tt.key); got != tt.want {
				t.Fatalf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestRedisLoginRateLimiter_KeyAndWindow(t *testing.T) {
	s := &mockScripter{result: 1}
	l := newRedisLoginRateLimiter(s, 2*time.Minute, 3)

	if !l.Allow(context.Background(), " User@Example.com ") {
		t.Fatalf("expected first attempt allowed")
	}
	if len(s.keys) != 1 || s.keys[0] != "login:rl:user@example.com" {
		t.Fatalf("unexpected key, got %v", s.keys)
	}
	if len(s.args) != 1 || s.args[0] != int64(120000) {
		t.Fatalf("expected window of 120000ms, got %v", s.args)
	}
}

func TestRedisLoginRateLimiter_NilFailsOpen(t *testing.T) {
	var l *redisLoginRateLimiter
	if !l.Allow(context.Background(), "user@example.com") {
		t.Fatalf("expected nil limiter to allow")
	}
	if NewRedisLoginRateLimiter(nil, time.Minute, 3) != nil {
		t.Fatalf("expected nil limiter without a client")
	}
}

func newTestMemoryLimiter(window time.Duration, max int, now *time.Time) *memoryLoginRateLimiter {
	l := NewLoginRateLimiter(window, max).(*memoryLoginRateLimiter)
	l.now = func() time.Time { return *now }
	return l
}

func TestMemoryLoginRateLimiter(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	l := newTestMemoryLimiter(time.Minute, 2, &now)

	if !l.Allow(ctx, "a@x.com") || !l.Allow(ctx, "A@X.com ") {
		t.Fatalf("expected first two attempts allowed")
	}
	if l.Allow(ctx, "a@x.com") {
		t.Fatalf("expected third attempt denied")
	}
	if !l.Allow(ctx, "b@x.com") {
		t.Fatalf("expected other keys unaffected")
	}
	if l.Allow(ctx, " ") {
		t.Fatalf("expected blank key denied")
	}

	now = now.Add(30 * time.Second)
	if l.Allow(ctx, "a@x.com") {
		t.Fatalf("expected attempts inside the window to still count")
	}

	now = now.Add(31 * time.Second)
	if !l.Allow(ctx, "a@x.com") {
		t.Fatalf("expected window to slide")
	}
}

func TestMemoryLoginRateLimiter_EvictsStaleKeys(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	l := newTestMemoryLimiter(time.Minute, 3, &now)

	for i := 0; i < 5000; i++ {
		l.Allow(ctx, fmt.Sprintf("spray-%d@x.com", i))
	}
	if len(l.hits) != 5000 {
		t.Fatalf("expected 5000 tracked keys, got %d", len(l.hits))
	}

	now = now.Add(time.Minute + time.Second)
	if !l.Allow(ctx, "a@x.com") {
		t.Fatalf("expected fresh key allowed")
	}
	if len(l.hits) != 1 {
		t.Fatalf("expected stale keys evicted, %d remain", len(l.hits))
	}
}

func TestMemoryLoginRateLimiter_KeepsActiveKeysOnSweep(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 10, 18, 9, 0, 0, 0, time.UTC)
	l := newTestMemoryLimiter(time.Minute, 1, &now)

	l.Allow(ctx, "old@x.com")
	now = now.Add(50 * time.Second)
	l.Allow(ctx, "busy@x.com")

	now = now.Add(20 * time.Second)
	if l.Allow(ctx, "busy@x.com") {
		t.Fatalf("expected busy key still limited after sweep")
	}
	if _, ok := l.hits["old@x.com"]; ok {
		t.Fatalf("expected old key evicted")
	}
}
