package service

import (
	"context"
	"sync"
	"time"
)

// LoginRateLimiter limita intentos de login por email normalizado.
type LoginRateLimiter interface {
	Allow(ctx context.Context, key string) bool
}

// limiterKey normaliza la clave igual que el login; vacia significa rechazar.
func limiterKey(key string) string {
	return normalizeEmail(key)
}

// memoryLoginRateLimiter es una ventana deslizante por proceso. Las claves
// sin intentos dentro de la ventana se descartan en un barrido que corre
// como mucho una vez por ventana.
type memoryLoginRateLimiter struct {
	mu        sync.Mutex
	window    time.Duration
	max       int
	hits      map[string][]time.Time
	lastSweep time.Time
	now       func() time.Time
}

// NewLoginRateLimiter crea el limitador en memoria usado cuando no hay Redis.
func NewLoginRateLimiter(window time.Duration, max int) LoginRateLimiter {
	if max <= 0 {
		max = 1
	}
	if window <= 0 {
		window = time.Minute
	}
	return &memoryLoginRateLimiter{
		window: window,
		max:    max,
		hits:   make(map[string][]time.Time),
		now:    func() time.Time { return time.Now().UTC() },
	}
}

func (l *memoryLoginRateLimiter) Allow(_ context.Context, key string) bool {
	key = limiterKey(key)
	if key == "" {
		return false
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	cutoff := now.Add(-l.window)
	if now.Sub(l.lastSweep) >= l.window {
		l.sweep(cutoff)
		l.lastSweep = now
	}

	recent := pruneBefore(l.hits[key], cutoff)
	if len(recent) >= l.max {
		l.hits[key] = recent
		return false
	}
	l.hits[key] = append(recent, now)
	return true
}

func (l *memoryLoginRateLimiter) sweep(cutoff time.Time) {
	for key, attempts := range l.hits {
		recent := pruneBefore(attempts, cutoff)
		if len(recent) == 0 {
			delete(l.hits, key)
			continue
		}
		l.hits[key] = recent
	}
}

// pruneBefore descarta los intentos previos a cutoff; attempts esta ordenado.
func pruneBefore(attempts []time.Time, cutoff time.Time) []time.Time {
	i := 0
	for i < len(attempts) && !attempts[i].After(cutoff) {
		i++
	}
	return attempts[i:]
}
