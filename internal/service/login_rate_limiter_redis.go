package service

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

// loginAttemptScript es una ventana fija: el primer intento fija el TTL en ms.
var loginAttemptScript = redis.NewScript(`
local attempts = redis.call("INCR", KEYS[1])
if attempts == 1 then
  redis.call("PEXPIRE", KEYS[1], ARGV[1])
end
return attempts
`)

// redisCallTimeout acota cada llamada a Redis para no frenar el login.
const redisCallTimeout = 500 * time.Millisecond

const loginLimiterPrefix = "login:rl:"

// redisLoginRateLimiter comparte el conteo de intentos entre instancias.
// Si Redis falla deja pasar el intento: bcrypt sigue acotando el costo.
type redisLoginRateLimiter struct {
	scripter redis.Scripter
	window   time.Duration
	max      int
}

func NewRedisLoginRateLimiter(client *redis.Client, window time.Duration, max int) LoginRateLimiter {
	if client == nil {
		return nil
	}
	return newRedisLoginRateLimiter(client, window, max)
}

func newRedisLoginRateLimiter(scripter redis.Scripter, window time.Duration, max int) *redisLoginRateLimiter {
	if window < time.Millisecond {
		window = time.Minute
	}
	if max <= 0 {
		max = 1
	}
	return &redisLoginRateLimiter{scripter: scripter, window: window, max: max}
}

func (l *redisLoginRateLimiter) Allow(ctx context.Context, key string) bool {
	key = limiterKey(key)
	if key == "" {
		return false
	}
	if l == nil || l.scripter == nil {
		return true
	}

	ctx, cancel := context.WithTimeout(ctx, redisCallTimeout)
	defer cancel()

	attempts, err := loginAttemptScript.Run(ctx, l.scripter, []string{loginLimiterPrefix + key}, l.window.Milliseconds()).Int()
	if err != nil {
		return true
	}
	return attempts <= l.max
}
