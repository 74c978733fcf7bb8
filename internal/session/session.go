// Package session implements cookie-session management. The cookie carries
// a signed token referencing a server-side Redis record, so logout and
// account deletion can revoke a session immediately.
package session

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"warble/internal/observability"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie.
	CookieName = "warble_session"

	// TTL is the session lifetime. The Redis record is refreshed on each
	// authenticated request.
	TTL = 7 * 24 * time.Hour

	keyPrefix = "sess:"
)

// ErrNoSession indicates a missing, expired, or revoked session.
var ErrNoSession = errors.New("no active session")

// Manager creates, resolves, and destroys sessions. When the Redis client
// is nil the manager degrades to stateless signed-token sessions: tokens
// remain valid until expiry and cannot be revoked server-side.
type Manager struct {
	redis  *redis.Client
	secret []byte
}

// NewManager returns a Manager signing tokens with the given secret.
func NewManager(client *redis.Client, secret string) *Manager {
	return &Manager{redis: client, secret: []byte(secret)}
}

// Create establishes a session for the user and returns the signed cookie token.
func (m *Manager) Create(ctx context.Context, userID uint) (string, error) {
	sid := uuid.New().String()

	if m.redis != nil {
		if err := m.redis.Set(ctx, keyPrefix+sid, userID, TTL).Err(); err != nil {
			observability.RedisErrors.WithLabelValues("set").Inc()
			return "", fmt.Errorf("store session: %w", err)
		}
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sid": sid,
		"sub": strconv.FormatUint(uint64(userID), 10),
		"iat": now.Unix(),
		"exp": now.Add(TTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign session token: %w", err)
	}

	observability.SessionsActive.Inc()
	return token, nil
}

// Resolve validates a cookie token and returns the authenticated user ID.
// Returns ErrNoSession for any invalid, expired, or revoked token.
func (m *Manager) Resolve(ctx context.Context, token string) (uint, error) {
	sid, userID, err := m.parse(token)
	if err != nil {
		return 0, ErrNoSession
	}

	if m.redis == nil {
		return userID, nil
	}

	stored, err := m.redis.Get(ctx, keyPrefix+sid).Uint64()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			observability.RedisErrors.WithLabelValues("get").Inc()
		}
		return 0, ErrNoSession
	}
	if uint(stored) != userID {
		return 0, ErrNoSession
	}

	// Sliding expiry: keep active sessions alive.
	if err := m.redis.Expire(ctx, keyPrefix+sid, TTL).Err(); err != nil {
		observability.RedisErrors.WithLabelValues("expire").Inc()
	}

	return userID, nil
}

// Destroy revokes the session referenced by the token. Destroying an
// already-expired or unknown session is a no-op.
func (m *Manager) Destroy(ctx context.Context, token string) error {
	sid, _, err := m.parse(token)
	if err != nil {
		return nil
	}
	if m.redis == nil {
		return nil
	}
	deleted, err := m.redis.Del(ctx, keyPrefix+sid).Result()
	if err != nil {
		observability.RedisErrors.WithLabelValues("del").Inc()
		return fmt.Errorf("destroy session: %w", err)
	}
	if deleted > 0 {
		observability.SessionsActive.Dec()
	}
	return nil
}

// parse verifies the token signature and extracts the session ID and user ID.
func (m *Manager) parse(token string) (string, uint, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", 0, ErrNoSession
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", 0, ErrNoSession
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", 0, ErrNoSession
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return "", 0, ErrNoSession
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil || userID == 0 {
		return "", 0, ErrNoSession
	}

	return sid, uint(userID), nil
}
