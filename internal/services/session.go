package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const sessionTTL = 30 * 24 * time.Hour

// SessionManager issues browser sessions as signed JWT cookies whose
// only claim of interest is a server-side session ID. The ID maps to a
// user in Redis, so logout revokes the session regardless of the
// cookie's lifetime.
type SessionManager struct {
	secret []byte
	redis  *redis.Client
}

func NewSessionManager(secret string, redisClient *redis.Client) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		redis:  redisClient,
	}
}

// Issue creates a session for the user and returns the signed cookie
// value.
func (m *SessionManager) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	sid, err := generateToken(32)
	if err != nil {
		return "", err
	}

	err = m.redis.Set(ctx, "session:"+sid, userID.String(), sessionTTL).Err()
	if err != nil {
		return "", fmt.Errorf("failed to store session: %w", err)
	}

	claims := jwt.MapClaims{
		"sid": sid,
		"exp": time.Now().Add(sessionTTL).Unix(),
		"iat": time.Now().Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Resolve verifies the cookie value and looks up the bound user.
func (m *SessionManager) Resolve(ctx context.Context, cookieValue string) (uuid.UUID, error) {
	sid, err := m.parseSessionID(cookieValue)
	if err != nil {
		return uuid.Nil, &UnauthorizedError{Message: "Invalid session"}
	}

	userIDStr, err := m.redis.Get(ctx, "session:"+sid).Result()
	if err != nil {
		return uuid.Nil, &UnauthorizedError{Message: "Session expired"}
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid user ID in session: %w", err)
	}
	return userID, nil
}

// Revoke deletes the server-side session. A missing or invalid cookie
// is not an error; there is nothing to revoke.
func (m *SessionManager) Revoke(ctx context.Context, cookieValue string) error {
	sid, err := m.parseSessionID(cookieValue)
	if err != nil {
		return nil
	}
	return m.redis.Del(ctx, "session:"+sid).Err()
}

func (m *SessionManager) parseSessionID(tokenStr string) (string, error) {
	token, err := jwt.Parse(tokenStr, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return m.secret, nil
	})
	if err != nil {
		return "", err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", jwt.ErrTokenInvalidClaims
	}

	sid, ok := claims["sid"].(string)
	if !ok || sid == "" {
		return "", jwt.ErrTokenInvalidClaims
	}
	return sid, nil
}

func generateToken(bytes int) (string, error) {
	b := make([]byte, bytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate token: %w", err)
	}
	return hex.EncodeToString(b), nil
}
