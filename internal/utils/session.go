package utils

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// SessionManager signs and verifies the browser session cookie that
// remembers which portal a user connected. The cookie is a convenience
// so the frontend does not have to thread the portal id through every
// request; an explicit portalId parameter always wins over it.
type SessionManager struct {
	secret []byte
	ttl    time.Duration
}

// NewSessionManager creates a new session manager
func NewSessionManager(secret string, ttl time.Duration) *SessionManager {
	return &SessionManager{
		secret: []byte(secret),
		ttl:    ttl,
	}
}

// IssueSession signs a session token carrying the portal id.
func (m *SessionManager) IssueSession(portalID string) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"portal_id": portalID,
		"exp":       now.Add(m.ttl).Unix(),
		"iat":       now.Unix(),
		"jti":       uuid.New().String(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session: %w", err)
	}

	return signed, nil
}

// VerifySession validates a session token and returns the portal id.
func (m *SessionManager) VerifySession(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return "", fmt.Errorf("invalid session: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return "", fmt.Errorf("invalid session claims")
	}

	portalID, _ := claims["portal_id"].(string)
	if portalID == "" {
		return "", fmt.Errorf("session carries no portal id")
	}

	return portalID, nil
}

// TTLSeconds returns the session lifetime for cookie max-age.
func (m *SessionManager) TTLSeconds() int {
	return int(m.ttl.Seconds())
}
