package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSessionSecret = "0123456789abcdef0123456789abcdef"

func TestSessionRoundTrip(t *testing.T) {
	m := NewSessionManager(testSessionSecret, time.Hour)

	token, err := m.IssueSession("123456")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	portalID, err := m.VerifySession(token)
	require.NoError(t, err)
	assert.Equal(t, "123456", portalID)
}

func TestVerifySessionRejectsWrongSecret(t *testing.T) {
	m := NewSessionManager(testSessionSecret, time.Hour)

	token, err := m.IssueSession("123456")
	require.NoError(t, err)

	other := NewSessionManager("another-secret-another-secret-ab", time.Hour)
	_, err = other.VerifySession(token)
	assert.Error(t, err)
}

func TestVerifySessionRejectsExpired(t *testing.T) {
	m := NewSessionManager(testSessionSecret, -time.Minute)

	token, err := m.IssueSession("123456")
	require.NoError(t, err)

	_, err = m.VerifySession(token)
	assert.Error(t, err)
}

func TestVerifySessionRejectsUnsignedToken(t *testing.T) {
	m := NewSessionManager(testSessionSecret, time.Hour)

	unsigned := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.MapClaims{
		"portal_id": "123456",
		"exp":       time.Now().Add(time.Hour).Unix(),
	})
	token, err := unsigned.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = m.VerifySession(token)
	assert.Error(t, err)
}

func TestVerifySessionRejectsMissingPortal(t *testing.T) {
	m := NewSessionManager(testSessionSecret, time.Hour)

	claims := jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
		"iat": time.Now().Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSessionSecret))
	require.NoError(t, err)

	_, err = m.VerifySession(token)
	assert.Error(t, err)
}

func TestTTLSeconds(t *testing.T) {
	m := NewSessionManager(testSessionSecret, 30*time.Minute)
	assert.Equal(t, 1800, m.TTLSeconds())
}
