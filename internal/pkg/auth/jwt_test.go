package auth

import (
	"testing"
	"time"

	"github.com/linseaa/storefront-gateway/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(secret string) *config.Config {
	cfg := &config.Config{}
	cfg.App.Name = "Storefront Gateway"
	cfg.Session.JWTSecret = secret
	cfg.Session.CookieExpiry = time.Hour
	return cfg
}

func TestSessionTokenRoundTrip(t *testing.T) {
	manager := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef"))

	token, err := manager.GenerateSessionToken("sess-42")
	require.NoError(t, err)

	claims, err := manager.ValidateSessionToken(token)
	require.NoError(t, err)
	assert.Equal(t, "sess-42", claims.SessionID)
	assert.Equal(t, "session", claims.TokenType)
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	signer := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef"))
	verifier := NewJWTManager(testConfig("ffffffffffffffffffffffffffffffff"))

	token, err := signer.GenerateSessionToken("sess-42")
	require.NoError(t, err)

	_, err = verifier.ValidateSessionToken(token)
	require.Error(t, err)
}

func TestValidateRejectsGarbage(t *testing.T) {
	manager := NewJWTManager(testConfig("0123456789abcdef0123456789abcdef"))

	_, err := manager.ValidateSessionToken("not-a-jwt")
	require.Error(t, err)
}

func TestValidateRejectsExpiredToken(t *testing.T) {
	cfg := testConfig("0123456789abcdef0123456789abcdef")
	cfg.Session.CookieExpiry = -time.Minute
	manager := NewJWTManager(cfg)

	token, err := manager.GenerateSessionToken("sess-42")
	require.NoError(t, err)

	_, err = manager.ValidateSessionToken(token)
	require.Error(t, err)
}
