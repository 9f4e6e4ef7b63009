package jwt

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestConfig(t *testing.T) {
	t.Helper()
	Init("unit-test-secret", 15, 168)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateAccessToken("user-uuid-1")
	require.NoError(t, err)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-uuid-1", claims.UserID)
	assert.Equal(t, SubjectAccess, claims.Subject)
	assert.Empty(t, claims.TokenID)
}

func TestRefreshTokenCarriesTokenID(t *testing.T) {
	initTestConfig(t)

	token, tokenID, err := GenerateRefreshToken("user-uuid-2")
	require.NoError(t, err)
	require.NotEmpty(t, tokenID)

	claims, err := ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, SubjectRefresh, claims.Subject)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestParseTokenRejectsForeignIssuer(t *testing.T) {
	initTestConfig(t)

	// 同一密钥但不同签发方，解析时应被 issuer 校验拦下
	foreign := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		UserID: "user-uuid-3",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Minute)),
			Issuer:    "other_service",
			Subject:   SubjectAccess,
		},
	})
	signed, err := foreign.SignedString([]byte("unit-test-secret"))
	require.NoError(t, err)

	_, err = ParseToken(signed)
	assert.Error(t, err)
}

func TestParseTokenRejectsTamperedSignature(t *testing.T) {
	initTestConfig(t)

	token, err := GenerateAccessToken("user-uuid-4")
	require.NoError(t, err)

	_, err = ParseToken(token + "x")
	assert.Error(t, err)
}
