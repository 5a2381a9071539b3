package auth_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/straye-as/elevator-api/internal/auth"
	"github.com/straye-as/elevator-api/internal/config"
	"github.com/straye-as/elevator-api/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "unit-test-signing-secret"

func newIssuer() *auth.TokenIssuer {
	return auth.NewTokenIssuer(&config.AuthConfig{
		JWTSecret:       testSecret,
		TokenTTLMinutes: 30,
		Issuer:          "elevator-api",
	})
}

func testUser() *domain.User {
	return &domain.User{
		ID:        42,
		Username:  "kari",
		Email:     "kari@example.com",
		FirstName: "Kari",
		LastName:  "Nordmann",
		Role:      domain.UserRoleTechnician,
	}
}

func TestTokenIssuer_IssueAndValidate(t *testing.T) {
	issuer := newIssuer()

	token, expiresAt, err := issuer.Issue(testUser())
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(30*time.Minute), expiresAt, 5*time.Second)

	userCtx, err := issuer.Validate(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), userCtx.UserID)
	assert.Equal(t, "kari", userCtx.Username)
	assert.Equal(t, "Kari Nordmann", userCtx.DisplayName)
	assert.Equal(t, domain.UserRoleTechnician, userCtx.Role)
	assert.Equal(t, auth.AuthTypeJWT, userCtx.AuthType)
	assert.False(t, userCtx.IsAdmin())
}

func signClaims(t *testing.T, method jwt.SigningMethod, key interface{}, claims auth.Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString(key)
	require.NoError(t, err)
	return token
}

func TestTokenIssuer_Validate_Rejects(t *testing.T) {
	issuer := newIssuer()
	now := time.Now()

	valid := auth.Claims{
		Username: "kari",
		Role:     domain.UserRoleAdmin,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "elevator-api",
			Subject:   strconv.Itoa(42),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}

	expired := valid
	expired.RegisteredClaims.IssuedAt = jwt.NewNumericDate(now.Add(-2 * time.Hour))
	expired.RegisteredClaims.ExpiresAt = jwt.NewNumericDate(now.Add(-time.Hour))

	wrongIssuer := valid
	wrongIssuer.RegisteredClaims.Issuer = "someone-else"

	badSubject := valid
	badSubject.RegisteredClaims.Subject = "not-a-number"

	tests := []struct {
		name    string
		token   string
		wantErr error
	}{
		{"expired", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), expired), auth.ErrExpiredToken},
		{"wrong secret", signClaims(t, jwt.SigningMethodHS256, []byte("other-secret"), valid), auth.ErrInvalidToken},
		{"wrong algorithm", signClaims(t, jwt.SigningMethodHS512, []byte(testSecret), valid), auth.ErrInvalidToken},
		{"wrong issuer", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), wrongIssuer), auth.ErrInvalidToken},
		{"bad subject", signClaims(t, jwt.SigningMethodHS256, []byte(testSecret), badSubject), auth.ErrInvalidToken},
		{"garbage", "not.a.token", auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := issuer.Validate(tt.token)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestTokenIssuer_MissingSecret(t *testing.T) {
	issuer := auth.NewTokenIssuer(&config.AuthConfig{})

	_, _, err := issuer.Issue(testUser())
	assert.ErrorIs(t, err, auth.ErrMissingSecret)

	_, err = issuer.Validate("anything")
	assert.ErrorIs(t, err, auth.ErrMissingSecret)
}

func TestPassword(t *testing.T) {
	hash, err := auth.HashPassword("s3cret-passw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "s3cret-passw0rd", hash)

	assert.True(t, auth.CheckPassword(hash, "s3cret-passw0rd"))
	assert.False(t, auth.CheckPassword(hash, "wrong"))
	assert.False(t, auth.CheckPassword("not-a-hash", "s3cret-passw0rd"))
}
