package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"shayarihub/internal/authz"
	"shayarihub/internal/cache"
	"shayarihub/internal/models"
	"shayarihub/internal/testutil"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const (
	defaultTestTTL = 2 * time.Hour
	minBcryptCost  = bcrypt.MinCost
)

func registerUser(t *testing.T, e *testEnv, username string) (*models.User, *Session) {
	t.Helper()
	u, s, err := e.auth.Register(context.Background(), RegisterInput{
		Username: username,
		Email:    username + "@example.com",
		Password: "secret123",
	})
	require.NoError(t, err)
	return u, s
}

func TestAuthService_RegisterAndLogin(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()

	user, session, err := e.auth.Register(ctx, RegisterInput{Username: "Mirza_G", Email: " Mirza@Example.com ", Password: "secret123"})
	require.NoError(t, err)
	assert.Equal(t, "Mirza_G", user.Username)
	assert.Equal(t, "mirza@example.com", user.Email)
	assert.Equal(t, models.RoleUser, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NotEmpty(t, session.Token)

	got, _, err := e.auth.Login(ctx, "MIRZA@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)

	_, _, err = e.auth.Login(ctx, "mirza@example.com", "wrong-pass")
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))

	_, _, err = e.auth.Login(ctx, "nobody@example.com", "secret123")
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestAuthService_RegisterValidation(t *testing.T) {
	e := newTestEnv(t)
	registerUser(t, e, "ghalib")

	tests := []struct {
		name string
		in   RegisterInput
		code string
	}{
		{"missing fields", RegisterInput{Username: "a"}, models.CodeValidation},
		{"short username", RegisterInput{Username: "ab", Email: "ab@example.com", Password: "secret123"}, models.CodeValidation},
		{"bad email", RegisterInput{Username: "abc", Email: "nope", Password: "secret123"}, models.CodeValidation},
		{"short password", RegisterInput{Username: "abc", Email: "abc@example.com", Password: "123"}, models.CodeValidation},
		{"password past bcrypt limit", RegisterInput{Username: "abc", Email: "abc@example.com", Password: strings.Repeat("a", 100)}, models.CodeValidation},
		{"duplicate username other case", RegisterInput{Username: "GHALIB", Email: "other@example.com", Password: "secret123"}, models.CodeConflict},
		{"duplicate email", RegisterInput{Username: "other", Email: "ghalib@example.com", Password: "secret123"}, models.CodeConflict},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := e.auth.Register(context.Background(), tt.in)
			require.Error(t, err)
			assert.True(t, models.HasCode(err, tt.code), "got %v", err)
		})
	}
}

func TestAuthService_LoginBanned(t *testing.T) {
	e := newTestEnv(t)
	hash, err := e.auth.HashPassword("secret123")
	require.NoError(t, err)
	u := testutil.CreateUser(t, e.db, "banned_poet", testutil.WithPassword(hash), testutil.Banned())

	_, _, err = e.auth.Login(context.Background(), u.Email, "secret123")
	assert.ErrorIs(t, err, authz.ErrBanned)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user, session := registerUser(t, e, "faiz")

	claims, err := e.auth.ParseToken(ctx, session.Token)
	require.NoError(t, err)
	id, err := UserIDFromClaims(claims)
	require.NoError(t, err)
	assert.Equal(t, user.ID, id)
	assert.NotEmpty(t, claims.ID)

	current, err := e.auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, current.ID)
}

func TestAuthService_RejectsBadTokens(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	registerUser(t, e, "jaun")

	sign := func(claims jwt.RegisteredClaims, method jwt.SigningMethod, key interface{}) string {
		tok, err := jwt.NewWithClaims(method, claims).SignedString(key)
		require.NoError(t, err)
		return tok
	}
	base := func() jwt.RegisteredClaims {
		return jwt.RegisteredClaims{
			Subject:   "1",
			Issuer:    tokenIssuer,
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		}
	}

	wrongIssuer := base()
	wrongIssuer.Issuer = "someone-else"
	wrongAudience := base()
	wrongAudience.Audience = jwt.ClaimStrings{"other-client"}
	expired := base()
	expired.ExpiresAt = jwt.NewNumericDate(time.Now().Add(-time.Minute))

	tests := map[string]string{
		"empty":          "",
		"garbage":        "not.a.token",
		"wrong secret":   sign(base(), jwt.SigningMethodHS256, []byte("another-secret")),
		"wrong issuer":   sign(wrongIssuer, jwt.SigningMethodHS256, e.auth.secret),
		"wrong audience": sign(wrongAudience, jwt.SigningMethodHS256, e.auth.secret),
		"expired":        sign(expired, jwt.SigningMethodHS256, e.auth.secret),
		"none alg":       sign(base(), jwt.SigningMethodNone, jwt.UnsafeAllowNoneSignatureType),
	}
	for name, tok := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := e.auth.ParseToken(ctx, tok)
			require.Error(t, err)
			assert.True(t, models.HasCode(err, models.CodeUnauthorized))
		})
	}

	// A valid token whose user has since been deleted is rejected.
	gone, session := registerUser(t, e, "nasir")
	require.NoError(t, e.users.DeleteCascade(ctx, gone.ID))
	_, err := e.auth.Authenticate(ctx, session.Token)
	assert.True(t, models.HasCode(err, models.CodeUnauthorized))
}

func TestAuthService_LogoutRevokesToken(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	_, session := registerUser(t, e, "sahir")

	require.NoError(t, e.auth.Logout(ctx, session.Token))

	_, err := e.auth.ParseToken(ctx, session.Token)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoked")

	claims := &jwt.RegisteredClaims{}
	_, _, err = jwt.NewParser().ParseUnverified(session.Token, claims)
	require.NoError(t, err)
	ttl := e.mr.TTL(cache.RevokedTokenKey(claims.ID))
	assert.True(t, ttl > 0 && ttl <= defaultTestTTL, "ttl %v", ttl)

	// Revocation expires together with the token.
	e.mr.FastForward(defaultTestTTL + time.Second)
	assert.False(t, e.mr.Exists(cache.RevokedTokenKey(claims.ID)))

	// Logging out with an unusable token is a no-op.
	assert.NoError(t, e.auth.Logout(ctx, "garbage"))
}

func TestAuthService_BanTakesEffectWithValidToken(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	user, session := registerUser(t, e, "amir")

	require.NoError(t, e.users.SetActive(ctx, user.ID, false))

	current, err := e.auth.Authenticate(ctx, session.Token)
	require.NoError(t, err)
	assert.ErrorIs(t, authz.Require(authz.ActorFromUser(current), models.RoleUser), authz.ErrBanned)
}
