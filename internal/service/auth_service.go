package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"shayarihub/internal/authz"
	"shayarihub/internal/cache"
	"shayarihub/internal/models"
	"shayarihub/internal/observability"
	"shayarihub/internal/repository"
	"shayarihub/internal/validation"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	tokenIssuer   = "shayarihub-api"
	tokenAudience = "shayarihub-client"
)

var errInvalidToken = models.NewUnauthorizedError("Invalid or expired token")

// AuthService handles registration, credential checks and session tokens.
type AuthService struct {
	users      repository.UserRepository
	store      *cache.Store
	secret     []byte
	ttl        time.Duration
	bcryptCost int
	now        func() time.Time
}

// NewAuthService signs tokens with secret and keeps them valid for ttl.
func NewAuthService(users repository.UserRepository, store *cache.Store, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		users:      users,
		store:      store,
		secret:     []byte(secret),
		ttl:        ttl,
		bcryptCost: bcrypt.DefaultCost,
		now:        time.Now,
	}
}

// RegisterInput is the sign-up payload.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Session is an issued token and its expiry.
type Session struct {
	Token     string
	ExpiresAt time.Time
}

func (s *AuthService) TTL() time.Duration { return s.ttl }

// HashPassword hashes with the service's bcrypt cost.
func (s *AuthService) HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, *Session, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	if in.Username == "" || in.Email == "" || in.Password == "" {
		return nil, nil, models.NewValidationError("All fields are required")
	}
	if err := validation.ValidateUsername(in.Username); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidateEmail(in.Email); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}
	if err := validation.ValidatePassword(in.Password); err != nil {
		return nil, nil, models.NewValidationError(err.Error())
	}

	hash, err := s.HashPassword(in.Password)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	user := &models.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     models.RoleUser,
		IsActive: true,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, nil, err
	}

	session, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	observability.AuthEvents.WithLabelValues("register").Inc()
	slog.InfoContext(ctx, "user registered", slog.Uint64("user_id", uint64(user.ID)))
	return user, session, nil
}

// Login verifies credentials. Banned accounts are refused after the password
// check so the response does not reveal ban state to strangers.
func (s *AuthService) Login(ctx context.Context, email, password string) (*models.User, *Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || password == "" {
		return nil, nil, models.NewValidationError("Email and password are required")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, nil, err
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		observability.AuthEvents.WithLabelValues("login_failed").Inc()
		return nil, nil, models.NewUnauthorizedError("Invalid credentials")
	}
	if !user.IsActive {
		return nil, nil, authz.ErrBanned
	}

	session, err := s.IssueToken(user.ID)
	if err != nil {
		return nil, nil, models.NewInternalError(err)
	}
	observability.AuthEvents.WithLabelValues("login").Inc()
	return user, session, nil
}

// IssueToken signs an HS256 token whose subject is userID.
func (s *AuthService) IssueToken(userID uint) (*Session, error) {
	if len(s.secret) == 0 {
		return nil, errors.New("JWT secret not configured")
	}
	now := s.now()
	expires := now.Add(s.ttl)
	claims := jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(userID), 10),
		Issuer:    tokenIssuer,
		Audience:  jwt.ClaimStrings{tokenAudience},
		ExpiresAt: jwt.NewNumericDate(expires),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ID:        uuid.NewString(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return nil, err
	}
	return &Session{Token: signed, ExpiresAt: expires}, nil
}

// ParseToken validates signature, issuer, audience, expiry and revocation.
func (s *AuthService) ParseToken(ctx context.Context, token string) (*jwt.RegisteredClaims, error) {
	if token == "" {
		return nil, authz.ErrUnauthenticated
	}
	claims := &jwt.RegisteredClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return s.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithAudience(tokenAudience),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil || !parsed.Valid {
		return nil, errInvalidToken
	}

	if claims.ID != "" {
		revoked, err := s.store.Exists(ctx, cache.RevokedTokenKey(claims.ID))
		if err != nil {
			slog.WarnContext(ctx, "revocation check failed", slog.String("error", err.Error()))
		}
		if revoked {
			return nil, models.NewUnauthorizedError("Token has been revoked")
		}
	}
	return claims, nil
}

// UserIDFromClaims extracts the numeric subject.
func UserIDFromClaims(claims *jwt.RegisteredClaims) (uint, error) {
	id, err := strconv.ParseUint(claims.Subject, 10, 64)
	if err != nil || id == 0 {
		return 0, errInvalidToken
	}
	return uint(id), nil
}

// Authenticate resolves token to the current user record. The role and
// active flag always come from the store, never from the token.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	claims, err := s.ParseToken(ctx, token)
	if err != nil {
		return nil, err
	}
	userID, err := UserIDFromClaims(claims)
	if err != nil {
		return nil, err
	}
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if models.HasCode(err, models.CodeNotFound) {
			return nil, errInvalidToken
		}
		return nil, err
	}
	return user, nil
}

// Logout revokes the token's jti until the token would have expired.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	claims, err := s.ParseToken(ctx, token)
	if err != nil {
		// already unusable
		return nil
	}
	observability.AuthEvents.WithLabelValues("logout").Inc()
	if claims.ID == "" || claims.ExpiresAt == nil {
		return nil
	}
	remaining := claims.ExpiresAt.Sub(s.now())
	if remaining <= 0 {
		return nil
	}
	if err := s.store.MarkWithTTL(ctx, cache.RevokedTokenKey(claims.ID), remaining); err != nil {
		return models.NewInternalError(fmt.Errorf("revoke token: %w", err))
	}
	return nil
}
