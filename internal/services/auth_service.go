package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"

	"shopapi/internal/models"
	"shopapi/internal/repositories"
	"shopapi/pkg/rabbitmq"
)

const minPasswordLength = 8

// Token types carried in claims. The auth middleware only accepts access
// tokens and Refresh only accepts refresh tokens.
const (
	TokenTypeAccess  = "access"
	TokenTypeRefresh = "refresh"
)

// Claims are the JWT claims carried by both token kinds.
type Claims struct {
	UserID    uint   `json:"user_id"`
	TokenType string `json:"token_type"`
	jwt.RegisteredClaims
}

// TokenPair is the result of a successful login.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterInput carries the registration fields after body parsing. Empty
// strings mean the field was not supplied.
type RegisterInput struct {
	Username    string
	Email       string
	PhoneNumber string
	Password    string
}

// AuthService handles account creation, credential verification and session
// token issuance. Tokens are stateless; signature and expiry alone determine
// validity.
type AuthService struct {
	userRepo   repositories.UserRepository
	events     *rabbitmq.Client
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthService creates a new AuthService. events may be nil, in which case
// signup events are not published.
func NewAuthService(userRepo repositories.UserRepository, events *rabbitmq.Client, jwtSecret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		events:     events,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

// Register creates a new account. Username is mandatory, at least one of
// email or phone number is mandatory and the password must be at least 8
// characters. Policy violations and identifier collisions come back as
// ValidationError with per-field messages and nothing is persisted.
func (s *AuthService) Register(in RegisterInput) (*models.User, error) {
	fields := map[string]string{}
	if in.Username == "" {
		fields["username"] = "Username is required."
	}
	if in.Email == "" && in.PhoneNumber == "" {
		fields["identifier"] = "Provide either email or phone number."
	}
	if len(in.Password) < minPasswordLength {
		fields["password"] = "Password must be at least 8 characters long."
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	// Pre-flight uniqueness checks produce friendly field errors; the unique
	// indexes remain the authoritative conflict signal for concurrent writes.
	checks := []struct {
		field string
		value string
	}{
		{repositories.FieldUsername, in.Username},
		{repositories.FieldEmail, in.Email},
		{repositories.FieldPhone, in.PhoneNumber},
	}
	for _, c := range checks {
		if c.value == "" {
			continue
		}
		taken, err := s.userRepo.Exists(c.field, c.value)
		if err != nil {
			return nil, fmt.Errorf("failed to check %s uniqueness: %w", c.field, err)
		}
		if taken {
			fields[c.field] = fmt.Sprintf("A user with this %s already exists.", c.field)
		}
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &models.User{
		Username:    optional(in.Username),
		Email:       optional(in.Email),
		PhoneNumber: optional(in.PhoneNumber),
		Password:    string(hash),
		IsActive:    true,
		DateJoined:  time.Now(),
	}
	if err := s.userRepo.Create(user); err != nil {
		var dup *repositories.DuplicateError
		if errors.As(err, &dup) {
			return nil, &ValidationError{Fields: map[string]string{
				dup.Field: fmt.Sprintf("A user with this %s already exists.", dup.Field),
			}}
		}
		return nil, fmt.Errorf("failed to register user: %w", err)
	}

	s.publishRegistered(user)
	return user, nil
}

// Login verifies the identifier and password and issues a token pair. Unknown
// identifiers and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(identifier, password string) (*TokenPair, error) {
	user, err := s.userRepo.FindByIdentifier(identifier)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to resolve identifier: %w", err)
	}
	if !user.IsActive {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issueTokens(user)
}

// Refresh mints a new access token from a valid refresh token.
func (s *AuthService) Refresh(refreshToken string) (string, error) {
	claims, err := s.parseToken(refreshToken, TokenTypeRefresh)
	if err != nil {
		return "", err
	}
	return s.signToken(claims.UserID, TokenTypeAccess, s.accessTTL)
}

// ParseAccessToken validates an access token and returns its claims.
func (s *AuthService) ParseAccessToken(tokenString string) (*Claims, error) {
	return s.parseToken(tokenString, TokenTypeAccess)
}

// GetUser loads a user by ID, for callers that already proved identity via a
// token.
func (s *AuthService) GetUser(id uint) (*models.User, error) {
	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load user %d: %w", id, err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(user *models.User) (*TokenPair, error) {
	access, err := s.signToken(user.ID, TokenTypeAccess, s.accessTTL)
	if err != nil {
		return nil, err
	}
	refresh, err := s.signToken(user.ID, TokenTypeRefresh, s.refreshTTL)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Access: access, Refresh: refresh}, nil
}

func (s *AuthService) signToken(userID uint, tokenType string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID:    userID,
		TokenType: tokenType,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
	if err != nil {
		return "", fmt.Errorf("failed to sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

func (s *AuthService) parseToken(tokenString, wantType string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.jwtSecret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.TokenType != wantType {
		return nil, fmt.Errorf("invalid token: not an %s token", wantType)
	}
	return claims, nil
}

// publishRegistered emits a signup event. Best effort: registration never
// fails because the broker is down.
func (s *AuthService) publishRegistered(user *models.User) {
	if s.events == nil {
		return
	}
	event := rabbitmq.UserRegisteredEvent{
		UserID:       user.ID,
		RegisteredAt: user.DateJoined,
	}
	if user.Username != nil {
		event.Username = *user.Username
	}
	if err := s.events.PublishUserRegistered(event); err != nil {
		logrus.WithError(err).Warn("failed to publish signup event")
	}
}

func optional(v string) *string {
	if v == "" {
		return nil
	}
	return &v
}
