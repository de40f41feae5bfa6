package auth

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

var (
	// ErrInvalidCredentials is returned when login credentials are invalid
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserNotFound is returned when a user is not found
	ErrUserNotFound = errors.New("user not found")
	// ErrUserInactive is returned when a user is inactive
	ErrUserInactive = errors.New("user account is inactive")
	// ErrEmailAlreadyExists is returned when email is already registered
	ErrEmailAlreadyExists = errors.New("email already exists")
	// ErrSessionNotFound is returned when an auth session is not found
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionExpired is returned when an auth session is expired
	ErrSessionExpired = errors.New("session expired")
)

// SignUpInput carries registration fields
type SignUpInput struct {
	Email      string
	Password   string
	FirstName  string
	LastName   string
	Department string
	JobTitle   string
}

// Service handles authentication operations
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.UserSessionRepository
	jwt         *JWTService
}

// NewService creates a new auth service
func NewService(userRepo repository.UserRepository, sessionRepo repository.UserSessionRepository, jwtSecret string) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		jwt:         NewJWTService(jwtSecret, "therapy-chatbot"),
	}
}

// SignUp registers a new user
func (s *Service) SignUp(ctx context.Context, in SignUpInput) (*models.User, error) {
	if err := ValidatePassword(in.Password); err != nil {
		return nil, err
	}

	existing, err := s.userRepo.GetByEmail(ctx, in.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	passwordHash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        in.Email,
		PasswordHash: passwordHash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
		Department:   in.Department,
		JobTitle:     in.JobTitle,
		Preferences:  models.DefaultPreferences(),
		IsActive:     true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	return user, nil
}

// Login authenticates a user and creates an auth session
func (s *Service) Login(ctx context.Context, email, password, ipAddress, userAgent string) (*models.User, string, string, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, "", "", err
	}
	if user == nil {
		return nil, "", "", ErrInvalidCredentials
	}
	if !user.IsActive {
		return nil, "", "", ErrUserInactive
	}
	if !CheckPassword(password, user.PasswordHash) {
		return nil, "", "", ErrInvalidCredentials
	}

	session := &models.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		ExpiresAt:        time.Now().Add(AccessTokenTTL),
		RefreshExpiresAt: time.Now().Add(RefreshTokenTTL),
		IPAddress:        ipAddress,
		UserAgent:        userAgent,
	}

	accessToken, refreshToken, err := s.jwt.GenerateTokenPair(user.ID.String(), user.Email, session.ID.String())
	if err != nil {
		return nil, "", "", err
	}

	session.TokenHash = hashToken(accessToken)
	session.RefreshTokenHash = hashToken(refreshToken)

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, "", "", err
	}

	_ = s.userRepo.UpdateLastLogin(ctx, user.ID)

	return user, accessToken, refreshToken, nil
}

// Refresh exchanges a refresh token for a new token pair
func (s *Service) Refresh(ctx context.Context, refreshToken string) (string, string, error) {
	claims, err := s.jwt.ValidateToken(refreshToken)
	if err != nil {
		return "", "", err
	}
	if claims.TokenType != "refresh" {
		return "", "", ErrInvalidToken
	}

	session, err := s.sessionRepo.GetByRefreshTokenHash(ctx, hashToken(refreshToken))
	if err != nil {
		return "", "", err
	}
	if session == nil {
		return "", "", ErrSessionNotFound
	}
	if time.Now().After(session.RefreshExpiresAt) {
		return "", "", ErrSessionExpired
	}

	user, err := s.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		return "", "", err
	}
	if user == nil || !user.IsActive {
		return "", "", ErrUserInactive
	}

	// Rotate: revoke the old session and issue a fresh one
	if err := s.sessionRepo.Revoke(ctx, session.ID); err != nil {
		return "", "", err
	}

	newSession := &models.UserSession{
		ID:               uuid.New(),
		UserID:           user.ID,
		ExpiresAt:        time.Now().Add(AccessTokenTTL),
		RefreshExpiresAt: time.Now().Add(RefreshTokenTTL),
		IPAddress:        session.IPAddress,
		UserAgent:        session.UserAgent,
	}

	accessToken, newRefreshToken, err := s.jwt.GenerateTokenPair(user.ID.String(), user.Email, newSession.ID.String())
	if err != nil {
		return "", "", err
	}

	newSession.TokenHash = hashToken(accessToken)
	newSession.RefreshTokenHash = hashToken(newRefreshToken)

	if err := s.sessionRepo.Create(ctx, newSession); err != nil {
		return "", "", err
	}

	return accessToken, newRefreshToken, nil
}

// Logout revokes the auth session behind an access token
func (s *Service) Logout(ctx context.Context, accessToken string) error {
	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(accessToken))
	if err != nil {
		return err
	}
	if session == nil {
		return ErrSessionNotFound
	}
	return s.sessionRepo.Revoke(ctx, session.ID)
}

// ValidateAccessToken validates a bearer token and loads its user
func (s *Service) ValidateAccessToken(ctx context.Context, token string) (*models.User, *JWTClaims, error) {
	claims, err := s.jwt.ValidateToken(token)
	if err != nil {
		return nil, nil, err
	}
	if claims.TokenType != "access" {
		return nil, nil, ErrInvalidToken
	}

	session, err := s.sessionRepo.GetByTokenHash(ctx, hashToken(token))
	if err != nil {
		return nil, nil, err
	}
	if session == nil {
		return nil, nil, ErrSessionNotFound
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, nil, ErrInvalidClaims
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if user == nil {
		return nil, nil, ErrUserNotFound
	}
	if !user.IsActive {
		return nil, nil, ErrUserInactive
	}

	return user, claims, nil
}

// GetUser loads a user by ID
func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}
	return user, nil
}

// UpdatePreferences replaces a user's preference set
func (s *Service) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.UserPreferences) error {
	return s.userRepo.UpdatePreferences(ctx, userID, prefs)
}

func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
