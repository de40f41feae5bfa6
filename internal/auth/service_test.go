package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

type memUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: make(map[uuid.UUID]*models.User)}
}

func (m *memUserRepo) Create(ctx context.Context, user *models.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *memUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return m.users[id], nil
}

func (m *memUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (m *memUserRepo) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.UserPreferences) error {
	if user, ok := m.users[userID]; ok {
		user.Preferences = prefs
	}
	return nil
}

func (m *memUserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type memSessionRepo struct {
	sessions map[uuid.UUID]*models.UserSession
}

func newMemSessionRepo() *memSessionRepo {
	return &memSessionRepo{sessions: make(map[uuid.UUID]*models.UserSession)}
}

func (m *memSessionRepo) Create(ctx context.Context, session *models.UserSession) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *memSessionRepo) GetByTokenHash(ctx context.Context, tokenHash string) (*models.UserSession, error) {
	for _, session := range m.sessions {
		if session.TokenHash == tokenHash && session.RevokedAt == nil {
			return session, nil
		}
	}
	return nil, nil
}

func (m *memSessionRepo) GetByRefreshTokenHash(ctx context.Context, refreshTokenHash string) (*models.UserSession, error) {
	for _, session := range m.sessions {
		if session.RefreshTokenHash == refreshTokenHash && session.RevokedAt == nil {
			return session, nil
		}
	}
	return nil, nil
}

func (m *memSessionRepo) Revoke(ctx context.Context, id uuid.UUID) error {
	if session, ok := m.sessions[id]; ok {
		now := time.Now()
		session.RevokedAt = &now
	}
	return nil
}

func (m *memSessionRepo) DeleteExpired(ctx context.Context) error {
	return nil
}

func newTestService() (*Service, *memUserRepo, *memSessionRepo) {
	users := newMemUserRepo()
	sessions := newMemSessionRepo()
	return NewService(users, sessions, "test-secret"), users, sessions
}

func TestSignUpAndLogin(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{
		Email:     "new@example.com",
		Password:  "Str0ngPass!",
		FirstName: "New",
		LastName:  "User",
	})
	require.NoError(t, err)
	assert.True(t, user.IsActive)
	assert.NotEqual(t, "Str0ngPass!", user.PasswordHash)
	assert.Equal(t, models.DefaultPreferences(), user.Preferences)

	loggedIn, access, refresh, err := svc.Login(ctx, "new@example.com", "Str0ngPass!", "127.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)
	assert.NotEmpty(t, access)
	assert.NotEmpty(t, refresh)
}

func TestSignUpDuplicateEmailRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "dup@example.com", Password: "Str0ngPass!"})
	require.NoError(t, err)

	_, err = svc.SignUp(ctx, SignUpInput{Email: "dup@example.com", Password: "Str0ngPass!"})
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestSignUpWeakPasswordRejected(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.SignUp(context.Background(), SignUpInput{Email: "weak@example.com", Password: "weakpass"})
	assert.ErrorIs(t, err, ErrPasswordTooWeak)
}

func TestLoginWrongPasswordRejected(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", Password: "Str0ngPass!"})
	require.NoError(t, err)

	_, _, _, err = svc.Login(ctx, "user@example.com", "WrongPass1!", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, _, _, err = svc.Login(ctx, "unknown@example.com", "Str0ngPass!", "", "")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginInactiveUserRejected(t *testing.T) {
	svc, users, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", Password: "Str0ngPass!"})
	require.NoError(t, err)
	users.users[user.ID].IsActive = false

	_, _, _, err = svc.Login(ctx, "user@example.com", "Str0ngPass!", "", "")
	assert.ErrorIs(t, err, ErrUserInactive)
}

func TestValidateAccessToken(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", Password: "Str0ngPass!"})
	require.NoError(t, err)
	_, access, refresh, err := svc.Login(ctx, "user@example.com", "Str0ngPass!", "", "")
	require.NoError(t, err)

	validated, claims, err := svc.ValidateAccessToken(ctx, access)
	require.NoError(t, err)
	assert.Equal(t, user.ID, validated.ID)
	assert.Equal(t, "access", claims.TokenType)

	// A refresh token is not an access token
	_, _, err = svc.ValidateAccessToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestRefreshRotatesSession(t *testing.T) {
	svc, _, sessions := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", Password: "Str0ngPass!"})
	require.NoError(t, err)
	_, _, refresh, err := svc.Login(ctx, "user@example.com", "Str0ngPass!", "", "")
	require.NoError(t, err)

	newAccess, newRefresh, err := svc.Refresh(ctx, refresh)
	require.NoError(t, err)
	assert.NotEmpty(t, newAccess)
	assert.NotEqual(t, refresh, newRefresh)
	assert.Len(t, sessions.sessions, 2)

	// The old refresh token is dead after rotation
	_, _, err = svc.Refresh(ctx, refresh)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The new one works
	_, _, err = svc.Refresh(ctx, newRefresh)
	assert.NoError(t, err)
}

func TestLogoutRevokesSession(t *testing.T) {
	svc, _, _ := newTestService()
	ctx := context.Background()

	_, err := svc.SignUp(ctx, SignUpInput{Email: "user@example.com", Password: "Str0ngPass!"})
	require.NoError(t, err)
	_, access, _, err := svc.Login(ctx, "user@example.com", "Str0ngPass!", "", "")
	require.NoError(t, err)

	require.NoError(t, svc.Logout(ctx, access))

	_, _, err = svc.ValidateAccessToken(ctx, access)
	assert.ErrorIs(t, err, ErrSessionNotFound)

	assert.ErrorIs(t, svc.Logout(ctx, access), ErrSessionNotFound)
}
