package services

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/KainanGuerra/therapy-chatbot/internal/llm"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

// In-memory repository fakes shared across service tests.

type fakeUserRepo struct {
	users map[uuid.UUID]*models.User
}

func newFakeUserRepo(users ...*models.User) *fakeUserRepo {
	repo := &fakeUserRepo{users: make(map[uuid.UUID]*models.User)}
	for _, user := range users {
		repo.users[user.ID] = user
	}
	return repo
}

func (f *fakeUserRepo) Create(ctx context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return f.users[id], nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) UpdatePreferences(ctx context.Context, userID uuid.UUID, prefs models.UserPreferences) error {
	if user, ok := f.users[userID]; ok {
		user.Preferences = prefs
	}
	return nil
}

func (f *fakeUserRepo) UpdateLastLogin(ctx context.Context, userID uuid.UUID) error {
	return nil
}

type fakeSessionRepo struct {
	sessions map[uuid.UUID]*models.ChatSession
	touched  int
}

func newFakeSessionRepo() *fakeSessionRepo {
	return &fakeSessionRepo{sessions: make(map[uuid.UUID]*models.ChatSession)}
}

func (f *fakeSessionRepo) Create(ctx context.Context, session *models.ChatSession) error {
	if session.ID == uuid.Nil {
		session.ID = uuid.New()
	}
	session.IsActive = true
	session.CreatedAt = time.Now()
	session.UpdatedAt = session.CreatedAt
	f.sessions[session.ID] = session
	return nil
}

func (f *fakeSessionRepo) Get(ctx context.Context, userID, id uuid.UUID) (*models.ChatSession, error) {
	session, ok := f.sessions[id]
	if !ok || session.UserID != userID {
		return nil, nil
	}
	return session, nil
}

func (f *fakeSessionRepo) ListActive(ctx context.Context, userID uuid.UUID, limit int) ([]*models.ChatSession, error) {
	var out []*models.ChatSession
	for _, session := range f.sessions {
		if session.UserID == userID && session.IsActive {
			out = append(out, session)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (f *fakeSessionRepo) Touch(ctx context.Context, id uuid.UUID) error {
	if session, ok := f.sessions[id]; ok {
		session.UpdatedAt = time.Now()
		f.touched++
	}
	return nil
}

func (f *fakeSessionRepo) Deactivate(ctx context.Context, userID, id uuid.UUID) error {
	session, ok := f.sessions[id]
	if !ok || session.UserID != userID {
		return sql.ErrNoRows
	}
	session.IsActive = false
	return nil
}

type fakeMessageRepo struct {
	messages []models.ChatMessage
}

func (f *fakeMessageRepo) Create(ctx context.Context, message *models.ChatMessage) error {
	if message.ID == uuid.Nil {
		message.ID = uuid.New()
	}
	message.CreatedAt = time.Now()
	f.messages = append(f.messages, *message)
	return nil
}

func (f *fakeMessageRepo) ListBySession(ctx context.Context, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	var out []models.ChatMessage
	for _, message := range f.messages {
		if message.SessionID == sessionID {
			out = append(out, message)
		}
	}
	return out, nil
}

func (f *fakeMessageRepo) CountBySession(ctx context.Context, sessionID uuid.UUID) (int, error) {
	msgs, _ := f.ListBySession(ctx, sessionID)
	return len(msgs), nil
}

type fakeMoodRepo struct {
	entries []models.MoodEntry
}

func (f *fakeMoodRepo) Create(ctx context.Context, entry *models.MoodEntry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	f.entries = append(f.entries, *entry)
	return nil
}

// ListRecent returns the newest entries first, like the database does
func (f *fakeMoodRepo) ListRecent(ctx context.Context, userID uuid.UUID, limit int) ([]models.MoodEntry, error) {
	var out []models.MoodEntry
	for i := len(f.entries) - 1; i >= 0 && len(out) < limit; i-- {
		if f.entries[i].UserID == userID {
			out = append(out, f.entries[i])
		}
	}
	return out, nil
}

func (f *fakeMoodRepo) ListSince(ctx context.Context, userID uuid.UUID, since time.Time) ([]models.MoodEntry, error) {
	var out []models.MoodEntry
	for _, entry := range f.entries {
		if entry.UserID == userID && entry.CreatedAt.After(since) {
			out = append(out, entry)
		}
	}
	return out, nil
}

// stubModel scripts the language model for orchestrator tests
type stubModel struct {
	moodResult  llm.MoodResult
	replyResult llm.ReplyResult
	moodCalls   int
	replyCalls  int
}

func (s *stubModel) AnalyzeMood(ctx context.Context, message string) llm.MoodResult {
	s.moodCalls++
	return s.moodResult
}

func (s *stubModel) GenerateReply(ctx context.Context, req llm.ReplyRequest) llm.ReplyResult {
	s.replyCalls++
	return s.replyResult
}
