package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

// ContextTTL is how long a cached conversation context lives without
// activity before it expires and is rebuilt from the database
const ContextTTL = time.Hour

func contextKey(userID, sessionID uuid.UUID) string {
	return fmt.Sprintf("chat:%s:%s", userID, sessionID)
}

// ContextStore keeps serialized conversation contexts in the cache, keyed by
// (user, session). Writes always replace the full context. The cache is a
// best-effort accelerator: any failure reads as a miss and the caller rebuilds.
type ContextStore struct {
	cache Cache
}

// NewContextStore creates a new context store
func NewContextStore(cache Cache) *ContextStore {
	return &ContextStore{cache: cache}
}

// Get retrieves the cached context for a session. A cache error or a context
// that fails to decode is reported as a miss.
func (s *ContextStore) Get(userID, sessionID uuid.UUID) (*models.ChatContext, bool) {
	data, ok, err := s.cache.Get(contextKey(userID, sessionID))
	if err != nil {
		logrus.WithError(err).Debug("context cache read failed, treating as miss")
		return nil, false
	}
	if !ok {
		return nil, false
	}

	var chatCtx models.ChatContext
	if err := json.Unmarshal(data, &chatCtx); err != nil {
		logrus.WithError(err).Debug("cached context decode failed, treating as miss")
		return nil, false
	}

	return &chatCtx, true
}

// Set replaces the cached context and refreshes its TTL
func (s *ContextStore) Set(userID, sessionID uuid.UUID, chatCtx *models.ChatContext) {
	data, err := json.Marshal(chatCtx)
	if err != nil {
		logrus.WithError(err).Warn("failed to encode chat context")
		return
	}

	if err := s.cache.Set(contextKey(userID, sessionID), data, ContextTTL); err != nil {
		logrus.WithError(err).Warn("context cache write failed")
	}
}

// Delete evicts the cached context for a session
func (s *ContextStore) Delete(userID, sessionID uuid.UUID) {
	if err := s.cache.Delete(contextKey(userID, sessionID)); err != nil {
		logrus.WithError(err).Warn("context cache delete failed")
	}
}

// ContextBuilder reconstructs a conversation context from the database when
// the cache has nothing for a session
type ContextBuilder struct {
	users    repository.UserRepository
	messages repository.ChatMessageRepository
}

// NewContextBuilder creates a new context builder
func NewContextBuilder(users repository.UserRepository, messages repository.ChatMessageRepository) *ContextBuilder {
	return &ContextBuilder{users: users, messages: messages}
}

// Build loads the session's persisted messages (oldest first) and the user's
// preferences, and returns a fresh context. Mood history is not backfilled
// from the mood log; a rebuilt context starts with an empty history.
func (b *ContextBuilder) Build(ctx context.Context, userID, sessionID uuid.UUID) (*models.ChatContext, error) {
	msgs, err := b.messages.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	prefs := models.DefaultPreferences()
	user, err := b.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		prefs = user.Preferences
	}

	contextMsgs := make([]models.ContextMessage, len(msgs))
	for i, msg := range msgs {
		contextMsgs[i] = models.ContextMessage{
			ID:           msg.ID,
			Content:      msg.Content,
			Type:         msg.Type,
			Timestamp:    msg.CreatedAt,
			MoodAnalysis: msg.MoodAnalysis,
		}
	}

	return &models.ChatContext{
		UserID:       userID,
		SessionID:    sessionID,
		Messages:     contextMsgs,
		MoodHistory:  []models.MoodAnalysis{},
		Preferences:  prefs,
		LastActivity: time.Now(),
	}, nil
}
