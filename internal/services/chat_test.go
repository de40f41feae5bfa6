package services

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KainanGuerra/therapy-chatbot/internal/llm"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

type chatFixture struct {
	svc      *ChatService
	sessions *fakeSessionRepo
	messages *fakeMessageRepo
	moods    *fakeMoodRepo
	contexts *ContextStore
	model    *stubModel
	user     *models.User
}

func newChatFixture(model *stubModel) *chatFixture {
	user := &models.User{
		ID:          uuid.New(),
		Email:       "test@example.com",
		Preferences: models.DefaultPreferences(),
		IsActive:    true,
	}

	sessions := newFakeSessionRepo()
	messages := &fakeMessageRepo{}
	moods := &fakeMoodRepo{}
	users := newFakeUserRepo(user)
	contexts := NewContextStore(NewCacheService())

	return &chatFixture{
		svc: NewChatService(
			sessions, messages, moods, users,
			contexts, NewContextBuilder(users, messages), model,
		),
		sessions: sessions,
		messages: messages,
		moods:    moods,
		contexts: contexts,
		model:    model,
		user:     user,
	}
}

func scoredModel() *stubModel {
	return &stubModel{
		moodResult: llm.MoodResult{
			Analysis: models.MoodAnalysis{
				Level:      models.MoodLow,
				Confidence: 0.85,
				Keywords:   []string{"deadline"},
				Sentiment:  models.SentimentNegative,
				Emotions:   []string{"stressed"},
			},
		},
		replyResult: llm.ReplyResult{Text: "That sounds stressful. Tell me more."},
	}
}

func TestSendMessage_FirstMessageCreatesSession(t *testing.T) {
	f := newChatFixture(scoredModel())

	result, err := f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content: "deadlines are piling up",
	})
	require.NoError(t, err)

	assert.Len(t, f.sessions.sessions, 1)
	session := result.UserMessage.SessionID
	assert.Equal(t, session, result.AssistantMessage.SessionID)

	stored, _ := f.sessions.Get(context.Background(), f.user.ID, session)
	require.NotNil(t, stored)
	assert.Equal(t, sendDefaultTitle, stored.Title)
	assert.True(t, stored.IsActive)
}

func TestSendMessage_PersistsTurnWithMoodSnapshot(t *testing.T) {
	f := newChatFixture(scoredModel())

	result, err := f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content: "deadlines are piling up",
	})
	require.NoError(t, err)

	// One user and one assistant message
	require.Len(t, f.messages.messages, 2)
	userMsg, assistantMsg := f.messages.messages[0], f.messages.messages[1]

	assert.Equal(t, models.MessageTypeUser, userMsg.Type)
	assert.Equal(t, "deadlines are piling up", userMsg.Content)
	require.NotNil(t, userMsg.MoodAnalysis)
	assert.Equal(t, models.MoodLow, userMsg.MoodAnalysis.Level)

	assert.Equal(t, models.MessageTypeAssistant, assistantMsg.Type)
	assert.Equal(t, "That sounds stressful. Tell me more.", assistantMsg.Content)
	assert.Nil(t, assistantMsg.MoodAnalysis)

	// The mood log got a denormalized copy
	require.Len(t, f.moods.entries, 1)
	entry := f.moods.entries[0]
	assert.Equal(t, f.user.ID, entry.UserID)
	assert.Equal(t, models.MoodLow, entry.Level)
	assert.Equal(t, models.StringList{"deadline"}, entry.Keywords)

	assert.Equal(t, models.MoodLow, result.MoodAnalysis.Level)
	assert.Equal(t, 1, f.sessions.touched)
}

func TestSendMessage_MoodScoringFailureFallsBackToNeutral(t *testing.T) {
	model := scoredModel()
	model.moodResult = llm.MoodResult{Fallback: llm.FallbackRequestFailed}
	f := newChatFixture(model)

	result, err := f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content: "hello",
	})
	require.NoError(t, err)

	// The neutral snapshot is persisted, not dropped
	assert.Equal(t, models.NeutralMoodAnalysis(), result.MoodAnalysis)
	require.NotNil(t, f.messages.messages[0].MoodAnalysis)
	assert.Equal(t, models.MoodNeutral, f.messages.messages[0].MoodAnalysis.Level)
	require.Len(t, f.moods.entries, 1)
	assert.Equal(t, models.MoodNeutral, f.moods.entries[0].Level)

	// The reply still went through
	assert.Equal(t, "That sounds stressful. Tell me more.", result.AssistantMessage.Content)
}

func TestSendMessage_ReplyFailureFallsBackToCannedResponse(t *testing.T) {
	model := scoredModel()
	model.replyResult = llm.ReplyResult{Fallback: llm.FallbackRequestFailed}
	f := newChatFixture(model)

	result, err := f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content: "hello",
	})
	require.NoError(t, err)

	assert.Equal(t, FallbackReply, result.AssistantMessage.Content)
	assert.Equal(t, FallbackReply, f.messages.messages[1].Content)
	// The genuine mood score is kept even when the reply fell back
	assert.Equal(t, models.MoodLow, result.MoodAnalysis.Level)
}

func TestSendMessage_UnknownSessionRejected(t *testing.T) {
	f := newChatFixture(scoredModel())
	missing := uuid.New()

	_, err := f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content:   "hello",
		SessionID: &missing,
	})

	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.Empty(t, f.messages.messages)
	assert.Empty(t, f.moods.entries)
	assert.Equal(t, 0, f.model.moodCalls)
}

func TestSendMessage_OtherUsersSessionRejected(t *testing.T) {
	f := newChatFixture(scoredModel())

	session, err := f.svc.CreateSession(context.Background(), uuid.New(), "someone else's")
	require.NoError(t, err)

	_, err = f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content:   "hello",
		SessionID: &session.ID,
	})
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSendMessage_FoldsTurnsIntoCachedContext(t *testing.T) {
	f := newChatFixture(scoredModel())

	first, err := f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content: "turn one",
	})
	require.NoError(t, err)
	sessionID := first.UserMessage.SessionID

	chatCtx, ok := f.contexts.Get(f.user.ID, sessionID)
	require.True(t, ok)
	assert.Len(t, chatCtx.Messages, 2)
	assert.Len(t, chatCtx.MoodHistory, 1)

	_, err = f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content:   "turn two",
		SessionID: &sessionID,
	})
	require.NoError(t, err)

	chatCtx, ok = f.contexts.Get(f.user.ID, sessionID)
	require.True(t, ok)
	assert.Len(t, chatCtx.Messages, 4)
	assert.Len(t, chatCtx.MoodHistory, 2)
	assert.Equal(t, "turn two", chatCtx.Messages[2].Content)
}

func TestGetSessionMessages_ChecksOwnership(t *testing.T) {
	f := newChatFixture(scoredModel())

	result, err := f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content: "hello",
	})
	require.NoError(t, err)
	sessionID := result.UserMessage.SessionID

	msgs, err := f.svc.GetSessionMessages(context.Background(), f.user.ID, sessionID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)

	_, err = f.svc.GetSessionMessages(context.Background(), uuid.New(), sessionID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestDeleteSession_SoftDeletesAndEvictsContext(t *testing.T) {
	f := newChatFixture(scoredModel())

	result, err := f.svc.SendMessage(context.Background(), f.user.ID, SendMessageInput{
		Content: "hello",
	})
	require.NoError(t, err)
	sessionID := result.UserMessage.SessionID

	require.NoError(t, f.svc.DeleteSession(context.Background(), f.user.ID, sessionID))

	// Soft delete: the session row flips inactive, messages survive
	stored := f.sessions.sessions[sessionID]
	assert.False(t, stored.IsActive)
	assert.Len(t, f.messages.messages, 2)

	_, ok := f.contexts.Get(f.user.ID, sessionID)
	assert.False(t, ok)

	assert.ErrorIs(t,
		f.svc.DeleteSession(context.Background(), uuid.New(), sessionID),
		ErrSessionNotFound)
}
