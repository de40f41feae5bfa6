package services

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/llm"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

var (
	// ErrSessionNotFound is returned when a chat session is absent or owned
	// by another user
	ErrSessionNotFound = errors.New("session not found or access denied")
	// ErrUserNotFound is returned when the requesting user does not exist
	ErrUserNotFound = errors.New("user not found")
)

const (
	// DefaultSessionTitle is used when a session is created without a title
	DefaultSessionTitle = "New Chat Session"
	// sendDefaultTitle is the title of sessions created implicitly by a
	// first message
	sendDefaultTitle = "New Chat"
	// FallbackReply is persisted when reply generation fails. The
	// conversation degrades, it does not break.
	FallbackReply = "I understand you're reaching out, and I'm here to support you. Could you tell me a bit more about how you're feeling today?"
	// contextSummaryMessages is how many recent messages feed the reply prompt
	contextSummaryMessages = 5
	// sessionListLimit caps the active-session listing
	sessionListLimit = 20
)

// LanguageModel is the slice of the LLM surface the orchestrator needs
type LanguageModel interface {
	AnalyzeMood(ctx context.Context, message string) llm.MoodResult
	GenerateReply(ctx context.Context, req llm.ReplyRequest) llm.ReplyResult
}

// SendMessageInput is one inbound user message
type SendMessageInput struct {
	Content   string
	SessionID *uuid.UUID
}

// SendMessageResult is everything one completed turn produced
type SendMessageResult struct {
	UserMessage      models.ChatMessage  `json:"user_message"`
	AssistantMessage models.ChatMessage  `json:"assistant_message"`
	MoodAnalysis     models.MoodAnalysis `json:"mood_analysis"`
}

// ChatService orchestrates conversation turns: mood scoring, persistence,
// context management, and reply generation
type ChatService struct {
	sessions repository.ChatSessionRepository
	messages repository.ChatMessageRepository
	moods    repository.MoodEntryRepository
	users    repository.UserRepository
	contexts *ContextStore
	builder  *ContextBuilder
	model    LanguageModel
}

// NewChatService creates a new chat service
func NewChatService(
	sessions repository.ChatSessionRepository,
	messages repository.ChatMessageRepository,
	moods repository.MoodEntryRepository,
	users repository.UserRepository,
	contexts *ContextStore,
	builder *ContextBuilder,
	model LanguageModel,
) *ChatService {
	return &ChatService{
		sessions: sessions,
		messages: messages,
		moods:    moods,
		users:    users,
		contexts: contexts,
		builder:  builder,
		model:    model,
	}
}

// CreateSession creates a new conversation thread
func (s *ChatService) CreateSession(ctx context.Context, userID uuid.UUID, title string) (*models.ChatSession, error) {
	if title == "" {
		title = DefaultSessionTitle
	}

	session := &models.ChatSession{
		UserID: userID,
		Title:  title,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, err
	}
	return session, nil
}

// ListSessions returns the user's active sessions, most recently updated first
func (s *ChatService) ListSessions(ctx context.Context, userID uuid.UUID) ([]*models.ChatSession, error) {
	return s.sessions.ListActive(ctx, userID, sessionListLimit)
}

// GetSessionMessages returns a session's messages after verifying ownership
func (s *ChatService) GetSessionMessages(ctx context.Context, userID, sessionID uuid.UUID) ([]models.ChatMessage, error) {
	session, err := s.sessions.Get(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrSessionNotFound
	}

	return s.messages.ListBySession(ctx, sessionID)
}

// SendMessage runs one conversation turn. The turn always completes once the
// session is resolved: mood scoring and reply generation degrade to fallback
// values on failure instead of surfacing errors.
func (s *ChatService) SendMessage(ctx context.Context, userID uuid.UUID, in SendMessageInput) (*SendMessageResult, error) {
	// Resolve session, creating one on first message
	var sessionID uuid.UUID
	if in.SessionID == nil {
		session, err := s.CreateSession(ctx, userID, sendDefaultTitle)
		if err != nil {
			return nil, err
		}
		sessionID = session.ID
	} else {
		session, err := s.sessions.Get(ctx, userID, *in.SessionID)
		if err != nil {
			return nil, err
		}
		if session == nil {
			return nil, ErrSessionNotFound
		}
		sessionID = session.ID
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	// Score mood; a failed score becomes the neutral snapshot
	moodAnalysis := models.NeutralMoodAnalysis()
	if result := s.model.AnalyzeMood(ctx, in.Content); result.Fallback == llm.FallbackNone {
		moodAnalysis = result.Analysis
	} else {
		logrus.WithFields(logrus.Fields{
			"session_id": sessionID,
			"reason":     result.Fallback,
		}).Warn("mood scoring fell back to neutral")
	}

	// Persist the user message with its mood snapshot
	userMessage := &models.ChatMessage{
		SessionID:    sessionID,
		Content:      in.Content,
		Type:         models.MessageTypeUser,
		MoodAnalysis: &moodAnalysis,
	}
	if err := s.messages.Create(ctx, userMessage); err != nil {
		return nil, err
	}

	// Append to the mood log, denormalized for independent querying
	moodEntry := &models.MoodEntry{
		UserID:     userID,
		Level:      moodAnalysis.Level,
		Confidence: moodAnalysis.Confidence,
		Keywords:   models.StringList(moodAnalysis.Keywords),
		Sentiment:  moodAnalysis.Sentiment,
		Emotions:   models.StringList(moodAnalysis.Emotions),
	}
	if err := s.moods.Create(ctx, moodEntry); err != nil {
		return nil, err
	}

	// Fetch-or-build the conversation context
	chatCtx, ok := s.contexts.Get(userID, sessionID)
	if !ok {
		chatCtx, err = s.builder.Build(ctx, userID, sessionID)
		if err != nil {
			return nil, err
		}
	}

	// Generate the reply; a failed generation becomes the fixed fallback
	replyText := FallbackReply
	result := s.model.GenerateReply(ctx, llm.ReplyRequest{
		Message:        in.Content,
		MoodLevel:      moodAnalysis.Level,
		ContextSummary: chatCtx.Summary(contextSummaryMessages),
		Preferences:    user.Preferences,
	})
	if result.Fallback == llm.FallbackNone {
		replyText = result.Text
	} else {
		logrus.WithFields(logrus.Fields{
			"session_id": sessionID,
			"reason":     result.Fallback,
		}).Warn("reply generation fell back to canned response")
	}

	assistantMessage := &models.ChatMessage{
		SessionID: sessionID,
		Content:   replyText,
		Type:      models.MessageTypeAssistant,
	}
	if err := s.messages.Create(ctx, assistantMessage); err != nil {
		return nil, err
	}

	// Fold the turn into the cached context and refresh its TTL. Concurrent
	// turns on one session can race here; the database rows above are already
	// safe, a lost context update only means a stale summary until rebuild.
	chatCtx.Append(
		models.ContextMessage{
			ID:           userMessage.ID,
			Content:      userMessage.Content,
			Type:         userMessage.Type,
			Timestamp:    userMessage.CreatedAt,
			MoodAnalysis: &moodAnalysis,
		},
		models.ContextMessage{
			ID:        assistantMessage.ID,
			Content:   assistantMessage.Content,
			Type:      assistantMessage.Type,
			Timestamp: assistantMessage.CreatedAt,
		},
		moodAnalysis,
	)
	s.contexts.Set(userID, sessionID, chatCtx)

	if err := s.sessions.Touch(ctx, sessionID); err != nil {
		return nil, err
	}

	return &SendMessageResult{
		UserMessage:      *userMessage,
		AssistantMessage: *assistantMessage,
		MoodAnalysis:     moodAnalysis,
	}, nil
}

// DeleteSession soft-deletes a session and evicts its cached context.
// Messages stay in the database.
func (s *ChatService) DeleteSession(ctx context.Context, userID, sessionID uuid.UUID) error {
	if err := s.sessions.Deactivate(ctx, userID, sessionID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrSessionNotFound
		}
		return err
	}

	s.contexts.Delete(userID, sessionID)
	return nil
}
