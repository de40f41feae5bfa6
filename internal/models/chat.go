package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// MoodLevel is an ordinal 1-5 score of emotional state
type MoodLevel int

const (
	MoodVeryLow   MoodLevel = 1
	MoodLow       MoodLevel = 2
	MoodNeutral   MoodLevel = 3
	MoodGood      MoodLevel = 4
	MoodExcellent MoodLevel = 5
)

// Message types
const (
	MessageTypeUser      = "user"
	MessageTypeAssistant = "assistant"
	MessageTypeSystem    = "system"
)

// Sentiment tags produced by mood scoring
const (
	SentimentPositive = "positive"
	SentimentNegative = "negative"
	SentimentNeutral  = "neutral"
)

// MoodAnalysis is the structured output of scoring one message
type MoodAnalysis struct {
	Level      MoodLevel `json:"level"`
	Confidence float64   `json:"confidence"`
	Keywords   []string  `json:"keywords"`
	Sentiment  string    `json:"sentiment"`
	Emotions   []string  `json:"emotions"`
}

// NeutralMoodAnalysis is the snapshot substituted when scoring fails.
// Availability over accuracy: a scoring failure never blocks the turn.
func NeutralMoodAnalysis() MoodAnalysis {
	return MoodAnalysis{
		Level:      MoodNeutral,
		Confidence: 0.5,
		Keywords:   []string{},
		Sentiment:  SentimentNeutral,
		Emotions:   []string{},
	}
}

// Value implements driver.Valuer for MoodAnalysis
func (m MoodAnalysis) Value() (driver.Value, error) {
	return json.Marshal(m)
}

// Scan implements sql.Scanner for MoodAnalysis
func (m *MoodAnalysis) Scan(value interface{}) error {
	if value == nil {
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into MoodAnalysis", value)
	}

	return json.Unmarshal(bytes, m)
}

// ChatSession is one conversation thread between a user and the assistant.
// Sessions are soft-deleted: IsActive flips to false, messages remain.
type ChatSession struct {
	ID        uuid.UUID `json:"id" db:"id"`
	UserID    uuid.UUID `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	IsActive  bool      `json:"is_active" db:"is_active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// ChatMessage belongs to exactly one session and is immutable once created.
// User messages carry the mood snapshot taken when they were scored.
type ChatMessage struct {
	ID           uuid.UUID     `json:"id" db:"id"`
	SessionID    uuid.UUID     `json:"session_id" db:"session_id"`
	Content      string        `json:"content" db:"content"`
	Type         string        `json:"type" db:"type"`
	MoodAnalysis *MoodAnalysis `json:"mood_analysis,omitempty" db:"mood_analysis"`
	CreatedAt    time.Time     `json:"created_at" db:"created_at"`
}

// MoodEntry is one row of the append-only mood log, denormalized from the
// message snapshot so mood can be queried independently of chat history
type MoodEntry struct {
	ID         uuid.UUID  `json:"id" db:"id"`
	UserID     uuid.UUID  `json:"user_id" db:"user_id"`
	Level      MoodLevel  `json:"level" db:"level"`
	Confidence float64    `json:"confidence" db:"confidence"`
	Keywords   StringList `json:"keywords" db:"keywords"`
	Sentiment  string     `json:"sentiment" db:"sentiment"`
	Emotions   StringList `json:"emotions" db:"emotions"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
}

// Context window bounds. Oldest entries are dropped first.
const (
	MaxContextMessages = 20
	MaxContextMoods    = 10
)

// ContextMessage is a message as held in the cached context
type ContextMessage struct {
	ID           uuid.UUID     `json:"id"`
	Content      string        `json:"content"`
	Type         string        `json:"type"`
	Timestamp    time.Time     `json:"timestamp"`
	MoodAnalysis *MoodAnalysis `json:"mood_analysis,omitempty"`
}

// ChatContext is the cache-resident summary of a session: a bounded window
// of recent messages and mood analyses plus the user's preferences. It is
// derived state; Postgres rows are the source of truth and the context can
// be dropped and rebuilt at any time.
type ChatContext struct {
	UserID       uuid.UUID        `json:"user_id"`
	SessionID    uuid.UUID        `json:"session_id"`
	Messages     []ContextMessage `json:"messages"`
	MoodHistory  []MoodAnalysis   `json:"mood_history"`
	Preferences  UserPreferences  `json:"preferences"`
	LastActivity time.Time        `json:"last_activity"`
}

// Append adds a turn's messages and mood analysis, then truncates to the
// context bounds, dropping oldest entries first
func (c *ChatContext) Append(userMsg, assistantMsg ContextMessage, mood MoodAnalysis) {
	c.Messages = append(c.Messages, userMsg, assistantMsg)
	c.MoodHistory = append(c.MoodHistory, mood)

	if n := len(c.Messages); n > MaxContextMessages {
		c.Messages = c.Messages[n-MaxContextMessages:]
	}
	if n := len(c.MoodHistory); n > MaxContextMoods {
		c.MoodHistory = c.MoodHistory[n-MaxContextMoods:]
	}

	c.LastActivity = time.Now()
}

// Summary renders the last n context messages as "type: content" lines,
// newest last, for inclusion in reply-generation prompts
func (c *ChatContext) Summary(n int) string {
	msgs := c.Messages
	if len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}

	summary := ""
	for i, msg := range msgs {
		if i > 0 {
			summary += "\n"
		}
		summary += msg.Type + ": " + msg.Content
	}
	return summary
}
