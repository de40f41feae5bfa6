// Package llm adapts the OpenAI chat-completion API into the task-specific
// capabilities the services layer consumes: mood scoring, empathetic reply
// generation, habit suggestion, and professional recommendation.
//
// Failures never escape as errors. Every method returns a result carrying a
// FallbackReason; callers decide which fallback value to substitute, keeping
// the degradation policy in one visible place instead of scattered recovers.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/config"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

// FallbackReason explains why a capability returned no usable result
type FallbackReason string

const (
	// FallbackNone means the result is genuine model output
	FallbackNone FallbackReason = ""
	// FallbackRequestFailed means the completion request errored
	FallbackRequestFailed FallbackReason = "request_failed"
	// FallbackParseFailed means the model output was not valid JSON
	FallbackParseFailed FallbackReason = "parse_failed"
)

// MoodResult is the outcome of scoring one message
type MoodResult struct {
	Analysis models.MoodAnalysis
	Fallback FallbackReason
}

// ReplyResult is the outcome of generating one assistant reply
type ReplyResult struct {
	Text     string
	Fallback FallbackReason
}

// ReplyRequest carries everything reply generation needs
type ReplyRequest struct {
	Message        string
	MoodLevel      models.MoodLevel
	ContextSummary string
	Preferences    models.UserPreferences
}

// HabitsResult is the outcome of generating habit suggestions
type HabitsResult struct {
	Suggestions []models.HabitSuggestion
	Fallback    FallbackReason
}

// RecommendationResult is the outcome of recommending a professional
type RecommendationResult struct {
	Recommendation models.ProfessionalRecommendation
	Fallback       FallbackReason
}

// Service invokes the OpenAI API with task-specific prompts
type Service struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// NewService creates a new LLM service
func NewService(cfg config.OpenAIConfig) *Service {
	return &Service{
		client:      openai.NewClient(cfg.APIKey),
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
	}
}

// AnalyzeMood scores the emotional state expressed in one message
func (s *Service) AnalyzeMood(ctx context.Context, message string) MoodResult {
	content, err := s.complete(ctx, fmt.Sprintf(moodAnalysisPrompt, message))
	if err != nil {
		logrus.WithError(err).Warn("mood analysis request failed")
		return MoodResult{Fallback: FallbackRequestFailed}
	}

	var analysis models.MoodAnalysis
	if err := json.Unmarshal(extractJSON(content), &analysis); err != nil {
		logrus.WithError(err).Warn("mood analysis parse failed")
		return MoodResult{Fallback: FallbackParseFailed}
	}

	if analysis.Level < models.MoodVeryLow || analysis.Level > models.MoodExcellent {
		return MoodResult{Fallback: FallbackParseFailed}
	}
	if analysis.Keywords == nil {
		analysis.Keywords = []string{}
	}
	if analysis.Emotions == nil {
		analysis.Emotions = []string{}
	}

	return MoodResult{Analysis: analysis}
}

// GenerateReply produces the assistant's reply for one turn
func (s *Service) GenerateReply(ctx context.Context, req ReplyRequest) ReplyResult {
	prefsJSON, _ := json.Marshal(req.Preferences)

	prompt := fmt.Sprintf(chatResponsePrompt,
		req.Message,
		req.MoodLevel,
		req.ContextSummary,
		string(prefsJSON),
		req.Preferences.CommunicationStyle,
		req.Preferences.PrivacyLevel,
	)

	content, err := s.complete(ctx, prompt)
	if err != nil {
		logrus.WithError(err).Warn("reply generation request failed")
		return ReplyResult{Fallback: FallbackRequestFailed}
	}

	return ReplyResult{Text: strings.TrimSpace(content)}
}

// SuggestHabits produces personalized habit suggestions
func (s *Service) SuggestHabits(ctx context.Context, moodLevel models.MoodLevel, userContext string, previousHabits []string) HabitsResult {
	prompt := fmt.Sprintf(habitSuggestionPrompt, moodLevel, userContext, strings.Join(previousHabits, ", "))

	content, err := s.complete(ctx, prompt)
	if err != nil {
		logrus.WithError(err).Warn("habit suggestion request failed")
		return HabitsResult{Fallback: FallbackRequestFailed}
	}

	var suggestions []models.HabitSuggestion
	if err := json.Unmarshal(extractJSON(content), &suggestions); err != nil {
		logrus.WithError(err).Warn("habit suggestion parse failed")
		return HabitsResult{Fallback: FallbackParseFailed}
	}

	return HabitsResult{Suggestions: suggestions}
}

// RecommendProfessional suggests which kind of professional a user should see
func (s *Service) RecommendProfessional(ctx context.Context, moodLevel models.MoodLevel, messageHistory []string, prefs models.UserPreferences) RecommendationResult {
	prefsJSON, _ := json.Marshal(prefs)

	prompt := fmt.Sprintf(recommendationPrompt, moodLevel, strings.Join(messageHistory, "\n"), string(prefsJSON))

	content, err := s.complete(ctx, prompt)
	if err != nil {
		logrus.WithError(err).Warn("professional recommendation request failed")
		return RecommendationResult{Fallback: FallbackRequestFailed}
	}

	var recommendation models.ProfessionalRecommendation
	if err := json.Unmarshal(extractJSON(content), &recommendation); err != nil {
		logrus.WithError(err).Warn("professional recommendation parse failed")
		return RecommendationResult{Fallback: FallbackParseFailed}
	}

	return RecommendationResult{Recommendation: recommendation}
}

func (s *Service) complete(ctx context.Context, prompt string) (string, error) {
	resp, err := s.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       s.model,
		Temperature: s.temperature,
		MaxTokens:   s.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty completion response")
	}
	return resp.Choices[0].Message.Content, nil
}

// extractJSON trims markdown code fences the model sometimes wraps around
// JSON output
func extractJSON(content string) []byte {
	trimmed := strings.TrimSpace(content)
	if strings.HasPrefix(trimmed, "```") {
		trimmed = strings.TrimPrefix(trimmed, "```json")
		trimmed = strings.TrimPrefix(trimmed, "```")
		if idx := strings.LastIndex(trimmed, "```"); idx >= 0 {
			trimmed = trimmed[:idx]
		}
		trimmed = strings.TrimSpace(trimmed)
	}
	return []byte(trimmed)
}
