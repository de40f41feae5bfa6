package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/llm"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

// ErrProfessionalNotFound is returned when a professional is absent from the
// directory
var ErrProfessionalNotFound = errors.New("professional not found")

const (
	// recommendationCacheTTL is how long a user's recommendation is reused
	recommendationCacheTTL = 30 * time.Minute
	// recommendationMoodWindow is how many recent mood entries inform the
	// recommendation
	recommendationMoodWindow = 10
	matchedProfessionalsLimit = 5
	searchResultsLimit        = 10
)

// ProfessionalRecommender is the slice of the LLM surface recommendations need
type ProfessionalRecommender interface {
	RecommendProfessional(ctx context.Context, moodLevel models.MoodLevel, messageHistory []string, prefs models.UserPreferences) llm.RecommendationResult
}

// RecommendationOutput pairs the AI recommendation with matching directory
// entries
type RecommendationOutput struct {
	Recommendation models.ProfessionalRecommendation `json:"recommendation"`
	Professionals  []*models.Professional            `json:"professionals"`
}

// ProfessionalsService manages the professional directory and AI-driven
// referral recommendations
type ProfessionalsService struct {
	professionals repository.ProfessionalRepository
	moods         repository.MoodEntryRepository
	users         repository.UserRepository
	cache         Cache
	model         ProfessionalRecommender
}

// NewProfessionalsService creates a new professionals service
func NewProfessionalsService(professionals repository.ProfessionalRepository, moods repository.MoodEntryRepository, users repository.UserRepository, cache Cache, model ProfessionalRecommender) *ProfessionalsService {
	return &ProfessionalsService{
		professionals: professionals,
		moods:         moods,
		users:         users,
		cache:         cache,
		model:         model,
	}
}

// CreateProfessional adds a directory entry
func (s *ProfessionalsService) CreateProfessional(ctx context.Context, professional *models.Professional) (*models.Professional, error) {
	professional.IsAvailable = true
	if err := s.professionals.Create(ctx, professional); err != nil {
		return nil, err
	}
	return professional, nil
}

// GetProfessional retrieves one directory entry
func (s *ProfessionalsService) GetProfessional(ctx context.Context, id uuid.UUID) (*models.Professional, error) {
	professional, err := s.professionals.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if professional == nil {
		return nil, ErrProfessionalNotFound
	}
	return professional, nil
}

// ListProfessionals returns available professionals matching the filter
func (s *ProfessionalsService) ListProfessionals(ctx context.Context, filter repository.ProfessionalFilter) ([]*models.Professional, error) {
	return s.professionals.List(ctx, filter)
}

// UpdateProfessional replaces a directory entry's editable fields
func (s *ProfessionalsService) UpdateProfessional(ctx context.Context, id uuid.UUID, updated *models.Professional) (*models.Professional, error) {
	professional, err := s.GetProfessional(ctx, id)
	if err != nil {
		return nil, err
	}

	professional.Name = updated.Name
	professional.Email = updated.Email
	professional.Phone = updated.Phone
	professional.Type = updated.Type
	professional.Specializations = updated.Specializations
	professional.Location = updated.Location
	professional.Website = updated.Website
	professional.Bio = updated.Bio

	if err := s.professionals.Update(ctx, professional); err != nil {
		return nil, err
	}
	return professional, nil
}

// RemoveProfessional marks a professional unavailable. The row stays so past
// recommendations keep resolving.
func (s *ProfessionalsService) RemoveProfessional(ctx context.Context, id uuid.UUID) error {
	if _, err := s.GetProfessional(ctx, id); err != nil {
		return err
	}
	return s.professionals.SetAvailability(ctx, id, false)
}

// SearchProfessionals matches name, bio and specializations against a query
func (s *ProfessionalsService) SearchProfessionals(ctx context.Context, query string) ([]*models.Professional, error) {
	return s.professionals.Search(ctx, query, searchResultsLimit)
}

// RateProfessional records a rating and updates the rolled-up average
func (s *ProfessionalsService) RateProfessional(ctx context.Context, id uuid.UUID, rating float64) (*models.Professional, error) {
	if rating < 1 || rating > 5 {
		return nil, errors.New("rating must be between 1 and 5")
	}

	professional, err := s.GetProfessional(ctx, id)
	if err != nil {
		return nil, err
	}

	total := professional.Rating*float64(professional.ReviewCount) + rating
	professional.ReviewCount++
	professional.Rating = math.Round(total/float64(professional.ReviewCount)*100) / 100

	if err := s.professionals.UpdateRating(ctx, id, professional.Rating, professional.ReviewCount); err != nil {
		return nil, err
	}
	return professional, nil
}

// Recommendations asks the model which kind of professional suits the user's
// recent moods, then pairs it with matching directory entries. Results are
// cached for thirty minutes; a model failure yields the general counselor
// fallback, never an error.
func (s *ProfessionalsService) Recommendations(ctx context.Context, userID uuid.UUID) (*RecommendationOutput, error) {
	cacheKey := fmt.Sprintf("recommendations:%s", userID)
	if data, ok, err := s.cache.Get(cacheKey); err == nil && ok {
		var cached RecommendationOutput
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	entries, err := s.moods.ListRecent(ctx, userID, recommendationMoodWindow)
	if err != nil {
		return nil, err
	}

	levels := make([]models.MoodLevel, len(entries))
	history := make([]string, len(entries))
	for i, entry := range entries {
		levels[i] = entry.Level
		history[i] = fmt.Sprintf("Mood: %d, Keywords: %s, Sentiment: %s",
			entry.Level, joinOrNone(entry.Keywords), entry.Sentiment)
	}
	avgLevel := AverageMoodLevel(levels)

	prefs := models.DefaultPreferences()
	if user, err := s.users.GetByID(ctx, userID); err == nil && user != nil {
		prefs = user.Preferences
	}

	recommendation := fallbackRecommendation()
	if result := s.model.RecommendProfessional(ctx, avgLevel, history, prefs); result.Fallback == llm.FallbackNone {
		recommendation = result.Recommendation
	} else {
		logrus.WithField("reason", result.Fallback).Warn("professional recommendation fell back to general counselor")
	}

	professionals, err := s.professionals.List(ctx, repository.ProfessionalFilter{
		Type:  recommendation.Type,
		Limit: matchedProfessionalsLimit,
	})
	if err != nil {
		return nil, err
	}

	output := &RecommendationOutput{
		Recommendation: recommendation,
		Professionals:  professionals,
	}

	if data, err := json.Marshal(output); err == nil {
		_ = s.cache.Set(cacheKey, data, recommendationCacheTTL)
	}

	return output, nil
}

func fallbackRecommendation() models.ProfessionalRecommendation {
	return models.ProfessionalRecommendation{
		Type:            models.ProfessionalCounselor,
		Reason:          "General workplace support recommended",
		Urgency:         "low",
		Specializations: []string{"workplace wellness", "stress management"},
	}
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
