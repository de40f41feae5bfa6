package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/llm"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

// ErrHabitNotFound is returned when a habit is absent or owned by another user
var ErrHabitNotFound = errors.New("habit not found or access denied")

// suggestionCacheTTL is how long personalized suggestions are reused
const suggestionCacheTTL = time.Hour

// HabitSuggester is the slice of the LLM surface habit suggestions need
type HabitSuggester interface {
	SuggestHabits(ctx context.Context, moodLevel models.MoodLevel, userContext string, previousHabits []string) llm.HabitsResult
}

// HabitsService manages tracked habits and AI-personalized suggestions
type HabitsService struct {
	habits repository.HabitRepository
	users  repository.UserRepository
	mood   *MoodService
	cache  Cache
	model  HabitSuggester
}

// NewHabitsService creates a new habits service
func NewHabitsService(habits repository.HabitRepository, users repository.UserRepository, mood *MoodService, cache Cache, model HabitSuggester) *HabitsService {
	return &HabitsService{
		habits: habits,
		users:  users,
		mood:   mood,
		cache:  cache,
		model:  model,
	}
}

// CreateHabit starts tracking a habit for a user
func (s *HabitsService) CreateHabit(ctx context.Context, userID uuid.UUID, habit *models.HabitTracking) (*models.HabitTracking, error) {
	habit.UserID = userID
	if habit.HabitID == "" {
		habit.HabitID = fmt.Sprintf("habit_%d", time.Now().UnixMilli())
	}
	if err := s.habits.Create(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// GetHabit retrieves one tracked habit
func (s *HabitsService) GetHabit(ctx context.Context, userID, id uuid.UUID) (*models.HabitTracking, error) {
	habit, err := s.habits.Get(ctx, userID, id)
	if err != nil {
		return nil, err
	}
	if habit == nil {
		return nil, ErrHabitNotFound
	}
	return habit, nil
}

// ListHabits returns a user's habits, optionally filtered by category
func (s *HabitsService) ListHabits(ctx context.Context, userID uuid.UUID, category string) ([]*models.HabitTracking, error) {
	return s.habits.ListByUser(ctx, userID, category)
}

// UpdateHabit replaces a habit's descriptive fields
func (s *HabitsService) UpdateHabit(ctx context.Context, userID, id uuid.UUID, updated *models.HabitTracking) (*models.HabitTracking, error) {
	habit, err := s.GetHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	habit.Title = updated.Title
	habit.Description = updated.Description
	habit.Category = updated.Category
	habit.Difficulty = updated.Difficulty
	habit.EstimatedTime = updated.EstimatedTime
	habit.Benefits = updated.Benefits

	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// CompleteHabit marks a habit complete (extending its streak) or incomplete
// (resetting it)
func (s *HabitsService) CompleteHabit(ctx context.Context, userID, id uuid.UUID, completed bool) (*models.HabitTracking, error) {
	habit, err := s.GetHabit(ctx, userID, id)
	if err != nil {
		return nil, err
	}

	habit.IsCompleted = completed
	if completed {
		now := time.Now()
		habit.CompletedAt = &now
		habit.StreakCount++
	} else {
		habit.CompletedAt = nil
		habit.StreakCount = 0
	}

	if err := s.habits.Update(ctx, habit); err != nil {
		return nil, err
	}
	return habit, nil
}

// DeleteHabit stops tracking a habit
func (s *HabitsService) DeleteHabit(ctx context.Context, userID, id uuid.UUID) error {
	if err := s.habits.Delete(ctx, userID, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return ErrHabitNotFound
		}
		return err
	}
	return nil
}

// Stats summarizes a user's habit progress
func (s *HabitsService) Stats(ctx context.Context, userID uuid.UUID) (*models.HabitStats, error) {
	habits, err := s.habits.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}

	stats := &models.HabitStats{
		TotalHabits:       len(habits),
		CategoryBreakdown: make(map[string]int),
	}

	for _, habit := range habits {
		if habit.IsCompleted {
			stats.CompletedHabits++
		}
		if habit.StreakCount > stats.MaxStreak {
			stats.MaxStreak = habit.StreakCount
		}
		if habit.StreakCount > 0 {
			stats.CurrentStreaks++
		}
		stats.CategoryBreakdown[habit.Category]++
	}

	if stats.TotalHabits > 0 {
		rate := float64(stats.CompletedHabits) / float64(stats.TotalHabits) * 100
		stats.CompletionRate = float64(int(rate*100)) / 100
	}

	return stats, nil
}

// PersonalizedSuggestions asks the model for habit ideas grounded in the
// user's recent mood and existing habits. Results are cached for an hour;
// a model failure yields an empty list, never an error.
func (s *HabitsService) PersonalizedSuggestions(ctx context.Context, userID uuid.UUID) ([]models.HabitSuggestion, error) {
	cacheKey := fmt.Sprintf("habit_suggestions:%s", userID)
	if data, ok, err := s.cache.Get(cacheKey); err == nil && ok {
		var cached []models.HabitSuggestion
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	avgLevel, recentMoods, err := s.mood.RecentAverage(ctx, userID)
	if err != nil {
		return nil, err
	}

	habits, err := s.habits.ListByUser(ctx, userID, "")
	if err != nil {
		return nil, err
	}
	titles := make([]string, len(habits))
	for i, habit := range habits {
		titles[i] = habit.Title
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	userContext := buildUserContext(user, recentMoods, habits)

	suggestions := []models.HabitSuggestion{}
	if result := s.model.SuggestHabits(ctx, avgLevel, userContext, titles); result.Fallback == llm.FallbackNone {
		suggestions = result.Suggestions
	} else {
		logrus.WithField("reason", result.Fallback).Warn("habit suggestion fell back to empty list")
	}

	if data, err := json.Marshal(suggestions); err == nil {
		_ = s.cache.Set(cacheKey, data, suggestionCacheTTL)
	}

	return suggestions, nil
}

// RecommendedHabits returns the curated evidence-based starter list
func (s *HabitsService) RecommendedHabits() []models.HabitSuggestion {
	return []models.HabitSuggestion{
		{
			ID:            "meditation",
			Title:         "Daily Meditation",
			Description:   "Practice mindfulness meditation for 10-15 minutes daily",
			Category:      models.CategoryMentalHealth,
			Difficulty:    "easy",
			EstimatedTime: "10-15 minutes",
			Benefits:      []string{"Reduced stress", "Better focus", "Improved emotional regulation"},
		},
		{
			ID:            "deep_breathing",
			Title:         "Deep Breathing Exercises",
			Description:   "Practice deep breathing techniques during work breaks",
			Category:      models.CategoryStressManagement,
			Difficulty:    "easy",
			EstimatedTime: "5 minutes",
			Benefits:      []string{"Immediate stress relief", "Better oxygen flow", "Improved focus"},
		},
		{
			ID:            "gratitude_journal",
			Title:         "Gratitude Journaling",
			Description:   "Write down 3 things you are grateful for each day",
			Category:      models.CategoryMentalHealth,
			Difficulty:    "easy",
			EstimatedTime: "5 minutes",
			Benefits:      []string{"Improved mood", "Better perspective", "Increased positivity"},
		},
		{
			ID:            "walking_breaks",
			Title:         "Walking Breaks",
			Description:   "Take a short walk every two hours during the workday",
			Category:      models.CategoryPhysicalHealth,
			Difficulty:    "easy",
			EstimatedTime: "10 minutes",
			Benefits:      []string{"Physical activity", "Mental reset", "Reduced eye strain"},
		},
		{
			ID:            "lunch_away",
			Title:         "Lunch Away From Desk",
			Description:   "Eat lunch away from your workspace to create a real break",
			Category:      models.CategoryWorkLifeBalance,
			Difficulty:    "easy",
			EstimatedTime: "30 minutes",
			Benefits:      []string{"Mental separation from work", "Better digestion", "Social connection"},
		},
	}
}

// buildUserContext renders what the model needs to know about the user as a
// short prose summary
func buildUserContext(user *models.User, moods []models.MoodEntry, habits []*models.HabitTracking) string {
	var parts []string

	if user != nil && user.Department != "" {
		parts = append(parts, fmt.Sprintf("Works in %s", user.Department))
	}
	if user != nil && user.JobTitle != "" {
		parts = append(parts, fmt.Sprintf("Job title: %s", user.JobTitle))
	}

	if len(moods) > 0 {
		sum := 0
		for _, mood := range moods {
			sum += int(mood.Level)
		}
		parts = append(parts, fmt.Sprintf("Average mood level: %.1f/5", float64(sum)/float64(len(moods))))

		if emotions := commonEmotions(moods); len(emotions) > 0 {
			parts = append(parts, fmt.Sprintf("Common emotions: %s", strings.Join(emotions, ", ")))
		}
	}

	if len(habits) > 0 {
		seen := make(map[string]bool)
		var categories []string
		completed := 0
		for _, habit := range habits {
			if !seen[habit.Category] {
				seen[habit.Category] = true
				categories = append(categories, habit.Category)
			}
			if habit.IsCompleted {
				completed++
			}
		}
		parts = append(parts, fmt.Sprintf("Current habit categories: %s", strings.Join(categories, ", ")))
		parts = append(parts, fmt.Sprintf("Completed habits: %d/%d", completed, len(habits)))
	}

	return strings.Join(parts, ". ")
}

// commonEmotions returns the three most frequent emotions across mood entries
func commonEmotions(moods []models.MoodEntry) []string {
	counts := make(map[string]int)
	for _, mood := range moods {
		for _, emotion := range mood.Emotions {
			counts[emotion]++
		}
	}

	emotions := make([]string, 0, len(counts))
	for emotion := range counts {
		emotions = append(emotions, emotion)
	}
	sort.Slice(emotions, func(i, j int) bool {
		if counts[emotions[i]] != counts[emotions[j]] {
			return counts[emotions[i]] > counts[emotions[j]]
		}
		return emotions[i] < emotions[j]
	})

	if len(emotions) > 3 {
		emotions = emotions[:3]
	}
	return emotions
}
