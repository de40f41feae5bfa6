package services

import (
	"context"
	"math"
	"time"

	"github.com/google/uuid"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
)

// recentMoodWindow is how many log entries feed the rolling average
const recentMoodWindow = 10

// AverageMoodLevel rolls recent mood levels up into one representative
// level: the rounded arithmetic mean, clamped to the 1-5 ordinal range.
// An empty list reads as neutral.
func AverageMoodLevel(levels []models.MoodLevel) models.MoodLevel {
	if len(levels) == 0 {
		return models.MoodNeutral
	}

	sum := 0
	for _, level := range levels {
		sum += int(level)
	}

	avg := models.MoodLevel(math.Round(float64(sum) / float64(len(levels))))
	if avg < models.MoodVeryLow {
		avg = models.MoodVeryLow
	}
	if avg > models.MoodExcellent {
		avg = models.MoodExcellent
	}
	return avg
}

// MoodService exposes the mood log
type MoodService struct {
	moods repository.MoodEntryRepository
}

// NewMoodService creates a new mood service
func NewMoodService(moods repository.MoodEntryRepository) *MoodService {
	return &MoodService{moods: moods}
}

// History returns a user's mood entries from the last N days, oldest first
func (s *MoodService) History(ctx context.Context, userID uuid.UUID, days int) ([]models.MoodEntry, error) {
	if days <= 0 {
		days = 30
	}
	since := time.Now().AddDate(0, 0, -days)
	return s.moods.ListSince(ctx, userID, since)
}

// RecentAverage returns the representative level over the user's most recent
// mood entries, along with the entries themselves
func (s *MoodService) RecentAverage(ctx context.Context, userID uuid.UUID) (models.MoodLevel, []models.MoodEntry, error) {
	entries, err := s.moods.ListRecent(ctx, userID, recentMoodWindow)
	if err != nil {
		return models.MoodNeutral, nil, err
	}

	levels := make([]models.MoodLevel, len(entries))
	for i, entry := range entries {
		levels[i] = entry.Level
	}

	return AverageMoodLevel(levels), entries, nil
}
