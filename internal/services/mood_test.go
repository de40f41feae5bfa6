package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

func TestAverageMoodLevel(t *testing.T) {
	tests := []struct {
		name     string
		levels   []models.MoodLevel
		expected models.MoodLevel
	}{
		{
			name:     "empty history reads as neutral",
			levels:   nil,
			expected: models.MoodNeutral,
		},
		{
			name:     "single entry",
			levels:   []models.MoodLevel{models.MoodLow},
			expected: models.MoodLow,
		},
		{
			name:     "mean rounds half up",
			levels:   []models.MoodLevel{2, 3},
			expected: 3,
		},
		{
			name:     "mean rounds down below half",
			levels:   []models.MoodLevel{2, 2, 3},
			expected: 2,
		},
		{
			name:     "opposite extremes average to neutral",
			levels:   []models.MoodLevel{1, 5},
			expected: 3,
		},
		{
			name:     "high moods round up to excellent",
			levels:   []models.MoodLevel{5, 5, 4},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AverageMoodLevel(tt.levels))
		})
	}
}

func TestMoodService_RecentAverage(t *testing.T) {
	userID := uuid.New()
	moods := &fakeMoodRepo{}

	// 12 entries; only the newest 10 feed the average
	for i := 0; i < 12; i++ {
		level := models.MoodVeryLow
		if i >= 2 {
			level = models.MoodGood
		}
		_ = moods.Create(context.Background(), &models.MoodEntry{
			UserID: userID,
			Level:  level,
		})
	}

	svc := NewMoodService(moods)
	average, entries, err := svc.RecentAverage(context.Background(), userID)

	assert.NoError(t, err)
	assert.Len(t, entries, 10)
	assert.Equal(t, models.MoodGood, average)
}

func TestMoodService_RecentAverageNoEntries(t *testing.T) {
	svc := NewMoodService(&fakeMoodRepo{})

	average, entries, err := svc.RecentAverage(context.Background(), uuid.New())

	assert.NoError(t, err)
	assert.Empty(t, entries)
	assert.Equal(t, models.MoodNeutral, average)
}

func TestMoodService_HistoryFiltersByWindow(t *testing.T) {
	userID := uuid.New()
	moods := &fakeMoodRepo{}

	_ = moods.Create(context.Background(), &models.MoodEntry{
		UserID:    userID,
		Level:     models.MoodLow,
		CreatedAt: time.Now().AddDate(0, 0, -40),
	})
	_ = moods.Create(context.Background(), &models.MoodEntry{
		UserID:    userID,
		Level:     models.MoodGood,
		CreatedAt: time.Now().AddDate(0, 0, -3),
	})

	svc := NewMoodService(moods)
	entries, err := svc.History(context.Background(), userID, 30)

	assert.NoError(t, err)
	assert.Len(t, entries, 1)
	assert.Equal(t, models.MoodGood, entries[0].Level)
}
