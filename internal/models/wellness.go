package models

import (
	"time"

	"github.com/google/uuid"
)

// Professional types
const (
	ProfessionalPsychologist = "psychologist"
	ProfessionalTherapist    = "therapist"
	ProfessionalPsychiatrist = "psychiatrist"
	ProfessionalCounselor    = "counselor"
)

// Habit categories
const (
	CategoryMentalHealth     = "mental_health"
	CategoryPhysicalHealth   = "physical_health"
	CategoryWorkLifeBalance  = "work_life_balance"
	CategoryStressManagement = "stress_management"
	CategorySocialConnection = "social_connection"
)

// Professional is a directory entry for a mental health professional
type Professional struct {
	ID              uuid.UUID  `json:"id" db:"id"`
	Name            string     `json:"name" db:"name"`
	Email           string     `json:"email" db:"email"`
	Phone           string     `json:"phone" db:"phone"`
	Type            string     `json:"type" db:"type"`
	Specializations StringList `json:"specializations" db:"specializations"`
	Location        string     `json:"location" db:"location"`
	Website         string     `json:"website" db:"website"`
	Bio             string     `json:"bio" db:"bio"`
	IsAvailable     bool       `json:"is_available" db:"is_available"`
	Rating          float64    `json:"rating" db:"rating"`
	ReviewCount     int        `json:"review_count" db:"review_count"`
	CreatedAt       time.Time  `json:"created_at" db:"created_at"`
}

// ProfessionalRecommendation is the structured output of the
// professional-recommendation capability
type ProfessionalRecommendation struct {
	Type            string   `json:"type"`
	Reason          string   `json:"reason"`
	Urgency         string   `json:"urgency"`
	Specializations []string `json:"specializations"`
}

// HabitTracking is a habit a user has adopted, with completion streak
type HabitTracking struct {
	ID            uuid.UUID  `json:"id" db:"id"`
	UserID        uuid.UUID  `json:"user_id" db:"user_id"`
	HabitID       string     `json:"habit_id" db:"habit_id"`
	Title         string     `json:"title" db:"title"`
	Description   string     `json:"description" db:"description"`
	Category      string     `json:"category" db:"category"`
	Difficulty    string     `json:"difficulty" db:"difficulty"`
	EstimatedTime string     `json:"estimated_time" db:"estimated_time"`
	Benefits      StringList `json:"benefits" db:"benefits"`
	IsCompleted   bool       `json:"is_completed" db:"is_completed"`
	CompletedAt   *time.Time `json:"completed_at" db:"completed_at"`
	StreakCount   int        `json:"streak_count" db:"streak_count"`
	CreatedAt     time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at" db:"updated_at"`
}

// HabitSuggestion is one AI-suggested habit, not yet tracked
type HabitSuggestion struct {
	ID            string   `json:"id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	EstimatedTime string   `json:"estimated_time"`
	Benefits      []string `json:"benefits"`
}

// HabitStats summarizes a user's habit tracking progress
type HabitStats struct {
	TotalHabits       int            `json:"total_habits"`
	CompletedHabits   int            `json:"completed_habits"`
	CompletionRate    float64        `json:"completion_rate"`
	MaxStreak         int            `json:"max_streak"`
	CurrentStreaks    int            `json:"current_streaks"`
	CategoryBreakdown map[string]int `json:"category_breakdown"`
}
