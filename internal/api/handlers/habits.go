package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/api/middleware"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/services"
)

// HabitRequest represents a habit create or update payload
type HabitRequest struct {
	HabitID       string   `json:"habit_id"`
	Title         string   `json:"title"`
	Description   string   `json:"description"`
	Category      string   `json:"category"`
	Difficulty    string   `json:"difficulty"`
	EstimatedTime string   `json:"estimated_time"`
	Benefits      []string `json:"benefits"`
}

// CompleteHabitRequest toggles a habit's completion state
type CompleteHabitRequest struct {
	Completed bool `json:"completed"`
}

func (r *HabitRequest) toModel() *models.HabitTracking {
	return &models.HabitTracking{
		HabitID:       r.HabitID,
		Title:         r.Title,
		Description:   r.Description,
		Category:      r.Category,
		Difficulty:    r.Difficulty,
		EstimatedTime: r.EstimatedTime,
		Benefits:      models.StringList(r.Benefits),
	}
}

// CreateHabit starts tracking a habit
func CreateHabit(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		var req HabitRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if req.Title == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Title is required",
			})
		}

		habit, err := habits.CreateHabit(c.Context(), userID, req.toModel())
		if err != nil {
			logrus.WithError(err).Error("habit creation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create habit",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(habit)
	}
}

// GetHabits lists the user's habits, optionally filtered by category
func GetHabits(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		list, err := habits.ListHabits(c.Context(), userID, c.Query("category"))
		if err != nil {
			logrus.WithError(err).Error("habit listing failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list habits",
			})
		}

		return c.JSON(fiber.Map{"habits": list})
	}
}

// GetHabit returns one tracked habit
func GetHabit(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid habit ID",
			})
		}

		habit, err := habits.GetHabit(c.Context(), userID, id)
		if err != nil {
			if errors.Is(err, services.ErrHabitNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Habit not found",
				})
			}
			logrus.WithError(err).Error("habit lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load habit",
			})
		}

		return c.JSON(habit)
	}
}

// UpdateHabit replaces a habit's descriptive fields
func UpdateHabit(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid habit ID",
			})
		}

		var req HabitRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		habit, err := habits.UpdateHabit(c.Context(), userID, id, req.toModel())
		if err != nil {
			if errors.Is(err, services.ErrHabitNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Habit not found",
				})
			}
			logrus.WithError(err).Error("habit update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update habit",
			})
		}

		return c.JSON(habit)
	}
}

// CompleteHabit marks a habit complete or incomplete
func CompleteHabit(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid habit ID",
			})
		}

		var req CompleteHabitRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		habit, err := habits.CompleteHabit(c.Context(), userID, id, req.Completed)
		if err != nil {
			if errors.Is(err, services.ErrHabitNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Habit not found",
				})
			}
			logrus.WithError(err).Error("habit completion failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update habit",
			})
		}

		return c.JSON(habit)
	}
}

// DeleteHabit stops tracking a habit
func DeleteHabit(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid habit ID",
			})
		}

		if err := habits.DeleteHabit(c.Context(), userID, id); err != nil {
			if errors.Is(err, services.ErrHabitNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Habit not found",
				})
			}
			logrus.WithError(err).Error("habit deletion failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete habit",
			})
		}

		return c.JSON(fiber.Map{"message": "Habit deleted"})
	}
}

// GetHabitStats summarizes the user's habit progress
func GetHabitStats(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		stats, err := habits.Stats(c.Context(), userID)
		if err != nil {
			logrus.WithError(err).Error("habit stats failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load habit stats",
			})
		}

		return c.JSON(stats)
	}
}

// GetRecommendedHabits returns the curated starter list
func GetRecommendedHabits(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"habits": habits.RecommendedHabits()})
	}
}

// GetHabitSuggestions returns AI-personalized habit suggestions
func GetHabitSuggestions(habits *services.HabitsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		suggestions, err := habits.PersonalizedSuggestions(c.Context(), userID)
		if err != nil {
			logrus.WithError(err).Error("habit suggestions failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load suggestions",
			})
		}

		return c.JSON(fiber.Map{"suggestions": suggestions})
	}
}
