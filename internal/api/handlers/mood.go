package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/api/middleware"
	"github.com/KainanGuerra/therapy-chatbot/internal/services"
)

// GetMoodHistory returns the user's mood entries over a period
func GetMoodHistory(mood *services.MoodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		days := c.QueryInt("days", 30)

		entries, err := mood.History(c.Context(), userID, days)
		if err != nil {
			logrus.WithError(err).Error("mood history lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load mood history",
			})
		}

		return c.JSON(fiber.Map{
			"days":    days,
			"entries": entries,
		})
	}
}

// GetMoodSummary returns the rolling average over recent mood entries
func GetMoodSummary(mood *services.MoodService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		average, entries, err := mood.RecentAverage(c.Context(), userID)
		if err != nil {
			logrus.WithError(err).Error("mood summary lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load mood summary",
			})
		}

		return c.JSON(fiber.Map{
			"average_level": average,
			"sample_size":   len(entries),
		})
	}
}
