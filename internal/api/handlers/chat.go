package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/api/middleware"
	"github.com/KainanGuerra/therapy-chatbot/internal/services"
)

// SendMessageRequest represents an inbound chat message
type SendMessageRequest struct {
	Content   string `json:"content"`
	SessionID string `json:"session_id"`
}

// SendMessage handles one conversation turn
func SendMessage(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		var req SendMessageRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		if strings.TrimSpace(req.Content) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Message content is required",
			})
		}

		input := services.SendMessageInput{Content: req.Content}
		if req.SessionID != "" {
			sessionID, err := uuid.Parse(req.SessionID)
			if err != nil {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Invalid session ID",
				})
			}
			input.SessionID = &sessionID
		}

		result, err := chat.SendMessage(c.Context(), userID, input)
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
			logrus.WithError(err).Error("message processing failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to process message",
			})
		}

		return c.JSON(result)
	}
}
