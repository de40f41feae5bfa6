package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/api/middleware"
	"github.com/KainanGuerra/therapy-chatbot/internal/services"
)

// CreateSessionRequest represents a new conversation thread request
type CreateSessionRequest struct {
	Title string `json:"title"`
}

// CreateSession creates a new conversation thread
func CreateSession(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		var req CreateSessionRequest
		if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		session, err := chat.CreateSession(c.Context(), userID, req.Title)
		if err != nil {
			logrus.WithError(err).Error("session creation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create session",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(session)
	}
}

// GetSessions lists the user's active sessions
func GetSessions(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		sessions, err := chat.ListSessions(c.Context(), userID)
		if err != nil {
			logrus.WithError(err).Error("session listing failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list sessions",
			})
		}

		return c.JSON(fiber.Map{"sessions": sessions})
	}
}

// GetSessionMessages returns a session's message history
func GetSessionMessages(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		sessionID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid session ID",
			})
		}

		messages, err := chat.GetSessionMessages(c.Context(), userID, sessionID)
		if err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
			logrus.WithError(err).Error("message listing failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list messages",
			})
		}

		return c.JSON(fiber.Map{"messages": messages})
	}
}

// DeleteSession soft-deletes a session
func DeleteSession(chat *services.ChatService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		sessionID, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid session ID",
			})
		}

		if err := chat.DeleteSession(c.Context(), userID, sessionID); err != nil {
			if errors.Is(err, services.ErrSessionNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Session not found",
				})
			}
			logrus.WithError(err).Error("session deletion failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to delete session",
			})
		}

		return c.JSON(fiber.Map{"message": "Session deleted"})
	}
}
