package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/KainanGuerra/therapy-chatbot/internal/auth"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

// AuthRequired creates a middleware that requires a valid bearer token
func AuthRequired(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := auth.ExtractTokenFromBearer(c.Get("Authorization"))
		if token == "" {
			token = c.Cookies("access_token")
		}
		if token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Authentication required",
			})
		}

		user, claims, err := authService.ValidateAccessToken(c.Context(), token)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", user.ID.String())
		c.Locals("user_email", user.Email)
		c.Locals("session_id", claims.SessionID)
		c.Locals("access_token", token)
		c.Locals("user_context", &models.UserContext{
			UserID: user.ID,
			Email:  user.Email,
		})

		return c.Next()
	}
}

// GetUserContext retrieves the user context from the fiber context
func GetUserContext(c *fiber.Ctx) *models.UserContext {
	if ctx := c.Locals("user_context"); ctx != nil {
		if userContext, ok := ctx.(*models.UserContext); ok {
			return userContext
		}
	}
	return nil
}

// GetUserID retrieves the authenticated user's ID from the fiber context
func GetUserID(c *fiber.Ctx) (uuid.UUID, error) {
	if userID := c.Locals("user_id"); userID != nil {
		if id, ok := userID.(string); ok {
			return uuid.Parse(id)
		}
	}
	return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User not authenticated")
}

// GetAccessToken retrieves the raw bearer token stored by AuthRequired
func GetAccessToken(c *fiber.Ctx) string {
	if token := c.Locals("access_token"); token != nil {
		if t, ok := token.(string); ok {
			return t
		}
	}
	return ""
}
