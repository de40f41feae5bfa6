package handlers

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/api/middleware"
	"github.com/KainanGuerra/therapy-chatbot/internal/auth"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
)

// SignupRequest represents a registration request
type SignupRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Department string `json:"department"`
	JobTitle   string `json:"job_title"`
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse represents a login response
type LoginResponse struct {
	User         *UserResponse `json:"user"`
	AccessToken  string        `json:"access_token"`
	RefreshToken string        `json:"refresh_token"`
	ExpiresIn    int           `json:"expires_in"`
}

// RefreshRequest represents a token refresh request
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// UserResponse represents a user in API responses
type UserResponse struct {
	ID          string                  `json:"id"`
	Email       string                  `json:"email"`
	FirstName   string                  `json:"first_name"`
	LastName    string                  `json:"last_name"`
	Department  string                  `json:"department"`
	JobTitle    string                  `json:"job_title"`
	Preferences models.UserPreferences  `json:"preferences"`
	CreatedAt   time.Time               `json:"created_at"`
}

func toUserResponse(user *models.User) *UserResponse {
	return &UserResponse{
		ID:          user.ID.String(),
		Email:       user.Email,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Department:  user.Department,
		JobTitle:    user.JobTitle,
		Preferences: user.Preferences,
		CreatedAt:   user.CreatedAt,
	}
}

// Signup handles user registration
func Signup(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req SignupRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		if req.Email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Email and password are required",
			})
		}

		user, err := authService.SignUp(c.Context(), auth.SignUpInput{
			Email:      req.Email,
			Password:   req.Password,
			FirstName:  req.FirstName,
			LastName:   req.LastName,
			Department: req.Department,
			JobTitle:   req.JobTitle,
		})
		if err != nil {
			if errors.Is(err, auth.ErrEmailAlreadyExists) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "Email already registered",
				})
			}
			if errors.Is(err, auth.ErrPasswordTooShort) || errors.Is(err, auth.ErrPasswordTooWeak) {
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": err.Error(),
				})
			}
			logrus.WithError(err).Error("signup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Signup failed",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
	}
}

// Login handles user login
func Login(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req LoginRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		if req.Email == "" || req.Password == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Email and password are required",
			})
		}

		user, accessToken, refreshToken, err := authService.Login(
			c.Context(), req.Email, req.Password, c.IP(), c.Get("User-Agent"),
		)
		if err != nil {
			// Same response for wrong password and unknown email
			if errors.Is(err, auth.ErrInvalidCredentials) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
					"error": "Invalid email or password",
				})
			}
			if errors.Is(err, auth.ErrUserInactive) {
				return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
					"error": "Account is inactive",
				})
			}
			logrus.WithError(err).Error("login failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Login failed",
			})
		}

		return c.JSON(LoginResponse{
			User:         toUserResponse(user),
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int(auth.AccessTokenTTL.Seconds()),
		})
	}
}

// Refresh handles token refresh
func Refresh(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req RefreshRequest
		if err := c.BodyParser(&req); err != nil || req.RefreshToken == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Refresh token is required",
			})
		}

		accessToken, refreshToken, err := authService.Refresh(c.Context(), req.RefreshToken)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired refresh token",
			})
		}

		return c.JSON(fiber.Map{
			"access_token":  accessToken,
			"refresh_token": refreshToken,
			"expires_in":    int(auth.AccessTokenTTL.Seconds()),
		})
	}
}

// Logout revokes the current auth session
func Logout(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := middleware.GetAccessToken(c)
		if err := authService.Logout(c.Context(), token); err != nil {
			logrus.WithError(err).Warn("logout failed")
		}
		return c.JSON(fiber.Map{"message": "Logged out"})
	}
}

// GetCurrentUser returns the authenticated user's profile
func GetCurrentUser(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		user, err := authService.GetUser(c.Context(), userID)
		if err != nil {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "User not found",
			})
		}

		return c.JSON(toUserResponse(user))
	}
}

// UpdatePreferences replaces the authenticated user's preferences
func UpdatePreferences(authService *auth.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		var prefs models.UserPreferences
		if err := c.BodyParser(&prefs); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		if err := authService.UpdatePreferences(c.Context(), userID, prefs); err != nil {
			logrus.WithError(err).Error("preference update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update preferences",
			})
		}

		return c.JSON(prefs)
	}
}
