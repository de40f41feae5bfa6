package api

import (
	"github.com/gofiber/fiber/v2"

	"github.com/KainanGuerra/therapy-chatbot/internal/api/handlers"
	"github.com/KainanGuerra/therapy-chatbot/internal/api/middleware"
	"github.com/KainanGuerra/therapy-chatbot/internal/services"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, svc *services.Services) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":  "healthy",
			"service": "therapy-chatbot",
		})
	})

	// Public auth endpoints
	authGroup := api.Group("/auth")
	authGroup.Post("/signup", handlers.Signup(svc.Auth))
	authGroup.Post("/login", handlers.Login(svc.Auth))
	authGroup.Post("/refresh", handlers.Refresh(svc.Auth))

	// Everything below requires a valid access token
	protected := api.Group("", middleware.AuthRequired(svc.Auth))

	protected.Post("/auth/logout", handlers.Logout(svc.Auth))
	protected.Get("/auth/me", handlers.GetCurrentUser(svc.Auth))
	protected.Put("/auth/preferences", handlers.UpdatePreferences(svc.Auth))

	// Conversation
	protected.Post("/chat/message", handlers.SendMessage(svc.Chat))
	protected.Post("/chat/sessions", handlers.CreateSession(svc.Chat))
	protected.Get("/chat/sessions", handlers.GetSessions(svc.Chat))
	protected.Get("/chat/sessions/:id/messages", handlers.GetSessionMessages(svc.Chat))
	protected.Delete("/chat/sessions/:id", handlers.DeleteSession(svc.Chat))

	// Mood tracking
	protected.Get("/mood/history", handlers.GetMoodHistory(svc.Mood))
	protected.Get("/mood/summary", handlers.GetMoodSummary(svc.Mood))

	// Habit tracking
	protected.Get("/habits/recommended", handlers.GetRecommendedHabits(svc.Habits))
	protected.Get("/habits/suggestions", handlers.GetHabitSuggestions(svc.Habits))
	protected.Get("/habits/stats", handlers.GetHabitStats(svc.Habits))
	protected.Post("/habits", handlers.CreateHabit(svc.Habits))
	protected.Get("/habits", handlers.GetHabits(svc.Habits))
	protected.Get("/habits/:id", handlers.GetHabit(svc.Habits))
	protected.Put("/habits/:id", handlers.UpdateHabit(svc.Habits))
	protected.Patch("/habits/:id/complete", handlers.CompleteHabit(svc.Habits))
	protected.Delete("/habits/:id", handlers.DeleteHabit(svc.Habits))

	// Professional directory
	protected.Get("/professionals/search", handlers.SearchProfessionals(svc.Professionals))
	protected.Get("/professionals/recommendations", handlers.GetRecommendations(svc.Professionals))
	protected.Post("/professionals", handlers.CreateProfessional(svc.Professionals))
	protected.Get("/professionals", handlers.GetProfessionals(svc.Professionals))
	protected.Get("/professionals/:id", handlers.GetProfessional(svc.Professionals))
	protected.Put("/professionals/:id", handlers.UpdateProfessional(svc.Professionals))
	protected.Delete("/professionals/:id", handlers.DeleteProfessional(svc.Professionals))
	protected.Post("/professionals/:id/rate", handlers.RateProfessional(svc.Professionals))
}
