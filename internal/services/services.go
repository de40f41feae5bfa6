package services

import (
	"github.com/jmoiron/sqlx"

	"github.com/KainanGuerra/therapy-chatbot/internal/auth"
	"github.com/KainanGuerra/therapy-chatbot/internal/config"
	"github.com/KainanGuerra/therapy-chatbot/internal/llm"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository/postgres"
)

// Services holds all service instances wired to their dependencies
type Services struct {
	Auth          *auth.Service
	Chat          *ChatService
	Mood          *MoodService
	Habits        *HabitsService
	Professionals *ProfessionalsService
	Cache         *CacheService
}

// NewServices creates all service instances from the shared database handle
// and configuration
func NewServices(db *sqlx.DB, cfg *config.Config) *Services {
	userRepo := postgres.NewUserRepository(db)
	userSessionRepo := postgres.NewUserSessionRepository(db)
	chatSessionRepo := postgres.NewChatSessionRepository(db)
	chatMessageRepo := postgres.NewChatMessageRepository(db)
	moodEntryRepo := postgres.NewMoodEntryRepository(db)
	professionalRepo := postgres.NewProfessionalRepository(db)
	habitRepo := postgres.NewHabitRepository(db)

	cache := NewCacheService()
	model := llm.NewService(cfg.OpenAI)

	contextStore := NewContextStore(cache)
	contextBuilder := NewContextBuilder(userRepo, chatMessageRepo)
	mood := NewMoodService(moodEntryRepo)

	return &Services{
		Auth: auth.NewService(userRepo, userSessionRepo, cfg.Auth.JWTSecret),
		Chat: NewChatService(
			chatSessionRepo,
			chatMessageRepo,
			moodEntryRepo,
			userRepo,
			contextStore,
			contextBuilder,
			model,
		),
		Mood:          mood,
		Habits:        NewHabitsService(habitRepo, userRepo, mood, cache, model),
		Professionals: NewProfessionalsService(professionalRepo, moodEntryRepo, userRepo, cache, model),
		Cache:         cache,
	}
}
