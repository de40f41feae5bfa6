package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/auth"
	"github.com/KainanGuerra/therapy-chatbot/internal/config"
	"github.com/KainanGuerra/therapy-chatbot/internal/database"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository/postgres"
)

// Seeds a demo user and a starter professional directory for local
// development. Safe to run once against an empty database.
func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logrus.WithError(err).Fatal("failed to connect to database")
	}
	defer db.Close()

	if err := database.RunMigrations(cfg.Database); err != nil {
		logrus.WithError(err).Fatal("failed to run migrations")
	}

	ctx := context.Background()
	userRepo := postgres.NewUserRepository(db.DB)
	professionalRepo := postgres.NewProfessionalRepository(db.DB)

	if existing, err := userRepo.GetByEmail(ctx, "demo@example.com"); err != nil {
		logrus.WithError(err).Fatal("failed to check demo user")
	} else if existing == nil {
		passwordHash, err := auth.HashPassword("Demo1234!")
		if err != nil {
			logrus.WithError(err).Fatal("failed to hash demo password")
		}

		user := &models.User{
			ID:           uuid.New(),
			Email:        "demo@example.com",
			PasswordHash: passwordHash,
			FirstName:    "Demo",
			LastName:     "User",
			Department:   "Engineering",
			JobTitle:     "Software Engineer",
			Preferences:  models.DefaultPreferences(),
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			logrus.WithError(err).Fatal("failed to create demo user")
		}
		logrus.WithField("email", user.Email).Info("created demo user")
	} else {
		logrus.Info("demo user already exists, skipping")
	}

	professionals := []*models.Professional{
		{
			Name:            "Dr. Ana Silva",
			Email:           "ana.silva@example.com",
			Phone:           "+1-555-0101",
			Type:            models.ProfessionalPsychologist,
			Specializations: models.StringList{"anxiety", "workplace stress", "burnout"},
			Location:        "Downtown Clinic",
			Bio:             "Clinical psychologist focused on workplace mental health.",
			IsAvailable:     true,
		},
		{
			Name:            "Dr. Marcus Chen",
			Email:           "marcus.chen@example.com",
			Phone:           "+1-555-0102",
			Type:            models.ProfessionalTherapist,
			Specializations: models.StringList{"cognitive behavioral therapy", "depression"},
			Location:        "Wellness Center North",
			Bio:             "Licensed therapist specializing in CBT for working professionals.",
			IsAvailable:     true,
		},
		{
			Name:            "Dr. Sarah Okafor",
			Email:           "sarah.okafor@example.com",
			Phone:           "+1-555-0103",
			Type:            models.ProfessionalPsychiatrist,
			Specializations: models.StringList{"mood disorders", "medication management"},
			Location:        "City Medical Plaza",
			Bio:             "Board-certified psychiatrist with a focus on mood disorders.",
			IsAvailable:     true,
		},
		{
			Name:            "Jordan Reyes",
			Email:           "jordan.reyes@example.com",
			Phone:           "+1-555-0104",
			Type:            models.ProfessionalCounselor,
			Specializations: models.StringList{"workplace wellness", "stress management", "work-life balance"},
			Location:        "Remote",
			Bio:             "Workplace wellness counselor offering remote sessions.",
			IsAvailable:     true,
		},
	}

	for _, p := range professionals {
		if err := professionalRepo.Create(ctx, p); err != nil {
			logrus.WithError(err).WithField("name", p.Name).Fatal("failed to seed professional")
		}
		logrus.WithField("name", p.Name).Info("seeded professional")
	}

	logrus.Info("seeding complete")
}
