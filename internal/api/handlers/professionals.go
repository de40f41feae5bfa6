package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/KainanGuerra/therapy-chatbot/internal/api/middleware"
	"github.com/KainanGuerra/therapy-chatbot/internal/models"
	"github.com/KainanGuerra/therapy-chatbot/internal/repository"
	"github.com/KainanGuerra/therapy-chatbot/internal/services"
)

// ProfessionalRequest represents a directory entry payload
type ProfessionalRequest struct {
	Name            string   `json:"name"`
	Email           string   `json:"email"`
	Phone           string   `json:"phone"`
	Type            string   `json:"type"`
	Specializations []string `json:"specializations"`
	Location        string   `json:"location"`
	Website         string   `json:"website"`
	Bio             string   `json:"bio"`
}

// RateProfessionalRequest carries one rating
type RateProfessionalRequest struct {
	Rating float64 `json:"rating"`
}

func (r *ProfessionalRequest) toModel() *models.Professional {
	return &models.Professional{
		Name:            r.Name,
		Email:           r.Email,
		Phone:           r.Phone,
		Type:            r.Type,
		Specializations: models.StringList(r.Specializations),
		Location:        r.Location,
		Website:         r.Website,
		Bio:             r.Bio,
	}
}

// CreateProfessional adds a directory entry
func CreateProfessional(professionals *services.ProfessionalsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req ProfessionalRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if req.Name == "" || req.Type == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Name and type are required",
			})
		}

		professional, err := professionals.CreateProfessional(c.Context(), req.toModel())
		if err != nil {
			logrus.WithError(err).Error("professional creation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to create professional",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(professional)
	}
}

// GetProfessionals lists available professionals
func GetProfessionals(professionals *services.ProfessionalsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		filter := repository.ProfessionalFilter{
			Type:           c.Query("type"),
			Specialization: c.Query("specialization"),
			Limit:          c.QueryInt("limit", 0),
		}

		list, err := professionals.ListProfessionals(c.Context(), filter)
		if err != nil {
			logrus.WithError(err).Error("professional listing failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to list professionals",
			})
		}

		return c.JSON(fiber.Map{"professionals": list})
	}
}

// GetProfessional returns one directory entry
func GetProfessional(professionals *services.ProfessionalsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid professional ID",
			})
		}

		professional, err := professionals.GetProfessional(c.Context(), id)
		if err != nil {
			if errors.Is(err, services.ErrProfessionalNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Professional not found",
				})
			}
			logrus.WithError(err).Error("professional lookup failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load professional",
			})
		}

		return c.JSON(professional)
	}
}

// UpdateProfessional replaces a directory entry's fields
func UpdateProfessional(professionals *services.ProfessionalsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid professional ID",
			})
		}

		var req ProfessionalRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}

		professional, err := professionals.UpdateProfessional(c.Context(), id, req.toModel())
		if err != nil {
			if errors.Is(err, services.ErrProfessionalNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Professional not found",
				})
			}
			logrus.WithError(err).Error("professional update failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to update professional",
			})
		}

		return c.JSON(professional)
	}
}

// DeleteProfessional marks a professional unavailable
func DeleteProfessional(professionals *services.ProfessionalsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid professional ID",
			})
		}

		if err := professionals.RemoveProfessional(c.Context(), id); err != nil {
			if errors.Is(err, services.ErrProfessionalNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Professional not found",
				})
			}
			logrus.WithError(err).Error("professional removal failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to remove professional",
			})
		}

		return c.JSON(fiber.Map{"message": "Professional removed"})
	}
}

// SearchProfessionals matches professionals against a free-text query
func SearchProfessionals(professionals *services.ProfessionalsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		query := c.Query("q")
		if query == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Search query is required",
			})
		}

		list, err := professionals.SearchProfessionals(c.Context(), query)
		if err != nil {
			logrus.WithError(err).Error("professional search failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Search failed",
			})
		}

		return c.JSON(fiber.Map{"professionals": list})
	}
}

// RateProfessional records a rating
func RateProfessional(professionals *services.ProfessionalsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := uuid.Parse(c.Params("id"))
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid professional ID",
			})
		}

		var req RateProfessionalRequest
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Invalid request body",
			})
		}
		if req.Rating < 1 || req.Rating > 5 {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Rating must be between 1 and 5",
			})
		}

		professional, err := professionals.RateProfessional(c.Context(), id, req.Rating)
		if err != nil {
			if errors.Is(err, services.ErrProfessionalNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Professional not found",
				})
			}
			logrus.WithError(err).Error("professional rating failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to record rating",
			})
		}

		return c.JSON(professional)
	}
}

// GetRecommendations returns the AI referral recommendation with matching
// professionals
func GetRecommendations(professionals *services.ProfessionalsService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := middleware.GetUserID(c)
		if err != nil {
			return err
		}

		output, err := professionals.Recommendations(c.Context(), userID)
		if err != nil {
			logrus.WithError(err).Error("professional recommendation failed")
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to load recommendations",
			})
		}

		return c.JSON(output)
	}
}
