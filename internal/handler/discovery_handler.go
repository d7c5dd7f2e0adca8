package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"skillbridge/internal/middleware"
	"skillbridge/internal/service/discovery"
)

type DiscoveryHandler struct {
	discoveryService discovery.Service
}

func NewDiscoveryHandler(discoveryService discovery.Service) *DiscoveryHandler {
	return &DiscoveryHandler{discoveryService: discoveryService}
}

// FindTeachers surfaces ranked candidates for a skill. An empty list is a
// valid answer meaning nobody teaches this yet.
func (h *DiscoveryHandler) FindTeachers(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	skillID, err := uuid.Parse(c.Query("skill_id"))
	if err != nil {
		return middleware.BadRequest("skill_id query parameter is required")
	}

	teachers, err := h.discoveryService.FindTeachers(c.Context(), userID, skillID)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"teachers": teachers,
	})
}
