package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"skillbridge/internal/domain"
	"skillbridge/internal/middleware"
	"skillbridge/internal/service/skill"
)

type SkillHandler struct {
	skillService skill.Service
}

func NewSkillHandler(skillService skill.Service) *SkillHandler {
	return &SkillHandler{skillService: skillService}
}

func (h *SkillHandler) List(c *fiber.Ctx) error {
	skills, err := h.skillService.ListSkills(c.Context())
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(skills)
}

func (h *SkillHandler) Get(c *fiber.Ctx) error {
	skillID, err := uuid.Parse(c.Params("skillId"))
	if err != nil {
		return middleware.BadRequest("Invalid skill ID")
	}

	result, err := h.skillService.GetSkill(c.Context(), skillID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *SkillHandler) Declare(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.DeclareSkillInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}

	if !input.Role.IsValid() {
		return middleware.BadRequest("role must be teach or learn")
	}
	if input.Level < 1 || input.Level > 5 {
		return middleware.BadRequest("level must be between 1 and 5")
	}

	declaration, err := h.skillService.Declare(c.Context(), userID, input)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(declaration)
}

func (h *SkillHandler) ListMine(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	declarations, err := h.skillService.ListByUser(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(declarations)
}

func (h *SkillHandler) Remove(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	declarationID, err := uuid.Parse(c.Params("declarationId"))
	if err != nil {
		return middleware.BadRequest("Invalid declaration ID")
	}

	if err := h.skillService.Remove(c.Context(), userID, declarationID); err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}
