package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"skillbridge/internal/domain"
	"skillbridge/internal/middleware"
	"skillbridge/internal/service/match"
)

type MatchHandler struct {
	matchService match.Service
}

func NewMatchHandler(matchService match.Service) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

func (h *MatchHandler) Create(c *fiber.Ctx) error {
	learnerID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	var input domain.CreateMatchInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.TeacherID == uuid.Nil || input.SkillID == uuid.Nil {
		return middleware.BadRequest("teacher_id and skill_id are required")
	}

	created, err := h.matchService.Request(c.Context(), learnerID, input)
	if errors.Is(err, domain.ErrDuplicatePending) && created != nil {
		// The existing pending match's identity rides along with the
		// conflict so the caller can navigate to it.
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{
			"code":     "DUPLICATE_PENDING",
			"message":  err.Error(),
			"match_id": created.ID,
		})
	}
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *MatchHandler) List(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	params := getPaginationParams(c)
	result, err := h.matchService.ListByUser(c.Context(), userID, params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MatchHandler) Get(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	result, err := h.matchService.GetByID(c.Context(), matchID, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MatchHandler) Respond(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	var input domain.RespondMatchInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if !input.Decision.IsValid() {
		return middleware.BadRequest("decision must be accept or decline")
	}

	result, err := h.matchService.Respond(c.Context(), matchID, userID, input.Decision)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *MatchHandler) Complete(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	if err := h.matchService.Complete(c.Context(), matchID, userID); err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *MatchHandler) Cancel(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	if err := h.matchService.Cancel(c.Context(), matchID, userID); err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}
