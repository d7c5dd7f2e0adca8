package handler

import (
	"bufio"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"skillbridge/internal/domain"
	"skillbridge/internal/middleware"
	"skillbridge/internal/service/conversation"
)

type ConversationHandler struct {
	conversationService conversation.Service
}

func NewConversationHandler(conversationService conversation.Service) *ConversationHandler {
	return &ConversationHandler{conversationService: conversationService}
}

func (h *ConversationHandler) History(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	params := getPaginationParams(c)
	result, err := h.conversationService.History(c.Context(), matchID, userID, params)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(result)
}

func (h *ConversationHandler) Send(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	var input domain.SendMessageInput
	if err := c.BodyParser(&input); err != nil {
		return middleware.BadRequest("Invalid request body")
	}
	if input.Body == "" || len(input.Body) > 4000 {
		return middleware.BadRequest("body must be between 1 and 4000 characters")
	}

	message, err := h.conversationService.Send(c.Context(), matchID, userID, input)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *ConversationHandler) SendFile(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return middleware.BadRequest("file is required")
	}

	file, err := fileHeader.Open()
	if err != nil {
		return middleware.BadRequest("Unable to read uploaded file")
	}
	defer file.Close()

	mimeType := fileHeader.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	message, err := h.conversationService.SendFile(c.Context(), matchID, userID, fileHeader.Filename, fileHeader.Size, mimeType, file)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(message)
}

func (h *ConversationHandler) MarkRead(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	if err := h.conversationService.MarkRead(c.Context(), matchID, userID); err != nil {
		return err
	}
	return c.Status(fiber.StatusNoContent).SendString("")
}

func (h *ConversationHandler) UnreadCount(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	count, err := h.conversationService.UnreadCount(c.Context(), matchID, userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

func (h *ConversationHandler) TotalUnread(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	count, err := h.conversationService.TotalUnread(c.Context(), userID)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"count": count})
}

// Stream pushes subsequently appended messages for a match over SSE.
// History is not replayed; clients fetch it through the history endpoint.
func (h *ConversationHandler) Stream(c *fiber.Ctx) error {
	userID, err := middleware.GetUserID(c)
	if err != nil {
		return err
	}

	matchID, err := uuid.Parse(c.Params("matchId"))
	if err != nil {
		return middleware.BadRequest("Invalid match ID")
	}

	messages, cancel, err := h.conversationService.Subscribe(c.Context(), matchID, userID)
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		streamEvents(w, func() (interface{}, bool) {
			message, ok := <-messages
			return message, ok
		})
	}))

	return nil
}

// streamEvents writes SSE frames until the source closes or the client goes
// away, with periodic keep-alive comments in between.
func streamEvents(w *bufio.Writer, next func() (interface{}, bool)) {
	events := make(chan interface{}, 16)
	done := make(chan struct{})

	go func() {
		defer close(events)
		for {
			event, ok := next()
			if !ok {
				return
			}
			select {
			case events <- event:
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	keepAlive := time.NewTicker(15 * time.Second)
	defer keepAlive.Stop()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			data, err := json.Marshal(event)
			if err != nil {
				continue
			}
			if _, err := fmt.Fprintf(w, "data: %s\n\n", data); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		case <-keepAlive.C:
			if _, err := fmt.Fprint(w, ": keep-alive\n\n"); err != nil {
				return
			}
			if err := w.Flush(); err != nil {
				return
			}
		}
	}
}
