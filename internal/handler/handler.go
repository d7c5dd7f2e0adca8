package handler

import (
	"github.com/gofiber/fiber/v2"

	"skillbridge/internal/domain"
	"skillbridge/internal/service"
)

type Handlers struct {
	Auth         *AuthHandler
	Skill        *SkillHandler
	Discovery    *DiscoveryHandler
	Match        *MatchHandler
	Conversation *ConversationHandler
	Notification *NotificationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(services.Auth),
		Skill:        NewSkillHandler(services.Skill),
		Discovery:    NewDiscoveryHandler(services.Discovery),
		Match:        NewMatchHandler(services.Match),
		Conversation: NewConversationHandler(services.Conversation),
		Notification: NewNotificationHandler(services.Notification),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return domain.DefaultPagination()
	}
	params.Validate()
	return params
}
