package service

import (
	"github.com/minio/minio-go/v7"
	"github.com/redis/go-redis/v9"

	"skillbridge/internal/config"
	"skillbridge/internal/repository"
	"skillbridge/internal/service/auth"
	"skillbridge/internal/service/conversation"
	"skillbridge/internal/service/discovery"
	"skillbridge/internal/service/email"
	"skillbridge/internal/service/match"
	"skillbridge/internal/service/notification"
	"skillbridge/internal/service/realtime"
	"skillbridge/internal/service/skill"
)

type Services struct {
	Auth         auth.Service
	Skill        skill.Service
	Discovery    discovery.Service
	Match        match.Service
	Conversation conversation.Service
	Notification notification.Service
	Email        email.Service
	Hub          realtime.Hub
}

func NewServices(repos *repository.Repositories, redis *redis.Client, minioClient *minio.Client, cfg *config.Config) *Services {
	hub := realtime.NewHub(redis)

	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, emailService, cfg)
	skillService := skill.NewService(repos.Skill, redis)
	discoveryService := discovery.NewService(repos.Skill, redis, cfg.DiscoveryCacheTTL)
	notificationService := notification.NewService(repos.Notification, hub)
	matchService := match.NewService(repos.Match, repos.Message, repos.Skill, repos.User, notificationService, emailService)
	conversationService := conversation.NewService(repos.Match, repos.Message, notificationService, hub, minioClient, cfg)

	return &Services{
		Auth:         authService,
		Skill:        skillService,
		Discovery:    discoveryService,
		Match:        matchService,
		Conversation: conversationService,
		Notification: notificationService,
		Email:        emailService,
		Hub:          hub,
	}
}
