package main

import (
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"skillbridge/internal/config"
	"skillbridge/internal/handler"
	"skillbridge/internal/middleware"
	"skillbridge/internal/repository"
	"skillbridge/internal/service"
	"skillbridge/internal/service/auth"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	db, err := config.NewPostgresDB(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	redis, err := config.NewRedisClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v (live push degrades to single-instance delivery)", err)
		redis = nil
	}
	if redis != nil {
		defer redis.Close()
	}

	minioClient, err := config.NewMinIOClient(cfg)
	if err != nil {
		log.Printf("Warning: Failed to connect to MinIO: %v (file messages will not work)", err)
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, redis, minioClient, cfg)
	defer services.Hub.Close()

	handlers := handler.NewHandlers(services)

	app := fiber.New(fiber.Config{
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Next: func(c *fiber.Ctx) bool {
			return c.Path() == "/health"
		},
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins: cfg.CORSOrigins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, PATCH, DELETE, OPTIONS",
	}))

	setupRoutes(app, handlers, services.Auth)

	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func setupRoutes(app *fiber.App, h *handler.Handlers, authService auth.Service) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	v1 := app.Group("/api/v1")

	authGroup := v1.Group("/auth")
	authGroup.Post("/register", h.Auth.Register)
	authGroup.Post("/login", h.Auth.Login)
	authGroup.Post("/refresh", h.Auth.RefreshToken)

	protected := v1.Group("", middleware.AuthRequired(authService))

	protected.Get("/users/me", h.Auth.Me)

	skills := protected.Group("/skills")
	skills.Get("/", h.Skill.List)
	skills.Post("/declarations", h.Skill.Declare)
	skills.Get("/declarations", h.Skill.ListMine)
	skills.Delete("/declarations/:declarationId", h.Skill.Remove)
	skills.Get("/:skillId", h.Skill.Get)

	discovery := protected.Group("/discovery")
	discovery.Get("/teachers", h.Discovery.FindTeachers)

	matches := protected.Group("/matches")
	matches.Post("/", h.Match.Create)
	matches.Get("/", h.Match.List)
	matches.Get("/:matchId", h.Match.Get)
	matches.Post("/:matchId/respond", h.Match.Respond)
	matches.Post("/:matchId/complete", h.Match.Complete)
	matches.Post("/:matchId/cancel", h.Match.Cancel)

	matches.Get("/:matchId/messages", h.Conversation.History)
	matches.Post("/:matchId/messages", h.Conversation.Send)
	matches.Post("/:matchId/messages/file", h.Conversation.SendFile)
	matches.Post("/:matchId/read", h.Conversation.MarkRead)
	matches.Get("/:matchId/unread-count", h.Conversation.UnreadCount)
	matches.Get("/:matchId/stream", h.Conversation.Stream)

	conversations := protected.Group("/conversations")
	conversations.Get("/unread-count", h.Conversation.TotalUnread)

	notifications := protected.Group("/notifications")
	notifications.Get("/", h.Notification.List)
	notifications.Get("/unread-count", h.Notification.GetUnreadCount)
	notifications.Get("/stream", h.Notification.Stream)
	notifications.Patch("/:id/read", h.Notification.MarkAsRead)
	notifications.Post("/mark-all-read", h.Notification.MarkAllAsRead)
}
