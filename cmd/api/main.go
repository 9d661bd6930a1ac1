package main

import (
	"context"
	"log"
	"time"

	"salon-chat/config"
	"salon-chat/internal/handler"
	"salon-chat/internal/notify"
	"salon-chat/internal/presence"
	appredis "salon-chat/internal/redis"
	"salon-chat/internal/repository"
	"salon-chat/internal/server"
	"salon-chat/internal/services"
	ws "salon-chat/internal/websocket"
	"salon-chat/pkg/database"
	"salon-chat/pkg/logger"
)

func main() {
	cfg := config.LoadConfig()

	mode := logger.DevelopmentMode
	if cfg.AppMode == server.ReleaseMode {
		mode = logger.ProductionMode
	}
	l := logger.New(mode)
	logger.SetGlobalLogger(l)

	database.Connect(cfg)
	if err := database.Migrate(); err != nil {
		log.Fatalf("Failed to apply migrations: %v", err)
	}

	redisClient := appredis.NewClient(cfg)
	rateCfg := appredis.DefaultRateLimitConfig()
	if cfg.MessageRateLimit > 0 {
		rateCfg.MessageLimit = cfg.MessageRateLimit
	}
	limiter := appredis.NewRateLimiter(redisClient, rateCfg)

	conversationRepo := repository.NewConversationRepository(database.DB)
	messageRepo := repository.NewMessageRepository(database.DB)
	directory := repository.NewUserDirectory(database.DB)

	tracker := presence.NewTracker()
	hub := ws.NewHub()
	notifier := notify.NewRedisNotifier(redisClient, hub, l)

	chatService := services.NewChatService(conversationRepo, messageRepo, directory, tracker, notifier, l)
	authService := services.NewAuthService(cfg)

	authorizer := ws.NewTopicAuthorizer(chatService)
	gateway := ws.NewHandler(
		authService,
		chatService,
		hub,
		authorizer,
		tracker,
		limiter,
		time.Duration(cfg.WSIdleSeconds)*time.Second,
		l,
	)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go hub.Run(ctx)

	srv := server.New(cfg, l)
	srv.SetupRoutes(&server.Handlers{
		Chat:    handler.NewChatHandler(chatService),
		Gateway: gateway,
	}, authService)

	if err := srv.Start(); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
}
