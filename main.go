// File: serenity/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"

	"serenity/config"
	"serenity/cron"
	sessionRepo "serenity/database/repository/session"
	"serenity/handlers"
	"serenity/middleware"
	"serenity/routes"
	"serenity/services/conversation"
	"serenity/services/intelligence"
	"serenity/services/messaging"
	"serenity/utils"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()
	cfg := config.AppConfig

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	// Session repository.
	var sessions sessionRepo.Repository
	var healthClients []*redis.Client
	if cfg.SessionBackend == "redis" {
		client := utils.GetSessionCacheClient()
		sessions = sessionRepo.NewRedisRepo(client, time.Duration(cfg.SessionTTLHours)*time.Hour)
		healthClients = append(healthClients, client)
	} else {
		sessions = sessionRepo.NewMemoryRepo()
	}

	// Outbound WhatsApp transport.
	messenger, err := messaging.NewTwilioMessenger(
		cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioWhatsAppFrom, logger)
	if err != nil {
		logger.Sugar().Fatalf("main: failed to initialize Twilio messenger: %v", err)
	}

	// Reply composer: best-effort Gemini enrichment with deterministic fallback.
	var lmClient intelligence.LMClient
	if cfg.GeminiAPIKey != "" {
		gemini, err := intelligence.NewGeminiClient(cfg.GeminiAPIKey)
		if err != nil {
			logger.Sugar().Warnf("main: Gemini unavailable, replies fall back to developer text: %v", err)
		} else {
			lmClient = gemini
		}
	} else {
		logger.Sugar().Warn("main: GEMINI_API_KEY not set, replies fall back to developer text")
	}
	aiLogClient := utils.GetAILogCacheClient()
	healthClients = append(healthClients, aiLogClient)
	composer := &intelligence.DefaultComposer{
		Client:    lmClient,
		Log:       intelligence.NewInteractionLog(aiLogClient, logger),
		HotelName: cfg.HotelName,
		Timeout:   time.Duration(cfg.ComposeTimeoutSecs) * time.Second,
		Logger:    logger,
	}

	// Event reminders.
	scheduler := cron.NewScheduler(logger)
	defer scheduler.Close()
	cron.InitReminderWorker(messenger, cfg.HotelName, logger)

	// Conversation state machine.
	engine := &conversation.Engine{
		Sessions:  sessions,
		Messenger: messenger,
		Composer:  composer,
		Calendar:  conversation.AlwaysOpen,
		Reminders: scheduler,
		Templates: conversation.Templates{
			MainMenu:    cfg.TemplateMainMenu,
			RoomMenu:    cfg.TemplateRoomMenu,
			PackageMenu: cfg.TemplatePackageMenu,
		},
		HotelName: cfg.HotelName,
		Logger:    logger,
	}

	whatsappHandler := handlers.NewWhatsAppHandler(engine, logger)
	routes.RegisterRoutes(router, whatsappHandler)
	utils.StartHealthMonitor(healthClients)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
