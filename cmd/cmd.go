package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sam4007/studylink-backend/internal/config"
	"github.com/sam4007/studylink-backend/internal/handlers"
	"github.com/sam4007/studylink-backend/internal/middleware"
	"github.com/sam4007/studylink-backend/internal/repository"
	"github.com/sam4007/studylink-backend/internal/services"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Run starts the API server and the push worker.
func Run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.Log.Level)

	// Connect to database
	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := db.Ping(context.Background()); err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}
	log.Info().Msg("Database connection established")

	// Connect to redis (presence + task queue)
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return fmt.Errorf("failed to ping redis: %w", err)
	}

	redisOpt := asynq.RedisClientOpt{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	}
	asynqClient := asynq.NewClient(redisOpt)
	defer asynqClient.Close()

	// Initialize repositories
	userRepo := repository.NewUserRepository(db)
	friendRepo := repository.NewFriendshipRepository(db)
	messageRepo := repository.NewMessageRepository(db)

	// Initialize services
	userService := services.NewUserService(userRepo, cfg.JWT.Secret)
	friendService := services.NewFriendService(friendRepo, userRepo)
	conversationService := services.NewConversationService(messageRepo, friendService)
	threadService := services.NewThreadService(messageRepo)
	messageService := services.NewMessageService(messageRepo, userRepo, friendService)
	presenceService := services.NewPresenceService(rdb)
	pushService := services.NewPushService(asynqClient)
	wallpaperService, err := services.NewWallpaperService(friendService, cfg.AWS)
	if err != nil {
		return fmt.Errorf("failed to create wallpaper service: %w", err)
	}
	hub := services.NewHub()

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService)
	friendHandler := handlers.NewFriendHandler(friendService, presenceService, hub)
	conversationHandler := handlers.NewConversationHandler(conversationService, threadService, hub)
	messageHandler := handlers.NewMessageHandler(messageService, userService, pushService, hub)
	wallpaperHandler := handlers.NewWallpaperHandler(wallpaperService)
	wsHandler := handlers.NewWebSocketHandler(
		hub, userService, friendService, messageService, threadService, presenceService, messageHandler,
	)

	// Setup router
	r := chi.NewRouter()

	// Middleware
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(corsMiddleware)

	// Routes
	r.Route("/api/v1", func(r chi.Router) {
		// Public routes
		r.Post("/users", userHandler.CreateUser)

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(userService))
			r.Post("/users/push-token", userHandler.RegisterPushToken)
			r.Post("/friends", friendHandler.AddFriend)
			r.Get("/friends", friendHandler.ListFriends)
			r.Delete("/friends/{friend_id}", friendHandler.RemoveFriend)
			r.Get("/conversations", conversationHandler.ListConversations)
			r.Get("/conversations/{friend_id}", conversationHandler.OpenThread)
			r.Post("/messages", messageHandler.SendMessage)
			r.Post("/wallpapers/upload", wallpaperHandler.Upload)
			r.Post("/wallpapers/crop", wallpaperHandler.Crop)
		})
	})

	// WebSocket route
	r.Get("/ws", wsHandler.HandleWebSocket)

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start push worker if APNs is configured
	var worker *asynq.Server
	if cfg.APNs.CertFile != "" {
		pushWorker, err := services.NewPushWorker(cfg.APNs)
		if err != nil {
			return fmt.Errorf("failed to create push worker: %w", err)
		}
		worker = asynq.NewServer(redisOpt, asynq.Config{Concurrency: 4})
		mux := asynq.NewServeMux()
		mux.HandleFunc(services.TypeMessagePush, pushWorker.HandleMessagePush)
		go func() {
			if err := worker.Run(mux); err != nil {
				log.Fatal().Err(err).Msg("Push worker failed")
			}
		}()
	} else {
		log.Warn().Msg("APNs not configured, push notifications disabled")
	}

	// Start server in goroutine
	go func() {
		log.Info().
			Str("host", cfg.Server.Host).
			Int("port", cfg.Server.Port).
			Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed to start")
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if worker != nil {
		worker.Shutdown()
	}

	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
	return nil
}

// Migrate applies the database schema.
func Migrate(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	setupLogger(cfg.Log.Level)

	db, err := pgxpool.New(context.Background(), cfg.Database.DSN())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer db.Close()

	if err := repository.Migrate(context.Background(), db); err != nil {
		return err
	}

	log.Info().Msg("Migrations applied")
	return nil
}

// setupLogger configures zerolog logger
func setupLogger(level string) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "warn":
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}
}

// corsMiddleware handles CORS
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}
