package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/config"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/admin"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/ai"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/auth"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/campus"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/category"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/chat"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/listing"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/photo"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/promotion"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/referral"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/store"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/subscription"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/transaction"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/user"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/domain/wallet"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/middleware"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/database"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/imaging"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/jwt"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/response"
	"github.com/jitenkr2030/Campus-Exchange-sub000/internal/pkg/storage"
)

func main() {
	cfg := config.Load()
	setupLogger(cfg)

	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Msg("Starting Campus Exchange API")

	db, err := database.NewPostgres(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer database.ClosePostgres(db)

	redis, err := database.NewRedis(cfg.RedisURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer database.CloseRedis(redis)

	jwtService := jwt.NewService(cfg.JWTSecret, cfg.JWTAccessTTL, cfg.JWTRefreshTTL)
	runner := database.NewRunner(db)

	var blobStore storage.Storage
	if cfg.StorageBackend == "s3" {
		blobStore, err = storage.NewS3Storage(storage.Config{
			S3Region:    cfg.S3Region,
			S3Endpoint:  cfg.S3Endpoint,
			S3AccessKey: cfg.S3AccessKey,
			S3SecretKey: cfg.S3SecretKey,
			S3Bucket:    cfg.S3Bucket,
			PublicURL:   cfg.S3PublicURL,
		})
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create S3 storage")
		}
	} else {
		blobStore, err = storage.NewLocalStorage(cfg.LocalStorePath, cfg.LocalStoreURL)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create local storage")
		}
	}
	imageProcessor := imaging.NewProcessor(imaging.DefaultConfig())

	// ---------- Repositories ----------
	userRepo := user.NewRepository(db)
	campusRepo := campus.NewRepository(db)
	listingRepo := listing.NewRepository(db)
	transactionRepo := transaction.NewRepository(db)
	walletRepo := wallet.NewRepository(db)
	referralRepo := referral.NewRepository(db)
	promotionRepo := promotion.NewRepository(db)
	storeRepo := store.NewRepository(db)
	photoRepo := photo.NewRepository(db)
	chatRepo := chat.NewRepository(db)

	// ---------- WebSocket hub ----------
	chatHub := chat.NewHub(redis)
	go chatHub.Run()
	defer chatHub.Shutdown()

	// ---------- Services ----------
	transactionService := transaction.NewService(transactionRepo)
	walletService := wallet.NewService(walletRepo)
	referralService := referral.NewService(referralRepo, userRepo, walletService, runner, redis)
	listingService := listing.NewService(listingRepo, userRepo, transactionService, walletService, runner)
	listingService.SetReferralCompleter(referralService)
	subscriptionService := subscription.NewService(userRepo, transactionService, walletService, runner)
	promotionService := promotion.NewService(promotionRepo, transactionService, walletService, runner)
	storeService := store.NewService(storeRepo, transactionService, walletService, runner)
	photoService := photo.NewService(photoRepo, listingRepo, blobStore, imageProcessor)
	chatService := chat.NewService(chatRepo, listingRepo, chatHub)
	aiService := ai.NewService(db)
	authService := auth.NewService(userRepo, campusRepo, walletService, referralService, jwtService, redis)
	adminService := admin.NewService(db, userRepo, listingService, listingRepo, transactionService, aiService)

	// ---------- Handlers ----------
	authHandler := auth.NewHandler(authService)
	campusHandler := campus.NewHandler(campusRepo)
	categoryHandler := category.NewHandler()
	listingHandler := listing.NewHandler(listingService)
	transactionHandler := transaction.NewHandler(transactionService)
	walletHandler := wallet.NewHandler(walletService)
	subscriptionHandler := subscription.NewHandler(subscriptionService)
	referralHandler := referral.NewHandler(referralService)
	promotionHandler := promotion.NewHandler(promotionService)
	storeHandler := store.NewHandler(storeService)
	photoHandler := photo.NewHandler(photoService)
	chatHandler := chat.NewHandler(chatService, chatHub, redis, cfg.AllowedOrigins)
	aiHandler := ai.NewHandler(aiService)
	adminHandler := admin.NewHandler(adminService)

	authMiddleware := middleware.Auth(jwtService)

	// ---------- Router ----------
	r := chi.NewRouter()

	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recover)
	r.Use(middleware.CORSHandler(cfg.AllowedOrigins))

	// WebSocket endpoint, token may arrive as a query param
	r.Get("/ws", func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		authMiddleware(http.HandlerFunc(chatHandler.WebSocket)).ServeHTTP(w, r)
	})

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]string{
			"status":  "ok",
			"version": "1.0.0",
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/auth", authHandler.Routes(authMiddleware))
		r.Mount("/campuses", campusHandler.Routes())
		r.Mount("/categories", categoryHandler.Routes())

		listingRoutes := listingHandler.Routes(authMiddleware)
		listingRoutes.Mount("/{id}/photos", photoHandler.ListingRoutes(authMiddleware))
		r.Mount("/listings", listingRoutes)

		r.Mount("/photos", photoHandler.Routes(authMiddleware))
		r.Mount("/wallet", walletHandler.Routes(authMiddleware))
		r.Mount("/transactions", transactionHandler.Routes(authMiddleware))
		r.Mount("/subscriptions", subscriptionHandler.Routes(authMiddleware))
		r.Mount("/referrals", referralHandler.Routes(authMiddleware))
		r.Mount("/promotions", promotionHandler.Routes(authMiddleware))
		r.Mount("/store", storeHandler.Routes(authMiddleware))
		r.Mount("/chat", chatHandler.Routes(authMiddleware))
		r.Mount("/ai", aiHandler.Routes(authMiddleware))
		r.Mount("/admin", adminHandler.Routes(authMiddleware))
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", server.Addr).Msg("HTTP server listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}

func setupLogger(cfg *config.Config) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.IsDevelopment() {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: "15:04:05",
		})
	}
}
