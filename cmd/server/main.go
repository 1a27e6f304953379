package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"prepai-backend/internal/config"
	"prepai-backend/internal/database"
	"prepai-backend/internal/handlers"
	"prepai-backend/internal/repository"
	"prepai-backend/internal/router"
	"prepai-backend/internal/services"
)

func main() {
	log.Println("🚀 Starting Prep.ai Backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize PostgreSQL Connection Pool ────
	pool, err := database.NewPostgresPool(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("✗ PostgreSQL connection failed: %v", err)
	}
	defer pool.Close()
	log.Println("✓ PostgreSQL connected")

	// ──── Step 3: Initialize Redis Session Store ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 4: Run Database Migrations ────
	if err := database.RunMigrations(pool, "migrations"); err != nil {
		log.Fatalf("✗ Database migration failed: %v", err)
	}
	log.Println("✓ Database migrations applied")

	// ──── Initialize Repositories ────
	deckRepo := repository.NewDeckRepo(pool)
	userRepo := repository.NewUserRepo(pool)

	// ──── Step 5: Initialize Gemini Client ────
	geminiClient, err := services.NewGeminiClient(cfg.GeminiAPIKey, cfg.CardsPerDeck)
	if err != nil {
		log.Fatalf("✗ Gemini client initialization failed: %v", err)
	}
	defer geminiClient.Close()
	log.Println("✓ Gemini Flash client initialized")

	// ──── Initialize Services ────
	deckService := services.NewDeckService(deckRepo, geminiClient, cfg.MaxDecks)
	sessions := services.NewSessionManager(cfg.SessionSecret, redisClient)
	authService := services.NewAuthService(
		userRepo,
		redisClient,
		sessions,
		cfg.GoogleClientID,
		cfg.GoogleClientSecret,
		cfg.BackendURL,
	)
	if !authService.Configured() {
		log.Println("⚠ Google OAuth credentials missing; login routes disabled")
	}

	// ──── Initialize Handlers ────
	deckHandler := handlers.NewDeckHandler(deckService, deckRepo, !cfg.IsProduction())
	authHandler := handlers.NewAuthHandler(authService, cfg.FrontendURL, cfg.IsProduction())

	// ──── Step 6: Start HTTP Server ────
	r := router.New(deckHandler, authHandler, cfg.FrontendURL, cfg.GenerateRPM)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // the Gemini call can stall
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		log.Println("Shutting down...")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		server.Shutdown(ctx)
	}()

	log.Printf("✓ Prep.ai Backend ready on http://localhost:%s", cfg.Port)
	log.Printf("  API: http://localhost:%s/api", cfg.Port)

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		log.Fatalf("Server error: %v", err)
	}
}
