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

	"github.com/thiagorragazzo/quiz-unisa-avc/internal/config"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/database"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/handlers"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/offline"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/prefs"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/questions"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/router"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/store"
	"github.com/thiagorragazzo/quiz-unisa-avc/internal/websocket"
)

func main() {
	log.Println("🚀 Starting Quiz UNISA AVC backend...")

	// ──── Step 1: Load Environment Variables ────
	cfg := config.Load()
	log.Println("✓ Environment variables loaded")

	// ──── Step 2: Initialize Redis ────
	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("✗ Redis connection failed: %v", err)
	}
	defer redisClient.Close()
	log.Println("✓ Redis connected")

	// ──── Step 3: Question Source ────
	questionSource := questions.NewFileSource(cfg.QuestionsPath, cfg.QuestionSchemaVersion)
	if bank, err := questionSource.Load(); err != nil {
		// The bank is re-read per session start, so a broken file at boot is
		// a warning, not a hard failure.
		log.Printf("⚠ Question bank not loadable yet: %v", err)
	} else {
		log.Printf("✓ Question bank loaded (%d %s questions)", len(bank), cfg.QuestionSchemaVersion)
	}

	// ──── Step 4: Session Registry ────
	sessions := store.NewSessionStore(time.Duration(cfg.SessionMaxIdleMin) * time.Minute)
	sessions.StartJanitor()
	defer sessions.Stop()

	// ──── Step 5: Offline Cache Controller ────
	assetStore := offline.NewRedisStore(redisClient)
	cacheController := offline.NewController(
		cfg.CacheVersion,
		cfg.CacheManifest,
		assetStore,
		&http.Client{Timeout: 30 * time.Second},
		cfg.AppOrigin,
	)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
		defer cancel()
		if err := cacheController.Install(ctx); err != nil {
			log.Printf("⚠ Offline cache install incomplete: %v", err)
		}
		if err := cacheController.Activate(ctx); err != nil {
			log.Printf("⚠ Offline cache activation failed: %v", err)
			return
		}
		log.Printf("✓ Offline cache %s active", cfg.CacheVersion)
	}()

	// ──── Step 6: Handlers & Router ────
	wsHub := websocket.NewHub()
	preferenceStore := prefs.NewRedisStore(redisClient)

	sessionHandler := handlers.NewSessionHandler(questionSource, sessions, wsHub)
	preferencesHandler := handlers.NewPreferencesHandler(preferenceStore)
	offlineHandler := handlers.NewOfflineHandler(cacheController)

	r := router.New(sessionHandler, preferencesHandler, offlineHandler, wsHub, cfg.FrontendURL, cfg.StaticDir)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
	}

	go func() {
		log.Printf("✓ Server listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("✗ Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	fmt.Println()
	log.Println("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("✗ Forced shutdown: %v", err)
	}
	log.Println("✓ Server stopped")
}
