package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"helpdesk-backend/cmd"
	"helpdesk-backend/internal/api"
	"helpdesk-backend/internal/database"
	"helpdesk-backend/internal/docs"
	"helpdesk-backend/internal/llm"

	"github.com/caarlos0/env/v11"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
)

type Config struct {
	DatabaseURL     string `env:"DATABASE_URL" envDefault:"./helpdesk.db"`
	Port            int    `env:"PORT" envDefault:"5000"`
	DocsPath        string `env:"DOCS_PATH" envDefault:"./docs.json"`
	OpenAIAPIKey    string `env:"OPENAI_API_KEY,notEmpty,required"`
	CompletionModel string `env:"COMPLETION_MODEL" envDefault:"gpt-4o-mini"`
}

const (
	rateLimitRequests = 20
	rateLimitWindow   = time.Minute
)

func main() {
	log.Println("Starting API Server...")

	cmd.LoadEnvFile()

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		log.Fatalf("error parsing config: %v", err)
	}

	db, err := database.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	store, err := docs.Load(cfg.DocsPath)
	if err != nil {
		log.Fatalf("Failed to load support documents: %v", err)
	}
	slog.Info("loaded support documents", "count", store.Len(), "path", cfg.DocsPath)

	completer := llm.NewOpenAI(cfg.OpenAIAPIKey, cfg.CompletionModel)

	r := chi.NewRouter()

	// Middleware
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)                             // Log requests
	r.Use(middleware.Recoverer)                          // Recover from panics
	r.Use(middleware.Timeout(60 * time.Second))          // Set request timeout
	r.Use(httprate.LimitByIP(rateLimitRequests, rateLimitWindow))

	chatHandler := api.NewChatService(db, store, completer)

	r.Route("/api", func(r chi.Router) {
		chatHandler.AddRoutes(r)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	// Goroutine for graceful shutdown
	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		slog.Info("shutting down server")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			log.Fatalf("Server forced to shutdown: %v", err)
		}
	}()

	slog.Info("server started", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Could not listen on %d: %v\n", cfg.Port, err)
	}

	slog.Info("server stopped")
}
