package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/jwtauth"

	"github.com/tendant/resource-hub/pkg/resourcehub"
	"github.com/tendant/resource-hub/pkg/resourcehub/api"
	"github.com/tendant/resource-hub/pkg/resourcehub/config"
	"github.com/tendant/resource-hub/pkg/resourcehub/hublog"
)

func main() {
	// Load configuration from environment
	cfg, err := config.Load(config.WithEnv())
	if err != nil {
		slog.Error("Failed to load server configuration", "error", err)
		os.Exit(1)
	}

	logger := hublog.New(cfg.LogLevel, cfg.LogFormat)
	slog.SetDefault(logger)

	// Build service from configuration
	svc, err := cfg.BuildService()
	if err != nil {
		slog.Error("Failed to build service", "error", err)
		os.Exit(1)
	}

	tokenAuth := jwtauth.New("HS256", []byte(cfg.JWTSecret), nil)

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: routes(svc, cfg, tokenAuth),
	}

	// Start server in a goroutine
	go func() {
		slog.Info("Resource hub server starting",
			"port", cfg.Port,
			"environment", cfg.Environment,
			"database", cfg.DatabaseType,
			"vault", cfg.VaultBackend)

		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("Server forced to shutdown", "error", err)
		os.Exit(1)
	}

	slog.Info("Server exiting")
}

// routes sets up the HTTP routes
func routes(svc resourcehub.Service, cfg *config.ServerConfig, tokenAuth *jwtauth.JWTAuth) http.Handler {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// Verify bearer tokens when present. Requests without a valid token
	// still pass through; owner-scoped operations reject them downstream.
	r.Use(jwtauth.Verifier(tokenAuth))

	// CORS for development
	if cfg.Environment == "development" {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Access-Control-Allow-Origin", "*")
				w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
				w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

				if r.Method == "OPTIONS" {
					w.WriteHeader(http.StatusOK)
					return
				}

				next.ServeHTTP(w, r)
			})
		})
	}

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		fmt.Fprintf(w, `{"status": "healthy", "environment": "%s"}`, cfg.Environment)
	})

	r.Mount("/posts", api.NewPostsHandler(svc).Routes())
	r.Mount("/attachments", api.NewAttachmentsHandler(svc).Routes())

	return r
}
