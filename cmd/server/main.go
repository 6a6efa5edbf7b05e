package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"prdgen/internal/config"
	"prdgen/internal/handler"
	"prdgen/internal/middleware"
	"prdgen/internal/repository/postgres"
	"prdgen/internal/service"
	servicellm "prdgen/internal/service/llm"
	"prdgen/internal/service/session"

	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	ctx := context.Background()

	// Run schema migrations before taking traffic
	if err := postgres.RunMigrations(ctx, cfg.DatabaseURL); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	logger.Info("migrations applied")

	// Create pgx connection pool
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 10,
		"min_conns", 2,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	docRepo := postgres.NewDocumentRepository(repoConfig)
	chatRepo := postgres.NewChatSessionRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool, logger)

	// Setup LLM providers
	registry, err := servicellm.SetupRegistry(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to setup LLM providers: %v", err)
	}

	// Create services
	docService := service.NewDocumentService(docRepo, chatRepo, txManager, logger)
	gateway := servicellm.NewGateway(registry, cfg.DefaultModel, logger)
	sessionManager := session.NewManager(docService, gateway, logger)

	// Create handlers
	docHandler := handler.NewDocumentHandler(docService, logger)
	sessionHandler := handler.NewSessionHandler(sessionManager, logger)

	logger.Info("services initialized", "model", cfg.DefaultModel)

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", docHandler.HealthCheck)

	// Document routes
	mux.HandleFunc("GET /api/documents", docHandler.ListDocuments)
	mux.HandleFunc("GET /api/documents/approved", docHandler.ListApproved) // Must come before {id} route
	mux.HandleFunc("GET /api/documents/stats", docHandler.GetStats)
	mux.HandleFunc("GET /api/documents/export", docHandler.ExportDocuments)
	mux.HandleFunc("GET /api/documents/{id}", docHandler.GetDocument)
	mux.HandleFunc("GET /api/documents/{id}/versions", docHandler.ListVersions)
	mux.HandleFunc("GET /api/documents/{id}/children", docHandler.ListChildren)
	mux.HandleFunc("POST /api/documents/{id}/approve", docHandler.ApproveDocument)

	// Session routes
	mux.HandleFunc("POST /api/sessions", sessionHandler.CreateSession)
	mux.HandleFunc("GET /api/sessions/{id}", sessionHandler.GetSession)
	mux.HandleFunc("DELETE /api/sessions/{id}", sessionHandler.DeleteSession)
	mux.HandleFunc("POST /api/sessions/{id}/messages", sessionHandler.PostMessage)
	mux.HandleFunc("POST /api/sessions/{id}/save", sessionHandler.SaveVersion)
	mux.HandleFunc("PUT /api/sessions/{id}/content", sessionHandler.SetContent)
	mux.HandleFunc("POST /api/sessions/{id}/approve", sessionHandler.Approve)
	mux.HandleFunc("POST /api/sessions/{id}/new", sessionHandler.NewDocument)
	mux.HandleFunc("POST /api/sessions/{id}/load", sessionHandler.LoadDocument)
	mux.HandleFunc("POST /api/sessions/{id}/epics", sessionHandler.CreateEpic)
	mux.HandleFunc("POST /api/sessions/{id}/suggestions", sessionHandler.SuggestImprovements)
	mux.HandleFunc("POST /api/sessions/{id}/flush", sessionHandler.FlushTranscript)

	// Build middleware chain
	var httpHandler http.Handler = mux
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - must wrap everything to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second, // Generation calls can run long
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
