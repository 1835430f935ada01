// File: cmd/server/main.go
package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gorilla/mux"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/axiompharma/compliance-copilot/internal/config"
	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/handlers"
	"github.com/axiompharma/compliance-copilot/internal/middleware"
	"github.com/axiompharma/compliance-copilot/internal/ratelimit"
	chunkrepo "github.com/axiompharma/compliance-copilot/internal/repository/chunk"
	convrepo "github.com/axiompharma/compliance-copilot/internal/repository/conversation"
	docrepo "github.com/axiompharma/compliance-copilot/internal/repository/document"
	statsrepo "github.com/axiompharma/compliance-copilot/internal/repository/stats"
	"github.com/axiompharma/compliance-copilot/internal/services"
	"github.com/axiompharma/compliance-copilot/internal/services/ai"
	"github.com/axiompharma/compliance-copilot/internal/services/conversation"
	"github.com/axiompharma/compliance-copilot/internal/services/document"
	"github.com/axiompharma/compliance-copilot/internal/services/retrieval"
	"github.com/axiompharma/compliance-copilot/internal/storage"
)

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PATCH, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
		w.Header().Set("Access-Control-Max-Age", "86400")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func openDatabase(cfg *config.Config) (*gorm.DB, error) {
	if strings.EqualFold(cfg.DBDriver, "sqlite") {
		dsn := cfg.DBDSN
		if dsn == "" {
			dsn = "copilot.db"
		}
		return gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	}
	return gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
}

func seedFileTypes(db *gorm.DB) error {
	for _, name := range domain.CanonicalFileTypes {
		if err := db.Where(domain.DocumentFileType{Name: name}).
			FirstOrCreate(&domain.DocumentFileType{Name: name}).Error; err != nil {
			return err
		}
	}
	return nil
}

func main() {
	cfg := config.Load()

	logger := services.NewLogger("compliance-copilot")

	db, err := openDatabase(cfg)
	if err != nil {
		log.Fatalf("DB Error: %v", err)
	}

	if err := db.AutoMigrate(
		&domain.Document{},
		&domain.DocumentChunk{},
		&domain.Conversation{},
		&domain.UserStats{},
		&domain.DocumentFileType{},
	); err != nil {
		log.Fatalf("DB Migration Error: %v", err)
	}
	if err := seedFileTypes(db); err != nil {
		log.Fatalf("DB Seed Error: %v", err)
	}

	// --- Repositories ---
	documentRepo := docrepo.NewDocumentRepository(db)
	chunkRepo := chunkrepo.NewChunkRepository(db)
	conversationRepo := convrepo.NewConversationRepository(db)
	statsRepo := statsrepo.NewStatsRepository(db)

	// --- Services ---
	blobStore := storage.NewLocalStore(cfg.StorageRoot, cfg.StoragePrefix)

	documentService, err := document.NewService(
		&document.Config{
			MaxFileSizeBytes: cfg.MaxFileSizeBytes,
			MaxTextSizeBytes: cfg.MaxTextSizeBytes,
			MaxBase64Bytes:   cfg.MaxBase64Bytes,
			ChunkInsertBatch: cfg.ChunkInsertBatch,
			DefaultChunkSize: cfg.DefaultChunkSize,
		},
		documentRepo, chunkRepo, blobStore,
		services.NewLogger("document"),
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Document Service: %v", err)
	}

	retrievalService, err := retrieval.NewService(
		chunkRepo, documentRepo,
		cfg.SearchLimit, cfg.SearchLimitMax,
		services.NewLogger("retrieval"),
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Retrieval Service: %v", err)
	}

	conversationService, err := conversation.NewService(
		conversationRepo, statsRepo,
		services.NewLogger("conversation"),
	)
	if err != nil {
		log.Fatalf("FATAL: Failed to initialize Conversation Service: %v", err)
	}

	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.BaseURL = cfg.OpenAIBaseURL
	aiConfig.Model = cfg.ChatModel

	var completion ai.CompletionProvider
	if cfg.OpenAIAPIKey != "" {
		provider, err := ai.NewOpenAIProvider(aiConfig, services.NewLogger("ai"))
		if err != nil {
			log.Fatalf("FATAL: Failed to initialize Completion Provider: %v", err)
		}
		completion = provider
	} else {
		logger.Warn("OPENAI_API_KEY not set; chat completions disabled")
	}

	// --- Handlers ---
	documentHandler := handlers.NewDocumentHandler(documentService)
	chatHandler := handlers.NewChatHandler(retrievalService, conversationService, completion, services.NewLogger("chat"))
	conversationHandler := handlers.NewConversationHandler(conversationService)
	statsHandler := handlers.NewStatsHandler(conversationService, documentService)

	// --- Rate limiters ---
	chatLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.DefaultChatConfig())
	uploadLimiter := ratelimit.NewMemoryRateLimiter(ratelimit.UploadConfig())
	defer chatLimiter.Stop()
	defer uploadLimiter.Stop()

	// --- Router Setup ---
	r := mux.NewRouter()
	authMiddleware := middleware.NewJWTMiddleware(cfg.JWTSecretKey)

	r.Use(corsMiddleware)
	r.Use(middleware.RecoverPanic)
	r.Use(middleware.LoggingMiddleware(logger))

	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	}).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.Use(authMiddleware)

	uploads := api.PathPrefix("/documents").Subrouter()
	uploads.Use(middleware.RateLimitMiddleware(uploadLimiter, "upload"))
	uploads.HandleFunc("", documentHandler.Upload).Methods("POST")

	api.HandleFunc("/documents", documentHandler.List).Methods("GET")
	api.HandleFunc("/documents/{id}", documentHandler.Get).Methods("GET")
	api.HandleFunc("/documents/{id}/preview", documentHandler.Preview).Methods("GET")
	api.HandleFunc("/documents/{id}/metadata", documentHandler.PatchMetadata).Methods("PATCH")
	api.HandleFunc("/documents/{id}", documentHandler.Delete).Methods("DELETE")

	chat := api.PathPrefix("").Subrouter()
	chat.Use(middleware.RateLimitMiddleware(chatLimiter, "chat"))
	chat.HandleFunc("/search", chatHandler.Search).Methods("POST")
	chat.HandleFunc("/chat", chatHandler.Chat).Methods("POST")

	api.HandleFunc("/conversations", conversationHandler.Save).Methods("POST")
	api.HandleFunc("/conversations", conversationHandler.List).Methods("GET")
	api.HandleFunc("/conversations/{id}", conversationHandler.Get).Methods("GET")
	api.HandleFunc("/conversations/{id}", conversationHandler.Delete).Methods("DELETE")
	api.HandleFunc("/stats", statsHandler.Get).Methods("GET")
	api.HandleFunc("/stats/recompute", statsHandler.Recompute).Methods("POST")

	// --- Server Configuration ---
	port := ":8080"
	if cfg.ServerPort != "" {
		port = ":" + cfg.ServerPort
	}
	srv := &http.Server{
		Addr:    port,
		Handler: r,
	}

	go func() {
		logger.Info("server starting", "port", port, "environment", cfg.Environment, "db_driver", cfg.DBDriver)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server startup failed: %v", err)
		}
	}()

	// --- Graceful Shutdown ---
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown failed: %v", err)
	}
	logger.Info("server stopped")
}
