// File: cmd/diagnostic/main.go
//
// Connectivity smoke test: verifies the database DSN and the completion
// endpoint before a deploy. Run with the same .env the server uses.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/axiompharma/compliance-copilot/internal/config"
	"github.com/axiompharma/compliance-copilot/internal/domain"
	"github.com/axiompharma/compliance-copilot/internal/services"
	"github.com/axiompharma/compliance-copilot/internal/services/ai"
)

func main() {
	checkDB := flag.Bool("db", true, "check database connectivity")
	checkLLM := flag.Bool("llm", false, "check the completion endpoint (spends tokens)")
	flag.Parse()

	cfg := config.Load()

	if *checkDB {
		if err := diagnoseDB(cfg); err != nil {
			log.Fatalf("database check failed: %v", err)
		}
		fmt.Println("database: OK")
	}

	if *checkLLM {
		if err := diagnoseLLM(cfg); err != nil {
			log.Fatalf("completion check failed: %v", err)
		}
		fmt.Println("completion endpoint: OK")
	}
}

func diagnoseDB(cfg *config.Config) error {
	var (
		db  *gorm.DB
		err error
	)
	if cfg.DBDriver == "sqlite" {
		db, err = gorm.Open(sqlite.Open(cfg.DBDSN), &gorm.Config{})
	} else {
		db, err = gorm.Open(postgres.Open(cfg.DBDSN), &gorm.Config{})
	}
	if err != nil {
		return fmt.Errorf("open: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("underlying db: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("ping: %w", err)
	}

	var docs, chunks int64
	db.Model(&domain.Document{}).Count(&docs)
	db.Model(&domain.DocumentChunk{}).Count(&chunks)
	fmt.Printf("documents=%d chunks=%d\n", docs, chunks)
	return nil
}

func diagnoseLLM(cfg *config.Config) error {
	aiConfig := ai.DefaultConfig()
	aiConfig.APIKey = cfg.OpenAIAPIKey
	aiConfig.BaseURL = cfg.OpenAIBaseURL
	aiConfig.Model = cfg.ChatModel
	aiConfig.MaxTokens = 32

	provider, err := ai.NewOpenAIProvider(aiConfig, &services.NoOpLogger{})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	reply, err := provider.GetCompletion(ctx, "You are a connectivity probe.", "Reply with the single word: ready")
	if err != nil {
		return err
	}
	fmt.Printf("model replied: %q\n", reply)
	return nil
}
