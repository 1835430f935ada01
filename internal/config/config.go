// File: internal/config/config.go
package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort   string
	Environment  string
	JWTSecretKey string

	// Database
	DBDriver string // "postgres" or "sqlite" (local development only)
	DBDSN    string

	// Blob storage
	StorageRoot   string
	StoragePrefix string

	// Completion API
	OpenAIAPIKey  string
	OpenAIBaseURL string
	ChatModel     string

	// Ingestion ceilings, enforced before any store I/O
	MaxFileSizeBytes int64
	MaxTextSizeBytes int64
	MaxBase64Bytes   int64
	ChunkInsertBatch int
	DefaultChunkSize int

	// Retrieval
	SearchLimit    int
	SearchLimitMax int
}

// Load reads configuration from environment variables or .env file.
func Load() *Config {
	env := os.Getenv("ENV")
	if strings.ToLower(env) != "production" {
		if err := godotenv.Load(); err != nil {
			log.Println("No .env file found; continuing with environment variables")
		}
	}

	cfg := &Config{
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		Environment:  env,
		JWTSecretKey: getEnv("JWT_SECRET_KEY", ""),

		DBDriver: getEnv("DB_DRIVER", "postgres"),
		DBDSN:    getEnv("DB_DSN", ""),

		StorageRoot:   getEnv("STORAGE_ROOT", "data/blobs"),
		StoragePrefix: getEnv("STORAGE_PREFIX", "documents"),

		OpenAIAPIKey:  getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL: getEnv("OPENAI_BASE_URL", ""),
		ChatModel:     getEnv("CHAT_MODEL", "gpt-4o-mini"),

		MaxFileSizeBytes: getEnvAsInt64("MAX_FILE_SIZE_BYTES", 10*1024*1024),
		MaxTextSizeBytes: getEnvAsInt64("MAX_TEXT_SIZE_BYTES", 5*1024*1024),
		MaxBase64Bytes:   getEnvAsInt64("MAX_BASE64_BYTES", 5*1024*1024),
		ChunkInsertBatch: getEnvAsInt("CHUNK_INSERT_BATCH", 25),
		DefaultChunkSize: getEnvAsInt("DEFAULT_CHUNK_SIZE", 800),

		SearchLimit:    getEnvAsInt("SEARCH_LIMIT", 10),
		SearchLimitMax: getEnvAsInt("SEARCH_LIMIT_MAX", 50),
	}

	// Validation for production environments
	if strings.ToLower(env) == "production" {
		missing := []string{}
		if cfg.JWTSecretKey == "" {
			missing = append(missing, "JWT_SECRET_KEY")
		}
		if cfg.DBDSN == "" {
			missing = append(missing, "DB_DSN")
		}
		if cfg.OpenAIAPIKey == "" {
			missing = append(missing, "OPENAI_API_KEY")
		}
		if len(missing) > 0 {
			log.Fatalf("Missing required production environment variables: %v", missing)
		}
	}

	return cfg
}

// getEnv returns the value of an environment variable or a default.
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an env var as an integer, with a fallback.
func getEnvAsInt(key string, defaultValue int) int {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(strValue)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}

// getEnvAsInt64 gets an env var as an int64, with a fallback.
func getEnvAsInt64(key string, defaultValue int64) int64 {
	strValue := getEnv(key, "")
	if strValue == "" {
		return defaultValue
	}
	intValue, err := strconv.ParseInt(strValue, 10, 64)
	if err != nil {
		log.Printf("Warning: could not parse env var %s as integer. Using default value.", key)
		return defaultValue
	}
	return intValue
}
