package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	OpenAI   OpenAIConfig
	Slack    SlackConfig
	RAG      RAGConfig
	Webhook  WebhookConfig
	Logger   LoggerConfig
}

type LoggerConfig struct {
	Level string
}

type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type OpenAIConfig struct {
	APIKey          string
	BaseURL         string // override for self-hosted gateways and tests
	EmbeddingModel  string
	CompletionModel string
}

type SlackConfig struct {
	BotToken       string
	APIURL         string // override for tests
	ChannelID      string
	ErrorChannelID string
}

type RAGConfig struct {
	SimilarityThreshold float64
	TopK                int
	EmbeddingDimensions int
	Temperature         float64
	MaxCompletionTokens int
}

type WebhookConfig struct {
	// Shared token expected on webhook requests. Empty disables the check.
	Token string
}

func Load() (*Config, error) {
	// Try to load .env file from current directory or project root
	envFiles := []string{".env", "../.env", "../../.env"}
	for _, envFile := range envFiles {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}
	// No .env file is fine: environment variables are used directly
	// (Docker/K8s deployments).

	readTimeout, _ := strconv.Atoi(getEnv("SERVER_READ_TIMEOUT", "30"))
	writeTimeout, _ := strconv.Atoi(getEnv("SERVER_WRITE_TIMEOUT", "30"))
	ragTopK, _ := strconv.Atoi(getEnv("RAG_TOP_K", "5"))
	ragThreshold, _ := strconv.ParseFloat(getEnv("RAG_SIMILARITY_THRESHOLD", "0.7"), 64)
	ragDims, _ := strconv.Atoi(getEnv("RAG_EMBEDDING_DIMENSIONS", "1536"))
	ragTemperature, _ := strconv.ParseFloat(getEnv("RAG_TEMPERATURE", "0.3"), 64)
	ragMaxTokens, _ := strconv.Atoi(getEnv("RAG_MAX_COMPLETION_TOKENS", "500"))

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  time.Duration(readTimeout) * time.Second,
			WriteTimeout: time.Duration(writeTimeout) * time.Second,
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "yeni_auto"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		OpenAI: OpenAIConfig{
			APIKey:          getEnv("OPENAI_API_KEY", ""),
			BaseURL:         getEnv("OPENAI_BASE_URL", ""),
			EmbeddingModel:  getEnv("OPENAI_EMBEDDING_MODEL", "text-embedding-3-small"),
			CompletionModel: getEnv("OPENAI_COMPLETION_MODEL", "gpt-3.5-turbo"),
		},
		Slack: SlackConfig{
			BotToken:       getEnv("SLACK_BOT_TOKEN", ""),
			APIURL:         getEnv("SLACK_API_URL", ""),
			ChannelID:      getEnv("SLACK_CHANNEL_ID", ""),
			ErrorChannelID: getEnv("SLACK_ERROR_CHANNEL_ID", ""),
		},
		RAG: RAGConfig{
			SimilarityThreshold: ragThreshold,
			TopK:                ragTopK,
			EmbeddingDimensions: ragDims,
			Temperature:         ragTemperature,
			MaxCompletionTokens: ragMaxTokens,
		},
		Webhook: WebhookConfig{
			Token: getEnv("WEBHOOK_TOKEN", ""),
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
