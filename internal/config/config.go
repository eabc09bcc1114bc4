package config

import (
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server  ServerConfig
	Gemini  GeminiConfig
	Agent   AgentConfig
	Gateway GatewayConfig
	Storage StorageConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type GeminiConfig struct {
	APIKey string
	Model  string
}

// AgentConfig covers the chat agent. Timeout bounds one whole turn,
// including every model and tool call it makes.
type AgentConfig struct {
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

// GatewayConfig bounds every outbound completion call. MaxAttempts of 1
// disables retries.
type GatewayConfig struct {
	Timeout     time.Duration
	MaxAttempts int
	RetryDelay  time.Duration
}

type StorageConfig struct {
	TempPath    string
	MaxFileSize int64
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	model := getEnv("GEMINI_MODEL", "gemini-2.5-flash")

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "8000"),
			Env:  getEnv("ENV", "development"),
		},
		Gemini: GeminiConfig{
			APIKey: getEnv("GEMINI_API_KEY", ""),
			Model:  model,
		},
		Agent: AgentConfig{
			Model:     getEnv("AGENT_MODEL", model),
			MaxTokens: getEnvAsInt("AGENT_MAX_TOKENS", 4000),
			Timeout:   getEnvAsDuration("AGENT_TIMEOUT", "180s"),
		},
		Gateway: GatewayConfig{
			Timeout:     getEnvAsDuration("GATEWAY_TIMEOUT", "90s"),
			MaxAttempts: getEnvAsInt("GATEWAY_MAX_ATTEMPTS", 1),
			RetryDelay:  getEnvAsDuration("GATEWAY_RETRY_DELAY", "2s"),
		},
		Storage: StorageConfig{
			TempPath:    getEnv("TEMP_UPLOAD_PATH", filepath.Join(os.TempDir(), "resume-agent")),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
	}
}

func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue string) time.Duration {
	valueStr := getEnv(key, defaultValue)
	if duration, err := time.ParseDuration(valueStr); err == nil {
		return duration
	}
	duration, _ := time.ParseDuration(defaultValue)
	return duration
}
