package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// Provider identifies a completion backend.
type Provider string

const (
	ProviderAzure     Provider = "azure"
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderOllama    Provider = "ollama"
	ProviderBedrock   Provider = "bedrock"
)

// Config holds all configuration values.
type Config struct {
	// Completion backend
	LLMProvider Provider
	LLMModel    string

	// Azure OpenAI (variable names match the original deployment scripts)
	AzureEndpoint   string
	AzureDeployment string
	AzureAPIKey     string
	AzureAPIVersion string

	// Other providers
	OpenAIAPIKey    string
	AnthropicAPIKey string
	OllamaHost      string
	AWSRegion       string

	// Request shape
	Temperature float64
	MaxTokens   int

	// Pipeline defaults (overridable per run via flags or profile)
	BatchSize         int
	Concurrency       int
	MaxRetries        int
	RequestsPerMinute int

	// Logging
	LogFile  string
	LogLevel slog.Level
}

// Load reads configuration from environment variables.
// Azure variable names match the original deployment scripts exactly.
func Load() Config {
	return Config{
		LLMProvider: Provider(getEnv("SYNDATA_LLM_PROVIDER", string(ProviderAzure))),
		LLMModel:    getEnv("SYNDATA_LLM_MODEL", "gpt-4o"),

		AzureEndpoint:   getEnv("AZURE_OPENAI_ENDPOINT", ""),
		AzureDeployment: getEnv("AZURE_OPENAI_DEPLOYMENT", ""),
		AzureAPIKey:     getEnv("AZURE_OPENAI_API_KEY", ""),
		AzureAPIVersion: getEnv("API_VERSION_GA", "2024-06-01"),

		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),
		OllamaHost:      getEnv("OLLAMA_HOST", "http://localhost:11434"),
		AWSRegion:       getEnv("AWS_REGION", "us-east-1"),

		Temperature: getEnvFloat("SYNDATA_TEMPERATURE", 0.6),
		MaxTokens:   getEnvInt("SYNDATA_MAX_TOKENS", 800),

		BatchSize:         getEnvInt("SYNDATA_BATCH_SIZE", 50),
		Concurrency:       getEnvInt("SYNDATA_CONCURRENCY", 4),
		MaxRetries:        getEnvInt("SYNDATA_MAX_RETRIES", 1),
		RequestsPerMinute: getEnvInt("SYNDATA_REQUESTS_PER_MINUTE", 40),

		LogFile:  getEnv("SYNDATA_LOG_FILE", "/tmp/syndata.log"),
		LogLevel: parseLogLevel(getEnv("SYNDATA_LOG_LEVEL", "INFO")),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return slog.LevelDebug
	case "INFO":
		return slog.LevelInfo
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
