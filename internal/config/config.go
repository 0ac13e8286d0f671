package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderOllama = "ollama"
	ProviderGemini = "gemini"
)

var defaultAllowedOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"http://127.0.0.1:5173",
	"http://127.0.0.1:3000",
}

type Config struct {
	// Server
	Port    string
	Env     string
	LogMode string

	// Model gateway
	GatewayProvider string
	GatewayTimeout  time.Duration
	Temperature     float64

	// Ollama
	OllamaHost  string
	OllamaModel string

	// Gemini AI
	GeminiAPIKey string
	GeminiModel  string

	// Frontend
	AllowedOrigins []string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:            getEnvOrDefault("PORT", "5000"),
		Env:             getEnvOrDefault("ENV", "development"),
		LogMode:         getEnvOrDefault("LOG_MODE", "development"),
		GatewayProvider: strings.ToLower(getEnvOrDefault("GATEWAY_PROVIDER", ProviderOllama)),
		GatewayTimeout:  getEnvAsDurationOrDefault("GATEWAY_TIMEOUT", 120*time.Second),
		Temperature:     getEnvAsFloatOrDefault("MODEL_TEMPERATURE", 0.2),
		OllamaHost:      getEnvOrDefault("OLLAMA_HOST", "http://127.0.0.1:11434"),
		OllamaModel:     getEnvOrDefault("OLLAMA_MODEL", "llama3"),
		GeminiModel:     getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		AllowedOrigins:  getEnvAsListOrDefault("ALLOWED_ORIGINS", defaultAllowedOrigins),
	}

	if cfg.GatewayProvider == ProviderGemini {
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	}

	return cfg
}

// Validate reports settings that would make the server unusable.
func (c *Config) Validate() error {
	switch c.GatewayProvider {
	case ProviderOllama, ProviderGemini:
	default:
		return fmt.Errorf("unknown GATEWAY_PROVIDER %q (want %q or %q)", c.GatewayProvider, ProviderOllama, ProviderGemini)
	}
	if c.GatewayTimeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive, got %s", c.GatewayTimeout)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("MODEL_TEMPERATURE must be between 0 and 2, got %v", c.Temperature)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("PORT must be numeric, got %q", c.Port)
	}
	return nil
}

// Model returns the model name for the configured provider.
func (c *Config) Model() string {
	if c.GatewayProvider == ProviderGemini {
		return c.GeminiModel
	}
	return c.OllamaModel
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}

func getEnvAsFloatOrDefault(key string, defaultVal float64) float64 {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	f, err := strconv.ParseFloat(val, 64)
	if err != nil {
		return defaultVal
	}
	return f
}

// getEnvAsDurationOrDefault accepts Go durations ("90s") or bare seconds ("90").
func getEnvAsDurationOrDefault(key string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	if d, err := time.ParseDuration(val); err == nil {
		return d
	}
	if secs := getEnvAsIntOrDefault(key, -1); secs >= 0 {
		return time.Duration(secs) * time.Second
	}
	return defaultVal
}

func getEnvAsListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
