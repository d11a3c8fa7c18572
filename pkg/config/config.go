package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"portfolio-chatbot/backend/internal/models"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port            string
		Env             string
		Timeout         time.Duration
		ShutdownTimeout time.Duration
	}

	// Upstream LLM provider
	LLM struct {
		APIKey              string
		BaseURL             string
		Model               string
		Stream              bool
		MaxCompletionTokens int
		Temperature         float64
		TopP                float64
		Timeout             time.Duration
	}

	// Security configuration
	Security struct {
		AllowedOrigins []string
		MaxBodySize    int64
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
	}

	// Knowledge base source
	Knowledge struct {
		Path string
	}

	// Vault configuration
	Vault struct {
		Enabled     bool
		Address     string
		Token       string
		Namespace   string
		Mount       string
		SecretsPath string
	}

	// Observability settings
	Observability struct {
		ServiceName    string
		MetricsEnabled bool
		TracingEnabled bool
	}

	// Circuit breaker guarding provider calls
	Breaker struct {
		FailureThreshold uint
		SuccessThreshold uint
		RetryTimeout     time.Duration
	}

	// Feature flags
	Features struct {
		EnableWebSockets        bool
		EnableOpenAPIValidation bool
	}
}

var (
	instance *Config
	once     sync.Once
)

// New returns the process-wide Config, loading it on first use
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()
		instance = Load()
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	if instance == nil {
		return New()
	}
	return instance
}

// Load builds a Config from the current environment without touching the singleton
func Load() *Config {
	cfg := &Config{}

	// Server config
	cfg.Server.Port = getEnvString("PORT", "8081")
	cfg.Server.Env = getEnvString("APP_ENV", "development")
	cfg.Server.Timeout = getEnvDuration("SERVER_TIMEOUT", 30*time.Second)
	cfg.Server.ShutdownTimeout = getEnvDuration("SHUTDOWN_TIMEOUT", 10*time.Second)

	// LLM config
	cfg.LLM.APIKey = getEnvString("API_KEY_LLM", "")
	cfg.LLM.BaseURL = getEnvString("LLM_BASE_URL", "https://api.cerebras.ai/v1")
	cfg.LLM.Model = getEnvString("LLM_MODEL", models.DefaultModel)
	cfg.LLM.Stream = getEnvBool("LLM_STREAM", models.DefaultStream)
	cfg.LLM.MaxCompletionTokens = getEnvInt("LLM_MAX_COMPLETION_TOKENS", models.DefaultMaxCompletionTokens)
	cfg.LLM.Temperature = getEnvFloat("LLM_TEMPERATURE", models.DefaultTemperature)
	cfg.LLM.TopP = getEnvFloat("LLM_TOP_P", models.DefaultTopP)
	cfg.LLM.Timeout = getEnvDuration("LLM_TIMEOUT", 0)

	// Security config
	cfg.Security.AllowedOrigins = getEnvStringSlice("ALLOWED_ORIGINS", []string{"*"})
	cfg.Security.MaxBodySize = getEnvInt64("MAX_BODY_SIZE", 1<<20) // 1MB

	// Logging config
	cfg.Logging.Level = getEnvString("LOG_LEVEL", "info")
	cfg.Logging.Format = getEnvString("LOG_FORMAT", "json")

	cfg.Knowledge.Path = getEnvString("KNOWLEDGE_PATH", "")

	// Vault config
	cfg.Vault.Enabled = getEnvBool("VAULT_ENABLED", false)
	cfg.Vault.Address = getEnvString("VAULT_ADDR", "")
	cfg.Vault.Token = getEnvString("VAULT_TOKEN", "")
	cfg.Vault.Namespace = getEnvString("VAULT_NAMESPACE", "")
	cfg.Vault.Mount = getEnvString("VAULT_MOUNT", "secret")
	cfg.Vault.SecretsPath = getEnvString("VAULT_SECRETS_PATH", "portfolio-chatbot")

	// Observability config
	cfg.Observability.ServiceName = getEnvString("SERVICE_NAME", "portfolio-chatbot")
	cfg.Observability.MetricsEnabled = getEnvBool("METRICS_ENABLED", true)
	cfg.Observability.TracingEnabled = getEnvBool("TRACING_ENABLED", false)

	// Circuit breaker config
	cfg.Breaker.FailureThreshold = uint(getEnvInt("BREAKER_FAILURE_THRESHOLD", 5))
	cfg.Breaker.SuccessThreshold = uint(getEnvInt("BREAKER_SUCCESS_THRESHOLD", 1))
	cfg.Breaker.RetryTimeout = getEnvDuration("BREAKER_RETRY_TIMEOUT", 30*time.Second)

	// Feature flags
	cfg.Features.EnableWebSockets = getEnvBool("ENABLE_WEBSOCKETS", true)
	cfg.Features.EnableOpenAPIValidation = getEnvBool("ENABLE_OPENAPI_VALIDATION", true)

	return cfg
}

// ModelConfiguration returns the generation parameters, falling back to the
// defaults for values outside their valid range
func (c *Config) ModelConfiguration() models.ModelConfiguration {
	mc := models.ModelConfiguration{
		Model:               c.LLM.Model,
		Stream:              c.LLM.Stream,
		MaxCompletionTokens: c.LLM.MaxCompletionTokens,
		Temperature:         float32(c.LLM.Temperature),
		TopP:                float32(c.LLM.TopP),
	}

	defaults := models.DefaultModelConfiguration()
	if mc.Model == "" {
		mc.Model = defaults.Model
	}
	if mc.MaxCompletionTokens <= 0 {
		mc.MaxCompletionTokens = defaults.MaxCompletionTokens
	}
	if mc.Temperature < 0 {
		mc.Temperature = defaults.Temperature
	}
	if mc.TopP < 0 || mc.TopP > 1 {
		mc.TopP = defaults.TopP
	}

	return mc
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
