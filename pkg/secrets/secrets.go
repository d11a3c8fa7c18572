package secrets

import (
	"context"
	"errors"
	"os"
	"strings"
)

// Keys of secrets used by the gateway
const (
	// KeyLLMAPIKey resolves to the API_KEY_LLM environment variable
	KeyLLMAPIKey = "api_key_llm"
)

// Common errors
var (
	ErrSecretNotFound = errors.New("secret not found")
	ErrNoVaultToken   = errors.New("no vault token provided")
	ErrNoVaultAddress = errors.New("no vault address provided")
)

// Manager provides access to secrets from various sources
type Manager interface {
	// GetSecret retrieves a secret by key
	GetSecret(ctx context.Context, key string) (string, error)

	// GetSecretWithDefault retrieves a secret with a default value if not found
	GetSecretWithDefault(ctx context.Context, key, defaultValue string) string
}

// EnvKey maps a secret key to its environment variable name
func EnvKey(key string) string {
	return strings.ToUpper(strings.NewReplacer("-", "_", ".", "_").Replace(key))
}

// EnvManager reads secrets from environment variables only
type EnvManager struct{}

// GetSecret looks up the environment variable for key
func (EnvManager) GetSecret(_ context.Context, key string) (string, error) {
	value := os.Getenv(EnvKey(key))
	if value == "" {
		return "", ErrSecretNotFound
	}
	return value, nil
}

// GetSecretWithDefault returns defaultValue when the variable is unset
func (m EnvManager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	value, err := m.GetSecret(ctx, key)
	if err != nil {
		return defaultValue
	}
	return value
}
