package secrets

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"portfolio-chatbot/backend/pkg/logger"

	vault "github.com/hashicorp/vault/api"
)

// VaultConfig holds configuration for Vault client
type VaultConfig struct {
	Address     string
	Token       string
	Namespace   string
	Mount       string
	SecretsPath string
	Timeout     time.Duration
	MaxRetries  int
	CacheTTL    time.Duration
}

type cachedSecret struct {
	value   string
	expires time.Time
}

// VaultManager reads secrets from a Vault KV v2 mount, falling back to the
// environment when a key is absent there
type VaultManager struct {
	client *vault.Client
	config VaultConfig
	env    EnvManager
	cache  map[string]cachedSecret
	mu     sync.RWMutex
	log    *logger.Logger
}

// NewVaultManager creates a new Vault manager instance
func NewVaultManager(config VaultConfig, log *logger.Logger) (*VaultManager, error) {
	if config.Address == "" {
		return nil, ErrNoVaultAddress
	}
	if config.Token == "" {
		return nil, ErrNoVaultToken
	}
	if config.Mount == "" {
		config.Mount = "secret"
	}
	if config.SecretsPath == "" {
		config.SecretsPath = "portfolio-chatbot"
	}
	if config.Timeout == 0 {
		config.Timeout = 10 * time.Second
	}
	if config.CacheTTL == 0 {
		config.CacheTTL = 5 * time.Minute
	}

	vaultConfig := vault.DefaultConfig()
	vaultConfig.Address = config.Address
	vaultConfig.Timeout = config.Timeout
	vaultConfig.MaxRetries = config.MaxRetries

	client, err := vault.NewClient(vaultConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create vault client: %w", err)
	}

	client.SetToken(config.Token)
	if config.Namespace != "" {
		client.SetNamespace(config.Namespace)
	}

	return &VaultManager{
		client: client,
		config: config,
		cache:  make(map[string]cachedSecret),
		log:    log,
	}, nil
}

// GetSecret retrieves a secret from Vault, with fallback to environment variable
func (m *VaultManager) GetSecret(ctx context.Context, key string) (string, error) {
	if value, ok := m.cached(key); ok {
		return value, nil
	}

	value, err := m.getFromVault(ctx, key)
	if errors.Is(err, ErrSecretNotFound) {
		m.log.Warn("Secret not found in Vault, falling back to environment", "key", key)
		value, err = m.env.GetSecret(ctx, key)
	}
	if err != nil {
		return "", err
	}

	m.store(key, value)
	return value, nil
}

// GetSecretWithDefault retrieves a secret with a default value if not found
func (m *VaultManager) GetSecretWithDefault(ctx context.Context, key, defaultValue string) string {
	value, err := m.GetSecret(ctx, key)
	if err != nil {
		m.log.Warn("Failed to get secret, using default value",
			"key", key,
			"error", err.Error(),
		)
		return defaultValue
	}
	return value
}

func (m *VaultManager) getFromVault(ctx context.Context, key string) (string, error) {
	secret, err := m.client.KVv2(m.config.Mount).Get(ctx, m.config.SecretsPath)
	if err != nil {
		if errors.Is(err, vault.ErrSecretNotFound) {
			return "", ErrSecretNotFound
		}
		m.log.Error("Failed to read secret from Vault",
			"mount", m.config.Mount,
			"path", m.config.SecretsPath,
			"error", err.Error(),
		)
		return "", fmt.Errorf("failed to read secret: %w", err)
	}

	if secret == nil || secret.Data == nil {
		return "", ErrSecretNotFound
	}

	value, ok := secret.Data[key].(string)
	if !ok || value == "" {
		return "", ErrSecretNotFound
	}

	return value, nil
}

func (m *VaultManager) cached(key string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	entry, ok := m.cache[key]
	if !ok || time.Now().After(entry.expires) {
		return "", false
	}
	return entry.value, true
}

func (m *VaultManager) store(key, value string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache[key] = cachedSecret{value: value, expires: time.Now().Add(m.config.CacheTTL)}
}
