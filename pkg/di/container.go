package di

import (
	"context"
	"fmt"
	"io"
	"time"

	"portfolio-chatbot/backend/internal/knowledge"
	"portfolio-chatbot/backend/internal/llm"
	"portfolio-chatbot/backend/internal/service"
	"portfolio-chatbot/backend/pkg/config"
	"portfolio-chatbot/backend/pkg/health"
	"portfolio-chatbot/backend/pkg/logger"
	"portfolio-chatbot/backend/pkg/observability"
	"portfolio-chatbot/backend/pkg/resilience"
	"portfolio-chatbot/backend/pkg/secrets"
)

// HealthCheckPeriod is how often component health is re-evaluated
const HealthCheckPeriod = 30 * time.Second

// Container holds all the dependencies for the application
type Container struct {
	Config         *config.Config
	Logger         *logger.Logger
	Secrets        secrets.Manager
	Knowledge      knowledge.KnowledgeBase
	Provider       llm.Provider
	Breaker        *resilience.CircuitBreaker
	Telemetry      *observability.Telemetry
	Metrics        *observability.ChatbotMetrics
	ChatbotService *service.ChatbotService
	Health         *health.Checker
}

// Option overrides a dependency, mostly for tests
type Option func(*options)

type options struct {
	provider    llm.Provider
	secrets     secrets.Manager
	traceOutput io.Writer
}

// WithProvider replaces the OpenAI-compatible provider
func WithProvider(p llm.Provider) Option {
	return func(o *options) { o.provider = p }
}

// WithSecrets replaces the secret manager chosen from configuration
func WithSecrets(m secrets.Manager) Option {
	return func(o *options) { o.secrets = m }
}

// WithTraceOutput sends exported spans to w
func WithTraceOutput(w io.Writer) Option {
	return func(o *options) { o.traceOutput = w }
}

// New creates a new dependency injection container
func New(ctx context.Context, cfg *config.Config, log *logger.Logger, opts ...Option) (*Container, error) {
	o := &options{}
	for _, opt := range opts {
		opt(o)
	}
	if log == nil {
		log = logger.GetGlobal()
	}

	// Secrets: Vault when enabled, the environment otherwise
	secretManager := o.secrets
	if secretManager == nil {
		if cfg.Vault.Enabled {
			vm, err := secrets.NewVaultManager(secrets.VaultConfig{
				Address:     cfg.Vault.Address,
				Token:       cfg.Vault.Token,
				Namespace:   cfg.Vault.Namespace,
				Mount:       cfg.Vault.Mount,
				SecretsPath: cfg.Vault.SecretsPath,
			}, log)
			if err != nil {
				return nil, fmt.Errorf("failed to create vault manager: %w", err)
			}
			secretManager = vm
		} else {
			secretManager = secrets.EnvManager{}
		}
	}
	apiKey := secretManager.GetSecretWithDefault(ctx, secrets.KeyLLMAPIKey, cfg.LLM.APIKey)

	kb, err := knowledge.LoadOrDefault(cfg.Knowledge.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to load knowledge base: %w", err)
	}

	provider := o.provider
	if provider == nil {
		provider = llm.NewOpenAIProvider(llm.Config{
			APIKey:  apiKey,
			BaseURL: cfg.LLM.BaseURL,
			Timeout: cfg.LLM.Timeout,
		})
	}

	breaker := resilience.NewCircuitBreaker(resilience.Config{
		Name:             "llm",
		FailureThreshold: cfg.Breaker.FailureThreshold,
		SuccessThreshold: cfg.Breaker.SuccessThreshold,
		RetryTimeout:     cfg.Breaker.RetryTimeout,
	}, log)

	telemetry, err := observability.Setup(observability.Config{
		ServiceName:    cfg.Observability.ServiceName,
		MetricsEnabled: cfg.Observability.MetricsEnabled,
		TracingEnabled: cfg.Observability.TracingEnabled,
		TraceOutput:    o.traceOutput,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to set up observability: %w", err)
	}

	metrics, err := observability.NewChatbotMetrics(telemetry.Meter())
	if err != nil {
		return nil, fmt.Errorf("failed to create metrics: %w", err)
	}

	chatbot := service.NewChatbotService(provider, kb, cfg.ModelConfiguration(),
		service.WithBreaker(breaker),
		service.WithMetrics(metrics),
		service.WithLogger(log),
	)

	checker := health.NewChecker(log, HealthCheckPeriod)
	checker.RegisterCheck("knowledge", true, func() (health.Status, string, error) {
		if err := kb.Validate(); err != nil {
			return health.StatusDown, "Knowledge base is invalid", err
		}
		return health.StatusUp, fmt.Sprintf("%d projects, %d work entries", len(kb.Projects), len(kb.Work)), nil
	})
	checker.RegisterCheck("llm_credentials", false, func() (health.Status, string, error) {
		if apiKey == "" {
			return health.StatusDegraded, "No provider credential resolved", fmt.Errorf("%s is not set", secrets.EnvKey(secrets.KeyLLMAPIKey))
		}
		return health.StatusUp, "Provider credential resolved", nil
	})
	checker.RegisterCheck("llm_circuit", false, func() (health.Status, string, error) {
		m := breaker.Metrics()
		if m.State == resilience.StateOpen {
			return health.StatusDegraded, "Provider calls are short-circuited", resilience.ErrCircuitOpen
		}
		return health.StatusUp, fmt.Sprintf("Circuit %s, %d failures", m.State, m.TotalFailures), nil
	})

	log.Info("Container initialized",
		"knowledge_owner", kb.Name,
		"model", chatbot.Config().Model,
		"stream", chatbot.Config().Stream,
		"vault", cfg.Vault.Enabled,
	)

	return &Container{
		Config:         cfg,
		Logger:         log,
		Secrets:        secretManager,
		Knowledge:      kb,
		Provider:       provider,
		Breaker:        breaker,
		Telemetry:      telemetry,
		Metrics:        metrics,
		ChatbotService: chatbot,
		Health:         checker,
	}, nil
}

// Close flushes telemetry
func (c *Container) Close(ctx context.Context) error {
	return c.Telemetry.Shutdown(ctx)
}
