package di

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio-chatbot/backend/internal/llm"
	"portfolio-chatbot/backend/internal/models"
	"portfolio-chatbot/backend/pkg/config"
	"portfolio-chatbot/backend/pkg/health"
	"portfolio-chatbot/backend/pkg/logger"
	"portfolio-chatbot/backend/pkg/secrets"
)

type stubProvider struct{}

func (stubProvider) Complete(context.Context, llm.Request) (llm.Completion, error) {
	return llm.Complete{Message: models.Message{Role: models.RoleAssistant, Content: "hi"}}, nil
}

type staticSecrets map[string]string

func (s staticSecrets) GetSecret(_ context.Context, key string) (string, error) {
	return s[key], nil
}

func (s staticSecrets) GetSecretWithDefault(_ context.Context, key, defaultValue string) string {
	if v, ok := s[key]; ok {
		return v
	}
	return defaultValue
}

func testConfig() *config.Config {
	cfg := &config.Config{}
	cfg.LLM.Model = "llama3.1-8b"
	cfg.LLM.MaxCompletionTokens = 512
	cfg.LLM.TopP = 1
	cfg.Observability.ServiceName = "portfolio-chatbot-test"
	cfg.Breaker.FailureThreshold = 2
	cfg.Breaker.SuccessThreshold = 1
	return cfg
}

func componentByName(t *testing.T, c *health.Checker, name string) health.Component {
	t.Helper()
	for _, comp := range c.GetStatus() {
		if comp.Name == name {
			return comp
		}
	}
	t.Fatalf("component %q not registered", name)
	return health.Component{}
}

func TestNewWiresDependencies(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testConfig(), logger.Discard(),
		WithProvider(stubProvider{}),
		WithSecrets(staticSecrets{secrets.KeyLLMAPIKey: "sk-test"}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(ctx) })

	assert.NotNil(t, c.ChatbotService)
	assert.Equal(t, "llama3.1-8b", c.ChatbotService.Config().Model)
	assert.NoError(t, c.Knowledge.Validate())

	c.Health.RunChecks()
	assert.True(t, c.Health.IsSystemHealthy())
	assert.Equal(t, health.StatusUp, componentByName(t, c.Health, "llm_credentials").Status)
	assert.Equal(t, health.StatusUp, componentByName(t, c.Health, "llm_circuit").Status)
}

func TestMissingCredentialIsDegradedNotDown(t *testing.T) {
	ctx := context.Background()
	c, err := New(ctx, testConfig(), logger.Discard(),
		WithProvider(stubProvider{}),
		WithSecrets(staticSecrets{}),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close(ctx) })

	c.Health.RunChecks()
	assert.Equal(t, health.StatusDegraded, componentByName(t, c.Health, "llm_credentials").Status)
	assert.True(t, c.Health.IsSystemHealthy())
}

func TestNewFailsOnMissingKnowledgeFile(t *testing.T) {
	cfg := testConfig()
	cfg.Knowledge.Path = t.TempDir() + "/missing.yaml"

	_, err := New(context.Background(), cfg, logger.Discard(), WithProvider(stubProvider{}))
	assert.ErrorContains(t, err, "failed to load knowledge base")
}
