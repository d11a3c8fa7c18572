package models

import (
	"errors"
)

// Default generation parameters used when deployment configuration leaves them unset
const (
	DefaultModel               = "zai-glm-4.6"
	DefaultStream              = true
	DefaultMaxCompletionTokens = 40960
	DefaultTemperature         = 0.6
	DefaultTopP                = 0.95
)

// ModelConfiguration holds per-request generation parameters
type ModelConfiguration struct {
	Model               string  `json:"model"`
	Stream              bool    `json:"stream"`
	MaxCompletionTokens int     `json:"max_completion_tokens"`
	Temperature         float32 `json:"temperature"`
	TopP                float32 `json:"top_p"`
}

// DefaultModelConfiguration returns the fallback generation parameters
func DefaultModelConfiguration() ModelConfiguration {
	return ModelConfiguration{
		Model:               DefaultModel,
		Stream:              DefaultStream,
		MaxCompletionTokens: DefaultMaxCompletionTokens,
		Temperature:         DefaultTemperature,
		TopP:                DefaultTopP,
	}
}

// Validate checks the parameter ranges
func (c ModelConfiguration) Validate() error {
	if c.Model == "" {
		return errors.New("model is required")
	}
	if c.MaxCompletionTokens <= 0 {
		return errors.New("max_completion_tokens must be positive")
	}
	if c.Temperature < 0 {
		return errors.New("temperature must not be negative")
	}
	if c.TopP < 0 || c.TopP > 1 {
		return errors.New("top_p must be within [0,1]")
	}
	return nil
}
