// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// HTTPConfig holds shared HTTP settings used by stages that make network requests.
type HTTPConfig struct {
	// Timeout is the HTTP request timeout.
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent with HTTP requests
	// (e.g. "essay-engine/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`
}

// ClassifierConfig holds settings for the sentiment model behind the stance
// classifier.
type ClassifierConfig struct {
	HTTPConfig `yaml:",inline" mapstructure:",squash"`

	// Model is the hosted sentiment model identifier.
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey authenticates against the inference endpoint. Optional; an
	// empty key disables the model tier.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`
}

// ResearchConfig holds settings for the research stage.
type ResearchConfig struct {
	// SearchTimeout bounds the primary search provider call (default 15s).
	SearchTimeout time.Duration `json:"search_timeout" yaml:"search_timeout" mapstructure:"search_timeout"`

	// EncyclopediaTimeout bounds the encyclopedia fallback call (default 5s).
	EncyclopediaTimeout time.Duration `json:"encyclopedia_timeout" yaml:"encyclopedia_timeout" mapstructure:"encyclopedia_timeout"`

	// UserAgent is sent with every research request.
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// TavilyAPIKey authenticates the primary search provider.
	TavilyAPIKey string `json:"tavily_api_key,omitempty" yaml:"tavily_api_key,omitempty" mapstructure:"tavily_api_key"`

	// MaxResults is the number of individual search results requested (default 5).
	MaxResults int `json:"max_results" yaml:"max_results" mapstructure:"max_results"`
}

// AIConfig holds shared settings for stages that call a Generative AI API.
type AIConfig struct {
	// Model is the AI model identifier (e.g. "gpt-4o-mini").
	Model string `json:"model" yaml:"model" mapstructure:"model"`

	// APIKey is the authentication key for the AI API.
	APIKey string `json:"api_key,omitempty" yaml:"api_key,omitempty" mapstructure:"api_key"`

	// Timeout bounds one generation request (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`
}

// GeneratorProvider selects the hosted generation service.
type GeneratorProvider string

const (
	ProviderOpenAI GeneratorProvider = "openai"
	ProviderGemini GeneratorProvider = "gemini"
)

// OutputFormat selects how results are printed.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
	OutputYAML OutputFormat = "yaml"
)

// GenerationConfig holds settings for the composition stage.
type GenerationConfig struct {
	AIConfig `yaml:",inline" mapstructure:",squash"`

	// Provider selects openai or gemini.
	Provider GeneratorProvider `json:"provider" yaml:"provider" mapstructure:"provider"`

	// Temperature balances creativity and consistency (default 0.7).
	Temperature float64 `json:"temperature" yaml:"temperature" mapstructure:"temperature"`

	// MaxTokens caps the response length (default 2000).
	MaxTokens int `json:"max_tokens" yaml:"max_tokens" mapstructure:"max_tokens"`
}

// PipelineConfig groups all stage configurations for the pipeline.
type PipelineConfig struct {
	Classifier ClassifierConfig `json:"classifier" yaml:"classifier" mapstructure:"classifier"`
	Research   ResearchConfig   `json:"research" yaml:"research" mapstructure:"research"`
	Generation GenerationConfig `json:"generation" yaml:"generation" mapstructure:"generation"`

	// Concurrency limits parallel runs in a batch (default 2).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`
}
