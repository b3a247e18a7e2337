// Package provider holds the static catalog of upstream providers and the
// model-id routing rules that pick one for each request.
package provider

import (
	"net/http"

	"github.com/kortix-ai/gateway/common/config"
)

// Provider names. OpenRouter is the aggregator: the only provider required
// to exist in production, and the universal fallback.
const (
	OpenRouter = "openrouter"
	OpenAI     = "openai"
	Anthropic  = "anthropic"
	XAI        = "xai"
	Groq       = "groq"
	Gemini     = "gemini"
)

// AuthStyle selects how a binding authenticates its upstream requests.
type AuthStyle int

const (
	AuthBearer AuthStyle = iota
	AuthAPIKeyHeader
	AuthNone
)

// Dialect selects which wire format the provider speaks.
type Dialect int

const (
	DialectOpenAI Dialect = iota
	DialectAnthropic
)

// Binding fully characterizes one upstream provider.
type Binding struct {
	Name         string
	BaseURL      string
	APIKey       string
	AuthStyle    AuthStyle
	Dialect      Dialect
	ExtraHeaders map[string]string
}

// IsConfigured reports whether the provider can actually be called.
func (b *Binding) IsConfigured() bool {
	return b != nil && b.APIKey != ""
}

// ApplyAuth sets the binding's authentication and extra headers on req.
func (b *Binding) ApplyAuth(req *http.Request) {
	switch b.AuthStyle {
	case AuthBearer:
		req.Header.Set("Authorization", "Bearer "+b.APIKey)
	case AuthAPIKeyHeader:
		req.Header.Set("x-api-key", b.APIKey)
	case AuthNone:
	}
	for k, v := range b.ExtraHeaders {
		req.Header.Set(k, v)
	}
}

// Registry is the process-wide provider table, built once at startup and
// never mutated afterwards.
type Registry struct {
	bindings map[string]*Binding
}

// NewRegistry builds the registry from the loaded configuration.
func NewRegistry() *Registry {
	return &Registry{bindings: map[string]*Binding{
		OpenRouter: {
			Name:      OpenRouter,
			BaseURL:   config.OpenRouterAPIURL,
			APIKey:    config.OpenRouterAPIKey,
			AuthStyle: AuthBearer,
			Dialect:   DialectOpenAI,
			ExtraHeaders: map[string]string{
				"HTTP-Referer": "https://kortix.ai",
				"X-Title":      "Kortix Gateway",
			},
		},
		OpenAI: {
			Name:      OpenAI,
			BaseURL:   config.OpenAIAPIURL,
			APIKey:    config.OpenAIAPIKey,
			AuthStyle: AuthBearer,
			Dialect:   DialectOpenAI,
		},
		Anthropic: {
			Name:      Anthropic,
			BaseURL:   config.AnthropicAPIURL,
			APIKey:    config.AnthropicAPIKey,
			AuthStyle: AuthAPIKeyHeader,
			Dialect:   DialectAnthropic,
			ExtraHeaders: map[string]string{
				"anthropic-version": "2023-06-01",
			},
		},
		XAI: {
			Name:      XAI,
			BaseURL:   config.XAIAPIURL,
			APIKey:    config.XAIAPIKey,
			AuthStyle: AuthBearer,
			Dialect:   DialectOpenAI,
		},
		Groq: {
			Name:      Groq,
			BaseURL:   config.GroqAPIURL,
			APIKey:    config.GroqAPIKey,
			AuthStyle: AuthBearer,
			Dialect:   DialectOpenAI,
		},
		Gemini: {
			Name:      Gemini,
			BaseURL:   config.GeminiAPIURL,
			APIKey:    config.GeminiAPIKey,
			AuthStyle: AuthBearer,
			Dialect:   DialectOpenAI,
		},
	}}
}

// Get returns the binding for name, or nil when unknown.
func (r *Registry) Get(name string) *Binding {
	return r.bindings[name]
}
