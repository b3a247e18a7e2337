package provider

import (
	"strings"

	"github.com/Laisky/errors/v2"
	"github.com/Laisky/zap"

	"github.com/kortix-ai/gateway/common/logger"
)

// Resolution is the outcome of routing a model id: the binding to call and
// the provider-local model id to send it.
type Resolution struct {
	Binding *Binding
	// Model is the provider-local model id, possibly rewritten for
	// aggregator fallback.
	Model string
	// Requested is the client's original model id, kept for billing lookups.
	Requested string
}

// prefixToProvider maps explicit model-id prefixes to provider names.
// Prefixes with no native binding route through the aggregator.
var prefixToProvider = map[string]string{
	"openrouter": OpenRouter,
	"anthropic":  Anthropic,
	"openai":     OpenAI,
	"xai":        XAI,
	"x-ai":       XAI,
	"groq":       Groq,
	"gemini":     Gemini,
	"google":     Gemini,
	"bedrock":    OpenRouter,
	"aws":        OpenRouter,
}

// Resolve routes a request model id to a provider binding. Order: exact
// catalog hit, explicit prefix, substring inference, then the aggregator.
// A selected provider without an API key reroutes to the aggregator with
// the provider prefix prepended so the aggregator's own routing takes over.
func (r *Registry) Resolve(modelID string) (*Resolution, error) {
	name, localModel := r.pick(modelID)

	binding := r.Get(name)
	if !binding.IsConfigured() && name != OpenRouter {
		aggregator := r.Get(OpenRouter)
		if !aggregator.IsConfigured() {
			return nil, errors.Errorf("no provider configured for model %q", modelID)
		}
		rewritten := name + "/" + localModel
		logger.Logger.Debug("provider unconfigured; rerouting via aggregator",
			zap.String("provider", name),
			zap.String("model", modelID),
			zap.String("rewritten_model", rewritten))
		return &Resolution{Binding: aggregator, Model: rewritten, Requested: modelID}, nil
	}
	if !binding.IsConfigured() {
		return nil, errors.Errorf("no provider configured for model %q", modelID)
	}

	return &Resolution{Binding: binding, Model: localModel, Requested: modelID}, nil
}

// pick selects a provider name and provider-local model id without regard
// to configuration state.
func (r *Registry) pick(modelID string) (name, localModel string) {
	if cfg, ok := GetModelConfig(modelID); ok {
		return cfg.Provider, modelID
	}

	if prefix, rest, found := strings.Cut(modelID, "/"); found && rest != "" {
		if providerName, ok := prefixToProvider[strings.ToLower(prefix)]; ok {
			if providerName == OpenRouter && strings.ToLower(prefix) != "openrouter" {
				// bedrock/... and aws/... have no native binding; hand the
				// full prefixed id to the aggregator's own routing.
				return OpenRouter, modelID
			}
			return providerName, rest
		}
	}

	lower := strings.ToLower(modelID)
	switch {
	case strings.Contains(lower, "claude"):
		return Anthropic, modelID
	case strings.Contains(lower, "gpt"),
		strings.HasPrefix(lower, "o1"),
		strings.HasPrefix(lower, "o3"):
		return OpenAI, modelID
	case strings.Contains(lower, "grok"):
		return XAI, modelID
	case strings.Contains(lower, "gemini"):
		return Gemini, modelID
	case strings.Contains(lower, "llama"),
		strings.Contains(lower, "mixtral"),
		strings.Contains(lower, "groq"):
		return Groq, modelID
	default:
		return OpenRouter, modelID
	}
}
