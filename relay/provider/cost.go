package provider

import (
	"strings"

	"github.com/kortix-ai/gateway/common/config"
	relaymodel "github.com/kortix-ai/gateway/relay/model"
)

// CalculateLLMCost prices one completed LLM call. The aggregator's own
// reported cost wins when present; otherwise pricing comes from the model
// catalog, queried by the requested id and then by its prefix-stripped form
// so `anthropic/claude-3-5-sonnet` prices like `claude-3-5-sonnet`. Unknown
// models resolve to the aggregator's zero-rate entry, so without a reported
// cost they bill zero rather than fail.
func CalculateLLMCost(providerName, requestedModel string, usage relaymodel.Usage) float64 {
	markup := config.MarkupMultiplier

	if providerName == OpenRouter && usage.TotalCost != nil {
		return *usage.TotalCost * markup
	}

	cfg, ok := GetModelConfig(requestedModel)
	if !ok {
		if _, rest, found := strings.Cut(requestedModel, "/"); found {
			cfg, ok = GetModelConfig(rest)
		}
	}
	if !ok {
		cfg = modelCatalog[AggregatorFallbackModel]
	}

	inputCost := float64(usage.PromptTokens) / 1e6 * cfg.InputPer1M
	outputCost := float64(usage.CompletionTokens) / 1e6 * cfg.OutputPer1M
	return (inputCost + outputCost) * markup
}
