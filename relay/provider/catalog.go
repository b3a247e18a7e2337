package provider

import "sort"

// Model tiers.
const (
	TierFree = "free"
	TierPaid = "paid"
)

// ModelConfig is one model catalog entry. Prices are USD per million tokens.
type ModelConfig struct {
	Provider      string  `json:"provider"`
	InputPer1M    float64 `json:"input_per_1m"`
	OutputPer1M   float64 `json:"output_per_1m"`
	ContextWindow int     `json:"context_window"`
	Tier          string  `json:"tier"`
}

// AggregatorFallbackModel is the zero-rate catalog entry unknown models fall
// back to; its zero prices force the reported-cost branch of cost
// calculation, so unknown models bill zero unless the aggregator reports a
// cost.
const AggregatorFallbackModel = "openrouter/auto"

// modelCatalog is the process-wide model table. Part of the billing
// contract: prices here feed directly into debits.
var modelCatalog = map[string]ModelConfig{
	"gpt-4o":                     {Provider: OpenAI, InputPer1M: 2.5, OutputPer1M: 10.0, ContextWindow: 128_000, Tier: TierPaid},
	"gpt-4o-mini":                {Provider: OpenAI, InputPer1M: 0.15, OutputPer1M: 0.6, ContextWindow: 128_000, Tier: TierFree},
	"o1":                         {Provider: OpenAI, InputPer1M: 15.0, OutputPer1M: 60.0, ContextWindow: 200_000, Tier: TierPaid},
	"o3-mini":                    {Provider: OpenAI, InputPer1M: 1.1, OutputPer1M: 4.4, ContextWindow: 200_000, Tier: TierPaid},
	"claude-3-5-sonnet":          {Provider: Anthropic, InputPer1M: 3.0, OutputPer1M: 15.0, ContextWindow: 200_000, Tier: TierPaid},
	"claude-3-5-sonnet-20241022": {Provider: Anthropic, InputPer1M: 3.0, OutputPer1M: 15.0, ContextWindow: 200_000, Tier: TierPaid},
	"claude-3-5-haiku":           {Provider: Anthropic, InputPer1M: 0.8, OutputPer1M: 4.0, ContextWindow: 200_000, Tier: TierFree},
	"grok-2":                     {Provider: XAI, InputPer1M: 2.0, OutputPer1M: 10.0, ContextWindow: 131_072, Tier: TierPaid},
	"llama-3.3-70b-versatile":    {Provider: Groq, InputPer1M: 0.59, OutputPer1M: 0.79, ContextWindow: 128_000, Tier: TierFree},
	"mixtral-8x7b-32768":         {Provider: Groq, InputPer1M: 0.24, OutputPer1M: 0.24, ContextWindow: 32_768, Tier: TierFree},
	"gemini-2.0-flash":           {Provider: Gemini, InputPer1M: 0.1, OutputPer1M: 0.4, ContextWindow: 1_048_576, Tier: TierFree},

	AggregatorFallbackModel: {Provider: OpenRouter, InputPer1M: 0, OutputPer1M: 0, ContextWindow: 0, Tier: TierPaid},
}

// GetModelConfig returns the catalog entry for an exact model id.
func GetModelConfig(modelID string) (ModelConfig, bool) {
	cfg, ok := modelCatalog[modelID]
	return cfg, ok
}

// ListModelIDs returns all catalog ids in stable order.
func ListModelIDs() []string {
	ids := make([]string, 0, len(modelCatalog))
	for id := range modelCatalog {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
