package provider

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kortix-ai/gateway/common/config"
	relaymodel "github.com/kortix-ai/gateway/relay/model"
)

func fixMarkup(t *testing.T) {
	t.Helper()
	prev := config.MarkupMultiplier
	config.MarkupMultiplier = 1.2
	t.Cleanup(func() { config.MarkupMultiplier = prev })
}

func TestCalculateLLMCostFromCatalog(t *testing.T) {
	fixMarkup(t)

	usage := relaymodel.Usage{PromptTokens: 12, CompletionTokens: 34, TotalTokens: 46}
	got := CalculateLLMCost(OpenAI, "gpt-4o", usage)
	want := (12.0/1e6*2.5 + 34.0/1e6*10.0) * 1.2
	require.InDelta(t, want, got, 1e-12)
}

func TestCalculateLLMCostAggregatorReportedCostWins(t *testing.T) {
	fixMarkup(t)

	reported := 0.0031
	usage := relaymodel.Usage{PromptTokens: 100, CompletionTokens: 200, TotalCost: &reported}
	got := CalculateLLMCost(OpenRouter, "gpt-4o", usage)
	require.InDelta(t, 0.0031*1.2, got, 1e-12, "reported cost overrides catalog pricing")
}

func TestCalculateLLMCostReportedCostIgnoredOffAggregator(t *testing.T) {
	fixMarkup(t)

	reported := 99.0
	usage := relaymodel.Usage{PromptTokens: 12, CompletionTokens: 34, TotalCost: &reported}
	got := CalculateLLMCost(OpenAI, "gpt-4o", usage)
	want := (12.0/1e6*2.5 + 34.0/1e6*10.0) * 1.2
	require.InDelta(t, want, got, 1e-12)
}

func TestCalculateLLMCostPrefixedCatalogModel(t *testing.T) {
	fixMarkup(t)

	usage := relaymodel.Usage{PromptTokens: 100, CompletionTokens: 50}
	got := CalculateLLMCost(Anthropic, "anthropic/claude-3-5-sonnet", usage)
	want := (100.0/1e6*3.0 + 50.0/1e6*15.0) * 1.2
	require.InDelta(t, want, got, 1e-12,
		"provider-prefixed ids price like their catalog entry")

	got = CalculateLLMCost(OpenAI, "openai/gpt-4o", relaymodel.Usage{PromptTokens: 12, CompletionTokens: 34})
	want = (12.0/1e6*2.5 + 34.0/1e6*10.0) * 1.2
	require.InDelta(t, want, got, 1e-12)
	require.NotZero(t, got)
}

func TestCalculateLLMCostUnknownModelBillsZero(t *testing.T) {
	fixMarkup(t)

	usage := relaymodel.Usage{PromptTokens: 1_000_000, CompletionTokens: 1_000_000}
	require.Zero(t, CalculateLLMCost(OpenRouter, "mystery/model", usage))
}

func TestCalculateLLMCostUnknownModelWithReportedCost(t *testing.T) {
	fixMarkup(t)

	reported := 0.5
	usage := relaymodel.Usage{PromptTokens: 10, CompletionTokens: 10, TotalCost: &reported}
	require.InDelta(t, 0.6, CalculateLLMCost(OpenRouter, "mystery/model", usage), 1e-12)
}

func TestListModelIDsSortedAndComplete(t *testing.T) {
	ids := ListModelIDs()
	require.Contains(t, ids, "gpt-4o")
	require.Contains(t, ids, AggregatorFallbackModel)
	for i := 1; i < len(ids); i++ {
		require.Less(t, ids[i-1], ids[i], "ids must be sorted")
	}
}
