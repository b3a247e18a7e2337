package provider

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/kortix-ai/gateway/common/config"
)

var providerKeyVars = []*string{
	&config.OpenRouterAPIKey, &config.OpenAIAPIKey, &config.AnthropicAPIKey,
	&config.XAIAPIKey, &config.GroqAPIKey, &config.GeminiAPIKey,
}

func snapshotProviderKeys(t *testing.T) {
	t.Helper()
	saved := make([]string, len(providerKeyVars))
	for i, p := range providerKeyVars {
		saved[i] = *p
	}
	t.Cleanup(func() {
		for i, p := range providerKeyVars {
			*p = saved[i]
		}
	})
}

func configureAllProviders(t *testing.T) *Registry {
	t.Helper()
	snapshotProviderKeys(t)
	for _, p := range providerKeyVars {
		*p = "test-key"
	}
	return NewRegistry()
}

func configureOnlyAggregator(t *testing.T) *Registry {
	t.Helper()
	snapshotProviderKeys(t)
	for _, p := range providerKeyVars {
		*p = ""
	}
	config.OpenRouterAPIKey = "test-key"
	return NewRegistry()
}

func TestResolveRoutingMatrix(t *testing.T) {
	r := configureAllProviders(t)

	cases := []struct {
		modelID      string
		wantProvider string
		wantModel    string
	}{
		// exact catalog hits
		{"gpt-4o", OpenAI, "gpt-4o"},
		{"claude-3-5-sonnet", Anthropic, "claude-3-5-sonnet"},
		{"grok-2", XAI, "grok-2"},
		{"mixtral-8x7b-32768", Groq, "mixtral-8x7b-32768"},
		{"gemini-2.0-flash", Gemini, "gemini-2.0-flash"},
		// explicit prefixes strip to the provider-local id
		{"anthropic/claude-next", Anthropic, "claude-next"},
		{"openai/gpt-5", OpenAI, "gpt-5"},
		{"x-ai/grok-3", XAI, "grok-3"},
		{"openrouter/deepseek/deepseek-chat", OpenRouter, "deepseek/deepseek-chat"},
		// bedrock/aws have no native binding; the aggregator gets the full id
		{"bedrock/anthropic.claude-v2", OpenRouter, "bedrock/anthropic.claude-v2"},
		{"aws/titan-text", OpenRouter, "aws/titan-text"},
		// substring inference
		{"claude-4-opus", Anthropic, "claude-4-opus"},
		{"gpt-6-preview", OpenAI, "gpt-6-preview"},
		{"o1-pro", OpenAI, "o1-pro"},
		{"grok-beta", XAI, "grok-beta"},
		{"llama-4-scout", Groq, "llama-4-scout"},
		// everything else lands on the aggregator
		{"some-unknown-model", OpenRouter, "some-unknown-model"},
	}

	for _, tc := range cases {
		res, err := r.Resolve(tc.modelID)
		require.NoError(t, err, "model %q", tc.modelID)
		require.Equal(t, tc.wantProvider, res.Binding.Name, "model %q", tc.modelID)
		require.Equal(t, tc.wantModel, res.Model, "model %q", tc.modelID)
		require.Equal(t, tc.modelID, res.Requested, "model %q", tc.modelID)
	}
}

func TestResolveReroutesUnconfiguredProviderViaAggregator(t *testing.T) {
	r := configureOnlyAggregator(t)

	res, err := r.Resolve("grok-2")
	require.NoError(t, err)
	require.Equal(t, OpenRouter, res.Binding.Name)
	require.Equal(t, "xai/grok-2", res.Model, "rewritten id carries the provider prefix")
	require.Equal(t, "grok-2", res.Requested)

	res, err = r.Resolve("claude-3-5-haiku")
	require.NoError(t, err)
	require.Equal(t, OpenRouter, res.Binding.Name)
	require.Equal(t, "anthropic/claude-3-5-haiku", res.Model)
}

func TestResolveNoProviderConfigured(t *testing.T) {
	r := configureOnlyAggregator(t)
	config.OpenRouterAPIKey = ""
	r = NewRegistry()

	_, err := r.Resolve("gpt-4o")
	require.Error(t, err)
	require.Contains(t, err.Error(), "no provider configured")
}

func TestBindingIsConfigured(t *testing.T) {
	require.False(t, (*Binding)(nil).IsConfigured())
	require.False(t, (&Binding{Name: OpenAI}).IsConfigured())
	require.True(t, (&Binding{Name: OpenAI, APIKey: "k"}).IsConfigured())
}
