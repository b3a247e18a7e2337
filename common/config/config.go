// Package config holds process-wide configuration loaded once at startup.
// Everything here is read-only after Load returns.
package config

import (
	"os"
	"strconv"
	"strings"
)

// Environment modes. Local and staging run with billing bypassed.
const (
	EnvLocal      = "local"
	EnvStaging    = "staging"
	EnvProduction = "production"
)

// TestAccountID is the sentinel account attached to requests authenticated
// with the test token. Such requests are never billed.
const TestAccountID = "00000"

// TestToken is the fixed bearer token that maps to TestAccountID.
const TestToken = "00000"

// APIKeyPrefix is the public prefix every issued credential starts with.
const APIKeyPrefix = "kx_"

// APIKeySuffixLen is the length of the random base62 suffix after the prefix.
const APIKeySuffixLen = 40

var (
	EnvMode = EnvLocal
	Port    = "8000"

	// APIKeySecret keys the HMAC used to hash credentials. Required whenever
	// a credential store is configured.
	APIKeySecret = ""

	// Direct ledger / credential store (Supabase Postgres).
	SupabaseDSN        = ""
	SupabaseServiceKey = ""

	// Fallback HTTP ledger.
	BackendAPIURL = ""
	BackendAPIKey = ""

	// Upstream providers. Empty key means the provider is not configured.
	OpenRouterAPIURL = "https://openrouter.ai/api/v1"
	OpenRouterAPIKey = ""
	OpenAIAPIURL     = "https://api.openai.com/v1"
	OpenAIAPIKey     = ""
	AnthropicAPIURL  = "https://api.anthropic.com"
	AnthropicAPIKey  = ""
	XAIAPIURL        = "https://api.x.ai/v1"
	XAIAPIKey        = ""
	GroqAPIURL       = "https://api.groq.com/openai/v1"
	GroqAPIKey       = ""
	GeminiAPIURL     = "https://generativelanguage.googleapis.com/v1beta/openai"
	GeminiAPIKey     = ""

	// Search upstreams.
	TavilyAPIURL = "https://api.tavily.com"
	TavilyAPIKey = ""
	SerperAPIURL = "https://google.serper.dev"
	SerperAPIKey = ""

	// MarkupMultiplier is applied to every computed LLM and tool cost.
	MarkupMultiplier = 1.20

	// AllowedOrigins is the CORS allow-list. Localhost origins are always
	// accepted outside production.
	AllowedOrigins []string

	DebugEnabled = false
)

// Load populates the package variables from the environment. Call once,
// before anything reads them.
func Load() {
	EnvMode = envOr("ENV_MODE", EnvLocal)
	Port = envOr("PORT", "8000")
	APIKeySecret = os.Getenv("API_KEY_SECRET")

	SupabaseDSN = os.Getenv("SUPABASE_URL")
	SupabaseServiceKey = os.Getenv("SUPABASE_SERVICE_ROLE_KEY")
	BackendAPIURL = strings.TrimSuffix(os.Getenv("BACKEND_API_URL"), "/")
	BackendAPIKey = os.Getenv("BACKEND_API_KEY")

	OpenRouterAPIURL = envOr("OPENROUTER_API_URL", OpenRouterAPIURL)
	OpenRouterAPIKey = os.Getenv("OPENROUTER_API_KEY")
	OpenAIAPIURL = envOr("OPENAI_API_URL", OpenAIAPIURL)
	OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	AnthropicAPIURL = envOr("ANTHROPIC_API_URL", AnthropicAPIURL)
	AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	XAIAPIURL = envOr("XAI_API_URL", XAIAPIURL)
	XAIAPIKey = os.Getenv("XAI_API_KEY")
	GroqAPIURL = envOr("GROQ_API_URL", GroqAPIURL)
	GroqAPIKey = os.Getenv("GROQ_API_KEY")
	GeminiAPIURL = envOr("GEMINI_API_URL", GeminiAPIURL)
	GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	TavilyAPIURL = envOr("TAVILY_API_URL", TavilyAPIURL)
	TavilyAPIKey = os.Getenv("TAVILY_API_KEY")
	SerperAPIURL = envOr("SERPER_API_URL", SerperAPIURL)
	SerperAPIKey = os.Getenv("SERPER_API_KEY")

	if v := os.Getenv("MARKUP_MULTIPLIER"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			MarkupMultiplier = f
		}
	}

	AllowedOrigins = nil
	for _, origin := range strings.Split(os.Getenv("ALLOWED_ORIGINS"), ",") {
		origin = strings.TrimSpace(origin)
		if origin != "" {
			AllowedOrigins = append(AllowedOrigins, origin)
		}
	}

	DebugEnabled = os.Getenv("DEBUG") == "true"
}

// IsDevMode reports whether billing should be bypassed entirely.
func IsDevMode() bool {
	return EnvMode == EnvLocal || EnvMode == EnvStaging
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
