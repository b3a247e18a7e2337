package billing

import "strings"

// ToolPricing prices one billable tool. Cost is
// (BaseCost + PerResultCost*resultCount) * MarkupMultiplier.
type ToolPricing struct {
	BaseCost         float64
	PerResultCost    float64
	MarkupMultiplier float64
}

// toolPricingTable is part of the public contract with the ledger; change it
// in lockstep with the billing backend.
var toolPricingTable = map[string]ToolPricing{
	"web_search_basic":    {BaseCost: 0.01, PerResultCost: 0.001, MarkupMultiplier: 1.2},
	"web_search_advanced": {BaseCost: 0.025, PerResultCost: 0.002, MarkupMultiplier: 1.2},
	"image_search":        {BaseCost: 0.015, PerResultCost: 0.001, MarkupMultiplier: 1.2},
}

// ToolCost returns the billed cost for one tool invocation. Unknown tools
// cost zero, which turns the debit into a no-op rather than a failure.
func ToolCost(tool string, resultCount int) float64 {
	pricing, ok := toolPricingTable[tool]
	if !ok {
		return 0
	}
	if resultCount < 0 {
		resultCount = 0
	}
	return (pricing.BaseCost + pricing.PerResultCost*float64(resultCount)) * pricing.MarkupMultiplier
}

// HumanizeTool turns a tool name into a ledger description,
// e.g. "web_search_advanced" -> "Web search advanced".
func HumanizeTool(tool string) string {
	parts := strings.Split(tool, "_")
	if len(parts) == 0 {
		return tool
	}
	text := strings.Join(parts, " ")
	if text == "" {
		return tool
	}
	return strings.ToUpper(text[:1]) + text[1:]
}
