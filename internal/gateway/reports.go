package gateway

import (
	"context"
	"encoding/json"

	"github.com/localpulse/localpulse/internal/llm"
	"github.com/localpulse/localpulse/internal/prompts"
	"github.com/localpulse/localpulse/internal/schemas"
	"github.com/localpulse/localpulse/internal/types"
)

// GenerateDiscoveryMap produces the market-intelligence report for the
// configured market area. The prompt is fixed; each invocation is independent
// and nothing is cached, so repeated calls may return different content.
// The reply is validated at the top level only.
func (g *Gateway) GenerateDiscoveryMap(ctx context.Context) (*types.DiscoveryMapData, error) {
	template := prompts.MustGet("discovery.json", "discovery-map")
	prompt := prompts.Format(template, map[string]string{
		"Timestamp":  g.timestamp(),
		"MarketArea": g.marketArea,
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &APICallError{Message: "discovery map request failed", Cause: err}
	}
	raw = llm.CleanJSONBlock(raw)

	var report types.DiscoveryMapData
	if err := json.Unmarshal([]byte(raw), &report); err != nil {
		return nil, &ParseError{Message: "discovery map reply is not valid JSON", Cause: err}
	}

	if err := schemas.Validate(schemas.DiscoveryMap, raw); err != nil {
		return nil, &SchemaError{Cause: err}
	}

	return &report, nil
}

// GenerateDesignSystem produces the design-system strategy document as
// markdown text. No structural parsing; the text passes through as-is.
func (g *Gateway) GenerateDesignSystem(ctx context.Context) (string, error) {
	template := prompts.MustGet("design.json", "design-system")
	prompt := prompts.Format(template, map[string]string{
		"MarketArea": g.marketArea,
	})

	text, err := g.client.GenerateContent(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return "", &APICallError{Message: "design system request failed", Cause: err}
	}

	return text, nil
}
