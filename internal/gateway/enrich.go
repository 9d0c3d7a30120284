package gateway

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/localpulse/localpulse/internal/llm"
	"github.com/localpulse/localpulse/internal/prompts"
	"github.com/localpulse/localpulse/internal/schemas"
	"github.com/localpulse/localpulse/internal/types"
)

// EnrichOpportunity runs the lead triage and qualification analysis on a raw
// posting. The reply must be a single JSON object matching the enrichment
// contract; a non-JSON reply surfaces as *ParseError and a JSON reply with a
// broken shape as *SchemaError. Never a partially-trusted record.
func (g *Gateway) EnrichOpportunity(ctx context.Context, title, snippet string) (*types.EnrichedOpportunity, error) {
	if strings.TrimSpace(title) == "" && strings.TrimSpace(snippet) == "" {
		return nil, &InputError{Field: "title", Message: "nothing to analyze"}
	}

	template := prompts.MustGet("enrichment.json", "enrich-opportunity")
	prompt := prompts.Format(template, map[string]string{
		"Title":      title,
		"Snippet":    snippet,
		"Timestamp":  g.timestamp(),
		"MarketArea": g.marketArea,
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return nil, &APICallError{Message: "enrichment request failed", Cause: err}
	}
	raw = llm.CleanJSONBlock(raw)

	var enriched types.EnrichedOpportunity
	if err := json.Unmarshal([]byte(raw), &enriched); err != nil {
		return nil, &ParseError{Message: "enrichment reply is not valid JSON", Cause: err}
	}

	if err := schemas.Validate(schemas.EnrichedOpportunity, raw); err != nil {
		return nil, &SchemaError{Cause: err}
	}

	return &enriched, nil
}
