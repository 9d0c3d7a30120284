package gateway

import (
	"context"
	"encoding/json"
	"log"

	"github.com/localpulse/localpulse/internal/llm"
	"github.com/localpulse/localpulse/internal/prompts"
	"github.com/localpulse/localpulse/internal/schemas"
	"github.com/localpulse/localpulse/internal/types"
)

// draftFallbackText is returned in both drafts when the service cannot
// produce a usable reply.
const draftFallbackText = "Sorry, an error occurred while drafting the response."

// FallbackDraft is the degraded but well-typed record DraftResponse returns
// on any failure.
func FallbackDraft() *types.DraftedResponse {
	return &types.DraftedResponse{
		Formal:          draftFallbackText,
		Casual:          draftFallbackText,
		RecommendedTone: types.ToneFormal,
	}
}

// DraftResponse writes a formal and a casual reply to a posting for a
// freelancer with the given skills. This task never leaves the caller without
// a value: on service failure, a non-JSON reply, or a reply violating the
// draft contract it returns the fallback record instead of an error.
func (g *Gateway) DraftResponse(ctx context.Context, opp *types.Opportunity, userSkills string) *types.DraftedResponse {
	template := prompts.MustGet("drafting.json", "draft-response")
	prompt := prompts.Format(template, map[string]string{
		"Skills":  userSkills,
		"Title":   opp.Title,
		"Snippet": opp.Snippet,
	})

	raw, err := g.client.GenerateJSON(ctx, prompt, llm.TierLite)
	if err != nil {
		log.Printf("[gateway] draft request for %s failed: %v", opp.ID, err)
		return FallbackDraft()
	}
	raw = llm.CleanJSONBlock(raw)

	var draft types.DraftedResponse
	if err := json.Unmarshal([]byte(raw), &draft); err != nil {
		log.Printf("[gateway] draft reply for %s is not valid JSON: %v", opp.ID, err)
		return FallbackDraft()
	}

	if err := schemas.Validate(schemas.DraftedResponse, raw); err != nil {
		log.Printf("[gateway] draft reply for %s violates contract: %v", opp.ID, err)
		return FallbackDraft()
	}

	return &draft
}
