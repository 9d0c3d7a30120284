// Package gateway is the single seam between the application and the hosted
// generative-AI service. The six task types (enrich, draft, chat, image
// analysis, image generation, reports) are all invoked through here: the
// gateway assembles the prompt, calls the model client, and parses and
// validates the reply into the corresponding typed record. Nothing else in
// the system talks to the service directly.
package gateway

import (
	"time"

	"github.com/localpulse/localpulse/internal/llm"
)

// DefaultMarketArea is used when no market area is configured.
const DefaultMarketArea = "Minneapolis-St. Paul Metro"

// Gateway mediates all calls to the generative-AI service.
// Calls are independent request/response units; the gateway itself holds no
// per-conversation state (chat history is owned by the caller).
type Gateway struct {
	client     llm.Client
	marketArea string
	now        func() time.Time
}

// New creates a gateway over the given model client.
func New(client llm.Client, marketArea string) *Gateway {
	if marketArea == "" {
		marketArea = DefaultMarketArea
	}
	return &Gateway{
		client:     client,
		marketArea: marketArea,
		now:        time.Now,
	}
}

// MarketArea returns the market area this gateway's prompts are scoped to.
func (g *Gateway) MarketArea() string {
	return g.marketArea
}

func (g *Gateway) timestamp() string {
	return g.now().UTC().Format(time.RFC3339)
}
