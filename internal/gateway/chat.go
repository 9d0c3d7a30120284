package gateway

import (
	"context"
	"log"

	"github.com/localpulse/localpulse/internal/llm"
	"github.com/localpulse/localpulse/internal/prompts"
	"github.com/localpulse/localpulse/internal/types"
)

// chatFallbackText is appended as the bot reply when the service cannot be
// reached, so a transport failure never breaks the session.
const chatFallbackText = "I'm having trouble connecting right now. Please try again in a moment."

// Chat sends one user message within a conversation and returns the bot
// reply. The gateway is stateless here: history carries every prior turn and
// the caller owns it, so "no prior session" is simply an empty history.
// On service failure the canned apologetic reply is returned instead of an
// error; the caller appends it to the transcript like any other bot turn.
func (g *Gateway) Chat(ctx context.Context, history []types.Turn, message string) string {
	system := prompts.Format(
		prompts.MustGet("chat.json", "system-instruction"),
		map[string]string{"MarketArea": g.marketArea},
	)

	reply, err := g.client.Chat(ctx, system, history, message, llm.TierStandard)
	if err != nil {
		log.Printf("[gateway] chat message failed: %v", err)
		return chatFallbackText
	}

	return reply
}
