// Package main provides the entry point for the LocalPulse backend and CLI.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/localpulse/localpulse/internal/config"
	"github.com/localpulse/localpulse/internal/gateway"
	"github.com/localpulse/localpulse/internal/llm"
)

var rootCmd = &cobra.Command{
	Use:   "localpulse",
	Short: "LocalPulse MSP backend",
	Long:  "LocalPulse surfaces freelance gig opportunities across the Minneapolis-St. Paul metro and enriches them with AI analysis, drafted responses, and market intelligence reports.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newGateway builds the AI gateway the model-backed commands share.
// The returned client must be closed by the caller.
func newGateway(ctx context.Context, apiKey string) (*gateway.Gateway, llm.Client, error) {
	if apiKey == "" {
		apiKey = os.Getenv("GEMINI_API_KEY")
	}
	if apiKey == "" {
		return nil, nil, fmt.Errorf("API key is required (set GEMINI_API_KEY environment variable or use --api-key flag)")
	}

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AI client: %w", err)
	}

	marketArea := os.Getenv("MARKET_AREA")
	if marketArea == "" {
		marketArea = config.DefaultMarketArea
	}

	return gateway.New(client, marketArea), client, nil
}
