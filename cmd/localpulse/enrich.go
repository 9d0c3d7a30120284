package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localpulse/localpulse/internal/feed"
)

var enrichCmd = &cobra.Command{
	Use:   "enrich <opportunity-id>",
	Short: "Run the deep AI analysis on one opportunity",
	Long:  "Run the deep analysis on an opportunity: categorization, urgency, budget and location estimates, a legitimacy assessment, and pre-drafted responses. Prints the enrichment JSON to stdout.",
	Args:  cobra.ExactArgs(1),
	RunE:  runEnrich,
}

var (
	enrichAPIKey      string
	enrichDatabaseURL string
)

func init() {
	enrichCmd.Flags().StringVar(&enrichAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	enrichCmd.Flags().StringVar(&enrichDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL; blank uses embedded sample data)")

	rootCmd.AddCommand(enrichCmd)
}

func runEnrich(_ *cobra.Command, args []string) error {
	ctx := context.Background()

	store, cleanup, err := openStore(ctx, enrichDatabaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	opp, err := feed.Find(ctx, store, args[0])
	if err != nil {
		return fmt.Errorf("failed to look up opportunity: %w", err)
	}
	if opp == nil {
		return fmt.Errorf("opportunity not found: %s", args[0])
	}

	gw, client, err := newGateway(ctx, enrichAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	enriched, err := gw.EnrichOpportunity(ctx, opp.Title, opp.Snippet)
	if err != nil {
		return fmt.Errorf("enrichment failed: %w", err)
	}

	out, err := json.MarshalIndent(enriched, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	fmt.Println(string(out))
	return nil
}
