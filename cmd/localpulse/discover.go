package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Generate the market discovery report",
	Long:  "Generate the lead-generation discovery map for the configured market area: data sources to monitor, keyword intelligence, filtering rules, and an implementation roadmap. Prints JSON to stdout or writes it to --out.",
	RunE:  runDiscover,
}

var (
	discoverAPIKey string
	discoverOut    string
)

func init() {
	discoverCmd.Flags().StringVar(&discoverAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	discoverCmd.Flags().StringVarP(&discoverOut, "out", "o", "", "Path to write the report JSON")

	rootCmd.AddCommand(discoverCmd)
}

func runDiscover(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	gw, client, err := newGateway(ctx, discoverAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	report, err := gw.GenerateDiscoveryMap(ctx)
	if err != nil {
		return fmt.Errorf("discovery map generation failed: %w", err)
	}

	out, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if discoverOut != "" {
		if err := os.WriteFile(discoverOut, out, 0644); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		fmt.Printf("Wrote discovery map to %s\n", discoverOut)
		return nil
	}

	fmt.Println(string(out))
	return nil
}
