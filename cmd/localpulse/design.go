package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var designCmd = &cobra.Command{
	Use:   "design",
	Short: "Generate the design system document",
	Long:  "Generate the LocalPulse design system specification as a markdown document. Prints to stdout or writes to --out.",
	RunE:  runDesign,
}

var (
	designAPIKey string
	designOut    string
)

func init() {
	designCmd.Flags().StringVar(&designAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	designCmd.Flags().StringVarP(&designOut, "out", "o", "", "Path to write the markdown document")

	rootCmd.AddCommand(designCmd)
}

func runDesign(_ *cobra.Command, _ []string) error {
	ctx := context.Background()
	gw, client, err := newGateway(ctx, designAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	doc, err := gw.GenerateDesignSystem(ctx)
	if err != nil {
		return fmt.Errorf("design system generation failed: %w", err)
	}

	if designOut != "" {
		if err := os.WriteFile(designOut, []byte(doc), 0644); err != nil {
			return fmt.Errorf("failed to write document: %w", err)
		}
		fmt.Printf("Wrote design system to %s\n", designOut)
		return nil
	}

	fmt.Println(doc)
	return nil
}
