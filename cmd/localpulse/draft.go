package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/localpulse/localpulse/internal/feed"
	"github.com/localpulse/localpulse/internal/types"
)

var draftCmd = &cobra.Command{
	Use:   "draft <opportunity-id>",
	Short: "Draft formal and casual responses to an opportunity",
	Long:  "Draft a formal and a casual response to an opportunity, with a recommended tone. Drafting always produces something; on model trouble the fallback drafts are printed.",
	Args:  cobra.ExactArgs(1),
	RunE:  runDraft,
}

var (
	draftAPIKey      string
	draftDatabaseURL string
	draftUserSkills  string
	draftTone        string
)

func init() {
	draftCmd.Flags().StringVar(&draftAPIKey, "api-key", "", "Gemini API key (overrides GEMINI_API_KEY env var)")
	draftCmd.Flags().StringVar(&draftDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL; blank uses embedded sample data)")
	draftCmd.Flags().StringVar(&draftUserSkills, "skills", "", "Comma-separated skills to mention in the drafts")
	draftCmd.Flags().StringVar(&draftTone, "tone", "", "Print only one draft: formal or casual (default: both plus recommendation)")

	rootCmd.AddCommand(draftCmd)
}

func runDraft(_ *cobra.Command, args []string) error {
	if draftTone != "" && draftTone != types.ToneFormal && draftTone != types.ToneCasual {
		return fmt.Errorf("tone must be %q or %q", types.ToneFormal, types.ToneCasual)
	}

	ctx := context.Background()

	store, cleanup, err := openStore(ctx, draftDatabaseURL)
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

	gw, client, err := newGateway(ctx, draftAPIKey)
	if err != nil {
		return err
	}
	defer client.Close()

	draft := gw.DraftResponse(ctx, opp, draftUserSkills)

	switch draftTone {
	case types.ToneFormal:
		fmt.Println(draft.Formal)
	case types.ToneCasual:
		fmt.Println(draft.Casual)
	default:
		fmt.Printf("Recommended tone: %s\n\n", draft.RecommendedTone)
		fmt.Printf("--- Formal ---\n%s\n\n", draft.Formal)
		fmt.Printf("--- Casual ---\n%s\n", draft.Casual)
	}
	return nil
}
