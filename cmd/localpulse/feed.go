package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/localpulse/localpulse/internal/feed"
	"github.com/localpulse/localpulse/internal/types"
)

var feedCmd = &cobra.Command{
	Use:   "feed",
	Short: "List filtered, ranked opportunities",
	Long:  "List the opportunities passing the urgency and legitimacy filters, newest first. Without flags the default view is applied: Immediate or Within 24h, legitimacy 80 or higher.",
	RunE:  runFeed,
}

var (
	feedUrgency       []string
	feedMinLegitimacy int
	feedDatabaseURL   string
	feedJSON          bool
)

func init() {
	feedCmd.Flags().StringSliceVar(&feedUrgency, "urgency", nil, "Urgency levels to keep (repeatable; default: Immediate,'Within 24h')")
	feedCmd.Flags().IntVar(&feedMinLegitimacy, "min-legitimacy", -1, "Minimum legitimacy score 0-100 (default: 80)")
	feedCmd.Flags().StringVar(&feedDatabaseURL, "db-url", "", "Database URL (overrides DATABASE_URL; blank uses embedded sample data)")
	feedCmd.Flags().BoolVar(&feedJSON, "json", false, "Emit raw JSON instead of a table")

	rootCmd.AddCommand(feedCmd)
}

// feedCriteria builds filter criteria from the command flags.
func feedCriteria() (feed.Criteria, error) {
	criteria := feed.DefaultCriteria()

	if len(feedUrgency) > 0 {
		criteria.Urgency = criteria.Urgency[:0]
		for _, raw := range feedUrgency {
			level := types.UrgencyLevel(raw)
			if !level.Valid() {
				return feed.Criteria{}, fmt.Errorf("unknown urgency level %q (valid: %s)", raw, urgencyLevelNames())
			}
			criteria.Urgency = append(criteria.Urgency, level)
		}
	}
	if feedMinLegitimacy >= 0 {
		if feedMinLegitimacy > 100 {
			return feed.Criteria{}, fmt.Errorf("min-legitimacy must be between 0 and 100")
		}
		criteria.MinLegitimacy = feedMinLegitimacy
	}

	return criteria, nil
}

func urgencyLevelNames() string {
	names := make([]string, 0, 4)
	for _, level := range types.AllUrgencyLevels() {
		names = append(names, string(level))
	}
	return strings.Join(names, ", ")
}

// openStore picks the opportunity source for CLI commands. The caller
// must invoke the returned cleanup.
func openStore(ctx context.Context, databaseURL string) (feed.Store, func(), error) {
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL != "" {
		pg, err := feed.ConnectPostgres(ctx, databaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return pg, pg.Close, nil
	}

	static, err := feed.NewStaticStore()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load embedded opportunities: %w", err)
	}
	return static, func() {}, nil
}

func runFeed(_ *cobra.Command, _ []string) error {
	criteria, err := feedCriteria()
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, cleanup, err := openStore(ctx, feedDatabaseURL)
	if err != nil {
		return err
	}
	defer cleanup()

	opps, err := store.List(ctx)
	if err != nil {
		return fmt.Errorf("failed to list opportunities: %w", err)
	}

	ranked := feed.Rank(opps, criteria)

	if feedJSON {
		out, err := json.MarshalIndent(ranked, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal JSON: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	if len(ranked) == 0 {
		fmt.Println("No opportunities match the current filters.")
		return nil
	}

	for _, opp := range ranked {
		fmt.Printf("%-8s %-12s leg=%-3d r/%-16s %s\n",
			opp.ID, opp.Urgency, opp.LegitimacyScore, opp.Subreddit, opp.Title)
	}
	fmt.Printf("\n%d of %d opportunities shown\n", len(ranked), len(opps))
	return nil
}
