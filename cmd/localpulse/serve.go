package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/localpulse/localpulse/internal/config"
	"github.com/localpulse/localpulse/internal/feed"
	"github.com/localpulse/localpulse/internal/gateway"
	"github.com/localpulse/localpulse/internal/llm"
	"github.com/localpulse/localpulse/internal/server"
	"github.com/localpulse/localpulse/internal/session"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long:  `Start an HTTP server that exposes the opportunity feed, AI enrichment and drafting, image tools, the chat assistant, and market intelligence reports.`,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (overrides PORT)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("port") {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return err
		}
	}

	ctx := context.Background()

	client, err := llm.NewClient(ctx, llm.DefaultGeminiConfig(), cfg.GeminiAPIKey)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer client.Close()

	// Opportunity source: Postgres when configured, embedded sample
	// data otherwise
	var store feed.Store
	if cfg.DatabaseURL != "" {
		pg, err := feed.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer pg.Close()
		store = pg
		log.Println("[serve] using PostgreSQL opportunity store")
	} else {
		static, err := feed.NewStaticStore()
		if err != nil {
			return fmt.Errorf("failed to load embedded opportunities: %w", err)
		}
		store = static
		log.Println("[serve] using embedded sample opportunities")
	}

	// Chat sessions: Redis when configured, in-memory otherwise
	var sessions session.Store
	if cfg.RedisURL != "" {
		redisStore, err := session.NewRedisStore(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			return fmt.Errorf("failed to connect to redis: %w", err)
		}
		defer redisStore.Close()
		sessions = redisStore
		log.Println("[serve] using Redis chat session store")
	} else {
		sessions = session.NewMemoryStore(cfg.SessionTTL)
	}

	srv, err := server.New(server.Config{
		Addr:       cfg.Addr(),
		Gateway:    gateway.New(client, cfg.MarketArea),
		Store:      store,
		Sessions:   sessions,
		SessionTTL: cfg.SessionTTL,
	})
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}
