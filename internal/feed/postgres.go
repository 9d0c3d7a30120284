package feed

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/localpulse/localpulse/internal/types"
)

// PostgresStore reads opportunity records from a PostgreSQL table populated
// by an external ingestion pipeline. It is read-only: the engine only ever
// selects, never writes.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and verifies it.
func ConnectPostgres(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresStore{pool: pool}, nil
}

// Close closes the connection pool.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

const opportunityColumns = `id, title, subreddit, author, created_utc, permalink,
	snippet, category, urgency, budget_min, budget_max, budget_type,
	legitimacy_score, skill_match`

// List returns every opportunity, in ingestion order.
func (s *PostgresStore) List(ctx context.Context) ([]types.Opportunity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities ORDER BY ingested_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list opportunities: %w", err)
	}
	defer rows.Close()

	var opps []types.Opportunity
	for rows.Next() {
		opp, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		opps = append(opps, *opp)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read opportunities: %w", err)
	}

	return opps, nil
}

// Get returns the opportunity with the given id, or nil if unknown.
func (s *PostgresStore) Get(ctx context.Context, id string) (*types.Opportunity, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get opportunity %s: %w", id, err)
	}
	defer rows.Close()

	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("failed to get opportunity %s: %w", id, err)
		}
		return nil, nil
	}

	return scanOpportunity(rows)
}

// rowScanner matches the Scan method shared by pgx.Row and pgx.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanOpportunity(row rowScanner) (*types.Opportunity, error) {
	var (
		opp        types.Opportunity
		budgetMin  *float64
		budgetMax  *float64
		budgetType *string
	)

	err := row.Scan(
		&opp.ID, &opp.Title, &opp.Subreddit, &opp.Author, &opp.CreatedUTC,
		&opp.Permalink, &opp.Snippet, &opp.Category, &opp.Urgency,
		&budgetMin, &budgetMax, &budgetType,
		&opp.LegitimacyScore, &opp.SkillMatch,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to scan opportunity: %w", err)
	}

	if budgetType != nil {
		opp.Budget = &types.Budget{Min: budgetMin, Max: budgetMax, Type: *budgetType}
	}

	return &opp, nil
}
