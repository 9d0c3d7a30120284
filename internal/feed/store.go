package feed

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"

	"github.com/localpulse/localpulse/internal/types"
)

// Store is a read-only source of opportunity records. Implementations must
// return records that are safe for the caller to hold; the engine never
// mutates them.
type Store interface {
	// List returns every opportunity the source knows about, in source order.
	List(ctx context.Context) ([]types.Opportunity, error)
}

//go:embed seed/opportunities.json
var seedData []byte

// StaticStore serves the embedded sample data set. It stands in for the
// ingestion pipeline a fuller system would have; the filter/rank contract is
// identical either way.
type StaticStore struct {
	opportunities []types.Opportunity
}

// NewStaticStore parses the embedded sample data.
func NewStaticStore() (*StaticStore, error) {
	var opps []types.Opportunity
	if err := json.Unmarshal(seedData, &opps); err != nil {
		return nil, fmt.Errorf("failed to parse embedded opportunity data: %w", err)
	}

	for i, opp := range opps {
		if opp.ID == "" {
			return nil, fmt.Errorf("embedded opportunity %d has no id", i)
		}
		if !opp.Urgency.Valid() {
			return nil, fmt.Errorf("embedded opportunity %s has unknown urgency %q", opp.ID, opp.Urgency)
		}
	}

	return &StaticStore{opportunities: opps}, nil
}

// List returns a copy of the sample records.
func (s *StaticStore) List(_ context.Context) ([]types.Opportunity, error) {
	out := make([]types.Opportunity, len(s.opportunities))
	copy(out, s.opportunities)
	return out, nil
}

// Get returns the opportunity with the given id, or nil if unknown.
func (s *StaticStore) Get(_ context.Context, id string) (*types.Opportunity, error) {
	for _, opp := range s.opportunities {
		if opp.ID == id {
			o := opp
			return &o, nil
		}
	}
	return nil, nil
}

// Getter is implemented by stores that support id lookup.
type Getter interface {
	Get(ctx context.Context, id string) (*types.Opportunity, error)
}

// Find looks up id in st, falling back to a linear scan of List for stores
// without native lookup. Returns nil when the id is unknown.
func Find(ctx context.Context, st Store, id string) (*types.Opportunity, error) {
	if g, ok := st.(Getter); ok {
		return g.Get(ctx, id)
	}

	opps, err := st.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, opp := range opps {
		if opp.ID == id {
			o := opp
			return &o, nil
		}
	}
	return nil, nil
}
