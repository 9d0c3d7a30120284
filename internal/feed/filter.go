// Package feed provides the opportunity data sources and the filter/rank
// engine that drives the opportunities view.
package feed

import (
	"sort"

	"github.com/localpulse/localpulse/internal/types"
)

// Criteria is the transient filter state for the opportunities view.
// It is not persisted anywhere.
type Criteria struct {
	// Urgency is the set of levels to keep. An opportunity passes only if
	// its urgency is a member, so an empty set keeps nothing.
	Urgency []types.UrgencyLevel
	// MinLegitimacy keeps an opportunity only if legitimacyScore >= this
	// threshold (0-100 inclusive).
	MinLegitimacy int
}

// DefaultCriteria matches the initial state of the opportunities view.
func DefaultCriteria() Criteria {
	return Criteria{
		Urgency:       []types.UrgencyLevel{types.UrgencyImmediate, types.UrgencyWithin24h},
		MinLegitimacy: 80,
	}
}

// Matches reports whether opp passes both filter predicates.
// The predicates are independent; order of evaluation does not change the result.
func (c Criteria) Matches(opp types.Opportunity) bool {
	if opp.LegitimacyScore < c.MinLegitimacy {
		return false
	}
	for _, u := range c.Urgency {
		if opp.Urgency == u {
			return true
		}
	}
	return false
}

// Rank returns the opportunities passing criteria, newest first.
// The result is a new slice; opps is never modified. Ties on created_utc keep
// their input order (stable sort), filtering is pure and deterministic, and
// the whole pass is O(n log n) so it can run on every filter change.
func Rank(opps []types.Opportunity, criteria Criteria) []types.Opportunity {
	out := make([]types.Opportunity, 0, len(opps))
	for _, opp := range opps {
		if criteria.Matches(opp) {
			out = append(out, opp)
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedUTC > out[j].CreatedUTC
	})

	return out
}
