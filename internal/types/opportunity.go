// Package types provides type definitions for structured data used throughout the LocalPulse system.
//
//nolint:revive // types is a standard Go package name pattern
package types

// UrgencyLevel classifies the deadline pressure of an opportunity.
// The four values are a fixed enumeration; every opportunity carries exactly one.
type UrgencyLevel string

// Urgency levels, from most to least time-sensitive
const (
	UrgencyImmediate UrgencyLevel = "Immediate"
	UrgencyWithin24h UrgencyLevel = "Within 24h"
	UrgencyFlexible  UrgencyLevel = "Flexible"
	UrgencyOngoing   UrgencyLevel = "Ongoing"
)

// AllUrgencyLevels returns every urgency level in display order.
func AllUrgencyLevels() []UrgencyLevel {
	return []UrgencyLevel{UrgencyImmediate, UrgencyWithin24h, UrgencyFlexible, UrgencyOngoing}
}

// Valid reports whether u is one of the four known urgency levels.
func (u UrgencyLevel) Valid() bool {
	switch u {
	case UrgencyImmediate, UrgencyWithin24h, UrgencyFlexible, UrgencyOngoing:
		return true
	}
	return false
}

// Budget is an optional price range attached to an opportunity.
// Min and Max may each be absent independently.
type Budget struct {
	Min  *float64 `json:"min,omitempty"`
	Max  *float64 `json:"max,omitempty"`
	Type string   `json:"type"` // "hourly" or "fixed"
}

// Opportunity is a single gig/job lead record.
// Records are produced by the data source and never mutated afterward;
// the JSON tags match the contract the web client consumes.
type Opportunity struct {
	ID              string       `json:"id"`
	Title           string       `json:"title"`
	Subreddit       string       `json:"subreddit"`
	Author          string       `json:"author"`
	CreatedUTC      int64        `json:"created_utc"` // seconds since epoch
	Permalink       string       `json:"permalink"`
	Snippet         string       `json:"snippet"`
	Category        string       `json:"category"`
	Urgency         UrgencyLevel `json:"urgency"`
	Budget          *Budget      `json:"budget,omitempty"`
	LegitimacyScore int          `json:"legitimacyScore"` // 0-100
	SkillMatch      int          `json:"skillMatch"`      // 0-100
}
