package types

// DiscoveryMapData is the market-intelligence report the model generates for
// the LocalPulse market area. It is a large nested document: the version,
// timestamp, market area, data sources, keyword intelligence, filtering
// rules, and roadmap sections are required and schema-checked; monitoring,
// competitive intelligence, and expansion opportunities are optional. The
// interior is taken as the model produced it and any of the arrays may be
// empty.
type DiscoveryMapData struct {
	DiscoveryMapVersion string `json:"discovery_map_version"`
	LastUpdated         string `json:"last_updated"` // ISO 8601
	MarketArea          string `json:"market_area"`

	DataSources             DataSources             `json:"data_sources"`
	KeywordIntelligence     KeywordIntelligence     `json:"keyword_intelligence"`
	FilteringRules          FilteringRules          `json:"filtering_rules"`
	ImplementationRoadmap   []ImplementationPhase   `json:"implementation_roadmap"`
	MonitoringScheduling    MonitoringScheduling    `json:"monitoring_recommendations"`
	CompetitiveIntelligence CompetitiveIntelligence `json:"competitive_intelligence"`
	ExpansionOpportunities  []ExpansionOpportunity  `json:"expansion_opportunities"`
}

// DataSources groups lead sources by maturity tier plus per-platform strategies.
type DataSources struct {
	Tier1Established          []DataSource           `json:"tier_1_established"`
	Tier2Niche                []DataSource           `json:"tier_2_niche"`
	Tier3Emerging             []DataSource           `json:"tier_3_emerging"`
	LocalForumsAndCommunities []LocalForumSource     `json:"local_forums_and_communities"`
	FacebookGroups            []FacebookGroupSource  `json:"facebook_groups"`
	NextdoorStrategy          NextdoorStrategy       `json:"nextdoor_strategy"`
	CraigslistOptimization    CraigslistOptimization `json:"craigslist_optimization"`
}

// DataSource describes one platform worth monitoring for leads.
type DataSource struct {
	Platform            string   `json:"platform"`
	SourceName          string   `json:"source_name"`
	URL                 string   `json:"url"`
	CategoryRelevance   []string `json:"category_relevance"`
	EstimatedVolume     string   `json:"estimated_volume"`
	APIAvailable        bool     `json:"api_available"`
	UpdateFrequency     string   `json:"update_frequency"`
	LegitimacyScore     int      `json:"legitimacy_score"`
	IntegrationPriority string   `json:"integration_priority"`
	Notes               string   `json:"notes"`

	// Tier-specific extras; absent on other tiers
	SeasonalPatterns         string `json:"seasonal_patterns,omitempty"`
	ImplementationDifficulty string `json:"implementation_difficulty,omitempty"`
}

// LocalForumSource describes a class of local forums or community boards.
type LocalForumSource struct {
	Type                string   `json:"type"`
	Examples            []string `json:"examples"`
	CategoryRelevance   []string `json:"category_relevance"`
	DiscoveryMethod     string   `json:"discovery_method"`
	EstimatedSources    string   `json:"estimated_sources"`
	IntegrationPriority string   `json:"integration_priority"`
	Notes               string   `json:"notes"`
}

// FacebookGroupSource describes a search strategy for local Facebook groups.
type FacebookGroupSource struct {
	SearchQuery         string   `json:"search_query"`
	GroupType           string   `json:"group_type"`
	CategoryRelevance   []string `json:"category_relevance"`
	EstimatedCount      string   `json:"estimated_count"`
	AccessMethod        string   `json:"access_method"`
	PostingFrequency    string   `json:"posting_frequency"`
	IntegrationPriority string   `json:"integration_priority"`
	PrivacyNote         string   `json:"privacy_note"`
}

// NextdoorStrategy is the model's assessment of Nextdoor as a lead source.
type NextdoorStrategy struct {
	Available           bool   `json:"available"`
	Coverage            string `json:"coverage"`
	APIAvailable        bool   `json:"api_available"`
	ScrapingFeasibility string `json:"scraping_feasibility"`
	AlternativeApproach string `json:"alternative_approach"`
	SearchQuery         string `json:"search_query"`
	IntegrationPriority string `json:"integration_priority"`
	Notes               string `json:"notes"`
}

// CraigslistOptimization suggests section and cadence tuning for Craigslist.
type CraigslistOptimization struct {
	CurrentSections       []string `json:"current_sections"`
	RecommendedAdditional []string `json:"recommended_additional"`
	PostingPatterns       string   `json:"posting_patterns"`
	UpdateFrequency       string   `json:"update_frequency"`
	GeographicalCoverage  []string `json:"geographical_coverage"`
	IntegrationPriority   string   `json:"integration_priority"`
}

// KeywordIntelligence is the keyword taxonomy for lead matching.
type KeywordIntelligence struct {
	HighIntentKeywords HighIntentKeywords `json:"high_intent_keywords"`
	NegativeKeywords   NegativeKeywords   `json:"negative_keywords"`
	ContextBoosters    ContextBoosters    `json:"context_boosters"`
}

// HighIntentKeywords are search terms that signal someone ready to hire.
type HighIntentKeywords struct {
	CreativeServices map[string][]string `json:"creative_services"`
	ManualLabor      map[string][]string `json:"manual_labor"`
	TechServices     map[string][]string `json:"tech_services"`
	UrgencyModifiers []string            `json:"urgency_modifiers"`
	PaymentSignals   []string            `json:"payment_signals"`
}

// NegativeKeywords are terms that disqualify a posting.
type NegativeKeywords struct {
	EmploymentTerms  []string `json:"employment_terms"`
	ScamIndicators   []string `json:"scam_indicators"`
	UnpaidWork       []string `json:"unpaid_work"`
	SpamPatterns     []string `json:"spam_patterns"`
	UnrelatedContent []string `json:"unrelated_content"`
}

// ContextBoosters are terms that raise confidence a posting is local and real.
type ContextBoosters struct {
	LocationKeywords   []string `json:"location_keywords"`
	LegitimacyBoosters []string `json:"legitimacy_boosters"`
}

// FilteringRules are suggested automated triage rules.
type FilteringRules struct {
	AutoRejectIf          []string `json:"auto_reject_if"`
	AutoPriorityBoostIf   []string `json:"auto_priority_boost_if"`
	FlagForManualReviewIf []string `json:"flag_for_manual_review_if"`
}

// ImplementationPhase is one step of the suggested rollout roadmap.
type ImplementationPhase struct {
	Phase           int      `json:"phase"`
	Priority        string   `json:"priority"`
	SourcesToAdd    []string `json:"sources_to_add"`
	KeywordsToAdd   []string `json:"keywords_to_add"`
	EstimatedEffort string   `json:"estimated_effort"`

	ExpectedLeadIncrease           string `json:"expected_lead_increase,omitempty"`
	ExpectedNoiseReduction         string `json:"expected_noise_reduction,omitempty"`
	ExpectedLeadQualityImprovement string `json:"expected_lead_quality_improvement,omitempty"`
}

// MonitoringScheduling suggests how often each source should be checked.
type MonitoringScheduling struct {
	OptimalCheckFrequency map[string]string `json:"optimal_check_frequency"`
	PeakPostingTimes      map[string]string `json:"peak_posting_times"`
	SeasonalPatterns      map[string]string `json:"seasonal_patterns"`
}

// CompetitiveIntelligence estimates how contested the market is.
type CompetitiveIntelligence struct {
	EstimatedCompetitorsMonitoring string   `json:"estimated_competitors_monitoring"`
	AverageResponseTime            string   `json:"average_response_time"`
	YourTargetResponseTime         string   `json:"your_target_response_time"`
	CompetitiveAdvantageTactics    []string `json:"competitive_advantage_tactics"`
}

// ExpansionOpportunity is a platform worth evaluating later.
type ExpansionOpportunity struct {
	Platform    string `json:"platform"`
	Feasibility string `json:"feasibility"`
	Notes       string `json:"notes"`
}
