package types

// EnrichedOpportunity is the structured AI analysis of a single opportunity.
// The shape mirrors the JSON contract the model is prompted to return.
// Every leaf is independently optional: the model is instructed to use null
// for anything it cannot determine, so consumers must tolerate partial data.
// Only enrichment_version and processed_at are guaranteed present after
// schema validation.
type EnrichedOpportunity struct {
	EnrichmentVersion string `json:"enrichment_version"`
	ProcessedAt       string `json:"processed_at"` // ISO 8601

	GigCategory    *string `json:"gig_category"`
	GigSubcategory *string `json:"gig_subcategory"`

	UrgencyLevel    *string `json:"urgency_level"` // immediate|within_24h|within_week|flexible|ongoing
	UrgencyDeadline *string `json:"urgency_deadline"`

	Budget               *BudgetEstimate       `json:"budget"`
	Location             *LocationEstimate     `json:"location"`
	LegitimacyAssessment *LegitimacyAssessment `json:"legitimacy_assessment"`
	ContactInfo          *ContactInfo          `json:"contact_info"`

	RequiredSkills        []string `json:"required_skills"`
	SkillLevelRequired    *string  `json:"skill_level_required"` // beginner|intermediate|expert|any
	JobDescriptionSummary *string  `json:"job_description_summary"`
	KeyRequirements       []string `json:"key_requirements"`
	DealBreakers          []string `json:"deal_breakers"`

	Sentiment  *string `json:"sentiment"`   // desperate|casual|professional|frustrated|neutral
	PosterType *string `json:"poster_type"` // homeowner|business|property_manager|individual|unclear

	ResponsePriority  *string `json:"response_priority"` // high|medium|low
	PriorityReasoning *string `json:"priority_reasoning"`

	EstimatedDuration    *string `json:"estimated_duration"`
	EstimatedEffort      *string `json:"estimated_effort"` // quick_task|half_day|full_day|multi_day|ongoing
	CompetitionLevel     *string `json:"competition_level"`
	CompetitionReasoning *string `json:"competition_reasoning"`
	ResponseWindow       *string `json:"response_window"`

	PreDraftedResponse   *DraftedResponse `json:"pre_drafted_response"`
	SuggestedNextActions []string         `json:"suggested_next_actions"`
	QuestionsToAsk       []string         `json:"questions_to_ask"`

	ValueScore     *int     `json:"value_score"` // 0-100
	ValueReasoning *string  `json:"value_reasoning"`
	Tags           []string `json:"tags"`

	SimilarGigsIndicator *string `json:"similar_gigs_indicator"`
}

// BudgetEstimate is the model's read of any money mentioned in a posting.
type BudgetEstimate struct {
	Mentioned            bool     `json:"mentioned"`
	MinAmount            *float64 `json:"min_amount"`
	MaxAmount            *float64 `json:"max_amount"`
	Currency             *string  `json:"currency"`     // USD|other
	PaymentType          *string  `json:"payment_type"` // cash|check|venmo|paypal|platform|negotiable
	Estimated            bool     `json:"estimated"`
	EstimationConfidence *string  `json:"estimation_confidence"` // high|medium|low
}

// LocationEstimate is the model's read of where the work happens.
type LocationEstimate struct {
	City               *string `json:"city"`
	Neighborhood       *string `json:"neighborhood"`
	ZipCode            *string `json:"zip_code"`
	State              *string `json:"state"`
	AddressProvided    bool    `json:"address_provided"`
	SpecificityScore   int     `json:"specificity_score"` // 0-100
	NormalizedLocation *string `json:"normalized_location"`
}

// LegitimacyAssessment is the model's trust rating for a lead.
type LegitimacyAssessment struct {
	Score           int      `json:"score"` // 0-100
	RedFlags        []string `json:"red_flags"`
	GreenFlags      []string `json:"green_flags"`
	ConfidenceLevel *string  `json:"confidence_level"` // high|medium|low
	Reasoning       *string  `json:"reasoning"`
	ScamProbability *string  `json:"scam_probability"` // very_low|low|medium|high|very_high
}

// ContactInfo is contact detail the model extracted from the posting.
type ContactInfo struct {
	Method            *string `json:"method"` // email|phone|platform_message|not_specified
	ExtractedEmail    *string `json:"extracted_email"`
	ExtractedPhone    *string `json:"extracted_phone"`
	PreferredContact  *string `json:"preferred_contact"`
	ContactVisibility *string `json:"contact_visibility"` // public|private|unclear
}
