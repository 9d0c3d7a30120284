package types

// Tone values for DraftedResponse.RecommendedTone
const (
	ToneFormal = "formal"
	ToneCasual = "casual"
)

// DraftedResponse holds the two reply drafts the model writes for a posting,
// plus which of the two it judged more appropriate. Exactly one of the texts
// is the recommended one.
type DraftedResponse struct {
	Formal          string `json:"formal"`
	Casual          string `json:"casual"`
	RecommendedTone string `json:"recommended_tone"` // formal|casual
}

// Recommended returns the draft text matching the recommended tone.
func (d *DraftedResponse) Recommended() string {
	if d.RecommendedTone == ToneCasual {
		return d.Casual
	}
	return d.Formal
}
