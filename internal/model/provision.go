package model

// AuthorityTier ranks the legal force of a cited source.
type AuthorityTier string

const (
	TierLaw                    AuthorityTier = "law"
	TierJudicialInterpretation AuthorityTier = "judicial-interpretation"
	TierRegulation             AuthorityTier = "regulation"
	TierOther                  AuthorityTier = "other"
)

// Provision is a catalog entry relevant to a case type.
type Provision struct {
	Law     string        `json:"law"`
	Article string        `json:"article"`
	Title   string        `json:"title"`
	Tier    AuthorityTier `json:"tier"`
}

// LegalReference is a statute cited in the submitted text.
type LegalReference struct {
	Law       string        `json:"law"`
	Article   string        `json:"article,omitempty"`
	Tier      AuthorityTier `json:"tier"`
	Cited     bool          `json:"cited"`     // appears in the text
	Suggested bool          `json:"suggested"` // also in the case-type catalog
}

// Signal is one transparent input to the overall confidence.
type Signal struct {
	Category    Category               `json:"category"`
	Description string                 `json:"description"`
	Data        map[string]interface{} `json:"data,omitempty"`
}

// ConfidenceScore is the scorer's output.
type ConfidenceScore struct {
	Overall float64  `json:"overall"`
	Level   string   `json:"level"` // low, medium, high
	Signals []Signal `json:"signals"`
}
