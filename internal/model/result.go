package model

// Resolution names the rule that decided a conflict.
type Resolution string

const (
	ResolutionRuleHigher Resolution = "rule-confidence-higher"
	ResolutionAIHigher   Resolution = "ai-confidence-higher"
	ResolutionRuleTie    Resolution = "rule-wins-tie"
)

// ConflictRecord keeps both candidates whenever the two strategies disagree
// about the same real-world fact, including conflicts the rule side won.
type ConflictRecord struct {
	Key        string     `json:"key"`
	Category   Category   `json:"category"`
	Attribute  string     `json:"attribute"`
	RuleValue  Element    `json:"ruleValue"`
	AIValue    Element    `json:"aiValue"`
	Resolution Resolution `json:"resolution"`
}

// Winner returns the source whose value was kept.
func (c ConflictRecord) Winner() Source {
	if c.Resolution == ResolutionAIHigher {
		return SourceAI
	}
	return SourceRule
}

// MergedResult is the output of the merge engine.
type MergedResult struct {
	Elements          map[Category][]Element `json:"elements"`
	Conflicts         []ConflictRecord       `json:"conflicts"`
	OverallConfidence float64                `json:"overallConfidence"`
	Source            Source                 `json:"source"`
	Skipped           int                    `json:"skipped,omitempty"`
	// DroppedAI counts AI duplicates discarded in favor of a more confident
	// duplicate that disagreed with them.
	DroppedAI int `json:"droppedAI,omitempty"`
}

// Get returns the elements for a category, never nil.
func (r MergedResult) Get(c Category) []Element {
	if els := r.Elements[c]; els != nil {
		return els
	}
	return []Element{}
}

// Count returns the number of elements across all categories.
func (r MergedResult) Count() int {
	n := 0
	for _, els := range r.Elements {
		n += len(els)
	}
	return n
}

// ExtractionOptions are the per-request switches.
type ExtractionOptions struct {
	EnableAI              *bool `json:"enableAI,omitempty"`
	EnhanceWithProvisions bool  `json:"enhanceWithProvisions,omitempty"`
}

// AIEnabled applies the default of true when EnableAI is omitted.
func (o ExtractionOptions) AIEnabled() bool {
	return o.EnableAI == nil || *o.EnableAI
}

// Bool returns a pointer to b, for building ExtractionOptions literals.
func Bool(b bool) *bool { return &b }

// ExtractionRequest is the inbound request body.
type ExtractionRequest struct {
	Text    string            `json:"text"`
	Options ExtractionOptions `json:"options"`
}

// Extraction methods reported in metadata.
const (
	MethodRuleBased = "rule-based"
	MethodHybrid    = "hybrid"
)

// ExtractionData is the "data" object of a successful response.
type ExtractionData struct {
	Dates           []Element        `json:"dates"`
	Parties         []Element        `json:"parties"`
	Amounts         []Element        `json:"amounts"`
	LegalClauses    []Element        `json:"legalClauses"`
	Facts           []Element        `json:"facts"`
	Source          Source           `json:"source"`
	Confidence      float64          `json:"confidence"`
	CaseType        string           `json:"caseType,omitempty"`
	CaseNumber      string           `json:"caseNumber,omitempty"`
	Conflicts       []ConflictRecord `json:"conflicts"`
	Provisions      []Provision      `json:"provisions,omitempty"`
	LegalReferences []LegalReference `json:"legalReferences,omitempty"`
}

// ExtractionMetadata describes how a response was produced.
type ExtractionMetadata struct {
	RequestID        string  `json:"requestId,omitempty"`
	ExtractionMethod string  `json:"extractionMethod"`
	Confidence       float64 `json:"confidence"`
	ProcessingTime   int64   `json:"processingTime"` // milliseconds
	DocumentType     string  `json:"documentType"`
	AIProvider       string  `json:"aiProvider,omitempty"`
}

// ExtractionResponse is the body of a successful extraction.
type ExtractionResponse struct {
	Success     bool               `json:"success"`
	Data        ExtractionData     `json:"data"`
	Metadata    ExtractionMetadata `json:"metadata"`
	Suggestions []string           `json:"suggestions"`
}

// ErrorResponse is the body of a rejected request.
type ErrorResponse struct {
	Error string `json:"error"`
}
