package pipeline

import (
	"fmt"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/score"
)

// Assemble shapes an Outcome into the response body.
func (c *Controller) Assemble(out *Outcome, opts model.ExtractionOptions) *model.ExtractionResponse {
	merged := out.Merged

	data := model.ExtractionData{
		Dates:        merged.Get(model.CategoryDate),
		Parties:      merged.Get(model.CategoryParty),
		Amounts:      merged.Get(model.CategoryAmount),
		LegalClauses: merged.Get(model.CategoryClause),
		Facts:        merged.Get(model.CategoryFact),
		Source:       merged.Source,
		Confidence:   merged.OverallConfidence,
		CaseType:     out.Rule.CaseType,
		Conflicts:    merged.Conflicts,
	}
	if data.Conflicts == nil {
		data.Conflicts = []model.ConflictRecord{}
	}
	if numbers := merged.Get(model.CategoryCaseNumber); len(numbers) > 0 && numbers[0].CaseNumber != nil {
		data.CaseNumber = numbers[0].CaseNumber.Number
	}
	if opts.EnhanceWithProvisions {
		data.Provisions, data.LegalReferences = c.enhancer.Enhance(out.Rule.CaseType, data.LegalClauses)
	}

	return &model.ExtractionResponse{
		Success: true,
		Data:    data,
		Metadata: model.ExtractionMetadata{
			RequestID:        out.RequestID,
			ExtractionMethod: method(out),
			Confidence:       merged.OverallConfidence,
			ProcessingTime:   out.Elapsed.Milliseconds(),
			DocumentType:     out.Rule.DocumentType,
			AIProvider:       out.AIProvider,
		},
		Suggestions: suggestions(out, data, opts),
	}
}

func suggestions(out *Outcome, data model.ExtractionData, opts model.ExtractionOptions) []string {
	s := []string{}
	if data.CaseType != "" {
		s = append(s, fmt.Sprintf("case type detected: %s", data.CaseType))
	} else {
		s = append(s, "case type not detected; classify the case manually")
	}
	if out.AIFailure != nil {
		s = append(s, fmt.Sprintf("AI extraction unavailable (%s); results are rule-based only", out.AIFailure.Kind))
	}
	if n := len(data.Conflicts); n > 0 {
		s = append(s, fmt.Sprintf("%d field(s) where AI disagreed with the rule engine; review the conflicts", n))
	}
	if len(data.Dates) == 0 {
		s = append(s, "no dates recognized; check the filing and judgment dates")
	}
	if len(data.Parties) == 0 {
		s = append(s, "no parties recognized; check the party section of the document")
	}
	if opts.EnhanceWithProvisions && len(data.Provisions) > 0 {
		s = append(s, fmt.Sprintf("%d relevant provision(s) suggested", len(data.Provisions)))
	}
	if score.Level(data.Confidence) == "low" {
		s = append(s, "overall confidence is low; manual review recommended")
	}
	return s
}
