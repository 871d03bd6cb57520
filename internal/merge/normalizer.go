// Package merge reconciles rule and AI extraction output into one result.
package merge

import (
	"math"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/score"
)

// DefaultCeilings cap what an AI self-report can be worth per category.
// A model claiming 1.0 on a date scores 0.90 after normalization.
var DefaultCeilings = map[model.Category]float64{
	model.CategoryDate:       0.90,
	model.CategoryParty:      0.85,
	model.CategoryAmount:     0.90,
	model.CategoryClause:     0.85,
	model.CategoryFact:       0.80,
	model.CategoryCaseNumber: 0.90,
}

// defaultCeiling applies to categories missing from the table.
const defaultCeiling = 0.80

// Normalizer maps each source's raw confidence onto the common 0..1 scale.
// Rule confidences are calibrated baselines and pass through unchanged.
type Normalizer struct {
	ceilings map[model.Category]float64
}

// NewNormalizer creates a normalizer. A nil map uses DefaultCeilings.
func NewNormalizer(ceilings map[model.Category]float64) *Normalizer {
	if ceilings == nil {
		ceilings = DefaultCeilings
	}
	return &Normalizer{ceilings: ceilings}
}

// Ceiling returns the AI ceiling for a category.
func (n *Normalizer) Ceiling(c model.Category) float64 {
	if v, ok := n.ceilings[c]; ok {
		return v
	}
	return defaultCeiling
}

// Normalize returns a copy of e with its confidence rescaled, clamped to
// [0,1] and rounded to four decimals.
func (n *Normalizer) Normalize(e model.Element) model.Element {
	out := e.Clone()
	conf := e.Confidence
	if e.Source == model.SourceAI {
		conf *= n.Ceiling(e.Category)
	}
	out.Confidence = clamp(score.Round4(conf))
	return out
}

func clamp(x float64) float64 {
	return math.Max(0, math.Min(1, x))
}
