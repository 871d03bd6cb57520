// Package score computes the overall confidence of an extraction result.
package score

import (
	"fmt"
	"math"
	"sort"

	"github.com/ppiankov/caselens/internal/model"
)

// DefaultWeights weight each category in the overall confidence. Dates and
// parties anchor a judgment; free-text facts are the least reliable.
var DefaultWeights = map[model.Category]float64{
	model.CategoryDate:       1.5,
	model.CategoryParty:      1.5,
	model.CategoryAmount:     1.2,
	model.CategoryCaseNumber: 1.0,
	model.CategoryClause:     1.0,
	model.CategoryFact:       0.6,
}

// extensionWeight applies to categories missing from the weight table.
const extensionWeight = 1.0

// Round4 rounds to four decimal places so that equal confidences compare
// equal after arithmetic.
func Round4(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

// Scorer calculates the overall confidence and generates signals
type Scorer struct {
	weights map[model.Category]float64
}

// NewScorer creates a scorer. A nil weights map uses DefaultWeights.
func NewScorer(weights map[model.Category]float64) *Scorer {
	if weights == nil {
		weights = DefaultWeights
	}
	return &Scorer{weights: weights}
}

func (s *Scorer) weight(c model.Category) float64 {
	if w, ok := s.weights[c]; ok {
		return w
	}
	return extensionWeight
}

// Categories returns the categories of elements in presentation order:
// the core categories first, then extensions sorted by name.
func Categories(elements map[model.Category][]model.Element) []model.Category {
	out := make([]model.Category, 0, len(elements))
	core := make(map[model.Category]bool, len(model.CoreCategories))
	for _, c := range model.CoreCategories {
		core[c] = true
		if len(elements[c]) > 0 {
			out = append(out, c)
		}
	}
	var ext []model.Category
	for c, els := range elements {
		if !core[c] && len(els) > 0 {
			ext = append(ext, c)
		}
	}
	sort.Slice(ext, func(i, j int) bool { return ext[i] < ext[j] })
	return append(out, ext...)
}

// Calculate returns the category-weighted mean of element confidences
// along with one signal per category and one for conflicts.
func (s *Scorer) Calculate(elements map[model.Category][]model.Element, conflicts []model.ConflictRecord) model.ConfidenceScore {
	var signals []model.Signal
	var weightedSum, weightTotal float64
	count := 0

	for _, c := range Categories(elements) {
		els := elements[c]
		w := s.weight(c)

		var sum float64
		for _, e := range els {
			sum += e.Confidence
		}
		mean := sum / float64(len(els))
		weightedSum += w * sum
		weightTotal += w * float64(len(els))
		count += len(els)

		signals = append(signals, model.Signal{
			Category:    c,
			Description: fmt.Sprintf("%d %s element(s), mean confidence %.2f", len(els), c, mean),
			Data: map[string]interface{}{
				"count":  len(els),
				"mean":   Round4(mean),
				"weight": w,
			},
		})
	}

	if count == 0 {
		return model.ConfidenceScore{
			Overall: 0,
			Level:   "low",
			Signals: []model.Signal{{
				Description: "No elements extracted",
				Data:        map[string]interface{}{"count": 0},
			}},
		}
	}

	overall := Round4(weightedSum / weightTotal)

	if len(conflicts) > 0 {
		ruleWins := 0
		for _, c := range conflicts {
			if c.Winner() == model.SourceRule {
				ruleWins++
			}
		}
		signals = append(signals, model.Signal{
			Description: fmt.Sprintf("%d conflict(s) between rule and AI extraction, %d resolved for rule", len(conflicts), ruleWins),
			Data: map[string]interface{}{
				"conflicts": len(conflicts),
				"rule_wins": ruleWins,
				"ai_wins":   len(conflicts) - ruleWins,
			},
		})
	}

	signals = append(signals, model.Signal{
		Description: fmt.Sprintf("Overall confidence %.4f over %d element(s)", overall, count),
		Data: map[string]interface{}{
			"elements": count,
			"overall":  overall,
			"formula":  "sum(weight[category] * confidence) / sum(weight[category])",
		},
	})

	return model.ConfidenceScore{
		Overall: overall,
		Level:   Level(overall),
		Signals: signals,
	}
}

// Level buckets a confidence into low, medium or high.
func Level(overall float64) string {
	switch {
	case overall >= 0.8:
		return "high"
	case overall >= 0.6:
		return "medium"
	default:
		return "low"
	}
}
