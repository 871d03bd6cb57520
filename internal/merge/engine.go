package merge

import (
	"github.com/ppiankov/caselens/internal/extract"
	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/score"
	"github.com/ppiankov/caselens/internal/validate"
)

// Engine merges rule and AI elements. It does no I/O and holds no
// per-request state, so one Engine serves concurrent requests.
type Engine struct {
	normalizer *Normalizer
	scorer     *score.Scorer
}

// Option configures an Engine.
type Option func(*Engine)

// WithNormalizer replaces the default normalizer.
func WithNormalizer(n *Normalizer) Option {
	return func(e *Engine) { e.normalizer = n }
}

// WithScorer replaces the default scorer.
func WithScorer(s *score.Scorer) Option {
	return func(e *Engine) { e.scorer = s }
}

// NewEngine creates a merge engine.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		normalizer: NewNormalizer(nil),
		scorer:     score.NewScorer(nil),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Merge combines the two element sets. Malformed input is skipped and
// counted; matched pairs become merged elements; everything unmatched is
// kept. The result is a pure function of the inputs.
func (e *Engine) Merge(rule, ai []model.Element) model.MergedResult {
	validRule, skippedRule := validate.Elements(rule)
	validAI, skippedAI := validate.Elements(ai)

	result := model.MergedResult{
		Elements:  make(map[model.Category][]model.Element),
		Conflicts: []model.ConflictRecord{},
		Source:    model.SourceRule,
		Skipped:   skippedRule + skippedAI,
	}
	if len(validAI) > 0 {
		result.Source = model.SourceMerged
	}

	uniqueAI, dropped := dedupeAI(validAI)
	result.DroppedAI = dropped

	ruleByCat := e.group(validRule)
	aiByCat := e.group(uniqueAI)

	all := make(map[model.Category][]model.Element, len(ruleByCat)+len(aiByCat))
	for c, els := range ruleByCat {
		all[c] = append(all[c], els...)
	}
	for c, els := range aiByCat {
		all[c] = append(all[c], els...)
	}

	for _, c := range score.Categories(all) {
		merged, conflicts := mergeCategory(ruleByCat[c], aiByCat[c])
		result.Elements[c] = merged
		result.Conflicts = append(result.Conflicts, conflicts...)
	}

	result.OverallConfidence = e.scorer.Calculate(result.Elements, result.Conflicts).Overall
	return result
}

// Score exposes the scorer's breakdown for a merged result.
func (e *Engine) Score(r model.MergedResult) model.ConfidenceScore {
	return e.scorer.Calculate(r.Elements, r.Conflicts)
}

// group normalizes elements and buckets them by category, keeping order.
func (e *Engine) group(els []model.Element) map[model.Category][]model.Element {
	out := make(map[model.Category][]model.Element)
	for _, el := range els {
		out[el.Category] = append(out[el.Category], e.normalizer.Normalize(el))
	}
	return out
}

// mergeCategory pairs each AI element with the first unmatched rule
// element that describes the same fact. Output is rule order, then the
// unmatched AI elements in AI order.
func mergeCategory(rule, ai []model.Element) ([]model.Element, []model.ConflictRecord) {
	pair := make([]int, len(rule))
	for i := range pair {
		pair[i] = -1
	}
	aiMatched := make([]bool, len(ai))

	for j, a := range ai {
		for i, r := range rule {
			if pair[i] >= 0 || !Match(r, a) {
				continue
			}
			pair[i] = j
			aiMatched[j] = true
			break
		}
	}

	out := make([]model.Element, 0, len(rule)+len(ai))
	var conflicts []model.ConflictRecord

	for i, r := range rule {
		if pair[i] < 0 {
			out = append(out, r.Clone())
			continue
		}
		el, conflict := combine(r, ai[pair[i]])
		out = append(out, el)
		if conflict != nil {
			conflicts = append(conflicts, *conflict)
		}
	}
	for j, a := range ai {
		if !aiMatched[j] {
			out = append(out, a.Clone())
		}
	}
	return out, conflicts
}

// combine builds the merged element for a matched pair. The rule span is
// kept in both cases since AI elements have none.
func combine(r, a model.Element) (model.Element, *model.ConflictRecord) {
	attr := Disagreement(r, a)
	contributors := []model.Element{r.Clone(), a.Clone()}

	if attr == "" {
		out := r.Clone()
		out.Source = model.SourceMerged
		if a.Confidence > out.Confidence {
			out.Confidence = a.Confidence
		}
		if out.Description == "" {
			out.Description = a.Description
		}
		fillUnspecified(&out, a)
		out.Contributors = contributors
		return out, nil
	}

	var winner model.Element
	var resolution model.Resolution
	switch {
	case r.Confidence > a.Confidence:
		winner, resolution = r, model.ResolutionRuleHigher
	case a.Confidence > r.Confidence:
		winner, resolution = a, model.ResolutionAIHigher
	default:
		winner, resolution = r, model.ResolutionRuleTie
	}

	out := winner.Clone()
	out.Source = model.SourceMerged
	if r.Span != nil {
		s := *r.Span
		out.Span = &s
	}
	out.Contributors = contributors

	return out, &model.ConflictRecord{
		Key:        Key(r),
		Category:   r.Category,
		Attribute:  attr,
		RuleValue:  r.Clone(),
		AIValue:    a.Clone(),
		Resolution: resolution,
	}
}

// dedupeAI collapses AI elements describing the same fact, keeping the most
// confident one. dropped counts discarded duplicates whose attributes
// disagreed with the kept element.
func dedupeAI(els []model.Element) (unique []model.Element, dropped int) {
	index := make(map[string]int)
	for _, el := range els {
		key := string(el.Category) + "|" + extract.DedupKey(el)
		i, seen := index[key]
		if !seen {
			index[key] = len(unique)
			unique = append(unique, el)
			continue
		}
		if Disagreement(unique[i], el) != "" {
			dropped++
		}
		if el.Confidence > unique[i].Confidence {
			unique[i] = el
		}
	}
	return unique, dropped
}
