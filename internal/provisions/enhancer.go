package provisions

import (
	"strconv"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/textnorm"
	"github.com/ppiankov/caselens/internal/validate"
)

// Enhancer looks up the provisions of a case type and grades cited
// statutes. It is read-only after construction.
type Enhancer struct {
	catalog    map[string][]model.Provision
	common     []model.Provision
	classifier *validate.AuthorityClassifier
}

// NewEnhancer builds the default catalog, tagging every entry with the
// classifier's authority tier. A nil classifier uses the default rules.
func NewEnhancer(classifier *validate.AuthorityClassifier) *Enhancer {
	if classifier == nil {
		classifier = validate.NewAuthorityClassifier(nil)
	}
	e := &Enhancer{
		catalog:    make(map[string][]model.Provision, len(defaultCatalog)),
		classifier: classifier,
	}
	for caseType, entries := range defaultCatalog {
		e.catalog[caseType] = e.build(entries)
	}
	e.common = e.build(common)
	return e
}

func (e *Enhancer) build(entries []entry) []model.Provision {
	out := make([]model.Provision, 0, len(entries))
	for _, en := range entries {
		out = append(out, model.Provision{
			Law:     en.law,
			Article: en.article,
			Title:   en.title,
			Tier:    e.classifier.Classify(en.law),
		})
	}
	return out
}

// Provisions returns the catalog entries for caseType followed by the
// provisions common to all civil cases. Unknown case types get only the
// common ones.
func (e *Enhancer) Provisions(caseType string) []model.Provision {
	specific := e.catalog[caseType]
	out := make([]model.Provision, 0, len(specific)+len(e.common))
	out = append(out, specific...)
	return append(out, e.common...)
}

func provisionKey(law string, number int) string {
	return textnorm.LawKey(law) + "#" + strconv.Itoa(number)
}

// References lists every statute cited by the clause elements, once each
// and in input order. A reference is Suggested when the case-type catalog
// lists the same article, or the same law for a citation without one.
func (e *Enhancer) References(caseType string, clauses []model.Element) []model.LegalReference {
	suggested := make(map[string]bool)
	laws := make(map[string]bool)
	for _, p := range e.Provisions(caseType) {
		suggested[provisionKey(p.Law, textnorm.ArticleNumber(p.Article))] = true
		laws[textnorm.LawKey(p.Law)] = true
	}

	seen := make(map[string]bool)
	var out []model.LegalReference
	for _, el := range clauses {
		if el.Clause == nil {
			continue
		}
		c := el.Clause
		key := provisionKey(c.Law, c.Number)
		if seen[key] {
			continue
		}
		seen[key] = true

		isSuggested := suggested[key]
		if c.Number == 0 {
			isSuggested = laws[textnorm.LawKey(c.Law)]
		}
		out = append(out, model.LegalReference{
			Law:       c.Law,
			Article:   c.Article,
			Tier:      e.classifier.Classify(c.Law),
			Cited:     true,
			Suggested: isSuggested,
		})
	}
	return out
}

// Enhance returns both the provisions for caseType and the graded
// references for clauses.
func (e *Enhancer) Enhance(caseType string, clauses []model.Element) ([]model.Provision, []model.LegalReference) {
	return e.Provisions(caseType), e.References(caseType, clauses)
}
