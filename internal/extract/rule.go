package extract

import (
	"sort"
	"strconv"
	"strings"

	"github.com/ppiankov/caselens/internal/extract/adapters"
	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/textnorm"
)

// Result is the output of one rule extraction pass.
type Result struct {
	Elements     []model.Element
	CaseType     string
	DocumentType string
	Adapter      string
}

// RuleExtractor applies the ordered recognizer table to raw text. It never
// fails: a recognizer that finds nothing contributes nothing.
type RuleExtractor struct {
	registry   *adapters.Registry
	tables     map[string][]recognizer
	classifier *CaseTypeClassifier
	facts      *FactExtractor
}

// Option configures a RuleExtractor.
type Option func(*RuleExtractor)

// WithCaseTypeRules replaces the case-type rule list. Order is priority.
func WithCaseTypeRules(rules []CaseTypeRule) Option {
	return func(e *RuleExtractor) { e.classifier = NewCaseTypeClassifier(rules) }
}

// WithFactBounds sets the accepted fact sentence length in runes.
func WithFactBounds(minRunes, maxRunes int) Option {
	return func(e *RuleExtractor) { e.facts = NewFactExtractor(minRunes, maxRunes) }
}

// WithRegistry replaces the document adapter registry.
func WithRegistry(r *adapters.Registry) Option {
	return func(e *RuleExtractor) { e.registry = r }
}

// NewRuleExtractor compiles one recognizer table per document adapter.
func NewRuleExtractor(opts ...Option) *RuleExtractor {
	e := &RuleExtractor{
		registry:   adapters.NewRegistry(),
		classifier: NewCaseTypeClassifier(nil),
		facts:      NewFactExtractor(0, 0),
	}
	for _, opt := range opts {
		opt(e)
	}

	e.tables = make(map[string][]recognizer)
	before, after := baseRecognizers()
	for _, a := range e.registry.All() {
		table := make([]recognizer, 0, len(before)+len(after)+2)
		table = append(table, before...)
		table = append(table, partyRecognizers(a.PartyMarkers())...)
		table = append(table, after...)
		e.tables[a.Name()] = table
	}
	return e
}

// Extract returns the deduplicated elements found in text.
func (e *RuleExtractor) Extract(text string) []model.Element {
	return e.Analyze(text).Elements
}

// Analyze runs every recognizer plus document-type and case-type
// classification.
func (e *RuleExtractor) Analyze(text string) Result {
	d := newDocument(text)
	adapter := e.registry.FindAdapter(d.text)
	table := e.tables[adapter.Name()]

	var found []model.Element
	for i := range table {
		r := &table[i]
		for _, m := range r.pattern.FindAllStringSubmatchIndex(d.text, -1) {
			for _, el := range r.build(d, m, r) {
				if el.Recognizer == "" {
					el.Recognizer = r.name
				}
				found = append(found, el)
			}
		}
	}
	found = append(found, e.facts.extract(d)...)

	elements := Dedupe(found)
	sortElements(elements)
	inferFilingDate(elements)

	caseType, _ := e.classifier.Classify(d.text)

	return Result{
		Elements:     elements,
		CaseType:     caseType,
		DocumentType: adapter.DocumentType(),
		Adapter:      adapter.Name(),
	}
}

// inferFilingDate types the first untyped date after the first plaintiff
// mention as the filing date, unless some date already names filing. The
// generic confidence is kept.
func inferFilingDate(els []model.Element) {
	plaintiffAt := -1
	for _, el := range els {
		switch {
		case el.Category == model.CategoryDate && el.Date.Type == model.DateFiling:
			return
		case el.Category == model.CategoryParty && el.Party.Role == model.RolePlaintiff && el.Span != nil:
			if plaintiffAt < 0 || el.Span.Start < plaintiffAt {
				plaintiffAt = el.Span.Start
			}
		}
	}
	if plaintiffAt < 0 {
		return
	}

	first := -1
	for i, el := range els {
		if el.Category != model.CategoryDate || el.Date.Type != model.DateOther || el.Span == nil || el.Span.Start < plaintiffAt {
			continue
		}
		if first < 0 || el.Span.Start < els[first].Span.Start {
			first = i
		}
	}
	if first < 0 {
		return
	}
	els[first].Date.Type = model.DateFiling
	els[first].Description = "日期(推定立案): " + strings.TrimPrefix(els[first].Description, "日期: ")
}

// ClassifyCaseType exposes the case-type step on its own.
func (e *RuleExtractor) ClassifyCaseType(text string) (string, bool) {
	return e.classifier.Classify(textnorm.Fold(text))
}

// DedupKey returns the normalized value two rule matches must share to be
// reported once.
func DedupKey(el model.Element) string {
	switch {
	case el.Date != nil:
		return el.Date.Date
	case el.Party != nil:
		return textnorm.Key(el.Party.Name)
	case el.Amount != nil:
		return el.Amount.Currency + ":" + el.Amount.Value.String()
	case el.Clause != nil:
		return textnorm.LawKey(el.Clause.Law) + "#" + strconv.Itoa(el.Clause.Number)
	case el.Fact != nil:
		return textnorm.Key(el.Fact.Text)
	case el.CaseNumber != nil:
		return textnorm.Key(el.CaseNumber.Number)
	default:
		return textnorm.Key(el.Description)
	}
}

// Dedupe keeps one element per category and key: the highest confidence,
// or the earliest on a tie.
func Dedupe(elements []model.Element) []model.Element {
	index := make(map[string]int)
	var unique []model.Element

	for _, el := range elements {
		key := string(el.Category) + "|" + DedupKey(el)
		if i, seen := index[key]; seen {
			if el.Confidence > unique[i].Confidence {
				unique[i] = el
			}
			continue
		}
		index[key] = len(unique)
		unique = append(unique, el)
	}
	return unique
}

func categoryRank(c model.Category) int {
	for i, core := range model.CoreCategories {
		if c == core {
			return i
		}
	}
	return len(model.CoreCategories)
}

func sortElements(elements []model.Element) {
	sort.SliceStable(elements, func(i, j int) bool {
		a, b := elements[i], elements[j]
		if ra, rb := categoryRank(a.Category), categoryRank(b.Category); ra != rb {
			return ra < rb
		}
		if a.Category != b.Category {
			return a.Category < b.Category
		}
		return spanStart(a) < spanStart(b)
	})
}

func spanStart(el model.Element) int {
	if el.Span == nil {
		return -1
	}
	return el.Span.Start
}
