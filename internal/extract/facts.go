package extract

import (
	"strings"

	"github.com/ppiankov/caselens/internal/model"
)

// factKeyword marks sentences that state findings of fact. Each sentence
// matches at most once, on the first keyword in table order.
type factKeyword struct {
	word       string
	confidence float64
}

var defaultFactKeywords = []factKeyword{
	{"经审理查明", 0.70},
	{"本院认定", 0.70},
	{"查明", 0.65},
	{"本院认为", 0.60},
	{"双方约定", 0.60},
	{"约定", 0.55},
	{"逾期", 0.55},
	{"至今未", 0.55},
	{"签订", 0.55},
	{"出具", 0.50},
	{"支付", 0.50},
	{"交付", 0.50},
}

// FactExtractor pulls fact sentences out of a document by keyword.
type FactExtractor struct {
	keywords []factKeyword
	minRunes int
	maxRunes int
}

// NewFactExtractor creates a fact extractor that keeps sentences between
// minRunes and maxRunes long.
func NewFactExtractor(minRunes, maxRunes int) *FactExtractor {
	if minRunes <= 0 {
		minRunes = 10
	}
	if maxRunes < minRunes {
		maxRunes = 300
	}
	return &FactExtractor{
		keywords: defaultFactKeywords,
		minRunes: minRunes,
		maxRunes: maxRunes,
	}
}

func (e *FactExtractor) extract(d *document) []model.Element {
	var facts []model.Element
	for _, s := range d.splitSentences(e.minRunes, e.maxRunes) {
		for _, kw := range e.keywords {
			if !strings.Contains(s.text, kw.word) {
				continue
			}
			sp := s.span
			text := strings.TrimSpace(d.original(&sp))
			el := model.NewFact(model.SourceRule, model.FactValue{Text: text, Keyword: kw.word}, kw.confidence)
			el.Span = &sp
			el.Recognizer = "fact-keyword"
			el.Description = "keyword:" + kw.word
			facts = append(facts, el)
			break
		}
	}
	return facts
}
