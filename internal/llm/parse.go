package llm

import (
	"encoding/json"
	"errors"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/textnorm"
)

// DefaultAIConfidence is used when the model omits confidence or reports a
// value outside (0,1].
const DefaultAIConfidence = 0.7

// Payload is the JSON object the model is asked to return.
type Payload struct {
	Dates        []DateItem   `json:"dates"`
	Parties      []PartyItem  `json:"parties"`
	Amounts      []AmountItem `json:"amounts"`
	LegalClauses []ClauseItem `json:"legalClauses"`
	Facts        []FactItem   `json:"facts"`
}

type DateItem struct {
	Date        string `json:"date"`
	Type        string `json:"type"`
	Description string `json:"description"`
	Confidence  Score  `json:"confidence"`
}

type PartyItem struct {
	Name        string `json:"name"`
	Role        string `json:"role"`
	Description string `json:"description"`
	Confidence  Score  `json:"confidence"`
}

type AmountItem struct {
	Value       json.RawMessage `json:"value"`
	Currency    string          `json:"currency"`
	Purpose     string          `json:"purpose"`
	Description string          `json:"description"`
	Confidence  Score           `json:"confidence"`
}

type ClauseItem struct {
	Law         string `json:"law"`
	Article     string `json:"article"`
	Text        string `json:"text"`
	Description string `json:"description"`
	Confidence  Score  `json:"confidence"`
}

type FactItem struct {
	Text        string `json:"text"`
	Description string `json:"description"`
	Confidence  Score  `json:"confidence"`
}

// Score is a self-reported confidence. Models emit it as a number, a
// numeric string, or not at all.
type Score struct {
	Value float64
	Set   bool
}

func (s *Score) UnmarshalJSON(b []byte) error {
	raw := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if raw == "" || raw == "null" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.TrimSuffix(raw, "%"), 64)
	if err != nil {
		// An unreadable score falls back to the default rather than
		// failing the whole payload.
		return nil
	}
	if strings.HasSuffix(raw, "%") {
		v /= 100
	}
	s.Value, s.Set = v, true
	return nil
}

// Or returns the reported score when it lies in (0,1], else def.
func (s Score) Or(def float64) float64 {
	if !s.Set || math.IsNaN(s.Value) || s.Value <= 0 || s.Value > 1 {
		return def
	}
	return s.Value
}

var errNoJSONObject = errors.New("no JSON object in response")

// UnwrapJSON strips a markdown code fence and any prose around the outermost
// JSON object.
func UnwrapJSON(raw string) (string, error) {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if nl := strings.IndexByte(s, '\n'); nl >= 0 {
			s = s[nl+1:]
		} else {
			s = strings.TrimPrefix(strings.TrimPrefix(s, "json"), "JSON")
		}
		if end := strings.LastIndex(s, "```"); end >= 0 {
			s = s[:end]
		}
	}
	start := strings.IndexByte(s, '{')
	end := strings.LastIndexByte(s, '}')
	if start < 0 || end < start {
		return "", errNoJSONObject
	}
	return s[start : end+1], nil
}

// ParseResponse decodes a completion into a Payload. Missing arrays decode
// as empty; anything that is not a JSON object is a parse Failure.
func ParseResponse(raw string) (*Payload, error) {
	body, err := UnwrapJSON(raw)
	if err != nil {
		return nil, &Failure{Kind: KindParse, Err: err}
	}
	var p Payload
	if err := json.Unmarshal([]byte(body), &p); err != nil {
		return nil, &Failure{Kind: KindParse, Err: err}
	}
	return &p, nil
}

// Elements maps the payload onto AI-sourced elements with the model's raw
// confidence. Items without their key field are dropped.
func (p *Payload) Elements() []model.Element {
	var out []model.Element

	for _, it := range p.Dates {
		iso, ok := textnorm.ParseDate(it.Date)
		if !ok {
			continue
		}
		el := model.NewDate(model.SourceAI, model.DateValue{
			Date: iso,
			Type: model.ParseDateType(strings.TrimSpace(it.Type)),
		}, it.Confidence.Or(DefaultAIConfidence))
		out = append(out, annotate(el, it.Description))
	}

	for _, it := range p.Parties {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			continue
		}
		role, _ := model.ParseRole(strings.TrimSpace(it.Role))
		el := model.NewParty(model.SourceAI, model.PartyValue{
			Name: name,
			Role: role,
		}, it.Confidence.Or(DefaultAIConfidence))
		out = append(out, annotate(el, it.Description))
	}

	for _, it := range p.Amounts {
		value, ok := parseAmountValue(it.Value)
		if !ok {
			continue
		}
		el := model.NewAmount(model.SourceAI, model.AmountValue{
			Value:    value,
			Currency: textnorm.Currency(it.Currency),
			Purpose:  normalizePurpose(it.Purpose),
		}, it.Confidence.Or(DefaultAIConfidence))
		out = append(out, annotate(el, it.Description))
	}

	for _, it := range p.LegalClauses {
		law := strings.Trim(strings.TrimSpace(it.Law), "《》")
		if law == "" {
			continue
		}
		article := strings.TrimSpace(it.Article)
		number := textnorm.ArticleNumber(article)
		if number > 0 && !strings.HasPrefix(article, "第") {
			article = "第" + article + "条"
		}
		text := strings.TrimSpace(it.Text)
		if text == "" {
			text = "《" + law + "》" + article
		}
		el := model.NewClause(model.SourceAI, model.ClauseValue{
			Law:     law,
			Article: article,
			Number:  number,
			Text:    text,
		}, it.Confidence.Or(DefaultAIConfidence))
		out = append(out, annotate(el, it.Description))
	}

	for _, it := range p.Facts {
		text := strings.TrimSpace(it.Text)
		if text == "" {
			continue
		}
		el := model.NewFact(model.SourceAI, model.FactValue{Text: text}, it.Confidence.Or(DefaultAIConfidence))
		out = append(out, annotate(el, it.Description))
	}

	return out
}

func annotate(el model.Element, description string) model.Element {
	el.Description = strings.TrimSpace(description)
	el.Recognizer = "ai"
	return el
}

var reAmountText = regexp.MustCompile(`([0-9][0-9,]*(?:\.[0-9]+)?)\s*(千|万|亿)?`)

// parseAmountValue accepts a JSON number or a string such as "100万元".
func parseAmountValue(raw json.RawMessage) (decimal.Decimal, bool) {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return decimal.Zero, false
	}
	if unq, err := strconv.Unquote(s); err == nil {
		s = unq
	}
	s = strings.TrimSpace(textnorm.Fold(s))
	if strings.HasPrefix(s, "-") {
		return decimal.Zero, false
	}
	m := reAmountText.FindStringSubmatch(s)
	if m == nil {
		return decimal.Zero, false
	}
	d, err := textnorm.Amount(m[1], m[2])
	if err != nil || !d.IsPositive() {
		return decimal.Zero, false
	}
	return d, true
}

var purposeAliases = map[string]string{
	"本金": model.PurposePrincipal, "借款": model.PurposePrincipal,
	"利息": model.PurposeInterest,
	"违约金": model.PurposePenalty,
	"赔偿": model.PurposeCompensation, "赔偿金": model.PurposeCompensation, "损失": model.PurposeCompensation,
	"工资": model.PurposeWages,
	"经济补偿": model.PurposeSeverance, "经济补偿金": model.PurposeSeverance, "补偿金": model.PurposeSeverance,
	"受理费": model.PurposeCourtFee, "案件受理费": model.PurposeCourtFee, "诉讼费": model.PurposeCourtFee,
	"律师费": model.PurposeAttorneyFee,
	"租金": model.PurposeRent,
	"货款": model.PurposePrice, "价款": model.PurposePrice,
	"courtfee": model.PurposeCourtFee, "court_fee": model.PurposeCourtFee,
	"attorneyfee": model.PurposeAttorneyFee, "attorney_fee": model.PurposeAttorneyFee,
}

func normalizePurpose(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	switch s {
	case "":
		return model.PurposeUnspecified
	case model.PurposePrincipal, model.PurposeInterest, model.PurposePenalty, model.PurposeCompensation,
		model.PurposeWages, model.PurposeSeverance, model.PurposeCourtFee, model.PurposeAttorneyFee,
		model.PurposeRent, model.PurposePrice, model.PurposeUnspecified:
		return s
	}
	if p, ok := purposeAliases[s]; ok {
		return p
	}
	return s
}
