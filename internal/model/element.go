package model

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Category classifies an extracted element. The set is open: recognizers may
// introduce new categories, and the merge engine treats unknown ones
// generically.
type Category string

const (
	CategoryDate       Category = "date"
	CategoryParty      Category = "party"
	CategoryAmount     Category = "amount"
	CategoryClause     Category = "clause"
	CategoryFact       Category = "fact"
	CategoryCaseNumber Category = "caseNumber"
)

// CoreCategories lists the categories in merge and presentation order.
var CoreCategories = []Category{
	CategoryDate,
	CategoryParty,
	CategoryAmount,
	CategoryClause,
	CategoryFact,
	CategoryCaseNumber,
}

// Source records which strategy produced an element.
type Source string

const (
	SourceRule   Source = "rule"
	SourceAI     Source = "ai"
	SourceMerged Source = "merged"
)

// DateType is the procedural meaning of a date within the case.
type DateType string

const (
	DateFiling   DateType = "filing"
	DateHearing  DateType = "hearing"
	DateJudgment DateType = "judgment"
	DateOther    DateType = "other"
)

// PartyRole is the procedural position of a party.
type PartyRole string

const (
	RolePlaintiff  PartyRole = "plaintiff"
	RoleDefendant  PartyRole = "defendant"
	RoleThirdParty PartyRole = "third-party"
)

// Amount purposes recognized by the rule engine. AI output may carry others.
const (
	PurposePrincipal    = "principal"
	PurposeInterest     = "interest"
	PurposePenalty      = "penalty"
	PurposeCompensation = "compensation"
	PurposeWages        = "wages"
	PurposeSeverance    = "severance"
	PurposeCourtFee     = "court-fee"
	PurposeAttorneyFee  = "attorney-fee"
	PurposeRent         = "rent"
	PurposePrice        = "price"
	PurposeUnspecified  = "unspecified"
)

type DateValue struct {
	Date string   `json:"date"` // ISO YYYY-MM-DD
	Type DateType `json:"type"`
}

type PartyValue struct {
	Name string    `json:"name"`
	Role PartyRole `json:"role"`
}

type AmountValue struct {
	Value    decimal.Decimal `json:"value"`
	Currency string          `json:"currency"`
	Purpose  string          `json:"purpose"`
}

type ClauseValue struct {
	Law     string `json:"law"`
	Article string `json:"article,omitempty"` // as written, e.g. 第六百六十七条
	Number  int    `json:"number,omitempty"`  // article number, 0 when absent
	Text    string `json:"text"`
}

type FactValue struct {
	Text    string `json:"text"`
	Keyword string `json:"keyword,omitempty"`
}

type CaseNumberValue struct {
	Number string `json:"number"`
	Year   int    `json:"year"`
}

// Span is a [Start, End) range of rune offsets into the submitted text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// Element is one extracted fact. Exactly one payload pointer is set, and it
// must match Category; Validate enforces this.
type Element struct {
	Category    Category `json:"category"`
	Source      Source   `json:"source"`
	Confidence  float64  `json:"confidence"`
	Description string   `json:"description,omitempty"`
	Span        *Span    `json:"span,omitempty"`
	Recognizer  string   `json:"recognizer,omitempty"`

	Date       *DateValue       `json:"date,omitempty"`
	Party      *PartyValue      `json:"party,omitempty"`
	Amount     *AmountValue     `json:"amount,omitempty"`
	Clause     *ClauseValue     `json:"clause,omitempty"`
	Fact       *FactValue       `json:"fact,omitempty"`
	CaseNumber *CaseNumberValue `json:"caseNumber,omitempty"`

	// Contributors holds the rule and AI elements a merged element came from.
	Contributors []Element `json:"contributors,omitempty"`
}

// NewDate builds a date element.
func NewDate(src Source, v DateValue, confidence float64) Element {
	return Element{Category: CategoryDate, Source: src, Confidence: confidence, Date: &v}
}

// NewParty builds a party element.
func NewParty(src Source, v PartyValue, confidence float64) Element {
	return Element{Category: CategoryParty, Source: src, Confidence: confidence, Party: &v}
}

// NewAmount builds an amount element.
func NewAmount(src Source, v AmountValue, confidence float64) Element {
	return Element{Category: CategoryAmount, Source: src, Confidence: confidence, Amount: &v}
}

// NewClause builds a clause element.
func NewClause(src Source, v ClauseValue, confidence float64) Element {
	return Element{Category: CategoryClause, Source: src, Confidence: confidence, Clause: &v}
}

// NewFact builds a fact element.
func NewFact(src Source, v FactValue, confidence float64) Element {
	return Element{Category: CategoryFact, Source: src, Confidence: confidence, Fact: &v}
}

// NewCaseNumber builds a case number element.
func NewCaseNumber(src Source, v CaseNumberValue, confidence float64) Element {
	return Element{Category: CategoryCaseNumber, Source: src, Confidence: confidence, CaseNumber: &v}
}

// payloads counts the set payload pointers.
func (e Element) payloads() int {
	n := 0
	for _, set := range []bool{e.Date != nil, e.Party != nil, e.Amount != nil, e.Clause != nil, e.Fact != nil, e.CaseNumber != nil} {
		if set {
			n++
		}
	}
	return n
}

// HasPayload reports whether the payload matching Category is present and
// no other payload is set. Unknown categories carry their value in
// Description and must have no typed payload.
func (e Element) HasPayload() bool {
	var ok bool
	switch e.Category {
	case CategoryDate:
		ok = e.Date != nil
	case CategoryParty:
		ok = e.Party != nil
	case CategoryAmount:
		ok = e.Amount != nil
	case CategoryClause:
		ok = e.Clause != nil
	case CategoryFact:
		ok = e.Fact != nil
	case CategoryCaseNumber:
		ok = e.CaseNumber != nil
	default:
		return e.payloads() == 0 && e.Description != ""
	}
	return ok && e.payloads() == 1
}

// Value renders the payload as a short human-readable string.
func (e Element) Value() string {
	switch {
	case e.Date != nil:
		return fmt.Sprintf("%s (%s)", e.Date.Date, e.Date.Type)
	case e.Party != nil:
		return fmt.Sprintf("%s (%s)", e.Party.Name, e.Party.Role)
	case e.Amount != nil:
		return fmt.Sprintf("%s %s (%s)", e.Amount.Value.String(), e.Amount.Currency, e.Amount.Purpose)
	case e.Clause != nil:
		if e.Clause.Article != "" {
			return fmt.Sprintf("《%s》%s", e.Clause.Law, e.Clause.Article)
		}
		return fmt.Sprintf("《%s》", e.Clause.Law)
	case e.Fact != nil:
		return e.Fact.Text
	case e.CaseNumber != nil:
		return e.CaseNumber.Number
	default:
		return e.Description
	}
}

// Clone returns a deep copy so merged results never alias extractor output.
func (e Element) Clone() Element {
	out := e
	if e.Span != nil {
		s := *e.Span
		out.Span = &s
	}
	if e.Date != nil {
		v := *e.Date
		out.Date = &v
	}
	if e.Party != nil {
		v := *e.Party
		out.Party = &v
	}
	if e.Amount != nil {
		v := *e.Amount
		out.Amount = &v
	}
	if e.Clause != nil {
		v := *e.Clause
		out.Clause = &v
	}
	if e.Fact != nil {
		v := *e.Fact
		out.Fact = &v
	}
	if e.CaseNumber != nil {
		v := *e.CaseNumber
		out.CaseNumber = &v
	}
	if e.Contributors != nil {
		out.Contributors = make([]Element, len(e.Contributors))
		for i, c := range e.Contributors {
			out.Contributors[i] = c.Clone()
		}
	}
	return out
}

// ParseRole maps role spellings from either extractor onto PartyRole.
func ParseRole(s string) (PartyRole, bool) {
	switch s {
	case "plaintiff", "Plaintiff", "原告", "上诉人", "申请人", "appellant", "applicant", "claimant":
		return RolePlaintiff, true
	case "defendant", "Defendant", "被告", "被上诉人", "被申请人", "appellee", "respondent":
		return RoleDefendant, true
	case "third-party", "third_party", "thirdParty", "第三人":
		return RoleThirdParty, true
	}
	return "", false
}

// ParseDateType maps date type spellings onto DateType. Unknown input maps
// to DateOther.
func ParseDateType(s string) DateType {
	switch s {
	case "filing", "立案", "起诉":
		return DateFiling
	case "hearing", "开庭":
		return DateHearing
	case "judgment", "judgement", "判决", "宣判":
		return DateJudgment
	default:
		return DateOther
	}
}
