package merge

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ppiankov/caselens/internal/extract"
	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/textnorm"
)

const (
	// amountTolerance is the relative difference under which two amounts
	// are the same figure.
	amountTolerance = "0.005"

	// textOverlap is the bigram Jaccard similarity at which two free texts
	// describe the same thing.
	textOverlap = 0.6
)

var amountTol = decimal.RequireFromString(amountTolerance)

// Key identifies the real-world fact an element describes. Conflict
// records carry the key of the rule side.
func Key(e model.Element) string {
	return string(e.Category) + ":" + extract.DedupKey(e)
}

// Match reports whether a rule element and an AI element of the same
// category describe the same fact.
func Match(rule, ai model.Element) bool {
	if rule.Category != ai.Category {
		return false
	}
	switch rule.Category {
	case model.CategoryDate:
		return rule.Date.Date == ai.Date.Date
	case model.CategoryParty:
		return textnorm.Key(rule.Party.Name) == textnorm.Key(ai.Party.Name)
	case model.CategoryAmount:
		return amountsMatch(rule.Amount, ai.Amount)
	case model.CategoryClause:
		return clausesMatch(rule.Clause, ai.Clause)
	case model.CategoryFact:
		return textsMatch(rule.Fact.Text, ai.Fact.Text)
	case model.CategoryCaseNumber:
		return textnorm.Key(rule.CaseNumber.Number) == textnorm.Key(ai.CaseNumber.Number)
	default:
		return textsMatch(rule.Description, ai.Description)
	}
}

func amountsMatch(a, b *model.AmountValue) bool {
	if a.Currency != b.Currency {
		return false
	}
	larger := decimal.Max(a.Value.Abs(), b.Value.Abs())
	if larger.IsZero() {
		return true
	}
	return a.Value.Sub(b.Value).Abs().LessThanOrEqual(larger.Mul(amountTol))
}

func clausesMatch(a, b *model.ClauseValue) bool {
	if a.Number > 0 && b.Number > 0 && a.Number != b.Number {
		return false
	}
	return textsMatch(textnorm.LawKey(a.Law), textnorm.LawKey(b.Law))
}

// textsMatch accepts containment either way or a high bigram overlap.
func textsMatch(a, b string) bool {
	ka, kb := textnorm.Key(a), textnorm.Key(b)
	if ka == "" || kb == "" {
		return false
	}
	if strings.Contains(ka, kb) || strings.Contains(kb, ka) {
		return true
	}
	return textnorm.Overlap(ka, kb) >= textOverlap
}

// Disagreement names the attribute on which two matched elements differ,
// or "" when they agree. Unspecified values never disagree.
func Disagreement(rule, ai model.Element) string {
	switch rule.Category {
	case model.CategoryDate:
		if dateTypeSpecified(rule.Date.Type) && dateTypeSpecified(ai.Date.Type) && rule.Date.Type != ai.Date.Type {
			return "type"
		}
	case model.CategoryParty:
		if rule.Party.Role != ai.Party.Role && rule.Party.Role != "" && ai.Party.Role != "" {
			return "role"
		}
	case model.CategoryAmount:
		if specified(rule.Amount.Purpose) && specified(ai.Amount.Purpose) && rule.Amount.Purpose != ai.Amount.Purpose {
			return "purpose"
		}
	}
	return ""
}

func specified(purpose string) bool {
	return purpose != "" && purpose != model.PurposeUnspecified
}

// dateTypeSpecified treats "other" as no answer: it is what an omitted or
// unrecognized type parses to.
func dateTypeSpecified(t model.DateType) bool {
	return t != "" && t != model.DateOther
}

// fillUnspecified copies into merged the attributes that the rule side
// left open and the AI side specified. merged must own its payload.
func fillUnspecified(merged *model.Element, ai model.Element) {
	switch merged.Category {
	case model.CategoryDate:
		if !dateTypeSpecified(merged.Date.Type) && dateTypeSpecified(ai.Date.Type) {
			merged.Date.Type = ai.Date.Type
		}
	case model.CategoryParty:
		if merged.Party.Role == "" && ai.Party.Role != "" {
			merged.Party.Role = ai.Party.Role
		}
	case model.CategoryAmount:
		if !specified(merged.Amount.Purpose) && specified(ai.Amount.Purpose) {
			merged.Amount.Purpose = ai.Amount.Purpose
		}
	}
}
