package merge

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/ppiankov/caselens/internal/model"
)

func TestMatch(t *testing.T) {
	money := func(v string, cur string) model.Element {
		return model.NewAmount(model.SourceRule, model.AmountValue{Value: decimal.RequireFromString(v), Currency: cur}, 0.8)
	}

	tests := []struct {
		name string
		a, b model.Element
		want bool
	}{
		{"same date", ruleDate("2024-03-15", model.DateFiling, 0.8), aiDate("2024-03-15", model.DateHearing, 0.8), true},
		{"different date", ruleDate("2024-03-15", model.DateFiling, 0.8), aiDate("2024-03-16", model.DateFiling, 0.8), false},
		{"party folded", ruleParty("ABC公司", "", 0.8), aiParty("ａｂｃ公司", "", 0.8), true},
		{"party different", ruleParty("张三", "", 0.8), aiParty("张四", "", 0.8), false},
		{"amount within tolerance", money("1000000", "CNY"), money("1004000", "CNY"), true},
		{"amount outside tolerance", money("1000000", "CNY"), money("1010000", "CNY"), false},
		{"amount currency differs", money("1000", "CNY"), money("1000", "USD"), false},
		{"clause prefix dropped", clause(model.SourceRule, "中华人民共和国民法典", 667, 0.9), clause(model.SourceAI, "《民法典》", 667, 0.9), true},
		{"clause article differs", clause(model.SourceRule, "民法典", 667, 0.9), clause(model.SourceAI, "民法典", 675, 0.9), false},
		{"fact containment", fact(model.SourceRule, "被告未按期归还借款", 0.6), fact(model.SourceAI, "经查，被告未按期归还借款本息", 0.6), true},
		{"fact contained", fact(model.SourceRule, "被告未按期归还借款", 0.6), fact(model.SourceAI, "被告未按期归还借款。", 0.6), true},
		{"fact overlap", fact(model.SourceRule, "原告多次向被告催讨欠款", 0.6), fact(model.SourceAI, "原告多次向被告催讨欠款未果", 0.6), true},
		{"fact unrelated", fact(model.SourceRule, "双方签订租赁合同", 0.6), fact(model.SourceAI, "被告驾车发生交通事故", 0.6), false},
		{"category differs", ruleParty("张三", "", 0.8), fact(model.SourceAI, "张三", 0.6), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Match(tt.a, tt.b))
		})
	}
}

func TestDisagreement(t *testing.T) {
	assert.Equal(t, "type", Disagreement(ruleDate("2024-03-15", model.DateFiling, 0.8), aiDate("2024-03-15", model.DateHearing, 0.8)))
	assert.Equal(t, "", Disagreement(ruleDate("2024-03-15", model.DateFiling, 0.8), aiDate("2024-03-15", model.DateFiling, 0.8)))
	assert.Equal(t, "", Disagreement(ruleDate("2024-03-15", model.DateFiling, 0.8), aiDate("2024-03-15", model.DateOther, 0.8)), "other is no answer")
	assert.Equal(t, "", Disagreement(ruleDate("2024-03-15", model.DateOther, 0.8), aiDate("2024-03-15", model.DateHearing, 0.8)))
	assert.Equal(t, "role", Disagreement(ruleParty("张三", model.RolePlaintiff, 0.8), aiParty("张三", model.RoleDefendant, 0.8)))
	assert.Equal(t, "", Disagreement(ruleParty("张三", model.RolePlaintiff, 0.8), aiParty("张三", "", 0.8)), "unknown AI role is not a disagreement")
	assert.Equal(t, "", Disagreement(clause(model.SourceRule, "民法典", 667, 0.9), clause(model.SourceAI, "民法典", 667, 0.5)))
}

func TestNormalizer(t *testing.T) {
	n := NewNormalizer(nil)

	assert.Equal(t, 0.9, n.Normalize(aiDate("2024-03-15", model.DateFiling, 1.0)).Confidence)
	assert.Equal(t, 0.68, n.Normalize(aiParty("张三", model.RolePlaintiff, 0.8)).Confidence)
	assert.Equal(t, 0.85, n.Normalize(ruleParty("张三", model.RolePlaintiff, 0.85)).Confidence, "rule confidence passes through")
	assert.Equal(t, 0.8, n.Normalize(model.Element{Category: "judge", Source: model.SourceAI, Confidence: 1.0}).Confidence)
	assert.Equal(t, 0.6667, n.Normalize(fact(model.SourceRule, "x", 2.0/3.0)).Confidence)

	custom := NewNormalizer(map[model.Category]float64{model.CategoryParty: 1.2})
	assert.Equal(t, 1.0, custom.Normalize(aiParty("张三", model.RolePlaintiff, 0.9)).Confidence, "clamped to 1")
}
