package extract

import "strings"

// CaseTypeRule labels a case when every keyword appears in the text.
type CaseTypeRule struct {
	Label    string
	Keywords []string
}

// DefaultCaseTypeRules is evaluated in declaration order and the first
// match wins, so more specific case types must precede general ones
// (民间借贷纠纷 before 合同纠纷).
var DefaultCaseTypeRules = []CaseTypeRule{
	{Label: "民间借贷纠纷", Keywords: []string{"借款", "本金"}},
	{Label: "劳动争议", Keywords: []string{"工资", "补偿金"}},
	{Label: "离婚纠纷", Keywords: []string{"离婚"}},
	{Label: "机动车交通事故责任纠纷", Keywords: []string{"交通事故", "赔偿"}},
	{Label: "房屋租赁合同纠纷", Keywords: []string{"租赁", "租金"}},
	{Label: "买卖合同纠纷", Keywords: []string{"买卖", "货款"}},
	{Label: "合同纠纷", Keywords: []string{"合同", "违约"}},
	{Label: "侵权责任纠纷", Keywords: []string{"侵权", "赔偿"}},
}

// CaseTypeClassifier detects the case type by ordered keyword rules.
type CaseTypeClassifier struct {
	rules []CaseTypeRule
}

// NewCaseTypeClassifier uses rules in the given order, or the defaults when
// rules is empty.
func NewCaseTypeClassifier(rules []CaseTypeRule) *CaseTypeClassifier {
	if len(rules) == 0 {
		rules = DefaultCaseTypeRules
	}
	return &CaseTypeClassifier{rules: rules}
}

// Classify returns the label of the first matching rule.
func (c *CaseTypeClassifier) Classify(text string) (string, bool) {
	for _, rule := range c.rules {
		if matchesAll(text, rule.Keywords) {
			return rule.Label, true
		}
	}
	return "", false
}

func matchesAll(text string, keywords []string) bool {
	if len(keywords) == 0 {
		return false
	}
	for _, kw := range keywords {
		if !strings.Contains(text, kw) {
			return false
		}
	}
	return true
}
