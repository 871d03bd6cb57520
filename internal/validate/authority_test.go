package validate

import (
	"testing"

	"github.com/ppiankov/caselens/internal/model"
)

func TestAuthorityClassifier_Classify(t *testing.T) {
	classifier := NewAuthorityClassifier(nil)

	tests := []struct {
		law  string
		want model.AuthorityTier
	}{
		{"《中华人民共和国民法典》", model.TierLaw},
		{"中华人民共和国民事诉讼法", model.TierLaw},
		{"民法典", model.TierLaw},
		{"中华人民共和国公司法", model.TierLaw},
		{"最高人民法院关于审理民间借贷案件适用法律若干问题的规定", model.TierJudicialInterpretation},
		{"最高人民法院关于适用《中华人民共和国民法典》合同编通则若干问题的解释", model.TierJudicialInterpretation},
		{"关于审理劳动争议案件适用法律问题的解释（一）", model.TierJudicialInterpretation},
		{"工伤保险条例", model.TierRegulation},
		{"诉讼费用交纳办法", model.TierRegulation},
		{"上海市住房租赁条例", model.TierRegulation},
		{"会议纪要", model.TierOther},
		{"", model.TierOther},
	}

	for _, tt := range tests {
		t.Run(tt.law, func(t *testing.T) {
			if got := classifier.Classify(tt.law); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.law, got, tt.want)
			}
		})
	}
}

func TestAuthorityClassifier_CustomRules(t *testing.T) {
	classifier := NewAuthorityClassifier(&AuthorityRules{
		Exact: map[string]string{"九民纪要": "司法解释"},
		Patterns: []TierPattern{
			{Pattern: `[`, Tier: "law"},
			{Pattern: `纪要$`, Tier: "regulation"},
		},
	})

	if got := classifier.Classify("九民纪要"); got != model.TierJudicialInterpretation {
		t.Errorf("exact rule: got %s", got)
	}
	if got := classifier.Classify("会议纪要"); got != model.TierRegulation {
		t.Errorf("pattern rule: got %s", got)
	}
	if got := classifier.Classify("民法典"); got != model.TierOther {
		t.Errorf("custom rules should replace defaults: got %s", got)
	}
}

func TestParseTierString(t *testing.T) {
	tests := map[string]model.AuthorityTier{
		"law":                     model.TierLaw,
		"LAW":                     model.TierLaw,
		"司法解释":                    model.TierJudicialInterpretation,
		"judicial-interpretation": model.TierJudicialInterpretation,
		"法规":                      model.TierRegulation,
		"3":                       model.TierRegulation,
		"unknown":                 model.TierOther,
	}
	for in, want := range tests {
		if got := parseTierString(in); got != want {
			t.Errorf("parseTierString(%q) = %s, want %s", in, got, want)
		}
	}
}
