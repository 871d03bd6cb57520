package extract

import "testing"

func TestCaseTypeClassifier_Classify(t *testing.T) {
	c := NewCaseTypeClassifier(nil)

	tests := []struct {
		name string
		text string
		want string
		ok   bool
	}{
		{"private lending", "被告向原告借款,至今未归还本金。", "民间借贷纠纷", true},
		{"labor", "公司拖欠工资并拒绝支付经济补偿金。", "劳动争议", true},
		{"contract", "双方签订合同,被告构成违约。", "合同纠纷", true},
		{"no match", "本案事实清楚。", "", false},
		{"partial keywords", "原告主张借款事实。", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := c.Classify(tt.text)
			if got != tt.want || ok != tt.ok {
				t.Errorf("Classify() = (%q, %v), want (%q, %v)", got, ok, tt.want, tt.ok)
			}
		})
	}
}

func TestCaseTypeClassifier_FirstMatchWins(t *testing.T) {
	// Matches both 民间借贷纠纷 and 合同纠纷; declaration order decides.
	text := "双方签订借款合同,被告违约未归还本金。"
	for i := 0; i < 5; i++ {
		got, _ := NewCaseTypeClassifier(nil).Classify(text)
		if got != "民间借贷纠纷" {
			t.Fatalf("run %d: got %q, want 民间借贷纠纷", i, got)
		}
	}

	reordered := NewCaseTypeClassifier([]CaseTypeRule{
		{Label: "合同纠纷", Keywords: []string{"合同", "违约"}},
		{Label: "民间借贷纠纷", Keywords: []string{"借款", "本金"}},
	})
	if got, _ := reordered.Classify(text); got != "合同纠纷" {
		t.Errorf("custom order: got %q, want 合同纠纷", got)
	}
}

func TestCaseTypeClassifier_EmptyKeywordsNeverMatch(t *testing.T) {
	c := NewCaseTypeClassifier([]CaseTypeRule{{Label: "x"}})
	if _, ok := c.Classify("anything"); ok {
		t.Error("a rule without keywords must not match")
	}
}
