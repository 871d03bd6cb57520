package extract

import (
	"testing"

	"github.com/ppiankov/caselens/internal/extract/adapters"
	"github.com/ppiankov/caselens/internal/model"
)

func TestReadName(t *testing.T) {
	tests := []struct {
		in        string
		want      string
		truncated bool
		ok        bool
	}{
		{"张三,男,1980年", "张三", false, true},
		{"张三诉被告李四", "张三", false, true},
		{"李四民间借贷纠纷一案", "李四", false, true},
		{"欧阳娜娜向本院", "欧阳娜娜", false, true},
		{"北京某某科技有限公司诉", "北京某某科技有限公司", false, true},
		{"中国某某银行股份有限公司北京分行", "中国某某银行股份有限公司", false, true},
		{"某某(北京)有限公司,住所地", "某某(北京)有限公司", false, true},
		{"张三丰王五六七", "张三丰", true, true},
		{"诉称", "", false, false},
		{"辩称", "", false, false},
		{"负担", "", false, false},
		{"主张被告", "", false, false},
		{"方", "", false, false},
		{"", "", false, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, _, truncated, ok := readName(tt.in)
			if ok != tt.ok || (ok && (got != tt.want || truncated != tt.truncated)) {
				t.Errorf("readName(%q) = (%q, truncated=%v, ok=%v), want (%q, %v, %v)",
					tt.in, got, truncated, ok, tt.want, tt.truncated, tt.ok)
			}
		})
	}
}

func TestPartyRecognizers_AppealMarkers(t *testing.T) {
	text := "民事判决书\n上诉人(原审被告):李四,男。\n被上诉人(原审原告):张三,男。"
	res := NewRuleExtractor().Analyze(text)
	if res.DocumentType != adapters.DocAppellateJudgment {
		t.Fatalf("document type = %q", res.DocumentType)
	}
	li := findParty(res.Elements, "李四")
	zhang := findParty(res.Elements, "张三")
	if li == nil || li.Party.Role != model.RolePlaintiff {
		t.Errorf("appellant 李四 should map to plaintiff, got %+v", li)
	}
	if zhang == nil || zhang.Party.Role != model.RoleDefendant {
		t.Errorf("appellee 张三 should map to defendant, got %+v", zhang)
	}
}

func TestPartyRecognizers_RulingApplicants(t *testing.T) {
	text := "民事裁定书\n申请人:某某小额贷款有限公司。\n被申请人:王五。"
	res := NewRuleExtractor().Analyze(text)
	if p := findParty(res.Elements, "某某小额贷款有限公司"); p == nil || p.Party.Role != model.RolePlaintiff {
		t.Errorf("applicant not extracted as plaintiff: %+v", p)
	}
	if p := findParty(res.Elements, "王五"); p == nil || p.Party.Role != model.RoleDefendant {
		t.Errorf("respondent not extracted as defendant: %+v", p)
	}
}
