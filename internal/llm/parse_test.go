package llm

import (
	"strings"
	"testing"

	"github.com/ppiankov/caselens/internal/model"
)

func TestUnwrapJSON(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"plain", `{"dates":[]}`, `{"dates":[]}`, false},
		{"json fence", "```json\n{\"dates\":[]}\n```", `{"dates":[]}`, false},
		{"bare fence", "```\n{\"facts\":[]}\n```", `{"facts":[]}`, false},
		{"single line fence", "```json{\"facts\":[]}```", `{"facts":[]}`, false},
		{"surrounding prose", "Here is the result:\n{\"parties\":[]}\nHope this helps.", `{"parties":[]}`, false},
		{"not json", "Invalid JSON Response", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UnwrapJSON(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("UnwrapJSON() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UnwrapJSON() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseResponse_NonJSONIsParseFailure(t *testing.T) {
	for _, raw := range []string{"Invalid JSON Response", "{not json}", "[1,2,3]"} {
		_, err := ParseResponse(raw)
		if KindOf(err) != KindParse {
			t.Errorf("ParseResponse(%q) kind = %q, want parse", raw, KindOf(err))
		}
	}
}

func TestParseResponse_MissingArraysAreEmpty(t *testing.T) {
	p, err := ParseResponse(`{"parties":[{"name":"张三","role":"plaintiff"}]}`)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if len(p.Dates) != 0 || len(p.Amounts) != 0 || len(p.LegalClauses) != 0 || len(p.Facts) != 0 {
		t.Errorf("expected empty arrays, got %+v", p)
	}

	els := p.Elements()
	if len(els) != 1 {
		t.Fatalf("Elements() = %d elements, want 1", len(els))
	}
	if els[0].Confidence != DefaultAIConfidence {
		t.Errorf("missing confidence = %v, want %v", els[0].Confidence, DefaultAIConfidence)
	}
}

func TestPayload_Elements(t *testing.T) {
	p, err := ParseResponse("```json\n" + completionJSON + "\n```")
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	els := p.Elements()
	if len(els) != 5 {
		t.Fatalf("Elements() = %d elements, want 5", len(els))
	}

	byCat := map[model.Category]model.Element{}
	for _, el := range els {
		if el.Source != model.SourceAI {
			t.Errorf("element source = %s, want ai", el.Source)
		}
		if el.Span != nil {
			t.Errorf("AI element carries a span: %+v", el.Span)
		}
		byCat[el.Category] = el
	}

	if d := byCat[model.CategoryDate].Date; d == nil || d.Date != "2024-03-15" || d.Type != model.DateFiling {
		t.Errorf("date = %+v", d)
	}
	if pt := byCat[model.CategoryParty].Party; pt == nil || pt.Name != "张三" || pt.Role != model.RolePlaintiff {
		t.Errorf("party = %+v", pt)
	}
	if a := byCat[model.CategoryAmount].Amount; a == nil || a.Value.String() != "1000000" || a.Purpose != model.PurposePrincipal || a.Currency != "CNY" {
		t.Errorf("amount = %+v", a)
	}
	c := byCat[model.CategoryClause].Clause
	if c == nil || c.Law != "中华人民共和国民法典" || c.Number != 667 || c.Text != "《中华人民共和国民法典》第六百六十七条" {
		t.Errorf("clause = %+v", c)
	}
	if byCat[model.CategoryDate].Confidence != 0.9 {
		t.Errorf("date confidence = %v, want raw 0.9", byCat[model.CategoryDate].Confidence)
	}
}

func TestPayload_SkipsItemsWithoutKeyField(t *testing.T) {
	raw := `{
	  "dates": [{"date": "sometime"}, {"type": "filing"}],
	  "parties": [{"name": "  ", "role": "plaintiff"}],
	  "amounts": [{"value": null}, {"value": "若干"}, {"value": -5}],
	  "legalClauses": [{"article": "第一条"}],
	  "facts": [{"text": ""}]
	}`
	p, err := ParseResponse(raw)
	if err != nil {
		t.Fatalf("ParseResponse() error = %v", err)
	}
	if els := p.Elements(); len(els) != 0 {
		t.Errorf("Elements() = %+v, want none", els)
	}
}

func TestScore(t *testing.T) {
	tests := []struct {
		raw  string
		want float64
	}{
		{`{"facts":[{"text":"事实","confidence":0.6}]}`, 0.6},
		{`{"facts":[{"text":"事实","confidence":"0.55"}]}`, 0.55},
		{`{"facts":[{"text":"事实","confidence":"80%"}]}`, 0.8},
		{`{"facts":[{"text":"事实","confidence":1.5}]}`, DefaultAIConfidence},
		{`{"facts":[{"text":"事实","confidence":0}]}`, DefaultAIConfidence},
		{`{"facts":[{"text":"事实","confidence":"high"}]}`, DefaultAIConfidence},
		{`{"facts":[{"text":"事实","confidence":null}]}`, DefaultAIConfidence},
	}

	for _, tt := range tests {
		p, err := ParseResponse(tt.raw)
		if err != nil {
			t.Fatalf("ParseResponse(%s) error = %v", tt.raw, err)
		}
		els := p.Elements()
		if len(els) != 1 || els[0].Confidence != tt.want {
			t.Errorf("ParseResponse(%s) confidence = %+v, want %v", tt.raw, els, tt.want)
		}
	}
}

func TestNormalizePurpose(t *testing.T) {
	tests := map[string]string{
		"":          model.PurposeUnspecified,
		"Principal": model.PurposePrincipal,
		"利息":        model.PurposeInterest,
		"案件受理费":     model.PurposeCourtFee,
		"court_fee": model.PurposeCourtFee,
		"deposit":   "deposit",
	}
	for in, want := range tests {
		if got := normalizePurpose(in); got != want {
			t.Errorf("normalizePurpose(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestBuildPrompt_Truncates(t *testing.T) {
	text := "原告张三诉被告李四民间借贷纠纷一案"
	prompt := BuildPrompt(text, 4)
	if !strings.Contains(prompt, "原告张三") || strings.Contains(prompt, "原告张三诉") {
		t.Errorf("BuildPrompt() did not truncate to 4 runes:\n%s", prompt)
	}
	if !strings.Contains(BuildPrompt(text, 0), text) {
		t.Error("BuildPrompt() with no limit dropped text")
	}
	if !strings.Contains(prompt, `"legalClauses"`) {
		t.Error("BuildPrompt() is missing the schema")
	}
}
