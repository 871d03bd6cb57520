package score

import (
	"testing"

	"github.com/ppiankov/caselens/internal/model"
)

func party(conf float64) model.Element {
	return model.NewParty(model.SourceRule, model.PartyValue{Name: "张三", Role: model.RolePlaintiff}, conf)
}

func fact(conf float64) model.Element {
	return model.NewFact(model.SourceRule, model.FactValue{Text: "借款到期未还"}, conf)
}

func TestScorer_Calculate_WeightedMean(t *testing.T) {
	scorer := NewScorer(nil)

	// party weight 1.5, fact weight 0.6:
	// (1.5*0.9 + 0.6*0.5) / (1.5 + 0.6) = 1.65 / 2.1 = 0.785714...
	elements := map[model.Category][]model.Element{
		model.CategoryParty: {party(0.9)},
		model.CategoryFact:  {fact(0.5)},
	}

	result := scorer.Calculate(elements, nil)
	if result.Overall != 0.7857 {
		t.Errorf("Expected overall 0.7857, got %v", result.Overall)
	}
	if result.Level != "medium" {
		t.Errorf("Expected level medium, got %s", result.Level)
	}

	// One signal per category plus the summary, in presentation order.
	if len(result.Signals) != 3 {
		t.Fatalf("Expected 3 signals, got %d", len(result.Signals))
	}
	if result.Signals[0].Category != model.CategoryParty || result.Signals[1].Category != model.CategoryFact {
		t.Errorf("Unexpected signal order: %+v", result.Signals)
	}
	if result.Signals[2].Data["formula"] == nil {
		t.Error("Expected summary signal to expose the formula")
	}
}

func TestScorer_Calculate_Empty(t *testing.T) {
	result := NewScorer(nil).Calculate(map[model.Category][]model.Element{}, nil)
	if result.Overall != 0 || result.Level != "low" {
		t.Errorf("Expected 0/low, got %v/%s", result.Overall, result.Level)
	}
	if len(result.Signals) != 1 {
		t.Errorf("Expected one signal, got %d", len(result.Signals))
	}
}

func TestScorer_Calculate_ConflictSignal(t *testing.T) {
	elements := map[model.Category][]model.Element{
		model.CategoryParty: {party(0.9)},
	}
	conflicts := []model.ConflictRecord{
		{Category: model.CategoryParty, Resolution: model.ResolutionRuleHigher},
		{Category: model.CategoryParty, Resolution: model.ResolutionAIHigher},
	}

	result := NewScorer(nil).Calculate(elements, conflicts)
	if result.Overall != 0.9 {
		t.Errorf("Conflicts must not change the mean: got %v", result.Overall)
	}

	var found bool
	for _, s := range result.Signals {
		if s.Data["conflicts"] == 2 {
			found = true
			if s.Data["rule_wins"] != 1 || s.Data["ai_wins"] != 1 {
				t.Errorf("Unexpected conflict data: %+v", s.Data)
			}
		}
	}
	if !found {
		t.Error("Expected a conflict signal")
	}
}

func TestScorer_Calculate_ExtensionCategory(t *testing.T) {
	elements := map[model.Category][]model.Element{
		"court":             {{Category: "court", Source: model.SourceRule, Confidence: 0.5, Description: "某法院"}},
		model.CategoryParty: {party(1.0)},
	}
	result := NewScorer(nil).Calculate(elements, nil)

	// (1.5*1.0 + 1.0*0.5) / 2.5 = 0.8
	if result.Overall != 0.8 {
		t.Errorf("Expected overall 0.8, got %v", result.Overall)
	}
	if result.Signals[0].Category != model.CategoryParty || result.Signals[1].Category != "court" {
		t.Error("Extensions must follow core categories")
	}
}

func TestRound4(t *testing.T) {
	tests := map[float64]float64{
		0.85 * 0.9: 0.765,
		0.12346:    0.1235,
		1.0 / 3.0:  0.3333,
	}
	for in, want := range tests {
		if got := Round4(in); got != want {
			t.Errorf("Round4(%v) = %v, want %v", in, got, want)
		}
	}
}

func TestLevel(t *testing.T) {
	tests := map[float64]string{0.95: "high", 0.8: "high", 0.7: "medium", 0.6: "medium", 0.3: "low"}
	for in, want := range tests {
		if got := Level(in); got != want {
			t.Errorf("Level(%v) = %s, want %s", in, got, want)
		}
	}
}
