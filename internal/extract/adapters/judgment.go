package adapters

// JudgmentAdapter handles first-instance civil judgments (民事判决书).
type JudgmentAdapter struct {
	BaseAdapter
}

func NewJudgmentAdapter() *JudgmentAdapter {
	return &JudgmentAdapter{}
}

func (a *JudgmentAdapter) Name() string { return "judgment" }

func (a *JudgmentAdapter) DocumentType() string { return DocJudgment }

func (a *JudgmentAdapter) CanHandle(text string) bool {
	return a.ContainsAny(a.Head(text), "判决书") || a.ContainsAny(text, "判决如下")
}

func (a *JudgmentAdapter) PartyMarkers() []PartyMarker {
	return firstInstanceMarkers
}

// AppellateAdapter handles second-instance judgments, where the parties are
// 上诉人 and 被上诉人 and the first-instance roles appear in parentheses.
type AppellateAdapter struct {
	BaseAdapter
}

func NewAppellateAdapter() *AppellateAdapter {
	return &AppellateAdapter{}
}

func (a *AppellateAdapter) Name() string { return "appellate" }

func (a *AppellateAdapter) DocumentType() string { return DocAppellateJudgment }

func (a *AppellateAdapter) CanHandle(text string) bool {
	head := a.Head(text)
	if a.ContainsAny(head, "裁定书", "调解书") {
		return false
	}
	return a.ContainsAny(head, "上诉人", "民终", "二审")
}

func (a *AppellateAdapter) PartyMarkers() []PartyMarker {
	return joinMarkers(appealMarkers, firstInstanceMarkers)
}
