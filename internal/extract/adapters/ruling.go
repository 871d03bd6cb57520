package adapters

// RulingAdapter handles rulings (裁定书): jurisdiction objections, asset
// preservation, dismissals. Applicants are mapped onto the plaintiff and
// defendant roles.
type RulingAdapter struct {
	BaseAdapter
}

func NewRulingAdapter() *RulingAdapter {
	return &RulingAdapter{}
}

func (a *RulingAdapter) Name() string { return "ruling" }

func (a *RulingAdapter) DocumentType() string { return DocRuling }

func (a *RulingAdapter) CanHandle(text string) bool {
	return a.ContainsAny(a.Head(text), "裁定书") || a.ContainsAny(text, "裁定如下")
}

func (a *RulingAdapter) PartyMarkers() []PartyMarker {
	return joinMarkers(applicationMarkers, firstInstanceMarkers)
}
