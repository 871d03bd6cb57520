package adapters

// MediationAdapter handles mediation statements (调解书).
type MediationAdapter struct {
	BaseAdapter
}

func NewMediationAdapter() *MediationAdapter {
	return &MediationAdapter{}
}

func (a *MediationAdapter) Name() string { return "mediation" }

func (a *MediationAdapter) DocumentType() string { return DocMediation }

func (a *MediationAdapter) CanHandle(text string) bool {
	return a.ContainsAny(a.Head(text), "调解书") || a.ContainsAny(text, "达成如下协议", "自愿达成如下")
}

func (a *MediationAdapter) PartyMarkers() []PartyMarker {
	return joinMarkers(applicationMarkers, firstInstanceMarkers)
}
