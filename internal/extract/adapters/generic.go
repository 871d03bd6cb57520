package adapters

// GenericAdapter is the fallback for excerpts and unrecognized documents.
// It accepts every marker the specific adapters know.
type GenericAdapter struct {
	BaseAdapter
}

func NewGenericAdapter() *GenericAdapter {
	return &GenericAdapter{}
}

func (a *GenericAdapter) Name() string { return "generic" }

func (a *GenericAdapter) DocumentType() string { return DocGeneric }

// CanHandle always returns true (fallback adapter)
func (a *GenericAdapter) CanHandle(text string) bool { return true }

func (a *GenericAdapter) PartyMarkers() []PartyMarker {
	return joinMarkers(appealMarkers, applicationMarkers, firstInstanceMarkers)
}
