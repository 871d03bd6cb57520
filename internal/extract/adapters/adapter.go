package adapters

import (
	"strings"

	"github.com/ppiankov/caselens/internal/model"
)

// Document types reported in response metadata.
const (
	DocJudgment          = "judgment"
	DocAppellateJudgment = "appellate-judgment"
	DocRuling            = "ruling"
	DocMediation         = "mediation"
	DocGeneric           = "generic"
)

// headRunes bounds the title region inspected by CanHandle.
const headRunes = 200

// PartyMarker is a procedural-position word that precedes a party name.
type PartyMarker struct {
	Marker string
	Role   model.PartyRole
}

// Adapter recognizes one kind of court document and supplies the vocabulary
// the rule extractor needs for it.
type Adapter interface {
	// Name returns the adapter name
	Name() string

	// DocumentType is the value surfaced as metadata.documentType
	DocumentType() string

	// CanHandle checks whether the text looks like this kind of document
	CanHandle(text string) bool

	// PartyMarkers lists markers longest-first so that 被上诉人 is tried
	// before 上诉人.
	PartyMarkers() []PartyMarker
}

// Registry holds adapters in priority order with a generic fallback.
type Registry struct {
	adapters []Adapter
	generic  Adapter
}

// NewRegistry creates a registry with the built-in adapters.
func NewRegistry() *Registry {
	registry := &Registry{
		adapters: make([]Adapter, 0, 4),
	}

	// Appeals and rulings first: their titles also contain words the
	// first-instance judgment adapter looks for.
	registry.Register(NewAppellateAdapter())
	registry.Register(NewRulingAdapter())
	registry.Register(NewMediationAdapter())
	registry.Register(NewJudgmentAdapter())

	registry.generic = NewGenericAdapter()

	return registry
}

// Register appends an adapter after the existing ones.
func (r *Registry) Register(adapter Adapter) {
	r.adapters = append(r.adapters, adapter)
}

// FindAdapter returns the first adapter that can handle text, or the
// generic adapter.
func (r *Registry) FindAdapter(text string) Adapter {
	for _, adapter := range r.adapters {
		if adapter.CanHandle(text) {
			return adapter
		}
	}
	return r.generic
}

// All returns every adapter including the fallback.
func (r *Registry) All() []Adapter {
	out := make([]Adapter, 0, len(r.adapters)+1)
	out = append(out, r.adapters...)
	return append(out, r.generic)
}

// BaseAdapter provides helpers shared by the built-in adapters.
type BaseAdapter struct{}

// Head returns the title region of a document.
func (b *BaseAdapter) Head(text string) string {
	n := 0
	for i := range text {
		if n == headRunes {
			return text[:i]
		}
		n++
	}
	return text
}

// ContainsAny reports whether text contains any of words.
func (b *BaseAdapter) ContainsAny(text string, words ...string) bool {
	for _, w := range words {
		if strings.Contains(text, w) {
			return true
		}
	}
	return false
}

var (
	firstInstanceMarkers = []PartyMarker{
		{Marker: "原告", Role: model.RolePlaintiff},
		{Marker: "被告", Role: model.RoleDefendant},
		{Marker: "第三人", Role: model.RoleThirdParty},
	}
	appealMarkers = []PartyMarker{
		{Marker: "被上诉人", Role: model.RoleDefendant},
		{Marker: "上诉人", Role: model.RolePlaintiff},
		{Marker: "原审第三人", Role: model.RoleThirdParty},
	}
	applicationMarkers = []PartyMarker{
		{Marker: "被申请人", Role: model.RoleDefendant},
		{Marker: "申请人", Role: model.RolePlaintiff},
	}
)

func joinMarkers(groups ...[]PartyMarker) []PartyMarker {
	var out []PartyMarker
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}
