package diagram

import (
	"strings"

	"github.com/azure-architect/archdiagram/internal/ontology"
)

// Stub services are tagged so renderers can tell them apart from resolved ones.
const (
	StubPrefix   = "ai:"
	StubCategory = "AI Detected"
)

// Entity is a service placed in an architecture: either a ResolvedService
// backed by the ontology, or a StubService synthesized for a name that did not
// resolve. The set of implementations is closed.
type Entity interface {
	EntityID() string
	DisplayName() string
	CategoryName() string
	isEntity()
}

// ResolvedService is a catalog record used as a diagram entity.
type ResolvedService struct {
	ontology.ServiceRecord
}

func (s ResolvedService) EntityID() string     { return s.ID }
func (s ResolvedService) DisplayName() string  { return s.Title }
func (s ResolvedService) CategoryName() string { return s.Category }
func (ResolvedService) isEntity()              {}

// StubService stands in for a detected name with no catalog match.
type StubService struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Category string `json:"category"`
}

func (s StubService) EntityID() string     { return s.ID }
func (s StubService) DisplayName() string  { return s.Name }
func (s StubService) CategoryName() string { return s.Category }
func (StubService) isEntity()              {}

// NewStub builds a stub for name. ok is false when name has no usable
// characters.
func NewStub(name string) (stub StubService, ok bool) {
	slug := ontology.Slug(name)
	if slug == "" {
		return StubService{}, false
	}
	return StubService{
		ID:       StubPrefix + slug,
		Name:     ontology.TitleCase(strings.TrimSpace(name)),
		Category: StubCategory,
	}, true
}

// Resolved wraps records as entities.
func Resolved(recs []ontology.ServiceRecord) []Entity {
	out := make([]Entity, len(recs))
	for i, r := range recs {
		out[i] = ResolvedService{ServiceRecord: r}
	}
	return out
}
