package ports

import (
	"context"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Kind tells domain definitions apart from problem definitions.
type Kind string

const (
	KindDomain  Kind = "domain"
	KindProblem Kind = "problem"
)

// DefinitionRef identifies a definition available from a loader.
type DefinitionRef struct {
	ID   string `json:"id"`
	Kind Kind   `json:"kind"`
	Name string `json:"name"`
}

// DefinitionLoader retrieves domain and problem specifications.
// Implementations return domain.ErrDefinitionNotFound for unknown IDs.
type DefinitionLoader interface {
	LoadDomain(ctx context.Context, id string) (domain.DomainSpec, error)
	LoadProblem(ctx context.Context, id string) (domain.ProblemSpec, error)

	// List returns every definition the loader can serve.
	List(ctx context.Context) ([]DefinitionRef, error)
}
