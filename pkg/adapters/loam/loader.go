package loam

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/aretw0/loam"
	"github.com/aretw0/wayfinder/pkg/adapters/file"
	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Loader adapts a Loam repository to the ports.DefinitionLoader interface.
// Definitions can be Markdown documents with YAML frontmatter (the body is
// free-form notes) or plain YAML/JSON files.
type Loader struct {
	Repo *loam.TypedRepository[DefinitionMetadata]
}

// New creates a new Loam adapter.
func New(repo *loam.TypedRepository[DefinitionMetadata]) *Loader {
	return &Loader{Repo: repo}
}

// Open initializes a read-only, strict Loam repository at path.
func Open(path string) (*Loader, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("invalid path: %w", err)
	}
	repo, err := loam.Init(absPath,
		loam.WithStrict(true),
		loam.WithReadOnly(true),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize loam: %w", err)
	}
	return New(loam.NewTypedRepository[DefinitionMetadata](repo)), nil
}

type entry struct {
	id   string
	path string
	kind ports.Kind
	meta DefinitionMetadata
}

// index lists the repository and keys definitions by normalized ID.
func (l *Loader) index(ctx context.Context) (map[string]entry, error) {
	docs, err := l.Repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("loam list failed: %w", err)
	}

	entries := make(map[string]entry, len(docs))
	for _, doc := range docs {
		rawID := doc.Data.ID
		if rawID == "" {
			rawID = doc.ID
		}
		id := trimExtension(rawID)

		kind, err := file.KindOf(doc.Data.raw())
		if err != nil {
			continue
		}
		if existing, ok := entries[id]; ok {
			return nil, fmt.Errorf("collision detected: ID '%s' is defined in both '%s' and '%s'", id, existing.path, doc.ID)
		}
		entries[id] = entry{id: id, path: doc.ID, kind: kind, meta: doc.Data}
	}
	return entries, nil
}

func (l *Loader) lookup(ctx context.Context, id string, want ports.Kind) (DefinitionMetadata, error) {
	entries, err := l.index(ctx)
	if err != nil {
		return DefinitionMetadata{}, err
	}
	e, ok := entries[trimExtension(id)]
	if !ok || e.kind != want {
		return DefinitionMetadata{}, fmt.Errorf("%w: %s %s", domain.ErrDefinitionNotFound, want, id)
	}
	return e.meta, nil
}

// LoadDomain decodes the domain document stored under id.
func (l *Loader) LoadDomain(ctx context.Context, id string) (domain.DomainSpec, error) {
	meta, err := l.lookup(ctx, id, ports.KindDomain)
	if err != nil {
		return domain.DomainSpec{}, err
	}
	return file.DecodeDomain(meta.raw())
}

// LoadProblem decodes the problem document stored under id.
func (l *Loader) LoadProblem(ctx context.Context, id string) (domain.ProblemSpec, error) {
	meta, err := l.lookup(ctx, id, ports.KindProblem)
	if err != nil {
		return domain.ProblemSpec{}, err
	}
	return file.DecodeProblem(meta.raw())
}

// List returns every definition in the repository, sorted by ID.
func (l *Loader) List(ctx context.Context) ([]ports.DefinitionRef, error) {
	entries, err := l.index(ctx)
	if err != nil {
		return nil, err
	}
	refs := make([]ports.DefinitionRef, 0, len(entries))
	for _, e := range entries {
		refs = append(refs, ports.DefinitionRef{ID: e.id, Kind: e.kind, Name: e.meta.Name})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

func trimExtension(id string) string {
	ext := filepath.Ext(id)
	if ext != "" {
		return filepath.ToSlash(strings.TrimSuffix(id, ext))
	}
	return filepath.ToSlash(id)
}
