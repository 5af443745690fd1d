package file

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

var extensions = []string{".yaml", ".yml", ".json"}

// Loader implements ports.DefinitionLoader over a directory of YAML and JSON
// documents. A definition's ID is its slash-separated path relative to the
// directory, without extension.
type Loader struct {
	BasePath string
}

// NewLoader creates a loader rooted at basePath.
func NewLoader(basePath string) *Loader {
	return &Loader{BasePath: basePath}
}

// LoadDomain reads and decodes the domain stored under id.
func (l *Loader) LoadDomain(ctx context.Context, id string) (domain.DomainSpec, error) {
	raw, err := l.read(id, ports.KindDomain)
	if err != nil {
		return domain.DomainSpec{}, err
	}
	return DecodeDomain(raw)
}

// LoadProblem reads and decodes the problem stored under id.
func (l *Loader) LoadProblem(ctx context.Context, id string) (domain.ProblemSpec, error) {
	raw, err := l.read(id, ports.KindProblem)
	if err != nil {
		return domain.ProblemSpec{}, err
	}
	return DecodeProblem(raw)
}

func (l *Loader) read(id string, want ports.Kind) (map[string]any, error) {
	if id == "" || strings.Contains(id, "..") {
		return nil, fmt.Errorf("%w: invalid id %q", domain.ErrDefinitionNotFound, id)
	}
	for _, ext := range extensions {
		path := filepath.Join(l.BasePath, filepath.FromSlash(id)+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read definition %s: %w", id, err)
		}
		raw, err := Parse(path, data)
		if err != nil {
			return nil, err
		}
		kind, err := KindOf(raw)
		if err != nil {
			return nil, fmt.Errorf("definition %s: %w", id, err)
		}
		if kind != want {
			return nil, fmt.Errorf("%w: %s is a %s, not a %s", domain.ErrDefinitionNotFound, id, kind, want)
		}
		return raw, nil
	}
	return nil, fmt.Errorf("%w: %s %s", domain.ErrDefinitionNotFound, want, id)
}

// List walks the directory and classifies every definition document.
// Unparseable files are skipped.
func (l *Loader) List(ctx context.Context) ([]ports.DefinitionRef, error) {
	var refs []ports.DefinitionRef
	err := filepath.WalkDir(l.BasePath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if d.IsDir() {
			if path != l.BasePath && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}
		ext := strings.ToLower(filepath.Ext(path))
		if !slices.Contains(extensions, ext) {
			return nil
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		raw, err := Parse(path, data)
		if err != nil {
			return nil
		}
		kind, err := KindOf(raw)
		if err != nil {
			return nil
		}

		rel, err := filepath.Rel(l.BasePath, path)
		if err != nil {
			return err
		}
		name, _ := raw["name"].(string)
		refs = append(refs, ports.DefinitionRef{
			ID:   strings.TrimSuffix(filepath.ToSlash(rel), filepath.Ext(rel)),
			Kind: kind,
			Name: name,
		})
		return nil
	})
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []ports.DefinitionRef{}, nil
		}
		return nil, fmt.Errorf("failed to list definitions: %w", err)
	}
	return refs, nil
}
