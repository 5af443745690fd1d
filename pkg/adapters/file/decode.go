package file

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// KindKey is the document field that tells domains and problems apart.
const KindKey = "kind"

// Parse reads a definition document (YAML or JSON, chosen by the extension
// of name) into a loose map.
func Parse(name string, data []byte) (map[string]any, error) {
	raw := make(map[string]any)
	ext := strings.ToLower(filepath.Ext(name))

	if ext == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	} else {
		// Default to YAML
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", name, err)
		}
	}
	return raw, nil
}

// Decode maps a loose document onto out. Literals are decoded from their
// s-expression text form and unknown keys are rejected.
func Decode(raw map[string]any, out any) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  mapstructure.TextUnmarshallerHookFunc(),
		ErrorUnused: true,
		Result:      out,
		TagName:     "mapstructure",
	})
	if err != nil {
		return err
	}
	return decoder.Decode(raw)
}

// KindOf returns the declared kind of a document. Documents without a kind
// are classified by shape: a "domain" field marks a problem.
func KindOf(raw map[string]any) (ports.Kind, error) {
	if v, ok := raw[KindKey]; ok {
		s, _ := v.(string)
		switch k := ports.Kind(strings.ToLower(s)); k {
		case ports.KindDomain, ports.KindProblem:
			return k, nil
		default:
			return "", fmt.Errorf("unknown definition kind %q", v)
		}
	}
	if _, ok := raw["domain"]; ok {
		return ports.KindProblem, nil
	}
	return ports.KindDomain, nil
}

// DecodeDomain decodes a domain document, ignoring its kind field.
func DecodeDomain(raw map[string]any) (domain.DomainSpec, error) {
	var spec domain.DomainSpec
	if err := Decode(withoutKind(raw), &spec); err != nil {
		return domain.DomainSpec{}, fmt.Errorf("failed to decode domain: %w", err)
	}
	return spec, nil
}

// DecodeProblem decodes a problem document, ignoring its kind field.
func DecodeProblem(raw map[string]any) (domain.ProblemSpec, error) {
	var spec domain.ProblemSpec
	if err := Decode(withoutKind(raw), &spec); err != nil {
		return domain.ProblemSpec{}, fmt.Errorf("failed to decode problem: %w", err)
	}
	return spec, nil
}

func withoutKind(raw map[string]any) map[string]any {
	if _, ok := raw[KindKey]; !ok {
		return raw
	}
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		if k != KindKey {
			out[k] = v
		}
	}
	return out
}
