package loam

// DefinitionMetadata is the frontmatter (or whole document, for YAML and
// JSON files) of a domain or problem definition. Sections stay loosely
// typed here and are decoded by the shared definition decoder.
type DefinitionMetadata struct {
	ID   string `json:"id" mapstructure:"id"`
	Kind string `json:"kind" mapstructure:"kind"`
	Name string `json:"name" mapstructure:"name"`

	// Domain sections
	Types      []any `json:"types,omitempty" mapstructure:"types"`
	Constants  []any `json:"constants,omitempty" mapstructure:"constants"`
	Predicates []any `json:"predicates,omitempty" mapstructure:"predicates"`
	Actions    []any `json:"actions,omitempty" mapstructure:"actions"`

	// Problem sections
	Domain  string `json:"domain,omitempty" mapstructure:"domain"`
	Objects []any  `json:"objects,omitempty" mapstructure:"objects"`
	Init    []any  `json:"init,omitempty" mapstructure:"init"`
	Goal    []any  `json:"goal,omitempty" mapstructure:"goal"`
}

// raw rebuilds the loose document for decoding, leaving out bookkeeping
// fields and empty sections.
func (m DefinitionMetadata) raw() map[string]any {
	out := map[string]any{"name": m.Name}
	if m.Kind != "" {
		out["kind"] = m.Kind
	}
	sections := map[string][]any{
		"types":      m.Types,
		"constants":  m.Constants,
		"predicates": m.Predicates,
		"actions":    m.Actions,
		"objects":    m.Objects,
		"init":       m.Init,
		"goal":       m.Goal,
	}
	for k, v := range sections {
		if v != nil {
			out[k] = v
		}
	}
	if m.Domain != "" {
		out["domain"] = m.Domain
	}
	return out
}
