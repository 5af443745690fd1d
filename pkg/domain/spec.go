package domain

import (
	"fmt"
	"strings"
)

// TypeSpec declares a type and its optional supertype.
// An empty Parent means the type derives directly from "object".
type TypeSpec struct {
	Name   string `json:"name" yaml:"name" mapstructure:"name"`
	Parent string `json:"parent,omitempty" yaml:"parent,omitempty" mapstructure:"parent"`
}

// Param is a typed parameter slot. Action parameters carry a leading "?".
type Param struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Type string `json:"type" yaml:"type" mapstructure:"type"`
}

// PredicateSpec declares a predicate signature.
type PredicateSpec struct {
	Name   string  `json:"name" yaml:"name" mapstructure:"name"`
	Params []Param `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
}

// ActionSpec declares an action schema.
type ActionSpec struct {
	Name   string    `json:"name" yaml:"name" mapstructure:"name"`
	Params []Param   `json:"params,omitempty" yaml:"params,omitempty" mapstructure:"params"`
	Pre    []Literal `json:"pre,omitempty" yaml:"pre,omitempty" mapstructure:"pre"`
	Add    []Literal `json:"add,omitempty" yaml:"add,omitempty" mapstructure:"add"`
	Del    []Literal `json:"del,omitempty" yaml:"del,omitempty" mapstructure:"del"`
}

// ObjectSpec declares a typed object (or a domain constant).
type ObjectSpec struct {
	Name string `json:"name" yaml:"name" mapstructure:"name"`
	Type string `json:"type,omitempty" yaml:"type,omitempty" mapstructure:"type"`
}

// DomainSpec is the raw, unvalidated description of a planning domain.
type DomainSpec struct {
	Name       string          `json:"name" yaml:"name" mapstructure:"name"`
	Types      []TypeSpec      `json:"types,omitempty" yaml:"types,omitempty" mapstructure:"types"`
	Constants  []ObjectSpec    `json:"constants,omitempty" yaml:"constants,omitempty" mapstructure:"constants"`
	Predicates []PredicateSpec `json:"predicates" yaml:"predicates" mapstructure:"predicates"`
	Actions    []ActionSpec    `json:"actions" yaml:"actions" mapstructure:"actions"`
}

// ProblemSpec is the raw, unvalidated description of a problem instance.
type ProblemSpec struct {
	Name    string       `json:"name" yaml:"name" mapstructure:"name"`
	Domain  string       `json:"domain" yaml:"domain" mapstructure:"domain"`
	Objects []ObjectSpec `json:"objects" yaml:"objects" mapstructure:"objects"`
	Init    []Literal    `json:"init" yaml:"init" mapstructure:"init"`
	Goal    []Literal    `json:"goal" yaml:"goal" mapstructure:"goal"`
}

// Literal is a possibly negated predicate application over names.
// Arguments starting with "?" are variables; anything else names an object.
//
// Its text form is the s-expression used throughout the tooling:
// "(at ?r ?to)" or "(not (at ?r ?to))".
type Literal struct {
	Predicate string
	Args      []string
	Negated   bool
}

// Pos builds a positive literal.
func Pos(predicate string, args ...string) Literal {
	return Literal{Predicate: predicate, Args: args}
}

// Neg builds a negated literal.
func Neg(predicate string, args ...string) Literal {
	return Literal{Predicate: predicate, Args: args, Negated: true}
}

func (l Literal) String() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(l.Predicate)
	for _, a := range l.Args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	b.WriteByte(')')
	if l.Negated {
		return "(not " + b.String() + ")"
	}
	return b.String()
}

// MarshalText implements encoding.TextMarshaler.
func (l Literal) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Literal) UnmarshalText(text []byte) error {
	parsed, err := ParseLiteral(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseLiteral parses "(p a b)" or "(not (p a b))".
func ParseLiteral(s string) (Literal, error) {
	fields, err := sexpFields(s)
	if err != nil {
		return Literal{}, err
	}
	if len(fields) == 0 {
		return Literal{}, fmt.Errorf("empty literal %q", s)
	}
	if fields[0] == "not" {
		if len(fields) != 2 || !strings.HasPrefix(fields[1], "(") {
			return Literal{}, fmt.Errorf("malformed negation %q", s)
		}
		inner, err := ParseLiteral(fields[1])
		if err != nil {
			return Literal{}, err
		}
		if inner.Negated {
			return Literal{}, fmt.Errorf("double negation %q", s)
		}
		inner.Negated = true
		return inner, nil
	}
	for _, f := range fields {
		if strings.ContainsAny(f, "()") {
			return Literal{}, fmt.Errorf("nested term in %q", s)
		}
	}
	lit := Literal{Predicate: fields[0]}
	if len(fields) > 1 {
		lit.Args = fields[1:]
	}
	return lit, nil
}

// sexpFields splits a single parenthesised expression into its top-level
// fields. Nested expressions are returned verbatim.
func sexpFields(s string) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("expected parenthesised expression, got %q", s)
	}
	body := s[1 : len(s)-1]

	var fields []string
	depth, start := 0, -1
	for i, r := range body {
		switch {
		case r == '(':
			if depth == 0 {
				if start >= 0 {
					fields = append(fields, body[start:i])
				}
				start = i
			}
			depth++
		case r == ')':
			depth--
			if depth < 0 {
				return nil, fmt.Errorf("unbalanced parentheses in %q", s)
			}
			if depth == 0 {
				fields = append(fields, body[start:i+1])
				start = -1
			}
		case depth == 0 && (r == ' ' || r == '\t' || r == '\n' || r == '\r'):
			if start >= 0 {
				fields = append(fields, body[start:i])
				start = -1
			}
		case depth == 0 && start < 0:
			start = i
		}
	}
	if depth != 0 {
		return nil, fmt.Errorf("unbalanced parentheses in %q", s)
	}
	if start >= 0 {
		fields = append(fields, body[start:])
	}
	return fields, nil
}
