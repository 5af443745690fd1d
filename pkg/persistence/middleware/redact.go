package middleware

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/wayfinder/pkg/domain"
	"github.com/aretw0/wayfinder/pkg/ports"
)

// Mask replaces redacted names.
const Mask = "***"

// name matches the identifiers that may appear in plans and messages.
var name = regexp.MustCompile(`[\w-]+`)

type redactionMiddleware struct {
	next     ports.ReportStore
	patterns []*regexp.Regexp
}

// NewRedactionMiddleware creates a middleware that masks object names
// matching any of the patterns before a report is stored. Step arguments,
// the detail and the warnings are rewritten; the caller's report is not
// modified. Redaction is one-way: Load returns the masked report.
func NewRedactionMiddleware(patternStrings []string) (Middleware, error) {
	patterns := make([]*regexp.Regexp, len(patternStrings))
	for i, p := range patternStrings {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		patterns[i] = re
	}
	return func(next ports.ReportStore) ports.ReportStore {
		return &redactionMiddleware{next: next, patterns: patterns}
	}, nil
}

func (m *redactionMiddleware) Save(ctx context.Context, report *domain.Report) error {
	cloned := report.Clone()

	for i := range cloned.Plan {
		for j, arg := range cloned.Plan[i].Args {
			if m.matches(arg) {
				cloned.Plan[i].Args[j] = Mask
			}
		}
	}
	cloned.Detail = m.mask(cloned.Detail)
	for i, w := range cloned.Warnings {
		cloned.Warnings[i] = m.mask(w)
	}

	return m.next.Save(ctx, cloned)
}

func (m *redactionMiddleware) Load(ctx context.Context, id string) (*domain.Report, error) {
	return m.next.Load(ctx, id)
}

func (m *redactionMiddleware) Delete(ctx context.Context, id string) error {
	return m.next.Delete(ctx, id)
}

func (m *redactionMiddleware) List(ctx context.Context) ([]string, error) {
	return m.next.List(ctx)
}

func (m *redactionMiddleware) matches(s string) bool {
	for _, p := range m.patterns {
		if p.MatchString(s) {
			return true
		}
	}
	return false
}

func (m *redactionMiddleware) mask(text string) string {
	return name.ReplaceAllStringFunc(text, func(word string) string {
		if m.matches(word) {
			return Mask
		}
		return word
	})
}
