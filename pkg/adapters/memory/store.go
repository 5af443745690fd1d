package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/aretw0/wayfinder/pkg/domain"
)

// Store implements ports.ReportStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Report
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Report),
	}
}

// Save persists a copy of the report.
func (s *Store) Save(ctx context.Context, report *domain.Report) error {
	copied := report.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[report.ID] = copied
	return nil
}

// Load returns a copy so callers cannot mutate stored reports.
func (s *Store) Load(ctx context.Context, id string) (*domain.Report, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	report, ok := s.data[id]
	if !ok {
		return nil, domain.ErrReportNotFound
	}
	return report.Clone(), nil
}

// Delete removes the report.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns report IDs, most recent first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	reports := make([]*domain.Report, 0, len(s.data))
	for _, r := range s.data {
		reports = append(reports, r)
	}
	s.mu.RUnlock()

	slices.SortFunc(reports, func(a, b *domain.Report) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	ids := make([]string, len(reports))
	for i, r := range reports {
		ids[i] = r.ID
	}
	return ids, nil
}
