// Package reporting provides the read-only admin projections over paid
// jobs. No atomicity concerns: plain committed reads.
package reporting

import (
	"context"
	"time"

	"github.com/gighall/gighall/internal/domain"
)

// DefaultBestClientsLimit is used when the caller supplies no limit.
const DefaultBestClientsLimit = 2

// Service answers the admin reporting queries.
type Service struct {
	store domain.ReportStore
}

// New creates a reporting service.
func New(store domain.ReportStore) *Service {
	return &Service{store: store}
}

// BestProfession returns the profession with the highest earnings over
// paid jobs whose payment date falls in [start, end].
func (s *Service) BestProfession(ctx context.Context, start, end time.Time) (*domain.ProfessionEarnings, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	return s.store.BestProfession(ctx, start, end)
}

// BestClients returns the top clients by amount paid in [start, end],
// descending. A non-positive limit falls back to the default.
func (s *Service) BestClients(ctx context.Context, start, end time.Time, limit int) ([]domain.ClientSpend, error) {
	if start.IsZero() || end.IsZero() {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = DefaultBestClientsLimit
	}
	return s.store.BestClients(ctx, start, end, limit)
}
