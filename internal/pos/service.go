// Package pos holds the shop's business operations: catalog and customer
// maintenance, checkout, and due collection. Every operation validates its
// request completely before the first write, and multi-row changes commit
// as one unit.
package pos

import (
	"time"

	"shoppos/m/domain"
	"shoppos/m/internal/store"
)

type Service struct {
	store *store.Store
	now   func() time.Time
}

type Option func(*Service)

// WithClock replaces time.Now as the source of sale and payment timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st *store.Store, opts ...Option) *Service {
	s := &Service{store: st, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) timestamp() string {
	return s.now().Format(domain.TimeLayout)
}
