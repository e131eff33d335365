package app

import (
	"context"
	"fmt"
	"time"

	"hotel_desk/internal/domain"
)

// QueryService serves the read side of the desk: the occupancy board and
// revenue stats, both cached. Plain entity reads go straight to the repos
// from the handlers; only the aggregate queries are worth a cache.
type QueryService struct {
	bookings domain.BookingRepository
	invoices domain.InvoiceRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewQueryService(b domain.BookingRepository, i domain.InvoiceRepository, c domain.Cache, ttl time.Duration) *QueryService {
	return &QueryService{bookings: b, invoices: i, cache: c, cacheTTL: ttl}
}

func (s *QueryService) Occupancy(ctx context.Context) ([]domain.OccupancyRow, error) {
	var out []domain.OccupancyRow
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, occupancyKey, &out); ok {
			return out, nil
		}
	}
	rows, err := s.bookings.ListOccupancy(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, occupancyKey, rows, int(s.cacheTTL.Seconds()))
	}
	return rows, nil
}

func statsKey(from, to *time.Time) string {
	f, t := "", ""
	if from != nil {
		f = from.UTC().Format("2006-01-02")
	}
	if to != nil {
		t = to.UTC().Format("2006-01-02")
	}
	return fmt.Sprintf("stats:revenue:%s:%s", f, t)
}

func (s *QueryService) RevenueStats(ctx context.Context, from, to *time.Time) (domain.RevenueStats, error) {
	key := statsKey(from, to)
	var out domain.RevenueStats
	if s.cache != nil {
		if ok, _ := s.cache.Get(ctx, key, &out); ok {
			return out, nil
		}
	}
	st, err := s.invoices.RevenueStats(ctx, from, to)
	if err != nil {
		return domain.RevenueStats{}, err
	}
	if s.cache != nil {
		_ = s.cache.Set(ctx, key, st, int(s.cacheTTL.Seconds()))
	}
	return st, nil
}
