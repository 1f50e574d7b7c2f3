package service

import (
	"context"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/features/catalog"
	"easysmm-backend/internal/features/order/repository"
	"easysmm-backend/internal/features/stats"
)

// globalScanLimit bounds the global aggregate; old orders past the limit
// fall out of the admin dashboard rather than slowing it down.
const globalScanLimit = 10000

type StatsService interface {
	// ForUser aggregates one user's orders.
	ForUser(ctx context.Context, userID int64) (*stats.Stats, error)
	// Global aggregates across all users.
	Global(ctx context.Context) (*stats.Stats, error)
}

type statsService struct {
	orders  repository.OrderRepository
	catalog catalog.Catalog
}

func NewStatsService(orders repository.OrderRepository, cat catalog.Catalog) StatsService {
	return &statsService{orders: orders, catalog: cat}
}

func (s *statsService) ForUser(ctx context.Context, userID int64) (*stats.Stats, error) {
	orders, err := s.orders.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to load orders for stats")
	}
	out := stats.Compute(orders, s.catalog)
	return &out, nil
}

func (s *statsService) Global(ctx context.Context) (*stats.Stats, error) {
	orders, err := s.orders.ListAll(ctx, globalScanLimit)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to load orders for stats")
	}
	out := stats.Compute(orders, s.catalog)
	return &out, nil
}
