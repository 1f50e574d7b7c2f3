package repository

import (
	"context"
	"errors"

	"easysmm-backend/internal/features/order/models"
)

var (
	ErrNotFound = errors.New("order not found")
	// ErrNotActive is returned when a status change targets an order that is
	// already terminal (or otherwise not active).
	ErrNotActive = errors.New("order is not active")
)

type OrderRepository interface {
	// CreateWithStats inserts the order and increments the owner's aggregate
	// counters in one transaction: both happen or neither does.
	CreateWithStats(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id string) (*models.Order, error)
	// ListByUser returns the user's orders, most recent first.
	ListByUser(ctx context.Context, userID int64) ([]*models.Order, error)
	// ListAll returns all orders, most recent first, bounded by limit.
	ListAll(ctx context.Context, limit int) ([]*models.Order, error)
	// UpdateStatus transitions an active order to a terminal status.
	UpdateStatus(ctx context.Context, id string, to models.Status) error
}
