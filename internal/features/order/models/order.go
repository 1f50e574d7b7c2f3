package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the order lifecycle state. pending is defined for a future
// pay-later flow but never persisted today: orders are only written once the
// payment is verified, so they start at active.
type Status string

const (
	StatusPending   Status = "pending"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusActive, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

// Terminal statuses permit no further transition.
func (s Status) Terminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether a status change is allowed. Only a verified
// order can be resolved, and only once.
func CanTransition(from, to Status) bool {
	return from == StatusActive && (to == StatusCompleted || to == StatusCancelled)
}

// Order is a purchased engagement package. Everything but Status is
// immutable after creation; the memo correlates the order with its on-chain
// payment and is not a key.
type Order struct {
	ID          string          `json:"id"`
	UserID      int64           `json:"userId"`
	ServiceID   int             `json:"serviceId"`
	ServiceName string          `json:"serviceName"`
	URL         string          `json:"url"`
	Quantity    int             `json:"quantity"`
	AmountTON   decimal.Decimal `json:"amountTon"`
	AmountRUB   decimal.Decimal `json:"amountRub"`
	Memo        string          `json:"memo"`
	Status      Status          `json:"status"`
	CreatedAt   time.Time       `json:"createdAt"`
}
