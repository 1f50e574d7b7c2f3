package stats

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"easysmm-backend/internal/features/catalog"
	"easysmm-backend/internal/features/order/models"
)

func ton(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestComputeCancelledCountsButDoesNotSpend(t *testing.T) {
	orders := []*models.Order{
		{ServiceID: 121, Quantity: 1000, AmountTON: ton("0.197"), Status: models.StatusActive},
		{ServiceID: 121, Quantity: 5000, AmountTON: ton("0.984"), Status: models.StatusCancelled},
	}

	got := Compute(orders, catalog.Default())

	assert.Equal(t, 2, got.TotalOrders)
	assert.Equal(t, 1000, got.Engagement.Views)
	assert.True(t, got.TotalSpentTON.Equal(ton("0.197")), "spent %s", got.TotalSpentTON)
}

func TestComputeBucketsByCategory(t *testing.T) {
	orders := []*models.Order{
		{ServiceID: 387, Quantity: 550, AmountTON: ton("1.354"), Status: models.StatusCompleted},
		{ServiceID: 121, Quantity: 7000, AmountTON: ton("1.378"), Status: models.StatusActive},
		{ServiceID: 128, Quantity: 6000, AmountTON: ton("1.181"), Status: models.StatusActive},
		{ServiceID: 129, Quantity: 6000, AmountTON: ton("1.476"), Status: models.StatusActive},
		{ServiceID: 372, Quantity: 3000, AmountTON: ton("1.328"), Status: models.StatusActive},
	}

	got := Compute(orders, catalog.Default())

	assert.Equal(t, 5, got.TotalOrders)
	assert.Equal(t, 550, got.Engagement.Subscribers)
	assert.Equal(t, 7000, got.Engagement.Views)
	assert.Equal(t, 12000, got.Engagement.Reactions)
	assert.Equal(t, 3000, got.Engagement.BotUsers)
	assert.True(t, got.TotalSpentTON.Equal(ton("6.717")), "spent %s", got.TotalSpentTON)
}

func TestComputeUnknownServiceSkipsBucketOnly(t *testing.T) {
	orders := []*models.Order{
		{ServiceID: 42, Quantity: 1000, AmountTON: ton("0.500"), Status: models.StatusActive},
	}

	got := Compute(orders, catalog.Default())

	assert.Equal(t, 1, got.TotalOrders)
	assert.True(t, got.TotalSpentTON.Equal(ton("0.500")))
	assert.Equal(t, Breakdown{}, got.Engagement)
}

func TestComputeEmpty(t *testing.T) {
	got := Compute(nil, catalog.Default())

	assert.Equal(t, 0, got.TotalOrders)
	assert.True(t, got.TotalSpentTON.IsZero())
}
