package pricing

import (
	"regexp"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceExactArithmetic(t *testing.T) {
	cases := []struct {
		name      string
		quantity  int
		pricePerK string
		wantRUB   string
	}{
		{"views minimum", 7000, "20.00", "140"},
		{"reactions", 6000, "25.00", "150"},
		{"subscribers minimum", 550, "250.20", "137.61"},
		{"single thousand", 1000, "45.00", "45"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			q := Price(tc.quantity, decimal.RequireFromString(tc.pricePerK))

			wantRUB := decimal.RequireFromString(tc.wantRUB)
			assert.True(t, q.RUB.Equal(wantRUB), "RUB = %s, want %s", q.RUB, wantRUB)
			assert.True(t, q.TON.Equal(wantRUB.Div(TonToRub)), "TON must equal RUB / rate")
		})
	}
}

func TestPriceEndToEndScenario(t *testing.T) {
	// 550 units at 250.20 RUB/k -> 137.61 RUB -> 1.354 TON at 101.63.
	q := Price(550, decimal.RequireFromString("250.20"))

	require.Equal(t, "137.61", FormatRUB(q.RUB))
	require.Equal(t, "1.354", FormatTON(q.TON))
}

func TestPriceDeterministic(t *testing.T) {
	p := decimal.RequireFromString("250.20")
	first := Price(550, p)
	second := Price(550, p)

	assert.True(t, first.RUB.Equal(second.RUB))
	assert.True(t, first.TON.Equal(second.TON))
}

func TestNewMemoFormat(t *testing.T) {
	sixDigits := regexp.MustCompile(`^[1-9]\d{5}$`)

	for i := 0; i < 100; i++ {
		memo := NewMemo()
		assert.Regexp(t, sixDigits, memo)
	}
}
