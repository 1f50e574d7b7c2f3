package pricing

import (
	"crypto/rand"
	"math/big"

	"github.com/shopspring/decimal"
)

// TonToRub is the fixed RUB/TON exchange rate. There is no live FX lookup:
// prices are quoted against this constant.
var TonToRub = decimal.RequireFromString("101.63")

// Quote is the cost of an order in both currencies. Amounts are exact; any
// rounding happens at presentation time only.
type Quote struct {
	RUB decimal.Decimal
	TON decimal.Decimal
}

// Price computes the cost of quantity units at pricePerK rubles per thousand:
// RUB = quantity * pricePerK / 1000, TON = RUB / TonToRub. Deterministic and
// side-effect-free; callers clamp quantity to the service bounds beforehand.
func Price(quantity int, pricePerK decimal.Decimal) Quote {
	rub := pricePerK.Mul(decimal.NewFromInt(int64(quantity))).Div(decimal.NewFromInt(1000))
	return Quote{
		RUB: rub,
		TON: rub.Div(TonToRub),
	}
}

// FormatTON renders a TON amount the way payment instructions show it.
func FormatTON(amount decimal.Decimal) string {
	return amount.StringFixed(3)
}

// FormatRUB renders a ruble amount for display.
func FormatRUB(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

// NewMemo mints a random 6-digit payment correlation code. Not globally
// unique: the verifier matches memo and amount together.
func NewMemo() string {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		// crypto/rand failing means the process is in no state to serve.
		panic(err)
	}
	return big.NewInt(0).Add(n, big.NewInt(100000)).String()
}
