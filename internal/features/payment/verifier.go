package payment

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xssnick/tonutils-go/address"

	"easysmm-backend/internal/common/logger"
	"easysmm-backend/internal/platform/tonapi"
)

// feedLimit is how many recent transactions are scanned per check.
const feedLimit = 20

// amountTolerance absorbs user-side rounding: senders copy the displayed
// 3-decimal amount, so an exact nanoTON match cannot be required.
var amountTolerance = decimal.RequireFromString("0.05")

// TransactionFeed is the read-only view of recent wallet transactions,
// newest first.
type TransactionFeed interface {
	GetTransactions(ctx context.Context, address string, limit int) ([]tonapi.Transaction, error)
}

// Result is the outcome of a payment check. A miss is not an error: Message
// tells the user what to do next.
type Result struct {
	Verified bool   `json:"verified"`
	TxHash   string `json:"txHash,omitempty"`
	Message  string `json:"message,omitempty"`
}

// Verifier matches an expected (memo, amount) pair against the receiving
// wallet's transaction feed. Stateless: every call re-reads the feed and
// mutates nothing, so retries are free.
type Verifier struct {
	feed   TransactionFeed
	wallet string
	// walletRaw is the normalized form used to recognize incoming transfers;
	// the feed reports destinations in raw 0:hex form.
	walletRaw string
}

func NewVerifier(feed TransactionFeed, wallet string) *Verifier {
	return &Verifier{
		feed:      feed,
		wallet:    wallet,
		walletRaw: normalizeAddr(wallet),
	}
}

// Verify scans the feed for an incoming transaction whose amount is within
// tolerance of expectedTON and whose comment contains memo. Feed failures
// are soft: the caller retries on user action.
func (v *Verifier) Verify(ctx context.Context, memo string, expectedTON decimal.Decimal) Result {
	if memo == "" {
		return Result{Verified: false, Message: "Платеж не найден: пустой комментарий."}
	}

	txs, err := v.feed.GetTransactions(ctx, v.wallet, feedLimit)
	if err != nil {
		logger.Warn().Err(err).Msg("transaction feed unavailable")
		return Result{Verified: false, Message: "Ошибка API или лимит запросов. Попробуйте через 5 сек."}
	}
	if len(txs) == 0 {
		return Result{Verified: false, Message: "Транзакции не найдены."}
	}

	for _, tx := range txs {
		msg := tx.InMsg
		if msg == nil || msg.Destination == nil {
			continue
		}
		if normalizeAddr(msg.Destination.Address) != v.walletRaw {
			continue
		}

		// The feed reports nanoTON; bring both sides to TON before comparing.
		amount := decimal.New(msg.Value, -9)
		if amount.Sub(expectedTON).Abs().GreaterThanOrEqual(amountTolerance) {
			continue
		}

		if !strings.Contains(msg.Comment(), memo) {
			continue
		}

		return Result{Verified: true, TxHash: tx.Hash}
	}

	return Result{
		Verified: false,
		Message:  "Транзакция не найдена. Убедитесь, что отправили точную сумму с правильным комментарием.",
	}
}

// normalizeAddr brings a TON address to its raw workchain:hex form so that
// friendly (UQ…/EQ…) and raw spellings compare equal. Unparsable input is
// compared as-is.
func normalizeAddr(s string) string {
	if a, err := address.ParseAddr(s); err == nil {
		return strings.ToLower(a.StringRaw())
	}
	if a, err := address.ParseRawAddr(s); err == nil {
		return strings.ToLower(a.StringRaw())
	}
	return strings.ToLower(s)
}
