package payment

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"easysmm-backend/internal/platform/tonapi"
)

const testWallet = "0:feedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedfacefeedface"

type stubFeed struct {
	txs []tonapi.Transaction
	err error
}

func (s *stubFeed) GetTransactions(_ context.Context, _ string, _ int) ([]tonapi.Transaction, error) {
	return s.txs, s.err
}

func incomingTx(hash string, nano int64, comment string) tonapi.Transaction {
	return tonapi.Transaction{
		Hash:    hash,
		Success: true,
		InMsg: &tonapi.Message{
			Value:       nano,
			Destination: &tonapi.AccountRef{Address: testWallet},
			DecodedBody: &tonapi.DecodedBody{Text: comment},
		},
	}
}

func ton(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestVerifyMatch(t *testing.T) {
	feed := &stubFeed{txs: []tonapi.Transaction{
		incomingTx("aa11", 1_354_000_000, "482913"),
	}}

	res := NewVerifier(feed, testWallet).Verify(context.Background(), "482913", ton("1.354"))

	assert.True(t, res.Verified)
	assert.Equal(t, "aa11", res.TxHash)
	assert.Empty(t, res.Message)
}

func TestVerifyAmountTolerance(t *testing.T) {
	expected := ton("2.000")

	cases := []struct {
		name string
		nano int64
		want bool
	}{
		{"exact", 2_000_000_000, true},
		{"short by 0.049", 1_951_000_000, true},
		{"short by 0.051", 1_949_000_000, false},
		{"over by 0.049", 2_049_000_000, true},
		{"over by 0.051", 2_051_000_000, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			feed := &stubFeed{txs: []tonapi.Transaction{
				incomingTx("bb22", tc.nano, "111222"),
			}}

			res := NewVerifier(feed, testWallet).Verify(context.Background(), "111222", expected)
			assert.Equal(t, tc.want, res.Verified)
		})
	}
}

func TestVerifyMemoSubstring(t *testing.T) {
	cases := []struct {
		name    string
		comment string
		want    bool
	}{
		{"exact", "482913", true},
		{"embedded in text", "order 482913 thanks", true},
		// Substring semantics are intentional: a longer code containing the
		// memo still matches.
		{"memo is a prefix of a longer code", "4829131", true},
		{"different code", "482914", false},
		{"no comment", "", false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			feed := &stubFeed{txs: []tonapi.Transaction{
				incomingTx("cc33", 1_000_000_000, tc.comment),
			}}

			res := NewVerifier(feed, testWallet).Verify(context.Background(), "482913", ton("1"))
			assert.Equal(t, tc.want, res.Verified)
		})
	}
}

func TestVerifyIgnoresOtherDestinations(t *testing.T) {
	tx := incomingTx("dd44", 1_000_000_000, "482913")
	tx.InMsg.Destination.Address = "0:0000000000000000000000000000000000000000000000000000000000000000"

	feed := &stubFeed{txs: []tonapi.Transaction{tx}}
	res := NewVerifier(feed, testWallet).Verify(context.Background(), "482913", ton("1"))

	assert.False(t, res.Verified)
}

func TestVerifyFirstMatchWins(t *testing.T) {
	feed := &stubFeed{txs: []tonapi.Transaction{
		incomingTx("newest", 1_000_000_000, "482913"),
		incomingTx("older", 1_000_000_000, "482913"),
	}}

	res := NewVerifier(feed, testWallet).Verify(context.Background(), "482913", ton("1"))

	assert.True(t, res.Verified)
	assert.Equal(t, "newest", res.TxHash)
}

func TestVerifyFeedErrorIsSoft(t *testing.T) {
	feed := &stubFeed{err: errors.New("rate limited")}

	res := NewVerifier(feed, testWallet).Verify(context.Background(), "482913", ton("1"))

	assert.False(t, res.Verified)
	assert.NotEmpty(t, res.Message)
	assert.Empty(t, res.TxHash)
}

func TestVerifyEmptyFeedIsSoft(t *testing.T) {
	feed := &stubFeed{}

	res := NewVerifier(feed, testWallet).Verify(context.Background(), "482913", ton("1"))

	assert.False(t, res.Verified)
	assert.NotEmpty(t, res.Message)
}

func TestVerifyIsIdempotent(t *testing.T) {
	feed := &stubFeed{txs: []tonapi.Transaction{
		incomingTx("ee55", 1_354_000_000, "482913"),
	}}
	v := NewVerifier(feed, testWallet)

	first := v.Verify(context.Background(), "482913", ton("1.354"))
	second := v.Verify(context.Background(), "482913", ton("1.354"))

	assert.Equal(t, first, second)
}
