package service

import (
	"context"
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/features/auth"
	"easysmm-backend/internal/features/catalog"
	"easysmm-backend/internal/features/order/models"
	"easysmm-backend/internal/features/order/repository"
	"easysmm-backend/internal/features/payment"
)

type stubRepo struct {
	created      []*models.Order
	createErr    error
	orders       []*models.Order
	updateErr    error
	updateCalled bool
}

func (r *stubRepo) CreateWithStats(_ context.Context, order *models.Order) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.created = append(r.created, order)
	return nil
}

func (r *stubRepo) GetByID(_ context.Context, id string) (*models.Order, error) {
	for _, o := range r.orders {
		if o.ID == id {
			return o, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (r *stubRepo) ListByUser(_ context.Context, userID int64) ([]*models.Order, error) {
	var out []*models.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (r *stubRepo) ListAll(_ context.Context, limit int) ([]*models.Order, error) {
	if limit > len(r.orders) {
		limit = len(r.orders)
	}
	return r.orders[:limit], nil
}

func (r *stubRepo) UpdateStatus(_ context.Context, _ string, _ models.Status) error {
	r.updateCalled = true
	return r.updateErr
}

type stubVerifier struct {
	result payment.Result
	calls  int
}

func (v *stubVerifier) Verify(_ context.Context, _ string, _ decimal.Decimal) payment.Result {
	v.calls++
	return v.result
}

func newService(repo *stubRepo, verifier *stubVerifier) OrderService {
	return NewOrderService(repo, catalog.Default(), verifier, nil, "UQtest-wallet")
}

func validInput() CreateInput {
	return CreateInput{
		ServiceID: 387,
		URL:       "https://t.me/somechannel",
		Quantity:  1000,
		Memo:      "482913",
	}
}

func caller() *auth.Identity {
	return &auth.Identity{ID: 111, FirstName: "Ivan", Username: "ivan"}
}

func TestCreatePersistsOnlyWhenVerified(t *testing.T) {
	repo := &stubRepo{}
	verifier := &stubVerifier{result: payment.Result{Verified: true, TxHash: "abc123"}}
	svc := newService(repo, verifier)

	res, err := svc.Create(context.Background(), caller(), validInput())
	require.NoError(t, err)

	assert.True(t, res.Success)
	assert.True(t, res.Verified)
	assert.Equal(t, "abc123", res.TxHash)
	require.Len(t, repo.created, 1)

	saved := repo.created[0]
	assert.Equal(t, int64(111), saved.UserID)
	assert.Equal(t, models.StatusActive, saved.Status)
	assert.NotEmpty(t, saved.ID)
	// Amounts are recomputed server-side: 1000 * 250.20 / 1000 RUB.
	assert.Equal(t, "250.20", saved.AmountRUB.StringFixed(2))
}

func TestCreateUnmatchedPaymentIsNotAnError(t *testing.T) {
	repo := &stubRepo{}
	verifier := &stubVerifier{result: payment.Result{
		Verified: false,
		Message:  "Транзакции не найдены.",
	}}
	svc := newService(repo, verifier)

	res, err := svc.Create(context.Background(), caller(), validInput())
	require.NoError(t, err)

	assert.False(t, res.Success)
	assert.False(t, res.Verified)
	assert.Equal(t, "Транзакции не найдены.", res.Message)
	assert.Empty(t, repo.created, "unverified payment must not persist an order")
}

func TestCreateValidation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"unknown service", func(in *CreateInput) { in.ServiceID = 999 }},
		{"below minimum", func(in *CreateInput) { in.Quantity = 100 }},
		{"above maximum", func(in *CreateInput) { in.Quantity = 500001 }},
		{"zero quantity", func(in *CreateInput) { in.Quantity = 0 }},
		{"bad url scheme", func(in *CreateInput) { in.URL = "ftp://t.me/channel" }},
		{"empty url", func(in *CreateInput) { in.URL = "" }},
		{"short memo", func(in *CreateInput) { in.Memo = "12345" }},
		{"non-numeric memo", func(in *CreateInput) { in.Memo = "48291a" }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &stubRepo{}
			verifier := &stubVerifier{result: payment.Result{Verified: true}}
			svc := newService(repo, verifier)

			in := validInput()
			tc.mutate(&in)

			_, err := svc.Create(context.Background(), caller(), in)
			require.Error(t, err)

			appErr, ok := apperr.As(err)
			require.True(t, ok)
			assert.Equal(t, apperr.CodeValidation, appErr.Code)
			assert.Zero(t, verifier.calls, "invalid input must not reach the payment feed")
			assert.Empty(t, repo.created)
		})
	}
}

func TestCreateAcceptsTelegramDeepLink(t *testing.T) {
	repo := &stubRepo{}
	svc := newService(repo, &stubVerifier{result: payment.Result{Verified: true}})

	in := validInput()
	in.URL = "tg://resolve?domain=somechannel"

	_, err := svc.Create(context.Background(), caller(), in)
	require.NoError(t, err)
	assert.Len(t, repo.created, 1)
}

func TestQuote(t *testing.T) {
	svc := newService(&stubRepo{}, &stubVerifier{})

	q, err := svc.Quote(context.Background(), 387, 550)
	require.NoError(t, err)

	assert.Equal(t, "137.61", q.AmountRUB)
	assert.Equal(t, "1.354", q.AmountTON)
	assert.Regexp(t, `^[1-9]\d{5}$`, q.Memo)
	assert.Equal(t, "UQtest-wallet", q.Wallet)
}

func TestQuoteRejectsOutOfBounds(t *testing.T) {
	svc := newService(&stubRepo{}, &stubVerifier{})

	_, err := svc.Quote(context.Background(), 387, 1)
	require.Error(t, err)

	_, err = svc.Quote(context.Background(), 42, 1000)
	require.Error(t, err)
}

func TestListOwnOrders(t *testing.T) {
	repo := &stubRepo{orders: []*models.Order{
		{ID: "a", UserID: 111},
		{ID: "b", UserID: 222},
	}}
	svc := newService(repo, &stubVerifier{})

	orders, err := svc.List(context.Background(), 111, false, 0, false)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "a", orders[0].ID)
}

func TestListForbidsReadingOthers(t *testing.T) {
	svc := newService(&stubRepo{}, &stubVerifier{})

	_, err := svc.List(context.Background(), 111, false, 222, false)
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeForbidden, appErr.Code)
}

func TestListAdminCanReadAnyoneAndAll(t *testing.T) {
	repo := &stubRepo{orders: []*models.Order{
		{ID: "a", UserID: 111},
		{ID: "b", UserID: 222},
	}}
	svc := newService(repo, &stubVerifier{})

	orders, err := svc.List(context.Background(), 999, true, 222, false)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "b", orders[0].ID)

	orders, err = svc.List(context.Background(), 999, true, 0, true)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestListAllRequiresAdmin(t *testing.T) {
	svc := newService(&stubRepo{}, &stubVerifier{})

	_, err := svc.List(context.Background(), 111, false, 0, true)
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeForbidden, appErr.Code)
}

func TestSetStatus(t *testing.T) {
	t.Run("valid transition", func(t *testing.T) {
		repo := &stubRepo{}
		svc := newService(repo, &stubVerifier{})

		require.NoError(t, svc.SetStatus(context.Background(), "a", models.StatusCompleted))
		assert.True(t, repo.updateCalled)
	})

	t.Run("rejects non-terminal target", func(t *testing.T) {
		repo := &stubRepo{}
		svc := newService(repo, &stubVerifier{})

		err := svc.SetStatus(context.Background(), "a", models.StatusPending)
		require.Error(t, err)
		assert.False(t, repo.updateCalled)
	})

	t.Run("missing order", func(t *testing.T) {
		repo := &stubRepo{updateErr: repository.ErrNotFound}
		svc := newService(repo, &stubVerifier{})

		err := svc.SetStatus(context.Background(), "missing", models.StatusCancelled)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.CodeNotFound, appErr.Code)
	})

	t.Run("already resolved", func(t *testing.T) {
		repo := &stubRepo{updateErr: repository.ErrNotActive}
		svc := newService(repo, &stubVerifier{})

		err := svc.SetStatus(context.Background(), "done", models.StatusCompleted)
		appErr, ok := apperr.As(err)
		require.True(t, ok)
		assert.Equal(t, apperr.CodeConflict, appErr.Code)
	})
}

func TestCreateRepositoryFailureIsUpstream(t *testing.T) {
	repo := &stubRepo{createErr: errors.New("connection refused")}
	svc := newService(repo, &stubVerifier{result: payment.Result{Verified: true}})

	_, err := svc.Create(context.Background(), caller(), validInput())
	require.Error(t, err)

	appErr, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.CodeUpstreamUnavailable, appErr.Code)
}
