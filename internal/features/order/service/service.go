package service

import (
	"context"
	"errors"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"easysmm-backend/internal/common/apperr"
	"easysmm-backend/internal/features/auth"
	"easysmm-backend/internal/features/catalog"
	"easysmm-backend/internal/features/order/models"
	"easysmm-backend/internal/features/order/repository"
	"easysmm-backend/internal/features/payment"
	"easysmm-backend/internal/features/pricing"
)

// adminListLimit bounds the admin order view.
const adminListLimit = 200

var memoPattern = regexp.MustCompile(`^\d{6}$`)

// Accepted target URL schemes: web links and Telegram deep links.
var allowedSchemes = []string{"http://", "https://", "tg://"}

// PaymentVerifier matches an expected payment against the transaction feed.
type PaymentVerifier interface {
	Verify(ctx context.Context, memo string, expectedTON decimal.Decimal) payment.Result
}

// Notifier informs the operator about new orders. Fire-and-forget.
type Notifier interface {
	NotifyNewOrder(order *models.Order, ident *auth.Identity)
}

// CreateInput is what the client submits. Amounts are never taken from the
// client: they are recomputed from the catalog. Any user id in the request
// body is ignored; the acting user comes from the verified identity.
type CreateInput struct {
	ID        string `json:"id"`
	ServiceID int    `json:"serviceId"`
	URL       string `json:"url"`
	Quantity  int    `json:"quantity"`
	Memo      string `json:"memo"`
}

// QuoteResult is the payment instruction for a prospective order.
type QuoteResult struct {
	AmountRUB string `json:"amountRub"`
	AmountTON string `json:"amountTon"`
	Memo      string `json:"memo"`
	Wallet    string `json:"wallet"`
}

// CreateResult reports the outcome of a submission. An unmatched payment is
// a negative result with guidance, not an error.
type CreateResult struct {
	Success  bool          `json:"success"`
	Verified bool          `json:"verified"`
	TxHash   string        `json:"txHash,omitempty"`
	Message  string        `json:"message,omitempty"`
	Order    *models.Order `json:"order,omitempty"`
}

type OrderService interface {
	// Quote prices a prospective order and mints its payment memo.
	Quote(ctx context.Context, serviceID, quantity int) (*QuoteResult, error)
	// Create verifies the payment and, only on a match, persists the order
	// as active together with the aggregate counter increment.
	Create(ctx context.Context, ident *auth.Identity, input CreateInput) (*CreateResult, error)
	// List returns the caller's orders, or everyone's for the admin view.
	List(ctx context.Context, callerID int64, isAdmin bool, targetUserID int64, all bool) ([]*models.Order, error)
	// SetStatus resolves an active order to a terminal status. Admin only.
	SetStatus(ctx context.Context, id string, to models.Status) error
}

type orderService struct {
	repo     repository.OrderRepository
	catalog  catalog.Catalog
	verifier PaymentVerifier
	notifier Notifier
	wallet   string
}

func NewOrderService(
	repo repository.OrderRepository,
	cat catalog.Catalog,
	verifier PaymentVerifier,
	notifier Notifier,
	wallet string,
) OrderService {
	return &orderService{
		repo:     repo,
		catalog:  cat,
		verifier: verifier,
		notifier: notifier,
		wallet:   wallet,
	}
}

func (s *orderService) Quote(ctx context.Context, serviceID, quantity int) (*QuoteResult, error) {
	svc, ok := s.catalog.FindByID(serviceID)
	if !ok {
		return nil, apperr.Validation("Unknown service")
	}
	if !svc.InBounds(quantity) {
		return nil, apperr.Validation("Quantity is out of service bounds")
	}

	quote := pricing.Price(quantity, svc.PricePerK)
	return &QuoteResult{
		AmountRUB: pricing.FormatRUB(quote.RUB),
		AmountTON: pricing.FormatTON(quote.TON),
		Memo:      pricing.NewMemo(),
		Wallet:    s.wallet,
	}, nil
}

func (s *orderService) Create(ctx context.Context, ident *auth.Identity, input CreateInput) (*CreateResult, error) {
	svc, ok := s.catalog.FindByID(input.ServiceID)
	if !ok {
		return nil, apperr.Validation("Unknown service")
	}
	if input.Quantity <= 0 || !svc.InBounds(input.Quantity) {
		return nil, apperr.Validation("Quantity is out of service bounds")
	}
	if !validURL(input.URL) {
		return nil, apperr.Validation("URL must start with http://, https:// or tg://")
	}
	if !memoPattern.MatchString(input.Memo) {
		return nil, apperr.Validation("Invalid payment memo")
	}

	// The client shows the quoted amount; the server recomputes it. A stale
	// or tampered quote simply fails the payment match.
	quote := pricing.Price(input.Quantity, svc.PricePerK)

	result := s.verifier.Verify(ctx, input.Memo, quote.TON)
	if !result.Verified {
		return &CreateResult{Success: false, Verified: false, Message: result.Message}, nil
	}

	order := &models.Order{
		ID:          input.ID,
		UserID:      ident.ID,
		ServiceID:   svc.ID,
		ServiceName: svc.Name,
		URL:         input.URL,
		Quantity:    input.Quantity,
		AmountTON:   quote.TON,
		AmountRUB:   quote.RUB,
		Memo:        input.Memo,
		Status:      models.StatusActive,
		CreatedAt:   time.Now().UTC(),
	}
	if order.ID == "" {
		order.ID = uuid.New().String()
	}

	if err := s.repo.CreateWithStats(ctx, order); err != nil {
		return nil, apperr.Upstream(err, "Failed to save order")
	}

	if s.notifier != nil {
		go s.notifier.NotifyNewOrder(order, ident)
	}

	return &CreateResult{
		Success:  true,
		Verified: true,
		TxHash:   result.TxHash,
		Order:    order,
	}, nil
}

func (s *orderService) List(ctx context.Context, callerID int64, isAdmin bool, targetUserID int64, all bool) ([]*models.Order, error) {
	if all {
		if !isAdmin {
			return nil, apperr.Forbidden("Admin access required")
		}
		orders, err := s.repo.ListAll(ctx, adminListLimit)
		if err != nil {
			return nil, apperr.Upstream(err, "Failed to list orders")
		}
		return orders, nil
	}

	if targetUserID == 0 {
		targetUserID = callerID
	}
	if targetUserID != callerID && !isAdmin {
		return nil, apperr.Forbidden("Cannot read another user's orders")
	}

	orders, err := s.repo.ListByUser(ctx, targetUserID)
	if err != nil {
		return nil, apperr.Upstream(err, "Failed to list orders")
	}
	return orders, nil
}

func (s *orderService) SetStatus(ctx context.Context, id string, to models.Status) error {
	if !models.CanTransition(models.StatusActive, to) {
		return apperr.Validation("Status must be completed or cancelled")
	}

	err := s.repo.UpdateStatus(ctx, id, to)
	if errors.Is(err, repository.ErrNotFound) {
		return apperr.NotFound("order")
	}
	if errors.Is(err, repository.ErrNotActive) {
		return apperr.New(apperr.CodeConflict, "Order is already resolved")
	}
	if err != nil {
		return apperr.Upstream(err, "Failed to update order status")
	}
	return nil
}

func validURL(url string) bool {
	for _, scheme := range allowedSchemes {
		if strings.HasPrefix(url, scheme) {
			return true
		}
	}
	return false
}
