package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"easysmm-backend/internal/common/logger"
	"easysmm-backend/internal/features/auth"
	"easysmm-backend/internal/features/order/models"
	"easysmm-backend/internal/features/pricing"
	"easysmm-backend/internal/platform/telegram"
)

const sendTimeout = 10 * time.Second

// Service pushes operational events to the admin chat. Delivery is
// best-effort: a Telegram outage is logged and never surfaces to the
// customer flow.
type Service struct {
	tg      *telegram.Client
	adminID int64
}

func NewService(tg *telegram.Client, adminID int64) *Service {
	return &Service{tg: tg, adminID: adminID}
}

// NotifyNewOrder announces a verified order to the operator.
func (s *Service) NotifyNewOrder(order *models.Order, ident *auth.Identity) {
	ctx, cancel := context.WithTimeout(context.Background(), sendTimeout)
	defer cancel()

	if err := s.tg.SendMessage(ctx, s.adminID, newOrderMessage(order, ident)); err != nil {
		logger.Error().Err(err).Str("order_id", order.ID).Msg("failed to notify admin about new order")
	}
}

func newOrderMessage(order *models.Order, ident *auth.Identity) string {
	customer := strings.TrimSpace(ident.FirstName + " " + ident.LastName)
	if ident.Username != "" {
		customer = fmt.Sprintf("%s (@%s)", customer, ident.Username)
	}

	var b strings.Builder
	b.WriteString("📦 <b>НОВЫЙ ЗАКАЗ!</b>\n\n")
	fmt.Fprintf(&b, "Услуга: %s\n", escapeHTML(order.ServiceName))
	fmt.Fprintf(&b, "Количество: %d\n", order.Quantity)
	fmt.Fprintf(&b, "Ссылка: %s\n", escapeHTML(order.URL))
	fmt.Fprintf(&b, "Сумма: %s TON\n", pricing.FormatTON(order.AmountTON))
	fmt.Fprintf(&b, "Memo: <code>%s</code>\n\n", order.Memo)
	fmt.Fprintf(&b, "Клиент: <a href=\"tg://user?id=%d\">%s</a>", order.UserID, escapeHTML(customer))
	return b.String()
}

func escapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}
