package stats

import (
	"github.com/shopspring/decimal"

	"easysmm-backend/internal/features/catalog"
	"easysmm-backend/internal/features/order/models"
)

// Breakdown is the delivered engagement per category. Quantities from
// cancelled orders are excluded: they were refunded, not delivered.
type Breakdown struct {
	Subscribers int `json:"subscribers"`
	Views       int `json:"views"`
	Reactions   int `json:"reactions"`
	BotUsers    int `json:"botUsers"`
}

// Stats is the aggregate over a set of orders. TotalOrders counts every
// order regardless of status; spend and engagement only count orders that
// were actually paid for and kept (active or completed).
type Stats struct {
	TotalOrders   int             `json:"totalOrders"`
	TotalSpentTON decimal.Decimal `json:"totalSpentTon"`
	Engagement    Breakdown       `json:"stats"`
}

// Compute aggregates orders against the catalog. Orders referencing a
// retired service id still count toward totals but land in no bucket.
func Compute(orders []*models.Order, cat catalog.Catalog) Stats {
	out := Stats{TotalSpentTON: decimal.Zero}

	for _, o := range orders {
		out.TotalOrders++

		if o.Status != models.StatusActive && o.Status != models.StatusCompleted {
			continue
		}
		out.TotalSpentTON = out.TotalSpentTON.Add(o.AmountTON)

		svc, ok := cat.FindByID(o.ServiceID)
		if !ok {
			continue
		}
		switch svc.Category {
		case catalog.CategorySubscribers:
			out.Engagement.Subscribers += o.Quantity
		case catalog.CategoryViews:
			out.Engagement.Views += o.Quantity
		case catalog.CategoryReactions:
			out.Engagement.Reactions += o.Quantity
		case catalog.CategoryBotUsers:
			out.Engagement.BotUsers += o.Quantity
		}
	}

	return out
}
