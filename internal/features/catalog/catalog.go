package catalog

import "github.com/shopspring/decimal"

// Category buckets a service's engagement for stats aggregation. The set is
// closed: every service maps to exactly one bucket.
type Category string

const (
	CategorySubscribers Category = "subscribers"
	CategoryViews       Category = "views"
	CategoryReactions   Category = "reactions"
	CategoryBotUsers    Category = "bot_users"
)

// Service is a static catalog entry. Read-only reference data: it defines
// pricing and validation bounds for orders and the category used for stats.
type Service struct {
	ID          int             `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Min         int             `json:"min"`
	Max         int             `json:"max"`
	PricePerK   decimal.Decimal `json:"price_per_k"`
	Category    Category        `json:"category"`
	URLExample  string          `json:"url_example"`
	URLPrompt   string          `json:"url_prompt"`
}

// InBounds reports whether a requested quantity respects the service limits.
func (s Service) InBounds(quantity int) bool {
	return quantity >= s.Min && quantity <= s.Max
}

// Catalog is an immutable lookup table over services. It is built once at
// startup and passed explicitly to everything that needs it.
type Catalog struct {
	services []Service
	byID     map[int]Service
}

func New(services []Service) Catalog {
	byID := make(map[int]Service, len(services))
	for _, s := range services {
		byID[s.ID] = s
	}
	return Catalog{services: services, byID: byID}
}

// Services returns the catalog entries in display order.
func (c Catalog) Services() []Service {
	out := make([]Service, len(c.services))
	copy(out, c.services)
	return out
}

// FindByID looks up a service. ok is false for retired/unknown ids; callers
// are expected to skip gracefully, not fail.
func (c Catalog) FindByID(id int) (Service, bool) {
	s, ok := c.byID[id]
	return s, ok
}

// Default returns the production service list.
func Default() Catalog {
	return New([]Service{
		{
			ID:          387,
			Name:        "🇷🇺 Русские подписчики",
			Description: "Моментальный старт. Скорость до 100k в сутки. Гарантия 30 дней.",
			Min:         550,
			Max:         500000,
			PricePerK:   decimal.RequireFromString("250.20"),
			Category:    CategorySubscribers,
			URLExample:  "https://t.me/channelname",
			URLPrompt:   "Ссылка на канал (публичный)",
		},
		{
			ID:          121,
			Name:        "🔥 RU Просмотры",
			Description: "Скорость 30/мин. Плавное добавление. Только на посты.",
			Min:         7000,
			Max:         10000,
			PricePerK:   decimal.RequireFromString("20.00"),
			Category:    CategoryViews,
			URLExample:  "https://t.me/channel/123",
			URLPrompt:   "Ссылка на пост",
		},
		{
			ID:          128,
			Name:        "👍 Позитивные реакции",
			Description: "Mix позитивных реакций: 👍 ❤️ 🔥 🎉",
			Min:         6000,
			Max:         200000,
			PricePerK:   decimal.RequireFromString("20.00"),
			Category:    CategoryReactions,
			URLExample:  "https://t.me/channel/123",
			URLPrompt:   "Ссылка на пост",
		},
		{
			ID:          129,
			Name:        "👎 Негативные реакции",
			Description: "Mix негативных реакций: 👎 💩 🤮",
			Min:         6000,
			Max:         10000,
			PricePerK:   decimal.RequireFromString("25.00"),
			Category:    CategoryReactions,
			URLExample:  "https://t.me/channel/123",
			URLPrompt:   "Ссылка на пост",
		},
		{
			ID:          372,
			Name:        "🤖 Подписчики для Бота",
			Description: "Запуски бота из разных стран. Быстрый старт.",
			Min:         3000,
			Max:         30000,
			PricePerK:   decimal.RequireFromString("45.00"),
			Category:    CategoryBotUsers,
			URLExample:  "https://t.me/mybot",
			URLPrompt:   "Ссылка на бота",
		},
	})
}
