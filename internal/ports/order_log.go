package ports

import (
	"context"

	"github.com/salustyck/storefront/internal/domain"
)

// OrderLog — журнал оформленных заказов: только добавление, записи не переписываются.
type OrderLog interface {
	Append(ctx context.Context, order *domain.Order) error
	List(ctx context.Context) ([]domain.Order, error)
}
