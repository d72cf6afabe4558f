package ports

import (
	"context"

	"github.com/salustyck/storefront/internal/domain"
)

// CartObserver — подписчик на изменения корзины (слой отображения, касса).
// Уведомление приходит после каждой мутации и после каждого расхождения,
// найденного циклом синхронизации; снимок передаётся копией.
type CartObserver interface {
	OnCartChanged(ctx context.Context, cart domain.Cart, totals domain.Totals)
}
