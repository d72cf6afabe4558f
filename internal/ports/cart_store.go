package ports

import (
	"context"

	"github.com/salustyck/storefront/internal/domain"
)

// CartStore — долговременное хранилище корзины (единственный владелец носителя).
// Требования к реализации: Load обязан самовосстанавливаться на битом содержимом
// (трактовать его как пустую корзину и перезаписать); Save — атомарная запись целиком,
// частичных состояний на носителе быть не должно; повторов при ошибке записи нет —
// повтор откладывается до следующей мутации или цикла синхронизации.
type CartStore interface {
	// Load — прочитать корзину; отсутствие записи — это пустая корзина, не ошибка.
	Load(ctx context.Context) (domain.Cart, error)

	// Save — записать корзину целиком.
	Save(ctx context.Context, cart domain.Cart) error

	// Erase — стереть долговременную копию (очистка корзины).
	Erase(ctx context.Context) error
}
