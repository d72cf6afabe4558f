package ports

import (
	"context"

	"github.com/salustyck/storefront/internal/domain"
)

// FieldErrors — ошибки валидации формы по полям: имя поля → сообщение.
type FieldErrors map[string]string

// FormValidator — клиентская валидация формы заказа.
// Пустой результат означает валидную форму.
type FormValidator interface {
	Validate(ctx context.Context, form *domain.OrderForm) FieldErrors
}
