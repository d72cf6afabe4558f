package validate

import (
	"context"
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
)

// Проверка, что OrderFormValidator удовлетворяет порту FormValidator.
var _ ports.FormValidator = (*OrderFormValidator)(nil)

// ErrInvalidForm — базовая (sentinel error) ошибка валидации формы заказа.
var ErrInvalidForm = errors.New("order form validation failed")

// fieldMessages — сообщения по полям для слоя отображения.
// Ключи — имена полей в JSON, как их видит клиент.
var fieldMessages = map[string]string{
	"firstName":    "first name is required",
	"lastName":     "last name is required",
	"email":        "a valid email address is required",
	"phone":        "phone number is required",
	"address":      "street address is required",
	"postalCode":   "postal code is required",
	"city":         "city is required",
	"deliveryTime": "choose a delivery window",
	"payment":      "choose a payment method",
}

// OrderFormValidator — валидация формы заказа по validate-тегам domain.OrderForm.
type OrderFormValidator struct {
	v *validator.Validate
}

// NewOrderFormValidator — конструктор OrderFormValidator.
// Имена полей в ошибках берутся из json-тегов, чтобы совпадать с полезной нагрузкой клиента.
func NewOrderFormValidator() *OrderFormValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &OrderFormValidator{v: v}
}

// Validate — проверяет форму; возвращает ошибки по полям (пусто = форма валидна).
// Состояние кассы при невалидной форме не продвигается — решение за вызывающим.
func (ofv *OrderFormValidator) Validate(_ context.Context, form *domain.OrderForm) ports.FieldErrors {
	if form == nil {
		return ports.FieldErrors{"form": "order form is required"}
	}

	err := ofv.v.Struct(form)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return ports.FieldErrors{"form": err.Error()}
	}

	out := make(ports.FieldErrors, len(verrs))
	for _, fe := range verrs {
		msg, ok := fieldMessages[fe.Field()]
		if !ok {
			msg = "invalid value"
		}
		out[fe.Field()] = msg
	}
	return out
}
