package domain

import "time"

// OrderForm — данные формы оформления заказа, введённые покупателем.
// Теги validate — контракт клиентской валидации (go-playground/validator).
type OrderForm struct {
	FirstName      string `json:"firstName" validate:"required"`
	LastName       string `json:"lastName" validate:"required"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required"`
	Address        string `json:"address" validate:"required"`
	PostalCode     string `json:"postalCode" validate:"required"`
	City           string `json:"city" validate:"required"`
	DeliveryWindow string `json:"deliveryTime" validate:"required,oneof=09-12 12-15 15-18 18-20"`
	PaymentMethod  string `json:"payment" validate:"required,oneof=card swish klarna"`
}

// Order — неизменяемый снимок оформленного заказа.
// После записи не зависит от корзины: её очистка заказ не меняет.
type Order struct {
	OrderUID  string     `json:"order_uid"`
	Reference string     `json:"reference"`
	Items     []CartItem `json:"items"`
	Totals    Totals     `json:"totals"`
	Customer  OrderForm  `json:"customer"`
	CreatedAt time.Time  `json:"created_at"`
}

// CloneItems — копия позиций заказа (снимок не должен делить память с корзиной).
func CloneItems(items []CartItem) []CartItem {
	if items == nil {
		return nil
	}
	return append([]CartItem(nil), items...)
}
