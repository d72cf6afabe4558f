package domain

// ShippingPolicy — пороговая модель доставки: бесплатно от FreeShippingThreshold,
// иначе фиксированная плата ShippingFee.
type ShippingPolicy struct {
	FreeShippingThreshold int64
	ShippingFee           int64
}

// Totals — вычисленные суммы корзины. Единый формат и для показа корзины,
// и для оформления заказа — источники расхождений исключены.
type Totals struct {
	Subtotal              int64 `json:"subtotal"`
	ShippingFee           int64 `json:"shippingFee"`
	GrandTotal            int64 `json:"grandTotal"`
	FreeShippingRemaining int64 `json:"freeShippingRemaining"`
}

// ComputeTotals — единственная точка расчёта сумм по корзине и политике доставки.
func ComputeTotals(c Cart, p ShippingPolicy) Totals {
	subtotal := c.Subtotal()

	var fee int64
	if subtotal < p.FreeShippingThreshold {
		fee = p.ShippingFee
	}

	remaining := p.FreeShippingThreshold - subtotal
	if remaining < 0 {
		remaining = 0
	}

	return Totals{
		Subtotal:              subtotal,
		ShippingFee:           fee,
		GrandTotal:            subtotal + fee,
		FreeShippingRemaining: remaining,
	}
}
