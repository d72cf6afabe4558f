// Пакет pricing — чистый расчёт весовых цен по таблице «цена за 100 г».
// Без побочных эффектов: результат фиксируется на позиции корзины при добавлении
// и больше не пересчитывается, поэтому функции обязаны быть детерминированными.
package pricing

import "math"

// DefaultRatePerHundredGrams — ставка для неизвестного товара:
// расчёт цены не должен блокировать изменение корзины.
const DefaultRatePerHundredGrams = 50.0

// ratePerHundredGrams — цена за 100 г по каталожному идентификатору.
var ratePerHundredGrams = map[string]float64{
	"entrecote":     89.0,
	"ryggbiff":      69.0,
	"oxfile":        149.0,
	"flaskfile":     45.0,
	"lammkotletter": 95.0,
	"familjepaket":  55.0,
}

// weightTiers — фиксированный набор весовых фасовок, 350 г .. 5 кг.
var weightTiers = []int{350, 500, 750, 1000, 1250, 1500, 2000, 2500, 3000, 4000, 5000}

// Price — цена позиции: round(rate * weightGrams / 100).
// Произвольный положительный вес допустим (линейное масштабирование), пути ошибки нет.
func Price(productID string, weightGrams int) int64 {
	rate, ok := ratePerHundredGrams[productID]
	if !ok {
		rate = DefaultRatePerHundredGrams
	}
	return int64(math.Round(rate * float64(weightGrams) / 100))
}

// PricePerKg — цена за килограмм для показа, округление до 2 знаков.
func PricePerKg(price int64, weightGrams int) float64 {
	if weightGrams <= 0 {
		return 0
	}
	perKg := float64(price) / (float64(weightGrams) / 1000)
	return math.Round(perKg*100) / 100
}

// WeightTiers — копия набора фасовок (для выдачи наружу).
func WeightTiers() []int {
	return append([]int(nil), weightTiers...)
}

// IsKnownProduct — есть ли товар в таблице ставок.
func IsKnownProduct(productID string) bool {
	_, ok := ratePerHundredGrams[productID]
	return ok
}
