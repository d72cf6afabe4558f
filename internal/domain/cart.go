package domain

import "strconv"

// CartItem — одна позиция корзины: товар в конкретной весовой фасовке.
// Идентичность позиции — пара (productId, weightGrams); добавление той же пары
// увеличивает количество, а не создаёт новую строку. Цена фиксируется при добавлении
// и далее не пересчитывается.
type CartItem struct {
	ID            string `json:"id"`
	ProductID     string `json:"productId"`
	Name          string `json:"name"`
	WeightGrams   int    `json:"weightGrams"`
	UnitPrice     int64  `json:"unitPrice"`
	Quantity      int    `json:"quantity"`
	AddedAtMillis int64  `json:"addedAtMillis"`
}

// ItemID — составной ключ позиции: "<productId>_<weightGrams>".
func ItemID(productID string, weightGrams int) string {
	return productID + "_" + strconv.Itoa(weightGrams)
}

// Cart — упорядоченная последовательность позиций (порядок вставки = порядок показа).
type Cart []CartItem

// Clone — глубокая копия корзины, чтобы внешние изменения
// не отражались на каноническом состоянии.
func (c Cart) Clone() Cart {
	if c == nil {
		return nil
	}
	return append(Cart(nil), c...)
}

// Equal — структурное сравнение двух корзин (по значению, не по ссылке).
func (c Cart) Equal(other Cart) bool {
	if len(c) != len(other) {
		return false
	}
	for i := range c {
		if c[i] != other[i] {
			return false
		}
	}
	return true
}

// FindIndex — индекс позиции по ID; -1, если позиции нет.
func (c Cart) FindIndex(itemID string) int {
	for i := range c {
		if c[i].ID == itemID {
			return i
		}
	}
	return -1
}

// Subtotal — сумма unitPrice*quantity по всем позициям.
func (c Cart) Subtotal() int64 {
	var sum int64
	for i := range c {
		sum += c[i].UnitPrice * int64(c[i].Quantity)
	}
	return sum
}

// ItemCount — суммарное количество единиц товара в корзине.
func (c Cart) ItemCount() int {
	var n int
	for i := range c {
		n += c[i].Quantity
	}
	return n
}

func (c Cart) IsEmpty() bool { return len(c) == 0 }
