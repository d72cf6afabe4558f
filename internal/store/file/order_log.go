package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
	"github.com/salustyck/storefront/pkg/metrics"
)

var _ ports.OrderLog = (*OrderLog)(nil)

// OrderLog — журнал заказов в orders.json: JSON-массив, растущий только добавлением.
// Существующие записи никогда не изменяются; очистка корзины после оформления
// заказа журнал не трогает.
type OrderLog struct {
	path string
	log  ports.Logger
}

// NewOrderLog — конструктор; создаёт каталог состояния при необходимости.
func NewOrderLog(dir string, log ports.Logger) (*OrderLog, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &OrderLog{path: filepath.Join(dir, ordersFileName), log: log}, nil
}

// Append — дописать заказ в конец журнала.
func (l *OrderLog) Append(ctx context.Context, order *domain.Order) error {
	if order == nil {
		return fmt.Errorf("order log: nil order")
	}

	orders, err := l.List(ctx)
	if err != nil {
		metrics.StoreFaults.WithLabelValues("append").Inc()
		return fmt.Errorf("order log: read before append: %w", err)
	}
	orders = append(orders, *order)

	data, err := json.Marshal(orders)
	if err != nil {
		metrics.StoreFaults.WithLabelValues("append").Inc()
		return err
	}
	if err := writeAtomic(l.path, data); err != nil {
		metrics.StoreFaults.WithLabelValues("append").Inc()
		return err
	}

	metrics.OrdersSubmitted.Inc()
	return nil
}

// List — все записанные заказы в порядке добавления.
func (l *OrderLog) List(_ context.Context) ([]domain.Order, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}

	var orders []domain.Order
	if err := json.Unmarshal(data, &orders); err != nil {
		return nil, fmt.Errorf("order log: corrupt content: %w", err)
	}
	return orders, nil
}
