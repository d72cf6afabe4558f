package file

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
	"github.com/salustyck/storefront/pkg/metrics"
)

// Проверка, что CartStore удовлетворяет порту CartStore.
var _ ports.CartStore = (*CartStore)(nil)

// CartStore — долговременная копия корзины в cart.json.
type CartStore struct {
	path string
	log  ports.Logger
}

// NewCartStore — конструктор; создаёт каталог состояния при необходимости.
func NewCartStore(dir string, log ports.Logger) (*CartStore, error) {
	if err := ensureDir(dir); err != nil {
		return nil, err
	}
	return &CartStore{path: filepath.Join(dir, cartFileName), log: log}, nil
}

// Load — прочитать корзину.
// Отсутствие файла — пустая корзина. Битое содержимое — самовосстановление:
// трактуем как пустую корзину и перезаписываем ключ пустым представлением.
func (s *CartStore) Load(ctx context.Context) (domain.Cart, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domain.Cart{}, nil
		}
		metrics.StoreFaults.WithLabelValues("load").Inc()
		return nil, err
	}

	var cart domain.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		metrics.StoreFaults.WithLabelValues("load").Inc()
		s.log.Warnf(ctx, "cart store: corrupt content, resetting to empty: %v", err)

		empty := domain.Cart{}
		if saveErr := s.Save(ctx, empty); saveErr != nil {
			s.log.Errorf(ctx, "cart store: self-heal save failed: %v", saveErr)
		}
		return empty, nil
	}
	return cart, nil
}

// Save — записать корзину целиком (атомарно).
func (s *CartStore) Save(_ context.Context, cart domain.Cart) error {
	if cart == nil {
		cart = domain.Cart{}
	}
	data, err := json.Marshal(cart)
	if err != nil {
		metrics.StoreFaults.WithLabelValues("save").Inc()
		return err
	}
	if err := writeAtomic(s.path, data); err != nil {
		metrics.StoreFaults.WithLabelValues("save").Inc()
		return err
	}
	return nil
}

// Erase — стереть долговременную копию; отсутствие ключа — не ошибка.
func (s *CartStore) Erase(_ context.Context) error {
	if err := os.Remove(s.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		metrics.StoreFaults.WithLabelValues("erase").Inc()
		return err
	}
	return nil
}

// Path — расположение ключа (нужно Watcher-у и тестам).
func (s *CartStore) Path() string { return s.path }
