package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
	"github.com/salustyck/storefront/internal/pricing"
	"github.com/salustyck/storefront/pkg/metrics"
)

// ErrBusy — мутация отклонена: предыдущая мутация ещё не завершила запись.
// Гард защищает от потерянного обновления между изменением памяти и записью;
// межвкладочные гонки он не закрывает — там сходимость обеспечивает цикл сверки.
var ErrBusy = errors.New("cart mutation already in flight")

// CartManager — владелец канонической корзины в памяти этой «вкладки».
// Каждая мутация: изменение памяти → запись в хранилище → уведомление наблюдателей
// (строго в этом порядке). Ошибка записи не фатальна: память остаётся источником
// истины, повтор — на следующей мутации или цикле сверки.
type CartManager struct {
	store  ports.CartStore
	log    ports.Logger
	policy domain.ShippingPolicy
	now    func() time.Time

	mu   sync.Mutex
	cart domain.Cart

	inFlight atomic.Bool

	obsMu     sync.Mutex
	observers []ports.CartObserver
}

// NewCartManager — DI-конструктор.
func NewCartManager(store ports.CartStore, log ports.Logger, policy domain.ShippingPolicy) *CartManager {
	return &CartManager{
		store:  store,
		log:    log,
		policy: policy,
		now:    time.Now,
		cart:   domain.Cart{},
	}
}

// Subscribe — подписать наблюдателя на изменения корзины.
func (m *CartManager) Subscribe(obs ports.CartObserver) {
	if obs == nil {
		return
	}
	m.obsMu.Lock()
	m.observers = append(m.observers, obs)
	m.obsMu.Unlock()
}

// AddItem — добавить товар в выбранной фасовке. Цена считается один раз
// и замораживается на позиции; та же пара (productId, weightGrams)
// увеличивает количество существующей строки.
func (m *CartManager) AddItem(ctx context.Context, productID, name string, weightGrams int) error {
	if productID == "" {
		return fmt.Errorf("add item: empty product id")
	}
	if weightGrams <= 0 {
		return fmt.Errorf("add item: non-positive weight %d", weightGrams)
	}

	itemID := domain.ItemID(productID, weightGrams)
	unitPrice := pricing.Price(productID, weightGrams)
	addedAt := m.now().UnixMilli()

	return m.mutate(ctx, "add", func(cart domain.Cart) (domain.Cart, bool) {
		if i := cart.FindIndex(itemID); i >= 0 {
			cart[i].Quantity++
			return cart, true
		}
		return append(cart, domain.CartItem{
			ID:            itemID,
			ProductID:     productID,
			Name:          name,
			WeightGrams:   weightGrams,
			UnitPrice:     unitPrice,
			Quantity:      1,
			AddedAtMillis: addedAt,
		}), true
	})
}

// UpdateQuantity — изменить количество на delta (может быть отрицательным).
// Результат ≤ 0 удаляет позицию целиком; неизвестный id — no-op.
func (m *CartManager) UpdateQuantity(ctx context.Context, itemID string, delta int) error {
	return m.mutate(ctx, "update", func(cart domain.Cart) (domain.Cart, bool) {
		i := cart.FindIndex(itemID)
		if i < 0 {
			return cart, false
		}
		cart[i].Quantity += delta
		if cart[i].Quantity <= 0 {
			return append(cart[:i], cart[i+1:]...), true
		}
		return cart, true
	})
}

// RemoveItem — удалить позицию; неизвестный id — no-op.
func (m *CartManager) RemoveItem(ctx context.Context, itemID string) error {
	return m.mutate(ctx, "remove", func(cart domain.Cart) (domain.Cart, bool) {
		i := cart.FindIndex(itemID)
		if i < 0 {
			return cart, false
		}
		return append(cart[:i], cart[i+1:]...), true
	})
}

// Clear — опустошить корзину и стереть долговременную копию.
// Уже пустая корзина — no-op без записи.
func (m *CartManager) Clear(ctx context.Context) error {
	if !m.inFlight.CompareAndSwap(false, true) {
		metrics.CartOps.WithLabelValues("rejected").Inc()
		return ErrBusy
	}
	defer m.inFlight.Store(false)

	m.mu.Lock()
	if m.cart.IsEmpty() {
		m.mu.Unlock()
		return nil
	}
	m.cart = domain.Cart{}
	m.mu.Unlock()

	metrics.CartOps.WithLabelValues("clear").Inc()
	metrics.CartItems.Set(0)

	if err := m.store.Erase(ctx); err != nil {
		m.log.Warnf(ctx, "cart erase failed (memory stays authoritative): %v", err)
	}
	m.notify(ctx, domain.Cart{})
	return nil
}

// Snapshot — копия текущей корзины.
func (m *CartManager) Snapshot() domain.Cart {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cart.Clone()
}

// Totals — суммы по текущей корзине (единая точка расчёта с кассой).
func (m *CartManager) Totals() domain.Totals {
	return domain.ComputeTotals(m.Snapshot(), m.policy)
}

// Policy — действующая политика доставки.
func (m *CartManager) Policy() domain.ShippingPolicy { return m.policy }

// ReplaceFromStore — заместить корзину целиком снимком из хранилища
// (используется циклом сверки). Возвращает true, если состояние изменилось;
// наблюдателей не уведомляет — решение об обновлении экрана за вызывающим.
func (m *CartManager) ReplaceFromStore(cart domain.Cart) bool {
	if cart == nil {
		cart = domain.Cart{}
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.cart.Equal(cart) {
		return false
	}
	m.cart = cart.Clone()
	metrics.CartItems.Set(float64(len(m.cart)))
	return true
}

// Notify — разослать наблюдателям текущий снимок и суммы.
func (m *CartManager) Notify(ctx context.Context) {
	m.notify(ctx, m.Snapshot())
}

// mutate — общий путь мутации: гард повторного входа, изменение памяти,
// запись, уведомление. Гард снимается безусловно, в том числе при ошибке записи.
func (m *CartManager) mutate(ctx context.Context, op string, apply func(domain.Cart) (domain.Cart, bool)) error {
	if !m.inFlight.CompareAndSwap(false, true) {
		metrics.CartOps.WithLabelValues("rejected").Inc()
		return ErrBusy
	}
	defer m.inFlight.Store(false)

	m.mu.Lock()
	next, changed := apply(m.cart.Clone())
	if !changed {
		m.mu.Unlock()
		return nil
	}
	m.cart = next
	snapshot := m.cart.Clone()
	m.mu.Unlock()

	metrics.CartOps.WithLabelValues(op).Inc()
	metrics.CartItems.Set(float64(len(snapshot)))

	// Сначала запись, потом уведомление.
	if err := m.store.Save(ctx, snapshot); err != nil {
		m.log.Warnf(ctx, "cart save failed op=%s (memory stays authoritative): %v", op, err)
	}
	m.notify(ctx, snapshot)
	return nil
}

func (m *CartManager) notify(ctx context.Context, snapshot domain.Cart) {
	totals := domain.ComputeTotals(snapshot, m.policy)

	m.obsMu.Lock()
	observers := append([]ports.CartObserver(nil), m.observers...)
	m.obsMu.Unlock()

	for _, obs := range observers {
		obs.OnCartChanged(ctx, snapshot.Clone(), totals)
	}
}
