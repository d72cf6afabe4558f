package checkout

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/salustyck/storefront/internal/domain"
	"github.com/salustyck/storefront/internal/ports"
)

// State — состояние кассы.
type State string

const (
	StateIdle          State = "idle"
	StateReviewingCart State = "reviewing_cart"
	StateFillingForm   State = "filling_form"
	StateSubmitting    State = "submitting"
	StateConfirmed     State = "confirmed"
	StateCancelled     State = "cancelled"
)

var (
	// ErrEmptyCart — оформление заказа с пустой корзиной отклонено.
	ErrEmptyCart = errors.New("checkout: cart is empty")
	// ErrInvalidState — операция не допускается в текущем состоянии.
	ErrInvalidState = errors.New("checkout: operation not allowed in current state")
	// ErrInvalidForm — форма не прошла клиентскую валидацию.
	ErrInvalidForm = errors.New("checkout: order form is invalid")
	// ErrNotCancellable — отправка уже началась и не отменяется.
	ErrNotCancellable = errors.New("checkout: submission already in progress")
)

// cartService — контракт на менеджер корзины (подменяется в тестах).
type cartService interface {
	Snapshot() domain.Cart
	Totals() domain.Totals
	Policy() domain.ShippingPolicy
	Clear(ctx context.Context) error
}

// Config — параметры кассы.
type Config struct {
	// ProcessingDelay — длительность имитации обработки заказа (ориентир: 2 с).
	ProcessingDelay time.Duration
	// ConfirmDisplay — время показа подтверждения до автосброса (ориентир: 5 с).
	ConfirmDisplay time.Duration
}

// Machine — касса: Idle → ReviewingCart → FillingForm → Submitting → Confirmed,
// Cancelled достижимо из досубмитных состояний. Суммы считаются той же точкой,
// что и у корзины; заказ становится независимым от корзины после записи в журнал.
type Machine struct {
	cart      cartService
	orders    ports.OrderLog
	validator ports.FormValidator
	log       ports.Logger

	processingDelay time.Duration
	confirmDisplay  time.Duration
	now             func() time.Time

	mu           sync.Mutex
	state        State
	totals       domain.Totals
	lastOrder    *domain.Order
	confirmTimer *time.Timer
}

// NewMachine — DI-конструктор.
func NewMachine(cfg Config, cart cartService, orders ports.OrderLog, validator ports.FormValidator, log ports.Logger) *Machine {
	delay := cfg.ProcessingDelay
	if delay < 0 {
		delay = 0
	}
	display := cfg.ConfirmDisplay
	if display <= 0 {
		display = 5 * time.Second
	}

	return &Machine{
		cart:            cart,
		orders:          orders,
		validator:       validator,
		log:             log,
		processingDelay: delay,
		confirmDisplay:  display,
		now:             time.Now,
		state:           StateIdle,
	}
}

// State — текущее состояние.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Totals — суммы, зафиксированные при переходе к форме (нулевые до него).
func (m *Machine) Totals() domain.Totals {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.totals
}

// LastOrder — последний подтверждённый заказ (nil, если его не было).
func (m *Machine) LastOrder() *domain.Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastOrder
}

// Start — запрос оформления: Idle → ReviewingCart.
// Пустая корзина отклоняется, состояние не меняется.
func (m *Machine) Start(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateIdle && m.state != StateCancelled {
		return fmt.Errorf("%w: start from %s", ErrInvalidState, m.state)
	}
	if m.cart.Snapshot().IsEmpty() {
		m.log.Warnf(ctx, "checkout rejected: cart is empty")
		return ErrEmptyCart
	}

	m.state = StateReviewingCart
	m.log.Infof(ctx, "checkout started")
	return nil
}

// Proceed — ReviewingCart → FillingForm; суммы фиксируются той же формулой,
// что и для показа корзины. Если корзина успела опустеть — возврат в Idle.
func (m *Machine) Proceed(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state != StateReviewingCart {
		return fmt.Errorf("%w: proceed from %s", ErrInvalidState, m.state)
	}
	if m.cart.Snapshot().IsEmpty() {
		m.state = StateIdle
		m.log.Warnf(ctx, "checkout aborted: cart emptied during review")
		return ErrEmptyCart
	}

	m.totals = m.cart.Totals()
	m.state = StateFillingForm
	return nil
}

// Submit — FillingForm → Submitting → Confirmed.
// Невалидная форма оставляет состояние FillingForm и возвращает ошибки по полям.
// Имитация обработки выполняется без удержания мьютекса; ошибка записи журнала
// возвращает кассу в FillingForm, корзина при этом не очищается.
func (m *Machine) Submit(ctx context.Context, form *domain.OrderForm) (*domain.Order, ports.FieldErrors, error) {
	m.mu.Lock()
	if m.state != StateFillingForm {
		state := m.state
		m.mu.Unlock()
		return nil, nil, fmt.Errorf("%w: submit from %s", ErrInvalidState, state)
	}

	if fieldErrs := m.validator.Validate(ctx, form); len(fieldErrs) > 0 {
		m.mu.Unlock()
		return nil, fieldErrs, ErrInvalidForm
	}

	// Снимок и суммы фиксируются вместе до входа в Submitting: изменения
	// корзины во время обработки на заказ уже не влияют.
	items := m.cart.Snapshot()
	if items.IsEmpty() {
		m.state = StateIdle
		m.mu.Unlock()
		return nil, nil, ErrEmptyCart
	}
	totals := domain.ComputeTotals(items, m.cart.Policy())

	m.state = StateSubmitting
	m.mu.Unlock()

	if err := m.sleepProcessing(ctx); err != nil {
		// Процесс останавливается; заказ не записан, корзина цела.
		m.setState(StateFillingForm)
		return nil, nil, err
	}

	now := m.now()
	order := &domain.Order{
		OrderUID:  uuid.NewString(),
		Reference: newReference(now),
		Items:     domain.CloneItems(items),
		Totals:    totals,
		Customer:  *form,
		CreatedAt: now,
	}

	if err := m.orders.Append(ctx, order); err != nil {
		m.log.Errorf(ctx, "order append failed ref=%s: %v", order.Reference, err)
		m.setState(StateFillingForm)
		return nil, nil, fmt.Errorf("submit order: %w", err)
	}

	// Заказ уже в журнале: ошибка очистки корзины не отменяет подтверждение.
	if err := m.cart.Clear(ctx); err != nil {
		m.log.Warnf(ctx, "cart clear after order failed ref=%s: %v", order.Reference, err)
	}

	m.mu.Lock()
	m.state = StateConfirmed
	m.lastOrder = order
	m.confirmTimer = time.AfterFunc(m.confirmDisplay, m.autoDismiss)
	m.mu.Unlock()

	m.log.Infof(ctx, "order confirmed ref=%s uid=%s total=%d", order.Reference, order.OrderUID, order.Totals.GrandTotal)
	return order, nil, nil
}

// Cancel — прерывание пользователем из досубмитного состояния; без
// долговременных эффектов. Начавшаяся отправка не отменяется.
func (m *Machine) Cancel(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateReviewingCart, StateFillingForm:
		m.state = StateCancelled
		m.totals = domain.Totals{}
		m.log.Infof(ctx, "checkout cancelled")
		return nil
	case StateSubmitting:
		return ErrNotCancellable
	default:
		return fmt.Errorf("%w: cancel from %s", ErrInvalidState, m.state)
	}
}

// Dismiss — ручное закрытие подтверждения (или сброс Cancelled): → Idle.
func (m *Machine) Dismiss() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	switch m.state {
	case StateConfirmed, StateCancelled:
		if m.confirmTimer != nil {
			m.confirmTimer.Stop()
			m.confirmTimer = nil
		}
		m.state = StateIdle
		m.totals = domain.Totals{}
		return nil
	default:
		return fmt.Errorf("%w: dismiss from %s", ErrInvalidState, m.state)
	}
}

// autoDismiss — автосброс подтверждения по таймеру показа.
func (m *Machine) autoDismiss() {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateConfirmed {
		m.state = StateIdle
		m.totals = domain.Totals{}
		m.confirmTimer = nil
	}
}

func (m *Machine) setState(s State) {
	m.mu.Lock()
	m.state = s
	m.mu.Unlock()
}

// sleepProcessing — имитация асинхронной обработки заказа с уважением контекста.
func (m *Machine) sleepProcessing(ctx context.Context) error {
	if m.processingDelay <= 0 {
		return nil
	}
	timer := time.NewTimer(m.processingDelay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// newReference — человекочитаемый номер заказа: SS-<base36 millis>-<суффикс>.
// Уникальность обеспечивает OrderUID (UUID), номер — только для покупателя.
func newReference(now time.Time) string {
	ts := strings.ToUpper(strconv.FormatInt(now.UnixMilli(), 36))
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", "")[:5])
	return "SS-" + ts + "-" + suffix
}
